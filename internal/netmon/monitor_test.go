package netmon

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleNetstat = `Name  Mtu   Network       Address            Ipkts Ierrs    Opkts Oerrs  Coll
lo0   16384 <Link#1>                         26815     0    26815     0     0
en0   1500  <Link#14>     f4:d4:88:8a:23:8c 941872     0   377103     0     0
en0   1500  192.168.1     192.168.1.42      941872     -   377103     -     -
`

const samplePS = `USER   PID  %CPU %MEM COMMAND
root     1   0.0  0.1 /sbin/launchd
alice  421   0.3  0.5 /usr/sbin/bluetoothd
alice  987   1.2  0.8 ./bitchat --mesh
alice 1044   0.0  0.2 /bin/zsh
`

func TestParseInterfaces(t *testing.T) {
	t.Run("parses interface rows", func(t *testing.T) {
		interfaces := ParseInterfaces(sampleNetstat)
		require.Len(t, interfaces, 3)

		assert.Equal(t, "lo0", interfaces[0].Name)
		assert.Equal(t, 16384, interfaces[0].MTU)
		assert.Equal(t, int64(26815), interfaces[0].PacketsIn)
		assert.Equal(t, int64(26815), interfaces[0].PacketsOut)

		assert.Equal(t, "en0", interfaces[1].Name)
		assert.Equal(t, "f4:d4:88:8a:23:8c", interfaces[1].Address)
	})

	t.Run("skips malformed rows", func(t *testing.T) {
		assert.Empty(t, ParseInterfaces("Name Mtu\nen0 broken\n"))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, ParseInterfaces(""))
	})
}

func TestFilterProcesses(t *testing.T) {
	t.Run("matches keywords case-insensitively", func(t *testing.T) {
		matches := FilterProcesses(samplePS, []string{"bitchat", "Bluetooth"})
		require.Len(t, matches, 2)
		assert.Contains(t, matches[0], "bluetoothd")
		assert.Contains(t, matches[1], "bitchat")
	})

	t.Run("no keywords match", func(t *testing.T) {
		assert.Empty(t, FilterProcesses(samplePS, []string{"postgres"}))
	})
}

func TestMonitor(t *testing.T) {
	t.Run("interfaces via runner", func(t *testing.T) {
		m := NewWithRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
			assert.Equal(t, "netstat", name)
			assert.Equal(t, []string{"-i"}, args)
			return []byte(sampleNetstat), nil
		})

		interfaces, err := m.Interfaces(context.Background())
		require.NoError(t, err)
		assert.Len(t, interfaces, 3)
	})

	t.Run("matching processes via runner", func(t *testing.T) {
		m := NewWithRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
			assert.Equal(t, "ps", name)
			return []byte(samplePS), nil
		})

		procs, err := m.MatchingProcesses(context.Background())
		require.NoError(t, err)
		assert.Len(t, procs, 2)
	})

	t.Run("runner failure is wrapped", func(t *testing.T) {
		m := NewWithRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return nil, errors.New("exec format error")
		})

		_, err := m.Interfaces(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "network activity")
	})

	t.Run("scan counter", func(t *testing.T) {
		m := New()
		assert.Equal(t, 0, m.Scans())
		assert.Equal(t, 1, m.RecordScan())
		assert.Equal(t, 2, m.RecordScan())
		assert.Equal(t, 2, m.Scans())
	})
}

func TestSimulateNode(t *testing.T) {
	sim, err := SimulateNode()
	require.NoError(t, err)
	defer sim.Close()

	assert.Greater(t, sim.Port(), 0)
}
