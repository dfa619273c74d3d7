package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotatingWriter(t *testing.T) {
	t.Run("writes to file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "server.log")

		rw, err := NewRotatingWriter(path, 1024, time.Hour)
		require.NoError(t, err)
		defer rw.Close()

		_, err = rw.Write([]byte("hello\n"))
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "hello\n", string(data))
	})

	t.Run("rotates at size limit", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "server.log")

		rw, err := NewRotatingWriter(path, 32, time.Hour)
		require.NoError(t, err)
		defer rw.Close()

		line := []byte(strings.Repeat("x", 20) + "\n")
		_, err = rw.Write(line)
		require.NoError(t, err)
		_, err = rw.Write(line) // exceeds 32 bytes, forces rotation
		require.NoError(t, err)

		_, err = os.Stat(path + ".1")
		require.NoError(t, err, "rotated file should exist")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, string(line), string(data))
	})

	t.Run("appends to existing file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "server.log")
		require.NoError(t, os.WriteFile(path, []byte("old\n"), 0600))

		rw, err := NewRotatingWriter(path, 1024, time.Hour)
		require.NoError(t, err)
		defer rw.Close()

		_, err = rw.Write([]byte("new\n"))
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "old\nnew\n", string(data))
	})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestSetup(t *testing.T) {
	dir := t.TempDir()

	logger, cleanup, err := Setup(filepath.Join(dir, "logs"), slog.LevelInfo)
	require.NoError(t, err)
	defer cleanup()

	logger.Info("server starting", "transport", "stdio")

	data, err := os.ReadFile(filepath.Join(dir, "logs", "server.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"transport":"stdio"`)
}
