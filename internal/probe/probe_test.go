package probe

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skerns321/bitchat-mcp/internal/logging"
	"github.com/skerns321/bitchat-mcp/internal/protocol"
	"github.com/skerns321/bitchat-mcp/internal/server"
)

// startServer wires a server over in-memory pipes and returns a client
// connected to it.
func startServer(t *testing.T, s *server.Server) *Client {
	t.Helper()
	clientReader, serverWriter := io.Pipe()
	serverReader, clientWriter := io.Pipe()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Serve(ctx, serverReader, serverWriter)
	}()
	t.Cleanup(func() {
		cancel()
		clientWriter.Close()
		serverReader.Close()
		<-done
		serverWriter.Close()
	})
	return NewClient(clientReader, clientWriter)
}

func fullServer() *server.Server {
	s := server.New("bitchat-mcp-server", "1.0.0", logging.Discard())
	server.RegisterCoreTools(s)
	server.RegisterMeshTools(s)
	server.RegisterResources(s)
	server.RegisterPrompts(s)
	return s
}

func TestCheckAgainstFullServer(t *testing.T) {
	c := startServer(t, fullServer())
	report := Check(context.Background(), c, 5*time.Second)

	require.Len(t, report.Steps, 4)
	assert.True(t, report.Passed(), "report: %s", report.Summary())
	assert.Equal(t, "initialize", report.Steps[0].Name)
	assert.Contains(t, report.Steps[0].Detail, "bitchat-mcp-server")
	assert.Contains(t, report.Steps[1].Detail, "7 tools")
	assert.Contains(t, report.Steps[3].Detail, "6 resources")
}

func TestCheckFlagsEmptyToolSet(t *testing.T) {
	s := server.New("bitchat-mcp-server", "1.0.0", logging.Discard())
	c := startServer(t, s)
	report := Check(context.Background(), c, 5*time.Second)

	assert.False(t, report.Passed())
	assert.True(t, report.Steps[0].OK, "initialize should still pass")
	assert.False(t, report.Steps[1].OK)
	assert.Contains(t, report.Steps[1].Detail, "no tools")
}

func TestClientCall(t *testing.T) {
	c := startServer(t, fullServer())

	t.Run("successful call", func(t *testing.T) {
		msg, err := c.Call(context.Background(), "tools/list", nil)
		require.NoError(t, err)
		assert.Contains(t, string(msg.Result), "mesh_monitor")
	})

	t.Run("error response surfaces as error", func(t *testing.T) {
		_, err := c.Call(context.Background(), "tools/unsubscribe", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "tools/unsubscribe")
	})
}

// withheldReplyServer reads two requests, replying only to the second;
// with lateReply it also answers the first request's id just before the
// second, exercising the client's id matching.
func withheldReplyServer(t *testing.T, lateReply bool) *Client {
	t.Helper()
	clientReader, serverWriter := io.Pipe()
	serverReader, clientWriter := io.Pipe()
	t.Cleanup(func() {
		clientWriter.Close()
		serverReader.Close()
		serverWriter.Close()
	})

	respond := func(id json.RawMessage, seq int) {
		resp, err := protocol.NewResponse(id, map[string]any{"seq": seq})
		if err != nil {
			return
		}
		data, err := resp.Serialize()
		if err != nil {
			return
		}
		serverWriter.Write(append(data, '\n'))
	}

	go func() {
		scanner := bufio.NewScanner(serverReader)
		if !scanner.Scan() {
			return
		}
		first, err := protocol.ParseMessage(scanner.Bytes())
		if err != nil {
			return
		}
		firstID := append(json.RawMessage(nil), first.ID...)
		if !scanner.Scan() {
			return
		}
		second, err := protocol.ParseMessage(scanner.Bytes())
		if err != nil {
			return
		}
		if lateReply {
			respond(firstID, 1)
		}
		respond(second.ID, 2)
	}()
	return NewClient(clientReader, clientWriter)
}

func TestCallAfterTimedOutRequest(t *testing.T) {
	c := withheldReplyServer(t, false)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.Call(ctx, "tools/list", nil)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	msg, err := c.Call(context.Background(), "resources/list", nil)
	require.NoError(t, err)
	assert.Contains(t, string(msg.Result), `"seq":2`)
}

func TestCallDiscardsReplyToAbandonedRequest(t *testing.T) {
	c := withheldReplyServer(t, true)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.Call(ctx, "tools/list", nil)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	msg, err := c.Call(context.Background(), "resources/list", nil)
	require.NoError(t, err)
	assert.Contains(t, string(msg.Result), `"seq":2`)
}

func TestReportSummary(t *testing.T) {
	report := &Report{Steps: []Step{
		{Name: "initialize", OK: true, Detail: "bitchat-mcp-server 1.0.0"},
		{Name: "tools/list", OK: false, Detail: "read response for tools/list: EOF"},
	}}
	out := report.Summary()
	assert.Contains(t, out, "initialize:")
	assert.Contains(t, out, "OK (bitchat-mcp-server 1.0.0)")
	assert.Contains(t, out, "FAIL (read response for tools/list: EOF)")
	assert.False(t, report.Passed())
}

func TestReportPassedEmpty(t *testing.T) {
	assert.False(t, (&Report{}).Passed())
}
