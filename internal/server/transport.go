package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/skerns321/bitchat-mcp/internal/protocol"
)

// maxLineSize bounds a single JSON-RPC frame. Tool results carry pretty
// printed JSON blobs but never anywhere near this.
const maxLineSize = 10 * 1024 * 1024

type initializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    map[string]any     `json:"capabilities"`
	ServerInfo      mcp.Implementation `json:"serverInfo"`
}

type callToolParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

type readResourceParams struct {
	URI string `json:"uri"`
}

type getPromptParams struct {
	Name      string            `json:"name"`
	Arguments map[string]string `json:"arguments"`
}

// Serve reads newline-delimited JSON-RPC messages from r and writes
// responses to w until r is exhausted or ctx is cancelled. Notifications
// are consumed without a reply.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	var writeMu sync.Mutex
	respond := func(msg *protocol.Message) error {
		data, err := msg.Serialize()
		if err != nil {
			return fmt.Errorf("serialize response: %w", err)
		}
		writeMu.Lock()
		defer writeMu.Unlock()
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
		return nil
	}

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		msg, err := protocol.ParseMessage(line)
		if err != nil {
			s.logger.Warn("skipping malformed message", "error", err)
			continue
		}

		if msg.IsNotification() {
			s.logger.Debug("notification received", "method", msg.Method)
			continue
		}
		if !msg.IsRequest() {
			continue
		}

		resp := s.handleRequest(ctx, msg)
		if err := respond(resp); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read transport: %w", err)
	}
	return nil
}

// result wraps a success payload, falling back to an internal error
// response when the payload cannot be marshalled.
func (s *Server) result(id json.RawMessage, payload any) *protocol.Message {
	resp, err := protocol.NewResponse(id, payload)
	if err != nil {
		s.logger.Error("marshal result", "error", err)
		return protocol.NewErrorResponse(id, protocol.CodeInternalError, "internal error")
	}
	return resp
}

func (s *Server) handleRequest(ctx context.Context, msg *protocol.Message) *protocol.Message {
	s.logger.Debug("request received", "method", msg.Method)

	switch msg.Method {
	case "initialize":
		return s.result(msg.ID, initializeResult{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			Capabilities: map[string]any{
				"tools":     map[string]any{},
				"resources": map[string]any{},
				"prompts":   map[string]any{},
			},
			ServerInfo: mcp.Implementation{Name: s.name, Version: s.version},
		})

	case "ping":
		return s.result(msg.ID, map[string]any{})

	case "tools/list":
		return s.result(msg.ID, s.ListTools())

	case "tools/call":
		var params callToolParams
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return protocol.NewErrorResponse(msg.ID, protocol.CodeInvalidRequest, "invalid tools/call params")
		}
		return s.result(msg.ID, s.CallTool(ctx, params.Name, params.Arguments))

	case "resources/list":
		return s.result(msg.ID, s.ListResources())

	case "resources/read":
		var params readResourceParams
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return protocol.NewErrorResponse(msg.ID, protocol.CodeInvalidRequest, "invalid resources/read params")
		}
		return s.result(msg.ID, s.ReadResource(ctx, params.URI))

	case "prompts/list":
		return s.result(msg.ID, s.ListPrompts())

	case "prompts/get":
		var params getPromptParams
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return protocol.NewErrorResponse(msg.ID, protocol.CodeInvalidRequest, "invalid prompts/get params")
		}
		return s.result(msg.ID, s.GetPrompt(ctx, params.Name, params.Arguments))

	default:
		return protocol.NewErrorResponse(msg.ID, protocol.CodeMethodNotFound,
			fmt.Sprintf("method not found: %s", msg.Method))
	}
}
