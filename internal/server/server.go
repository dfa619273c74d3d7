// Package server implements the mock bitchat MCP server: a name-keyed
// dispatch table of tool, resource, and prompt handlers behind a
// newline-delimited JSON-RPC stdio transport. Handlers return canned or
// lightly parameterized payloads; nothing here touches a real radio.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
)

type ToolHandler func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error)

type ResourceHandler func(ctx context.Context, uri string) (*mcp.ReadResourceResult, error)

type PromptHandler func(ctx context.Context, args map[string]string) (*mcp.GetPromptResult, error)

// Server holds the dispatch tables. Registration order is preserved for
// list operations.
type Server struct {
	name    string
	version string
	logger  *slog.Logger

	mu               sync.RWMutex
	tools            []mcp.Tool
	toolHandlers     map[string]ToolHandler
	resources        []mcp.Resource
	resourceHandlers map[string]ResourceHandler
	prompts          []mcp.Prompt
	promptHandlers   map[string]PromptHandler
}

func New(name, version string, logger *slog.Logger) *Server {
	return &Server{
		name:             name,
		version:          version,
		logger:           logger,
		toolHandlers:     make(map[string]ToolHandler),
		resourceHandlers: make(map[string]ResourceHandler),
		promptHandlers:   make(map[string]PromptHandler),
	}
}

func (s *Server) AddTool(tool mcp.Tool, handler ToolHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.toolHandlers[tool.Name]; !exists {
		s.tools = append(s.tools, tool)
	}
	s.toolHandlers[tool.Name] = handler
}

func (s *Server) AddResource(resource mcp.Resource, handler ResourceHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.resourceHandlers[resource.URI]; !exists {
		s.resources = append(s.resources, resource)
	}
	s.resourceHandlers[resource.URI] = handler
}

func (s *Server) AddPrompt(prompt mcp.Prompt, handler PromptHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.promptHandlers[prompt.Name]; !exists {
		s.prompts = append(s.prompts, prompt)
	}
	s.promptHandlers[prompt.Name] = handler
}

func (s *Server) ListTools() *mcp.ListToolsResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tools := make([]mcp.Tool, len(s.tools))
	copy(tools, s.tools)
	return &mcp.ListToolsResult{Tools: tools}
}

// CallTool dispatches a tool call by name. Unknown names and handler
// failures both come back as successful-shaped text results; clients
// treat payloads as display text, not typed data.
func (s *Server) CallTool(ctx context.Context, name string, args map[string]any) (result *mcp.CallToolResult) {
	s.mu.RLock()
	handler, ok := s.toolHandlers[name]
	s.mu.RUnlock()

	if !ok {
		s.logger.Warn("unknown tool requested", "tool", name)
		return mcp.NewToolResultText(fmt.Sprintf("Unknown tool: %s", name))
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("tool handler panicked", "tool", name, "panic", r)
			result = mcp.NewToolResultText(fmt.Sprintf("Error: %v", r))
		}
	}()

	result, err := handler(ctx, args)
	if err != nil {
		s.logger.Error("tool handler failed", "tool", name, "error", err)
		return mcp.NewToolResultText(fmt.Sprintf("Error: %s", err))
	}
	return result
}

func (s *Server) ListResources() *mcp.ListResourcesResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	resources := make([]mcp.Resource, len(s.resources))
	copy(resources, s.resources)
	return &mcp.ListResourcesResult{Resources: resources}
}

// ReadResource dispatches a resource read by URI. Unknown URIs return a
// descriptive text body rather than failing the transport.
func (s *Server) ReadResource(ctx context.Context, uri string) (result *mcp.ReadResourceResult) {
	s.mu.RLock()
	handler, ok := s.resourceHandlers[uri]
	s.mu.RUnlock()

	if !ok {
		s.logger.Warn("unknown resource requested", "uri", uri)
		return textResource(uri, "text/plain", fmt.Sprintf("Unknown resource: %s", uri))
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("resource handler panicked", "uri", uri, "panic", r)
			result = textResource(uri, "text/plain", fmt.Sprintf("Error: %v", r))
		}
	}()

	result, err := handler(ctx, uri)
	if err != nil {
		s.logger.Error("resource handler failed", "uri", uri, "error", err)
		return textResource(uri, "text/plain", fmt.Sprintf("Error: %s", err))
	}
	return result
}

func (s *Server) ListPrompts() *mcp.ListPromptsResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	prompts := make([]mcp.Prompt, len(s.prompts))
	copy(prompts, s.prompts)
	return &mcp.ListPromptsResult{Prompts: prompts}
}

// GetPrompt dispatches a prompt by name. Unknown names yield a result
// whose description names the missing prompt and no messages.
func (s *Server) GetPrompt(ctx context.Context, name string, args map[string]string) (result *mcp.GetPromptResult) {
	s.mu.RLock()
	handler, ok := s.promptHandlers[name]
	s.mu.RUnlock()

	if !ok {
		s.logger.Warn("unknown prompt requested", "prompt", name)
		return mcp.NewGetPromptResult(fmt.Sprintf("Unknown prompt: %s", name), nil)
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("prompt handler panicked", "prompt", name, "panic", r)
			result = mcp.NewGetPromptResult(fmt.Sprintf("Error: %v", r), nil)
		}
	}()

	result, err := handler(ctx, args)
	if err != nil {
		s.logger.Error("prompt handler failed", "prompt", name, "error", err)
		return mcp.NewGetPromptResult(fmt.Sprintf("Error: %s", err), nil)
	}
	return result
}

func textResource(uri, mimeType, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []mcp.ResourceContents{
			mcp.TextResourceContents{URI: uri, MIMEType: mimeType, Text: text},
		},
	}
}

func prettyJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

// userMessage wraps text as a single user-role prompt message.
func userMessage(text string) []mcp.PromptMessage {
	return []mcp.PromptMessage{
		{
			Role:    mcp.RoleUser,
			Content: mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// Argument helpers: tool arguments arrive as loosely typed JSON.

func argString(args map[string]any, key, fallback string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return fallback
}

func argBool(args map[string]any, key string, fallback bool) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return fallback
}

func argInt(args map[string]any, key string, fallback int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return fallback
	}
}
