package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ServerEntry is an mcpServers entry in an MCP client config file.
type ServerEntry struct {
	Command string            `json:"command"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
}

// ClientInfo describes a detected MCP client configuration file.
type ClientInfo struct {
	Name    string                  // Human-readable client name (e.g. "Claude Desktop")
	Path    string                  // Absolute path to config file
	Servers map[string]*ServerEntry // Parsed MCP server definitions
}

// DetectClients detects all MCP client configs using the real home directory.
func DetectClients() []ClientInfo {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return DetectClientsIn(home)
}

// DetectClientsIn detects MCP client configs relative to the given home directory.
func DetectClientsIn(home string) []ClientInfo {
	var clients []ClientInfo

	candidates := []struct {
		name string
		path string
	}{
		{"Claude Code", filepath.Join(home, ".claude.json")},
		{"Cursor", filepath.Join(home, ".cursor", "mcp.json")},
	}

	if runtime.GOOS == "darwin" {
		candidates = append(candidates, struct {
			name string
			path string
		}{
			"Claude Desktop",
			filepath.Join(home, "Library", "Application Support", "Claude", "claude_desktop_config.json"),
		})
	}

	for _, c := range candidates {
		servers, err := parseClientConfig(c.path)
		if err != nil {
			continue
		}
		clients = append(clients, ClientInfo{
			Name:    c.name,
			Path:    c.path,
			Servers: servers,
		})
	}

	return clients
}

// parseClientConfig reads an MCP client config file and extracts mcpServers.
func parseClientConfig(path string) (map[string]*ServerEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	serversJSON, ok := raw["mcpServers"]
	if !ok {
		return map[string]*ServerEntry{}, nil
	}

	var servers map[string]*ServerEntry
	if err := json.Unmarshal(serversJSON, &servers); err != nil {
		return nil, err
	}
	return servers, nil
}

// HasServer reports whether the client config references a server whose
// command mentions binName (path or bare name).
func (c ClientInfo) HasServer(binName string) bool {
	for _, entry := range c.Servers {
		if entry != nil && strings.Contains(entry.Command, binName) {
			return true
		}
	}
	return false
}

// RegisterServer adds (or replaces) a server entry in a client config
// file, preserving all other fields, and writes the result atomically.
func RegisterServer(path, serverName string, entry *ServerEntry) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read client config: %w", err)
	}

	// Parse as generic JSON to preserve all fields
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse client config: %w", err)
	}

	servers := make(map[string]json.RawMessage)
	if serversJSON, ok := raw["mcpServers"]; ok {
		if err := json.Unmarshal(serversJSON, &servers); err != nil {
			return fmt.Errorf("parse mcpServers: %w", err)
		}
	}

	entryJSON, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal server entry: %w", err)
	}
	servers[serverName] = entryJSON

	newServersJSON, err := json.Marshal(servers)
	if err != nil {
		return fmt.Errorf("marshal mcpServers: %w", err)
	}
	raw["mcpServers"] = newServersJSON

	output, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	output = append(output, '\n')

	return AtomicWriteFile(path, output, 0600)
}
