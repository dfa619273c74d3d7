package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

const (
	DefaultServerName    = "bitchat-mcp-server"
	DefaultServerVersion = "1.0.0"
)

type Config struct {
	ServerName    string `json:"server_name,omitempty"`
	ServerVersion string `json:"server_version,omitempty"`
	LogLevel      string `json:"log_level,omitempty"`
	ScanInterval  string `json:"scan_interval,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		ServerName:    DefaultServerName,
		ServerVersion: DefaultServerVersion,
		LogLevel:      "info",
		ScanInterval:  "5s",
	}
}

func Load(path string) (*Config, error) {
	// Verify file permissions before reading (trust boundary check)
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if perm := info.Mode().Perm(); perm&0077 != 0 {
		return nil, fmt.Errorf("config file %s has insecure permissions %o (expected 0600). Fix with: chmod 600 %s", path, perm, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.ServerName == "" {
		cfg.ServerName = DefaultServerName
	}
	if cfg.ServerVersion == "" {
		cfg.ServerVersion = DefaultServerVersion
	}
	return &cfg, nil
}

// LoadOrDefault loads the config at path, falling back to defaults when
// the file does not exist. Other load failures are real errors.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	data = append(data, '\n')
	return AtomicWriteFile(path, data, 0600)
}

// ScanIntervalDuration parses the scan interval, falling back to 5s.
func (c *Config) ScanIntervalDuration() time.Duration {
	d, err := time.ParseDuration(c.ScanInterval)
	if err != nil || d <= 0 {
		return 5 * time.Second
	}
	return d
}
