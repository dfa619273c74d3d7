package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigLoadSave(t *testing.T) {
	t.Run("round-trip config", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.json")

		cfg := &Config{
			ServerName:    "bitchat-mcp-server",
			ServerVersion: "1.0.0",
			LogLevel:      "debug",
			ScanInterval:  "10s",
		}

		err := cfg.Save(path)
		require.NoError(t, err)

		loaded, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, cfg.ServerName, loaded.ServerName)
		assert.Equal(t, cfg.LogLevel, loaded.LogLevel)
		assert.Equal(t, cfg.ScanInterval, loaded.ScanInterval)
	})

	t.Run("saved file has 0600 permissions", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.json")

		err := DefaultConfig().Save(path)
		require.NoError(t, err)

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	})

	t.Run("load rejects insecure permissions", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.json")
		os.WriteFile(path, []byte(`{}`), 0644)

		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "insecure permissions")
	})

	t.Run("load fills defaults for missing fields", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.json")
		os.WriteFile(path, []byte(`{"log_level":"warn"}`), 0600)

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, DefaultServerName, cfg.ServerName)
		assert.Equal(t, DefaultServerVersion, cfg.ServerVersion)
		assert.Equal(t, "warn", cfg.LogLevel)
	})
}

func TestLoadOrDefault(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "config.json"))
		require.NoError(t, err)
		assert.Equal(t, DefaultServerName, cfg.ServerName)
	})

	t.Run("invalid file is an error", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.json")
		os.WriteFile(path, []byte(`{not json`), 0600)

		_, err := LoadOrDefault(path)
		assert.Error(t, err)
	})
}

func TestScanIntervalDuration(t *testing.T) {
	tests := []struct {
		name     string
		interval string
		want     time.Duration
	}{
		{"valid interval", "30s", 30 * time.Second},
		{"empty falls back", "", 5 * time.Second},
		{"garbage falls back", "soon", 5 * time.Second},
		{"negative falls back", "-3s", 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{ScanInterval: tt.interval}
			assert.Equal(t, tt.want, cfg.ScanIntervalDuration())
		})
	}
}
