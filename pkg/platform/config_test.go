package platform

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, ":5001", cfg.Server.Address)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.Equal(t, "default", cfg.Redis.Username)
	assert.Equal(t, "telcom", cfg.Redis.Namespace)
	assert.Equal(t, 500, cfg.Monitor.MaxEvents)
	assert.Equal(t, 7*24*time.Hour, cfg.Session.TTL())
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_OverlaysDefaults(t *testing.T) {
	path := writeConfigFile(t, `
server:
  address: ":8080"
redis:
  host: redis.example.com
  port: 6380
session:
  ttl_seconds: 3600
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "redis.example.com:6380", cfg.Redis.Addr())
	assert.Equal(t, time.Hour, cfg.Session.TTL())

	// Untouched sections keep their defaults.
	assert.Equal(t, "default", cfg.Redis.Username)
	assert.Equal(t, 500, cfg.Monitor.MaxEvents)
}

func TestLoadConfig_ExpandsEnvVars(t *testing.T) {
	t.Setenv("TEST_REDIS_HOST", "redis.internal")
	t.Setenv("TEST_REDIS_PASSWORD", "hunter2")

	path := writeConfigFile(t, `
redis:
  host: ${TEST_REDIS_HOST}
  password: ${TEST_REDIS_PASSWORD}
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "redis.internal", cfg.Redis.Host)
	assert.Equal(t, "hunter2", cfg.Redis.Password)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfigFile(t, "{{{not yaml")
	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"empty address", func(c *Config) { c.Server.Address = "" }, "server.address"},
		{"empty host", func(c *Config) { c.Redis.Host = "" }, "redis.host"},
		{"port too low", func(c *Config) { c.Redis.Port = 0 }, "redis.port"},
		{"port too high", func(c *Config) { c.Redis.Port = 70000 }, "redis.port"},
		{"negative max events", func(c *Config) { c.Monitor.MaxEvents = -1 }, "monitor.max_events"},
		{"negative ttl", func(c *Config) { c.Session.TTLSeconds = -1 }, "session.ttl_seconds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
