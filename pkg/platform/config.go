// Package platform provides configuration loading and component wiring.
// Components are constructed once here and passed by reference to the
// request-handling layer; there are no package-level singletons.
package platform

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/naresh29s/Redis-Datastucture-beyond-caching-telcom/pkg/keys"
	"github.com/naresh29s/Redis-Datastucture-beyond-caching-telcom/pkg/monitor"
	"github.com/naresh29s/Redis-Datastucture-beyond-caching-telcom/pkg/session"
)

// Config holds the complete service configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Redis   RedisConfig   `yaml:"redis"`
	Monitor MonitorConfig `yaml:"monitor"`
	Session SessionConfig `yaml:"session"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Address string `yaml:"address"`
}

// RedisConfig configures the Redis connection.
type RedisConfig struct {
	Host               string `yaml:"host"`
	Port               int    `yaml:"port"`
	Username           string `yaml:"username"`
	Password           string `yaml:"password"`
	Namespace          string `yaml:"namespace"`
	DialTimeoutSeconds int    `yaml:"dial_timeout_seconds"`
	ReadTimeoutSeconds int    `yaml:"read_timeout_seconds"`
}

// Addr returns the host:port dial address.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// MonitorConfig configures command monitoring.
type MonitorConfig struct {
	MaxEvents     int `yaml:"max_events"`
	ResultPreview int `yaml:"result_preview_bytes"`
	StatsSample   int `yaml:"stats_sample"`
}

// SessionConfig configures session management.
type SessionConfig struct {
	TTLSeconds int `yaml:"ttl_seconds"`
}

// TTL returns the configured session lifetime.
func (c SessionConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// DefaultConfig returns the configuration used when no file is supplied.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Address: ":5001",
		},
		Redis: RedisConfig{
			Host:               "localhost",
			Port:               6379,
			Username:           "default",
			Namespace:          keys.DefaultNamespace,
			DialTimeoutSeconds: 10,
			ReadTimeoutSeconds: 10,
		},
		Monitor: MonitorConfig{
			MaxEvents:     monitor.DefaultMaxEvents,
			ResultPreview: monitor.DefaultResultPreview,
			StatsSample:   monitor.DefaultStatsSample,
		},
		Session: SessionConfig{
			TTLSeconds: int(session.DefaultTTL.Seconds()),
		},
	}
}

// LoadConfig reads a YAML config file, expands ${ENV_VAR} references, and
// overlays it on the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(expandEnv(data), cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Server.Address == "" {
		return fmt.Errorf("server.address must not be empty")
	}
	if c.Redis.Host == "" {
		return fmt.Errorf("redis.host must not be empty")
	}
	if c.Redis.Port <= 0 || c.Redis.Port > 65535 {
		return fmt.Errorf("redis.port %d is out of range", c.Redis.Port)
	}
	if c.Monitor.MaxEvents < 0 {
		return fmt.Errorf("monitor.max_events must not be negative")
	}
	if c.Session.TTLSeconds < 0 {
		return fmt.Errorf("session.ttl_seconds must not be negative")
	}
	return nil
}

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnv replaces ${VAR} references with the environment value, leaving
// unset variables as empty strings.
func expandEnv(data []byte) []byte {
	return envVarPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		name := envVarPattern.FindSubmatch(match)[1]
		return []byte(os.Getenv(string(name)))
	})
}
