// path: internal/config/config.go

// Package config loads the service configuration from an optional YAML file
// with environment-variable fallbacks. Flags in cmd/server override both.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full service configuration. Every field is optional; zero
// values defer to the defaults compiled into cmd/server.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	Sync struct {
		// NATSURL enables the NATS state-sync bus when non-empty; the
		// in-process bus is used otherwise.
		NATSURL       string `yaml:"natsUrl"`
		SubjectPrefix string `yaml:"subjectPrefix"`
	} `yaml:"sync"`

	Store struct {
		// Path enables Badger snapshot persistence when non-empty.
		Path string `yaml:"path"`
	} `yaml:"store"`

	LogLevel string `yaml:"logLevel"`
}

// Load reads the YAML file at path. An empty path consults CHESS_CONFIG; if
// that is also unset, Load returns a nil config and no error so callers can
// run on flags and defaults alone.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("CHESS_CONFIG")
	}
	if path == "" {
		return nil, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Addr resolves the listen address: config value, then CHESS_ADDR, then def.
func (c *Config) Addr(def string) string {
	if c != nil && c.Server.Addr != "" {
		return c.Server.Addr
	}
	return envOr("CHESS_ADDR", def)
}

// NATSURL resolves the NATS url: config value, then CHESS_NATS_URL, then def.
func (c *Config) NATSURL(def string) string {
	if c != nil && c.Sync.NATSURL != "" {
		return c.Sync.NATSURL
	}
	return envOr("CHESS_NATS_URL", def)
}

// SubjectPrefix resolves the sync subject prefix.
func (c *Config) SubjectPrefix(def string) string {
	if c != nil && c.Sync.SubjectPrefix != "" {
		return c.Sync.SubjectPrefix
	}
	return envOr("CHESS_SUBJECT_PREFIX", def)
}

// StorePath resolves the Badger directory: config value, then CHESS_STORE_PATH,
// then def. Empty everywhere means persistence stays off.
func (c *Config) StorePath(def string) string {
	if c != nil && c.Store.Path != "" {
		return c.Store.Path
	}
	return envOr("CHESS_STORE_PATH", def)
}

// Level resolves the log level name.
func (c *Config) Level(def string) string {
	if c != nil && c.LogLevel != "" {
		return c.LogLevel
	}
	return envOr("CHESS_LOG_LEVEL", def)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
