package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config represents the top-level application config.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Source   SourceConfig   `koanf:"source"`
	Refresh  RefreshConfig  `koanf:"refresh"`
}

type ServerConfig struct {
	Port          int    `koanf:"port"`
	Host          string `koanf:"host"`
	MaxBodySizeMB int    `koanf:"max_body_size_mb"`
	Mode          string `koanf:"mode"` // debug | release
}

// DatabaseConfig holds the connection settings for the detail/summary store.
type DatabaseConfig struct {
	DSN          string `koanf:"dsn"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	AutoMigrate  bool   `koanf:"auto_migrate"`
}

// SourceConfig holds the connection settings for the upstream transactional
// store (read-only). Empty DSN means "same database as database.dsn".
type SourceConfig struct {
	DSN          string `koanf:"dsn"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
}

// RefreshConfig controls the periodic full-refresh fallback.
type RefreshConfig struct {
	Auto     bool   `koanf:"auto"`
	Interval string `koanf:"interval"` // parsed and validated on startup
}

// EffectiveSourceDSN returns source.dsn, falling back to database.dsn when
// the upstream feeds live in the same database.
func (c *Config) EffectiveSourceDSN() string {
	if strings.TrimSpace(c.Source.DSN) != "" {
		return c.Source.DSN
	}
	return c.Database.DSN
}

// RefreshInterval returns the parsed periodic refresh interval.
func (c RefreshConfig) RefreshInterval() (time.Duration, error) {
	return time.ParseDuration(c.Interval)
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d (must be 1-65535)", c.Server.Port)
	}
	if strings.TrimSpace(c.Server.Host) == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.MaxBodySizeMB <= 0 {
		return fmt.Errorf("server.max_body_size_mb must be > 0")
	}
	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("invalid server.mode %q (must be debug or release)", c.Server.Mode)
	}

	if strings.TrimSpace(c.Database.DSN) == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be > 0")
	}
	if c.Database.MaxIdleConns <= 0 {
		return fmt.Errorf("database.max_idle_conns must be > 0")
	}

	if c.Source.MaxOpenConns <= 0 {
		return fmt.Errorf("source.max_open_conns must be > 0")
	}
	if c.Source.MaxIdleConns <= 0 {
		return fmt.Errorf("source.max_idle_conns must be > 0")
	}

	interval, err := c.Refresh.RefreshInterval()
	if err != nil {
		return fmt.Errorf("invalid refresh.interval %q: %w", c.Refresh.Interval, err)
	}
	if interval <= 0 {
		return fmt.Errorf("refresh.interval must be > 0")
	}

	return nil
}

// Load parses config from file + env and validates it.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"server.port":             8080,
		"server.host":             "0.0.0.0",
		"server.max_body_size_mb": 1,
		"server.mode":             "release",
		"database.dsn":            "",
		"database.max_open_conns": 25,
		"database.max_idle_conns": 25,
		"database.auto_migrate":   true,
		"source.dsn":              "",
		"source.max_open_conns":   5,
		"source.max_idle_conns":   5,
		"refresh.auto":            false,
		"refresh.interval":        "24h",
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider("RENTALYTICS_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "RENTALYTICS_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
