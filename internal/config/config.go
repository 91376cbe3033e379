// Package config assembles the server configuration from an optional
// YAML file plus environment overrides.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config carries everything main needs to assemble the server.
type Config struct {
	Port         string `yaml:"port"`
	DatabasePath string `yaml:"database_path"`
	JWTSecret    string `yaml:"jwt_secret"`
	CookieSecure bool   `yaml:"cookie_secure"`
	BcryptCost   int    `yaml:"bcrypt_cost"`
	LogLevel     string `yaml:"log_level"`
}

// Load reads the YAML file named by CONFIG_PATH (cordkeeper.yaml when
// unset, skipped if absent), then applies environment overrides: PORT,
// DATABASE_PATH, JWT_SECRET, COOKIE_SECURE, BCRYPT_COST, LOG_LEVEL.
// Environment values always win over file values.
func Load() (*Config, error) {
	cfg := &Config{
		Port:         "8080",
		DatabasePath: "cordkeeper.db",
		CookieSecure: true,
		BcryptCost:   12,
		LogLevel:     "info",
	}

	path := os.Getenv("CONFIG_PATH")
	explicit := path != ""
	if path == "" {
		path = "cordkeeper.yaml"
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("unmarshal config %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// No config file; the environment alone configures the server.
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// SlogLevel maps the configured log level name onto slog.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", c.LogLevel)
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("DATABASE_PATH"); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("COOKIE_SECURE"); v != "" {
		cfg.CookieSecure = v != "false"
	}
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid BCRYPT_COST: %w", err)
		}
		cfg.BcryptCost = parsed
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	return nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("jwt secret is required (JWT_SECRET or jwt_secret)")
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("jwt secret must be at least 32 characters for HMAC-SHA256 security")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 14 {
		return fmt.Errorf("bcrypt cost must be between 4 and 14, got %d", c.BcryptCost)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}
