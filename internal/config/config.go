// Package config provides configuration management for servermap.
//
// Config file locations (priority order):
//  1. $SERVERMAP_CONFIG
//  2. ./servermap.yaml
//  3. $XDG_CONFIG_HOME/servermap/config.yaml
//  4. ~/.config/servermap/config.yaml
//  5. /etc/servermap/config.yaml
//
// A .env file in the working directory is loaded before the environment
// overrides (SERVERMAP_ADDR, SERVERMAP_DB, SERVERMAP_LOG_LEVEL) are applied.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvAddr     = "SERVERMAP_ADDR"
	EnvDBPath   = "SERVERMAP_DB"
	EnvLogLevel = "SERVERMAP_LOG_LEVEL"
)

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, "", err
	}

	path := FindConfigPath()
	if path == "" {
		cfg := DefaultConfig()
		cfg.applyEnv()
		return cfg, "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	return &cfg, path, nil
}

// LoadDotEnv loads environment files, skipping ones that do not exist.
// With no arguments it loads ./.env.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":3000"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = Duration(10 * time.Second)
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = Duration(30 * time.Second)
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = Duration(60 * time.Second)
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = Duration(10 * time.Second)
	}
	if c.Server.AllowedOrigin == "" {
		c.Server.AllowedOrigin = "*"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./servermap.db"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Explorer.DefaultPeriod == "" {
		c.Explorer.DefaultPeriod = "5m"
	}
}

// applyEnv overrides file values with environment variables
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	return fmt.Sprintf("Listen: %s, Database: %s, Log level: %s, Default period: %s",
		c.Server.Addr, c.Database.Path, c.Log.Level, c.Explorer.DefaultPeriod)
}
