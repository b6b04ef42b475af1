package config

import (
	"time"
)

// Config is the root configuration structure
type Config struct {
	Version  int            `yaml:"version"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Explorer ExplorerConfig `yaml:"explorer"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Addr            string   `yaml:"addr"`
	ReadTimeout     Duration `yaml:"read_timeout"`
	WriteTimeout    Duration `yaml:"write_timeout"`
	IdleTimeout     Duration `yaml:"idle_timeout"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
	AllowedOrigin   string   `yaml:"allowed_origin"`
}

// DatabaseConfig holds database settings
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LogConfig controls the zap logger
type LogConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// ExplorerConfig holds defaults for composed addresses
type ExplorerConfig struct {
	// DefaultPeriod is used when a request carries no period
	DefaultPeriod string `yaml:"default_period"`
	// BaseURL is prepended to printed addresses, e.g. "http://apm.local/"
	BaseURL string `yaml:"base_url,omitempty"`
	// SeedFile is a JSON or YAML view document imported at startup
	SeedFile string `yaml:"seed_file,omitempty"`
	// WatchSeed re-imports SeedFile whenever it changes
	WatchSeed bool `yaml:"watch_seed,omitempty"`
}

// Duration wraps time.Duration for YAML marshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
