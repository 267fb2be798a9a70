package shared

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	Log      LogConfig      `toml:"log"`
	Auth     AuthConfig     `toml:"auth"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	RequestLimit int    `toml:"request_limit"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// AuthConfig configures the simulated streaming-platform sign in.
type AuthConfig struct {
	Latency    Duration       `toml:"latency"`
	SessionTTL Duration       `toml:"session_ttl"`
	RateLimit  float64        `toml:"rate_limit"`
	Burst      int            `toml:"burst"`
	Deny       []string       `toml:"deny"`
	Spotify    PlatformConfig `toml:"spotify"`
	Apple      PlatformConfig `toml:"apple"`
}

// PlatformConfig holds the mock profile handed out for a platform.
type PlatformConfig struct {
	DisplayName string `toml:"display_name"`
	Avatar      string `toml:"avatar"`
}

// Platform returns the profile configured for the named platform.
func (a AuthConfig) Platform(name string) PlatformConfig {
	switch name {
	case "apple":
		return a.Apple
	default:
		return a.Spotify
	}
}

// Denied reports whether sign in for the named platform is configured to be rejected.
func (a AuthConfig) Denied(name string) bool {
	for _, d := range a.Deny {
		if d == name {
			return true
		}
	}
	return false
}

// Duration is a [time.Duration] that reads and writes TOML strings such as "750ms" or "720h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("%w: duration %q", ErrInvalidConfig, string(text))
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements [encoding.TextMarshaler].
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Validate checks the configuration for values the application cannot run with.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("%w: database path is required", ErrInvalidConfig)
	}
	if c.Server.RequestLimit < 0 {
		return fmt.Errorf("%w: server.request_limit cannot be negative", ErrInvalidConfig)
	}
	if c.Auth.SessionTTL.Duration <= 0 {
		return fmt.Errorf("%w: auth.session_ttl must be positive", ErrInvalidConfig)
	}
	if c.Auth.Latency.Duration < 0 {
		return fmt.Errorf("%w: auth.latency cannot be negative", ErrInvalidConfig)
	}
	if c.Auth.RateLimit < 0 || c.Auth.Burst < 0 {
		return fmt.Errorf("%w: auth rate limit and burst cannot be negative", ErrInvalidConfig)
	}
	for _, d := range c.Auth.Deny {
		if d != "spotify" && d != "apple" {
			return fmt.Errorf("%w: unknown platform %q in auth.deny", ErrInvalidConfig, d)
		}
	}
	return nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SaveConfig encodes config as TOML and writes it to path.
func SaveConfig(path string, config *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
