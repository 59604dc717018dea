// Package config loads the gocraft configuration from YAML with environment
// overrides
package config

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/philipparndt/gocraft/pkg/papercraft"
)

// Config is the complete application configuration
type Config struct {
	Server   ServerConfig            `yaml:"server"`
	Sessions SessionConfig           `yaml:"sessions"`
	Watch    WatchConfig             `yaml:"watch"`
	Paper    papercraft.PaperOptions `yaml:"paper"`
}

// ServerConfig configures the HTTP action server
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	BodyLimit      string   `yaml:"body_limit"`
	AllowOrigins   []string `yaml:"allow_origins"`
	RequestLogging bool     `yaml:"request_logging"`
}

// SessionConfig limits the projects held in memory
type SessionConfig struct {
	MaxProjects            int `yaml:"max_projects"`
	IdleTimeoutMinutes     int `yaml:"idle_timeout_minutes"`
	CleanupIntervalMinutes int `yaml:"cleanup_interval_minutes"`
}

// WatchConfig configures the watch command
type WatchConfig struct {
	DebounceMillis int `yaml:"debounce_ms"`
}

// IdleTimeout returns how long an untouched project is kept
func (s SessionConfig) IdleTimeout() time.Duration {
	return time.Duration(s.IdleTimeoutMinutes) * time.Minute
}

// CleanupInterval returns how often idle projects are collected
func (s SessionConfig) CleanupInterval() time.Duration {
	return time.Duration(s.CleanupIntervalMinutes) * time.Minute
}

// Debounce returns the quiet period before a change is reported
func (w WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMillis) * time.Millisecond
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           "127.0.0.1:8080",
			BodyLimit:      "32M",
			AllowOrigins:   []string{"http://localhost:5173", "http://127.0.0.1:5173"},
			RequestLogging: true,
		},
		Sessions: SessionConfig{
			MaxProjects:            16,
			IdleTimeoutMinutes:     60,
			CleanupIntervalMinutes: 5,
		},
		Watch: WatchConfig{DebounceMillis: 300},
		Paper: papercraft.DefaultOptions(),
	}
}

// Load reads the configuration file at path on top of the defaults and
// applies GOCRAFT_* environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open config: %w", err)
		}
		defer file.Close()
		if err := cfg.decode(file); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	cfg.applyEnv()
	return cfg, cfg.validate()
}

// LoadFromReader reads YAML from r on top of the defaults. Environment
// overrides are not applied.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	if err := cfg.decode(r); err != nil {
		return nil, err
	}
	return cfg, cfg.validate()
}

func (c *Config) decode(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Server.Addr = getEnv("GOCRAFT_ADDR", c.Server.Addr)
	c.Server.BodyLimit = getEnv("GOCRAFT_BODY_LIMIT", c.Server.BodyLimit)
	c.Server.RequestLogging = getEnvAsBool("GOCRAFT_REQUEST_LOGGING", c.Server.RequestLogging)
	c.Sessions.MaxProjects = getEnvAsInt("GOCRAFT_MAX_PROJECTS", c.Sessions.MaxProjects)
	c.Sessions.IdleTimeoutMinutes = getEnvAsInt("GOCRAFT_IDLE_TIMEOUT_MINUTES", c.Sessions.IdleTimeoutMinutes)
	c.Watch.DebounceMillis = getEnvAsInt("GOCRAFT_WATCH_DEBOUNCE_MS", c.Watch.DebounceMillis)
	c.Paper.Scale = getEnvAsFloat("GOCRAFT_SCALE", c.Paper.Scale)
}

func (c *Config) validate() error {
	paper, err := c.Paper.Validate()
	if err != nil {
		return fmt.Errorf("paper: %w", err)
	}
	c.Paper = paper
	if c.Sessions.MaxProjects < 1 {
		return fmt.Errorf("sessions.max_projects must be positive, got %d", c.Sessions.MaxProjects)
	}
	if c.Sessions.IdleTimeoutMinutes < 1 {
		return fmt.Errorf("sessions.idle_timeout_minutes must be positive, got %d", c.Sessions.IdleTimeoutMinutes)
	}
	if c.Sessions.CleanupIntervalMinutes < 1 {
		c.Sessions.CleanupIntervalMinutes = 1
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultVal
}
