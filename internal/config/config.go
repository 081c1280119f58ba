// Package config loads engine configuration from an optional YAML file
// with environment-variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultWeeksAhead is the generation horizon when a campaign sets none.
	DefaultWeeksAhead = 4

	// DefaultDedupeWindowMinutes is the legacy time-proximity dedupe window.
	// The engine's occupancy-based slot reservation is the authoritative
	// dedupe; this knob is informational and kept for compatibility with
	// older deployments.
	DefaultDedupeWindowMinutes = 45

	// DefaultReadTimeoutSeconds is the default HTTP read timeout in seconds
	DefaultReadTimeoutSeconds = 10
	// DefaultWriteTimeoutSeconds is the default HTTP write timeout in seconds
	DefaultWriteTimeoutSeconds = 30
)

type Config struct {
	Debug    bool           `yaml:"debug"` // controls log level and format
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Engine   EngineConfig   `yaml:"engine"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"` // PostgreSQL DSN, required
}

type RedisConfig struct {
	Addr     string `yaml:"addr"` // optional; empty disables summary events
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type EngineConfig struct {
	WeeksAhead          int `yaml:"weeks_ahead"`           // default horizon in weeks
	DedupeWindowMinutes int `yaml:"dedupe_window_minutes"` // informational, see DefaultDedupeWindowMinutes
}

type ServerConfig struct {
	Address      string        `yaml:"address"`       // e.g., ":8090"
	ReadTimeout  time.Duration `yaml:"read_timeout"`  // Default: 10s
	WriteTimeout time.Duration `yaml:"write_timeout"` // Default: 30s
}

// Validate checks if the configuration is valid and returns an error if not.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return errors.New("database.url is required")
	}
	if c.Engine.WeeksAhead <= 0 {
		return fmt.Errorf("engine.weeks_ahead must be positive, got %d", c.Engine.WeeksAhead)
	}
	return nil
}

func setDefaults(cfg *Config) {
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8090"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeoutSeconds * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeoutSeconds * time.Second
	}
	if cfg.Engine.WeeksAhead == 0 {
		cfg.Engine.WeeksAhead = DefaultWeeksAhead
	}
	if cfg.Engine.DedupeWindowMinutes == 0 {
		cfg.Engine.DedupeWindowMinutes = DefaultDedupeWindowMinutes
	}
}

func overrideWithEnvVars(cfg *Config) {
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.Database.URL = dbURL
	}
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		cfg.Redis.Addr = redisAddr
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		cfg.Redis.Password = redisPassword
	}
	if weeksAhead := os.Getenv("WEEKS_AHEAD_DEFAULT"); weeksAhead != "" {
		if parsed, err := strconv.Atoi(weeksAhead); err == nil && parsed > 0 {
			cfg.Engine.WeeksAhead = parsed
		}
	}
	if window := os.Getenv("DEDUPE_WINDOW_MINUTES"); window != "" {
		if parsed, err := strconv.Atoi(window); err == nil && parsed > 0 {
			cfg.Engine.DedupeWindowMinutes = parsed
		}
	}
	if port := os.Getenv("ENGINE_PORT"); port != "" {
		cfg.Server.Address = ":" + port
	}
	if appDebug := os.Getenv("APP_DEBUG"); appDebug != "" {
		cfg.Debug = parseBool(appDebug)
	}
}

// Load reads configuration from the YAML file at path, applies defaults
// and environment overrides, and validates the result. A missing file is
// not an error; the engine can run from environment variables alone.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if unmarshalErr := yaml.Unmarshal(data, &cfg); unmarshalErr != nil {
				return nil, fmt.Errorf("parse config: %w", unmarshalErr)
			}
		case os.IsNotExist(err):
			// fall through to env-only configuration
		default:
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	setDefaults(&cfg)
	overrideWithEnvVars(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// parseBool returns true for "true", "1", "yes" (case-insensitive).
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes"
}
