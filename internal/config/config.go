package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds server configuration, sourced from the environment with an
// optional .env file for local development
type Config struct {
	Host     string `env:"CHESSY_HOST" envDefault:""`
	Port     int    `env:"CHESSY_PORT" envDefault:"8080"`
	LogLevel string `env:"CHESSY_LOG_LEVEL" envDefault:"info"`

	// StorageType selects the backend: "memory" or "redis"
	StorageType   string `env:"CHESSY_STORAGE" envDefault:"memory"`
	RedisURL      string `env:"CHESSY_REDIS_URL"`
	RedisPoolSize int    `env:"CHESSY_REDIS_POOL_SIZE" envDefault:"10"`
}

// Load reads configuration from the environment. A missing .env file is
// not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}

// SlogLevel maps the configured level name onto a slog level
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
