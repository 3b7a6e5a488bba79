package config_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nachoupps/chessy/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, "memory", cfg.StorageType)
	require.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("CHESSY_PORT", "9090")
	t.Setenv("CHESSY_STORAGE", "redis")
	t.Setenv("CHESSY_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("CHESSY_LOG_LEVEL", "debug")

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, "redis", cfg.StorageType)
	require.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	require.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}
