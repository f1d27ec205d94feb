package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "UPSTREAM_TIMEOUT", "REDIS_ADDR", "MAX_PAGE_SIZE", "CORS_ALLOWED_ORIGINS", "REDIS_CLUSTER"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	require.Equal(t, ":8000", cfg.HTTPAddr)
	require.Equal(t, 15*time.Second, cfg.UpstreamTimeout)
	require.Equal(t, []string{"localhost:6379"}, cfg.RedisAddrs)
	require.Equal(t, 100, cfg.MaxPageSize)
	require.Nil(t, cfg.CORSOrigins)
	require.False(t, cfg.RedisCluster)
	require.False(t, cfg.Development())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "Development")
	t.Setenv("UPSTREAM_TIMEOUT", "3s")
	t.Setenv("SESSION_TTL", "120")
	t.Setenv("REDIS_ADDR", "a:1, b:2 ,")
	t.Setenv("REDIS_CLUSTER", "TRUE")
	t.Setenv("DEFAULT_PAGE_SIZE", "25")
	t.Setenv("MAX_PAGE_SIZE", "lots")

	cfg := Load()
	require.True(t, cfg.Development())
	require.Equal(t, 3*time.Second, cfg.UpstreamTimeout)
	require.Equal(t, 2*time.Minute, cfg.SessionTTL)
	require.Equal(t, []string{"a:1", "b:2"}, cfg.RedisAddrs)
	require.True(t, cfg.RedisCluster)
	require.Equal(t, 25, cfg.DefaultPageSize)
	require.Equal(t, 100, cfg.MaxPageSize)
}

func TestGetEnvDurationRejectsGarbage(t *testing.T) {
	t.Setenv("X_DURATION", "soon")
	require.Equal(t, time.Second, getEnvDuration("X_DURATION", time.Second))
}
