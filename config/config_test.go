package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"HOST", "PORT", "REDIS_HOST", "REDIS_PORT", "STOP_TTL_SECONDS", "PROVIDER", "ENVIRONMENT"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "0.0.0.0:8000", cfg.Addr())
	assert.Equal(t, "localhost:6379", cfg.RedisAddr())
	assert.Equal(t, time.Hour, cfg.StopTTL)
	assert.Equal(t, "anthropic", cfg.Provider)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("PORT", "9001")
	t.Setenv("REDIS_HOST", "redis.internal")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("STOP_TTL_SECONDS", "120")
	t.Setenv("PROVIDER", "openai")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("TEMPERATURE", "0.2")

	cfg := Load()
	assert.Equal(t, "127.0.0.1:9001", cfg.Addr())
	assert.Equal(t, "redis.internal:6380", cfg.RedisAddr())
	assert.Equal(t, 2*time.Minute, cfg.StopTTL)
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, 0.2, cfg.Temperature)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	t.Setenv("TEMPERATURE", "warm")

	cfg := Load()
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, 0.7, cfg.Temperature)
}
