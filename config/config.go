// Package config provides environment-driven configuration for the
// agentstream server. A local .env file is honored when present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the server configuration.
type Config struct {
	// Server settings
	Host        string
	Port        int
	Environment string // "development" or "production"

	// Redis (signal store backend)
	RedisHost     string
	RedisPort     int
	RedisDB       int
	RedisPassword string

	// Stop signal expiry
	StopTTL time.Duration

	// Session storage
	SessionDir string

	// Generation source
	Provider     string // "anthropic", "openai" or "scripted"
	ModelID      string
	Temperature  float64
	MaxTokens    int64
	SystemPrompt string

	// Logging
	LogLevel  string
	LogFormat string // "json" or "text"
}

// Load loads configuration from environment variables, reading a .env file
// first if one exists.
func Load() *Config {
	_ = godotenv.Load() // missing .env is fine

	return &Config{
		Host:          getEnv("HOST", "0.0.0.0"),
		Port:          getEnvInt("PORT", 8000),
		Environment:   getEnv("ENVIRONMENT", "development"),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnvInt("REDIS_PORT", 6379),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		StopTTL:       time.Duration(getEnvInt("STOP_TTL_SECONDS", 3600)) * time.Second,
		SessionDir:    getEnv("SESSION_DIR", "./data/sessions"),
		Provider:      getEnv("PROVIDER", "anthropic"),
		ModelID:       getEnv("MODEL_ID", ""),
		Temperature:   getEnvFloat("TEMPERATURE", 0.7),
		MaxTokens:     int64(getEnvInt("MAX_TOKENS", 2048)),
		SystemPrompt:  getEnv("SYSTEM_PROMPT", "You are a helpful AI assistant."),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "json"),
	}
}

// RedisAddr returns the host:port address for the Redis client.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// Addr returns the host:port listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool { return c.Environment == "production" }

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if floatVal, err := strconv.ParseFloat(val, 64); err == nil {
			return floatVal
		}
	}
	return defaultVal
}
