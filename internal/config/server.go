package config

import (
	"os"
	"strconv"
	"time"
)

// ServerConfig holds the request layer settings
type ServerConfig struct {
	Addr           string
	RedisAddr      string // empty selects the in-memory cache
	LogLevel       string
	CacheTTL       time.Duration
	RequestTimeout time.Duration
	MaxTrials      int // largest simulation one request may run
}

// NewServerConfig loads server configuration from environment variables
func NewServerConfig() *ServerConfig {
	return &ServerConfig{
		Addr:           getEnv("FINPLAN_ADDR", ":8080"),
		RedisAddr:      getEnv("FINPLAN_REDIS_ADDR", ""),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		CacheTTL:       getEnvDuration("FINPLAN_CACHE_TTL", time.Hour),
		RequestTimeout: getEnvDuration("FINPLAN_REQUEST_TIMEOUT", 30*time.Second),
		MaxTrials:      getEnvInt("FINPLAN_MAX_TRIALS", 100000),
	}
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}
