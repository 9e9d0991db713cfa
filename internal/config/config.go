package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Store backend selectors.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

type Config struct {
	APIBaseURL  string
	StoreKind   string
	StoreFile   string
	RedisAddr   string
	DevstubPort string
	PageSize    int
}

// Load reads configuration from the environment, with an optional .env file
// merged in first. Every setting has a usable default.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		APIBaseURL:  getEnv("PENDEN_API_URL", "http://127.0.0.1:8000/api/"),
		StoreKind:   getEnv("PENDEN_STORE", StoreFile),
		StoreFile:   getEnv("PENDEN_STORE_FILE", ""),
		RedisAddr:   getEnv("PENDEN_REDIS_ADDR", "localhost:6379"),
		DevstubPort: getEnv("PENDEN_DEVSTUB_PORT", "8000"),
		PageSize:    12,
	}

	switch cfg.StoreKind {
	case StoreMemory, StoreFile, StoreRedis:
	default:
		return nil, fmt.Errorf("unknown PENDEN_STORE value %q", cfg.StoreKind)
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
