// Package config loads service configuration from the environment. A local
// .env file is honored when present; real deployments rely on process env.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the process needs to start.
type Config struct {
	Port string

	// RedisAddr empty means "run against an embedded store" (dev mode).
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Connection pool sizing and acquisition timeout. Exceeding PoolTimeout
	// while all connections are busy surfaces as a pool-exhausted error.
	PoolSize     int
	PoolTimeout  time.Duration
	MinIdleConns int
}

// Load reads the environment into a Config, applying defaults.
func Load(logger *slog.Logger) *Config {
	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file found, relying on process env")
	}

	return &Config{
		Port:          getEnv("PORT", "8080"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		PoolSize:      getEnvInt("REDIS_POOL_SIZE", 10),
		PoolTimeout:   getEnvDuration("REDIS_POOL_TIMEOUT", 4*time.Second),
		MinIdleConns:  getEnvInt("REDIS_MIN_IDLE_CONNS", 2),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
