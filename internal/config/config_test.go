package config

import (
	"io"
	"log/slog"
	"os"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// unsetenv clears a variable for the test while restoring any prior value.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "REDIS_ADDR", "REDIS_POOL_SIZE", "REDIS_POOL_TIMEOUT", "REDIS_MIN_IDLE_CONNS"} {
		unsetenv(t, key)
	}
	cfg := Load(testLogger())
	if cfg.Port != "8080" {
		t.Fatalf("default port: %s", cfg.Port)
	}
	if cfg.PoolSize != 10 || cfg.MinIdleConns != 2 {
		t.Fatalf("default pool sizing: %+v", cfg)
	}
	if cfg.PoolTimeout != 4*time.Second {
		t.Fatalf("default pool timeout: %v", cfg.PoolTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_POOL_SIZE", "32")
	t.Setenv("REDIS_POOL_TIMEOUT", "250ms")

	cfg := Load(testLogger())
	if cfg.Port != "9090" || cfg.RedisAddr != "redis:6379" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.PoolSize != 32 || cfg.PoolTimeout != 250*time.Millisecond {
		t.Fatalf("pool overrides not applied: %+v", cfg)
	}
}

func TestLoadIgnoresGarbage(t *testing.T) {
	t.Setenv("REDIS_POOL_SIZE", "lots")
	t.Setenv("REDIS_POOL_TIMEOUT", "soon")

	cfg := Load(testLogger())
	if cfg.PoolSize != 10 || cfg.PoolTimeout != 4*time.Second {
		t.Fatalf("expected defaults for unparsable values: %+v", cfg)
	}
}
