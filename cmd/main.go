package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/cashwire/transferd/internal/config"
	httpapi "github.com/cashwire/transferd/internal/httpapi/v1"
	redisstore "github.com/cashwire/transferd/internal/storage/redis"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Logger (slog to stdout). Level via LOG_LEVEL; format via LOG_FORMAT (json|text, default json)
	logger := buildLoggerFromEnv()
	slog.SetDefault(logger)

	cfg := config.Load(logger)

	// With no REDIS_ADDR, run against an embedded in-process store so the
	// service works out of the box for local development.
	addr := cfg.RedisAddr
	if addr == "" {
		embedded, err := miniredis.Run()
		if err != nil {
			logger.Error("failed to start embedded store", "err", err)
			os.Exit(1)
		}
		defer embedded.Close()
		addr = embedded.Addr()
		logger.Info("storage backend: embedded (dev mode)", "addr", addr)
	} else {
		logger.Info("storage backend: redis", "addr", addr)
	}

	openCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	store, err := redisstore.Open(openCtx, redisstore.Config{
		Addr:         addr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		PoolSize:     cfg.PoolSize,
		PoolTimeout:  cfg.PoolTimeout,
		MinIdleConns: cfg.MinIdleConns,
	})
	cancel()
	if err != nil {
		logger.Error("failed to connect to store", "err", err)
		os.Exit(1)
	}
	defer store.Close()

	srvMux := httpapi.New(store, store, store, store, store, store, logger).Handler()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srvMux,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("transfer service listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctxShutdown); err != nil {
			logger.Error("server shutdown error", "err", err)
		}
	case err := <-errCh:
		logger.Error("server error", "err", err)
	}
}

// parseLogLevel maps env values to slog.Leveler
func parseLogLevel(s string) slog.Leveler {
	switch s {
	case "DEBUG", "debug":
		return slog.LevelDebug
	case "WARN", "WARNING", "warn", "warning":
		return slog.LevelWarn
	case "ERROR", "ERR", "error", "err":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func buildLoggerFromEnv() *slog.Logger {
	level := parseLogLevel(os.Getenv("LOG_LEVEL"))
	format := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_FORMAT")))
	if format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	}
	// default to JSON
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
