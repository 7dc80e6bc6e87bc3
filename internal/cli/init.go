// Package cli provides common CLI initialization utilities shared by
// cmd/nutrilog and cmd/nutrilog-worker.
package cli

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"nutrilog/internal/config"
	"nutrilog/internal/log"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the process logger and installs it as the slog default.
func SetupLogger(level, format string) *log.Logger {
	logger := log.New(log.Config{
		Level:     log.ParseLevel(level),
		Format:    log.ParseFormat(format),
		Component: log.ComponentApp,
	})
	log.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := EnsureSessionSecret(cfg, logger); err != nil {
		logger.Error("Failed to generate session secret", log.FieldError, err.Error())
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err.Error())
		os.Exit(1)
	}
	return cfg
}

// EnsureSessionSecret fills an empty session secret with a random one.
// Sessions signed with it do not survive a restart.
func EnsureSessionSecret(cfg *config.Config, logger *log.Logger) error {
	if cfg.SessionSecret != "" {
		return nil
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return err
	}
	cfg.SessionSecret = hex.EncodeToString(buf)
	logger.Warn("SESSION_SECRET not set, using an ephemeral secret; sessions end on restart")
	return nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

// Run starts every task in an errgroup bound to ctx. When ctx ends or any
// task returns, shutdown is called with a fresh context limited by timeout.
func Run(ctx context.Context, logger *log.Logger, timeout time.Duration, shutdown func(context.Context) error, tasks ...func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	for _, task := range tasks {
		task := task
		g.Go(func() error {
			defer cancel()
			return task(gctx)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		if shutdown == nil {
			return nil
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			logger.Warn("Shutdown incomplete", log.FieldError, err.Error())
			return err
		}
		logger.Info("Shutdown complete", log.FieldOperation, log.OpShutdown)
		return nil
	})
	return g.Wait()
}
