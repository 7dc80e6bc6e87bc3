package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"nutrilog/internal/amqp"
	"nutrilog/internal/backend"
	"nutrilog/internal/cache"
	"nutrilog/internal/cli"
	"nutrilog/internal/events"
	apphttp "nutrilog/internal/http"
	"nutrilog/internal/log"
	"nutrilog/internal/services"
	"nutrilog/internal/session"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.SetupLogger(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err.Error())
		os.Exit(1)
	}
	store, err := backend.Open(ctx, backendCfg, logger)
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err.Error(), "backend", cfg.DataBackend)
		os.Exit(1)
	}
	if store.Cleanup != nil {
		defer store.Cleanup()
	}

	sinks := events.Multi{events.NewLogSink(logger)}
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without journal events", log.FieldError, err.Error())
		} else {
			defer client.Close()
			sinks = append(sinks, events.NewAMQPSink(client, logger))
			logger.Info("Publishing entry events", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	tracker := services.NewTracker(store.Store, store.Store, sinks)
	sessions := session.NewManager(cfg.SessionSecret, cfg.SessionTTL)

	janitor := cache.NewJanitor(time.Minute, func(removed int) {
		logger.Debug("Expired revocations swept", "removed", removed)
	})
	janitor.Register(sessions.Revocations())

	srv := apphttp.NewServer(apphttp.Options{
		Addr:               ":" + cfg.Port,
		AllowedOrigins:     cfg.CORSAllowedOrigins,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Logger:             logger,
		Store:              store.Store,
	}, tracker, sessions)

	logger.Info("Starting nutrilog server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"cors_origins", strings.Join(cfg.CORSAllowedOrigins, ","))

	err = cli.Run(ctx, logger, 30*time.Second, srv.Shutdown,
		func(context.Context) error {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
		janitor.Run,
	)
	if err != nil {
		logger.Error("Server error", log.FieldError, err.Error(), "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
