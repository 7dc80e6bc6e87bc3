package main

import (
	"context"
	"os"
	"time"

	"nutrilog/internal/amqp"
	"nutrilog/internal/cli"
	"nutrilog/internal/log"
	gsheet "nutrilog/internal/sheets/google"
	"nutrilog/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT")).WithComponent(log.ComponentWorker)
	logger.Info("Starting nutrilog-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.SetupLogger(cfg.LogLevel, cfg.LogFormat).WithComponent(log.ComponentWorker)
	if err := cfg.ValidateWorker(); err != nil {
		logger.Error("Worker configuration invalid", log.FieldError, err.Error())
		os.Exit(1)
	}

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	journal, err := gsheet.New(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", log.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("Google Sheets journal ready", "spreadsheet_id", cfg.GoogleSpreadsheetID, "sheet", cfg.GoogleSheetName)

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err.Error())
		os.Exit(1)
	}
	defer client.Close()

	w := worker.NewJournalWorker(journal, logger)
	err = cli.Run(ctx, logger, 10*time.Second, nil, func(ctx context.Context) error {
		return client.ConsumeEntryEvents(ctx, cfg.SyncBatchSize, w.HandleEntryEvent)
	})
	if err != nil {
		logger.Error("Message consumption failed", log.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("Worker stopped")
}
