// Package backend opens the record store selected by configuration.
package backend

import (
	"context"
	"fmt"

	"nutrilog/internal/log"
	"nutrilog/internal/records"
	"nutrilog/internal/records/memory"
	"nutrilog/internal/storage"
)

// Store is a record store the server can health-check and close.
type Store interface {
	records.Store
	Ping(ctx context.Context) error
	Close() error
}

// Opened is the store returned by Open. Cleanup is nil when the store holds
// no external resources.
type Opened struct {
	Store   Store
	Cleanup func() error
}

// Open validates cfg and opens the store it names.
func Open(ctx context.Context, cfg Config, logger *log.Logger) (*Opened, error) {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentBackend)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Kind {
	case SQLite:
		repo, err := storage.NewSQLiteRepository(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		if err := repo.Ping(ctx); err != nil {
			_ = repo.Close()
			return nil, fmt.Errorf("ping sqlite store: %w", err)
		}
		logger.Info("Record store ready", "kind", cfg.Kind, "db_path", cfg.SQLitePath)
		return &Opened{Store: repo, Cleanup: repo.Close}, nil
	case Memory:
		logger.Warn("Record store is in memory, records are lost on restart", "kind", cfg.Kind)
		return &Opened{Store: memory.New()}, nil
	}
	return nil, fmt.Errorf("unsupported backend %q", cfg.Kind)
}
