package backend

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"nutrilog/internal/config"
	"nutrilog/internal/log"
)

func quietLogger() *log.Logger {
	return log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
}

func TestFromAppConfig(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		wantErr bool
	}{
		{"memory", "memory", false},
		{"sqlite", "sqlite", false},
		{"unknown", "sheets", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := FromAppConfig(&config.Config{DataBackend: tt.backend, SQLiteDBPath: "x.db"})
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && string(cfg.Kind) != tt.backend {
				t.Errorf("Kind = %s", cfg.Kind)
			}
		})
	}

	if _, err := FromAppConfig(nil); err == nil {
		t.Error("expected error for nil config")
	}
}

func TestConfigValidate(t *testing.T) {
	if err := (Config{Kind: SQLite}).Validate(); err == nil {
		t.Error("sqlite without path must fail")
	}
	if err := (Config{Kind: Memory}).Validate(); err != nil {
		t.Errorf("memory: %v", err)
	}
	if got := Kinds(); len(got) != 2 {
		t.Errorf("Kinds = %v", got)
	}
}

func TestOpen_Memory(t *testing.T) {
	ctx := context.Background()
	res, err := Open(ctx, Config{Kind: Memory}, quietLogger())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if res.Cleanup != nil {
		t.Error("memory backend needs no cleanup")
	}
	if err := res.Store.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	id, err := res.Store.Create(ctx, "alice", "pw")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	p, err := res.Store.GetPrincipal(ctx, id)
	if err != nil || p == nil || p.Username != "alice" {
		t.Fatalf("GetPrincipal = %+v, %v", p, err)
	}
}

func TestOpen_SQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nutrilog.db")

	res, err := Open(ctx, Config{Kind: SQLite, SQLitePath: path}, quietLogger())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = res.Cleanup() })

	if err := res.Store.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	exists, err := res.Store.Exists(ctx, "nobody")
	if err != nil || exists {
		t.Fatalf("Exists = %v, %v", exists, err)
	}
}

func TestOpen_Invalid(t *testing.T) {
	if _, err := Open(context.Background(), Config{Kind: "redis"}, nil); err == nil {
		t.Fatal("expected error")
	}
}
