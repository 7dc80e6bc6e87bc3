package backend

import (
	"errors"
	"fmt"

	"nutrilog/internal/config"
)

// Kind names a record store implementation.
type Kind string

const (
	SQLite Kind = "sqlite"
	Memory Kind = "memory"
)

// Kinds lists every supported store kind.
func Kinds() []Kind { return []Kind{SQLite, Memory} }

func (k Kind) valid() bool {
	return k == SQLite || k == Memory
}

type Config struct {
	Kind       Kind
	SQLitePath string
}

// FromAppConfig picks the store settings out of the application config.
func FromAppConfig(app *config.Config) (Config, error) {
	if app == nil {
		return Config{}, errors.New("backend: nil app config")
	}
	cfg := Config{Kind: Kind(app.DataBackend), SQLitePath: app.SQLiteDBPath}
	if !cfg.Kind.valid() {
		return Config{}, fmt.Errorf("backend: unknown kind %q (want one of %v)", app.DataBackend, Kinds())
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if !c.Kind.valid() {
		return fmt.Errorf("backend: unknown kind %q", c.Kind)
	}
	if c.Kind == SQLite && c.SQLitePath == "" {
		return errors.New("backend: sqlite store needs a database path")
	}
	return nil
}
