// Package records declares the persistence and notification ports the
// tracker depends on. Adapters live in records/memory and storage.
package records

import (
	"context"

	"nutrilog/internal/core"
)

type (
	// CredentialStore owns usernames and secret hashes.
	CredentialStore interface {
		// Verify returns the principal id when username exists and secret matches.
		Verify(ctx context.Context, username, secret string) (id int64, ok bool, err error)
		Exists(ctx context.Context, username string) (bool, error)
		// Create stores a new principal with default goals. A duplicate
		// username yields core.ErrUsernameTaken.
		Create(ctx context.Context, username, secret string) (int64, error)
	}

	// RecordStore persists entries and goals. Find and Get return nil when
	// the row does not exist.
	RecordStore interface {
		InsertFood(ctx context.Context, e core.FoodEntry) (int64, error)
		InsertFitness(ctx context.Context, e core.FitnessEntry) (int64, error)
		DeleteEntry(ctx context.Context, kind core.EntryKind, id int64) (bool, error)
		FindFood(ctx context.Context, id int64) (*core.FoodEntry, error)
		FindFitness(ctx context.Context, id int64) (*core.FitnessEntry, error)
		ListFood(ctx context.Context, owner int64, date string) ([]core.FoodEntry, error)
		ListFitness(ctx context.Context, owner int64, date string) ([]core.FitnessEntry, error)
		GetPrincipal(ctx context.Context, id int64) (*core.Principal, error)
		UpdateGoals(ctx context.Context, id int64, g core.Goals) (bool, error)
	}

	// EventSink receives fire-and-forget notifications. Implementations must
	// not block the caller on delivery problems.
	EventSink interface {
		Emit(ctx context.Context, name string, fields map[string]any)
	}

	// Store is the full persistence surface of a backend.
	Store interface {
		CredentialStore
		RecordStore
	}
)
