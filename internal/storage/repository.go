package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"nutrilog/internal/auth"
	"nutrilog/internal/core"
	"nutrilog/internal/records"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

var _ records.Store = (*SQLiteRepository)(nil)

// dsn enables foreign keys and a busy timeout on every pooled connection.
func dsn(dbPath string) string {
	return "file:" + dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks the database connection for readiness probes.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Verify implements records.CredentialStore
func (r *SQLiteRepository) Verify(ctx context.Context, username, secret string) (int64, bool, error) {
	u, err := r.queries.GetUserByUsername(ctx, username)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get user by username: %w", err)
	}
	ok, err := auth.CompareSecret(u.PasswordHash, secret)
	if err != nil || !ok {
		return 0, false, err
	}
	return u.ID, true, nil
}

// Exists implements records.CredentialStore
func (r *SQLiteRepository) Exists(ctx context.Context, username string) (bool, error) {
	n, err := r.queries.UsernameExists(ctx, username)
	if err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return n != 0, nil
}

// Create implements records.CredentialStore
func (r *SQLiteRepository) Create(ctx context.Context, username, secret string) (int64, error) {
	hash, err := auth.HashSecret(secret)
	if err != nil {
		return 0, err
	}
	id, err := r.queries.CreateUser(ctx, CreateUserParams{Username: username, PasswordHash: hash})
	if isUniqueViolation(err) {
		return 0, core.ErrUsernameTaken
	}
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}

	slog.InfoContext(ctx, "User saved to SQLite", "id", id)
	return id, nil
}

// InsertFood implements records.RecordStore
func (r *SQLiteRepository) InsertFood(ctx context.Context, e core.FoodEntry) (int64, error) {
	id, err := r.queries.CreateFoodEntry(ctx, CreateFoodEntryParams{
		UserID:   e.Owner,
		Date:     e.Date,
		Food:     e.Food,
		Calories: e.Calories,
		Protein:  e.Protein,
		Fat:      e.Fat,
		Carbs:    e.Carbs,
	})
	if err != nil {
		return 0, fmt.Errorf("create food entry: %w", err)
	}
	return id, nil
}

// InsertFitness implements records.RecordStore
func (r *SQLiteRepository) InsertFitness(ctx context.Context, e core.FitnessEntry) (int64, error) {
	id, err := r.queries.CreateFitnessEntry(ctx, CreateFitnessEntryParams{
		UserID:     e.Owner,
		Date:       e.Date,
		Exercise:   e.Exercise,
		KcalBurned: e.KcalBurned,
	})
	if err != nil {
		return 0, fmt.Errorf("create fitness entry: %w", err)
	}
	return id, nil
}

// DeleteEntry implements records.RecordStore
func (r *SQLiteRepository) DeleteEntry(ctx context.Context, kind core.EntryKind, id int64) (bool, error) {
	var (
		n   int64
		err error
	)
	switch kind {
	case core.KindFood:
		n, err = r.queries.DeleteFoodEntry(ctx, id)
	case core.KindFitness:
		n, err = r.queries.DeleteFitnessEntry(ctx, id)
	default:
		return false, fmt.Errorf("unknown entry kind %q", kind)
	}
	if err != nil {
		return false, fmt.Errorf("delete %s entry %d: %w", kind, id, err)
	}
	return n > 0, nil
}

// FindFood implements records.RecordStore
func (r *SQLiteRepository) FindFood(ctx context.Context, id int64) (*core.FoodEntry, error) {
	row, err := r.queries.GetFoodEntry(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get food entry %d: %w", id, err)
	}
	e := foodFromRow(row)
	return &e, nil
}

// FindFitness implements records.RecordStore
func (r *SQLiteRepository) FindFitness(ctx context.Context, id int64) (*core.FitnessEntry, error) {
	row, err := r.queries.GetFitnessEntry(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get fitness entry %d: %w", id, err)
	}
	e := fitnessFromRow(row)
	return &e, nil
}

// ListFood implements records.RecordStore
func (r *SQLiteRepository) ListFood(ctx context.Context, owner int64, date string) ([]core.FoodEntry, error) {
	rows, err := r.queries.ListFoodEntries(ctx, ListFoodEntriesParams{UserID: owner, Date: date})
	if err != nil {
		return nil, fmt.Errorf("list food entries: %w", err)
	}
	out := make([]core.FoodEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, foodFromRow(row))
	}
	return out, nil
}

// ListFitness implements records.RecordStore
func (r *SQLiteRepository) ListFitness(ctx context.Context, owner int64, date string) ([]core.FitnessEntry, error) {
	rows, err := r.queries.ListFitnessEntries(ctx, ListFitnessEntriesParams{UserID: owner, Date: date})
	if err != nil {
		return nil, fmt.Errorf("list fitness entries: %w", err)
	}
	out := make([]core.FitnessEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, fitnessFromRow(row))
	}
	return out, nil
}

// GetPrincipal implements records.RecordStore
func (r *SQLiteRepository) GetPrincipal(ctx context.Context, id int64) (*core.Principal, error) {
	u, err := r.queries.GetUser(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return &core.Principal{
		ID:       u.ID,
		Username: u.Username,
		Goals: core.Goals{
			Calories: u.CalorieGoal,
			Protein:  u.ProteinGoal,
			Fat:      u.FatGoal,
			Carbs:    u.CarbsGoal,
		},
	}, nil
}

// UpdateGoals implements records.RecordStore
func (r *SQLiteRepository) UpdateGoals(ctx context.Context, id int64, g core.Goals) (bool, error) {
	n, err := r.queries.UpdateUserGoals(ctx, UpdateUserGoalsParams{
		CalorieGoal: g.Calories,
		ProteinGoal: g.Protein,
		FatGoal:     g.Fat,
		CarbsGoal:   g.Carbs,
		ID:          id,
	})
	if err != nil {
		return false, fmt.Errorf("update goals for user %d: %w", id, err)
	}
	return n > 0, nil
}

func foodFromRow(row FoodLog) core.FoodEntry {
	return core.FoodEntry{
		ID:       row.ID,
		Owner:    row.UserID,
		Date:     row.Date,
		Food:     row.Food,
		Calories: row.Calories,
		Protein:  row.Protein,
		Fat:      row.Fat,
		Carbs:    row.Carbs,
	}
}

func fitnessFromRow(row FitnessLog) core.FitnessEntry {
	return core.FitnessEntry{
		ID:         row.ID,
		Owner:      row.UserID,
		Date:       row.Date,
		Exercise:   row.Exercise,
		KcalBurned: row.KcalBurned,
	}
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}
