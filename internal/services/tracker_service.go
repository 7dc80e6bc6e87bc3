package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"nutrilog/internal/core"
	"nutrilog/internal/events"
	"nutrilog/internal/records"
)

// Tracker runs the nutrition use cases against the injected stores and
// reports what happened to the event sink.
type Tracker struct {
	creds  records.CredentialStore
	store  records.RecordStore
	events records.EventSink
}

func NewTracker(creds records.CredentialStore, store records.RecordStore, sink records.EventSink) *Tracker {
	if sink == nil {
		sink = events.Discard{}
	}
	return &Tracker{
		creds:  creds,
		store:  store,
		events: sink,
	}
}

// Register creates a principal with default goals.
func (t *Tracker) Register(ctx context.Context, username, secret string) (int64, error) {
	username, err := core.ValidateCredentials(username, secret)
	if err != nil {
		t.emitValidation(ctx, "registration_failed", 0, err)
		return 0, err
	}

	exists, err := t.creds.Exists(ctx, username)
	if err != nil {
		return 0, fmt.Errorf("check username: %w", err)
	}
	if exists {
		t.emit(ctx, "registration_failed", map[string]any{events.KeyUsername: username, events.KeyReason: "username_taken"})
		return 0, core.ErrUsernameTaken
	}

	id, err := t.creds.Create(ctx, username, secret)
	if errors.Is(err, core.ErrUsernameTaken) {
		t.emit(ctx, "registration_failed", map[string]any{events.KeyUsername: username, events.KeyReason: "username_taken"})
		return 0, err
	}
	if err != nil {
		return 0, fmt.Errorf("create principal: %w", err)
	}

	t.emit(ctx, "registration_success", map[string]any{events.KeyPrincipalID: id, events.KeyUsername: username})
	return id, nil
}

// Login verifies credentials and returns the matching principal.
func (t *Tracker) Login(ctx context.Context, username, secret string) (core.Principal, error) {
	username, err := core.ValidateCredentials(username, secret)
	if err != nil {
		return core.Principal{}, err
	}

	id, ok, err := t.creds.Verify(ctx, username, secret)
	if err != nil {
		return core.Principal{}, fmt.Errorf("verify credentials: %w", err)
	}
	if !ok {
		t.emit(ctx, "login_failure", map[string]any{events.KeyUsername: username})
		return core.Principal{}, core.ErrInvalidCredentials
	}

	p, err := t.principal(ctx, id)
	if err != nil {
		return core.Principal{}, err
	}

	t.emit(ctx, "login_success", map[string]any{events.KeyPrincipalID: id, events.KeyUsername: username})
	return *p, nil
}

// Principal resolves principalID or fails with core.ErrPrincipalNotFound.
func (t *Tracker) Principal(ctx context.Context, principalID int64) (core.Principal, error) {
	p, err := t.principal(ctx, principalID)
	if err != nil {
		return core.Principal{}, err
	}
	return *p, nil
}

func (t *Tracker) principal(ctx context.Context, id int64) (*core.Principal, error) {
	p, err := t.store.GetPrincipal(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get principal %d: %w", id, err)
	}
	if p == nil {
		return nil, core.ErrPrincipalNotFound
	}
	return p, nil
}

// AddFood validates raw for principalID and stores the entry.
func (t *Tracker) AddFood(ctx context.Context, principalID int64, raw core.Payload) (core.FoodEntry, error) {
	if _, err := t.principal(ctx, principalID); err != nil {
		return core.FoodEntry{}, err
	}

	entry, err := core.ValidateFood(raw, principalID)
	if err != nil {
		t.emitValidation(ctx, "add_food_validation_failed", principalID, err)
		return core.FoodEntry{}, err
	}

	id, err := t.store.InsertFood(ctx, entry)
	if err != nil {
		return core.FoodEntry{}, fmt.Errorf("insert food entry: %w", err)
	}
	entry.ID = id

	t.emit(ctx, "add_food_success", foodFields(entry))
	return entry, nil
}

// AddFitness validates raw for principalID and stores the entry.
func (t *Tracker) AddFitness(ctx context.Context, principalID int64, raw core.Payload) (core.FitnessEntry, error) {
	if _, err := t.principal(ctx, principalID); err != nil {
		return core.FitnessEntry{}, err
	}

	entry, err := core.ValidateFitness(raw, principalID)
	if err != nil {
		t.emitValidation(ctx, "add_fitness_validation_failed", principalID, err)
		return core.FitnessEntry{}, err
	}

	id, err := t.store.InsertFitness(ctx, entry)
	if err != nil {
		return core.FitnessEntry{}, fmt.Errorf("insert fitness entry: %w", err)
	}
	entry.ID = id

	t.emit(ctx, "add_fitness_success", fitnessFields(entry))
	return entry, nil
}

// DeleteFood removes one of principalID's food entries.
func (t *Tracker) DeleteFood(ctx context.Context, principalID, entryID int64) error {
	if _, err := t.principal(ctx, principalID); err != nil {
		return err
	}

	entry, err := t.store.FindFood(ctx, entryID)
	if err != nil {
		return fmt.Errorf("find food entry: %w", err)
	}
	if err := core.AuthorizeMutation(principalID, entry); err != nil {
		t.emitDenied(ctx, "delete_food_failed", core.KindFood, principalID, entryID)
		return err
	}

	if err := t.deleteEntry(ctx, core.KindFood, entryID); err != nil {
		return err
	}

	t.emit(ctx, "delete_food_success", foodFields(*entry))
	return nil
}

// DeleteFitness removes one of principalID's fitness entries.
func (t *Tracker) DeleteFitness(ctx context.Context, principalID, entryID int64) error {
	if _, err := t.principal(ctx, principalID); err != nil {
		return err
	}

	entry, err := t.store.FindFitness(ctx, entryID)
	if err != nil {
		return fmt.Errorf("find fitness entry: %w", err)
	}
	if err := core.AuthorizeMutation(principalID, entry); err != nil {
		t.emitDenied(ctx, "delete_fitness_failed", core.KindFitness, principalID, entryID)
		return err
	}

	if err := t.deleteEntry(ctx, core.KindFitness, entryID); err != nil {
		return err
	}

	t.emit(ctx, "delete_fitness_success", fitnessFields(*entry))
	return nil
}

func (t *Tracker) deleteEntry(ctx context.Context, kind core.EntryKind, id int64) error {
	ok, err := t.store.DeleteEntry(ctx, kind, id)
	if err != nil {
		return fmt.Errorf("delete %s entry: %w", kind, err)
	}
	if !ok {
		// Removed between lookup and delete.
		return core.ErrNotFoundOrUnauthorized
	}
	return nil
}

// UpdateGoals replaces all four goals; partial updates are rejected.
func (t *Tracker) UpdateGoals(ctx context.Context, principalID int64, raw core.Payload) (core.Goals, error) {
	if _, err := t.principal(ctx, principalID); err != nil {
		return core.Goals{}, err
	}

	goals, err := core.ValidateGoals(raw)
	if err != nil {
		t.emitValidation(ctx, "update_goals_validation_failed", principalID, err)
		return core.Goals{}, err
	}

	ok, err := t.store.UpdateGoals(ctx, principalID, goals)
	if err != nil {
		return core.Goals{}, fmt.Errorf("update goals: %w", err)
	}
	if !ok {
		return core.Goals{}, core.ErrPrincipalNotFound
	}

	t.emit(ctx, "update_goals_success", map[string]any{
		events.KeyPrincipalID: principalID,
		"calorie_goal":        goals.Calories,
		"protein_goal":        goals.Protein,
		"fat_goal":            goals.Fat,
		"carbs_goal":          goals.Carbs,
	})
	return goals, nil
}

// Summarize builds principalID's summary for date. It is read-only and
// recomputed on every call.
func (t *Tracker) Summarize(ctx context.Context, principalID int64, date string) (core.DailySummary, error) {
	if err := core.CheckDay("date", date); err != nil {
		return core.DailySummary{}, err
	}
	p, err := t.principal(ctx, principalID)
	if err != nil {
		return core.DailySummary{}, err
	}
	return t.summarizeDay(ctx, *p, date)
}

// SummarizeRange returns one summary per day in [from, to].
func (t *Tracker) SummarizeRange(ctx context.Context, principalID int64, from, to string) ([]core.DailySummary, error) {
	start, end, err := core.ValidateRange(from, to)
	if err != nil {
		return nil, err
	}
	p, err := t.principal(ctx, principalID)
	if err != nil {
		return nil, err
	}

	var out []core.DailySummary
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		s, err := t.summarizeDay(ctx, *p, day.Format(core.DateLayout))
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (t *Tracker) summarizeDay(ctx context.Context, p core.Principal, date string) (core.DailySummary, error) {
	food, err := t.store.ListFood(ctx, p.ID, date)
	if err != nil {
		return core.DailySummary{}, fmt.Errorf("list food entries: %w", err)
	}
	fitness, err := t.store.ListFitness(ctx, p.ID, date)
	if err != nil {
		return core.DailySummary{}, fmt.Errorf("list fitness entries: %w", err)
	}
	return core.Summarize(p, date, food, fitness), nil
}

func (t *Tracker) emit(ctx context.Context, name string, fields map[string]any) {
	t.events.Emit(ctx, name, fields)
}

func (t *Tracker) emitValidation(ctx context.Context, name string, principalID int64, err error) {
	fields := map[string]any{}
	if principalID > 0 {
		fields[events.KeyPrincipalID] = principalID
	}
	var verr *core.ValidationError
	if errors.As(err, &verr) {
		fields[events.KeyFields] = strings.Join(verr.FieldNames(), ",")
	}
	fields[events.KeyReason] = core.CodeOf(err)
	t.emit(ctx, name, fields)
}

func (t *Tracker) emitDenied(ctx context.Context, name string, kind core.EntryKind, principalID, entryID int64) {
	// No entry_id: denied attempts are logged but never published.
	t.emit(ctx, name, map[string]any{
		events.KeyPrincipalID: principalID,
		events.KeyEntryKind:   kind.String(),
		"requested_id":        entryID,
		events.KeyReason:      core.CodeOf(core.ErrNotFoundOrUnauthorized),
	})
}

func foodFields(e core.FoodEntry) map[string]any {
	return map[string]any{
		events.KeyPrincipalID: e.Owner,
		events.KeyEntryKind:   core.KindFood.String(),
		events.KeyEntryID:     e.ID,
		events.KeyDate:        e.Date,
		events.KeyName:        e.Food,
		events.KeyCalories:    e.Calories,
		events.KeyProtein:     e.Protein,
		events.KeyFat:         e.Fat,
		events.KeyCarbs:       e.Carbs,
	}
}

func fitnessFields(e core.FitnessEntry) map[string]any {
	return map[string]any{
		events.KeyPrincipalID: e.Owner,
		events.KeyEntryKind:   core.KindFitness.String(),
		events.KeyEntryID:     e.ID,
		events.KeyDate:        e.Date,
		events.KeyName:        e.Exercise,
		events.KeyKcalBurned:  e.KcalBurned,
	}
}
