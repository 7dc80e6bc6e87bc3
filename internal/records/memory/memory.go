package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"nutrilog/internal/auth"
	"nutrilog/internal/core"
	"nutrilog/internal/records"
)

type account struct {
	principal core.Principal
	hash      string
}

// Store keeps principals and entries in process memory. It is meant for
// development and tests.
type Store struct {
	mu         sync.Mutex
	nextID     int64
	accounts   map[int64]*account
	byUsername map[string]int64
	food       map[int64]core.FoodEntry
	fitness    map[int64]core.FitnessEntry
}

var _ records.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		accounts:   map[int64]*account{},
		byUsername: map[string]int64{},
		food:       map[int64]core.FoodEntry{},
		fitness:    map[int64]core.FitnessEntry{},
	}
}

func (s *Store) next() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) Verify(_ context.Context, username, secret string) (int64, bool, error) {
	s.mu.Lock()
	id, ok := s.byUsername[username]
	var hash string
	if ok {
		hash = s.accounts[id].hash
	}
	s.mu.Unlock()
	if !ok {
		return 0, false, nil
	}
	match, err := auth.CompareSecret(hash, secret)
	if err != nil || !match {
		return 0, false, err
	}
	return id, true, nil
}

func (s *Store) Exists(_ context.Context, username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.byUsername[username]
	return ok, nil
}

func (s *Store) Create(_ context.Context, username, secret string) (int64, error) {
	hash, err := auth.HashSecret(secret)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byUsername[username]; ok {
		return 0, core.ErrUsernameTaken
	}
	id := s.next()
	s.accounts[id] = &account{
		principal: core.Principal{ID: id, Username: username, Goals: core.DefaultGoals()},
		hash:      hash,
	}
	s.byUsername[username] = id
	return id, nil
}

func (s *Store) InsertFood(_ context.Context, e core.FoodEntry) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.next()
	s.food[e.ID] = e
	return e.ID, nil
}

func (s *Store) InsertFitness(_ context.Context, e core.FitnessEntry) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.next()
	s.fitness[e.ID] = e
	return e.ID, nil
}

func (s *Store) DeleteEntry(_ context.Context, kind core.EntryKind, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch kind {
	case core.KindFood:
		_, ok := s.food[id]
		delete(s.food, id)
		return ok, nil
	case core.KindFitness:
		_, ok := s.fitness[id]
		delete(s.fitness, id)
		return ok, nil
	default:
		return false, fmt.Errorf("unknown entry kind %q", kind)
	}
}

func (s *Store) FindFood(_ context.Context, id int64) (*core.FoodEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.food[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (s *Store) FindFitness(_ context.Context, id int64) (*core.FitnessEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.fitness[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

// ListFood returns owner's food entries for date in insertion order.
func (s *Store) ListFood(_ context.Context, owner int64, date string) ([]core.FoodEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []core.FoodEntry{}
	for _, e := range s.food {
		if e.Owner == owner && e.Date == date {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) ListFitness(_ context.Context, owner int64, date string) ([]core.FitnessEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []core.FitnessEntry{}
	for _, e := range s.fitness {
		if e.Owner == owner && e.Date == date {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetPrincipal(_ context.Context, id int64) (*core.Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return nil, nil
	}
	p := a.principal
	return &p, nil
}

func (s *Store) UpdateGoals(_ context.Context, id int64, g core.Goals) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return false, nil
	}
	a.principal.Goals = g
	return true, nil
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }
