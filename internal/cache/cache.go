package cache

import (
	"context"
	"time"
)

// Cache defines a generic cache interface
type Cache[T any] interface {
	// Get retrieves a value from the cache
	Get(key string) (T, bool)

	// Set stores a value in the cache with the default TTL
	Set(key string, data T)

	// SetWithTTL stores a value that expires after ttl
	SetWithTTL(key string, data T, ttl time.Duration)

	// Delete removes a key from the cache
	Delete(key string)

	// Size returns the current number of items in the cache
	Size() int
}

// Cleaner interface for caches that support cleanup
type Cleaner interface {
	CleanExpired() int
}

// Janitor periodically drops expired entries from registered caches
type Janitor struct {
	caches   []Cleaner
	interval time.Duration
	onClean  func(removed int)
}

// NewJanitor creates a janitor that sweeps every interval. onClean, if not
// nil, is called after each sweep that removed something.
func NewJanitor(interval time.Duration, onClean func(removed int)) *Janitor {
	return &Janitor{interval: interval, onClean: onClean}
}

// Register adds a cache to the sweep list. Not safe to call after Run.
func (j *Janitor) Register(c Cleaner) {
	j.caches = append(j.caches, c)
}

// Sweep runs one cleanup pass and returns the number of removed entries
func (j *Janitor) Sweep() int {
	total := 0
	for _, c := range j.caches {
		total += c.CleanExpired()
	}
	if total > 0 && j.onClean != nil {
		j.onClean(total)
	}
	return total
}

// Run sweeps until ctx is done
func (j *Janitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.Sweep()
		case <-ctx.Done():
			return nil
		}
	}
}
