// Package ratelimit throttles requests per client address.
package ratelimit

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

const (
	window  = time.Minute
	idleTTL = 10 * time.Minute
)

type Config struct {
	RequestsPerMinute int
	// PruneInterval is how often idle clients are forgotten.
	PruneInterval time.Duration
}

func DefaultConfig() Config {
	return Config{RequestsPerMinute: 60, PruneInterval: 5 * time.Minute}
}

// Limiter counts requests per client in fixed one-minute windows.
type Limiter struct {
	limit int
	now   func() time.Time

	mu      sync.Mutex
	windows map[string]*counter

	rejected atomic.Int64
	done     chan struct{}
	stop     sync.Once
}

type counter struct {
	start time.Time
	last  time.Time
	n     int
}

// NewLimiter returns a limiter with a background pruning loop. Call Stop to
// end the loop.
func NewLimiter(cfg Config) *Limiter {
	def := DefaultConfig()
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = def.RequestsPerMinute
	}
	if cfg.PruneInterval <= 0 {
		cfg.PruneInterval = def.PruneInterval
	}
	l := &Limiter{
		limit:   cfg.RequestsPerMinute,
		now:     time.Now,
		windows: make(map[string]*counter),
		done:    make(chan struct{}),
	}
	go l.pruneLoop(cfg.PruneInterval)
	return l
}

func (l *Limiter) Allow(client string) bool {
	ok, _ := l.Reserve(client)
	return ok
}

// Reserve counts a request from client. When the window is exhausted it
// returns false and the time left until the window resets.
func (l *Limiter) Reserve(client string) (bool, time.Duration) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	c := l.windows[client]
	if c == nil || now.Sub(c.start) >= window {
		l.windows[client] = &counter{start: now, last: now, n: 1}
		return true, 0
	}
	c.n++
	c.last = now
	if c.n <= l.limit {
		return true, 0
	}
	l.rejected.Add(1)
	return false, c.start.Add(window).Sub(now)
}

func (l *Limiter) pruneLoop(every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-l.done:
			return
		case <-t.C:
			l.prune()
		}
	}
}

// prune forgets clients idle for longer than idleTTL.
func (l *Limiter) prune() int {
	cutoff := l.now().Add(-idleTTL)

	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for k, c := range l.windows {
		if c.last.Before(cutoff) {
			delete(l.windows, k)
			n++
		}
	}
	return n
}

func (l *Limiter) ActiveClients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}

// Stop ends the pruning loop. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.stop.Do(func() { close(l.done) })
}

type Metrics struct {
	Rejected    int64
	ClientCount int64
}

func (l *Limiter) GetMetrics() Metrics {
	return Metrics{Rejected: l.rejected.Load(), ClientCount: int64(l.ActiveClients())}
}

// Middleware limits requests for which limited returns true; a nil limited
// limits every request. onLimit writes the 429 body.
func (l *Limiter) Middleware(clientOf func(*http.Request) string, limited func(*http.Request) bool, onLimit func(http.ResponseWriter, *http.Request)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limited == nil || limited(r) {
				if ok, wait := l.Reserve(clientOf(r)); !ok {
					w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(wait)))
					if onLimit == nil {
						http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
					} else {
						onLimit(w, r)
					}
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func retryAfterSeconds(d time.Duration) int {
	return max(1, int(math.Ceil(d.Seconds())))
}
