// Package ratelimit throttles abusive clients per IP before requests reach
// the handlers. The public form endpoints get much tighter budgets than the
// authenticated API.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Result describes one rate-limit decision.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Store counts requests per key inside a window.
type Store interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*Result, error)
}

// sweepInterval bounds how often Allow scans the whole map for windows whose
// entries have all expired, so the key set does not grow with every distinct
// client for the life of the process.
const sweepInterval = time.Minute

// InMemoryStore is a sliding-window limiter for single-instance deployments.
type InMemoryStore struct {
	mu        sync.Mutex
	windows   map[string]*slidingWindow
	clock     func() time.Time
	nextSweep time.Time
}

type slidingWindow struct {
	timestamps []time.Time
	// expiresAt is when the newest entry leaves the window; past it the key
	// is garbage.
	expiresAt time.Time
}

type InMemoryOption func(*InMemoryStore)

// WithClock sets the clock function for testability.
func WithClock(clock func() time.Time) InMemoryOption {
	return func(s *InMemoryStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func NewInMemoryStore(opts ...InMemoryOption) *InMemoryStore {
	s := &InMemoryStore{
		windows: make(map[string]*slidingWindow),
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Allow records one request against the key and reports whether it fit the
// budget. Expired timestamps are pruned on every call.
func (s *InMemoryStore) Allow(_ context.Context, key string, limit int, window time.Duration) (*Result, error) {
	now := s.clock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if now.After(s.nextSweep) {
		for k, win := range s.windows {
			if k != key && now.After(win.expiresAt) {
				delete(s.windows, k)
			}
		}
		s.nextSweep = now.Add(sweepInterval)
	}

	w := s.windows[key]
	if w == nil {
		w = &slidingWindow{}
		s.windows[key] = w
	}
	w.expiresAt = now.Add(window)

	cutoff := now.Add(-window)
	kept := w.timestamps[:0]
	for _, ts := range w.timestamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	w.timestamps = kept

	if len(w.timestamps) >= limit {
		return &Result{
			Allowed:   false,
			Limit:     limit,
			Remaining: 0,
			ResetAt:   w.timestamps[0].Add(window),
		}, nil
	}

	w.timestamps = append(w.timestamps, now)
	return &Result{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - len(w.timestamps),
		ResetAt:   w.timestamps[0].Add(window),
	}, nil
}
