// Package ratelimit implements a sliding-window request counter keyed by an
// arbitrary string (a provider name or a target domain). Callers must treat a
// false return as "try the next option" or "reject" — the limiter never blocks.
package ratelimit

import (
	"sync"
	"time"
)

type Limiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	windows map[string][]time.Time
	now     func() time.Time
}

// New creates a limiter allowing at most limit requests per key within the
// trailing window.
func New(limit int, window time.Duration) *Limiter {
	return &Limiter{
		limit:   limit,
		window:  window,
		windows: make(map[string][]time.Time),
		now:     time.Now,
	}
}

// Allow reports whether a request for key may proceed and, if so, records it.
// The check-and-record sequence is atomic per call so two concurrent callers
// cannot both slip under the threshold.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	kept := l.windows[key][:0]
	for _, ts := range l.windows[key] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) == 0 {
		// Equivalent to an absent key; drop the slice instead of keeping
		// an empty one around forever.
		delete(l.windows, key)
	} else {
		l.windows[key] = kept
	}

	if len(kept) >= l.limit {
		return false
	}

	l.windows[key] = append(kept, now)
	return true
}

// InWindow returns the number of recorded requests for key still inside the
// trailing window. Used for logging and tests.
func (l *Limiter) InWindow(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.window)
	n := 0
	for _, ts := range l.windows[key] {
		if ts.After(cutoff) {
			n++
		}
	}
	return n
}
