package ratelimit

import (
	"sync"
	"testing"
	"time"
)

// fixed clock so window expiry can be tested without sleeping
func newTestLimiter(limit int, window time.Duration) (*Limiter, *time.Time) {
	l := New(limit, window)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestAllowUpToThreshold(t *testing.T) {
	l, _ := newTestLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !l.Allow("brave") {
			t.Fatalf("call %d should be allowed", i+1)
		}
	}
	if l.Allow("brave") {
		t.Errorf("call 4 should be rejected within the same window")
	}
	if got := l.InWindow("brave"); got != 3 {
		t.Errorf("expected 3 recorded requests, got %d", got)
	}
}

func TestRejectionRecordsNoTimestamp(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)

	l.Allow("example.com")
	for i := 0; i < 5; i++ {
		l.Allow("example.com")
	}
	if got := l.InWindow("example.com"); got != 1 {
		t.Errorf("rejected calls must not record timestamps, got %d", got)
	}
}

func TestWindowExpiry(t *testing.T) {
	l, now := newTestLimiter(2, time.Minute)

	l.Allow("google")
	l.Allow("google")
	if l.Allow("google") {
		t.Fatalf("third call should be rejected")
	}

	*now = now.Add(61 * time.Second)
	if !l.Allow("google") {
		t.Errorf("call should be allowed after the oldest timestamp ages out")
	}
}

func TestKeysAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)

	if !l.Allow("a") {
		t.Fatalf("first call for a should pass")
	}
	if !l.Allow("b") {
		t.Errorf("limit on a must not affect b")
	}
	if l.Allow("a") {
		t.Errorf("second call for a should be rejected")
	}
}

func TestConcurrentAllowNeverExceedsLimit(t *testing.T) {
	l := New(10, time.Minute)

	var wg sync.WaitGroup
	allowed := make(chan struct{}, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Allow("shared") {
				allowed <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(allowed)

	n := 0
	for range allowed {
		n++
	}
	if n != 10 {
		t.Errorf("expected exactly 10 allowed calls, got %d", n)
	}
}
