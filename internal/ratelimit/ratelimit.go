package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Result is returned by every check, allowed or not, so callers can
// always attach rate-limit headers.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	Reset      time.Time
	RetryAfter time.Duration
}

// Limiter admits or denies one request for an identifier.
type Limiter interface {
	Check(ctx context.Context, identifier string, limit int, window time.Duration) (Result, error)
}

// FixedWindow is an in-memory fixed-window limiter. State is
// process-local; multi-process deployments need SlidingWindow instead.
type FixedWindow struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

type bucket struct {
	remaining int
	reset     time.Time
}

// NewFixedWindow creates an in-memory limiter.
func NewFixedWindow() *FixedWindow {
	return &FixedWindow{
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

// Check admits the request if the identifier's window still has tokens.
// A new or elapsed window refills to the full limit.
func (l *FixedWindow) Check(_ context.Context, identifier string, limit int, window time.Duration) (Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[identifier]
	if !ok || !now.Before(b.reset) {
		b = &bucket{remaining: limit, reset: now.Add(window)}
		l.buckets[identifier] = b
	}

	res := Result{Limit: limit, Reset: b.reset}
	if b.remaining > 0 {
		b.remaining--
		res.Allowed = true
		res.Remaining = b.remaining
		return res, nil
	}
	res.Remaining = 0
	res.RetryAfter = b.reset.Sub(now)
	return res, nil
}

// Clear drops state for one identifier, or all state when identifier is
// empty. Intended for tests and admin resets.
func (l *FixedWindow) Clear(identifier string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if identifier == "" {
		l.buckets = make(map[string]*bucket)
		return
	}
	delete(l.buckets, identifier)
}
