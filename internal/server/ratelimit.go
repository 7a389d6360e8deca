package server

import (
	"sync"
	"time"
)

// Limiter is a fixed-window request counter keyed by caller identity.
// Each caller gets `limit` requests per window; the count resets when a
// new window starts. A limit of zero or less disables limiting.
type Limiter struct {
	limit  int
	window time.Duration

	mu        sync.Mutex
	counts    map[string]*callerWindow
	lastSweep time.Time

	now func() time.Time // injectable for tests
}

type callerWindow struct {
	start time.Time
	count int
}

// NewLimiter creates a limiter allowing limit requests per window per
// caller.
func NewLimiter(limit int, window time.Duration) *Limiter {
	return &Limiter{
		limit:  limit,
		window: window,
		counts: map[string]*callerWindow{},
		now:    time.Now,
	}
}

// Allow reports whether callerID may make a request now, consuming one
// slot of the current window if so.
func (l *Limiter) Allow(callerID string) bool {
	if l.limit <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	w, ok := l.counts[callerID]
	if !ok || now.Sub(w.start) >= l.window {
		w = &callerWindow{start: now.Truncate(l.window)}
		l.counts[callerID] = w
	}

	w.count++
	return w.count <= l.limit
}

// sweep drops callers whose window has long expired. Runs at most once
// per window so Allow stays cheap.
func (l *Limiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.window {
		return
	}
	l.lastSweep = now
	for id, w := range l.counts {
		if now.Sub(w.start) >= 2*l.window {
			delete(l.counts, id)
		}
	}
}
