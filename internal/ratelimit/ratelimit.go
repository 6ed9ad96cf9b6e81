package ratelimit

import (
	"sync"
	"time"
)

// WindowLength is the span of a single counting window.
const WindowLength = time.Minute

type window struct {
	start time.Time
	count int
}

// Limiter counts requests per key over fixed one-minute windows. When a
// window expires the count resets; there is no sliding credit across the
// boundary. Stale keys are cleared as a side effect of their next request.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	now     func() time.Time
}

// NewLimiter builds a limiter allowing limit requests per key per window.
func NewLimiter(limit int) *Limiter {
	return &Limiter{
		windows: make(map[string]*window),
		limit:   limit,
		now:     time.Now,
	}
}

// Allow records a request for the key and reports whether it fits in the
// current window.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= WindowLength {
		l.windows[key] = &window{start: now, count: 1}
		return true
	}

	if w.count >= l.limit {
		return false
	}
	w.count++
	return true
}
