package ratelimit

import (
	"context"
	"log"
	"sync"
	"time"
)

type window struct {
	start time.Time
	count int
}

// Limiter throttles requests per source key to a fixed count per window.
// State is per-process; a restart simply begins fresh windows.
type Limiter struct {
	mu      sync.Mutex
	window  time.Duration
	entries map[string]*window
}

// NewLimiter creates a limiter with a one-minute window.
func NewLimiter() *Limiter {
	return NewLimiterWithWindow(time.Minute)
}

// NewLimiterWithWindow allows a custom window length.
func NewLimiterWithWindow(d time.Duration) *Limiter {
	return &Limiter{window: d, entries: make(map[string]*window)}
}

// Acquire blocks until the key has a free slot in the current window, then
// consumes it. A limit of zero or less disables throttling for the call.
func (l *Limiter) Acquire(ctx context.Context, key string, limit int) error {
	if limit <= 0 {
		return nil
	}

	for {
		l.mu.Lock()
		now := time.Now()

		e, ok := l.entries[key]
		if !ok {
			e = &window{start: now}
			l.entries[key] = e
		}

		if now.Sub(e.start) > l.window {
			e.start = now
			e.count = 0
		}

		if e.count < limit {
			e.count++
			l.mu.Unlock()
			return nil
		}

		wait := l.window - now.Sub(e.start)
		l.mu.Unlock()

		if wait > 0 {
			log.Printf("Rate limiting %s, waiting %s", key, wait)
			t := time.NewTimer(wait)
			select {
			case <-t.C:
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			}
			t.Stop()
		}
		// Re-check under the lock; the window has rolled over by now.
	}
}
