// Package ratelimit implements a keyed fixed-window request limiter.
package ratelimit

import (
	"sync"
	"time"

	"github.com/ShaKy8/CountdownToRetirement/internal/clock"
)

// Limiter manages rate limiting for multiple keys.
// Each key gets Limit requests per Window; the window starts with the
// key's first request and resets once it has fully elapsed.
type Limiter struct {
	limit    int
	window   time.Duration
	clock    clock.Clock
	limiters map[string]*bucket
	mu       sync.Mutex
}

type bucket struct {
	tokens   int
	lastFill time.Time
}

// NewLimiter creates a limiter allowing limit requests per window.
// A nil clock uses the real clock.
func NewLimiter(limit int, window time.Duration, clk clock.Clock) *Limiter {
	return &Limiter{
		limit:    limit,
		window:   window,
		clock:    clock.OrReal(clk),
		limiters: make(map[string]*bucket),
	}
}

// Allow checks if a request for the given key is allowed. When it is not,
// retryAfter is the time until the key's window resets.
func (l *Limiter) Allow(key string) (ok bool, retryAfter time.Duration) {
	if l.limit <= 0 {
		return true, 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	b, exists := l.limiters[key]
	if !exists || now.Sub(b.lastFill) >= l.window {
		b = &bucket{tokens: l.limit, lastFill: now}
		l.limiters[key] = b
	}

	if b.tokens <= 0 {
		return false, b.lastFill.Add(l.window).Sub(now)
	}
	b.tokens--
	return true, 0
}

// Reset clears rate limit for a specific key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.limiters, key)
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// CleanupExpired removes buckets whose window ended more than maxAge ago
// and returns how many were removed.
func (l *Limiter) CleanupExpired(maxAge time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	removed := 0
	for key, b := range l.limiters {
		if now.Sub(b.lastFill) > l.window+maxAge {
			delete(l.limiters, key)
			removed++
		}
	}
	return removed
}
