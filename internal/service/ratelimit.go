package service

import (
	"sync"
	"time"
)

// LoginLimiter is an in-memory per-key rate limiter guarding the login
// endpoint against password guessing. Each key (client IP) gets a token
// bucket; tokens refill continuously at rate per second up to capacity.
// Safe for concurrent use.
type LoginLimiter struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	rate     float64
	capacity float64
}

type bucket struct {
	tokens float64
	last   time.Time
}

// NewLoginLimiter creates a limiter allowing bursts of capacity attempts
// per key, refilling at rate tokens per second.
func NewLoginLimiter(rate, capacity float64) *LoginLimiter {
	return &LoginLimiter{
		buckets:  make(map[string]*bucket),
		rate:     rate,
		capacity: capacity,
	}
}

// Allow reports whether the given key may attempt a login. Each call
// consumes one token. Stale buckets are pruned opportunistically so the
// map stays proportional to recent clients without a background
// goroutine.
func (l *LoginLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if len(l.buckets) > 64 {
		l.prune(now)
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: l.capacity, last: now}
		l.buckets[key] = b
	}

	elapsed := now.Sub(b.last).Seconds()
	b.tokens = min(b.tokens+elapsed*l.rate, l.capacity)
	b.last = now

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// prune drops buckets idle long enough to have fully refilled; they are
// indistinguishable from fresh ones.
func (l *LoginLimiter) prune(now time.Time) {
	idle := time.Duration(l.capacity/l.rate) * time.Second
	cutoff := now.Add(-idle)
	for key, b := range l.buckets {
		if b.last.Before(cutoff) {
			delete(l.buckets, key)
		}
	}
}
