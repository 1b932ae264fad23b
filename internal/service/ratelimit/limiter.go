package ratelimit

import (
	"sync"
	"time"
)

// bucket is a token bucket refilled continuously at refillRate per second.
type bucket struct {
	tokens   float64
	lastSeen time.Time
}

// Limiter keeps one token bucket per ticker so a burst of requests for one
// symbol cannot starve the provider budget of another. Buckets idle longer
// than staleAfter are pruned on the fly.
type Limiter struct {
	mu         sync.Mutex
	buckets    map[string]*bucket
	staleAfter time.Duration
}

func New() *Limiter {
	return &Limiter{
		buckets:    make(map[string]*bucket),
		staleAfter: 10 * time.Minute,
	}
}

// Allow consumes one token for key if available. capacity caps the burst
// size; refillPerSec is the sustained rate.
func (l *Limiter) Allow(key string, capacity, refillPerSec float64) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		l.prune(now)
		b = &bucket{tokens: capacity, lastSeen: now}
		l.buckets[key] = b
	}

	b.tokens += now.Sub(b.lastSeen).Seconds() * refillPerSec
	if b.tokens > capacity {
		b.tokens = capacity
	}
	b.lastSeen = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// prune drops buckets that have not been touched recently. Caller holds the
// lock; runs only when a new key arrives so steady-state calls stay cheap.
func (l *Limiter) prune(now time.Time) {
	for k, b := range l.buckets {
		if now.Sub(b.lastSeen) > l.staleAfter {
			delete(l.buckets, k)
		}
	}
}
