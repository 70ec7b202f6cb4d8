// Package ratelimit provides token bucket rate limiting for scoring triggers.
// Every triggered score burns AI provider quota, so triggers are limited per
// organization rather than per client IP.
package ratelimit

import (
	"sync"
	"time"
)

// tokenBucket allows a number of requests per window, with tokens refilling
// at a steady rate.
type tokenBucket struct {
	capacity   int
	refillRate float64 // tokens per second
	tokens     float64
	lastRefill time.Time
	mu         sync.Mutex
}

func newTokenBucket(capacity int, refillRate float64) *tokenBucket {
	return &tokenBucket{
		capacity:   capacity,
		refillRate: refillRate,
		tokens:     float64(capacity),
		lastRefill: time.Now(),
	}
}

// allow consumes a token if one is available.
func (tb *tokenBucket) allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(tb.lastRefill)
	tb.tokens = min(float64(tb.capacity), tb.tokens+elapsed.Seconds()*tb.refillRate)
	tb.lastRefill = now

	if tb.tokens >= 1.0 {
		tb.tokens -= 1.0
		return true
	}
	return false
}

// retryAfter reports how long until the next token is available.
func (tb *tokenBucket) retryAfter() time.Duration {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	if tb.tokens >= 1.0 {
		return 0
	}
	needed := 1.0 - tb.tokens
	return time.Duration(needed / tb.refillRate * float64(time.Second))
}

// Limiter rate-limits scoring triggers per organization.
type Limiter struct {
	limit  int
	window time.Duration

	mu      sync.Mutex
	buckets map[string]*tokenBucket
	touched map[string]time.Time

	cleanupTicker *time.Ticker
	cleanupStop   chan struct{}
}

// DefaultTriggerLimit allows this many scoring triggers per organization per
// minute. Batch triggers count once regardless of target size.
const DefaultTriggerLimit = 30

// NewLimiter creates a limiter allowing limit triggers per window for each
// key. Non-positive limit disables limiting.
func NewLimiter(limit int, window time.Duration) *Limiter {
	l := &Limiter{
		limit:   limit,
		window:  window,
		buckets: make(map[string]*tokenBucket),
		touched: make(map[string]time.Time),
	}
	if limit > 0 {
		l.cleanupTicker = time.NewTicker(5 * time.Minute)
		l.cleanupStop = make(chan struct{})
		go l.cleanupLoop()
	}
	return l
}

// Allow reports whether a trigger for the given key may proceed, and if not,
// how long the caller should wait.
func (l *Limiter) Allow(key string) (bool, time.Duration) {
	if l.limit <= 0 {
		return true, 0
	}

	l.mu.Lock()
	bucket, ok := l.buckets[key]
	if !ok {
		bucket = newTokenBucket(l.limit, float64(l.limit)/l.window.Seconds())
		l.buckets[key] = bucket
	}
	l.touched[key] = time.Now()
	l.mu.Unlock()

	if bucket.allow() {
		return true, 0
	}
	return false, bucket.retryAfter()
}

func (l *Limiter) cleanupLoop() {
	for {
		select {
		case <-l.cleanupTicker.C:
			l.removeStale()
		case <-l.cleanupStop:
			return
		}
	}
}

// removeStale drops buckets idle for over an hour so the map cannot grow
// unbounded across organizations.
func (l *Limiter) removeStale() {
	cutoff := time.Now().Add(-1 * time.Hour)

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, last := range l.touched {
		if last.Before(cutoff) {
			delete(l.buckets, key)
			delete(l.touched, key)
		}
	}
}

// Stop stops the cleanup goroutine.
func (l *Limiter) Stop() {
	if l.cleanupTicker != nil {
		l.cleanupTicker.Stop()
	}
	if l.cleanupStop != nil {
		close(l.cleanupStop)
	}
}
