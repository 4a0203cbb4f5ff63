package ratelimit

import (
	"math"
	"sync"
	"time"
)

// TokenBucket implements the token bucket algorithm.
//
// Tokens are fractional so slow refill rates still accumulate between
// calls. TokenBucket is safe for concurrent use.
type TokenBucket struct {
	capacity   float64
	tokens     float64
	refillRate float64 // tokens per second
	lastRefill time.Time
	now        func() time.Time
	mu         sync.Mutex
}

// NewTokenBucket creates a full bucket holding capacity tokens that
// refills at refillRate tokens per second.
func NewTokenBucket(capacity int64, refillRate float64) *TokenBucket {
	return newTokenBucket(capacity, refillRate, time.Now)
}

func newTokenBucket(capacity int64, refillRate float64, now func() time.Time) *TokenBucket {
	return &TokenBucket{
		capacity:   float64(capacity),
		tokens:     float64(capacity),
		refillRate: refillRate,
		lastRefill: now(),
		now:        now,
	}
}

// Take consumes n tokens if available and reports whether it did.
func (tb *TokenBucket) Take(n int64) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refillLocked()
	if tb.tokens >= float64(n) {
		tb.tokens -= float64(n)
		return true
	}
	return false
}

// Remaining returns the whole tokens currently available.
func (tb *TokenBucket) Remaining() int64 {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refillLocked()
	return int64(math.Floor(tb.tokens))
}

// Capacity returns the bucket size.
func (tb *TokenBucket) Capacity() int64 {
	return int64(tb.capacity)
}

// TimeUntilAvailable returns how long until n tokens are available, or 0
// if they already are.
func (tb *TokenBucket) TimeUntilAvailable(n int64) time.Duration {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refillLocked()
	missing := float64(n) - tb.tokens
	if missing <= 0 {
		return 0
	}
	if tb.refillRate <= 0 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(missing / tb.refillRate * float64(time.Second))
}

// Caller must hold tb.mu.
func (tb *TokenBucket) refillLocked() {
	now := tb.now()
	elapsed := now.Sub(tb.lastRefill).Seconds()
	if elapsed <= 0 {
		return
	}
	tb.tokens = math.Min(tb.capacity, tb.tokens+elapsed*tb.refillRate)
	tb.lastRefill = now
}
