package ratelimit

import (
	"container/list"
	"math"
	"sync"
	"time"
)

// Config configures a Limiter.
type Config struct {
	// RequestsPerSecond is the sustained rate per key.
	RequestsPerSecond float64

	// Burst is the bucket size per key.
	Burst int

	// MaxKeys bounds the number of tracked keys. Zero means unbounded.
	MaxKeys int
}

// Result is the outcome of a limit check.
type Result struct {
	Allowed    bool
	Limit      int64
	Remaining  int64
	RetryAfter time.Duration
}

// RetryAfterSeconds rounds RetryAfter up to whole seconds, minimum 1, for
// the Retry-After header.
func (r Result) RetryAfterSeconds() int {
	secs := int(math.Ceil(r.RetryAfter.Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}

type entry struct {
	key    string
	bucket *TokenBucket
}

// Limiter keeps a token bucket per key with least-recently-seen eviction.
type Limiter struct {
	config Config
	now    func() time.Time

	mu      sync.Mutex
	buckets map[string]*list.Element
	order   *list.List // front is most recently seen
}

// New creates a Limiter.
func New(cfg Config) *Limiter {
	return &Limiter{
		config:  cfg,
		now:     time.Now,
		buckets: make(map[string]*list.Element),
		order:   list.New(),
	}
}

// Allow takes one token from key's bucket.
func (l *Limiter) Allow(key string) Result {
	bucket := l.bucket(key)

	if bucket.Take(1) {
		return Result{
			Allowed:   true,
			Limit:     bucket.Capacity(),
			Remaining: bucket.Remaining(),
		}
	}
	return Result{
		Allowed:    false,
		Limit:      bucket.Capacity(),
		Remaining:  0,
		RetryAfter: bucket.TimeUntilAvailable(1),
	}
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

func (l *Limiter) bucket(key string) *TokenBucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	if el, ok := l.buckets[key]; ok {
		l.order.MoveToFront(el)
		return el.Value.(*entry).bucket
	}

	if l.config.MaxKeys > 0 && len(l.buckets) >= l.config.MaxKeys {
		oldest := l.order.Back()
		l.order.Remove(oldest)
		delete(l.buckets, oldest.Value.(*entry).key)
	}

	b := newTokenBucket(int64(l.config.Burst), l.config.RequestsPerSecond, l.now)
	l.buckets[key] = l.order.PushFront(&entry{key: key, bucket: b})
	return b
}
