// Package ratelimit provides token bucket rate limiting keyed by client.
//
// A TokenBucket holds up to Burst tokens and refills at a constant rate.
// Each request takes one token; a request finding the bucket empty is
// rejected along with how long the client should wait.
//
// Limiter keeps one bucket per key (typically the client IP) and evicts
// the least recently seen key once MaxKeys is reached, so memory stays
// bounded under many distinct clients.
//
//	limiter := ratelimit.New(ratelimit.Config{RequestsPerSecond: 10, Burst: 20, MaxKeys: 1000})
//	if res := limiter.Allow("203.0.113.7"); !res.Allowed {
//		w.Header().Set("Retry-After", strconv.Itoa(res.RetryAfterSeconds()))
//	}
package ratelimit
