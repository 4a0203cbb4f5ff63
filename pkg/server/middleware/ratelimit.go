package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"

	"mercator-hq/trigon/pkg/limits/ratelimit"
	"mercator-hq/trigon/pkg/telemetry/logging"
)

// Rate limit response headers.
const (
	RateLimitLimitHeader     = "X-RateLimit-Limit"
	RateLimitRemainingHeader = "X-RateLimit-Remaining"
)

// RateLimit rejects requests beyond the client's token bucket with 429.
// Clients are keyed by remote IP. A nil limiter disables limiting.
func RateLimit(limiter *ratelimit.Limiter, logger *logging.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client := clientIP(r)
			res := limiter.Allow(client)

			w.Header().Set(RateLimitLimitHeader, strconv.FormatInt(res.Limit, 10))
			w.Header().Set(RateLimitRemainingHeader, strconv.FormatInt(res.Remaining, 10))

			if !res.Allowed {
				logger.WarnContext(r.Context(), "Rate limit exceeded",
					"client", client,
					"path", r.URL.Path,
					"retry_after", res.RetryAfter.String(),
				)
				w.Header().Set("Retry-After", strconv.Itoa(res.RetryAfterSeconds()))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "rate limit exceeded"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP returns the host part of RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
