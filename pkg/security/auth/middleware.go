package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"mercator-hq/trigon/pkg/telemetry/logging"
)

// ErrMissingKey is returned when the request carries no key.
var ErrMissingKey = errors.New("missing API key")

// Source says where the key is read from.
type Source struct {
	// Header is the request header carrying the key.
	Header string

	// Scheme is an optional prefix such as "Bearer". When set, the header
	// value must start with it followed by a space.
	Scheme string
}

// Extract reads the key from r.
func (s Source) Extract(r *http.Request) (string, error) {
	value := strings.TrimSpace(r.Header.Get(s.Header))
	if value == "" {
		return "", ErrMissingKey
	}
	if s.Scheme == "" {
		return value, nil
	}

	scheme, key, ok := strings.Cut(value, " ")
	if !ok || !strings.EqualFold(scheme, s.Scheme) {
		return "", ErrMissingKey
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", ErrMissingKey
	}
	return key, nil
}

type contextKey struct{}

// KeyName returns the name of the key that authenticated the request.
func KeyName(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(contextKey{}).(string)
	return name, ok
}

// Middleware rejects requests without a valid key with 401. A nil
// validator disables authentication.
func Middleware(validator *KeyValidator, source Source, logger *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if validator == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key, err := source.Extract(r)
			if err == nil {
				var name string
				name, err = validator.Validate(key)
				if err == nil {
					logger.DebugContext(r.Context(), "API key authenticated", "key_name", name)
					next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, name)))
					return
				}
			}

			logger.WarnContext(r.Context(), "Authentication failed",
				"error", err,
				"remote_addr", r.RemoteAddr,
				"path", r.URL.Path,
			)
			if source.Scheme != "" {
				w.Header().Set("WWW-Authenticate", source.Scheme)
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		})
	}
}
