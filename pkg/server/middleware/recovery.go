package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	"mercator-hq/trigon/pkg/telemetry/logging"
)

// Recovery turns a handler panic into a 500 JSON error and logs the stack.
func Recovery(logger *logging.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				err := recover()
				if err == nil {
					return
				}
				if err == http.ErrAbortHandler {
					panic(err)
				}

				logger.ErrorContext(r.Context(), "Panic in handler",
					"error", err,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "internal server error"})
			}()

			next.ServeHTTP(w, r)
		})
	}
}
