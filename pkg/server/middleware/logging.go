package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"mercator-hq/trigon/pkg/telemetry/logging"
)

// StatusRecorder captures the status code written by a handler.
type StatusRecorder struct {
	http.ResponseWriter
	Status  int
	written bool
}

// NewStatusRecorder wraps w, defaulting the status to 200.
func NewStatusRecorder(w http.ResponseWriter) *StatusRecorder {
	if rec, ok := w.(*StatusRecorder); ok {
		return rec
	}
	return &StatusRecorder{ResponseWriter: w, Status: http.StatusOK}
}

// WriteHeader records the first status code.
func (rw *StatusRecorder) WriteHeader(code int) {
	if rw.written {
		return
	}
	rw.Status = code
	rw.written = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *StatusRecorder) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (rw *StatusRecorder) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Logging logs one line per request. 4xx responses log at warn, 5xx at error.
func Logging(logger *logging.Logger) Middleware {
	logger = logger.WithComponent("http")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := NewStatusRecorder(w)

			next.ServeHTTP(rec, r)

			level := slog.LevelInfo
			switch {
			case rec.Status >= 500:
				level = slog.LevelError
			case rec.Status >= 400:
				level = slog.LevelWarn
			}

			logger.Slog().Log(r.Context(), level, "Request completed",
				append([]any{
					"method", r.Method,
					"path", r.URL.Path,
					"status", rec.Status,
					"latency_ms", time.Since(start).Milliseconds(),
					"remote_addr", r.RemoteAddr,
				}, contextFields(r)...)...,
			)
		})
	}
}

func contextFields(r *http.Request) []any {
	if id := logging.GetRequestID(r.Context()); id != "" {
		return []any{"request_id", id}
	}
	return nil
}
