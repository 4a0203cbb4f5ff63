package logging

import "context"

// Context keys for common log fields.
type contextKey string

const (
	// RequestIDKey is the context key for HTTP request IDs.
	RequestIDKey contextKey = "request_id"

	// RunIDKey is the context key for fixture run IDs.
	RunIDKey contextKey = "run_id"

	// TraceIDKey is the context key for trace IDs.
	TraceIDKey contextKey = "trace_id"
)

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// WithRunID adds a fixture run ID to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// GetRunID retrieves the fixture run ID from the context.
func GetRunID(ctx context.Context) string {
	if runID, ok := ctx.Value(RunIDKey).(string); ok {
		return runID
	}
	return ""
}

// WithTraceID adds a trace ID to the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID retrieves the trace ID from the context.
func GetTraceID(ctx context.Context) string {
	if traceID, ok := ctx.Value(TraceIDKey).(string); ok {
		return traceID
	}
	return ""
}

// extractContextFields returns key/value pairs for every known field set
// on ctx, in a fixed order.
func extractContextFields(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}

	var fields []any
	for _, key := range []contextKey{RequestIDKey, RunIDKey, TraceIDKey} {
		if v, ok := ctx.Value(key).(string); ok && v != "" {
			fields = append(fields, string(key), v)
		}
	}
	return fields
}
