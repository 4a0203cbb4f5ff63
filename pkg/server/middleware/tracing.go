package middleware

import (
	"net/http"

	"mercator-hq/trigon/pkg/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Tracing starts a server span per request, continuing any incoming W3C
// trace context.
func Tracing(tracer *tracing.Tracer) Middleware {
	return func(next http.Handler) http.Handler {
		if tracer == nil || !tracer.Enabled() {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := tracing.Propagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			ctx, span := tracer.Start(ctx, r.Method+" "+r.URL.Path, trace.WithSpanKind(trace.SpanKindServer))
			defer span.End()

			rec := NewStatusRecorder(w)
			next.ServeHTTP(rec, r.WithContext(ctx))

			span.SetAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.target", r.URL.Path),
				attribute.Int("http.status_code", rec.Status),
			)
		})
	}
}
