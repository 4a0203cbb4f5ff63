// Package tracing wires OpenTelemetry tracing for trigon.
//
// Spans are exported over OTLP gRPC when tracing.enabled is set. When it is
// not, the tracer is a noop and spans cost next to nothing, so callers never
// need to check.
//
//	tracer, err := tracing.New(&cfg.Tracing)
//	if err != nil {
//		return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, "fixture.run")
//	defer span.End()
package tracing
