// Package telemetry groups the observability packages of trigon.
//
// # Components
//
//   - logging: structured logging on log/slog with run and request IDs
//   - metrics: Prometheus counters and histograms for classifications,
//     fixture runs and HTTP requests
//   - tracing: OpenTelemetry spans exported over OTLP gRPC
//   - health: liveness, readiness and version endpoints
//
// # Usage
//
//	logger, _ := logging.New(logging.FromConfig(cfg.Logging, os.Stderr))
//	collector := metrics.NewCollector(&cfg.Metrics, nil)
//	tracer, _ := tracing.New(&cfg.Tracing)
//	defer tracer.Shutdown(context.Background())
//
//	collector.RecordClassification(metrics.SourceHTTP, label, elapsed)
//	ctx, span := tracer.Start(ctx, "classify")
//	defer span.End()
//
// Every component is a no-op when disabled in configuration, so callers do
// not need to check before recording.
package telemetry
