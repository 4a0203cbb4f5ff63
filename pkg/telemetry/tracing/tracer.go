package tracing

import (
	"context"
	"errors"
	"fmt"

	"mercator-hq/trigon/pkg/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"google.golang.org/grpc/credentials/insecure"
)

const instrumentationName = "mercator-hq/trigon"

// Span attribute keys.
const (
	AttrSideA       = attribute.Key("triangle.side.a")
	AttrSideB       = attribute.Key("triangle.side.b")
	AttrSideC       = attribute.Key("triangle.side.c")
	AttrArgCount    = attribute.Key("triangle.arg_count")
	AttrLabel       = attribute.Key("triangle.label")
	AttrFixturePath = attribute.Key("fixture.path")
	AttrCaseTotal   = attribute.Key("fixture.cases.total")
	AttrCaseFailed  = attribute.Key("fixture.cases.failed")
	AttrRunID       = attribute.Key("fixture.run_id")
)

// Tracer wraps an OpenTelemetry tracer and its provider.
type Tracer struct {
	config   *config.TracingConfig
	tracer   trace.Tracer
	provider *sdktrace.TracerProvider
	enabled  bool
}

// New creates a Tracer from configuration. A disabled config yields a noop
// tracer. The tracer must be shut down to flush pending spans.
func New(cfg *config.TracingConfig) (*Tracer, error) {
	if cfg == nil {
		return nil, errors.New("tracing config is nil")
	}
	if !cfg.Enabled {
		return &Tracer{
			config: cfg,
			tracer: noop.NewTracerProvider().Tracer(instrumentationName),
		}, nil
	}

	exporter, err := createOTLPExporter(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create exporter: %w", err)
	}
	return NewWithExporter(cfg, exporter)
}

// NewWithExporter creates an enabled Tracer that sends spans to exporter.
func NewWithExporter(cfg *config.TracingConfig, exporter sdktrace.SpanExporter) (*Tracer, error) {
	if cfg == nil {
		return nil, errors.New("tracing config is nil")
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.ServiceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
	)

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	)

	return &Tracer{
		config:   cfg,
		tracer:   provider.Tracer(instrumentationName),
		provider: provider,
		enabled:  true,
	}, nil
}

// Start creates a span linked to any parent span in ctx. The span must be ended.
func (t *Tracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name, opts...)
}

// Shutdown flushes pending spans and stops the provider.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if !t.enabled || t.provider == nil {
		return nil
	}
	return t.provider.Shutdown(ctx)
}

// ForceFlush exports all ended spans immediately.
func (t *Tracer) ForceFlush(ctx context.Context) error {
	if !t.enabled || t.provider == nil {
		return nil
	}
	return t.provider.ForceFlush(ctx)
}

// Enabled returns whether spans are exported.
func (t *Tracer) Enabled() bool {
	return t.enabled
}

// Propagator returns the global text map propagator.
func Propagator() propagation.TextMapPropagator {
	return otel.GetTextMapPropagator()
}

// createOTLPExporter creates an OTLP gRPC exporter. The connection is made
// lazily, so a missing collector does not block startup.
func createOTLPExporter(cfg *config.TracingConfig) (sdktrace.SpanExporter, error) {
	opts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithTLSCredentials(insecure.NewCredentials()))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, otlptracegrpc.WithTimeout(cfg.Timeout))
	}

	exporter, err := otlptrace.New(context.Background(), otlptracegrpc.NewClient(opts...))
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}
	return exporter, nil
}

// TraceID returns the trace ID in ctx, or "" when there is none.
func TraceID(ctx context.Context) string {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}

// SetError marks the span as failed and records err. A nil err is ignored.
func SetError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
