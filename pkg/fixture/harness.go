package fixture

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mercator-hq/trigon/pkg/cli"
	"mercator-hq/trigon/pkg/telemetry/logging"
	"mercator-hq/trigon/pkg/telemetry/metrics"
	"mercator-hq/trigon/pkg/telemetry/tracing"
	"mercator-hq/trigon/pkg/triangle"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// Harness executes fixture cases through a Runner.
type Harness struct {
	runner   Runner
	logger   *logging.Logger
	metrics  *metrics.Collector
	tracer   *tracing.Tracer
	progress cli.ProgressReporter
}

// Option configures a Harness.
type Option func(*Harness)

// WithRunner replaces the default DirectRunner.
func WithRunner(r Runner) Option {
	return func(h *Harness) { h.runner = r }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(h *Harness) { h.logger = l }
}

// WithMetrics records case and run metrics on c.
func WithMetrics(c *metrics.Collector) Option {
	return func(h *Harness) { h.metrics = c }
}

// WithTracer wraps runs and cases in spans.
func WithTracer(t *tracing.Tracer) Option {
	return func(h *Harness) { h.tracer = t }
}

// WithProgress reports per-case progress.
func WithProgress(p cli.ProgressReporter) Option {
	return func(h *Harness) { h.progress = p }
}

// NewHarness creates a Harness using DirectRunner unless overridden.
func NewHarness(opts ...Option) *Harness {
	h := &Harness{
		runner: DirectRunner{},
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RunFile loads path and runs its cases.
func (h *Harness) RunFile(ctx context.Context, path string) (*Report, error) {
	cases, err := Load(path)
	if err != nil {
		return nil, err
	}
	report, err := h.Run(ctx, cases)
	if report != nil {
		report.FixturePath = path
	}
	return report, err
}

// Run executes cases in order. Cancelling ctx stops the run and returns the
// partial report together with the context error.
func (h *Harness) Run(ctx context.Context, cases []Case) (*Report, error) {
	report := &Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Results:   make([]Result, 0, len(cases)),
	}
	ctx = logging.WithRunID(ctx, report.RunID)

	if h.tracer != nil {
		var span trace.Span
		ctx, span = h.tracer.Start(ctx, "fixture.run")
		span.SetAttributes(tracing.AttrRunID.String(report.RunID), tracing.AttrCaseTotal.Int(len(cases)))
		defer func() {
			span.SetAttributes(tracing.AttrCaseFailed.Int(report.Failed))
			span.End()
		}()
	}

	if h.progress != nil {
		h.progress.Start(int64(len(cases)))
	}

	h.logger.DebugContext(ctx, "Fixture run started", "cases", len(cases))

	var runErr error
	for i, c := range cases {
		if err := ctx.Err(); err != nil {
			runErr = fmt.Errorf("fixture run interrupted after %d cases: %w", i, err)
			break
		}

		res := h.runCase(ctx, c)
		report.Results = append(report.Results, res)
		report.Total++
		if res.Outcome == OutcomeSuccess {
			report.Passed++
		} else {
			report.Failed++
			h.logger.DebugContext(ctx, "Fixture case failed",
				"line", c.Line,
				"expected", c.Expected,
				"actual", res.Actual,
			)
		}

		if h.metrics != nil {
			h.metrics.RecordFixtureCase(string(res.Outcome))
			if label, err := triangle.ParseLabel(res.Actual); err == nil {
				h.metrics.RecordClassification(metrics.SourceFixture, label, res.Duration)
			}
		}
		if h.progress != nil {
			h.progress.Update(int64(i + 1))
		}
	}

	report.Duration = time.Since(report.StartedAt)

	if h.progress != nil {
		if runErr != nil {
			h.progress.Error(runErr)
		} else {
			h.progress.Finish()
		}
	}
	if h.metrics != nil {
		h.metrics.RecordFixtureRun(runErr == nil && report.OK(), report.Duration)
	}

	h.logger.InfoContext(ctx, "Fixture run finished",
		"total", report.Total,
		"passed", report.Passed,
		"failed", report.Failed,
		"duration_ms", report.Duration.Milliseconds(),
	)

	return report, runErr
}

func (h *Harness) runCase(ctx context.Context, c Case) Result {
	start := time.Now()
	actual := strings.TrimSpace(h.runner.Run(ctx, c.Args))
	outcome := OutcomeError
	if actual == c.Expected {
		outcome = OutcomeSuccess
	}
	return Result{
		Case:     c,
		Actual:   actual,
		Outcome:  outcome,
		Duration: time.Since(start),
	}
}
