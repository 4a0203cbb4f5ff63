package fixture

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"mercator-hq/trigon/pkg/config"
	"mercator-hq/trigon/pkg/telemetry/metrics"
	"mercator-hq/trigon/pkg/telemetry/tracing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestHarness_RunFile(t *testing.T) {
	h := NewHarness()

	report, err := h.RunFile(context.Background(), filepath.Join("testdata", "test_cases.txt"))
	if err != nil {
		t.Fatalf("RunFile() error = %v", err)
	}

	if report.Total != 10 || report.Passed != 10 || report.Failed != 0 {
		t.Errorf("report = %d total, %d passed, %d failed; want 10/10/0", report.Total, report.Passed, report.Failed)
	}
	if !report.OK() {
		t.Error("OK() = false, want true")
	}
	if report.RunID == "" {
		t.Error("RunID is empty")
	}
	if report.FixturePath == "" {
		t.Error("FixturePath is empty")
	}
}

func TestHarness_LinesOutput(t *testing.T) {
	cases, err := Parse(strings.NewReader(
		"3 4 5 simple triangle\n" +
			"3 4 5 isosceles triangle\n" +
			"2 2 2 equilateral triangle\n"))
	if err != nil {
		t.Fatal(err)
	}

	report, err := NewHarness().Run(context.Background(), cases)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var buf bytes.Buffer
	if err := report.WriteLines(&buf); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "success\nerror\nsuccess\n"; got != want {
		t.Errorf("WriteLines() = %q, want %q", got, want)
	}
	if report.OK() {
		t.Error("OK() = true with a failing case")
	}
}

func TestHarness_TrimsRunnerOutput(t *testing.T) {
	runner := RunnerFunc(func(context.Context, []string) string {
		return "  simple triangle\r\n"
	})

	report, err := NewHarness(WithRunner(runner)).Run(context.Background(), []Case{
		{Line: 1, Args: []string{"3", "4", "5"}, Expected: "simple triangle"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if report.Results[0].Outcome != OutcomeSuccess {
		t.Errorf("outcome = %s, want success", report.Results[0].Outcome)
	}
}

func TestHarness_RunnerErrorNeverMatches(t *testing.T) {
	report, err := NewHarness(WithRunner(ExecRunner{Binary: "/nonexistent/triangle"})).Run(
		context.Background(),
		[]Case{{Line: 1, Args: []string{"3", "4", "5"}, Expected: "simple triangle"}},
	)
	if err != nil {
		t.Fatal(err)
	}
	if report.Results[0].Outcome != OutcomeError {
		t.Errorf("outcome = %s, want error", report.Results[0].Outcome)
	}
}

func TestHarness_ExecRunnerMatchesDirect(t *testing.T) {
	cases, err := Load(filepath.Join("testdata", "test_cases.txt"))
	if err != nil {
		t.Fatal(err)
	}

	direct, err := NewHarness().Run(context.Background(), cases)
	if err != nil {
		t.Fatal(err)
	}
	exec, err := NewHarness(WithRunner(helperRunner(t))).Run(context.Background(), cases)
	if err != nil {
		t.Fatal(err)
	}

	for i := range direct.Results {
		if direct.Results[i].Actual != exec.Results[i].Actual {
			t.Errorf("line %d: direct %q, exec %q", cases[i].Line, direct.Results[i].Actual, exec.Results[i].Actual)
		}
	}
}

func TestHarness_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	runner := RunnerFunc(func(context.Context, []string) string {
		calls++
		cancel()
		return "simple triangle"
	})

	cases := []Case{
		{Line: 1, Expected: "simple triangle"},
		{Line: 2, Expected: "simple triangle"},
	}
	report, err := NewHarness(WithRunner(runner)).Run(ctx, cases)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if calls != 1 || report.Total != 1 {
		t.Errorf("calls = %d, total = %d; want 1 and 1", calls, report.Total)
	}
}

func TestHarness_Telemetry(t *testing.T) {
	collector := metrics.NewCollector(&config.MetricsConfig{Enabled: true}, nil)
	exporter := tracetest.NewInMemoryExporter()
	tracer, err := tracing.NewWithExporter(&config.TracingConfig{Enabled: true, SampleRatio: 1}, exporter)
	if err != nil {
		t.Fatal(err)
	}
	defer tracer.Shutdown(context.Background())

	progress := &recordingProgress{}
	h := NewHarness(WithMetrics(collector), WithTracer(tracer), WithProgress(progress))

	_, err = h.Run(context.Background(), []Case{
		{Line: 1, Args: []string{"3", "4", "5"}, Expected: "simple triangle"},
		{Line: 2, Args: []string{"3", "4", "5"}, Expected: "not triangle"},
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := testutil.GatherAndCount(collector.Registry(), "trigon_classifier_fixture_cases_total")
	if err != nil {
		t.Fatal(err)
	}
	if got != 2 {
		t.Errorf("fixture case series = %d, want 2", got)
	}
	if err := tracer.ForceFlush(context.Background()); err != nil {
		t.Fatal(err)
	}
	if spans := exporter.GetSpans(); len(spans) != 1 || spans[0].Name != "fixture.run" {
		t.Errorf("spans = %v, want one fixture.run span", spans)
	}
	if progress.total != 2 || progress.last != 2 || !progress.finished {
		t.Errorf("progress = %+v", progress)
	}
}

type recordingProgress struct {
	total    int64
	last     int64
	finished bool
}

func (p *recordingProgress) Start(total int64)    { p.total = total }
func (p *recordingProgress) Update(current int64) { p.last = current }
func (p *recordingProgress) Finish()              { p.finished = true }
func (p *recordingProgress) Error(error)          {}
