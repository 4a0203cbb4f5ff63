package metrics

import (
	"strconv"
	"time"

	"mercator-hq/trigon/pkg/config"
	"mercator-hq/trigon/pkg/triangle"

	"github.com/prometheus/client_golang/prometheus"
)

// Classification sources.
const (
	SourceCLI     = "cli"
	SourceHTTP    = "http"
	SourceFixture = "fixture"
)

// Collector owns the Prometheus registry and every trigon metric.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	classifier *ClassifierMetrics
	fixture    *FixtureMetrics
	http       *prometheus.CounterVec
}

// NewCollector creates a collector registered against registry. A nil
// registry gets a fresh one, so parallel tests never collide.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}
	if len(cfg.DurationBuckets) == 0 {
		cfg.DurationBuckets = append([]float64(nil), config.DefaultDurationBuckets...)
	}

	c := &Collector{
		config:     cfg,
		registry:   registry,
		classifier: NewClassifierMetrics(cfg, registry),
		fixture:    NewFixtureMetrics(cfg, registry),
		http: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests served by path and status code",
			},
			[]string{"path", "code"},
		),
	}
	registry.MustRegister(c.http)

	return c
}

// Registry returns the underlying Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Enabled reports whether the collector records anything.
func (c *Collector) Enabled() bool {
	return c.config.Enabled
}

// RecordClassification records one classifier invocation.
func (c *Collector) RecordClassification(source string, label triangle.Label, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.classifier.Record(source, label, duration)
}

// RecordFixtureCase records the outcome of one fixture case ("success" or "error").
func (c *Collector) RecordFixtureCase(outcome string) {
	if !c.config.Enabled {
		return
	}
	c.fixture.cases.WithLabelValues(outcome).Inc()
}

// RecordFixtureRun records a completed fixture run.
func (c *Collector) RecordFixtureRun(passed bool, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	status := "passed"
	if !passed {
		status = "failed"
	}
	c.fixture.runs.WithLabelValues(status).Inc()
	c.fixture.runDuration.Observe(duration.Seconds())
}

// RecordHTTPRequest records one served HTTP request.
func (c *Collector) RecordHTTPRequest(path string, code int) {
	if !c.config.Enabled {
		return
	}
	c.http.WithLabelValues(path, strconv.Itoa(code)).Inc()
}

// ClassifierMetrics tracks classifier invocations.
type ClassifierMetrics struct {
	total    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewClassifierMetrics creates and registers classifier metrics. Every label
// is pre-initialized so dashboards see zeros instead of missing series.
func NewClassifierMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ClassifierMetrics {
	cm := &ClassifierMetrics{
		total: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "classifications_total",
				Help:      "Total classifications by resulting label and source",
			},
			[]string{"label", "source"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "classification_duration_seconds",
				Help:      "Duration of a single classification in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"source"},
		),
	}

	registry.MustRegister(cm.total, cm.duration)

	for _, source := range []string{SourceCLI, SourceHTTP, SourceFixture} {
		for _, label := range triangle.Labels() {
			cm.total.WithLabelValues(string(label), source)
		}
	}

	return cm
}

// Record records a single classification.
func (cm *ClassifierMetrics) Record(source string, label triangle.Label, duration time.Duration) {
	cm.total.WithLabelValues(string(label), source).Inc()
	cm.duration.WithLabelValues(source).Observe(duration.Seconds())
}

// FixtureMetrics tracks fixture harness runs.
type FixtureMetrics struct {
	cases       *prometheus.CounterVec
	runs        *prometheus.CounterVec
	runDuration prometheus.Histogram
}

// NewFixtureMetrics creates and registers fixture metrics.
func NewFixtureMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *FixtureMetrics {
	fm := &FixtureMetrics{
		cases: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "fixture_cases_total",
				Help:      "Total fixture cases executed by outcome",
			},
			[]string{"outcome"},
		),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "fixture_runs_total",
				Help:      "Total fixture runs by status",
			},
			[]string{"status"},
		),
		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "fixture_run_duration_seconds",
				Help:      "Duration of a full fixture run in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10), // 100µs to ~26s
			},
		),
	}

	registry.MustRegister(fm.cases, fm.runs, fm.runDuration)
	return fm
}
