// Package metrics exposes Prometheus metrics for trigon.
//
// Metrics (namespace and subsystem come from config, shown with defaults):
//   - trigon_classifier_classifications_total{label,source}
//   - trigon_classifier_classification_duration_seconds{source}
//   - trigon_classifier_fixture_cases_total{outcome}
//   - trigon_classifier_fixture_runs_total{status}
//   - trigon_classifier_fixture_run_duration_seconds
//   - trigon_classifier_http_requests_total{path,code}
//
// A disabled collector records nothing, so callers never need to check.
//
//	collector := metrics.NewCollector(&cfg.Metrics, nil)
//	collector.RecordClassification("http", label, elapsed)
//	mux.Handle(cfg.Metrics.Path, collector.Handler())
package metrics
