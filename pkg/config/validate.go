package config

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any rule fails. All errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateLogging(&cfg.Logging)...)
	errs = append(errs, validateMetrics(&cfg.Metrics)...)
	errs = append(errs, validateTracing(&cfg.Tracing)...)
	errs = append(errs, validateHistory(&cfg.History)...)
	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateFixtures(&cfg.Fixtures)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

func validateLogging(l *LoggingConfig) []FieldError {
	var errs []FieldError

	switch strings.ToLower(l.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "logging.level",
			Message: fmt.Sprintf("invalid level %q (must be debug, info, warn or error)", l.Level),
		})
	}

	switch strings.ToLower(l.Format) {
	case "json", "text", "console":
	default:
		errs = append(errs, FieldError{
			Field:   "logging.format",
			Message: fmt.Sprintf("invalid format %q (must be json, text or console)", l.Format),
		})
	}

	return errs
}

func validateMetrics(m *MetricsConfig) []FieldError {
	var errs []FieldError

	if !m.Enabled {
		return nil
	}

	if !strings.HasPrefix(m.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "metrics.path",
			Message: fmt.Sprintf("path %q must start with /", m.Path),
		})
	}

	for i := 1; i < len(m.DurationBuckets); i++ {
		if m.DurationBuckets[i] <= m.DurationBuckets[i-1] {
			errs = append(errs, FieldError{
				Field:   "metrics.duration_buckets",
				Message: "buckets must be strictly increasing",
			})
			break
		}
	}

	return errs
}

func validateTracing(t *TracingConfig) []FieldError {
	var errs []FieldError

	if t.SampleRatio < 0 || t.SampleRatio > 1 {
		errs = append(errs, FieldError{
			Field:   "tracing.sample_ratio",
			Message: fmt.Sprintf("sample ratio %v must be between 0 and 1", t.SampleRatio),
		})
	}

	if t.Enabled && t.Endpoint == "" {
		errs = append(errs, FieldError{
			Field:   "tracing.endpoint",
			Message: "endpoint is required when tracing is enabled",
		})
	}

	if t.Timeout < 0 {
		errs = append(errs, FieldError{
			Field:   "tracing.timeout",
			Message: "timeout must not be negative",
		})
	}

	return errs
}

func validateHistory(h *HistoryConfig) []FieldError {
	var errs []FieldError

	switch h.Driver {
	case DriverSQLite, DriverSQLite3:
		if h.Path == "" {
			errs = append(errs, FieldError{
				Field:   "history.path",
				Message: fmt.Sprintf("path is required for driver %q", h.Driver),
			})
		}
	case DriverMemory:
	default:
		errs = append(errs, FieldError{
			Field:   "history.driver",
			Message: fmt.Sprintf("unsupported driver %q (must be sqlite, sqlite3 or memory)", h.Driver),
		})
	}

	if h.BusyTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "history.busy_timeout",
			Message: "busy timeout must not be negative",
		})
	}

	if h.Retention.Days < 0 {
		errs = append(errs, FieldError{
			Field:   "history.retention.days",
			Message: "days must not be negative",
		})
	}

	if h.Retention.MaxRuns < 0 {
		errs = append(errs, FieldError{
			Field:   "history.retention.max_runs",
			Message: "max runs must not be negative",
		})
	}

	if h.Retention.Schedule != "" {
		if _, err := cron.ParseStandard(h.Retention.Schedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "history.retention.schedule",
				Message: fmt.Sprintf("invalid cron expression %q: %v", h.Retention.Schedule, err),
			})
		}
	}

	return errs
}

func validateServer(s *ServerConfig) []FieldError {
	var errs []FieldError

	if _, _, err := net.SplitHostPort(s.ListenAddress); err != nil {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: fmt.Sprintf("invalid address %q: %v", s.ListenAddress, err),
		})
	}

	timeouts := []struct {
		field string
		value time.Duration
	}{
		{"server.read_timeout", s.ReadTimeout},
		{"server.write_timeout", s.WriteTimeout},
		{"server.idle_timeout", s.IdleTimeout},
		{"server.shutdown_timeout", s.ShutdownTimeout},
	}
	for _, tt := range timeouts {
		if tt.value < 0 {
			errs = append(errs, FieldError{Field: tt.field, Message: "timeout must not be negative"})
		}
	}

	errs = append(errs, validateTLS(&s.TLS)...)
	errs = append(errs, validateAuth(&s.Auth)...)
	errs = append(errs, validateRateLimit(&s.RateLimit)...)

	return errs
}

func validateTLS(t *TLSConfig) []FieldError {
	var errs []FieldError

	if t.MinVersion != "1.2" && t.MinVersion != "1.3" {
		errs = append(errs, FieldError{
			Field:   "server.tls.min_version",
			Message: fmt.Sprintf("unsupported TLS version %q (use 1.2 or 1.3)", t.MinVersion),
		})
	}

	if !t.Enabled {
		return errs
	}
	if strings.TrimSpace(t.CertFile) == "" {
		errs = append(errs, FieldError{Field: "server.tls.cert_file", Message: "cert_file is required when TLS is enabled"})
	}
	if strings.TrimSpace(t.KeyFile) == "" {
		errs = append(errs, FieldError{Field: "server.tls.key_file", Message: "key_file is required when TLS is enabled"})
	}

	return errs
}

func validateAuth(a *AuthConfig) []FieldError {
	if !a.Enabled {
		return nil
	}

	var errs []FieldError
	if strings.TrimSpace(a.Header) == "" {
		errs = append(errs, FieldError{Field: "server.auth.header", Message: "header is required when auth is enabled"})
	}

	active := 0
	seen := make(map[string]bool, len(a.Keys))
	for i, k := range a.Keys {
		field := fmt.Sprintf("server.auth.keys[%d]", i)
		if strings.TrimSpace(k.Key) == "" {
			errs = append(errs, FieldError{Field: field + ".key", Message: "key must not be empty"})
			continue
		}
		if seen[k.Key] {
			errs = append(errs, FieldError{Field: field + ".key", Message: "duplicate key"})
		}
		seen[k.Key] = true
		if !k.Disabled {
			active++
		}
	}
	if active == 0 {
		errs = append(errs, FieldError{Field: "server.auth.keys", Message: "at least one enabled key is required when auth is enabled"})
	}

	return errs
}

func validateRateLimit(r *RateLimitConfig) []FieldError {
	if !r.Enabled {
		return nil
	}

	var errs []FieldError
	if r.RequestsPerSecond <= 0 {
		errs = append(errs, FieldError{Field: "server.rate_limit.requests_per_second", Message: "must be positive"})
	}
	if r.Burst < 1 {
		errs = append(errs, FieldError{Field: "server.rate_limit.burst", Message: "must be at least 1"})
	}
	if r.MaxClients < 1 {
		errs = append(errs, FieldError{Field: "server.rate_limit.max_clients", Message: "must be at least 1"})
	}

	return errs
}

func validateFixtures(f *FixturesConfig) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(f.Path) == "" {
		errs = append(errs, FieldError{
			Field:   "fixtures.path",
			Message: "path is required",
		})
	}

	if f.DebounceInterval < 0 {
		errs = append(errs, FieldError{
			Field:   "fixtures.debounce_interval",
			Message: "debounce interval must not be negative",
		})
	}

	return errs
}
