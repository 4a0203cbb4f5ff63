package config

import "time"

// Default values for configuration fields.
const (
	DefaultConfigPath = "trigon.yaml"
	DefaultDotEnvPath = ".env"

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	// Metrics defaults
	DefaultMetricsEnabled   = true
	DefaultMetricsPath      = "/metrics"
	DefaultMetricsNamespace = "trigon"
	DefaultMetricsSubsystem = "classifier"

	// Tracing defaults
	DefaultTracingServiceName = "trigon"
	DefaultTracingSampleRatio = 1.0
	DefaultTracingTimeout     = 10 * time.Second

	// History defaults
	DefaultHistoryDriver      = DriverSQLite
	DefaultHistoryPath        = "data/history.db"
	DefaultHistoryBusyTimeout = 5 * time.Second
	DefaultRetentionDays      = 30
	DefaultRetentionSchedule  = "0 3 * * *"

	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8080"
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 15 * time.Second

	// TLS defaults
	DefaultTLSMinVersion      = "1.3"
	DefaultCertReloadInterval = 5 * time.Minute

	// Auth defaults
	DefaultAuthHeader = "Authorization"
	DefaultAuthScheme = "Bearer"

	// Rate limit defaults
	DefaultRateLimitRPS        = 100
	DefaultRateLimitBurst      = 200
	DefaultRateLimitMaxClients = 10000

	// Fixture defaults
	DefaultFixturesPath     = "test_cases.txt"
	DefaultDebounceInterval = 200 * time.Millisecond
)

// History storage drivers.
const (
	DriverSQLite  = "sqlite"
	DriverSQLite3 = "sqlite3"
	DriverMemory  = "memory"
)

// DefaultDurationBuckets covers classification latency from 100ns to ~1ms.
var DefaultDurationBuckets = []float64{1e-7, 5e-7, 1e-6, 5e-6, 1e-5, 5e-5, 1e-4, 1e-3}

// NewDefaultConfig returns a Config with every default applied.
func NewDefaultConfig() *Config {
	cfg := &Config{
		Metrics: MetricsConfig{Enabled: DefaultMetricsEnabled},
		History: HistoryConfig{
			Retention: RetentionConfig{
				Days:     DefaultRetentionDays,
				Schedule: DefaultRetentionSchedule,
			},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued fields with their defaults. Fields whose
// zero value is meaningful (booleans, retention limits, the prune schedule)
// are only defaulted by NewDefaultConfig.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyMetricsDefaults(&cfg.Metrics)
	applyTracingDefaults(&cfg.Tracing)
	applyHistoryDefaults(&cfg.History)
	applyServerDefaults(&cfg.Server)
	applyFixturesDefaults(&cfg.Fixtures)
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = DefaultLogLevel
	}
	if l.Format == "" {
		l.Format = DefaultLogFormat
	}
}

func applyMetricsDefaults(m *MetricsConfig) {
	if m.Path == "" {
		m.Path = DefaultMetricsPath
	}
	if m.Namespace == "" {
		m.Namespace = DefaultMetricsNamespace
	}
	if m.Subsystem == "" {
		m.Subsystem = DefaultMetricsSubsystem
	}
	if len(m.DurationBuckets) == 0 {
		m.DurationBuckets = append([]float64(nil), DefaultDurationBuckets...)
	}
}

func applyTracingDefaults(t *TracingConfig) {
	if t.ServiceName == "" {
		t.ServiceName = DefaultTracingServiceName
	}
	if t.SampleRatio == 0 {
		t.SampleRatio = DefaultTracingSampleRatio
	}
	if t.Timeout == 0 {
		t.Timeout = DefaultTracingTimeout
	}
}

func applyHistoryDefaults(h *HistoryConfig) {
	if h.Driver == "" {
		h.Driver = DefaultHistoryDriver
	}
	if h.Path == "" {
		h.Path = DefaultHistoryPath
	}
	if h.BusyTimeout == 0 {
		h.BusyTimeout = DefaultHistoryBusyTimeout
	}
}

func applyServerDefaults(s *ServerConfig) {
	if s.ListenAddress == "" {
		s.ListenAddress = DefaultListenAddress
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = DefaultReadTimeout
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = DefaultWriteTimeout
	}
	if s.IdleTimeout == 0 {
		s.IdleTimeout = DefaultIdleTimeout
	}
	if s.ShutdownTimeout == 0 {
		s.ShutdownTimeout = DefaultShutdownTimeout
	}

	if s.TLS.MinVersion == "" {
		s.TLS.MinVersion = DefaultTLSMinVersion
	}
	if s.TLS.ReloadInterval == 0 {
		s.TLS.ReloadInterval = DefaultCertReloadInterval
	}

	if s.Auth.Header == "" {
		s.Auth.Header = DefaultAuthHeader
	}
	if s.Auth.Scheme == "" {
		s.Auth.Scheme = DefaultAuthScheme
	}

	if s.RateLimit.RequestsPerSecond == 0 {
		s.RateLimit.RequestsPerSecond = DefaultRateLimitRPS
	}
	if s.RateLimit.Burst == 0 {
		s.RateLimit.Burst = DefaultRateLimitBurst
	}
	if s.RateLimit.MaxClients == 0 {
		s.RateLimit.MaxClients = DefaultRateLimitMaxClients
	}
}

func applyFixturesDefaults(f *FixturesConfig) {
	if f.Path == "" {
		f.Path = DefaultFixturesPath
	}
	if f.DebounceInterval == 0 {
		f.DebounceInterval = DefaultDebounceInterval
	}
}
