package config

import "time"

// Config is the root configuration structure for trigon.
type Config struct {
	// Logging controls structured log output.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics controls Prometheus metrics collection.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing controls OpenTelemetry span export.
	Tracing TracingConfig `yaml:"tracing"`

	// History controls persistence of fixture runs.
	History HistoryConfig `yaml:"history"`

	// Server controls the HTTP classification service.
	Server ServerConfig `yaml:"server"`

	// Fixtures controls the fixture harness.
	Fixtures FixturesConfig `yaml:"fixtures"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the log output format.
	// Options: "json", "text", "console"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file:line in log records.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected and exposed.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path of the metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the Prometheus metric namespace.
	// Default: "trigon"
	Namespace string `yaml:"namespace"`

	// Subsystem is the Prometheus metric subsystem.
	// Default: "classifier"
	Subsystem string `yaml:"subsystem"`

	// DurationBuckets are histogram buckets for classification latency, in seconds.
	DurationBuckets []float64 `yaml:"duration_buckets"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether spans are exported.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Endpoint is the OTLP gRPC collector address (host:port).
	Endpoint string `yaml:"endpoint"`

	// ServiceName is reported as the service.name resource attribute.
	// Default: "trigon"
	ServiceName string `yaml:"service_name"`

	// SampleRatio is the fraction of traces sampled, between 0 and 1.
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// Insecure disables TLS to the collector.
	Insecure bool `yaml:"insecure"`

	// Timeout bounds each export call.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}

// HistoryConfig contains fixture run persistence configuration.
type HistoryConfig struct {
	// Enabled controls whether fixture runs are recorded.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Driver selects the storage backend.
	// Options: "sqlite" (pure Go), "sqlite3" (cgo), "memory"
	// Default: "sqlite"
	Driver string `yaml:"driver"`

	// Path is the database file for the SQLite drivers.
	// Default: "data/history.db"
	Path string `yaml:"path"`

	// BusyTimeout is how long SQLite waits on a locked database.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`

	// Retention controls pruning of old runs.
	Retention RetentionConfig `yaml:"retention"`
}

// RetentionConfig contains run retention configuration.
type RetentionConfig struct {
	// Days is the maximum age of a run. Zero keeps runs forever.
	// Default: 30
	Days int `yaml:"days"`

	// MaxRuns caps the number of stored runs. Zero means unlimited.
	// Default: 0
	MaxRuns int `yaml:"max_runs"`

	// Schedule is a standard 5-field cron expression for automatic pruning
	// while serving. Empty disables scheduled pruning.
	// Default: "0 3 * * *"
	Schedule string `yaml:"schedule"`
}

// ServerConfig contains HTTP service configuration.
type ServerConfig struct {
	// ListenAddress is the host:port the service binds to.
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout bounds reading a request.
	// Default: 10s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout bounds writing a response.
	// Default: 10s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout bounds keep-alive connections.
	// Default: 60s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 15s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// TLS serves HTTPS when enabled.
	TLS TLSConfig `yaml:"tls"`

	// Auth requires an API key on /v1/classify when enabled.
	Auth AuthConfig `yaml:"auth"`

	// RateLimit limits /v1/classify requests per client address.
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// TLSConfig contains HTTPS settings.
type TLSConfig struct {
	// Enabled serves HTTPS instead of HTTP.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// CertFile is the PEM-encoded certificate chain.
	CertFile string `yaml:"cert_file"`

	// KeyFile is the PEM-encoded private key.
	KeyFile string `yaml:"key_file"`

	// MinVersion is "1.2" or "1.3".
	// Default: "1.3"
	MinVersion string `yaml:"min_version"`

	// ReloadInterval is how often the certificate files are checked for
	// changes. A negative value disables reloading.
	// Default: 5m
	ReloadInterval time.Duration `yaml:"cert_reload_interval"`
}

// AuthConfig contains API key authentication settings.
type AuthConfig struct {
	// Enabled requires a valid key on classification requests.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Header carries the key.
	// Default: "Authorization"
	Header string `yaml:"header"`

	// Scheme is the optional prefix before the key, e.g. "Bearer".
	// Default: "Bearer"
	Scheme string `yaml:"scheme"`

	// Keys are the accepted API keys.
	Keys []APIKeyConfig `yaml:"keys"`
}

// APIKeyConfig is one accepted API key.
type APIKeyConfig struct {
	// Key is the secret value.
	Key string `yaml:"key"`

	// Name identifies the key holder in logs.
	Name string `yaml:"name"`

	// Disabled rejects the key without removing it.
	Disabled bool `yaml:"disabled"`
}

// RateLimitConfig contains per-client rate limiting settings.
type RateLimitConfig struct {
	// Enabled turns on rate limiting.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// RequestsPerSecond is the sustained rate per client.
	// Default: 100
	RequestsPerSecond float64 `yaml:"requests_per_second"`

	// Burst is the number of requests a client may make at once.
	// Default: 200
	Burst int `yaml:"burst"`

	// MaxClients bounds the number of tracked client addresses. The least
	// recently seen client is evicted beyond it.
	// Default: 10000
	MaxClients int `yaml:"max_clients"`
}

// FixturesConfig contains fixture harness configuration.
type FixturesConfig struct {
	// Path is the fixture file.
	// Default: "test_cases.txt"
	Path string `yaml:"path"`

	// Watch re-runs the fixtures whenever the file changes while serving.
	// Default: false
	Watch bool `yaml:"watch"`

	// DebounceInterval coalesces bursts of file events.
	// Default: 200ms
	DebounceInterval time.Duration `yaml:"debounce_interval"`
}
