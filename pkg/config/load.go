package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix shared by all environment overrides.
const EnvPrefix = "TRIGON_"

// LookupFunc resolves an environment variable.
type LookupFunc func(key string) (string, bool)

// LoadConfig loads configuration from a YAML file at the specified path.
// Values absent from the file keep their defaults. The result is validated.
func LoadConfig(path string) (*Config, error) {
	cfg, err := loadFile(path)
	if err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// overrides from DefaultDotEnvPath and the process environment.
//
// The loading sequence is:
// 1. Defaults
// 2. YAML from file
// 3. .env file and environment overrides
// 4. Validation
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	return Load(path, LoadOptions{DotEnvPath: DefaultDotEnvPath})
}

// LoadOptions tunes Load.
type LoadOptions struct {
	// DotEnvPath is a .env file read for overrides. A missing file is ignored.
	DotEnvPath string

	// AllowMissing makes a missing config file equivalent to an empty one.
	AllowMissing bool

	// Lookup resolves environment variables. Defaults to os.LookupEnv.
	Lookup LookupFunc
}

// Load loads configuration with full control over the override sources.
func Load(path string, opts LoadOptions) (*Config, error) {
	cfg, err := loadFile(path)
	if err != nil {
		if !opts.AllowMissing || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		cfg = NewDefaultConfig()
	}

	lookup := opts.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}

	if opts.DotEnvPath != "" {
		dotenv, err := readDotEnv(opts.DotEnvPath)
		if err != nil {
			return nil, err
		}
		lookup = layered(lookup, dotenv)
	}

	if err := applyEnvOverrides(cfg, lookup); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

func loadFile(path string) (*Config, error) {
	cfg := NewDefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(cfg)
	return cfg, nil
}

// readDotEnv parses a .env file. A missing file yields an empty map.
func readDotEnv(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read env file %q: %w", path, err)
	}
	return values, nil
}

// layered prefers primary and falls back to values.
func layered(primary LookupFunc, values map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		if v, ok := primary(key); ok {
			return v, true
		}
		v, ok := values[key]
		return v, ok
	}
}

// envOverride binds one environment variable to a setter.
type envOverride struct {
	key string
	set func(string) error
}

// applyEnvOverrides applies TRIGON_* overrides. Malformed values are
// reported as a ValidationError naming the variable.
func applyEnvOverrides(cfg *Config, lookup LookupFunc) error {
	overrides := []envOverride{
		{"LOGGING_LEVEL", setString(&cfg.Logging.Level)},
		{"LOGGING_FORMAT", setString(&cfg.Logging.Format)},
		{"LOGGING_ADD_SOURCE", setBool(&cfg.Logging.AddSource)},

		{"METRICS_ENABLED", setBool(&cfg.Metrics.Enabled)},
		{"METRICS_PATH", setString(&cfg.Metrics.Path)},
		{"METRICS_NAMESPACE", setString(&cfg.Metrics.Namespace)},

		{"TRACING_ENABLED", setBool(&cfg.Tracing.Enabled)},
		{"TRACING_ENDPOINT", setString(&cfg.Tracing.Endpoint)},
		{"TRACING_SERVICE_NAME", setString(&cfg.Tracing.ServiceName)},
		{"TRACING_SAMPLE_RATIO", setFloat(&cfg.Tracing.SampleRatio)},
		{"TRACING_INSECURE", setBool(&cfg.Tracing.Insecure)},

		{"HISTORY_ENABLED", setBool(&cfg.History.Enabled)},
		{"HISTORY_DRIVER", setString(&cfg.History.Driver)},
		{"HISTORY_PATH", setString(&cfg.History.Path)},
		{"HISTORY_BUSY_TIMEOUT", setDuration(&cfg.History.BusyTimeout)},
		{"HISTORY_RETENTION_DAYS", setInt(&cfg.History.Retention.Days)},
		{"HISTORY_RETENTION_MAX_RUNS", setInt(&cfg.History.Retention.MaxRuns)},
		{"HISTORY_RETENTION_SCHEDULE", setString(&cfg.History.Retention.Schedule)},

		{"SERVER_LISTEN_ADDRESS", setString(&cfg.Server.ListenAddress)},
		{"SERVER_READ_TIMEOUT", setDuration(&cfg.Server.ReadTimeout)},
		{"SERVER_WRITE_TIMEOUT", setDuration(&cfg.Server.WriteTimeout)},
		{"SERVER_IDLE_TIMEOUT", setDuration(&cfg.Server.IdleTimeout)},
		{"SERVER_SHUTDOWN_TIMEOUT", setDuration(&cfg.Server.ShutdownTimeout)},
		{"SERVER_TLS_ENABLED", setBool(&cfg.Server.TLS.Enabled)},
		{"SERVER_TLS_CERT_FILE", setString(&cfg.Server.TLS.CertFile)},
		{"SERVER_TLS_KEY_FILE", setString(&cfg.Server.TLS.KeyFile)},
		{"SERVER_TLS_MIN_VERSION", setString(&cfg.Server.TLS.MinVersion)},
		{"SERVER_AUTH_ENABLED", setBool(&cfg.Server.Auth.Enabled)},
		{"SERVER_AUTH_KEYS", setAPIKeys(&cfg.Server.Auth.Keys)},
		{"SERVER_RATE_LIMIT_ENABLED", setBool(&cfg.Server.RateLimit.Enabled)},
		{"SERVER_RATE_LIMIT_REQUESTS_PER_SECOND", setFloat(&cfg.Server.RateLimit.RequestsPerSecond)},
		{"SERVER_RATE_LIMIT_BURST", setInt(&cfg.Server.RateLimit.Burst)},

		{"FIXTURES_PATH", setString(&cfg.Fixtures.Path)},
		{"FIXTURES_WATCH", setBool(&cfg.Fixtures.Watch)},
		{"FIXTURES_DEBOUNCE_INTERVAL", setDuration(&cfg.Fixtures.DebounceInterval)},
	}

	var errs []FieldError
	for _, o := range overrides {
		key := EnvPrefix + o.key
		val, ok := lookup(key)
		if !ok || strings.TrimSpace(val) == "" {
			continue
		}
		if err := o.set(strings.TrimSpace(val)); err != nil {
			errs = append(errs, FieldError{Field: key, Message: err.Error()})
		}
	}

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func setString(dst *string) func(string) error {
	return func(v string) error {
		*dst = v
		return nil
	}
}

func setBool(dst *bool) func(string) error {
	return func(v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid boolean %q", v)
		}
		*dst = b
		return nil
	}
}

func setInt(dst *int) func(string) error {
	return func(v string) error {
		i, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid integer %q", v)
		}
		*dst = i
		return nil
	}
}

func setFloat(dst *float64) func(string) error {
	return func(v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q", v)
		}
		*dst = f
		return nil
	}
}

func setDuration(dst *time.Duration) func(string) error {
	return func(v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid duration %q", v)
		}
		*dst = d
		return nil
	}
}

// setAPIKeys parses a comma-separated list of "name:key" or bare "key"
// entries and replaces the configured keys.
func setAPIKeys(dst *[]APIKeyConfig) func(string) error {
	return func(v string) error {
		var keys []APIKeyConfig
		for i, entry := range strings.Split(v, ",") {
			entry = strings.TrimSpace(entry)
			if entry == "" {
				continue
			}
			name, key, ok := strings.Cut(entry, ":")
			if !ok {
				name, key = fmt.Sprintf("env-%d", i+1), entry
			}
			if key == "" {
				return fmt.Errorf("empty key for %q", name)
			}
			keys = append(keys, APIKeyConfig{Name: name, Key: key})
		}
		*dst = keys
		return nil
	}
}
