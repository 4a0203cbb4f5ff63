package config

import (
	"fmt"
	"sync"
)

var (
	// globalConfig holds the singleton configuration instance.
	globalConfig *Config

	// configMutex protects access to globalConfig.
	configMutex sync.RWMutex

	// initOnce ensures configuration is initialized only once.
	initOnce sync.Once
)

// Initialize loads configuration from path with .env and environment
// overrides and stores it as the global configuration. When path is
// DefaultConfigPath and the file does not exist, defaults are used.
// Subsequent calls are ignored.
func Initialize(path string) error {
	var initErr error

	initOnce.Do(func() {
		cfg, err := Load(path, LoadOptions{
			DotEnvPath:   DefaultDotEnvPath,
			AllowMissing: path == DefaultConfigPath,
		})
		if err != nil {
			initErr = err
			return
		}

		SetConfig(cfg)
	})

	return initErr
}

// GetConfig returns the global configuration instance, or nil if Initialize
// has not succeeded.
func GetConfig() *Config {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return globalConfig
}

// SetConfig sets the global configuration instance. Intended for tests and
// for Initialize.
func SetConfig(cfg *Config) {
	configMutex.Lock()
	defer configMutex.Unlock()
	globalConfig = cfg
}

// ReloadConfig reloads the configuration from path. The global instance is
// replaced only if loading and validation succeed.
func ReloadConfig(path string) error {
	cfg, err := Load(path, LoadOptions{DotEnvPath: DefaultDotEnvPath})
	if err != nil {
		return fmt.Errorf("failed to reload configuration: %w", err)
	}

	SetConfig(cfg)
	return nil
}

// MustGetConfig returns the global configuration instance and panics if it
// has not been initialized.
func MustGetConfig() *Config {
	cfg := GetConfig()
	if cfg == nil {
		panic("configuration not initialized: call Initialize first")
	}
	return cfg
}
