// Package config provides configuration management for trigon.
//
// This package handles loading, validating, and managing configuration from
// YAML files with .env and environment variable overrides.
//
// # Configuration Loading
//
//	cfg, err := config.LoadConfig("trigon.yaml")                  // file only
//	cfg, err := config.LoadConfigWithEnvOverrides("trigon.yaml")  // file + environment
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention TRIGON_SECTION_FIELD:
//
//   - TRIGON_LOGGING_LEVEL overrides logging.level
//   - TRIGON_HISTORY_DRIVER overrides history.driver
//   - TRIGON_SERVER_LISTEN_ADDRESS overrides server.listen_address
//
// Values may also come from a .env file. Variables already present in the
// process environment win over the .env file.
//
// # Configuration Precedence
//
//  1. Default values (defaults.go)
//  2. Values from the YAML file
//  3. Values from the .env file
//  4. Process environment
//  5. Validation (fails fast if invalid)
//
// # Singleton Pattern
//
// The trigon command initializes a process-wide configuration once:
//
//	if err := config.Initialize("trigon.yaml"); err != nil {
//	    return err
//	}
//	cfg := config.GetConfig()
//
// Library packages receive explicit *Config values instead.
package config
