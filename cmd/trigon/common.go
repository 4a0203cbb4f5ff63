package main

import (
	"fmt"
	"io"
	"os"

	"mercator-hq/trigon/pkg/cli"
	"mercator-hq/trigon/pkg/config"
	"mercator-hq/trigon/pkg/history"
	"mercator-hq/trigon/pkg/history/storage"
	"mercator-hq/trigon/pkg/telemetry/logging"
)

// loadConfig returns the global configuration, loading it on first use.
func loadConfig() (*config.Config, error) {
	if cfg := config.GetConfig(); cfg != nil {
		return cfg, nil
	}
	if err := config.Initialize(cfgFile); err != nil {
		return nil, cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	return config.GetConfig(), nil
}

// newLogger builds the command logger. Logs always go to stderr so command
// output on stdout stays machine-readable. --verbose forces debug.
func newLogger(cfg *config.Config) (*logging.Logger, error) {
	lc := logging.FromConfig(cfg.Logging, os.Stderr)
	if verbose {
		lc.Level = "debug"
	}
	logger, err := logging.New(lc)
	if err != nil {
		return nil, cli.NewConfigError("logging", err.Error())
	}
	return logger, nil
}

// openHistory opens the configured history storage.
func openHistory(cfg *config.Config) (history.Storage, error) {
	store, err := storage.Open(&cfg.History)
	if err != nil {
		return nil, fmt.Errorf("failed to open history storage: %w", err)
	}
	return store, nil
}

// writeOutput renders data to w in the given format.
func writeOutput(w io.Writer, format string, data any) error {
	f, err := cli.ParseOutputFormat(format)
	if err != nil {
		return err
	}
	return cli.NewFormatter(f).FormatTo(w, data)
}
