// Command triangle classifies a triangle from three side lengths.
//
// Usage:
//
//	triangle 3 4 5        # simple triangle
//	triangle 2 2 2        # equilateral triangle
//	triangle 1 2 3        # not triangle
//	triangle -3 4 5       # unknown error
//
// Exactly one line is printed and the exit status is always 0. Arguments are
// never interpreted as flags, so negative numbers are sides.
//
// Diagnostics are off by default. Set TRIGON_LOG_LEVEL (debug, info, warn,
// error) to log to stderr.
package main

import (
	"os"

	"mercator-hq/trigon/pkg/cli"
	"mercator-hq/trigon/pkg/telemetry/logging"
)

// logLevelEnv selects the stderr log level.
const logLevelEnv = "TRIGON_LOG_LEVEL"

func main() {
	os.Exit(cli.RunWithLogger(os.Args[1:], os.Stdout, newLogger()))
}

// newLogger returns a stderr logger when TRIGON_LOG_LEVEL is set. An unset
// or invalid level disables logging rather than failing the command.
func newLogger() *logging.Logger {
	level := os.Getenv(logLevelEnv)
	if level == "" {
		return logging.Discard()
	}
	logger, err := logging.New(logging.Config{Level: level, Format: string(logging.FormatText), Writer: os.Stderr})
	if err != nil {
		return logging.Discard()
	}
	return logger
}
