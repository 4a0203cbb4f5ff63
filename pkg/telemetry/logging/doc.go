// Package logging provides structured logging for trigon.
//
// # Overview
//
// The logging package wraps log/slog to provide:
//   - JSON, text and console output formats
//   - Configurable levels (debug, info, warn, error)
//   - Context-aware logging with run and request IDs
//
// # Usage
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json"})
//	if err != nil {
//	    return err
//	}
//
//	logger.Info("fixture run completed",
//	    "run_id", run.ID,
//	    "passed", report.Passed,
//	)
//
//	ctx = logging.WithRunID(ctx, run.ID)
//	logger.InfoContext(ctx, "case failed") // includes run_id
//
// Logs are written to stderr by default so they never interleave with
// command output on stdout.
package logging
