package cli

import (
	"fmt"
	"io"

	"mercator-hq/trigon/pkg/telemetry/logging"
	"mercator-hq/trigon/pkg/triangle"
)

// SideCount is the number of positional arguments the wrapper accepts.
const SideCount = 3

// Invoke classifies a raw argument vector. Any vector that does not hold
// exactly SideCount entries yields triangle.LabelUnknownError without
// consulting the classifier.
func Invoke(args []string) triangle.Label {
	if len(args) != SideCount {
		return triangle.LabelUnknownError
	}
	return triangle.Classify(args[0], args[1], args[2])
}

// Run prints the label for args to w as a single line and returns the
// process exit code. Failures are reported only through the label, so the
// exit code is always ExitSuccess. A failed write to w is ignored for the
// same reason.
func Run(args []string, w io.Writer) int {
	return RunWithLogger(args, w, logging.Discard())
}

// RunWithLogger is Run with a debug line per invocation on logger.
func RunWithLogger(args []string, w io.Writer, logger *logging.Logger) int {
	label := Invoke(args)
	if _, err := fmt.Fprintln(w, label); err != nil {
		logger.Warn("Failed to write label", "error", err)
	}
	logger.Debug("Classified", "args", args, "label", string(label))
	return ExitSuccess
}
