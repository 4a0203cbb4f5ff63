package cli

// Exit codes returned by the trigon binaries.
const (
	// ExitSuccess indicates the command completed. The triangle binary
	// returns it unconditionally.
	ExitSuccess = 0

	// ExitFailure indicates a runtime failure (fixture cases failed,
	// storage unavailable, server error).
	ExitFailure = 1

	// ExitConfigError indicates an invalid configuration or flag combination.
	ExitConfigError = 2
)

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if IsConfigError(err) {
		return ExitConfigError
	}
	return ExitFailure
}
