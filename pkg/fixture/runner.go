package fixture

import (
	"bytes"
	"context"
	"errors"
	"os/exec"

	"mercator-hq/trigon/pkg/cli"
)

// Runner produces the CLI output for one argument vector. Errors are folded
// into the returned text, which then never matches a label.
type Runner interface {
	Run(ctx context.Context, args []string) string
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context, args []string) string

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context, args []string) string {
	return f(ctx, args)
}

// DirectRunner invokes the CLI wrapper in-process.
type DirectRunner struct{}

// Run returns the label the CLI would print.
func (DirectRunner) Run(_ context.Context, args []string) string {
	return string(cli.Invoke(args))
}

// ExecRunner spawns Binary with the case arguments and captures stdout.
type ExecRunner struct {
	Binary string

	// Args are placed before the case arguments, for example a script path.
	Args []string
}

// Run executes the binary. A non-zero exit still yields its stdout; only a
// failure to run the process yields "error <err>".
func (r ExecRunner) Run(ctx context.Context, args []string) string {
	argv := make([]string, 0, len(r.Args)+len(args))
	argv = append(argv, r.Args...)
	argv = append(argv, args...)

	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, r.Binary, argv...)
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) || ctx.Err() != nil {
			return "error " + err.Error()
		}
	}
	return stdout.String()
}
