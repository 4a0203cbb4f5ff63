package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// SetupSignalHandler returns a context that is canceled on SIGINT or SIGTERM.
// The returned stop function releases the signal registration.
func SetupSignalHandler() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
