package cli

import (
	"errors"
	"fmt"
	"testing"
)

func TestConfigError(t *testing.T) {
	tests := []struct {
		name string
		err  *ConfigError
		want string
	}{
		{
			name: "with field",
			err:  &ConfigError{Field: "history.driver", Message: "unsupported driver"},
			want: "config error in history.driver: unsupported driver",
		},
		{
			name: "without field",
			err:  &ConfigError{Message: "failed to load config"},
			want: "config error: failed to load config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCommandErrorUnwrap(t *testing.T) {
	underlyingErr := errors.New("underlying error")
	err := NewCommandError("test", underlyingErr)

	expected := "command test failed: underlying error"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}

	if !errors.Is(err, underlyingErr) {
		t.Error("errors.Is() should work with CommandError.Unwrap()")
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: ExitSuccess},
		{name: "command error", err: NewCommandError("test", errors.New("boom")), want: ExitFailure},
		{name: "config error", err: NewConfigError("format", "bad"), want: ExitConfigError},
		{name: "wrapped config error", err: fmt.Errorf("load: %w", NewConfigError("", "bad")), want: ExitConfigError},
		{name: "plain error", err: errors.New("plain"), want: ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
