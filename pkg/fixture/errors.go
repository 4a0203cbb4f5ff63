package fixture

import (
	"errors"
	"fmt"
)

// ErrTooFewTokens means a fixture line cannot hold a two-word label.
var ErrTooFewTokens = errors.New("fixture line needs at least two tokens")

// ParseError reports a malformed fixture line.
type ParseError struct {
	Path string
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s:%d: %v: %q", e.Path, e.Line, e.Err, e.Text)
	}
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Text)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
