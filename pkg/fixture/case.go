package fixture

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"mercator-hq/trigon/pkg/triangle"
)

// Case is a single fixture line.
type Case struct {
	// Line is the 1-based line number in the source file.
	Line int `json:"line" yaml:"line"`

	// Args are passed to the CLI verbatim. There may be any number of them.
	Args []string `json:"args" yaml:"args"`

	// Expected is the last two tokens joined by a single space.
	Expected string `json:"expected" yaml:"expected"`
}

// ExpectedLabel returns Expected as a Label, failing when it is not one of
// the classifier's labels.
func (c Case) ExpectedLabel() (triangle.Label, error) {
	return triangle.ParseLabel(c.Expected)
}

// ParseLine parses one fixture line. ok is false for blank lines.
func ParseLine(text string, line int) (c Case, ok bool, err error) {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return Case{}, false, nil
	}
	if len(tokens) < 2 {
		return Case{}, false, &ParseError{Line: line, Text: text, Err: ErrTooFewTokens}
	}

	split := len(tokens) - 2
	return Case{
		Line:     line,
		Args:     tokens[:split:split],
		Expected: tokens[split] + " " + tokens[split+1],
	}, true, nil
}

// Parse reads fixture cases from r.
func Parse(r io.Reader) ([]Case, error) {
	var cases []Case
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		c, ok, err := ParseLine(scanner.Text(), line)
		if err != nil {
			return nil, err
		}
		if ok {
			cases = append(cases, c)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read fixtures: %w", err)
	}
	return cases, nil
}

// Load reads fixture cases from the file at path.
func Load(path string) ([]Case, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open fixture file: %w", err)
	}
	defer f.Close()

	cases, err := Parse(f)
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			perr.Path = path
		}
		return nil, err
	}
	return cases, nil
}

// ValidateLabels reports the first case whose expected text is not a label.
// Such a case can only ever fail.
func ValidateLabels(cases []Case) error {
	for _, c := range cases {
		if _, err := c.ExpectedLabel(); err != nil {
			return &ParseError{Line: c.Line, Text: c.Expected, Err: err}
		}
	}
	return nil
}
