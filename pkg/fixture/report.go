package fixture

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Outcome is the per-case verdict.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeError   Outcome = "error"
)

// Result is one executed case.
type Result struct {
	Case     Case          `json:"case" yaml:"case"`
	Actual   string        `json:"actual" yaml:"actual"`
	Outcome  Outcome       `json:"outcome" yaml:"outcome"`
	Duration time.Duration `json:"duration_ns" yaml:"duration_ns"`
}

// Report summarizes a fixture run.
type Report struct {
	RunID       string        `json:"run_id" yaml:"run_id"`
	FixturePath string        `json:"fixture_path,omitempty" yaml:"fixture_path,omitempty"`
	StartedAt   time.Time     `json:"started_at" yaml:"started_at"`
	Duration    time.Duration `json:"duration_ns" yaml:"duration_ns"`
	Total       int           `json:"total" yaml:"total"`
	Passed      int           `json:"passed" yaml:"passed"`
	Failed      int           `json:"failed" yaml:"failed"`
	Results     []Result      `json:"results" yaml:"results"`
}

// OK reports whether every case succeeded.
func (r *Report) OK() bool {
	return r.Failed == 0
}

// WriteLines writes "success" or "error" per case, in file order.
func (r *Report) WriteLines(w io.Writer) error {
	for _, res := range r.Results {
		if _, err := fmt.Fprintln(w, res.Outcome); err != nil {
			return err
		}
	}
	return nil
}

// String renders a human-readable summary with failing cases listed.
func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Run %s: %d cases, %d passed, %d failed (%s)\n",
		r.RunID, r.Total, r.Passed, r.Failed, r.Duration.Round(time.Microsecond))
	for _, res := range r.Results {
		if res.Outcome == OutcomeSuccess {
			continue
		}
		fmt.Fprintf(&b, "  line %d: %s: expected %q, got %q\n",
			res.Case.Line, strings.Join(res.Case.Args, " "), res.Case.Expected, res.Actual)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Header implements cli.Tabular.
func (r *Report) Header() []string {
	return []string{"line", "args", "expected", "actual", "outcome"}
}

// Rows implements cli.Tabular.
func (r *Report) Rows() [][]string {
	rows := make([][]string, 0, len(r.Results))
	for _, res := range r.Results {
		rows = append(rows, []string{
			strconv.Itoa(res.Case.Line),
			strings.Join(res.Case.Args, " "),
			res.Case.Expected,
			res.Actual,
			string(res.Outcome),
		})
	}
	return rows
}
