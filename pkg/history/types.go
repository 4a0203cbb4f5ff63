package history

import (
	"context"
	"strconv"
	"strings"
	"time"

	"mercator-hq/trigon/pkg/fixture"
)

// DefaultListLimit caps List results when Query.Limit is zero.
const DefaultListLimit = 100

// Run is a stored fixture run.
type Run struct {
	ID          string        `json:"id" yaml:"id"`
	FixturePath string        `json:"fixture_path" yaml:"fixture_path"`
	StartedAt   time.Time     `json:"started_at" yaml:"started_at"`
	Duration    time.Duration `json:"duration_ns" yaml:"duration_ns"`
	Total       int           `json:"total" yaml:"total"`
	Passed      int           `json:"passed" yaml:"passed"`
	Failed      int           `json:"failed" yaml:"failed"`

	// Cases is only populated by Get.
	Cases []CaseRecord `json:"cases,omitempty" yaml:"cases,omitempty"`
}

// CaseRecord is one case of a stored run.
type CaseRecord struct {
	Line     int      `json:"line" yaml:"line"`
	Args     []string `json:"args" yaml:"args"`
	Expected string   `json:"expected" yaml:"expected"`
	Actual   string   `json:"actual" yaml:"actual"`
	Outcome  string   `json:"outcome" yaml:"outcome"`
}

// FromReport converts a fixture report into a Run.
func FromReport(r *fixture.Report) *Run {
	run := &Run{
		ID:          r.RunID,
		FixturePath: r.FixturePath,
		StartedAt:   r.StartedAt,
		Duration:    r.Duration,
		Total:       r.Total,
		Passed:      r.Passed,
		Failed:      r.Failed,
		Cases:       make([]CaseRecord, 0, len(r.Results)),
	}
	for _, res := range r.Results {
		run.Cases = append(run.Cases, CaseRecord{
			Line:     res.Case.Line,
			Args:     append([]string{}, res.Case.Args...),
			Expected: res.Case.Expected,
			Actual:   res.Actual,
			Outcome:  string(res.Outcome),
		})
	}
	return run
}

// Header implements cli.Tabular.
func (r *Run) Header() []string {
	return []string{"line", "args", "expected", "actual", "outcome"}
}

// Rows implements cli.Tabular with one row per case.
func (r *Run) Rows() [][]string {
	rows := make([][]string, 0, len(r.Cases))
	for _, c := range r.Cases {
		rows = append(rows, []string{strconv.Itoa(c.Line), strings.Join(c.Args, " "), c.Expected, c.Actual, c.Outcome})
	}
	return rows
}

// RunList is a list of run summaries.
type RunList []*Run

// Header implements cli.Tabular.
func (l RunList) Header() []string {
	return []string{"id", "fixture_path", "started_at", "duration_ms", "total", "passed", "failed"}
}

// Rows implements cli.Tabular.
func (l RunList) Rows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, r := range l {
		rows = append(rows, []string{
			r.ID,
			r.FixturePath,
			r.StartedAt.UTC().Format(time.RFC3339),
			strconv.FormatInt(r.Duration.Milliseconds(), 10),
			strconv.Itoa(r.Total),
			strconv.Itoa(r.Passed),
			strconv.Itoa(r.Failed),
		})
	}
	return rows
}

// Query filters List results. Zero fields do not filter.
type Query struct {
	FixturePath string
	Since       *time.Time
	Until       *time.Time
	FailedOnly  bool
	Limit       int
	Offset      int
}

// Matches reports whether run passes the filters, ignoring paging.
func (q *Query) Matches(run *Run) bool {
	if q == nil {
		return true
	}
	if q.FixturePath != "" && run.FixturePath != q.FixturePath {
		return false
	}
	if q.Since != nil && run.StartedAt.Before(*q.Since) {
		return false
	}
	if q.Until != nil && !run.StartedAt.Before(*q.Until) {
		return false
	}
	if q.FailedOnly && run.Failed == 0 {
		return false
	}
	return true
}

// EffectiveLimit returns Limit or DefaultListLimit when unset.
func (q *Query) EffectiveLimit() int {
	if q == nil || q.Limit <= 0 {
		return DefaultListLimit
	}
	return q.Limit
}

// Storage persists fixture runs.
type Storage interface {
	// Store saves a run with its cases. Storing an existing ID fails.
	Store(ctx context.Context, run *Run) error

	// Get returns a run with its cases, or ErrNotFound.
	Get(ctx context.Context, id string) (*Run, error)

	// List returns run summaries, newest first.
	List(ctx context.Context, query *Query) ([]*Run, error)

	// Delete removes runs started before before (ignored when zero) and all
	// but the newest keepLast runs (ignored when zero). It returns the number
	// of runs removed.
	Delete(ctx context.Context, before time.Time, keepLast int) (int64, error)

	// Count returns the number of stored runs.
	Count(ctx context.Context) (int64, error)

	// Ping checks the backend is usable.
	Ping(ctx context.Context) error

	Close() error
}
