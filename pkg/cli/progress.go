package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// ProgressReporter reports progress for long-running operations.
type ProgressReporter interface {
	Start(total int64)
	Update(current int64)
	Finish()
	Error(err error)
}

// SimpleProgress implements a single-line text progress bar.
type SimpleProgress struct {
	mu      sync.Mutex
	total   int64
	current int64
	started time.Time
	writer  io.Writer
}

// NewProgressReporter creates a new progress reporter that writes to w.
// If w is nil, it defaults to os.Stderr so progress never mixes with
// command output on stdout.
func NewProgressReporter(w io.Writer) ProgressReporter {
	if w == nil {
		w = os.Stderr
	}
	return &SimpleProgress{
		writer: w,
	}
}

// Start initializes the progress reporter with the total number of items.
func (p *SimpleProgress) Start(total int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.total = total
	p.current = 0
	p.started = time.Now()

	p.render()
}

// Update updates the current progress.
func (p *SimpleProgress) Update(current int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = current
	p.render()
}

// Finish marks the progress as complete.
func (p *SimpleProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = p.total
	p.render()
	fmt.Fprintln(p.writer)
}

// Error reports an error during progress.
func (p *SimpleProgress) Error(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.writer, "\nerror: %v\n", err)
}

func (p *SimpleProgress) render() {
	if p.total <= 0 {
		return
	}

	current := p.current
	if current > p.total {
		current = p.total
	}

	percent := float64(current) / float64(p.total) * 100
	barWidth := 30
	filled := int(float64(barWidth) * percent / 100)

	bar := strings.Repeat("#", filled) + strings.Repeat(".", barWidth-filled)

	rate := 0.0
	if elapsed := time.Since(p.started).Seconds(); elapsed > 0 {
		rate = float64(current) / elapsed
	}

	fmt.Fprintf(p.writer, "\rCases: [%s] %.1f%% (%d/%d) %.0f cases/s",
		bar, percent, current, p.total, rate)
}
