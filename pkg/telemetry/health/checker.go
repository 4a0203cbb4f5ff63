package health

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Status values.
const (
	StatusOK        = "ok"
	StatusReady     = "ready"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// DefaultCheckTimeout bounds a single check when none is given.
const DefaultCheckTimeout = 5 * time.Second

// ErrCheckTimeout is returned when a check does not finish in time.
var ErrCheckTimeout = errors.New("health check timeout")

// CheckFunc reports nil when the component is healthy.
type CheckFunc func(ctx context.Context) error

// CheckResult is the outcome of one check.
type CheckResult struct {
	Status     string  `json:"status"`
	Message    string  `json:"message,omitempty"`
	DurationMS float64 `json:"duration_ms"`
}

// Readiness is the aggregated readiness report.
type Readiness struct {
	Status    string                 `json:"status"`
	Checks    map[string]CheckResult `json:"checks"`
	Timestamp time.Time              `json:"timestamp"`
}

// Checker holds named readiness checks.
type Checker struct {
	mu           sync.RWMutex
	checks       map[string]CheckFunc
	checkTimeout time.Duration
}

// New creates a Checker. A zero timeout uses DefaultCheckTimeout.
func New(checkTimeout time.Duration) *Checker {
	if checkTimeout <= 0 {
		checkTimeout = DefaultCheckTimeout
	}
	return &Checker{
		checks:       make(map[string]CheckFunc),
		checkTimeout: checkTimeout,
	}
}

// RegisterCheck adds or replaces the check for name.
func (c *Checker) RegisterCheck(name string, check CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = check
}

// CheckReadiness runs all registered checks concurrently.
func (c *Checker) CheckReadiness(ctx context.Context) Readiness {
	c.mu.RLock()
	checks := make(map[string]CheckFunc, len(c.checks))
	for name, check := range c.checks {
		checks[name] = check
	}
	c.mu.RUnlock()

	results := make(map[string]CheckResult, len(checks))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for name, check := range checks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result := c.runCheck(ctx, check)
			mu.Lock()
			results[name] = result
			mu.Unlock()
		}()
	}
	wg.Wait()

	status := StatusReady
	for _, result := range results {
		if result.Status == StatusUnhealthy {
			status = StatusDegraded
		}
	}

	return Readiness{
		Status:    status,
		Checks:    results,
		Timestamp: time.Now().UTC(),
	}
}

func (c *Checker) runCheck(ctx context.Context, check CheckFunc) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, c.checkTimeout)
	defer cancel()

	start := time.Now()
	done := make(chan error, 1)
	go func() {
		done <- check(ctx)
	}()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		err = ErrCheckTimeout
	}

	result := CheckResult{
		Status:     StatusOK,
		DurationMS: float64(time.Since(start).Microseconds()) / 1000,
	}
	if err != nil {
		result.Status = StatusUnhealthy
		result.Message = err.Error()
	}
	return result
}
