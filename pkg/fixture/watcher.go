package fixture

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"mercator-hq/trigon/pkg/telemetry/logging"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounceInterval is used when a Watcher is created with a zero interval.
const DefaultDebounceInterval = 200 * time.Millisecond

// Watcher calls a callback whenever a fixture file changes. The parent
// directory is watched so editors that replace the file on save are still seen.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	logger   *logging.Logger
	debounce *Debouncer

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewWatcher creates a Watcher for path.
func NewWatcher(path string, interval time.Duration, logger *logging.Logger) (*Watcher, error) {
	if path == "" {
		return nil, errors.New("fixture path is required")
	}
	if interval <= 0 {
		interval = DefaultDebounceInterval
	}
	if logger == nil {
		logger = logging.Discard()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve fixture path: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Watcher{
		path:     abs,
		watcher:  fsw,
		logger:   logger.WithComponent("fixture.watcher"),
		debounce: NewDebouncer(interval),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Watch blocks until ctx is cancelled or Stop is called, invoking onChange
// once per burst of writes to the fixture file.
func (w *Watcher) Watch(ctx context.Context, onChange func(ctx context.Context) error) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return errors.New("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	defer close(w.doneCh)

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(w.path), err)
	}

	w.logger.Info("Fixture watcher started", "path", w.path)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Fixture watcher stopped (context cancelled)")
			return nil

		case <-w.stopCh:
			w.logger.Info("Fixture watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}
			if !w.relevant(event) {
				continue
			}

			w.logger.Debug("Fixture file event", "op", event.Op.String())

			w.debounce.Trigger(func() {
				if err := onChange(ctx); err != nil {
					w.logger.Error("Fixture re-run failed", "error", err)
				}
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			w.logger.Error("Fixture watcher error", "error", err)
		}
	}
}

// Stop stops a running Watch and releases the watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	running := w.running
	w.running = false
	w.mu.Unlock()

	if running {
		close(w.stopCh)
		<-w.doneCh
	}

	w.debounce.Stop()
	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	return nil
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	name, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return name == w.path
}

// Debouncer collapses bursts of events into one callback after a quiet period.
type Debouncer struct {
	interval time.Duration
	mu       sync.Mutex
	timer    *time.Timer
	callback func()
	stopped  bool
	inflight sync.WaitGroup
}

// NewDebouncer creates a Debouncer.
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{interval: interval}
}

// Trigger schedules callback after the interval, replacing any pending one.
func (d *Debouncer) Trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.callback = callback
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, func() {
		d.mu.Lock()
		cb := d.callback
		d.callback = nil
		if cb == nil || d.stopped {
			d.mu.Unlock()
			return
		}
		d.inflight.Add(1)
		d.mu.Unlock()

		defer d.inflight.Done()
		cb()
	})
}

// Stop cancels any pending callback and waits for one already running.
// Later triggers are ignored. It must not be called from a callback.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.callback = nil
	d.mu.Unlock()

	d.inflight.Wait()
}
