package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"mercator-hq/trigon/pkg/history"
)

// MemoryStorage keeps runs in process memory.
type MemoryStorage struct {
	mu     sync.RWMutex
	runs   map[string]*history.Run
	closed bool
}

// NewMemoryStorage creates an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		runs: make(map[string]*history.Run),
	}
}

// Store saves a copy of run.
func (s *MemoryStorage) Store(ctx context.Context, run *history.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return history.ErrClosed
	}
	if _, exists := s.runs[run.ID]; exists {
		return history.NewStorageError("memory", "store", history.ErrDuplicateRun)
	}
	s.runs[run.ID] = cloneRun(run, true)
	return nil
}

// Get returns a copy of the run with its cases.
func (s *MemoryStorage) Get(ctx context.Context, id string) (*history.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, history.ErrClosed
	}
	run, ok := s.runs[id]
	if !ok {
		return nil, history.ErrNotFound
	}
	return cloneRun(run, true), nil
}

// List returns matching run summaries, newest first.
func (s *MemoryStorage) List(ctx context.Context, query *history.Query) ([]*history.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, history.ErrClosed
	}

	matched := make([]*history.Run, 0, len(s.runs))
	for _, run := range s.runs {
		if query.Matches(run) {
			matched = append(matched, run)
		}
	}
	sortNewestFirst(matched)

	offset := 0
	if query != nil && query.Offset > 0 {
		offset = query.Offset
	}
	if offset >= len(matched) {
		return []*history.Run{}, nil
	}
	matched = matched[offset:]
	if limit := query.EffectiveLimit(); len(matched) > limit {
		matched = matched[:limit]
	}

	out := make([]*history.Run, 0, len(matched))
	for _, run := range matched {
		out = append(out, cloneRun(run, false))
	}
	return out, nil
}

// Delete removes old runs and runs beyond the newest keepLast.
func (s *MemoryStorage) Delete(ctx context.Context, before time.Time, keepLast int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, history.ErrClosed
	}

	var deleted int64
	if !before.IsZero() {
		for id, run := range s.runs {
			if run.StartedAt.Before(before) {
				delete(s.runs, id)
				deleted++
			}
		}
	}

	if keepLast > 0 && len(s.runs) > keepLast {
		all := make([]*history.Run, 0, len(s.runs))
		for _, run := range s.runs {
			all = append(all, run)
		}
		sortNewestFirst(all)
		for _, run := range all[keepLast:] {
			delete(s.runs, run.ID)
			deleted++
		}
	}

	return deleted, nil
}

// Count returns the number of stored runs.
func (s *MemoryStorage) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, history.ErrClosed
	}
	return int64(len(s.runs)), nil
}

// Ping fails once the storage is closed.
func (s *MemoryStorage) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return history.ErrClosed
	}
	return nil
}

// Close releases all runs.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.runs = nil
	return nil
}

// sortNewestFirst orders by start time, then ID, both descending.
func sortNewestFirst(runs []*history.Run) {
	sort.Slice(runs, func(i, j int) bool {
		if !runs[i].StartedAt.Equal(runs[j].StartedAt) {
			return runs[i].StartedAt.After(runs[j].StartedAt)
		}
		return runs[i].ID > runs[j].ID
	})
}

func cloneRun(run *history.Run, withCases bool) *history.Run {
	c := *run
	c.Cases = nil
	if withCases && run.Cases != nil {
		c.Cases = make([]history.CaseRecord, len(run.Cases))
		for i, cr := range run.Cases {
			cr.Args = append([]string{}, cr.Args...)
			c.Cases[i] = cr
		}
	}
	return &c
}
