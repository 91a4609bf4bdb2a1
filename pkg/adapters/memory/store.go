package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/aretw0/nvimsul/pkg/domain"
	"github.com/aretw0/nvimsul/pkg/ports"
)

// Store implements ports.ObservationStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]domain.Trace
	mu   sync.RWMutex
}

var _ ports.ObservationStore = (*Store)(nil)

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]domain.Trace),
	}
}

// Save persists the trace in memory.
func (s *Store) Save(ctx context.Context, trace domain.Trace) error {
	if err := trace.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[trace.Word.Key()] = clone(trace)
	return nil
}

// Load retrieves the trace from memory.
func (s *Store) Load(ctx context.Context, word domain.Word) (domain.Trace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	trace, ok := s.data[word.Key()]
	if !ok {
		return domain.Trace{}, domain.ErrObservationNotFound
	}
	// Copy on read so callers can't mutate stored slices
	return clone(trace), nil
}

// Delete removes the trace.
func (s *Store) Delete(ctx context.Context, word domain.Word) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, word.Key())
	return nil
}

// List returns every stored trace, shortest word first.
func (s *Store) List(ctx context.Context) ([]domain.Trace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	traces := make([]domain.Trace, 0, len(s.data))
	for _, t := range s.data {
		traces = append(traces, clone(t))
	}
	slices.SortFunc(traces, func(a, b domain.Trace) int {
		if d := len(a.Word) - len(b.Word); d != 0 {
			return d
		}
		return compareKeys(a.Word.Key(), b.Word.Key())
	})
	return traces, nil
}

func compareKeys(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func clone(t domain.Trace) domain.Trace {
	return domain.Trace{
		Word:    slices.Clone(t.Word),
		Outputs: slices.Clone(t.Outputs),
	}
}
