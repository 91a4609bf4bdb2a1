package ports

import (
	"context"

	"github.com/aretw0/nvimsul/pkg/domain"
)

// ObservationStore persists answered membership queries.
// It lets repeated runs reuse answers and detect non-determinism across runs.
type ObservationStore interface {
	// Save persists the trace, keyed by its word.
	Save(ctx context.Context, trace domain.Trace) error

	// Load retrieves the trace for a word.
	// Returns domain.ErrObservationNotFound if the word was never answered.
	Load(ctx context.Context, word domain.Word) (domain.Trace, error)

	// Delete removes the trace for a word.
	Delete(ctx context.Context, word domain.Word) error

	// List returns every stored trace.
	List(ctx context.Context) ([]domain.Trace, error)
}
