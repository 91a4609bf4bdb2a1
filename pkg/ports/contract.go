package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/nvimsul/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunObservationStoreContract runs a suite of tests to verify that an ObservationStore
// implementation adheres to the defined interface contract.
func RunObservationStoreContract(t *testing.T, store ObservationStore) {
	ctx := context.Background()
	tag := domain.Symbol("contract-" + time.Now().Format("20060102150405"))

	trace := domain.Trace{
		Word:    domain.Word{":", tag},
		Outputs: []domain.CanonicalState{"Normal", "Command-line editing", "Command-line editing"},
	}

	t.Run("Save and Load", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, trace), "Save should not return error")

		loaded, err := store.Load(ctx, trace.Word)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, trace.Word.Key(), loaded.Word.Key())
		assert.Equal(t, trace.Outputs, loaded.Outputs)
	})

	t.Run("Save Rejects Malformed Trace", func(t *testing.T) {
		bad := domain.Trace{Word: domain.Word{tag}, Outputs: nil}
		assert.Error(t, store.Save(ctx, bad))
	})

	t.Run("Empty Word", func(t *testing.T) {
		initial := domain.Trace{Word: domain.Word{}, Outputs: []domain.CanonicalState{"Normal"}}
		require.NoError(t, store.Save(ctx, initial))
		defer func() { _ = store.Delete(ctx, initial.Word) }()

		loaded, err := store.Load(ctx, domain.Word{})
		require.NoError(t, err)
		assert.Equal(t, domain.StateNormal, loaded.Final())
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, domain.Word{"non-existent", tag})
		assert.ErrorIs(t, err, domain.ErrObservationNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, trace))

		require.NoError(t, store.Delete(ctx, trace.Word), "Delete should not return error")

		_, err := store.Load(ctx, trace.Word)
		assert.ErrorIs(t, err, domain.ErrObservationNotFound, "Load after Delete should return ErrObservationNotFound")
	})

	t.Run("List", func(t *testing.T) {
		t1 := domain.Trace{Word: domain.Word{"v", tag}, Outputs: []domain.CanonicalState{"Normal", "Visual", "Visual"}}
		t2 := domain.Trace{Word: domain.Word{"c", tag}, Outputs: []domain.CanonicalState{"Normal", "Operator-pending", "Operator-pending"}}
		_ = store.Save(ctx, t1)
		_ = store.Save(ctx, t2)

		defer func() {
			_ = store.Delete(ctx, t1.Word)
			_ = store.Delete(ctx, t2.Word)
		}()

		traces, err := store.List(ctx)
		require.NoError(t, err)

		keys := make([]string, 0, len(traces))
		for _, tr := range traces {
			keys = append(keys, tr.Word.Key())
		}
		assert.Contains(t, keys, t1.Word.Key())
		assert.Contains(t, keys, t2.Word.Key())
	})
}
