package learning_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/nvimsul/internal/runtime"
	"github.com/aretw0/nvimsul/internal/testutils"
	"github.com/aretw0/nvimsul/pkg/adapters/memory"
	"github.com/aretw0/nvimsul/pkg/domain"
	"github.com/aretw0/nvimsul/pkg/learning"
)

// countingSUL wraps a SUL and counts the queries that reach it.
type countingSUL struct {
	*runtime.Adapter
	queries int
}

func (c *countingSUL) Query(ctx context.Context, w domain.Word) (domain.Trace, error) {
	c.queries++
	return c.Adapter.Query(ctx, w)
}

func newFakeSUL(t *testing.T) *countingSUL {
	t.Helper()
	a := runtime.NewAdapter(runtime.NewLifecycle(&testutils.FakeSpawner{}, nil))
	t.Cleanup(func() { _ = a.Close() })
	return &countingSUL{Adapter: a}
}

// flakySUL answers "Visual" for "v" on odd queries and "Insert" on even ones.
type flakySUL struct {
	n int
}

func (f *flakySUL) Pre(context.Context) error  { f.n++; return nil }
func (f *flakySUL) Post(context.Context) error { return nil }
func (f *flakySUL) Step(_ context.Context, sym domain.Symbol) (domain.CanonicalState, error) {
	if sym == domain.NoSymbol {
		return domain.StateNormal, nil
	}
	if f.n%2 == 0 {
		return "Insert", nil
	}
	return "Visual", nil
}

func TestCache_AnswersPrefixesFromTrie(t *testing.T) {
	sul := newFakeSUL(t)
	cache := learning.NewCache(sul)
	ctx := context.Background()

	full, err := cache.Query(ctx, domain.Word{"v", "<Esc>", ":"})
	require.NoError(t, err)
	assert.Equal(t, 1, sul.queries)

	prefix, err := cache.Query(ctx, domain.Word{"v", "<Esc>"})
	require.NoError(t, err)
	assert.Equal(t, 1, sul.queries, "prefix must be served from the trie")
	assert.Equal(t, full.Outputs[:3], prefix.Outputs)

	_, err = cache.Query(ctx, domain.Word{"v", "v"})
	require.NoError(t, err)
	assert.Equal(t, 2, sul.queries)

	stats := cache.Stats()
	assert.Equal(t, 1, stats.Hits)
	assert.Equal(t, 2, stats.Misses)
}

func TestCache_DetectsNonDeterminism(t *testing.T) {
	cache := learning.NewCache(&flakySUL{})
	ctx := context.Background()

	_, err := cache.Query(ctx, domain.Word{"v"})
	require.NoError(t, err)

	// A longer query re-executes the prefix and sees a different answer.
	_, err = cache.Query(ctx, domain.Word{"v", "v"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNonDeterminism)

	var nd *domain.NonDeterminismError
	require.True(t, errors.As(err, &nd))
	assert.Equal(t, domain.Word{"v"}, nd.Word)
	assert.Equal(t, domain.CanonicalState("Visual"), nd.Expected)
	assert.Equal(t, domain.CanonicalState("Insert"), nd.Got)
}

func TestCache_StepProtocolChecks(t *testing.T) {
	cache := learning.NewCache(&flakySUL{})
	ctx := context.Background()

	run := func() error {
		if err := cache.Pre(ctx); err != nil {
			return err
		}
		if _, err := cache.Step(ctx, domain.NoSymbol); err != nil {
			return err
		}
		_, err := cache.Step(ctx, "v")
		_ = cache.Post(ctx)
		return err
	}
	require.NoError(t, run())
	assert.ErrorIs(t, run(), domain.ErrNonDeterminism)
}

func TestCache_StepBeforeObservation(t *testing.T) {
	cache := learning.NewCache(&flakySUL{})
	ctx := context.Background()
	require.NoError(t, cache.Pre(ctx))
	_, err := cache.Step(ctx, "v")
	assert.ErrorIs(t, err, domain.ErrPrecondition)
}

func TestCache_StoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	first := learning.NewCache(newFakeSUL(t), learning.WithStore(store))
	_, err := first.Query(ctx, domain.Word{"i", "<C-c>"})
	require.NoError(t, err)
	_, err = first.Query(ctx, domain.Word{":"})
	require.NoError(t, err)

	saved, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, saved, 2, "write-through")

	sul := newFakeSUL(t)
	second := learning.NewCache(sul)
	n, err := second.Warm(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	trace, err := second.Query(ctx, domain.Word{"i"})
	require.NoError(t, err)
	assert.Equal(t, 0, sul.queries)
	assert.Equal(t, domain.CanonicalState("Insert"), trace.Final())

	other := memory.NewStore()
	flushed, err := second.Flush(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, 2, flushed)
	loaded, err := other.Load(ctx, domain.Word{"i", "<C-c>"})
	require.NoError(t, err)
	assert.Equal(t, domain.StateNormal, loaded.Final())
}

func TestCache_WarmRejectsConflicts(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Save(ctx, domain.Trace{Word: domain.Word{"v"}, Outputs: []domain.CanonicalState{"Normal", "Visual"}}))
	require.NoError(t, store.Save(ctx, domain.Trace{Word: domain.Word{"v", "v"}, Outputs: []domain.CanonicalState{"Normal", "Insert", "Normal"}}))

	_, err := learning.NewCache(&flakySUL{}).Warm(ctx, store)
	assert.ErrorIs(t, err, domain.ErrNonDeterminism)
}
