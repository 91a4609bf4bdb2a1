package middleware_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/nvimsul/pkg/adapters/memory"
	"github.com/aretw0/nvimsul/pkg/domain"
	"github.com/aretw0/nvimsul/pkg/persistence/middleware"
	"github.com/aretw0/nvimsul/pkg/ports"
)

func trace(outputs []domain.CanonicalState, word ...domain.Symbol) domain.Trace {
	return domain.Trace{Word: word, Outputs: outputs}
}

func TestLoggingMiddleware_Contract(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ports.RunObservationStoreContract(t, middleware.NewLoggingMiddleware(logger)(memory.NewStore()))
	assert.Contains(t, buf.String(), "op=save")
}

func TestChain_Order(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	alphabet, err := domain.ParseAlphabet([]string{"v"})
	require.NoError(t, err)
	store := middleware.Chain(memory.NewStore(),
		middleware.NewLoggingMiddleware(logger),
		middleware.NewAlphabetScope(alphabet),
	)

	// The logging layer is outermost, so it sees the scope rejection.
	err = store.Save(context.Background(), trace([]domain.CanonicalState{"Normal", "Insert"}, "i"))
	assert.True(t, errors.Is(err, domain.ErrUnknownSymbol))
	assert.Contains(t, buf.String(), "level=ERROR")

	require.NoError(t, store.Save(context.Background(), trace([]domain.CanonicalState{"Normal", "Visual"}, "v")))
}

func TestAlphabetScope(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewStore()
	require.NoError(t, inner.Save(ctx, trace([]domain.CanonicalState{"Normal", "Visual"}, "v")))
	require.NoError(t, inner.Save(ctx, trace([]domain.CanonicalState{"Normal", "Insert"}, "i")))

	alphabet, err := domain.ParseAlphabet([]string{"v", "<Esc>"})
	require.NoError(t, err)
	store := middleware.NewAlphabetScope(alphabet)(inner)

	traces, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, traces, 1)
	assert.Equal(t, domain.Word{"v"}, traces[0].Word)

	_, err = store.Load(ctx, domain.Word{"i"})
	assert.True(t, errors.Is(err, domain.ErrObservationNotFound))

	err = store.Save(ctx, trace([]domain.CanonicalState{"Normal", "Insert", "Normal"}, "i", "<Esc>"))
	assert.True(t, errors.Is(err, domain.ErrUnknownSymbol))

	all, err := inner.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2, "foreign words stay in the underlying store")
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	store := middleware.NewLoggingMiddleware(logger)(memory.NewStore())

	_, err := store.Load(context.Background(), domain.Word{"v"})
	assert.True(t, errors.Is(err, domain.ErrObservationNotFound))
	assert.Contains(t, buf.String(), "op=load")
	assert.Contains(t, buf.String(), "hit=false")
	assert.NotContains(t, buf.String(), "level=ERROR", "a miss is not a failure")

	buf.Reset()
	err = store.Save(context.Background(), domain.Trace{Word: domain.Word{"v"}})
	assert.Error(t, err)
	assert.Contains(t, buf.String(), "level=ERROR")
}
