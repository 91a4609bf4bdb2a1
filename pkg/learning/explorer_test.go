package learning_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/nvimsul/pkg/domain"
	"github.com/aretw0/nvimsul/pkg/learning"
)

func smallParams(seed uint64) domain.LearnParams {
	p := domain.DefaultLearnParams()
	p.Algorithm = domain.AlgorithmExplore
	p.WalksPerState = 4
	p.WalkLen = 3
	p.Seed = seed
	return p
}

func TestExplorer_DiscoversModes(t *testing.T) {
	alphabet, err := domain.NewAlphabet(":", "v", "i", "<Esc>")
	require.NoError(t, err)

	params := smallParams(100)
	params.WalksPerState = 30

	explorer := learning.NewExplorer()
	h, err := explorer.Learn(context.Background(), learning.NewCache(newFakeSUL(t)), alphabet, params)
	require.NoError(t, err)

	assert.Equal(t, domain.StateNormal, h.Initial)
	assert.Contains(t, h.States(), domain.CanonicalState("Visual"))
	assert.Contains(t, h.States(), domain.CanonicalState("Insert"))
	assert.Contains(t, h.States(), domain.CanonicalState("Command-line editing"))

	to, ok := h.Next(domain.StateNormal, "v")
	if ok {
		assert.Equal(t, domain.CanonicalState("Visual"), to)
	}
	for state, access := range h.Access {
		if state == h.Initial {
			assert.Empty(t, access)
		} else {
			assert.NotEmpty(t, access)
		}
	}
	assert.GreaterOrEqual(t, explorer.Stats().Rounds, 1)
}

func TestExplorer_SeedIsReproducible(t *testing.T) {
	alphabet := domain.DefaultAlphabet()
	run := func(seed uint64) []domain.Transition {
		h, err := learning.NewExplorer().Learn(context.Background(), newFakeSUL(t), alphabet, smallParams(seed))
		require.NoError(t, err)
		return h.Transitions()
	}
	assert.Equal(t, run(7), run(7))
}

func TestExplorer_MaxRounds(t *testing.T) {
	explorer := learning.NewExplorer(learning.WithMaxRounds(1))
	_, err := explorer.Learn(context.Background(), newFakeSUL(t), domain.DefaultAlphabet(), smallParams(1))
	require.NoError(t, err)
	assert.Equal(t, 1, explorer.Stats().Rounds)
}

func TestExplorer_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := learning.NewExplorer().Learn(ctx, newFakeSUL(t), domain.DefaultAlphabet(), smallParams(1))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExplorer_RejectsBadParams(t *testing.T) {
	p := smallParams(1)
	p.WalkLen = 0
	_, err := learning.NewExplorer().Learn(context.Background(), newFakeSUL(t), domain.DefaultAlphabet(), p)
	assert.Error(t, err)
}
