package ports_test

import (
	"context"
	"testing"

	"github.com/aretw0/nvimsul/pkg/domain"
	"github.com/aretw0/nvimsul/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriverFunc(t *testing.T) {
	called := false
	var d ports.Driver = ports.DriverFunc(func(ctx context.Context, sul ports.SUL, a domain.Alphabet, p domain.LearnParams) (*domain.Hypothesis, error) {
		called = true
		assert.Equal(t, 14, a.Len())
		assert.Equal(t, "KV", p.Algorithm)
		return domain.NewHypothesis(domain.StateNormal), nil
	})

	h, err := d.Learn(context.Background(), nil, domain.DefaultAlphabet(), domain.DefaultLearnParams())
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, domain.StateNormal, h.Initial)
}
