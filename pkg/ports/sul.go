package ports

import (
	"context"

	"github.com/aretw0/nvimsul/pkg/domain"
)

// SUL is the query interface an active-learning driver requires.
type SUL interface {
	// Pre asserts the instance is freshly reset and in its initial mode.
	Pre(ctx context.Context) error

	// Step delivers sym (unless it is domain.NoSymbol) and returns the
	// classified mode observed afterwards.
	Step(ctx context.Context, sym domain.Symbol) (domain.CanonicalState, error)

	// Post ends a query. It fully rebuilds the instance.
	Post(ctx context.Context) error
}

// Driver is an active-learning algorithm run against a SUL.
type Driver interface {
	Learn(ctx context.Context, sul SUL, alphabet domain.Alphabet, params domain.LearnParams) (*domain.Hypothesis, error)
}

// DriverFunc adapts a function to the Driver interface.
type DriverFunc func(ctx context.Context, sul SUL, alphabet domain.Alphabet, params domain.LearnParams) (*domain.Hypothesis, error)

// Learn implements Driver.
func (f DriverFunc) Learn(ctx context.Context, sul SUL, alphabet domain.Alphabet, params domain.LearnParams) (*domain.Hypothesis, error) {
	return f(ctx, sul, alphabet, params)
}
