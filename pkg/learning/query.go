// Package learning holds the collaborators a learning run needs around the SUL:
// a query cache with non-determinism detection, a seeded exploration driver,
// the driver registry and artifact naming.
package learning

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/nvimsul/pkg/domain"
	"github.com/aretw0/nvimsul/pkg/ports"
)

// Querier answers whole membership queries.
type Querier interface {
	Query(ctx context.Context, word domain.Word) (domain.Trace, error)
}

// Run executes one membership query through the SUL protocol:
// pre, step(none), one step per symbol, post. Post runs even when a step
// fails so the SUL is left ready for the next query.
func Run(ctx context.Context, sul ports.SUL, word domain.Word) (domain.Trace, error) {
	if q, ok := sul.(Querier); ok {
		return q.Query(ctx, word)
	}
	trace, err := steps(ctx, sul, word)
	if postErr := sul.Post(ctx); postErr != nil {
		err = errors.Join(err, postErr)
	}
	if err != nil {
		return domain.Trace{}, fmt.Errorf("query %q: %w", word.String(), err)
	}
	return trace, nil
}

func steps(ctx context.Context, sul ports.SUL, word domain.Word) (domain.Trace, error) {
	if err := sul.Pre(ctx); err != nil {
		return domain.Trace{}, err
	}
	outputs := make([]domain.CanonicalState, 0, len(word)+1)
	for _, sym := range append(domain.Word{domain.NoSymbol}, word...) {
		if err := ctx.Err(); err != nil {
			return domain.Trace{}, err
		}
		s, err := sul.Step(ctx, sym)
		if err != nil {
			return domain.Trace{}, err
		}
		outputs = append(outputs, s)
	}
	return domain.Trace{Word: word, Outputs: outputs}, nil
}
