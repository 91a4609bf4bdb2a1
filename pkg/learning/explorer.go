package learning

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/aretw0/nvimsul/internal/logging"
	"github.com/aretw0/nvimsul/pkg/domain"
	"github.com/aretw0/nvimsul/pkg/ports"
)

// ExploreStats summarizes one exploration run.
type ExploreStats struct {
	Rounds    int
	Queries   int
	Conflicts int
}

// Explorer is the built-in "explore" driver. It runs state-prefix random
// walks: every round, for every known state, WalksPerState walks of WalkLen
// random symbols are appended to the state's shortest access word. It stops
// after a round that discovers no new state.
//
// Outputs are mode labels, not machine states, so two walks may disagree on
// the target of the same (label, symbol) pair. The first observation is kept
// and the disagreement is counted.
type Explorer struct {
	logger    *slog.Logger
	maxRounds int
	stats     ExploreStats
}

// ExplorerOption configures an Explorer.
type ExplorerOption func(*Explorer)

// WithExplorerLogger sets the logger.
func WithExplorerLogger(logger *slog.Logger) ExplorerOption {
	return func(e *Explorer) {
		e.logger = logger
	}
}

// WithMaxRounds bounds the number of rounds. Zero means unbounded.
func WithMaxRounds(n int) ExplorerOption {
	return func(e *Explorer) {
		e.maxRounds = n
	}
}

// NewExplorer creates an explorer.
func NewExplorer(opts ...ExplorerOption) *Explorer {
	e := &Explorer{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var _ ports.Driver = (*Explorer)(nil)

// Stats returns the counters of the last run.
func (e *Explorer) Stats() ExploreStats {
	return e.stats
}

// Learn implements ports.Driver.
func (e *Explorer) Learn(ctx context.Context, sul ports.SUL, alphabet domain.Alphabet, params domain.LearnParams) (*domain.Hypothesis, error) {
	if alphabet.Len() == 0 {
		return nil, fmt.Errorf("empty alphabet")
	}
	if params.WalksPerState <= 0 || params.WalkLen <= 0 {
		return nil, fmt.Errorf("walks_per_state and walk_len must be positive")
	}
	e.stats = ExploreStats{}

	// Seeded per run; the global source is never used.
	rng := rand.New(rand.NewPCG(params.Seed, params.Seed))

	initial, err := e.query(ctx, sul, domain.Word{})
	if err != nil {
		return nil, err
	}
	h := domain.NewHypothesis(initial.Outputs[0])

	for {
		if e.maxRounds > 0 && e.stats.Rounds >= e.maxRounds {
			break
		}
		e.stats.Rounds++
		discovered := 0

		for _, state := range h.States() {
			access := h.Access[state]
			for range params.WalksPerState {
				word := access.Append(randomWalk(rng, alphabet, params.WalkLen)...)
				trace, err := e.query(ctx, sul, word)
				if err != nil {
					return nil, err
				}
				discovered += e.record(h, trace)
			}
		}

		e.logger.Info("exploration round finished",
			"round", e.stats.Rounds,
			"states", len(h.Access),
			"discovered", discovered,
			"queries", e.stats.Queries,
		)
		if discovered == 0 {
			break
		}
	}
	return h, nil
}

func (e *Explorer) query(ctx context.Context, sul ports.SUL, word domain.Word) (domain.Trace, error) {
	if err := ctx.Err(); err != nil {
		return domain.Trace{}, err
	}
	e.stats.Queries++
	return Run(ctx, sul, word)
}

func (e *Explorer) record(h *domain.Hypothesis, trace domain.Trace) int {
	discovered := 0
	for i, sym := range trace.Word {
		from, to := trace.Outputs[i], trace.Outputs[i+1]
		if prev, conflict := h.Record(from, sym, to); conflict {
			e.stats.Conflicts++
			e.logger.Debug("label transition disagrees", "from", from, "symbol", sym, "kept", prev, "got", to)
		}
		if h.Discover(to, trace.Word[:i+1]) {
			discovered++
			e.logger.Debug("state discovered", "state", to, "access", trace.Word[:i+1].String())
		}
	}
	return discovered
}

func randomWalk(rng *rand.Rand, alphabet domain.Alphabet, n int) domain.Word {
	w := make(domain.Word, n)
	for i := range w {
		w[i] = alphabet.At(rng.IntN(alphabet.Len()))
	}
	return w
}
