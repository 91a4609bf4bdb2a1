package cli

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/aretw0/nvimsul/pkg/domain"
)

// CheckOptions configures the determinism check.
type CheckOptions struct {
	// Words are checked first, in order.
	Words []domain.Word
	// Random adds that many random words of length Len drawn with the configured seed.
	Random int
	Len    int
}

// CheckResult counts what RunCheck did.
type CheckResult struct {
	Words    int
	Mismatch *domain.NonDeterminismError
}

// RunCheck runs every word on two independent instances and compares the
// traces. The first disagreement ends the check.
func RunCheck(ctx context.Context, env *Env, opts CheckOptions) (*CheckResult, error) {
	alphabet := env.alphabetOf()
	words := slices.Clone(opts.Words)
	if opts.Random > 0 {
		if opts.Len <= 0 {
			return nil, fmt.Errorf("random word length must be positive, got %d", opts.Len)
		}
		seed := env.Config.Seed
		rng := rand.New(rand.NewPCG(seed, seed))
		for range opts.Random {
			w := make(domain.Word, opts.Len)
			for i := range w {
				w[i] = alphabet.At(rng.IntN(alphabet.Len()))
			}
			words = append(words, w)
		}
	}
	if len(words) == 0 {
		words = append(words, domain.Word{})
	}

	first, err := env.NewSUL()
	if err != nil {
		return nil, err
	}
	defer first.Close()
	second, err := env.NewSUL()
	if err != nil {
		return nil, err
	}
	defer second.Close()

	res := &CheckResult{}
	for _, w := range words {
		a, err := first.Query(ctx, w)
		if err != nil {
			return res, err
		}
		b, err := second.Query(ctx, w)
		if err != nil {
			return res, err
		}
		res.Words++

		if i := firstDifference(a.Outputs, b.Outputs); i >= 0 {
			res.Mismatch = &domain.NonDeterminismError{Word: w[:i], Expected: a.Outputs[i], Got: b.Outputs[i]}
			fmt.Fprintf(env.Out, "MISMATCH %q\n  first:  %v\n  second: %v\n", w.String(), a.Outputs, b.Outputs)
			return res, res.Mismatch
		}
		fmt.Fprintf(env.Out, "ok %q -> %s\n", w.String(), a.Final())
	}
	printSystemMessage(env.Out, "%d words answered identically.", res.Words)
	return res, nil
}

// firstDifference compares outputs of the same word, which have equal length.
func firstDifference(a, b []domain.CanonicalState) int {
	for i := range min(len(a), len(b)) {
		if a[i] != b[i] {
			return i
		}
	}
	return -1
}
