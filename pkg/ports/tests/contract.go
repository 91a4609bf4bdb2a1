package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/nvimsul/pkg/domain"
	"github.com/aretw0/nvimsul/pkg/ports"
)

// ResettableSUL is a SUL that can also be reset and closed explicitly.
type ResettableSUL interface {
	ports.SUL
	Reset(ctx context.Context) error
	Close() error
}

// SULContractTest is a reusable test suite that verifies if an adapter complies
// with the query contract: initiality, idempotent teardown and reproducibility.
// word must be a sequence the SUL under test accepts.
func SULContractTest(t *testing.T, sul ResettableSUL, word domain.Word) {
	t.Helper()
	ctx := context.Background()

	// 1. Initiality
	t.Run("Initial State After Reset", func(t *testing.T) {
		if err := sul.Reset(ctx); err != nil {
			t.Fatalf("reset failed: %v", err)
		}
		if err := sul.Pre(ctx); err != nil {
			t.Fatalf("pre failed on fresh instance: %v", err)
		}
		got, err := sul.Step(ctx, domain.NoSymbol)
		if err != nil {
			t.Fatalf("observe failed: %v", err)
		}
		if got != domain.StateNormal {
			t.Errorf("initial state = %q, want %q", got, domain.StateNormal)
		}
	})

	// 2. Pre must fail once input has been observed
	t.Run("Pre Fails Mid Query", func(t *testing.T) {
		if len(word) == 0 {
			t.Skip("no word supplied")
		}
		if _, err := sul.Step(ctx, word[0]); err != nil {
			t.Fatalf("step failed: %v", err)
		}
		if err := sul.Pre(ctx); !errors.Is(err, domain.ErrPrecondition) {
			t.Errorf("expected ErrPrecondition, got %v", err)
		}
	})

	// 3. Idempotent teardown
	t.Run("Post Without Live Process", func(t *testing.T) {
		if err := sul.Close(); err != nil {
			t.Fatalf("close failed: %v", err)
		}
		if err := sul.Close(); err != nil {
			t.Fatalf("second close failed: %v", err)
		}
		if err := sul.Post(ctx); err != nil {
			t.Fatalf("post on closed instance failed: %v", err)
		}
		if err := sul.Pre(ctx); err != nil {
			t.Errorf("instance not usable after post: %v", err)
		}
	})

	// 4. Determinism across fresh instances
	t.Run("Reproducible Outputs", func(t *testing.T) {
		run := func() []domain.CanonicalState {
			if err := sul.Post(ctx); err != nil {
				t.Fatalf("post failed: %v", err)
			}
			out := []domain.CanonicalState{}
			for _, sym := range append(domain.Word{domain.NoSymbol}, word...) {
				s, err := sul.Step(ctx, sym)
				if err != nil {
					t.Fatalf("step %q failed: %v", sym, err)
				}
				out = append(out, s)
			}
			return out
		}
		first, second := run(), run()
		if len(first) != len(second) {
			t.Fatalf("length mismatch: %v vs %v", first, second)
		}
		for i := range first {
			if first[i] != second[i] {
				t.Errorf("output %d differs: %q vs %q", i, first[i], second[i])
			}
		}
	})

	_ = sul.Close()
}
