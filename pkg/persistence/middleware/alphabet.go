package middleware

import (
	"context"
	"fmt"

	"github.com/aretw0/nvimsul/pkg/domain"
	"github.com/aretw0/nvimsul/pkg/ports"
)

type alphabetMiddleware struct {
	next     ports.ObservationStore
	alphabet domain.Alphabet
}

// NewAlphabetScope restricts a store shared between runs to the words of one
// alphabet. Saving a foreign word fails; List hides foreign words, so a cache
// warmed from the store never holds answers the current run could not ask.
func NewAlphabetScope(alphabet domain.Alphabet) Middleware {
	return func(next ports.ObservationStore) ports.ObservationStore {
		return &alphabetMiddleware{next: next, alphabet: alphabet}
	}
}

func (m *alphabetMiddleware) within(w domain.Word) (domain.Symbol, bool) {
	for _, s := range w {
		if !m.alphabet.Contains(s) {
			return s, false
		}
	}
	return "", true
}

func (m *alphabetMiddleware) Save(ctx context.Context, trace domain.Trace) error {
	if s, ok := m.within(trace.Word); !ok {
		return fmt.Errorf("%w: %q in stored word %q", domain.ErrUnknownSymbol, s, trace.Word.String())
	}
	return m.next.Save(ctx, trace)
}

func (m *alphabetMiddleware) Load(ctx context.Context, word domain.Word) (domain.Trace, error) {
	if _, ok := m.within(word); !ok {
		return domain.Trace{}, domain.ErrObservationNotFound
	}
	return m.next.Load(ctx, word)
}

func (m *alphabetMiddleware) Delete(ctx context.Context, word domain.Word) error {
	return m.next.Delete(ctx, word)
}

func (m *alphabetMiddleware) List(ctx context.Context) ([]domain.Trace, error) {
	traces, err := m.next.List(ctx)
	if err != nil {
		return nil, err
	}
	out := traces[:0]
	for _, t := range traces {
		if _, ok := m.within(t.Word); ok {
			out = append(out, t)
		}
	}
	return out, nil
}
