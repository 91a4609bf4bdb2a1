package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aretw0/nvimsul/pkg/domain"
	"github.com/aretw0/nvimsul/pkg/ports"
)

type loggingMiddleware struct {
	next   ports.ObservationStore
	logger *slog.Logger
}

// NewLoggingMiddleware logs every store operation at debug level and every
// failure (other than a miss) at error level.
func NewLoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next ports.ObservationStore) ports.ObservationStore {
		return &loggingMiddleware{next: next, logger: logger}
	}
}

func (m *loggingMiddleware) log(ctx context.Context, op string, start time.Time, err error, args ...any) {
	args = append(args, "op", op, "duration", time.Since(start))
	if err != nil && !errors.Is(err, domain.ErrObservationNotFound) {
		m.logger.ErrorContext(ctx, "store operation failed", append(args, "err", err)...)
		return
	}
	m.logger.DebugContext(ctx, "store operation", args...)
}

func (m *loggingMiddleware) Save(ctx context.Context, trace domain.Trace) error {
	start := time.Now()
	err := m.next.Save(ctx, trace)
	m.log(ctx, "save", start, err, "word", trace.Word.String())
	return err
}

func (m *loggingMiddleware) Load(ctx context.Context, word domain.Word) (domain.Trace, error) {
	start := time.Now()
	t, err := m.next.Load(ctx, word)
	m.log(ctx, "load", start, err, "word", word.String(), "hit", err == nil)
	return t, err
}

func (m *loggingMiddleware) Delete(ctx context.Context, word domain.Word) error {
	start := time.Now()
	err := m.next.Delete(ctx, word)
	m.log(ctx, "delete", start, err, "word", word.String())
	return err
}

func (m *loggingMiddleware) List(ctx context.Context) ([]domain.Trace, error) {
	start := time.Now()
	traces, err := m.next.List(ctx)
	m.log(ctx, "list", start, err, "count", len(traces))
	return traces, err
}
