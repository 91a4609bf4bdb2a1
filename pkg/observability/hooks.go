package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/nvimsul/pkg/domain"
)

// LoggingHooks logs every lifecycle event at debug level and every failure
// at warn level.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	process := func(msg string) func(context.Context, *domain.ProcessEvent) {
		return func(ctx context.Context, e *domain.ProcessEvent) {
			if e.Err != nil {
				logger.WarnContext(ctx, msg+" failed", "run_id", e.RunID, "duration", e.Duration, "err", e.Err)
				return
			}
			logger.DebugContext(ctx, msg, "run_id", e.RunID, "duration", e.Duration)
		}
	}

	return domain.LifecycleHooks{
		OnSpawn:     process("spawn"),
		OnTerminate: process("terminate"),
		OnReset:     process("reset"),
		OnStep: func(ctx context.Context, e *domain.StepEvent) {
			if e.Err != nil {
				// Classification failures land here too: the raw mode is kept for diagnosis.
				logger.WarnContext(ctx, "step failed",
					"run_id", e.RunID, "symbol", e.Symbol, "mode", e.Raw.Mode, "blocking", e.Raw.Blocking, "err", e.Err)
				return
			}
			logger.DebugContext(ctx, "step", "run_id", e.RunID, "symbol", e.Symbol, "state", e.State, "duration", e.Duration)
		},
	}
}
