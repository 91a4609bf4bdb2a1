package observability_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/nvimsul/pkg/domain"
	"github.com/aretw0/nvimsul/pkg/observability"
)

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	hooks := observability.LoggingHooks(logger)
	ctx := context.Background()

	hooks.OnSpawn(ctx, &domain.ProcessEvent{EventBase: domain.EventBase{RunID: "r1"}, Duration: time.Millisecond})
	hooks.OnStep(ctx, &domain.StepEvent{Symbol: "v", State: "Visual"})
	hooks.OnStep(ctx, &domain.StepEvent{
		Symbol: "x",
		Raw:    domain.RawMode{Mode: "zz"},
		Err:    &domain.ClassificationError{Raw: domain.RawMode{Mode: "zz"}},
	})
	hooks.OnReset(ctx, &domain.ProcessEvent{Err: errors.New("spawn failed")})

	out := buf.String()
	assert.Contains(t, out, "msg=spawn")
	assert.Contains(t, out, "duration=1ms")
	assert.NotContains(t, out, "pid=", "no process id is known to the hooks")
	assert.Contains(t, out, "run_id=r1")
	assert.Contains(t, out, "state=Visual")
	assert.Contains(t, out, `msg="step failed"`)
	assert.Contains(t, out, "mode=zz")
	assert.Contains(t, out, `msg="reset failed"`)
}

func TestLoggingHooks_Merge(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	steps := 0
	hooks := observability.LoggingHooks(logger).Merge(domain.LifecycleHooks{
		OnStep: func(context.Context, *domain.StepEvent) { steps++ },
	})
	hooks.OnStep(context.Background(), &domain.StepEvent{Symbol: "i", State: "Insert"})
	hooks.OnTerminate(context.Background(), &domain.ProcessEvent{})

	assert.Equal(t, 1, steps)
	assert.Contains(t, buf.String(), "state=Insert")
	assert.Contains(t, buf.String(), "msg=terminate")
}
