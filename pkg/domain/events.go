package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventSpawn     EventType = "spawn"
	EventTerminate EventType = "terminate"
	EventStep      EventType = "step"
	EventReset     EventType = "reset"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	RunID     string    `json:"run_id,omitempty"`
}

// ProcessEvent represents a spawn or a termination of the editor process.
type ProcessEvent struct {
	EventBase
	Duration time.Duration `json:"duration,omitempty"`
	Err      error         `json:"-"`
}

// StepEvent represents one delivered symbol (or an observation without input).
type StepEvent struct {
	EventBase
	Symbol   Symbol         `json:"symbol"`
	Raw      RawMode        `json:"raw"`
	State    CanonicalState `json:"state,omitempty"`
	Duration time.Duration  `json:"duration"`
	Err      error          `json:"-"`
}

// LifecycleHooks defines callbacks for adapter observability.
// Any hook may be nil.
type LifecycleHooks struct {
	OnSpawn     func(context.Context, *ProcessEvent)
	OnTerminate func(context.Context, *ProcessEvent)
	OnStep      func(context.Context, *StepEvent)
	OnReset     func(context.Context, *ProcessEvent)
}

// Merge returns hooks calling h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnSpawn:     chainProcess(h.OnSpawn, other.OnSpawn),
		OnTerminate: chainProcess(h.OnTerminate, other.OnTerminate),
		OnReset:     chainProcess(h.OnReset, other.OnReset),
		OnStep: func(ctx context.Context, e *StepEvent) {
			if h.OnStep != nil {
				h.OnStep(ctx, e)
			}
			if other.OnStep != nil {
				other.OnStep(ctx, e)
			}
		},
	}
}

func chainProcess(a, b func(context.Context, *ProcessEvent)) func(context.Context, *ProcessEvent) {
	return func(ctx context.Context, e *ProcessEvent) {
		if a != nil {
			a(ctx, e)
		}
		if b != nil {
			b(ctx, e)
		}
	}
}
