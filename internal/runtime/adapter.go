package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/nvimsul/internal/logging"
	"github.com/aretw0/nvimsul/pkg/classifier"
	"github.com/aretw0/nvimsul/pkg/domain"
	"github.com/aretw0/nvimsul/pkg/ports"
)

// Classifier maps a raw mode to a canonical state.
type Classifier func(domain.RawMode) (domain.CanonicalState, error)

// Adapter exposes one editor process as a system under learning.
//
// Status transitions: Reset and Post move any status to ready, Step moves
// ready/mid_query to mid_query, Close moves any status to uninitialized.
type Adapter struct {
	mu  sync.Mutex
	qmu sync.Mutex // serializes whole queries

	lifecycle *Lifecycle
	alphabet  *domain.Alphabet
	classify  Classifier
	status    domain.AdapterStatus
	logger    *slog.Logger
	hooks     domain.LifecycleHooks
	runID     string
}

var _ ports.SUL = (*Adapter)(nil)

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithAlphabet restricts Step to the symbols of a.
func WithAlphabet(a domain.Alphabet) AdapterOption {
	return func(ad *Adapter) {
		ad.alphabet = &a
	}
}

// WithClassifier replaces the table classifier.
func WithClassifier(c Classifier) AdapterOption {
	return func(ad *Adapter) {
		ad.classify = c
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) AdapterOption {
	return func(ad *Adapter) {
		ad.logger = logger
	}
}

// WithHooks registers step and reset hooks.
func WithHooks(hooks domain.LifecycleHooks) AdapterOption {
	return func(ad *Adapter) {
		ad.hooks = hooks
	}
}

// WithAdapterRunID tags events with a run identifier.
func WithAdapterRunID(id string) AdapterOption {
	return func(ad *Adapter) {
		ad.runID = id
	}
}

// NewAdapter wraps a lifecycle manager. No process is spawned until Reset.
func NewAdapter(lc *Lifecycle, opts ...AdapterOption) *Adapter {
	a := &Adapter{
		lifecycle: lc,
		classify:  classifier.Classify,
		status:    domain.StatusUninitialized,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Status returns the current lifecycle status.
func (a *Adapter) Status() domain.AdapterStatus {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

// Reset replaces the process with a fresh, configured one. It waits for an
// in-flight Query to finish.
func (a *Adapter) Reset(ctx context.Context) error {
	a.qmu.Lock()
	defer a.qmu.Unlock()
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.reset(ctx)
}

func (a *Adapter) reset(ctx context.Context) error {
	start := time.Now()
	err := a.lifecycle.Reset(ctx)
	if a.hooks.OnReset != nil {
		a.hooks.OnReset(ctx, &domain.ProcessEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventReset, RunID: a.runID},
			Duration:  time.Since(start),
			Err:       err,
		})
	}
	if err != nil {
		a.status = domain.StatusUninitialized
		return err
	}
	a.status = domain.StatusReady
	return nil
}

// Pre asserts that the instance is freshly reset and reports normal mode.
func (a *Adapter) Pre(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.status != domain.StatusReady {
		return fmt.Errorf("%w: status is %s, want %s", domain.ErrPrecondition, a.status, domain.StatusReady)
	}
	raw, err := a.lifecycle.Editor().Mode(ctx)
	if err != nil {
		return lifecycleErr("get mode", err)
	}
	if raw.Mode != domain.InitialModeCode {
		return fmt.Errorf("%w: fresh instance reports mode %q, want %q", domain.ErrPrecondition, raw.Mode, domain.InitialModeCode)
	}
	return nil
}

// Step delivers sym (unless it is domain.NoSymbol) and classifies the mode
// observed afterwards.
func (a *Adapter) Step(ctx context.Context, sym domain.Symbol) (domain.CanonicalState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.status == domain.StatusUninitialized {
		return "", fmt.Errorf("%w: step on an uninitialized instance", domain.ErrPrecondition)
	}
	if sym != domain.NoSymbol && a.alphabet != nil && !a.alphabet.Contains(sym) {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownSymbol, sym)
	}

	start := time.Now()
	raw, state, err := a.step(ctx, sym)
	if a.hooks.OnStep != nil {
		a.hooks.OnStep(ctx, &domain.StepEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventStep, RunID: a.runID},
			Symbol:    sym,
			Raw:       raw,
			State:     state,
			Duration:  time.Since(start),
			Err:       err,
		})
	}
	if err != nil {
		a.logger.Error("step failed", "symbol", sym, "error", err)
		if errors.Is(err, domain.ErrLifecycle) {
			// The process is dead or wedged; only a reset can bring it back.
			if termErr := a.lifecycle.Terminate(ctx); termErr != nil {
				a.logger.Warn("terminate after failed step", "error", termErr)
			}
			a.status = domain.StatusUninitialized
		}
		return "", err
	}

	a.status = domain.StatusMidQuery
	a.logger.Debug("step", "symbol", sym, "mode", raw.Mode, "blocking", raw.Blocking, "state", state)
	return state, nil
}

func (a *Adapter) step(ctx context.Context, sym domain.Symbol) (domain.RawMode, domain.CanonicalState, error) {
	editor := a.lifecycle.Editor()
	if sym != domain.NoSymbol {
		if err := editor.Input(ctx, string(sym)); err != nil {
			return domain.RawMode{}, "", lifecycleErr(fmt.Sprintf("input %q", sym), err)
		}
	}
	raw, err := editor.Mode(ctx)
	if err != nil {
		return domain.RawMode{}, "", lifecycleErr("get mode", err)
	}
	state, err := a.classify(raw)
	if err != nil {
		return raw, "", fmt.Errorf("after %q: %w", sym, err)
	}
	return raw, state, nil
}

// Post ends a query by rebuilding the process. The editor offers no lighter
// way back to a pristine state.
func (a *Adapter) Post(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.reset(ctx)
}

// Close terminates the process without respawning it. It waits for an
// in-flight Query to finish.
func (a *Adapter) Close() error {
	a.qmu.Lock()
	defer a.qmu.Unlock()
	a.mu.Lock()
	defer a.mu.Unlock()
	a.status = domain.StatusUninitialized
	return a.lifecycle.Terminate(context.Background())
}

// Query runs one membership query: pre, observe, one step per symbol, post.
// The instance is rebuilt even when a step fails; the failure is still returned.
func (a *Adapter) Query(ctx context.Context, word domain.Word) (domain.Trace, error) {
	a.qmu.Lock()
	defer a.qmu.Unlock()

	a.mu.Lock()
	var err error
	if a.status == domain.StatusUninitialized {
		err = a.reset(ctx)
	}
	a.mu.Unlock()
	if err != nil {
		return domain.Trace{}, err
	}

	trace, err := a.run(ctx, word)
	if postErr := a.Post(ctx); postErr != nil {
		err = errors.Join(err, postErr)
	}
	if err != nil {
		return domain.Trace{}, fmt.Errorf("query %q: %w", word.String(), err)
	}
	return trace, nil
}

func (a *Adapter) run(ctx context.Context, word domain.Word) (domain.Trace, error) {
	if err := a.Pre(ctx); err != nil {
		return domain.Trace{}, err
	}
	trace := domain.Trace{Word: word, Outputs: make([]domain.CanonicalState, 0, len(word)+1)}
	initial, err := a.Step(ctx, domain.NoSymbol)
	if err != nil {
		return domain.Trace{}, err
	}
	trace.Outputs = append(trace.Outputs, initial)
	for _, sym := range word {
		s, err := a.Step(ctx, sym)
		if err != nil {
			return domain.Trace{}, err
		}
		trace.Outputs = append(trace.Outputs, s)
	}
	return trace, nil
}
