package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/nvimsul/internal/logging"
	"github.com/aretw0/nvimsul/pkg/domain"
	"github.com/aretw0/nvimsul/pkg/ports"
	"github.com/aretw0/nvimsul/pkg/profile"
)

// DefaultTargetName is the throwaway file every instance edits.
const DefaultTargetName = "DeleteMeNvimSULFile.txt"

// Lifecycle owns at most one live editor process.
// It spawns, configures and tears it down; it never shares it.
type Lifecycle struct {
	spawner    ports.Spawner
	profile    *profile.Profile
	logger     *slog.Logger
	hooks      domain.LifecycleHooks
	targetName string
	runID      string

	editor ports.Editor
	dir    string
}

// LifecycleOption configures a Lifecycle.
type LifecycleOption func(*Lifecycle)

// WithLifecycleLogger sets the logger.
func WithLifecycleLogger(logger *slog.Logger) LifecycleOption {
	return func(l *Lifecycle) {
		l.logger = logger
	}
}

// WithLifecycleHooks registers spawn/terminate hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) LifecycleOption {
	return func(l *Lifecycle) {
		l.hooks = hooks
	}
}

// WithTargetName overrides the throwaway file name.
func WithTargetName(name string) LifecycleOption {
	return func(l *Lifecycle) {
		l.targetName = name
	}
}

// WithRunID tags events with a run identifier.
func WithRunID(id string) LifecycleOption {
	return func(l *Lifecycle) {
		l.runID = id
	}
}

// NewLifecycle creates a manager with no live process.
// A nil profile means the default profile.
func NewLifecycle(spawner ports.Spawner, prof *profile.Profile, opts ...LifecycleOption) *Lifecycle {
	if prof == nil {
		prof = profile.Default()
	}
	l := &Lifecycle{
		spawner:    spawner,
		profile:    prof,
		logger:     logging.NewNop(),
		targetName: DefaultTargetName,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Live reports whether a process is running.
func (l *Lifecycle) Live() bool {
	return l.editor != nil
}

// Editor returns the live editor, or nil.
func (l *Lifecycle) Editor() ports.Editor {
	return l.editor
}

// Target returns the path of the throwaway file of the live process.
func (l *Lifecycle) Target() string {
	if l.dir == "" {
		return ""
	}
	return filepath.Join(l.dir, l.targetName)
}

// Spawn starts one fresh process and applies the profile to it.
// On any failure nothing is left running.
func (l *Lifecycle) Spawn(ctx context.Context) error {
	if l.editor != nil {
		return fmt.Errorf("%w: a process is already running", domain.ErrLifecycle)
	}

	// Each instance gets its own directory so writes never touch real files.
	dir, err := os.MkdirTemp("", "nvimsul-*")
	if err != nil {
		return fmt.Errorf("%w: create work dir: %w", domain.ErrLifecycle, err)
	}
	target := filepath.Join(dir, l.targetName)

	start := time.Now()
	editor, err := l.spawner.Spawn(ctx, target)
	if err != nil {
		_ = os.RemoveAll(dir)
		l.emitSpawn(ctx, start, err)
		return lifecycleErr("spawn", err)
	}

	if err := l.profile.Apply(ctx, editor); err != nil {
		_ = editor.Close()
		_ = os.RemoveAll(dir)
		l.emitSpawn(ctx, start, err)
		return lifecycleErr("apply profile", err)
	}

	l.editor = editor
	l.dir = dir
	l.emitSpawn(ctx, start, nil)
	l.logger.Debug("editor spawned", "target", target, "duration", time.Since(start))
	return nil
}

// Terminate closes the live process. It is a no-op when nothing is running.
func (l *Lifecycle) Terminate(ctx context.Context) error {
	if l.editor == nil {
		return nil
	}
	start := time.Now()
	err := l.editor.Close()
	if rmErr := os.RemoveAll(l.dir); rmErr != nil {
		l.logger.Warn("failed to remove work dir", "dir", l.dir, "error", rmErr)
	}
	l.editor = nil
	l.dir = ""

	if l.hooks.OnTerminate != nil {
		l.hooks.OnTerminate(ctx, &domain.ProcessEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventTerminate, RunID: l.runID},
			Duration:  time.Since(start),
			Err:       err,
		})
	}
	if err != nil {
		return lifecycleErr("terminate", err)
	}
	l.logger.Debug("editor terminated")
	return nil
}

// Reset terminates any live process and spawns a fresh, configured one.
func (l *Lifecycle) Reset(ctx context.Context) error {
	if err := l.Terminate(ctx); err != nil {
		// The process is gone either way; a failed close must not block the respawn.
		l.logger.Warn("terminate before reset failed", "error", err)
	}
	return l.Spawn(ctx)
}

func (l *Lifecycle) emitSpawn(ctx context.Context, start time.Time, err error) {
	if l.hooks.OnSpawn == nil {
		return
	}
	l.hooks.OnSpawn(ctx, &domain.ProcessEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventSpawn, RunID: l.runID},
		Duration:  time.Since(start),
		Err:       err,
	})
}

func lifecycleErr(op string, err error) error {
	if errors.Is(err, domain.ErrLifecycle) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrLifecycle, err)
}
