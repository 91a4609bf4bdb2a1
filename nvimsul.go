package nvimsul

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/nvimsul/internal/logging"
	"github.com/aretw0/nvimsul/internal/runtime"
	"github.com/aretw0/nvimsul/pkg/adapters/nvim"
	"github.com/aretw0/nvimsul/pkg/domain"
	"github.com/aretw0/nvimsul/pkg/ports"
	"github.com/aretw0/nvimsul/pkg/profile"
)

// Version is the release of this module.
//
//go:embed VERSION
var Version string

// SUL is a Neovim instance exposed as a system under learning.
// It owns at most one editor process at a time.
type SUL struct {
	adapter  *runtime.Adapter
	alphabet domain.Alphabet
	profile  *profile.Profile
	logger   *slog.Logger
}

var _ ports.SUL = (*SUL)(nil)

type settings struct {
	spawner    ports.Spawner
	command    string
	timeout    time.Duration
	env        []string
	logger     *slog.Logger
	hooks      domain.LifecycleHooks
	profile    *profile.Profile
	alphabet   domain.Alphabet
	targetName string
	runID      string
}

// Option defines a functional option for configuring the SUL.
type Option func(*settings)

// WithSpawner replaces the Neovim child-process spawner.
// Command, timeout and environment options are ignored when it is set.
func WithSpawner(s ports.Spawner) Option {
	return func(c *settings) {
		c.spawner = s
	}
}

// WithCommand sets the Neovim executable (default "nvim" from PATH).
func WithCommand(cmd string) Option {
	return func(c *settings) {
		c.command = cmd
	}
}

// WithTimeout bounds every RPC call made to the editor.
func WithTimeout(d time.Duration) Option {
	return func(c *settings) {
		c.timeout = d
	}
}

// WithEnv sets extra environment variables for the editor process.
func WithEnv(env []string) Option {
	return func(c *settings) {
		c.env = env
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *settings) {
		c.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *settings) {
		c.hooks = hooks
	}
}

// WithProfile replaces the default configuration profile.
func WithProfile(p *profile.Profile) Option {
	return func(c *settings) {
		c.profile = p
	}
}

// WithAlphabet restricts the accepted symbols (default: domain.DefaultAlphabet).
func WithAlphabet(a domain.Alphabet) Option {
	return func(c *settings) {
		c.alphabet = a
	}
}

// WithTargetName overrides the name of the throwaway file every instance edits.
func WithTargetName(name string) Option {
	return func(c *settings) {
		c.targetName = name
	}
}

// WithRunID tags logs and events with a run identifier.
func WithRunID(id string) Option {
	return func(c *settings) {
		c.runID = id
	}
}

// New composes a SUL. No process is started until the first Reset or Query.
func New(opts ...Option) (*SUL, error) {
	s := &settings{
		command: nvim.DefaultCommand,
		timeout: nvim.DefaultTimeout,
		logger:  logging.NewNop(),
		profile: profile.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.profile == nil {
		s.profile = profile.Default()
	}
	if err := s.profile.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile: %w", err)
	}
	if s.alphabet.Len() == 0 {
		s.alphabet = domain.DefaultAlphabet()
	}
	if s.runID != "" {
		s.logger = s.logger.With("run_id", s.runID)
	}

	spawner := s.spawner
	if spawner == nil {
		spawner = nvim.NewSpawner(
			nvim.WithCommand(s.command),
			nvim.WithTimeout(s.timeout),
			nvim.WithEnv(s.env),
			nvim.WithLogger(s.logger),
		)
	}

	lcOpts := []runtime.LifecycleOption{
		runtime.WithLifecycleLogger(s.logger),
		runtime.WithLifecycleHooks(s.hooks),
		runtime.WithRunID(s.runID),
	}
	if s.targetName != "" {
		lcOpts = append(lcOpts, runtime.WithTargetName(s.targetName))
	}
	lc := runtime.NewLifecycle(spawner, s.profile, lcOpts...)

	adapter := runtime.NewAdapter(lc,
		runtime.WithAlphabet(s.alphabet),
		runtime.WithLogger(s.logger),
		runtime.WithHooks(s.hooks),
		runtime.WithAdapterRunID(s.runID),
	)

	return &SUL{
		adapter:  adapter,
		alphabet: s.alphabet,
		profile:  s.profile,
		logger:   s.logger,
	}, nil
}

// Alphabet returns the accepted input symbols.
func (s *SUL) Alphabet() domain.Alphabet {
	return s.alphabet
}

// Profile returns a copy of the effective configuration profile.
func (s *SUL) Profile() *profile.Profile {
	return s.profile.Clone()
}

// Status returns the lifecycle status of the instance.
func (s *SUL) Status() domain.AdapterStatus {
	return s.adapter.Status()
}

// Reset replaces the running process (if any) with a fresh, configured one.
func (s *SUL) Reset(ctx context.Context) error {
	return s.adapter.Reset(ctx)
}

// Pre asserts the instance is freshly reset and in normal mode.
func (s *SUL) Pre(ctx context.Context) error {
	return s.adapter.Pre(ctx)
}

// Step delivers sym and returns the canonical state observed afterwards.
// domain.NoSymbol observes without sending input.
func (s *SUL) Step(ctx context.Context, sym domain.Symbol) (domain.CanonicalState, error) {
	return s.adapter.Step(ctx, sym)
}

// Post ends a query by rebuilding the process.
func (s *SUL) Post(ctx context.Context) error {
	return s.adapter.Post(ctx)
}

// Query runs one full membership query and returns its trace.
func (s *SUL) Query(ctx context.Context, word domain.Word) (domain.Trace, error) {
	return s.adapter.Query(ctx, word)
}

// Close terminates the process for good. It is safe to call more than once.
func (s *SUL) Close() error {
	return s.adapter.Close()
}
