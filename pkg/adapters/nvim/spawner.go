// Package nvim connects the adapter to a real Neovim over msgpack-RPC.
package nvim

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/neovim/go-client/nvim"

	"github.com/aretw0/nvimsul/internal/logging"
	"github.com/aretw0/nvimsul/pkg/ports"
)

const (
	// DefaultCommand is looked up on PATH.
	DefaultCommand = "nvim"
	// DefaultTimeout bounds every RPC call, the handshake included.
	DefaultTimeout = 5 * time.Second
)

// BaseArgs start an editor with no user config, no shada and no swap file,
// embedded and headless.
var BaseArgs = []string{"-u", "NONE", "-i", "NONE", "-n", "--embed", "--headless"}

// Spawner starts headless Neovim child processes.
type Spawner struct {
	command string
	timeout time.Duration
	logger  *slog.Logger
	env     []string
}

var _ ports.Spawner = (*Spawner)(nil)

// Option configures a Spawner.
type Option func(*Spawner)

// WithCommand overrides the editor executable.
func WithCommand(cmd string) Option {
	return func(s *Spawner) {
		if cmd != "" {
			s.command = cmd
		}
	}
}

// WithTimeout overrides the per-call RPC deadline.
func WithTimeout(d time.Duration) Option {
	return func(s *Spawner) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLogger sets the logger. RPC client diagnostics are logged at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Spawner) {
		s.logger = logger
	}
}

// WithEnv sets the child environment. The parent environment is used otherwise.
func WithEnv(env []string) Option {
	return func(s *Spawner) {
		s.env = env
	}
}

// NewSpawner creates a spawner for the given options.
func NewSpawner(opts ...Option) *Spawner {
	s := &Spawner{
		command: DefaultCommand,
		timeout: DefaultTimeout,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Spawn starts one process editing target and waits for the RPC handshake.
// The process outlives ctx; it ends on Editor.Close.
func (s *Spawner) Spawn(ctx context.Context, target string) (ports.Editor, error) {
	procCtx, kill := context.WithCancel(context.Background())

	args := append(append([]string{}, BaseArgs...), target)
	copts := []nvim.ChildProcessOption{
		nvim.ChildProcessCommand(s.command),
		nvim.ChildProcessArgs(args...),
		nvim.ChildProcessContext(procCtx),
		nvim.ChildProcessDir(filepath.Dir(target)),
		nvim.ChildProcessLogf(func(format string, a ...interface{}) {
			s.logger.Debug(fmt.Sprintf(format, a...), "component", "nvim-rpc")
		}),
	}
	if s.env != nil {
		copts = append(copts, nvim.ChildProcessEnv(s.env))
	}

	v, err := nvim.NewChildProcess(copts...)
	if err != nil {
		kill()
		return nil, fmt.Errorf("start %s: %w", s.command, err)
	}

	e := &Editor{v: v, kill: kill, timeout: s.timeout, logger: s.logger}
	if err := e.handshake(ctx); err != nil {
		_ = e.Close()
		return nil, err
	}
	return e, nil
}
