package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/nvimsul"
	"github.com/aretw0/nvimsul/internal/config"
	"github.com/aretw0/nvimsul/internal/logging"
	"github.com/aretw0/nvimsul/internal/metrics"
	"github.com/aretw0/nvimsul/pkg/adapters/memory"
	"github.com/aretw0/nvimsul/pkg/adapters/redis"
	"github.com/aretw0/nvimsul/pkg/domain"
	"github.com/aretw0/nvimsul/pkg/observability"
	"github.com/aretw0/nvimsul/pkg/persistence/middleware"
	"github.com/aretw0/nvimsul/pkg/ports"
	"github.com/aretw0/nvimsul/pkg/profile"
)

// Env carries what every command needs: configuration, logging, metrics and
// a way to build SUL instances.
type Env struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *metrics.Collectors
	RunID   string
	Out     io.Writer

	// Spawner overrides the Neovim spawner; nil spawns real processes.
	Spawner ports.Spawner

	base    *slog.Logger
	closers []func() error
}

// Setup builds the environment of one command invocation.
func Setup(cfg *config.Config, out io.Writer) (*Env, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger, closeLog, err := logging.NewWithOptions(logging.Options{
		Level:  level,
		Stderr: true,
		File:   cfg.LogFile,
	})
	if err != nil {
		return nil, err
	}

	runID := NewRunID()
	env := &Env{
		Config:  cfg,
		Logger:  logger.With("run_id", runID),
		Metrics: metrics.New(),
		RunID:   runID,
		Out:     out,
		base:    logger,
		closers: []func() error{closeLog},
	}
	if env.Out == nil {
		env.Out = os.Stdout
	}
	if cfg.File != "" {
		env.Logger.Debug("Loaded config file", "path", cfg.File)
	}
	return env, nil
}

// Close releases everything opened by the environment, in reverse order.
func (e *Env) Close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	e.closers = nil
	return errors.Join(errs...)
}

// Profile returns the default profile extended with the configured patch.
func (e *Env) Profile() (*profile.Profile, error) {
	return profile.Load(e.Config.Profile)
}

// NewSUL builds a SUL from the configuration. Metrics and debug hooks are
// always attached.
func (e *Env) NewSUL(extra ...nvimsul.Option) (*nvimsul.SUL, error) {
	prof, err := e.Profile()
	if err != nil {
		return nil, err
	}
	alphabet, err := e.Config.ParsedAlphabet()
	if err != nil {
		return nil, err
	}

	opts := []nvimsul.Option{
		nvimsul.WithCommand(e.Config.NvimCommand),
		nvimsul.WithTimeout(e.Config.RPCTimeout),
		nvimsul.WithProfile(prof),
		nvimsul.WithAlphabet(alphabet),
		nvimsul.WithLogger(e.base),
		nvimsul.WithRunID(e.RunID),
		nvimsul.WithLifecycleHooks(e.Metrics.Hooks().Merge(observability.LoggingHooks(e.base))),
	}
	if e.Spawner != nil {
		opts = append(opts, nvimsul.WithSpawner(e.Spawner))
	}
	return nvimsul.New(append(opts, extra...)...)
}

// lockTTL bounds how long a crashed run can keep the store locked.
const lockTTL = time.Hour

// OpenStore returns the configured observation store, or nil for "none".
// For Redis, the returned unlock func releases the run lock held on the
// store prefix; it is nil for the other backends.
func (e *Env) OpenStore(ctx context.Context) (ports.ObservationStore, ports.UnlockFunc, error) {
	store, unlock, err := e.openBackend(ctx)
	if err != nil || store == nil {
		return nil, nil, err
	}
	return middleware.Chain(store,
		middleware.NewLoggingMiddleware(e.Logger),
		middleware.NewAlphabetScope(e.alphabetOf()),
	), unlock, nil
}

func (e *Env) openBackend(ctx context.Context) (ports.ObservationStore, ports.UnlockFunc, error) {
	switch e.Config.Store {
	case config.StoreNone:
		return nil, nil, nil
	case config.StoreMemory:
		return memory.NewStore(), nil, nil
	case config.StoreRedis:
		store := redis.New(e.Config.RedisAddr, e.Config.RedisPassword, e.Config.RedisDB,
			redis.WithPrefix(e.Config.RedisPrefix))
		e.closers = append(e.closers, store.Close)
		if err := store.Client().Ping(ctx).Err(); err != nil {
			return nil, nil, fmt.Errorf("connect to redis at %s: %w", e.Config.RedisAddr, err)
		}

		locker := redis.NewLocker(store.Client(), e.Config.RedisPrefix)
		e.Logger.Info("Waiting for store lock", "prefix", e.Config.RedisPrefix)
		unlock, err := locker.Lock(ctx, "learn", lockTTL)
		if err != nil {
			return nil, nil, err
		}
		return store, unlock, nil
	default:
		return nil, nil, fmt.Errorf("unknown store %q", e.Config.Store)
	}
}

// alphabetOf is a small helper for commands that only need the alphabet.
func (e *Env) alphabetOf() domain.Alphabet {
	a, err := e.Config.ParsedAlphabet()
	if err != nil {
		// Validated when the config was loaded.
		return domain.DefaultAlphabet()
	}
	return a
}
