package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/nvimsul/internal/config"
	"github.com/aretw0/nvimsul/internal/presentation/graph"
	"github.com/aretw0/nvimsul/internal/presentation/tui"
	"github.com/aretw0/nvimsul/pkg/domain"
	"github.com/aretw0/nvimsul/pkg/learning"
	"github.com/aretw0/nvimsul/pkg/ports"
)

// LearnOptions configures the learn command.
type LearnOptions struct {
	// Mermaid additionally writes a .mmd artifact.
	Mermaid bool
	// Render prints the run report through glamour instead of plain markdown.
	Render bool
	// MaxRounds bounds the explore driver (0: until nothing new is found).
	MaxRounds int
	// Registry, when set, replaces the driver registry (external learners).
	Registry *learning.Registry
}

// LearnResult is what a learning run produced.
type LearnResult struct {
	Hypothesis *domain.Hypothesis
	Report     tui.RunReport
}

// RunLearn runs the configured driver against a fresh SUL and writes the
// hypothesis graph into the output directory.
func RunLearn(ctx context.Context, env *Env, opts LearnOptions) (*LearnResult, error) {
	cfg := env.Config
	params := cfg.LearnParams()
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid learning parameters: %w", err)
	}
	alphabet := env.alphabetOf()

	registry := opts.Registry
	if registry == nil {
		registry = learning.NewRegistry(
			learning.WithExplorerLogger(env.Logger),
			learning.WithMaxRounds(opts.MaxRounds),
		)
	}
	driver, err := registry.Resolve(params.Algorithm)
	if err != nil {
		return nil, err
	}

	sul, err := env.NewSUL()
	if err != nil {
		return nil, err
	}
	defer sul.Close()

	var target ports.SUL = sul
	var cache *learning.Cache
	if params.CacheAndNonDetCheck {
		store, unlock, err := env.OpenStore(ctx)
		if err != nil {
			return nil, err
		}
		if unlock != nil {
			defer func() {
				if err := unlock(context.Background()); err != nil {
					env.Logger.Warn("Failed to release store lock", "err", err)
				}
			}()
		}

		cacheOpts := []learning.CacheOption{learning.WithCacheLogger(env.Logger)}
		if store != nil {
			cacheOpts = append(cacheOpts, learning.WithStore(store))
		}
		cache = learning.NewCache(sul, cacheOpts...)
		if store != nil {
			n, err := cache.Warm(ctx, store)
			if err != nil {
				return nil, err
			}
			env.Logger.Info("Warmed cache", "observations", n, "store", cfg.Store)
		}
		target = cache
	} else if cfg.Store != config.StoreNone {
		env.Logger.Warn("Observation store ignored: caching is disabled", "store", cfg.Store)
	}

	env.Logger.Info("Learning started", "algorithm", params.Algorithm, "walks_per_state", params.WalksPerState,
		"walk_len", params.WalkLen, "seed", params.Seed, "symbols", alphabet.Len())
	start := time.Now()
	h, err := driver.Learn(ctx, target, alphabet, params)
	if err != nil {
		var nd *domain.NonDeterminismError
		if errors.As(err, &nd) {
			env.Logger.Error("Non-deterministic answer", "word", nd.Word.String(), "err", err)
		}
		return nil, fmt.Errorf("%s: %w", params.Algorithm, err)
	}

	report := tui.RunReport{
		RunID:      env.RunID,
		Params:     params,
		Alphabet:   alphabet,
		Hypothesis: h,
		Duration:   time.Since(start),
	}
	if ex, ok := driver.(*learning.Explorer); ok {
		report.Queries = ex.Stats().Queries
	}
	if cache != nil {
		stats := cache.Stats()
		report.CacheHits = stats.Hits
		if report.Queries == 0 {
			report.Queries = stats.Hits + stats.Misses
		}
	}

	name := learning.ArtifactName(params.Algorithm, params.WalksPerState, params.WalkLen)
	path, err := learning.WriteArtifact(cfg.OutputDir, name, "dot", []byte(graph.GenerateDOT(h)))
	if err != nil {
		return nil, err
	}
	report.Artifacts = append(report.Artifacts, path)
	if opts.Mermaid {
		path, err := learning.WriteArtifact(cfg.OutputDir, name, "mmd", []byte(graph.GenerateMermaid(h, nil)))
		if err != nil {
			return nil, err
		}
		report.Artifacts = append(report.Artifacts, path)
	}

	env.Logger.Info("Learning finished", "states", len(h.Access), "transitions", len(h.Transitions()),
		"queries", report.Queries, "duration", report.Duration)

	md := report.Markdown()
	if opts.Render {
		if out, err := tui.NewRenderer()(md); err == nil {
			md = out
		}
	}
	fmt.Fprintln(env.Out, md)

	return &LearnResult{Hypothesis: h, Report: report}, nil
}
