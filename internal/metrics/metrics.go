// Package metrics exposes adapter activity as Prometheus collectors.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/nvimsul/pkg/domain"
)

// Collectors holds the collectors of one adapter, on a private registry.
type Collectors struct {
	registry *prometheus.Registry

	Steps         *prometheus.CounterVec
	StepErrors    prometheus.Counter
	StepDuration  prometheus.Histogram
	Spawns        *prometheus.CounterVec
	SpawnDuration prometheus.Histogram
	Terminations  prometheus.Counter
	Resets        prometheus.Counter
}

// New creates and registers the collectors.
func New() *Collectors {
	c := &Collectors{
		registry: prometheus.NewRegistry(),
		Steps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nvimsul_steps_total",
				Help: "Observed steps by resulting canonical state",
			},
			[]string{"state"},
		),
		StepErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nvimsul_step_errors_total",
			Help: "Steps that failed (RPC or classification)",
		}),
		StepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "nvimsul_step_duration_seconds",
			Help:    "Duration of input plus mode query",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		}),
		Spawns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nvimsul_spawns_total",
				Help: "Editor spawns by result",
			},
			[]string{"result"},
		),
		SpawnDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "nvimsul_spawn_duration_seconds",
			Help:    "Duration of spawn plus profile application",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
		Terminations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nvimsul_terminations_total",
			Help: "Editor processes terminated",
		}),
		Resets: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nvimsul_resets_total",
			Help: "Adapter resets (one per query)",
		}),
	}
	c.registry.MustRegister(
		c.Steps, c.StepErrors, c.StepDuration,
		c.Spawns, c.SpawnDuration, c.Terminations, c.Resets,
	)
	return c
}

// Registry returns the private registry.
func (c *Collectors) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the exposition format.
func (c *Collectors) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Hooks records lifecycle events into the collectors.
func (c *Collectors) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnSpawn: func(_ context.Context, e *domain.ProcessEvent) {
			result := "ok"
			if e.Err != nil {
				result = "error"
			}
			c.Spawns.WithLabelValues(result).Inc()
			c.SpawnDuration.Observe(e.Duration.Seconds())
		},
		OnTerminate: func(context.Context, *domain.ProcessEvent) {
			c.Terminations.Inc()
		},
		OnReset: func(context.Context, *domain.ProcessEvent) {
			c.Resets.Inc()
		},
		OnStep: func(_ context.Context, e *domain.StepEvent) {
			c.StepDuration.Observe(e.Duration.Seconds())
			if e.Err != nil {
				c.StepErrors.Inc()
				return
			}
			c.Steps.WithLabelValues(string(e.State)).Inc()
		},
	}
}
