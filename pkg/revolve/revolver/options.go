package revolver

import (
	"log/slog"

	"github.com/devitocodes/gorevolve/pkg/revolve/observability"
	"github.com/devitocodes/gorevolve/pkg/revolve/storage"
)

// runConfig holds configuration for a revolver run.
type runConfig struct {
	snaps   int
	store   storage.Store
	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
	tracing bool
}

// defaultRunConfig returns the default revolver configuration.
func defaultRunConfig() runConfig {
	return runConfig{
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
	}
}

// Option configures revolver behavior.
type Option func(*runConfig)

// WithSnaps sets the snapshot budget.
// Default: revolve.Adjust(steps).
func WithSnaps(n int) Option {
	return func(c *runConfig) {
		if n > 0 {
			c.snaps = n
		}
	}
}

// WithStore sets the snapshot storage backend. The store must have at
// least as many slots as the snapshot budget.
// Default: an in-memory store.
func WithStore(s storage.Store) Option {
	return func(c *runConfig) {
		c.store = s
	}
}

// WithLogger sets the logger for run and snapshot events.
// Default: logging disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(c *runConfig) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
// Default: no-op.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(c *runConfig) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithTracing enables span creation through the given manager.
// Default: tracing disabled.
func WithTracing(s observability.SpanManager) Option {
	return func(c *runConfig) {
		if s != nil {
			c.spans = s
			c.tracing = true
		}
	}
}
