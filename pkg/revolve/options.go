package revolve

import (
	"log/slog"

	"github.com/devitocodes/gorevolve/pkg/revolve/observability"
)

// Option configures a Revolve instance.
type Option func(*Revolve)

// WithLogger sets the logger used for scheduler diagnostics.
// Default: a discarding logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Revolve) {
		if logger != nil {
			r.log = logger
		}
	}
}

// WithMetrics sets the metrics recorder for scheduler actions.
// Default: no-op.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(r *Revolve) {
		if m != nil {
			r.metrics = m
		}
	}
}

// WithHeuristicTail selects the heuristic (arevolve) scheduler instead
// of the level-based moin scheduler as the last rung of the online
// escalation ladder. Online construction only.
func WithHeuristicTail() Option {
	return func(r *Revolve) {
		r.heuristicTail = true
	}
}
