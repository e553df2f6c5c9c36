package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records scheduler and driver metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when
// disabled.
type MetricsRecorder interface {
	// RecordAction records one scheduler decision and the number of
	// forward steps it covers (zero for non-advance actions).
	RecordAction(ctx context.Context, action string, forwardSteps int64)

	// RecordSweep records completion of a forward or reverse sweep.
	RecordSweep(ctx context.Context, sweep string, success bool, duration time.Duration)

	// RecordSnapshot records a snapshot save into a storage tier.
	RecordSnapshot(ctx context.Context, slot int, sizeBytes int64)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	actions      metric.Int64Counter
	forwardSteps metric.Int64Counter
	sweeps       metric.Int64Counter
	sweepLatency metric.Float64Histogram
	snapshotSize metric.Int64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("revolve")

	actions, err := meter.Int64Counter("revolve.actions",
		metric.WithDescription("Number of scheduler actions returned"),
	)
	if err != nil {
		return nil, err
	}

	forwardSteps, err := meter.Int64Counter("revolve.forward.steps",
		metric.WithDescription("Number of forward simulation steps requested"),
	)
	if err != nil {
		return nil, err
	}

	sweeps, err := meter.Int64Counter("revolve.sweeps",
		metric.WithDescription("Number of completed sweeps"),
	)
	if err != nil {
		return nil, err
	}

	sweepLatency, err := meter.Float64Histogram("revolve.sweep.latency_ms",
		metric.WithDescription("Sweep latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	snapshotSize, err := meter.Int64Histogram("revolve.snapshot.size_bytes",
		metric.WithDescription("Snapshot size in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		actions:      actions,
		forwardSteps: forwardSteps,
		sweeps:       sweeps,
		sweepLatency: sweepLatency,
		snapshotSize: snapshotSize,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the
// provider before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordAction records one scheduler decision.
func (m *otelMetrics) RecordAction(ctx context.Context, action string, forwardSteps int64) {
	attrs := []attribute.KeyValue{
		attribute.String("action", action),
	}
	m.actions.Add(ctx, 1, metric.WithAttributes(attrs...))
	if forwardSteps > 0 {
		m.forwardSteps.Add(ctx, forwardSteps)
	}
}

// RecordSweep records a sweep completion.
func (m *otelMetrics) RecordSweep(ctx context.Context, sweep string, success bool, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("sweep", sweep),
		attribute.Bool("success", success),
	}
	m.sweeps.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.sweepLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}

// RecordSnapshot records a snapshot save.
func (m *otelMetrics) RecordSnapshot(ctx context.Context, slot int, sizeBytes int64) {
	attrs := []attribute.KeyValue{
		attribute.Int("slot", slot),
	}
	m.snapshotSize.Record(ctx, sizeBytes, metric.WithAttributes(attrs...))
}
