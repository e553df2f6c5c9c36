package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// setupMetricsTest creates a test meter provider and returns a reader
// plus a cleanup function.
func setupMetricsTest(t *testing.T) (*sdkmetric.ManualReader, func()) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	originalProvider := otel.GetMeterProvider()
	otel.SetMeterProvider(provider)

	cleanup := func() {
		otel.SetMeterProvider(originalProvider)
		if err := provider.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down meter provider: %v", err)
		}
	}
	return reader, cleanup
}

// collectMetrics collects all metrics from the reader.
func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) *metricdata.ResourceMetrics {
	var rm metricdata.ResourceMetrics
	err := reader.Collect(context.Background(), &rm)
	require.NoError(t, err)
	return &rm
}

// findMetric finds a metric by name in the collected data.
func findMetric(rm *metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func TestRecordAction(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	m, err := newOtelMetrics()
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordAction(ctx, "advance", 5)
	m.RecordAction(ctx, "takeshot", 0)

	rm := collectMetrics(t, reader)
	actions := findMetric(rm, "revolve.actions")
	require.NotNil(t, actions, "revolve.actions metric not found")

	sum, ok := actions.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	assert.Equal(t, int64(2), total)

	forward := findMetric(rm, "revolve.forward.steps")
	require.NotNil(t, forward)
	fsum, ok := forward.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, fsum.DataPoints, 1)
	assert.Equal(t, int64(5), fsum.DataPoints[0].Value)
}

func TestRecordSweep(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	m, err := newOtelMetrics()
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordSweep(ctx, "forward", true, 120*time.Millisecond)
	m.RecordSweep(ctx, "reverse", false, 80*time.Millisecond)

	rm := collectMetrics(t, reader)
	sweeps := findMetric(rm, "revolve.sweeps")
	require.NotNil(t, sweeps)
	latency := findMetric(rm, "revolve.sweep.latency_ms")
	require.NotNil(t, latency)

	hist, ok := latency.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(2), count)
}

func TestRecordSnapshot(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	m, err := newOtelMetrics()
	require.NoError(t, err)

	m.RecordSnapshot(context.Background(), 2, 4096)

	rm := collectMetrics(t, reader)
	size := findMetric(rm, "revolve.snapshot.size_bytes")
	require.NotNil(t, size)

	hist, ok := size.Data.(metricdata.Histogram[int64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, int64(4096), hist.DataPoints[0].Sum)
}
