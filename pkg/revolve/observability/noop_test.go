package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNoopMetrics(t *testing.T) {
	var m MetricsRecorder = NoopMetrics{}
	ctx := context.Background()
	// Must be callable without any provider configured.
	m.RecordAction(ctx, "advance", 3)
	m.RecordSweep(ctx, "forward", true, time.Millisecond)
	m.RecordSnapshot(ctx, 1, 64)
}

func TestNoopSpanManager(t *testing.T) {
	var m SpanManager = NoopSpanManager{}
	ctx := context.Background()

	gotCtx, span := m.StartRunSpan(ctx, "run-1", 10, 3)
	assert.Equal(t, ctx, gotCtx)
	assert.NotNil(t, span)

	gotCtx, span = m.StartSweepSpan(ctx, "forward")
	assert.Equal(t, ctx, gotCtx)
	assert.NotNil(t, span)

	m.EndSpanWithError(span, errors.New("ignored"))
	m.EndSpanWithError(nil, nil)
	m.AddSpanEvent(ctx, "ignored")
}
