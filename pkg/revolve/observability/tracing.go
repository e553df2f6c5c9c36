package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracer is the revolve tracer instance.
// Uses the global OTel tracer provider.
var tracer = otel.Tracer("revolve")

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when
// disabled.
type SpanManager interface {
	// StartRunSpan starts a span for an entire adjoint run.
	StartRunSpan(ctx context.Context, runID string, steps, snaps int) (context.Context, trace.Span)

	// StartSweepSpan starts a span for a forward or reverse sweep.
	// The sweep span should be a child of the run span.
	StartSweepSpan(ctx context.Context, sweep string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the
// provider before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// StartRunSpan starts a span for an entire adjoint run.
func (m *otelSpanManager) StartRunSpan(ctx context.Context, runID string, steps, snaps int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "revolve.run",
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.Int("run.steps", steps),
			attribute.Int("run.snaps", snaps),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartSweepSpan starts a span for a forward or reverse sweep.
func (m *otelSpanManager) StartSweepSpan(ctx context.Context, sweep string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "revolve.sweep."+sweep,
		trace.WithAttributes(
			attribute.String("sweep", sweep),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span.
func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
