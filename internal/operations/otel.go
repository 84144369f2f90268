package operations

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"jefabcli/internal/infrastructure"
)

const (
	TracerName = "jefabcli.operation"
)

// OperationTracer opens spans and records metrics for a run and its steps
type OperationTracer struct {
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
}

// NewOperationTracer creates a tracer backed by the run's providers.
// Nil providers give a tracer that records nothing.
func NewOperationTracer(providers *infrastructure.OTelProviders) (*OperationTracer, error) {
	if providers == nil {
		return &OperationTracer{tracer: noop.NewTracerProvider().Tracer(TracerName)}, nil
	}

	metrics, err := infrastructure.CreatePipelineMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}

	tracer := providers.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer(TracerName)
	}
	return &OperationTracer{tracer: tracer, metrics: metrics}, nil
}

// Metrics returns the run instruments, nil when metrics are disabled
func (pt *OperationTracer) Metrics() *infrastructure.PipelineMetrics {
	return pt.metrics
}

// TraceRun creates the span that covers a whole run
func (pt *OperationTracer) TraceRun(ctx context.Context, state *OperationState) (context.Context, trace.Span) {
	rows, cols := 0, 0
	if t := state.Table(); t != nil {
		rows, cols = t.Rows(), t.Width()
	}
	return pt.tracer.Start(ctx, "operation.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("operation.id", state.ID),
			attribute.Int("table.rows", rows),
			attribute.Int("table.columns", cols),
		),
	)
}

// TraceStep creates a span for one Step
func (pt *OperationTracer) TraceStep(ctx context.Context, runID, stepID string) (context.Context, trace.Span) {
	return pt.tracer.Start(ctx, fmt.Sprintf("operation.step.%s", stepID),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("operation.id", runID),
			attribute.String("step.id", stepID),
		),
	)
}

// RecordStepCompletion closes out a Step span and records its metrics
func (pt *OperationTracer) RecordStepCompletion(ctx context.Context, span trace.Span, step *StepState) {
	sum := step.Summary()
	status, duration := string(sum.Status), sum.Duration
	changed, warnings := sum.Changed, len(sum.Warnings)

	step.mu.RLock()
	stepErr := step.Error
	step.mu.RUnlock()

	span.SetAttributes(
		attribute.String("step.status", status),
		attribute.Float64("step.duration_seconds", duration.Seconds()),
		attribute.Int("step.changed", changed),
		attribute.Int("step.warnings", warnings),
	)

	infrastructure.AddSpanEvent(ctx, "step.completed",
		attribute.String("step.id", step.ID),
		attribute.String("step.status", status),
		attribute.Int("step.changed", changed))

	infrastructure.RecordStepMetrics(ctx, pt.metrics, step.ID, status, duration, changed)
	infrastructure.RecordRuntimeSnapshot(ctx, pt.metrics, step.ID)

	switch {
	case stepErr != nil:
		infrastructure.RecordError(ctx, stepErr, attribute.String("step.id", step.ID))
	case warnings > 0:
		span.SetStatus(codes.Ok, fmt.Sprintf("completed with %d warnings", warnings))
	default:
		span.SetStatus(codes.Ok, "")
	}
}

// RecordRows counts the rows loaded for a run
func (pt *OperationTracer) RecordRows(ctx context.Context, rows int) {
	if pt.metrics == nil || rows <= 0 {
		return
	}
	pt.metrics.RowsLoaded.Add(ctx, int64(rows))
}

// RecordIterations records the rounds run by the numeric imputer
func (pt *OperationTracer) RecordIterations(ctx context.Context, iterations int, converged bool) {
	if pt.metrics == nil {
		return
	}
	pt.metrics.ImputationIterations.Record(ctx, int64(iterations),
		metric.WithAttributes(attribute.Bool("converged", converged)))
}

// RecordRunCompletion closes out the run span
func (pt *OperationTracer) RecordRunCompletion(ctx context.Context, span trace.Span, state *OperationState, duration time.Duration) {
	status := string(state.GetStatus())
	span.SetAttributes(
		attribute.String("operation.status", status),
		attribute.Float64("operation.duration_seconds", duration.Seconds()),
		attribute.Int("operation.changed", state.TotalChanged()),
	)

	if state.Error != nil {
		infrastructure.RecordError(ctx, state.Error)
		return
	}
	span.SetStatus(codes.Ok, "run completed")
}
