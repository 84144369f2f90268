package infrastructure

import (
	"context"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// PipelineMetrics holds the instruments recorded during a cleaning run
type PipelineMetrics struct {
	StepsTotal           metric.Int64Counter
	StepDuration         metric.Float64Histogram
	CellsChanged         metric.Int64Counter
	RowsLoaded           metric.Int64Counter
	ImputationIterations metric.Int64Gauge
	HeapBytes            metric.Int64Gauge
}

// CreatePipelineMetrics creates the run instruments on meter
func CreatePipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	stepsTotal, err := meter.Int64Counter(
		"jefab_pipeline_steps",
		metric.WithDescription("Pipeline steps executed, by step and final status"),
	)
	if err != nil {
		return nil, err
	}

	stepDuration, err := meter.Float64Histogram(
		"jefab_pipeline_step_duration_seconds",
		metric.WithDescription("Pipeline step execution duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	cellsChanged, err := meter.Int64Counter(
		"jefab_cells_changed",
		metric.WithDescription("Cells rewritten by a pipeline step"),
	)
	if err != nil {
		return nil, err
	}

	rowsLoaded, err := meter.Int64Counter(
		"jefab_rows_loaded",
		metric.WithDescription("Rows read from the input file"),
	)
	if err != nil {
		return nil, err
	}

	iterations, err := meter.Int64Gauge(
		"jefab_imputation_iterations",
		metric.WithDescription("Rounds run by the iterative numeric imputer"),
	)
	if err != nil {
		return nil, err
	}

	heap, err := meter.Int64Gauge(
		"jefab_heap_alloc_bytes",
		metric.WithDescription("Heap bytes allocated after a pipeline step"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		StepsTotal:           stepsTotal,
		StepDuration:         stepDuration,
		CellsChanged:         cellsChanged,
		RowsLoaded:           rowsLoaded,
		ImputationIterations: iterations,
		HeapBytes:            heap,
	}, nil
}

// RecordStepMetrics records one finished pipeline step
func RecordStepMetrics(ctx context.Context, m *PipelineMetrics, stepID, status string, duration time.Duration, changed int) {
	if m == nil {
		return
	}

	step := attribute.String("step", stepID)
	m.StepsTotal.Add(ctx, 1, metric.WithAttributes(step, attribute.String("status", status)))
	m.StepDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(step))
	if changed > 0 {
		m.CellsChanged.Add(ctx, int64(changed), metric.WithAttributes(step))
	}
}

// RecordRuntimeSnapshot records current heap usage tagged with the step that just ran
func RecordRuntimeSnapshot(ctx context.Context, m *PipelineMetrics, stepID string) {
	if m == nil {
		return
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	m.HeapBytes.Record(ctx, int64(ms.HeapAlloc), metric.WithAttributes(attribute.String("step", stepID)))
}
