package infrastructure

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestOTelInitialization_Defaults(t *testing.T) {
	var buf bytes.Buffer
	providers, err := InitializeOTel(nil, NewLogger(&buf, "debug"))
	require.NoError(t, err)

	assert.Nil(t, providers.TracerProvider, "tracing is disabled without a trace file")
	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.Registry)

	_, span := providers.Tracer.Start(context.Background(), "noop")
	assert.False(t, span.IsRecording())
	span.End()

	require.NoError(t, providers.Shutdown(context.Background()))
}

func TestOTelInitialization_WritesTraceAndMetricsFiles(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultOTelConfig()
	cfg.TraceFile = filepath.Join(dir, "traces", "run.jsonl")
	cfg.MetricsFile = filepath.Join(dir, "metrics", "run.prom")

	var buf bytes.Buffer
	providers, err := InitializeOTel(cfg, NewLogger(&buf, "info"))
	require.NoError(t, err)

	metrics, err := CreatePipelineMetrics(providers.Meter)
	require.NoError(t, err)

	ctx, span := providers.Tracer.Start(context.Background(), "normalize")
	assert.True(t, span.IsRecording())
	span.SetAttributes(attribute.Int("cells_changed", 4))
	AddSpanEvent(ctx, "column.done", attribute.String("column", "PARENTESCO"))
	RecordStepMetrics(ctx, metrics, "normalize", "completed", 25*time.Millisecond, 4)
	RecordRuntimeSnapshot(ctx, metrics, "normalize")
	span.End()

	require.NoError(t, providers.Shutdown(context.Background()))

	traces, err := os.ReadFile(cfg.TraceFile)
	require.NoError(t, err)
	assert.Contains(t, string(traces), `"Name":"normalize"`)
	assert.Contains(t, string(traces), "cells_changed")
	assert.Contains(t, string(traces), "column.done")

	exposition, err := os.ReadFile(cfg.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(exposition), "jefab_pipeline_steps_total")
	assert.Contains(t, string(exposition), "jefab_cells_changed_total")
	assert.Contains(t, string(exposition), `step="normalize"`)
}

func TestRecordStepMetrics_NilSafe(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordStepMetrics(context.Background(), nil, "rules", "completed", time.Second, 3)
		RecordRuntimeSnapshot(context.Background(), nil, "rules")
	})
}

func TestRecordError_NoopWithoutSpan(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordError(context.Background(), os.ErrNotExist)
		RecordError(context.Background(), nil)
		AddSpanEvent(context.Background(), "ignored")
	})
}
