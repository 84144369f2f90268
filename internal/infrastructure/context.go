package infrastructure

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type contextKey int

const (
	runIDKey contextKey = iota
	stepKey
)

// NewRunContext returns ctx carrying a fresh run id (UUID v4), and the id.
// One id identifies a cleaning run across logs, spans and the run summary.
func NewRunContext(ctx context.Context) (context.Context, string) {
	id := uuid.New().String()
	return WithRunID(ctx, id), id
}

// WithRunID returns ctx carrying the given run id
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// RunID returns the run id carried by ctx, or ""
func RunID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(runIDKey).(string)
	return id
}

// WithStep returns ctx naming the pipeline step being executed
func WithStep(ctx context.Context, stepID string) context.Context {
	return context.WithValue(ctx, stepKey, stepID)
}

// StepID returns the step named by ctx, or ""
func StepID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	step, _ := ctx.Value(stepKey).(string)
	return step
}

// WithComponent creates a logger with a component field
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = GetLogger()
	}
	return logger.With(slog.String("component", component))
}
