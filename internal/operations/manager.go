package operations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"jefabcli/internal/infrastructure"
)

// Manager runs the registered steps over one table, in registration order
type Manager struct {
	registry *Registry
	config   *Config
	tracer   *OperationTracer
	logger   *slog.Logger
}

// NewManager creates a run manager. Nil arguments fall back to an empty
// registry, the default config, a no-op tracer and slog.Default().
func NewManager(registry *Registry, config *Config, tracer *OperationTracer, logger *slog.Logger) *Manager {
	if registry == nil {
		registry = NewRegistry()
	}
	if config == nil {
		config = NewConfig()
	}
	if tracer == nil {
		tracer, _ = NewOperationTracer(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Manager{
		registry: registry,
		config:   config,
		tracer:   tracer,
		logger:   logger.With(slog.String("component", "operations")),
	}
}

// RegisterStep registers a Step with the manager
func (m *Manager) RegisterStep(step Step) error {
	return m.registry.Register(step)
}

// GetRegistry returns the registry for accessing registered steps
func (m *Manager) GetRegistry() *Registry {
	return m.registry
}

// Run executes every registered step against the table held by state.
//
// A step whose validation fails with a recoverable error is skipped. A step
// that returns a recoverable error (missing columns, non-convergence) is
// completed with warnings. The first fatal error, a cancelled context or a
// step timeout stops the run: the remaining steps are skipped and the error
// is returned.
func (m *Manager) Run(ctx context.Context, state *OperationState) (*OperationResponse, error) {
	steps := m.registry.List()
	for _, step := range steps {
		state.SetStep(step.ID(), NewStepState(step.ID(), step.Name()))
	}

	if infrastructure.RunID(ctx) == "" {
		ctx = infrastructure.WithRunID(ctx, state.ID)
	}
	ctx, span := m.tracer.TraceRun(ctx, state)
	defer span.End()

	if t := state.Table(); t != nil {
		m.tracer.RecordRows(ctx, t.Rows())
	}

	state.Start()
	m.logger.InfoContext(ctx, "Run started",
		slog.String("operation_id", state.ID),
		slog.Int("step_count", len(steps)))

	err := m.executeSequential(ctx, state, steps)

	switch {
	case err == nil:
		state.Complete()
	case errors.Is(err, context.Canceled):
		state.Cancel(err)
	default:
		state.Fail(err)
	}

	duration := state.Duration()
	m.tracer.RecordRunCompletion(ctx, span, state, duration)

	if err != nil {
		m.logger.ErrorContext(ctx, "Run failed",
			slog.String("operation_id", state.ID),
			slog.String("status", string(state.GetStatus())),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
	} else {
		counts := state.StatusCounts()
		m.logger.InfoContext(ctx, "Run completed",
			slog.String("operation_id", state.ID),
			slog.Duration("duration", duration),
			slog.Int("changed", state.TotalChanged()),
			slog.Int("completed", counts[StepStatusCompleted]),
			slog.Int("skipped", counts[StepStatusSkipped]))
	}

	return m.createResponse(state), err
}

// executeSequential executes steps one by one until the first fatal error
func (m *Manager) executeSequential(ctx context.Context, state *OperationState, steps []Step) error {
	progress := NewProgress(len(steps))

	for i, step := range steps {
		stepState := state.GetStep(step.ID())

		if err := ctx.Err(); err != nil {
			m.skipRemaining(state, steps[i:], "run cancelled")
			return NewCancellationError(step.ID(), err)
		}

		if m.config.IsDisabled(step.ID()) {
			stepState.Skip("disabled by configuration")
			m.logger.InfoContext(ctx, "Step skipped",
				slog.String("step", step.ID()),
				slog.String("reason", "disabled"))
			progress.Done(step.ID())
			continue
		}

		m.logger.InfoContext(ctx, "Executing step",
			slog.String("operation_id", state.ID),
			slog.String("step", step.ID()),
			slog.Int("step_number", i+1),
			slog.Int("total_steps", len(steps)))

		if err := m.executeStep(ctx, state, step); err != nil {
			m.skipRemaining(state, steps[i+1:], fmt.Sprintf("step %s failed", step.ID()))
			return err
		}

		progress.Done(step.ID())
		snap := progress.Snapshot()
		m.logger.DebugContext(ctx, "Run progress",
			slog.Int("done", snap.Done),
			slog.Int("total", snap.Total),
			slog.Float64("percent", snap.Percent),
			slog.Duration("remaining", snap.Remaining))
	}
	return nil
}

// executeStep runs a single Step under its timeout and span. It returns an
// error only when the run must stop.
func (m *Manager) executeStep(ctx context.Context, state *OperationState, step Step) error {
	stepState := state.GetStep(step.ID())
	if stepState == nil {
		return NewFatalError(fmt.Sprintf("step state %s not found", step.ID()), nil)
	}

	stepCtx, span := m.tracer.TraceStep(infrastructure.WithStep(ctx, step.ID()), state.ID, step.ID())
	defer span.End()
	defer m.tracer.RecordStepCompletion(stepCtx, span, stepState)

	if err := step.Validate(state); err != nil {
		if GetErrorType(err) == ErrorTypeFatal {
			stepState.Fail(err)
			return err
		}
		stepState.Skip(fmt.Sprintf("validation failed: %v", err))
		m.logger.WarnContext(ctx, "Step skipped",
			slog.String("step", step.ID()),
			slog.String("reason", err.Error()))
		return nil
	}

	timeout := m.config.GetStepTimeout(step.ID())
	stepCtx, cancel := context.WithTimeout(stepCtx, timeout)
	defer cancel()

	stepState.Start()
	start := time.Now()
	err := step.Execute(stepCtx, state)
	duration := time.Since(start)

	if err == nil {
		stepState.Complete()
		m.logger.InfoContext(ctx, "Step completed",
			slog.String("step", step.ID()),
			slog.Duration("duration", duration),
			slog.Int("changed", stepState.Summary().Changed))
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		err = NewTimeoutError(step.ID(), timeout, err)
	} else if errors.Is(err, context.Canceled) {
		err = NewCancellationError(step.ID(), err)
	}

	if !IsFatal(err) {
		for _, w := range flatten(err) {
			stepState.Warn(w.Error())
		}
		stepState.Complete()
		m.logger.WarnContext(ctx, "Step completed with warnings",
			slog.String("step", step.ID()),
			slog.Duration("duration", duration),
			slog.Int("warnings", len(stepState.Warnings)),
			slog.String("error", err.Error()))
		return nil
	}

	wrapped := WrapError(err, step.ID(), "step execution failed")
	stepState.Fail(wrapped)
	m.logger.ErrorContext(ctx, "Step failed",
		slog.String("step", step.ID()),
		slog.Duration("duration", duration),
		slog.String("error", err.Error()))
	return wrapped
}

// skipRemaining marks pending steps as skipped
func (m *Manager) skipRemaining(state *OperationState, steps []Step, reason string) {
	for _, step := range steps {
		if s := state.GetStep(step.ID()); s != nil && s.GetStatus() == StepStatusPending {
			s.Skip(reason)
		}
	}
}

// createResponse creates the run summary from state
func (m *Manager) createResponse(state *OperationState) *OperationResponse {
	resp := &OperationResponse{
		ID:       state.ID,
		Status:   state.GetStatus(),
		Duration: state.Duration(),
		Changed:  state.TotalChanged(),
	}

	for _, s := range state.Steps() {
		resp.Steps = append(resp.Steps, s.Summary())
	}

	if state.Error != nil {
		resp.Error = state.Error.Error()
	}
	return resp
}

// flatten splits a joined error into its parts
func flatten(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}
