package operations

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Step is one stage of a cleaning run. Execute rewrites the table held by the
// state in place; Validate runs first and decides whether the step applies.
type Step interface {
	ID() string
	Name() string
	Execute(ctx context.Context, state *OperationState) error
	Validate(state *OperationState) error
}

// StepStatus is the lifecycle position of a step
type StepStatus string

const (
	StepStatusPending   StepStatus = "pending"
	StepStatusActive    StepStatus = "active"
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"
	StepStatusSkipped   StepStatus = "skipped"
)

// StepState records what happened to one step during a run
type StepState struct {
	mu sync.RWMutex

	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Status    StepStatus     `json:"status"`
	StartTime *time.Time     `json:"start_time,omitempty"`
	EndTime   *time.Time     `json:"end_time,omitempty"`
	Changed   int            `json:"changed"`
	Message   string         `json:"message,omitempty"`
	Error     error          `json:"-"`
	Warnings  []string       `json:"warnings,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// NewStepState returns a pending step
func NewStepState(id, name string) *StepState {
	return &StepState{ID: id, Name: name, Status: StepStatusPending, Metadata: map[string]any{}}
}

func (s *StepState) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.StartTime, s.EndTime = &now, nil
	s.Status = StepStatusActive
}

func (s *StepState) Complete() { s.finish(StepStatusCompleted, "", nil) }

// Fail ends the step with err as its message
func (s *StepState) Fail(err error) {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	s.finish(StepStatusFailed, msg, err)
}

// Skip ends a step that never ran; reason becomes its message
func (s *StepState) Skip(reason string) { s.finish(StepStatusSkipped, reason, nil) }

func (s *StepState) finish(status StepStatus, msg string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.EndTime = &now
	s.Status = status
	if msg != "" {
		s.Message = msg
	}
	if err != nil {
		s.Error = err
	}
}

// SetChanged records how many cells the step rewrote
func (s *StepState) SetChanged(changed int) {
	s.mu.Lock()
	s.Changed = changed
	s.mu.Unlock()
}

// Warn appends a recoverable problem
func (s *StepState) Warn(warning string) {
	s.mu.Lock()
	s.Warnings = append(s.Warnings, warning)
	s.mu.Unlock()
}

// SetMetadata attaches a step-specific figure, such as the imputation
// iteration count, to the run log
func (s *StepState) SetMetadata(key string, value any) {
	s.mu.Lock()
	s.Metadata[key] = value
	s.mu.Unlock()
}

func (s *StepState) GetStatus() StepStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Status
}

// Duration is zero before Start and grows until the step ends
func (s *StepState) Duration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.durationLocked()
}

func (s *StepState) durationLocked() time.Duration {
	switch {
	case s.StartTime == nil:
		return 0
	case s.EndTime != nil:
		return s.EndTime.Sub(*s.StartTime)
	default:
		return time.Since(*s.StartTime)
	}
}

// Summary copies the step into its run-summary form
func (s *StepState) Summary() StepSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return StepSummary{
		ID:       s.ID,
		Name:     s.Name,
		Status:   s.Status,
		Changed:  s.Changed,
		Duration: s.durationLocked(),
		Message:  s.Message,
		Warnings: append([]string(nil), s.Warnings...),
	}
}

// BaseStage carries the identity of a step. Embedding steps inherit a
// Validate that only requires a loaded table.
type BaseStage struct {
	id   string
	name string
}

func NewBaseStage(id, name string) BaseStage {
	return BaseStage{id: id, name: name}
}

func (b *BaseStage) ID() string { return b.id }
func (b *BaseStage) Name() string { return b.name }

func (b *BaseStage) Validate(state *OperationState) error {
	if state == nil || state.Table() == nil {
		return NewFatalError(fmt.Sprintf("%s: no table loaded", b.id), nil)
	}
	return nil
}
