package operations

import (
	"sync"
	"time"

	"jefabcli/internal/table"
)

// OperationStatusValue represents the overall status of a run
type OperationStatusValue string

const (
	OperationStatusPending   OperationStatusValue = "pending"
	OperationStatusRunning   OperationStatusValue = "running"
	OperationStatusCompleted OperationStatusValue = "completed"
	OperationStatusFailed    OperationStatusValue = "failed"
	OperationStatusCancelled OperationStatusValue = "cancelled"
)

// OperationState is the state of one cleaning run. It owns the table the
// steps rewrite in place.
type OperationState struct {
	mu sync.RWMutex

	ID        string               `json:"id"`
	Status    OperationStatusValue `json:"status"`
	StartTime time.Time            `json:"start_time"`
	EndTime   *time.Time           `json:"end_time,omitempty"`

	steps map[string]*StepState
	order []string

	table *table.Table

	// Context passes step results (reports) to later steps and to the caller
	context map[string]interface{}

	Error error `json:"-"`
}

// NewOperationState creates the state of a run over t
func NewOperationState(id string, t *table.Table) *OperationState {
	return &OperationState{
		ID:        id,
		Status:    OperationStatusPending,
		StartTime: time.Now(),
		steps:     make(map[string]*StepState),
		table:     t,
		context:   make(map[string]interface{}),
	}
}

// Table returns the table being cleaned
func (p *OperationState) Table() *table.Table {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.table
}

// Start marks the run as running
func (p *OperationState) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Status = OperationStatusRunning
	p.StartTime = time.Now()
}

func (p *OperationState) Complete() { p.end(OperationStatusCompleted, nil) }
func (p *OperationState) Fail(err error) { p.end(OperationStatusFailed, err) }
func (p *OperationState) Cancel(err error) { p.end(OperationStatusCancelled, err) }

func (p *OperationState) end(status OperationStatusValue, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.EndTime = &now
	p.Status = status
	p.Error = err
}

// GetStatus returns the run status
func (p *OperationState) GetStatus() OperationStatusValue {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.Status
}

// GetStep returns the state of a specific Step
func (p *OperationState) GetStep(stepID string) *StepState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.steps[stepID]
}

// SetStep records the state of a Step, keeping first-registration order
func (p *OperationState) SetStep(stepID string, state *StepState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.steps[stepID]; !exists {
		p.order = append(p.order, stepID)
	}
	p.steps[stepID] = state
}

// Steps returns the step states in execution order
func (p *OperationState) Steps() []*StepState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*StepState, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, p.steps[id])
	}
	return out
}

// GetContext retrieves a value from the run context
func (p *OperationState) GetContext(key string) (interface{}, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	val, ok := p.context[key]
	return val, ok
}

// SetContext sets a value in the run context
func (p *OperationState) SetContext(key string, value interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.context[key] = value
}

// Duration returns the duration of the run
func (p *OperationState) Duration() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.EndTime != nil {
		return p.EndTime.Sub(p.StartTime)
	}
	return time.Since(p.StartTime)
}

// TotalChanged sums the cells rewritten by every step
func (p *OperationState) TotalChanged() int {
	total := 0
	for _, s := range p.Steps() {
		total += s.Summary().Changed
	}
	return total
}

// StatusCounts tallies the steps by status
func (p *OperationState) StatusCounts() map[StepStatus]int {
	counts := make(map[StepStatus]int)
	for _, s := range p.Steps() {
		counts[s.GetStatus()]++
	}
	return counts
}
