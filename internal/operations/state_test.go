package operations_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jefabcli/internal/operations"
)

func TestStepStateTransitions(t *testing.T) {
	tests := []struct {
		name       string
		transition func(*operations.StepState)
		wantStatus operations.StepStatus
		wantEnd    bool
	}{
		{name: "start", transition: func(s *operations.StepState) { s.Start() }, wantStatus: operations.StepStatusActive},
		{name: "complete", transition: func(s *operations.StepState) { s.Start(); s.Complete() }, wantStatus: operations.StepStatusCompleted, wantEnd: true},
		{name: "fail", transition: func(s *operations.StepState) { s.Start(); s.Fail(errors.New("boom")) }, wantStatus: operations.StepStatusFailed, wantEnd: true},
		{name: "skip", transition: func(s *operations.StepState) { s.Skip("no text columns") }, wantStatus: operations.StepStatusSkipped, wantEnd: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := operations.NewStepState("normalize", "Text Normalization")
			assert.Equal(t, operations.StepStatusPending, s.GetStatus())

			tt.transition(s)

			assert.Equal(t, tt.wantStatus, s.GetStatus())
			assert.Equal(t, tt.wantEnd, s.EndTime != nil)
		})
	}
}

func TestStepState_FailKeepsMessage(t *testing.T) {
	s := operations.NewStepState("impute", "Numeric Imputation")
	s.Fail(errors.New("matrix is singular"))

	assert.Equal(t, "matrix is singular", s.Message)
	assert.EqualError(t, s.Error, "matrix is singular")
}

func TestStepState_Duration(t *testing.T) {
	s := operations.NewStepState("rules", "Rules")
	assert.Zero(t, s.Duration())

	s.Start()
	s.Complete()
	assert.GreaterOrEqual(t, s.Duration().Nanoseconds(), int64(0))
}

func TestOperationState_StepsKeepOrder(t *testing.T) {
	state := operations.NewOperationState("run-1", nil)
	for _, id := range []string{"profile", "normalize", "rules"} {
		state.SetStep(id, operations.NewStepState(id, id))
	}
	// Replacing a step keeps its position
	state.SetStep("normalize", operations.NewStepState("normalize", "again"))

	steps := state.Steps()
	require.Len(t, steps, 3)
	assert.Equal(t, "profile", steps[0].ID)
	assert.Equal(t, "again", steps[1].Name)
	assert.Equal(t, "rules", steps[2].ID)
}

func TestOperationState_TotalsAndCounts(t *testing.T) {
	state := operations.NewOperationState("run-1", smallTable(t))
	a := operations.NewStepState("a", "A")
	b := operations.NewStepState("b", "B")
	state.SetStep("a", a)
	state.SetStep("b", b)

	assert.Equal(t, map[operations.StepStatus]int{operations.StepStatusPending: 2}, state.StatusCounts())

	a.SetChanged(4)
	a.Complete()
	b.SetChanged(3)
	b.Skip("disabled")

	assert.Equal(t, 7, state.TotalChanged())
	assert.Equal(t, map[operations.StepStatus]int{
		operations.StepStatusCompleted: 1,
		operations.StepStatusSkipped:   1,
	}, state.StatusCounts())

	b.Fail(errors.New("boom"))
	assert.Equal(t, 1, state.StatusCounts()[operations.StepStatusFailed])
}

func TestOperationState_Lifecycle(t *testing.T) {
	state := operations.NewOperationState("run-1", smallTable(t))
	assert.Equal(t, operations.OperationStatusPending, state.GetStatus())
	assert.Equal(t, 2, state.Table().Rows())

	state.Start()
	assert.Equal(t, operations.OperationStatusRunning, state.GetStatus())

	state.SetContext("k", 1)
	v, ok := state.GetContext("k")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	state.Fail(errors.New("boom"))
	assert.Equal(t, operations.OperationStatusFailed, state.GetStatus())
	assert.NotNil(t, state.EndTime)
}
