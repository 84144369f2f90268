package operations_test

import (
	"context"
	"testing"

	"jefabcli/internal/operations"
	"jefabcli/internal/shared/testutil"
	"jefabcli/internal/table"
)

// funcStep is a Step whose behaviour is supplied by the test
type funcStep struct {
	operations.BaseStage
	execute  func(ctx context.Context, state *operations.OperationState) error
	validate func(state *operations.OperationState) error
	calls    int
}

func newFuncStep(id string, execute func(ctx context.Context, state *operations.OperationState) error) *funcStep {
	return &funcStep{BaseStage: operations.NewBaseStage(id, "Step "+id), execute: execute}
}

func (s *funcStep) Execute(ctx context.Context, state *operations.OperationState) error {
	s.calls++
	if s.execute == nil {
		return nil
	}
	return s.execute(ctx, state)
}

func (s *funcStep) Validate(state *operations.OperationState) error {
	if s.validate != nil {
		return s.validate(state)
	}
	return s.BaseStage.Validate(state)
}

func smallTable(t *testing.T) *table.Table {
	return testutil.BuildTable(t,
		testutil.TextCol("SEXO", "Hombre", "Mujer"),
		testutil.NumCol("EDAD", 30, 40),
	)
}
