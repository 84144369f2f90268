package operations_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	apperrors "jefabcli/internal/errors"
	"jefabcli/internal/operations"
)

func TestIsFatal(t *testing.T) {
	missing := apperrors.NewMissingColumnError("HIJOS_EN_HOGAR")
	convergence := apperrors.NewConvergenceError(10, 0.5)

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "missing column", err: missing, want: false},
		{name: "joined recoverable", err: errors.Join(missing, convergence), want: false},
		{name: "wrapped recoverable", err: operations.NewExecutionError("rules", missing), want: false},
		{name: "malformed input", err: apperrors.NewMalformedInputError("ragged row", nil), want: true},
		{name: "plain error", err: errors.New("boom"), want: true},
		{name: "fatal", err: operations.NewFatalError("no table loaded", nil), want: true},
		{name: "cancelled", err: operations.NewCancellationError("impute", context.Canceled), want: true},
		{name: "timeout", err: operations.NewTimeoutError("impute", time.Second, context.DeadlineExceeded), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, operations.IsFatal(tt.err))
		})
	}
}

func TestOperationError_Format(t *testing.T) {
	err := operations.NewExecutionError("impute", errors.New("singular"))
	assert.Equal(t, "[execution] impute: Step execution failed: singular", err.Error())

	fatal := operations.NewFatalError("no table loaded", nil)
	assert.Equal(t, "[fatal] no table loaded", fatal.Error())

	var nilErr *operations.OperationError
	assert.Equal(t, "unknown operation error", nilErr.Error())
}

func TestWrapError(t *testing.T) {
	assert.Nil(t, operations.WrapError(nil, "rules", "x"))

	cause := errors.New("disk full")
	wrapped := operations.WrapError(cause, "impute", "step execution failed")
	assert.Equal(t, operations.ErrorTypeExecution, wrapped.Type)
	assert.Equal(t, "impute", wrapped.Step)
	assert.ErrorIs(t, wrapped, cause)

	inner := operations.NewFatalError("no table loaded", nil)
	again := operations.WrapError(fmt.Errorf("outer: %w", inner), "normalize", "")
	assert.Same(t, inner, again)
	assert.Equal(t, "normalize", again.Step)
	assert.Equal(t, operations.ErrorTypeFatal, operations.GetErrorType(again))
}
