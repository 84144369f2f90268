package operations

import (
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "jefabcli/internal/errors"
)

// ErrorType classifies why a step stopped
type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeExecution    ErrorType = "execution"
	ErrorTypeTimeout      ErrorType = "timeout"
	ErrorTypeCancellation ErrorType = "cancellation"
	ErrorTypeFatal        ErrorType = "fatal"
)

// OperationError is an error raised while running a step
type OperationError struct {
	Type    ErrorType     `json:"type"`
	Step    string        `json:"step,omitempty"`
	Message string        `json:"message"`
	Timeout time.Duration `json:"timeout,omitempty"`
	Cause   error         `json:"-"`
}

// Error renders "[type] step: message: cause", omitting empty parts
func (e *OperationError) Error() string {
	if e == nil {
		return "unknown operation error"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] ", e.Type)
	if e.Step != "" {
		b.WriteString(e.Step + ": ")
	}
	b.WriteString(e.Message)
	if e.Cause != nil {
		b.WriteString(": " + e.Cause.Error())
	}
	return b.String()
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NewValidationError reports that a step does not apply to the table.
// The manager skips the step unless the error is fatal.
func NewValidationError(step, message string) *OperationError {
	return &OperationError{Type: ErrorTypeValidation, Step: step, Message: message}
}

func NewExecutionError(step string, cause error) *OperationError {
	return &OperationError{Type: ErrorTypeExecution, Step: step, Message: "Step execution failed", Cause: cause}
}

func NewTimeoutError(step string, timeout time.Duration, cause error) *OperationError {
	return &OperationError{
		Type:    ErrorTypeTimeout,
		Step:    step,
		Message: "Step exceeded timeout of " + timeout.String(),
		Timeout: timeout,
		Cause:   cause,
	}
}

func NewCancellationError(step string, cause error) *OperationError {
	return &OperationError{Type: ErrorTypeCancellation, Step: step, Message: "run was cancelled", Cause: cause}
}

// NewFatalError stops the run regardless of the step
func NewFatalError(message string, cause error) *OperationError {
	return &OperationError{Type: ErrorTypeFatal, Message: message, Cause: cause}
}

// GetErrorType returns the type of the outermost OperationError in err's
// chain. Errors outside this package count as execution errors.
func GetErrorType(err error) ErrorType {
	if err == nil {
		return ""
	}
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return opErr.Type
	}
	return ErrorTypeExecution
}

// IsFatal reports whether a step error must stop the run. Errors that carry
// only recoverable application errors (missing columns, non-convergence) are
// not fatal; everything else is.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	switch GetErrorType(err) {
	case ErrorTypeFatal, ErrorTypeCancellation, ErrorTypeTimeout:
		return true
	}
	return apperrors.IsFatal(err)
}

// WrapError attributes err to step. An OperationError already in the chain
// is reused, gaining the step when it has none.
func WrapError(err error, step string, message string) *OperationError {
	if err == nil {
		return nil
	}

	var opErr *OperationError
	if !errors.As(err, &opErr) {
		return &OperationError{Type: ErrorTypeExecution, Step: step, Message: message, Cause: err}
	}
	if opErr.Step == "" {
		opErr.Step = step
	}
	if message != "" {
		opErr.Message = message + ": " + opErr.Message
	}
	return opErr
}
