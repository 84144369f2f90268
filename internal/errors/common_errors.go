package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType is the failure class of an AppError
type ErrorType string

const (
	ErrTypeMalformedInput ErrorType = "MALFORMED_INPUT"
	ErrTypeMissingColumn  ErrorType = "MISSING_COLUMN"
	ErrTypeConvergence    ErrorType = "CONVERGENCE"
	ErrTypeStorage        ErrorType = "STORAGE"
	ErrTypeValidation     ErrorType = "VALIDATION"
	ErrTypeConfig         ErrorType = "CONFIG"
)

// recoverable classes are reported but never stop a run
var recoverable = map[ErrorType]bool{
	ErrTypeMissingColumn: true,
	ErrTypeConvergence:   true,
}

// AppError is a classified error. Context carries the values a log line
// needs to locate the problem (column, file, iteration count).
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("[%s] %s", e.Type, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
}

func (e *AppError) Unwrap() error { return e.Cause }

// WithContext sets key and returns e for chaining
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = map[string]interface{}{}
	}
	e.Context[key] = value
	return e
}

func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{Type: errType, Message: message, Cause: cause, Context: map[string]interface{}{}}
}

// NewMalformedInputError reports an input file that cannot be read as a table
func NewMalformedInputError(message string, cause error) *AppError {
	return NewAppError(ErrTypeMalformedInput, message, cause)
}

// NewMissingColumnError reports a column a stage or rule needs but the table lacks
func NewMissingColumnError(column string) *AppError {
	return NewAppError(ErrTypeMissingColumn, "column "+column+" not found", nil).
		WithContext("column", column)
}

// NewConvergenceError reports an iterative imputation that hit its iteration cap
func NewConvergenceError(iterations int, delta float64) *AppError {
	return NewAppError(ErrTypeConvergence, fmt.Sprintf("no convergence after %d iterations", iterations), nil).
		WithContext("iterations", iterations).
		WithContext("delta", delta)
}

func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewAppValidationError reports static tables that contradict each other
func NewAppValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// TypeOf returns the type of the first AppError in the chain, or "" if none
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// IsFatal reports whether err must abort the run. A joined error is fatal
// when any of its parts is; a single error is fatal unless it is a missing
// column or a non-convergence.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, part := range joined.Unwrap() {
			if IsFatal(part) {
				return true
			}
		}
		return false
	}
	return !recoverable[TypeOf(err)]
}
