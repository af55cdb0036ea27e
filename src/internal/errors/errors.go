// Package errors provides domain-specific error types for the block-ip application.
//
// Every failure of a run maps to one of the error codes below, so the entry
// point and the tests can tell a usage problem from an unsupported host or a
// failed firewall mutation without parsing messages.
package errors

import "fmt"

// ErrorCode represents a category of error that can occur in the application.
type ErrorCode string

const (
	// ErrCodeUsage indicates a command-line usage error (missing address).
	ErrCodeUsage ErrorCode = "USAGE_ERROR"

	// ErrCodeEnvironment indicates an unsupported or undetectable distribution.
	ErrCodeEnvironment ErrorCode = "ENVIRONMENT_ERROR"

	// ErrCodeDependency indicates a failed package query or installation.
	ErrCodeDependency ErrorCode = "DEPENDENCY_ERROR"

	// ErrCodeMutation indicates a failed firewall rule check or addition.
	ErrCodeMutation ErrorCode = "MUTATION_ERROR"

	// ErrCodePersistence indicates a failed save, enable or start command.
	ErrCodePersistence ErrorCode = "PERSISTENCE_ERROR"

	// ErrCodeConfig indicates a configuration-related error.
	ErrCodeConfig ErrorCode = "CONFIG_ERROR"

	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Error represents a domain-specific error with an error code and optional cause.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error for errors.Is and errors.As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target error code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a new domain error with the specified code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new domain error wrapping an existing error.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// CodeOf returns the code of the first *Error in err's chain, or an empty code.
func CodeOf(err error) ErrorCode {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}

// NewUsageError creates a new usage error.
func NewUsageError(message string) *Error {
	return New(ErrCodeUsage, message)
}

// NewEnvironmentError creates a new environment error.
func NewEnvironmentError(message string, cause error) *Error {
	return Wrap(ErrCodeEnvironment, message, cause)
}

// NewDependencyError creates a new dependency error.
func NewDependencyError(message string, cause error) *Error {
	return Wrap(ErrCodeDependency, message, cause)
}

// NewMutationError creates a new firewall mutation error.
func NewMutationError(message string, cause error) *Error {
	return Wrap(ErrCodeMutation, message, cause)
}

// NewPersistenceError creates a new persistence error.
func NewPersistenceError(message string, cause error) *Error {
	return Wrap(ErrCodePersistence, message, cause)
}

// NewConfigError creates a new configuration error.
func NewConfigError(message string, cause error) *Error {
	return Wrap(ErrCodeConfig, message, cause)
}

// NewInternalError creates a new internal error.
func NewInternalError(message string, cause error) *Error {
	return Wrap(ErrCodeInternal, message, cause)
}
