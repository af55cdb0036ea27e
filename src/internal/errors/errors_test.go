package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "error without cause",
			err:      &Error{Code: ErrCodeUsage, Message: "no IP address provided"},
			expected: "[USAGE_ERROR] no IP address provided",
		},
		{
			name:     "error with cause",
			err:      Wrap(ErrCodeMutation, "failed to add iptables rule for 10.0.0.5", errors.New("exit status 2")),
			expected: "[MUTATION_ERROR] failed to add iptables rule for 10.0.0.5: exit status 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeInternal, "wrapper", cause)

	if unwrapped := err.Unwrap(); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}
	if !errors.Is(err, cause) {
		t.Errorf("Expected errors.Is to find the cause")
	}
}

func TestError_Is(t *testing.T) {
	err1 := &Error{Code: ErrCodeDependency, Message: "dpkg failed"}
	err2 := &Error{Code: ErrCodeDependency, Message: "apt failed"}
	err3 := &Error{Code: ErrCodePersistence, Message: "save failed"}

	if !err1.Is(err2) {
		t.Errorf("Expected errors with same code to match")
	}
	if err1.Is(err3) {
		t.Errorf("Expected errors with different codes to not match")
	}
	if err1.Is(errors.New("plain")) {
		t.Errorf("Expected plain errors to not match")
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"nil", nil, ""},
		{"plain", errors.New("plain"), ""},
		{"direct", NewEnvironmentError("unsupported distribution", nil), ErrCodeEnvironment},
		{"wrapped", fmt.Errorf("run: %w", NewPersistenceError("save", nil)), ErrCodePersistence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConstructors(t *testing.T) {
	cause := errors.New("cause")

	tests := []struct {
		name string
		err  *Error
		code ErrorCode
	}{
		{"usage", NewUsageError("missing argument"), ErrCodeUsage},
		{"environment", NewEnvironmentError("unknown", cause), ErrCodeEnvironment},
		{"dependency", NewDependencyError("install", cause), ErrCodeDependency},
		{"mutation", NewMutationError("append", cause), ErrCodeMutation},
		{"persistence", NewPersistenceError("save", cause), ErrCodePersistence},
		{"config", NewConfigError("parse", cause), ErrCodeConfig},
		{"internal", NewInternalError("bug", cause), ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Expected code %v, got %v", tt.code, tt.err.Code)
			}
			if tt.code != ErrCodeUsage && tt.err.Cause != cause {
				t.Errorf("Expected cause to be preserved")
			}
		})
	}
}
