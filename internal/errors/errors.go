// Package errors provides structured error types and exit codes for colorparity.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Exit codes returned by the CLI.
const (
	ExitSuccess          = 0 // Success
	ExitRuntimeError     = 1 // Runtime error or a failed run gate
	ExitConfigError      = 2 // Configuration error (invalid corpus, tolerances, flags)
	ExitEnvironmentError = 3 // Environment error (engine binary missing, etc.)
)

// ErrorKind represents the type of error.
type ErrorKind int

const (
	KindRuntime ErrorKind = iota
	KindConfig
	KindNotFound
	KindValidation
	KindEnvironment
	KindInvalidArgument
	KindAllocation
)

// String returns a short name for the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindNotFound:
		return "not-found"
	case KindValidation:
		return "validation"
	case KindEnvironment:
		return "environment"
	case KindInvalidArgument:
		return "invalid-argument"
	case KindAllocation:
		return "allocation"
	default:
		return "runtime"
	}
}

// ParityError is the base error type for colorparity.
type ParityError struct {
	Kind    ErrorKind
	Message string
	Case    string // Input case ID if applicable
	Engine  string // Engine name if applicable
	Cause   error  // Underlying error
}

func (e *ParityError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	if e.Case != "" && e.Engine != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Case, e.Engine, msg)
	}
	if e.Case != "" {
		return fmt.Sprintf("[%s] %s", e.Case, msg)
	}
	return msg
}

func (e *ParityError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the appropriate exit code for this error.
func (e *ParityError) ExitCode() int {
	switch e.Kind {
	case KindConfig, KindValidation:
		return ExitConfigError
	case KindEnvironment:
		return ExitEnvironmentError
	default:
		return ExitRuntimeError
	}
}

// New creates a new runtime error.
func New(message string) *ParityError {
	return &ParityError{
		Kind:    KindRuntime,
		Message: message,
	}
}

// Newf creates a new runtime error with formatting.
func Newf(format string, args ...interface{}) *ParityError {
	return New(fmt.Sprintf(format, args...))
}

// Config creates a new configuration error.
func Config(message string) *ParityError {
	return &ParityError{
		Kind:    KindConfig,
		Message: message,
	}
}

// Configf creates a new configuration error with formatting.
func Configf(format string, args ...interface{}) *ParityError {
	return Config(fmt.Sprintf(format, args...))
}

// Validation wraps a schema or semantic validation failure of an input file.
func Validation(err error, message string) *ParityError {
	return &ParityError{
		Kind:    KindValidation,
		Message: message,
		Cause:   err,
	}
}

// Environment creates a new environment error.
func Environment(message string) *ParityError {
	return &ParityError{
		Kind:    KindEnvironment,
		Message: message,
	}
}

// Environmentf creates a new environment error with formatting.
func Environmentf(format string, args ...interface{}) *ParityError {
	return Environment(fmt.Sprintf(format, args...))
}

// InvalidArgument reports a nil or malformed input to a core operation.
func InvalidArgument(message string) *ParityError {
	return &ParityError{
		Kind:    KindInvalidArgument,
		Message: message,
	}
}

// Allocation reports that an operation would exceed its resource limits.
func Allocation(message string) *ParityError {
	return &ParityError{
		Kind:    KindAllocation,
		Message: message,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) *ParityError {
	return &ParityError{
		Kind:    KindRuntime,
		Message: message,
		Cause:   err,
	}
}

// EngineError creates an error for a specific case and engine.
func EngineError(caseID, engine string, err error) *ParityError {
	return &ParityError{
		Kind:    KindRuntime,
		Case:    caseID,
		Engine:  engine,
		Message: "engine failed",
		Cause:   err,
	}
}

// NotFound creates a not found error.
func NotFound(what, name string) *ParityError {
	return &ParityError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found: %s", what, name),
	}
}

// IsKind reports whether any ParityError in err's chain has the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var pe *ParityError
	for err != nil {
		if !stderrors.As(err, &pe) {
			return false
		}
		if pe.Kind == kind {
			return true
		}
		err = pe.Cause
	}
	return false
}

// GetExitCode returns the exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var pe *ParityError
	if stderrors.As(err, &pe) {
		return pe.ExitCode()
	}
	return ExitRuntimeError
}
