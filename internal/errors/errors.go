// Package errors provides centralized error definitions and error handling utilities
// for tailpin. It defines sentinel errors, domain error types with context
// wrapping, and classification helpers.
//
// # Error Types
//
// Domain-specific errors represent errors from specific subsystems:
//   - EngineError: errors raised while constructing or driving a scroll-lock engine
//   - TailError: errors related to watching and reading followed files
//
// # Usage
//
// Creating errors:
//
//	err := errors.NewEngineError("cannot attach", errors.ErrNoTarget)
//	err := errors.NewTailError("read failed", baseErr).WithFile("app.log")
//
// Checking errors:
//
//	if errors.Is(err, errors.ErrNoTarget) { ... }
//
//	var tailErr *errors.TailError
//	if errors.As(err, &tailErr) { ... }
//
//	if errors.IsRetryable(err) { ... }
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning Severity = iota
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that stop the program.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Engine-related sentinel errors
var (
	// ErrNoTarget indicates that an engine was constructed without a scroll target.
	ErrNoTarget = New("no scroll target")
	// ErrNoEnvironment indicates that an engine was constructed without a host environment.
	ErrNoEnvironment = New("no host environment")
	// ErrInvalidPosition indicates an initial position that is neither top, bottom nor a number.
	ErrInvalidPosition = New("invalid initial position")
)

// Host-related sentinel errors
var (
	// ErrNotATerminal indicates that stdout is not attached to a terminal.
	ErrNotATerminal = New("stdout is not a terminal")
	// ErrWatcherUnavailable indicates that file system notifications could not be set up.
	ErrWatcherUnavailable = New("file watcher unavailable")
	// ErrInvalidPattern indicates a glob pattern that does not compile.
	ErrInvalidPattern = New("invalid file pattern")
)

// -----------------------------------------------------------------------------
// Base Error Implementation
// -----------------------------------------------------------------------------

// baseError provides common functionality for all error types.
type baseError struct {
	message   string
	cause     error
	severity  Severity
	retryable bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsRetryable returns whether the error is retryable.
func (e *baseError) IsRetryable() bool {
	return e.retryable
}

// classified is implemented by every error type in this package.
type classified interface {
	error
	Severity() Severity
	IsRetryable() bool
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// EngineError represents errors raised by the scroll-lock engine.
//
// Example:
//
//	err := errors.NewEngineError("cannot attach", errors.ErrNoTarget)
//	fmt.Println(err) // "engine error: cannot attach: no scroll target"
type EngineError struct {
	baseError
	Position string
}

// NewEngineError creates a new EngineError.
func NewEngineError(message string, cause error) *EngineError {
	return &EngineError{
		baseError: baseError{
			message:  message,
			cause:    cause,
			severity: SeverityCritical,
		},
	}
}

// WithPosition records the initial position that was being applied.
func (e *EngineError) WithPosition(position string) *EngineError {
	e.Position = position
	return e
}

// Error returns the formatted error message.
func (e *EngineError) Error() string {
	prefix := "engine error"
	if e.Position != "" {
		prefix = fmt.Sprintf("engine error [position=%s]", e.Position)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// TailError represents errors related to following files.
//
// Example:
//
//	err := errors.NewTailError("read failed", io.ErrUnexpectedEOF).WithFile("app.log")
//	fmt.Println(err) // "tail error [file=app.log]: read failed: unexpected EOF"
type TailError struct {
	baseError
	File string
	Dir  string
}

// NewTailError creates a new TailError. Tail errors are retryable by default
// because a file that vanished or was rotated often reappears.
func NewTailError(message string, cause error) *TailError {
	return &TailError{
		baseError: baseError{
			message:   message,
			cause:     cause,
			severity:  SeverityWarning,
			retryable: true,
		},
	}
}

// WithFile adds a file path to the error context.
func (e *TailError) WithFile(path string) *TailError {
	e.File = path
	return e
}

// WithDir adds the watched directory to the error context.
func (e *TailError) WithDir(dir string) *TailError {
	e.Dir = dir
	return e
}

// WithSeverity sets the error severity.
func (e *TailError) WithSeverity(s Severity) *TailError {
	e.severity = s
	return e
}

// WithRetryable sets whether the error is retryable.
func (e *TailError) WithRetryable(r bool) *TailError {
	e.retryable = r
	return e
}

// Error returns the formatted error message.
func (e *TailError) Error() string {
	var parts []string
	if e.Dir != "" {
		parts = append(parts, fmt.Sprintf("dir=%s", e.Dir))
	}
	if e.File != "" {
		parts = append(parts, fmt.Sprintf("file=%s", e.File))
	}

	prefix := "tail error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("tail error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// -----------------------------------------------------------------------------
// Classification
// -----------------------------------------------------------------------------

// IsRetryable returns true if the error is transient and the operation may
// succeed if attempted again.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var c classified
	if As(err, &c) {
		return c.IsRetryable()
	}
	return false
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't come from this package.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityWarning
	}
	var c classified
	if As(err, &c) {
		return c.Severity()
	}
	return SeverityError
}

// Wrap wraps an error with additional context message.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
