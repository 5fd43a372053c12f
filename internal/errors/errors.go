package errors

import (
	"fmt"

	crdb "github.com/cockroachdb/errors"
)

// Exit codes for CLI applications.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitUser indicates a user-related error (invalid input, configuration, etc.).
	ExitUser = 1

	// ExitSystem indicates a system-related error (I/O, permissions, etc.).
	ExitSystem = 2
)

// Sentinel errors for conditions that abort a run before any file is copied.
var (
	// ErrSourceNotFound indicates the source root does not exist.
	ErrSourceNotFound = crdb.New("source path does not exist")

	// ErrSourceNotDir indicates the source root is not a directory.
	ErrSourceNotDir = crdb.New("source path is not a directory")

	// ErrDestinationNotWritable indicates the destination root cannot be written.
	ErrDestinationNotWritable = crdb.New("destination is not writable")

	// ErrDestinationInsideSource indicates the destination lies within the source tree.
	ErrDestinationInsideSource = crdb.New("destination is inside the source tree")

	// ErrInvalidPattern indicates a malformed include/exclude pattern.
	ErrInvalidPattern = crdb.New("invalid pattern")

	// ErrInvalidConfig indicates configuration validation failed.
	ErrInvalidConfig = crdb.New("invalid configuration")

	// ErrNotFound indicates the requested resource was not found.
	ErrNotFound = crdb.New("resource not found")
)

// New returns an error with a stack trace attached.
func New(msg string) error {
	return crdb.New(msg)
}

// Newf formats an error message and attaches a stack trace.
func Newf(format string, args ...any) error {
	return crdb.Newf(format, args...)
}

// Wrap annotates err with msg. Wrap returns nil if err is nil.
func Wrap(err error, msg string) error {
	return crdb.Wrap(err, msg)
}

// Wrapf annotates err with a formatted message. Wrapf returns nil if err is nil.
func Wrapf(err error, format string, args ...any) error {
	return crdb.Wrapf(err, format, args...)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return crdb.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return crdb.As(err, target)
}

// Join returns an error wrapping every non-nil error in errs.
func Join(errs ...error) error {
	return crdb.Join(errs...)
}

// Mark makes err match reference under Is without changing its message.
func Mark(err, reference error) error {
	return crdb.Mark(err, reference)
}

// ExitError wraps an error with an exit code and optional suggestion for CLI applications.
// It implements the error interface and supports unwrapping via errors.Unwrap.
type ExitError struct {
	// Err is the underlying error that caused the exit.
	Err error

	// Code is the exit code to return to the operating system.
	Code int

	// Suggestion is an optional actionable suggestion for the user.
	Suggestion string
}

// NewExitError creates an ExitError with the given underlying error and exit code.
// If err is nil, the returned ExitError will have a nil Err field.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{
		Err:  err,
		Code: code,
	}
}

// NewUserError creates an ExitError with ExitUser code and a suggestion.
func NewUserError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitUser,
		Suggestion: suggestion,
	}
}

// NewSystemError creates an ExitError with ExitSystem code and a suggestion.
func NewSystemError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitSystem,
		Suggestion: suggestion,
	}
}

// NewConfigError creates an ExitError with ExitUser code and a standard suggestion.
func NewConfigError(err error) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitUser,
		Suggestion: "Check the config file, or run: ueb rules",
	}
}

// Error returns the error message from the underlying error.
// If the underlying error is nil, it returns a generic message with the exit code.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error, enabling errors.Is and errors.As
// to examine the error chain.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode returns the exit code carried by err.
// Errors without an ExitError in their chain map to ExitSystem; nil maps to ExitSuccess.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitSystem
}
