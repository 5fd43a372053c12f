// Package errors provides error handling conventions for the ueb CLI.
//
// It wraps [github.com/cockroachdb/errors] so callers get stack traces and
// message annotation from a single import, defines sentinel errors for the
// configuration failures that abort a backup run, and provides an ExitError
// type carrying a process exit code.
//
// # Sentinel Errors
//
// Sentinel errors allow callers to check for specific error conditions
// using [Is]:
//
//	if errors.Is(err, errors.ErrSourceNotFound) {
//	    // nothing to back up
//	}
//
// # Exit Codes
//
//   - ExitSuccess (0): Command completed successfully (warnings included)
//   - ExitUser (1): User-related error (invalid input, configuration, etc.)
//   - ExitSystem (2): System-related error (I/O, permissions, etc.)
//
// # ExitError
//
// [ExitError] wraps an underlying error with an exit code and optional
// suggestion:
//
//	err := errors.NewUserError(errors.ErrSourceNotFound, "Check the SOURCE argument")
//	os.Exit(errors.ExitCode(err))
package errors
