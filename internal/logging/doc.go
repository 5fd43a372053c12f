// Package logging provides structured logging for the ueb CLI using slog.
//
// Text output goes through [Handler], which colors levels on a terminal
// and prints byte-count attributes in human units. JSON output uses the
// standard library handler. [MultiHandler] fans records out to several
// handlers, which is how --log-file mirrors console output into a rotated
// JSON file.
//
// Verbosity maps onto levels with [LevelFromVerbosity]:
//
//	ueb backup ...        warnings and the summary
//	ueb backup -v ...     run progress
//	ueb backup -vv ...    per-file decisions (copy, skip, exclude)
//	ueb backup -vvv ...   every walked entry ([LevelTrace])
//
// Tests use [ForTest] so log lines land in the test output.
package logging
