// Package backup runs one incremental backup of a project tree.
//
// A [Runner] is created with [New], which resolves the source and target,
// refuses configurations that cannot work (missing source, destination
// inside the source, unwritable destination, invalid exclude patterns) and
// builds the rule matcher from the built-in table, the config excludes and
// the project's .backupignore. [Runner.Run] then walks the source once:
//
//   - excluded directories are pruned and, with size accounting on, their
//     contents are summed as avoided bytes
//   - included regular files are compared with their previous copy under
//     <target>/<source name> and copied only when missing, resized or newer
//   - per-file failures (locked, permission denied, disk full and so on)
//     become warnings and the run continues
//
// Every entry the walk reaches ends up in exactly one of excluded, copied,
// skipped or failed, and a dry run reports the same counts as the real run
// would without writing anything.
//
// # Cancellation
//
// Run checks its context between files. A cancelled run returns the partial
// [Stats] together with the context error; files are copied atomically, so
// nothing half-written is left under its final name.
package backup
