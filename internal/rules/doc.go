// Package rules decides which paths of a project tree belong in a backup.
//
// A [Matcher] combines three rule groups:
//
//   - user excludes, from the per-project .backupignore file and the
//     config file's excludes list
//   - built-in excludes for regeneratable Unreal Engine folders
//     (DerivedDataCache, Intermediate, Binaries, IDE folders, Saved and
//     Build by default) and VC database files
//   - an include allowlist (Content, Config, Source, Plugins, .git,
//     *.uproject, solution files) that only marks paths as priority
//
// User excludes win over everything. Built-in excludes win unless the
// run switched them off (--include-saved, --include-build). Everything
// else is included.
//
// Excluding a directory is terminal: the walker does not descend into it.
//
// See [Rule] for the pattern syntax.
package rules
