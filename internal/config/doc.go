// Package config loads the optional ueb configuration file.
//
// The file is config.yaml, searched first in the working directory and then
// in the user config directory (~/.config/ueb on Linux). Every key can be
// overridden with a UEB_ environment variable, and command line flags
// override both:
//
//	version: 1
//	include_saved: false
//	include_build: false
//	exclude_engine: false
//	size_summary: true
//	ignore_file: .backupignore
//	mtime_tolerance: 1s
//	excludes:
//	  - "*.psd"
//	  - /Content/Movies/
//
// A missing file is not an error unless it was named explicitly with
// --config. [Load] validates what it reads; see [Validate].
package config
