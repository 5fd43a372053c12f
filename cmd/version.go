// Package cmd holds build information injected with -ldflags "-X ...".
package cmd

// Build-time variables set via ldflags, e.g.
// -X github.com/thoreinstein/ueb/cmd.Version=v1.2.0.
var (
	// Version is the release version.
	Version = "dev"
	// Commit is the git commit the binary was built from.
	Commit = "none"
	// Date is the build timestamp.
	Date = "unknown"
)
