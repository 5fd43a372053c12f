package backup

import (
	"time"

	"github.com/thoreinstein/ueb/internal/change"
	"github.com/thoreinstein/ueb/internal/rules"
	"github.com/thoreinstein/ueb/internal/sizes"
)

// Options describes one backup run.
type Options struct {
	// Source is the project root to back up.
	Source string
	// Target is the backup root. Files land in Target/<base name of Source>.
	Target string

	// Mode selects incremental (default) or full copying.
	Mode change.Mode
	// DryRun classifies and counts everything without writing.
	DryRun bool
	// SizeSummary enables eligible/avoided/copied byte accounting.
	SizeSummary bool
	// Tolerance is the modification time granularity used by the change
	// detector. Zero means change.DefaultTolerance.
	Tolerance time.Duration

	// Rules toggles built-in rules and names the ignore file.
	Rules rules.Options
	// Excludes are extra user patterns, typically from the config file.
	Excludes []string
}

// Warning is a recoverable problem with one path.
type Warning struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
	Error  string `json:"error,omitempty"`
}

// Stats is the result of one run. It is filled in during the walk and read
// once by the reporter.
type Stats struct {
	RunID       string      `json:"run_id"`
	Source      string      `json:"source"`
	Destination string      `json:"destination"`
	Mode        change.Mode `json:"mode"`
	DryRun      bool        `json:"dry_run"`

	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration_ns"`

	// Scanned counts included regular files, including ones that failed.
	Scanned int `json:"scanned"`
	// Copied counts files copied, or that would be copied in a dry run.
	Copied int `json:"copied"`
	// Skipped counts files whose destination copy is up to date.
	Skipped int `json:"skipped"`
	// Excluded counts pruned directories and excluded files.
	Excluded int `json:"excluded"`
	// Failed counts files that produced a warning instead of a copy.
	Failed int `json:"failed"`

	Warnings    []Warning `json:"warnings"`
	BytesCopied int64     `json:"bytes_copied"`

	// Sizes is set when size accounting was enabled.
	Sizes *sizes.Totals `json:"sizes,omitempty"`
	// DestinationFree is the free space on the destination volume after the
	// run, when it could be determined.
	DestinationFree uint64 `json:"destination_free_bytes,omitempty"`

	// Interrupted is set when the run was cancelled before the walk ended.
	Interrupted bool `json:"interrupted,omitempty"`
}

func (s *Stats) warn(path, reason string, err error) {
	w := Warning{Path: path, Reason: reason}
	if err != nil {
		w.Error = err.Error()
	}
	s.Warnings = append(s.Warnings, w)
}
