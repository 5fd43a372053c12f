package doctor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/thoreinstein/ueb/internal/backup"
	"github.com/thoreinstein/ueb/internal/errors"
	"github.com/thoreinstein/ueb/internal/project"
	"github.com/thoreinstein/ueb/internal/rules"
	"github.com/thoreinstein/ueb/pkg/fileutil"
)

// ConfigCheck reports the outcome of loading the config file.
type ConfigCheck struct {
	// Path is the file that was read, "" when defaults applied.
	Path string
	// Err is the load error, if any.
	Err error
}

var _ Check = (*ConfigCheck)(nil)

func (c *ConfigCheck) Name() string     { return "config-file" }
func (c *ConfigCheck) Category() string { return "config" }

func (c *ConfigCheck) Run(context.Context) *CheckResult {
	switch {
	case c.Err != nil:
		return failure(c.Err.Error(), "Fix the config file, or move it away to use defaults")
	case c.Path == "":
		return info("no config file, using defaults")
	default:
		return pass("loaded " + c.Path)
	}
}

// SourceCheck verifies the source is a directory holding an Unreal project.
type SourceCheck struct {
	Source string
}

var _ Check = (*SourceCheck)(nil)

func (c *SourceCheck) Name() string     { return "source" }
func (c *SourceCheck) Category() string { return "source" }

func (c *SourceCheck) Run(context.Context) *CheckResult {
	fi, err := os.Stat(c.Source)
	switch {
	case err != nil:
		return failure(fmt.Sprintf("%s: %v", c.Source, err), "Pass the project folder as SOURCE")
	case !fi.IsDir():
		return failure(c.Source+" is not a directory", "Pass the project folder, not a file")
	}

	descriptor, err := project.Descriptor(c.Source)
	if err != nil {
		return failure(fmt.Sprintf("reading %s: %v", c.Source, err), "")
	}
	if descriptor == "" {
		return warning("no "+project.Extension+" file in "+c.Source,
			"Check that SOURCE is the project folder and not its parent; try: ueb projects "+c.Source)
	}
	return pass(filepath.Base(descriptor))
}

// IgnoreFileCheck validates every line of the project's ignore file. A
// backup stops at the first bad line; this check lists all of them.
type IgnoreFileCheck struct {
	Source string
	// File is the ignore file name, rules.DefaultIgnoreFile when empty.
	File string
}

var _ Check = (*IgnoreFileCheck)(nil)

func (c *IgnoreFileCheck) Name() string     { return "ignore-file" }
func (c *IgnoreFileCheck) Category() string { return "rules" }

func (c *IgnoreFileCheck) Run(context.Context) *CheckResult {
	name := c.File
	if name == "" {
		name = rules.DefaultIgnoreFile
	}

	lines, err := fileutil.ReadPatternLines(filepath.Join(c.Source, name))
	switch {
	case errors.Is(err, os.ErrNotExist):
		return info("no " + name + " file")
	case err != nil:
		return failure(fmt.Sprintf("reading %s: %v", name, err), "")
	}

	var bad []string
	for _, l := range lines {
		if err := rules.ValidatePattern(l.Text); err != nil {
			bad = append(bad, fmt.Sprintf("%s:%d: %s", name, l.Number, l.Text))
		}
	}
	if len(bad) > 0 {
		r := failure(fmt.Sprintf("%d invalid pattern(s) in %s", len(bad), name),
			"Fix or remove the listed lines; patterns use glob syntax (* ? [abc])")
		r.Details = map[string]any{"lines": bad}
		return r
	}
	return pass(fmt.Sprintf("%d pattern(s) in %s", len(lines), name))
}

// DryRunCheck performs a dry run and compares the bytes it would copy with
// the free space on the destination volume.
type DryRunCheck struct {
	Options       backup.Options
	RunnerOptions []backup.Option
}

var _ Check = (*DryRunCheck)(nil)

func (c *DryRunCheck) Name() string     { return "dry-run" }
func (c *DryRunCheck) Category() string { return "destination" }

func (c *DryRunCheck) Run(ctx context.Context) *CheckResult {
	opts := c.Options
	opts.DryRun = true

	runner, err := backup.New(opts, c.RunnerOptions...)
	if err != nil {
		var exitErr *errors.ExitError
		hint := ""
		if errors.As(err, &exitErr) {
			hint = exitErr.Suggestion
		}
		return failure(err.Error(), hint)
	}

	stats, err := runner.Run(ctx)
	if err != nil {
		return failure(err.Error(), "")
	}

	details := map[string]any{
		"destination":  stats.Destination,
		"files":        stats.Copied,
		"bytes":        stats.BytesCopied,
		"free_bytes":   stats.DestinationFree,
		"warnings":     len(stats.Warnings),
		"excluded":     stats.Excluded,
		"already_done": stats.Skipped,
	}

	need := uint64(max(stats.BytesCopied, 0))
	if stats.DestinationFree > 0 && need > stats.DestinationFree {
		r := failure(fmt.Sprintf("needs %s but only %s free on the destination volume",
			humanize.IBytes(need), humanize.IBytes(stats.DestinationFree)),
			"Free up space on the target volume or choose another TARGET")
		r.Details = details
		return r
	}

	if n := len(stats.Warnings); n > 0 {
		first := stats.Warnings[0]
		r := warning(fmt.Sprintf("%d file(s) would be skipped, e.g. %s (%s)", n, first.Path, first.Reason),
			"Close the Unreal Editor and other tools holding files open before the backup")
		r.Details = details
		return r
	}

	msg := fmt.Sprintf("%d file(s), %s to copy", stats.Copied, humanize.IBytes(need))
	if stats.DestinationFree > 0 {
		msg += fmt.Sprintf(", %s free", humanize.IBytes(stats.DestinationFree))
	}
	r := pass(msg)
	r.Details = details
	return r
}
