// Package copier copies one file into the backup tree, or simulates the copy
// in dry-run mode, without ever failing the run: errors come back as a
// classified Result.
package copier

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/thoreinstein/ueb/internal/errors"
	"github.com/thoreinstein/ueb/pkg/fileutil"
)

// Outcome is what happened to one file.
type Outcome int

const (
	// Copied means the file was written to the destination.
	Copied Outcome = iota
	// SkippedDryRun means the file would have been copied.
	SkippedDryRun
	// Failed means the copy was attempted and did not complete.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Copied:
		return "copied"
	case SkippedDryRun:
		return "would copy"
	default:
		return "failed"
	}
}

// Result describes one copy attempt.
type Result struct {
	Outcome Outcome
	// Bytes is the number of bytes copied, or the source size in dry-run mode.
	Bytes int64
	// Reason classifies Err; empty on success.
	Reason Reason
	Err    error
}

// OK reports whether the file counts as copied.
func (r Result) OK() bool {
	return r.Outcome != Failed
}

// DirMode is the permission for destination directories.
const DirMode fs.FileMode = 0o755

// OpenFunc opens a source file for reading.
type OpenFunc func(name string) (fs.File, error)

func openFile(name string) (fs.File, error) {
	return os.Open(name)
}

// Executor performs copies into one destination tree. It remembers which
// destination directories it has already created.
type Executor struct {
	dryRun bool
	open   OpenFunc
	made   map[string]struct{}
}

// Option configures an Executor.
type Option func(*Executor)

// WithOpener replaces os.Open for source files. Every read of a source,
// including the dry-run check, goes through it.
func WithOpener(open OpenFunc) Option {
	return func(x *Executor) {
		x.open = open
	}
}

// New returns an Executor. With dryRun set no file or directory is written.
func New(dryRun bool, opts ...Option) *Executor {
	x := &Executor{
		dryRun: dryRun,
		open:   openFile,
		made:   make(map[string]struct{}),
	}
	for _, o := range opts {
		o(x)
	}
	return x
}

// Copy copies src to dst.
//
// The source is opened first, so a locked or unreadable file fails the same
// way in both modes. In dry-run mode it is then closed and nothing is
// written. Otherwise the parent directory of dst is created if needed and
// the file is copied atomically (see fileutil.AtomicCopy).
func (x *Executor) Copy(src, dst string) Result {
	in, err := x.open(src)
	if err != nil {
		return failed(errors.Wrap(err, "opening source file"))
	}
	defer in.Close()

	if x.dryRun {
		info, err := in.Stat()
		if err != nil {
			return failed(errors.Wrap(err, "stat source file"))
		}
		return Result{Outcome: SkippedDryRun, Bytes: info.Size()}
	}

	if err := x.ensureDir(filepath.Dir(dst)); err != nil {
		return failed(errors.Wrap(err, "creating destination directory"))
	}

	n, err := fileutil.AtomicCopy(in, dst)
	if err != nil {
		return failed(err)
	}

	return Result{Outcome: Copied, Bytes: n}
}

// ensureDir creates dir and its parents. Existing directories are fine.
func (x *Executor) ensureDir(dir string) error {
	if _, ok := x.made[dir]; ok {
		return nil
	}
	if err := os.MkdirAll(dir, DirMode); err != nil {
		return err
	}
	x.made[dir] = struct{}{}
	return nil
}

func failed(err error) Result {
	return Result{Outcome: Failed, Reason: Classify(err), Err: err}
}
