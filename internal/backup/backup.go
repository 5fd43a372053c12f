package backup

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/thoreinstein/ueb/internal/change"
	"github.com/thoreinstein/ueb/internal/copier"
	"github.com/thoreinstein/ueb/internal/errors"
	"github.com/thoreinstein/ueb/internal/logging"
	"github.com/thoreinstein/ueb/internal/paths"
	"github.com/thoreinstein/ueb/internal/rules"
	"github.com/thoreinstein/ueb/internal/sizes"
	"github.com/thoreinstein/ueb/internal/walker"
)

// Runner performs backup runs for one source and destination. All
// configuration problems are reported by New, before anything is copied.
type Runner struct {
	opts       Options
	src        string
	dest       string
	matcher    *rules.Matcher
	hasProject bool

	matcherOpts []rules.MatcherOption
	hooks       []Hook
	now         func() time.Time
	freeSpace   func(path string) (uint64, error)
	copierOpts  []copier.Option
}

// Option configures a Runner.
type Option func(*Runner)

// WithMatcherOptions passes options through to rules.New.
func WithMatcherOptions(opts ...rules.MatcherOption) Option {
	return func(r *Runner) {
		r.matcherOpts = append(r.matcherOpts, opts...)
	}
}

// WithClock replaces time.Now for run timing.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}

// WithFreeSpace replaces the destination free-space probe.
func WithFreeSpace(fn func(path string) (uint64, error)) Option {
	return func(r *Runner) {
		r.freeSpace = fn
	}
}

// WithCopierOptions passes options through to copier.New.
func WithCopierOptions(opts ...copier.Option) Option {
	return func(r *Runner) {
		r.copierOpts = append(r.copierOpts, opts...)
	}
}

// New validates opts and prepares a Runner.
//
// The returned errors are *errors.ExitError values: a missing or non-directory
// source, a destination that is inside the source or cannot be written, and
// invalid exclude patterns or ignore files are all fatal.
func New(opts Options, ropts ...Option) (*Runner, error) {
	r := &Runner{
		opts:      opts,
		now:       time.Now,
		freeSpace: diskFree,
	}
	for _, opt := range ropts {
		opt(r)
	}

	if err := r.preflight(); err != nil {
		return nil, err
	}
	return r, nil
}

// Source returns the absolute source root.
func (r *Runner) Source() string {
	return r.src
}

// Destination returns the absolute destination root, <target>/<source name>.
func (r *Runner) Destination() string {
	return r.dest
}

// Run walks the source and copies what changed.
//
// Per-file problems never fail the run; they are collected in
// Stats.Warnings. A non-nil error means the context was cancelled, in which
// case the returned Stats describe the partial run. Files copied before
// cancellation are complete.
func (r *Runner) Run(ctx context.Context) (*Stats, error) {
	start := r.now()
	stats := &Stats{
		RunID:       uuid.NewString(),
		Source:      r.src,
		Destination: r.dest,
		Mode:        r.opts.Mode,
		DryRun:      r.opts.DryRun,
		StartedAt:   start,
		Warnings:    []Warning{},
	}

	logger := logging.FromContext(ctx).With("run_id", stats.RunID)
	if !r.hasProject {
		logger.Warn("no .uproject file in source", "source", r.src)
	}
	logger.Info("backup started",
		"source", r.src,
		"destination", r.dest,
		"mode", r.opts.Mode.String(),
		"dry_run", r.opts.DryRun,
	)

	tol := r.opts.Tolerance
	if tol <= 0 {
		tol = change.DefaultTolerance
	}

	st := &run{
		Runner: r,
		ctx:    ctx,
		logger: logger,
		stats:  stats,
		tol:    tol,
		exec:   copier.New(r.opts.DryRun, r.copierOpts...),
		acct: sizes.New(r.opts.SizeSummary, sizes.WithErrorHandler(func(path string, err error) {
			logger.Debug("cannot size excluded entry", "path", path, "error", err)
		})),
	}

	var runErr error
	for e := range walker.Walk(r.src, r.matcher) {
		if err := ctx.Err(); err != nil {
			stats.Interrupted = true
			runErr = errors.Wrap(err, "backup interrupted")
			break
		}
		st.visit(e)
	}

	stats.Duration = r.now().Sub(start)
	if st.acct.Enabled() {
		t := st.acct.Totals()
		stats.Sizes = &t
	}
	if free, err := r.freeSpace(paths.NearestExisting(r.dest)); err == nil {
		stats.DestinationFree = free
	} else {
		logger.Debug("cannot read destination free space", "error", err)
	}

	logger.Info("backup finished",
		"scanned", stats.Scanned,
		"copied", stats.Copied,
		"skipped", stats.Skipped,
		"excluded", stats.Excluded,
		"warnings", len(stats.Warnings),
		"copied_bytes", stats.BytesCopied,
		"duration", stats.Duration.Round(time.Millisecond),
	)

	return stats, runErr
}

// run is the state of one Run call.
type run struct {
	*Runner
	ctx    context.Context
	logger *slog.Logger
	stats  *Stats
	tol    time.Duration
	exec   *copier.Executor
	acct   *sizes.Accountant
}

func (s *run) visit(e walker.Entry) {
	switch {
	case e.Err != nil:
		s.unreadable(e)
	case e.Decision.Excluded():
		s.stats.Excluded++
		var avoided int64
		if e.IsDir {
			avoided = s.acct.AddAvoidedTree(e.AbsPath)
		}
		s.logger.Debug("exclude", "path", e.RelPath, "rule", e.Decision.Reason(), "avoided_bytes", avoided)
		s.emit(Event{Path: e.RelPath, IsDir: e.IsDir, Outcome: OutcomeExcluded, Decision: e.Decision, Detail: e.Decision.Reason(), Bytes: avoided})
	case e.IsDir:
		s.logger.Log(s.ctx, logging.LevelTrace, "enter", "path", e.RelPath, "priority", e.Decision.Priority)
	case !e.Regular():
		s.stats.Excluded++
		s.logger.Debug("exclude", "path", e.RelPath, "rule", "not a regular file")
		s.emit(Event{Path: e.RelPath, Outcome: OutcomeExcluded, Decision: e.Decision, Detail: "not a regular file"})
	default:
		s.file(e)
	}
}

func (s *run) unreadable(e walker.Entry) {
	p := e.RelPath
	if p == "" {
		p = "."
	}
	reason := copier.Classify(e.Err)
	if !e.IsDir {
		s.stats.Scanned++
		s.stats.Failed++
	}
	s.stats.warn(p, string(reason), e.Err)
	s.logger.Warn("cannot read", "path", p, "reason", string(reason), "error", e.Err)
	s.emit(Event{Path: p, IsDir: e.IsDir, Outcome: OutcomeFailed, Detail: string(reason)})
}

func (s *run) file(e walker.Entry) {
	s.stats.Scanned++
	s.acct.AddEligible(e.Info.Size())

	dst := filepath.Join(s.dest, filepath.FromSlash(e.RelPath))
	src := change.FromInfo(e.RelPath, e.Info)

	var prev *change.FileRecord
	if info, err := os.Stat(dst); err == nil && info.Mode().IsRegular() {
		rec := change.FromInfo(e.RelPath, info)
		prev = &rec
	}

	need, why := change.NeedsCopy(src, prev, s.opts.Mode, s.tol)
	if !need {
		s.stats.Skipped++
		s.logger.Debug("skip", "path", e.RelPath, "reason", string(why))
		s.emit(Event{Path: e.RelPath, Outcome: OutcomeSkipped, Decision: e.Decision, Detail: string(why)})
		return
	}

	res := s.exec.Copy(e.AbsPath, dst)
	if !res.OK() {
		s.stats.Failed++
		s.stats.warn(e.RelPath, string(res.Reason), res.Err)
		s.logger.Warn("copy failed", "path", e.RelPath, "reason", string(res.Reason), "error", res.Err)
		s.emit(Event{Path: e.RelPath, Outcome: OutcomeFailed, Decision: e.Decision, Detail: string(res.Reason)})
		return
	}

	s.stats.Copied++
	s.stats.BytesCopied += res.Bytes
	s.acct.AddCopied(res.Bytes)

	outcome := OutcomeCopied
	if res.Outcome == copier.SkippedDryRun {
		outcome = OutcomeWouldCopy
	}
	s.logger.Debug(string(outcome), "path", e.RelPath, "reason", string(why), "size_bytes", res.Bytes)
	s.emit(Event{Path: e.RelPath, Outcome: outcome, Decision: e.Decision, Detail: string(why), Bytes: res.Bytes})
}
