package backup

import (
	"os"

	"github.com/thoreinstein/ueb/internal/copier"
	"github.com/thoreinstein/ueb/internal/errors"
	"github.com/thoreinstein/ueb/internal/paths"
	"github.com/thoreinstein/ueb/internal/project"
	"github.com/thoreinstein/ueb/internal/rules"
)

func (r *Runner) preflight() error {
	src, err := paths.Abs(r.opts.Source)
	if err != nil {
		return errors.NewUserError(errors.Wrap(errors.ErrSourceNotFound, err.Error()), "Pass the project folder as SOURCE")
	}
	info, err := os.Stat(src)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return errors.NewUserError(errors.Wrapf(errors.ErrSourceNotFound, "%s", src), "Check the SOURCE path")
	case err != nil:
		return errors.NewSystemError(errors.Wrapf(err, "stat %s", src), "")
	case !info.IsDir():
		return errors.NewUserError(errors.Wrapf(errors.ErrSourceNotDir, "%s", src), "Pass the project folder, not a file")
	}

	target, err := paths.Abs(r.opts.Target)
	if err != nil {
		return errors.NewUserError(errors.Wrap(errors.ErrDestinationNotWritable, err.Error()), "Pass a backup folder as TARGET")
	}
	dest := paths.DestinationRoot(target, src)

	if paths.IsWithin(dest, src) {
		return errors.NewUserError(
			errors.Wrapf(errors.ErrDestinationInsideSource, "%s is inside %s", dest, src),
			"Choose a TARGET outside the project folder",
		)
	}
	if err := checkWritable(dest, r.opts.DryRun); err != nil {
		return errors.NewUserError(
			errors.Wrapf(errors.ErrDestinationNotWritable, "%s: %v", dest, err),
			"Check that TARGET exists on a writable volume",
		)
	}

	user, err := rules.ConfigRules(r.opts.Excludes)
	if err != nil {
		return errors.NewConfigError(err)
	}
	ignored, err := rules.LoadIgnoreFile(src, r.opts.Rules.IgnoreFile)
	if err != nil {
		return errors.NewConfigError(err)
	}
	user = append(user, ignored...)

	m, err := rules.New(r.opts.Rules, user, r.matcherOpts...)
	if err != nil {
		return errors.NewConfigError(err)
	}

	r.src = src
	r.dest = dest
	r.matcher = m
	r.hasProject = project.HasProject(src)
	return nil
}

// checkWritable verifies dest can receive files. A real run creates dest and
// writes a probe file; a dry run writes nothing and only checks that the
// closest existing ancestor is a directory.
func checkWritable(dest string, dryRun bool) error {
	existing := paths.NearestExisting(dest)
	info, err := os.Stat(existing)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return errors.Newf("%s is not a directory", existing)
	}
	if dryRun {
		return nil
	}

	if err := os.MkdirAll(dest, copier.DirMode); err != nil {
		return err
	}
	f, err := os.CreateTemp(dest, ".ueb-probe-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}
