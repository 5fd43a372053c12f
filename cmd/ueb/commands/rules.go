package commands

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/ueb/internal/errors"
	"github.com/thoreinstein/ueb/internal/report"
	"github.com/thoreinstein/ueb/internal/rules"
)

var (
	rulesFormat string
	rulesFlags  ruleFlags
)

func init() {
	rulesCmd.Flags().StringVarP(&rulesFormat, "format", "f", "text",
		"output format: text, json, yaml, toml")
	rulesFlags.register(rulesCmd.Flags())

	rootCmd.AddCommand(rulesCmd)
}

var rulesCmd = &cobra.Command{
	Use:   "rules [SOURCE] [PATH...]",
	Short: "Show the effective exclude rules, or classify paths",
	Long: `Without PATH arguments, print every rule that applies to a backup of
SOURCE: patterns from the config file and --exclude, the project's
ignore file, the built-in excludes (with the flag that toggles each one)
and the recovery-critical allowlist.

With PATH arguments, print whether each path (relative to SOURCE) would be
backed up and which rule decided it. A trailing slash, or an existing
directory under SOURCE, is classified as a directory.`,
	Example: `  ueb rules
  ueb rules ~/Projects/Shooter --format yaml
  ueb rules ~/Projects/Shooter Saved/Logs/Shooter.log Content/Maps/`,
	RunE: runRules,
}

func runRules(cmd *cobra.Command, args []string) error {
	format, err := report.ParseFormat(rulesFormat)
	if err != nil {
		return errors.NewUserError(err, "")
	}

	opts := rulesFlags.ruleOptions(cmd)

	user, err := rules.ConfigRules(rulesFlags.userExcludes())
	if err != nil {
		return errors.NewConfigError(err)
	}

	var source string
	if len(args) > 0 {
		source = args[0]
		info, err := os.Stat(source)
		if err != nil || !info.IsDir() {
			return errors.NewUserError(errors.Wrapf(errors.ErrSourceNotDir, "%s", source),
				"Pass the project folder as SOURCE")
		}
		fromFile, err := rules.LoadIgnoreFile(source, opts.IgnoreFile)
		if err != nil {
			return errors.NewConfigError(err)
		}
		user = append(user, fromFile...)
	}

	m, err := rules.New(opts, user)
	if err != nil {
		return errors.NewConfigError(err)
	}

	reporter := report.NewReporter(cmd.OutOrStdout(), format)
	if len(args) < 2 {
		if err := reporter.Rules(m.Rules()); err != nil {
			return errors.NewSystemError(err, "")
		}
		return nil
	}

	list := make([]report.Classification, 0, len(args)-1)
	for _, p := range args[1:] {
		list = append(list, report.Classify(p, m.Resolve(p, isDirArg(source, p))))
	}
	if err := reporter.Classifications(list); err != nil {
		return errors.NewSystemError(err, "")
	}
	return nil
}

// isDirArg reports whether p names a directory: it ends in a separator or
// exists as a directory under source.
func isDirArg(source, p string) bool {
	if strings.HasSuffix(p, "/") || strings.HasSuffix(p, `\`) {
		return true
	}
	info, err := os.Stat(filepath.Join(source, filepath.FromSlash(p)))
	return err == nil && info.IsDir()
}
