package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/thoreinstein/ueb/internal/rules"
)

// ruleFlags are the rule toggles shared by backup and rules. They override
// the config file only when given on the command line.
type ruleFlags struct {
	includeSaved  bool
	includeBuild  bool
	excludeEngine bool
	excludes      []string
}

func (f *ruleFlags) register(fs *pflag.FlagSet) {
	fs.BoolVar(&f.includeSaved, rules.FlagIncludeSaved, false,
		"back up Saved/ (logs, autosaves, crash reports)")
	fs.BoolVar(&f.includeBuild, rules.FlagIncludeBuild, false,
		"back up Build/ (packaged builds)")
	fs.BoolVar(&f.excludeEngine, rules.FlagExcludeEngine, false,
		"skip Engine/ folders (for sources that contain the engine)")
	fs.StringArrayVarP(&f.excludes, "exclude", "x", nil,
		"extra exclude pattern (repeatable; same syntax as .backupignore)")
}

// ruleOptions merges the config with explicitly set flags.
func (f *ruleFlags) ruleOptions(cmd *cobra.Command) rules.Options {
	opts := cfg.RuleOptions()
	flags := cmd.Flags()
	if flags.Changed(rules.FlagIncludeSaved) {
		opts.IncludeSaved = f.includeSaved
	}
	if flags.Changed(rules.FlagIncludeBuild) {
		opts.IncludeBuild = f.includeBuild
	}
	if flags.Changed(rules.FlagExcludeEngine) {
		opts.ExcludeEngine = f.excludeEngine
	}
	return opts
}

// userExcludes returns config excludes followed by --exclude patterns.
func (f *ruleFlags) userExcludes() []string {
	out := make([]string, 0, len(cfg.Excludes)+len(f.excludes))
	out = append(out, cfg.Excludes...)
	return append(out, f.excludes...)
}
