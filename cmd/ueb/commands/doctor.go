package commands

import (
	"github.com/spf13/cobra"

	"github.com/thoreinstein/ueb/internal/backup"
	"github.com/thoreinstein/ueb/internal/change"
	"github.com/thoreinstein/ueb/internal/doctor"
	"github.com/thoreinstein/ueb/internal/errors"
	"github.com/thoreinstein/ueb/internal/report"
)

var (
	doctorJSON    bool
	doctorVerbose bool
	doctorRules   ruleFlags
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false,
		"output results as JSON")
	doctorCmd.Flags().BoolVar(&doctorVerbose, "all", false,
		"show every check, including passed ones")
	doctorRules.register(doctorCmd.Flags())
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor SOURCE [TARGET]",
	Short: "Check a project and backup target before running a backup",
	Long: `Run diagnostic checks without copying anything: the config file, the
source folder, every line of the project's ignore file and, when TARGET is
given, a dry run that compares the bytes to copy with the free space on
the target volume and lists files that cannot be read.

Exit codes:
  0 - no errors or warnings
  1 - warnings present, no errors
  2 - errors present`,
	Example: `  ueb doctor ~/Projects/Shooter
  ueb doctor --all ~/Projects/Shooter /Volumes/Backup`,
	Args: cobra.RangeArgs(1, 2),
	// The checks report a broken config themselves.
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return setupLogging(cmd)
	},
	RunE: runDoctor,
}

// errDoctorWarnings is a sentinel error for exit code 1.
var errDoctorWarnings = errors.New("doctor found warnings")

// errDoctorErrors is a sentinel error for exit code 2.
var errDoctorErrors = errors.New("doctor found errors")

func runDoctor(cmd *cobra.Command, args []string) error {
	source := args[0]
	opts := doctorRules.ruleOptions(cmd)

	runner := doctor.NewRunner()
	runner.AddCheck(&doctor.ConfigCheck{Path: configUsed, Err: configLoadErr})
	runner.AddCheck(&doctor.SourceCheck{Source: source})
	runner.AddCheck(&doctor.IgnoreFileCheck{Source: source, File: opts.IgnoreFile})

	if len(args) == 2 {
		runOpts := backup.Options{Source: source, Target: args[1], Mode: change.Incremental}
		cfg.Apply(&runOpts)
		runOpts.Rules = opts
		runOpts.Excludes = append(runOpts.Excludes, doctorRules.excludes...)
		runner.AddCheck(&doctor.DryRunCheck{Options: runOpts})
	}

	format := report.FormatText
	if doctorJSON {
		format = report.FormatJSON
	}

	rep := runner.Run(cmd.Context())
	if !quiet || doctorJSON {
		if err := report.NewReporter(cmd.OutOrStdout(), format).Doctor(rep, doctorVerbose); err != nil {
			return errors.NewSystemError(err, "")
		}
	}

	switch {
	case rep.HasErrors():
		return errors.NewExitError(errDoctorErrors, errors.ExitSystem)
	case rep.HasWarnings():
		return errors.NewExitError(errDoctorWarnings, errors.ExitUser)
	}
	return nil
}
