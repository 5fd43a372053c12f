package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/ueb/internal/backup"
	"github.com/thoreinstein/ueb/internal/change"
	"github.com/thoreinstein/ueb/internal/errors"
	"github.com/thoreinstein/ueb/internal/logging"
	"github.com/thoreinstein/ueb/internal/report"
)

var (
	backupFull       bool
	backupDryRun     bool
	backupSizes      bool
	backupJSON       bool
	backupReportPath string
	backupSelect     bool
	backupRules      ruleFlags
)

func init() {
	backupCmd.Flags().BoolVar(&backupFull, "full", false,
		"copy every included file, ignoring what is already in the backup")
	backupCmd.Flags().BoolVarP(&backupDryRun, "dry-run", "n", false,
		"show what would be copied without writing anything")
	backupCmd.Flags().BoolVar(&backupSizes, "sizes", false,
		"report eligible, avoided and copied bytes (walks excluded folders)")
	backupCmd.Flags().BoolVar(&backupJSON, "json", false,
		"print the run summary as JSON")
	backupCmd.Flags().StringVar(&backupReportPath, "report", "",
		"also write the run summary as JSON to this file")
	backupCmd.Flags().BoolVar(&backupSelect, "select", false,
		"treat SOURCE as a folder of projects and pick one interactively")
	backupRules.register(backupCmd.Flags())

	rootCmd.AddCommand(backupCmd)
}

var backupCmd = &cobra.Command{
	Use:   "backup SOURCE TARGET",
	Short: "Back up a project folder",
	Long: `Copy the project in SOURCE to TARGET/<SOURCE folder name>.

Only new or changed files are copied: a file is skipped when the backup
already has a copy of the same size that is at least as new. Regenerable
folders are pruned without being read. Files that cannot be copied (for
example because the editor holds a lock) are reported as warnings and the
run continues.

Exit status is 0 when the run finished, even with warnings.`,
	Example: `  ueb backup ~/Projects/Shooter /Volumes/Backup
  ueb backup --full --include-saved ~/Projects/Shooter /Volumes/Backup
  ueb backup --select ~/Projects /Volumes/Backup
  ueb backup -n --sizes --json ~/Projects/Shooter /Volumes/Backup`,
	Args: cobra.ExactArgs(2),
	RunE: runBackup,
}

func runBackup(cmd *cobra.Command, args []string) error {
	source, target := args[0], args[1]

	if backupSelect {
		dir, err := selectProject(cmd, source)
		if err != nil {
			return err
		}
		source = dir
	}

	opts := backup.Options{
		Source: source,
		Target: target,
		Mode:   change.Incremental,
		DryRun: backupDryRun,
	}
	cfg.Apply(&opts)
	opts.Rules = backupRules.ruleOptions(cmd)
	opts.Excludes = append(opts.Excludes, backupRules.excludes...)
	if backupFull {
		opts.Mode = change.Full
	}
	if cmd.Flags().Changed("sizes") {
		opts.SizeSummary = backupSizes
	}

	runner, err := backup.New(opts)
	if err != nil {
		return err
	}
	logger := logging.FromContext(cmd.Context())
	logger.Debug("resolved backup paths", "source", runner.Source(), "destination", runner.Destination())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats, runErr := runner.Run(ctx)

	if err := writeReport(cmd, stats); err != nil {
		return err
	}

	if runErr != nil {
		return errors.NewSystemError(runErr, "Run the same command again; files already copied will be skipped")
	}

	if len(stats.Warnings) > 0 {
		logger.Warn("backup finished with warnings",
			"warnings", len(stats.Warnings),
			"failed", stats.Failed,
		)
	}
	return nil
}

func writeReport(cmd *cobra.Command, stats *backup.Stats) error {
	if stats == nil {
		return nil
	}

	format := report.FormatText
	if backupJSON {
		format = report.FormatJSON
	}
	if !quiet || format == report.FormatJSON {
		if err := report.NewReporter(cmd.OutOrStdout(), format).Report(stats); err != nil {
			return errors.NewSystemError(err, "")
		}
	}

	if backupReportPath != "" {
		if err := report.WriteFile(backupReportPath, stats); err != nil {
			return errors.NewSystemError(err, "Check that the --report folder is writable")
		}
	}
	return nil
}
