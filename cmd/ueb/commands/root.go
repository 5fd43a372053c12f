// Package commands implements the CLI commands for ueb.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/thoreinstein/ueb/cmd"
	"github.com/thoreinstein/ueb/internal/config"
	"github.com/thoreinstein/ueb/internal/errors"
	"github.com/thoreinstein/ueb/internal/logging"
)

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// configPath holds the value of the --config flag.
var configPath string

// cfg is the loaded configuration; defaults when no file exists.
var cfg = config.Default()

// configLoadErr holds any error that occurred during config loading.
var configLoadErr error

// configUsed is the config file that was read, if any.
var configUsed string

// logCloser closes the --log-file writer after the command ran.
var logCloser io.Closer

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (-v progress, -vv per-file decisions, -vvv trace)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"also write logs to this file in JSON format (rotated)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"config file (default: ./config.yaml, then the user config directory)")

	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("ueb version {{.Version}}\n")

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initConfig() {
	v := viper.New()
	config.Init(v)

	loaded, err := config.LoadFrom(v, configPath)
	if err != nil {
		configLoadErr = err
		cfg = config.Default()
		return
	}
	configLoadErr = nil
	cfg = loaded
	configUsed = config.Used(v)
}

var rootCmd = &cobra.Command{
	Use:   "ueb",
	Short: "Incremental backups for Unreal Engine projects",
	Long: `ueb copies an Unreal Engine project to a backup folder, skipping the
folders the editor can regenerate (DerivedDataCache, Intermediate,
Binaries, Saved, Build) and any file that is already up to date.

Backups land in TARGET/<project folder name> with the same layout as the
source. Nothing in TARGET is ever deleted.`,
	Example: `  # Back up a project
  ueb backup ~/Projects/Shooter /Volumes/Backup

  # See what would be copied and how much space the exclusions save
  ueb backup --dry-run --sizes ~/Projects/Shooter /Volumes/Backup

  # Show the rules and why a path is excluded
  ueb rules ~/Projects/Shooter Saved/Logs/Shooter.log`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return checkConfig(cmd)
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		closeLogFile()
	},
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(errors.New("--quiet and --verbose are mutually exclusive"),
			"Use one of --quiet or --verbose")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			if val, ok := os.LookupEnv("UEB_DEBUG"); ok {
				switch val {
				case "1", "true":
					v = 2
				case "2":
					v = 3
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	var handlers []slog.Handler
	switch logging.Format(logFormat) {
	case logging.FormatJSON:
		handlers = append(handlers, logging.New(logging.Config{
			Level: level, Format: logging.FormatJSON, Output: cmd.ErrOrStderr(),
		}).Handler())
	case logging.FormatText:
		handlers = append(handlers, logging.New(logging.Config{
			Level: level, Format: logging.FormatText, Output: cmd.ErrOrStderr(),
		}).Handler())
	default:
		return errors.NewUserError(errors.Newf("unknown log format %q", logFormat), "Use --log-format text or json")
	}

	closeLogFile()
	if logFile != "" {
		w := logging.NewFileWriter(logFile)
		logCloser = w
		// The file always gets per-file decisions.
		fileLevel := min(level, slog.LevelDebug)
		handlers = append(handlers, logging.New(logging.Config{
			Level: fileLevel, Format: logging.FormatJSON, Output: w,
		}).Handler())
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = logging.NewMultiHandler(handlers...)
	} else {
		handler = handlers[0]
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	logging.ConfigureColor(cmd.OutOrStdout())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

func closeLogFile() {
	if logCloser != nil {
		_ = logCloser.Close()
		logCloser = nil
	}
}

// checkConfig reports a config file that failed to load. Help and version
// work regardless.
func checkConfig(cmd *cobra.Command) error {
	if cmd.Name() == "help" || cmd.Name() == "version" {
		return nil
	}
	if configLoadErr != nil {
		return errors.NewConfigError(configLoadErr)
	}
	if configUsed != "" {
		logging.FromContext(cmd.Context()).Debug("config loaded", "path", configUsed)
	}
	return nil
}

// PrintError writes err and its suggestion, if any, for the user.
func PrintError(w io.Writer, err error) {
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	fmt.Fprintf(w, "%s %v\n", red("Error:"), err)

	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) && exitErr.Suggestion != "" {
		fmt.Fprintf(w, "  %s\n", exitErr.Suggestion)
	}
}

// Execute runs the root command. Errors that commands did not classify
// come from cobra's argument and flag parsing and are usage errors.
func Execute() error {
	err := rootCmd.Execute()
	if err == nil {
		return nil
	}
	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	return errors.NewUserError(err, "Run 'ueb --help' for usage")
}
