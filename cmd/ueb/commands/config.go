package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/ueb/internal/config"
	"github.com/thoreinstein/ueb/internal/editor"
	"github.com/thoreinstein/ueb/internal/errors"
	"github.com/thoreinstein/ueb/internal/paths"
	"github.com/thoreinstein/ueb/pkg/fileutil"
)

var configInitForce bool

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false,
		"overwrite an existing config file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configEditCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Print the configuration ueb will use, after applying the config file
and UEB_* environment variables, in YAML format.`,
	Example: `  ueb config
  UEB_INCLUDE_SAVED=true ueb config
  ueb config init`,
	Args: cobra.NoArgs,
	RunE: runConfigList,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long: `Write config.yaml with the default values to the user config
directory (~/.config/ueb on Linux).`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the config file in $EDITOR",
	Long: `Open the config file in your editor ($UEB_EDITOR, $EDITOR or $VISUAL).
Edits the file named by --config, else the one in use, else the one in
the user config directory, which must exist (see: ueb config init).`,
	Args: cobra.NoArgs,
	// A broken config is exactly what this command is for.
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return setupLogging(cmd)
	},
	RunE: runConfigEdit,
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	if configUsed != "" {
		fmt.Fprintf(out, "# %s\n", configUsed)
	} else {
		fmt.Fprintln(out, "# no config file, defaults")
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.NewSystemError(errors.Wrap(err, "marshaling config"), "")
	}
	if _, err := out.Write(data); err != nil {
		return errors.NewSystemError(err, "")
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	path := filepath.Join(paths.ConfigDir(), "config.yaml")

	if _, err := os.Stat(path); err == nil && !configInitForce {
		return errors.NewUserError(errors.Newf("%s already exists", path), "Use --force to overwrite it")
	}

	if err := paths.EnsureDir(filepath.Dir(path), 0); err != nil {
		return errors.NewSystemError(err, "")
	}

	data, err := yaml.Marshal(config.Default())
	if err != nil {
		return errors.NewSystemError(errors.Wrap(err, "marshaling config"), "")
	}
	if err := fileutil.AtomicWriteFile(path, data, 0o600); err != nil {
		return errors.NewSystemError(errors.Wrap(err, "writing config file"), "")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

func runConfigEdit(cmd *cobra.Command, _ []string) error {
	path := configPath
	if path == "" {
		path = configUsed
	}
	if path == "" {
		path = filepath.Join(paths.ConfigDir(), "config.yaml")
	}

	if _, err := os.Stat(path); err != nil {
		return errors.NewUserError(errors.Wrapf(errors.ErrNotFound, "config file %s", path), "Run: ueb config init")
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Location: %s\n", path)
	if err := editor.Open(cmd.Context(), path); err != nil {
		return errors.NewSystemError(err, "Set EDITOR to your preferred editor")
	}
	return nil
}
