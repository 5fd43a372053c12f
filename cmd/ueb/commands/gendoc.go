package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/thoreinstein/ueb/cmd"
	"github.com/thoreinstein/ueb/internal/errors"
	"github.com/thoreinstein/ueb/internal/paths"
)

var (
	genDocDir    string
	genDocFormat string
)

var genDocCmd = &cobra.Command{
	Use:    "gen-doc",
	Short:  "Generate reference documentation for the CLI",
	Hidden: true,
	Args:   cobra.NoArgs,
	RunE: func(c *cobra.Command, _ []string) error {
		if genDocDir == "" {
			return errors.NewUserError(errors.New("output directory is required"), "Pass --dir")
		}
		if err := paths.EnsureDir(genDocDir, 0o755); err != nil {
			return errors.NewSystemError(errors.Wrap(err, "creating output directory"), "")
		}

		var err error
		switch genDocFormat {
		case "markdown":
			err = doc.GenMarkdownTreeCustom(rootCmd, genDocDir, filePrepender, linkHandler)
		case "man":
			err = doc.GenManTree(rootCmd, &doc.GenManHeader{
				Title:   "UEB",
				Section: "1",
				Source:  "ueb " + cmd.Version,
			}, genDocDir)
		default:
			return errors.NewUserError(errors.Newf("unknown doc format %q", genDocFormat), "Use --format markdown or man")
		}
		if err != nil {
			return errors.NewSystemError(errors.Wrapf(err, "generating %s", genDocFormat), "")
		}

		fmt.Fprintf(c.OutOrStdout(), "Documentation generated in %s\n", genDocDir)
		return nil
	},
}

func init() {
	genDocCmd.Flags().StringVarP(&genDocDir, "dir", "d", "", "output directory")
	genDocCmd.Flags().StringVar(&genDocFormat, "format", "markdown", "markdown or man")
	rootCmd.AddCommand(genDocCmd)
}

// filePrepender adds front matter: ueb_backup.md gets the title "ueb backup".
func filePrepender(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	title := strings.ReplaceAll(base, "_", " ")
	return fmt.Sprintf("---\ntitle: %q\ndescription: \"Reference for %s\"\n---\n", title, title)
}

func linkHandler(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + "/"
}
