package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/ueb/internal/errors"
	"github.com/thoreinstein/ueb/internal/project"
	"github.com/thoreinstein/ueb/internal/report"
)

var (
	projectsDepth int
	projectsJSON  bool
)

func init() {
	projectsCmd.Flags().IntVar(&projectsDepth, "depth", project.DefaultMaxDepth,
		"how many folder levels below ROOT to search")
	projectsCmd.Flags().BoolVar(&projectsJSON, "json", false,
		"print the list as JSON")

	rootCmd.AddCommand(projectsCmd)
}

var projectsCmd = &cobra.Command{
	Use:   "projects ROOT",
	Short: "List Unreal projects under a folder",
	Long: `Search ROOT for folders containing a .uproject file. Regenerable
folders such as Intermediate are not searched, and the search does not
descend into a project once one is found.`,
	Example: `  ueb projects ~/Projects
  ueb projects --depth 2 --json D:\Unreal`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projects, err := project.Discover(args[0], projectsDepth)
		if err != nil {
			return errors.NewUserError(err, "Pass an existing folder as ROOT")
		}

		format := report.FormatText
		if projectsJSON {
			format = report.FormatJSON
		} else if len(projects) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No projects found under %s\n", args[0])
			return nil
		}
		if err := report.NewReporter(cmd.OutOrStdout(), format).Projects(projects); err != nil {
			return errors.NewSystemError(err, "")
		}
		return nil
	},
}
