package commands

import (
	"fmt"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/ueb/internal/errors"
	"github.com/thoreinstein/ueb/internal/project"
)

// pickProject chooses one of several projects. Tests replace it.
var pickProject = fuzzyPickProject

// selectProject resolves --select: root is searched for projects, a single
// match is used directly, several are offered in a picker.
func selectProject(cmd *cobra.Command, root string) (string, error) {
	projects, err := project.Discover(root, project.DefaultMaxDepth)
	if err != nil {
		return "", errors.NewUserError(err, "Pass a folder that contains Unreal projects")
	}

	switch len(projects) {
	case 0:
		return "", errors.NewUserError(
			errors.Newf("no %s files found under %s", project.Extension, root),
			"Pass a folder that contains Unreal projects, or drop --select")
	case 1:
		fmt.Fprintf(cmd.ErrOrStderr(), "Using %s (%s)\n", projects[0].Name, projects[0].Dir)
		return projects[0].Dir, nil
	}

	p, err := pickProject(projects)
	if err != nil {
		return "", err
	}
	return p.Dir, nil
}

func fuzzyPickProject(projects []project.Project) (project.Project, error) {
	idx, err := fuzzyfinder.Find(
		projects,
		func(i int) string {
			return projects[i].Name
		},
		fuzzyfinder.WithPromptString("project> "),
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			p := projects[i]
			return fmt.Sprintf("Name: %s\nFolder: %s\nDescriptor: %s", p.Name, p.Dir, p.Descriptor)
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return project.Project{}, errors.NewUserError(errors.New("no project selected"), "")
		}
		return project.Project{}, errors.NewSystemError(errors.Wrap(err, "project picker failed"), "Pass the project folder directly instead of --select")
	}
	return projects[idx], nil
}
