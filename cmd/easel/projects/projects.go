// Package projectscmder provides the projects command group for listing,
// renaming, and deleting easel projects.
package projectscmder

import (
	"github.com/spf13/cobra"
)

const projectsLongDesc string = `Manage easel projects.

Projects live as directories under the workspace directory, each holding a
single storage backend file (easel.json or easel.db).

Use subcommands to list, inspect, rename, or delete projects:
  easel projects list               List projects in the workspace
  easel projects recent             List recently opened projects
  easel projects rename <name>      Rename the current project
  easel projects delete <dir>       Delete a project directory

Examples:
  easel projects list
  easel projects rename "Autumn Sketches"
  easel projects delete ~/Easel/old-sketchbook`

const projectsShortDesc string = "Manage easel projects"

func NewProjectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: projectsShortDesc,
		Long:  projectsLongDesc,
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newRecentCmd())
	cmd.AddCommand(newRenameCmd())
	cmd.AddCommand(newDeleteCmd())

	return cmd
}
