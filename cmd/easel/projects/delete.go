package projectscmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inkwellco/easel/pkg/cliui"
	"github.com/inkwellco/easel/pkg/logger"
	"github.com/inkwellco/easel/pkg/workspace"
)

const deleteLongDesc string = `Delete a project directory.

Removes the project directory and everything in it, including asset history.
Refuses to delete directories that do not contain an easel backend file, and
requires --force to proceed without confirmation.

The project is also dropped from the recent list.

Examples:
  easel projects delete ~/Easel/old-sketchbook --force`

const deleteShortDesc string = "Delete a project directory"

func newDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <dir>",
		Short: deleteShortDesc,
		Long:  deleteLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runDelete(args[0], configDir, force, debug)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Delete without confirmation")

	return cmd
}

func runDelete(dir, configDir string, force, debug bool) error {
	if !force {
		return fmt.Errorf("refusing to delete without --force")
	}

	lg := logger.New(logger.WithDebug(debug))

	sess, err := workspace.NewSession(configDir, lg)
	if err != nil {
		return fmt.Errorf("starting session: %w", err)
	}
	defer sess.CloseProject()

	if err := sess.DeleteProject(dir); err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}

	fmt.Printf("  %s Deleted %s\n", cliui.SuccessMark, cliui.DimStyle.Render(dir))
	return nil
}
