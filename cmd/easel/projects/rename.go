package projectscmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inkwellco/easel/pkg/cliui"
	"github.com/inkwellco/easel/pkg/logger"
	"github.com/inkwellco/easel/pkg/workspace"
)

const renameLongDesc string = `Rename a project.

Changes the project's display name in its metadata. The directory on disk
keeps its name. Operates on the current session project unless --dir points
at another project directory.

Examples:
  easel projects rename "Autumn Sketches"
  easel projects rename "Autumn Sketches" --dir ~/Easel/sketchbook`

const renameShortDesc string = "Rename a project"

func newRenameCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "rename <name>",
		Short: renameShortDesc,
		Long:  renameLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runRename(cmd.Context(), args[0], dir, configDir, debug)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Project directory (defaults to the current session project)")

	return cmd
}

func runRename(ctx context.Context, name, dir, configDir string, debug bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	lg := logger.New(logger.WithDebug(debug))

	target, err := workspace.ResolveDir(configDir, dir)
	if err != nil {
		return err
	}

	sess, err := workspace.NewSession(configDir, lg)
	if err != nil {
		return fmt.Errorf("starting session: %w", err)
	}
	defer sess.CloseProject()

	if _, err := sess.OpenProject(ctx, target); err != nil {
		return fmt.Errorf("opening project: %w", err)
	}

	p, err := sess.RenameProject(ctx, name)
	if err != nil {
		return fmt.Errorf("renaming project: %w", err)
	}

	fmt.Printf("  %s Renamed to %s\n", cliui.SuccessMark, cliui.NameStyle.Render(p.Meta.Name))
	return nil
}
