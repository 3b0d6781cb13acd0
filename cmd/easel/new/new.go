// Package newcmder provides the new command for creating easel projects.
package newcmder

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/inkwellco/easel/pkg/cliui"
	"github.com/inkwellco/easel/pkg/config"
	"github.com/inkwellco/easel/pkg/logger"
	"github.com/inkwellco/easel/pkg/workspace"
)

type newCommander struct {
	backend      string
	workspaceDir string
	debug        bool
	configDir    string
}

// newFlags maps registry keys to flag definitions so the same logical flags
// stay consistent across commands.
var newFlags = config.FlagSet{
	config.FlagBackend: {
		Name:        "backend",
		Shorthand:   "b",
		ViperKey:    "workspace.backend",
		Description: "Storage backend for the new project (document or sqlite)",
	},
	config.FlagWorkspaceDir: {
		Name:        "workspace-dir",
		Shorthand:   "w",
		ViperKey:    "workspace.dir",
		Description: "Workspace directory to create the project under",
	},
}

const newLongDesc string = `Create a new easel project.

The project is created as a directory under the workspace, with the chosen
storage backend initialized inside it. The new project becomes the current
session project.

The backend and workspace directory default to the persistent configuration
(easel config list) and can be overridden per invocation.

Examples:
  easel new sketchbook
  easel new sketchbook --backend document
  easel new sketchbook -w ~/Art/easel`

const newShortDesc string = "Create a new project"

func NewNewCmd() *cobra.Command {
	cmder := &newCommander{}

	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: newShortDesc,
		Long:  newLongDesc,
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(cmder.configDir)
			if err != nil {
				return fmt.Errorf("initializing config: %w", err)
			}
			config.BindRegisteredFlags(v, cmd, newFlags, []string{
				config.FlagBackend,
				config.FlagWorkspaceDir,
			})

			cmder.backend = v.GetString("workspace.backend")
			cmder.workspaceDir = v.GetString("workspace.dir")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.debug, _ = cmd.Flags().GetBool("debug")
			return cmder.run(cmd.Context(), args[0])
		},
	}

	config.AddStringFlag(cmd, newFlags, config.FlagBackend, &cmder.backend)
	config.AddStringFlag(cmd, newFlags, config.FlagWorkspaceDir, &cmder.workspaceDir)

	return cmd
}

func (c *newCommander) run(ctx context.Context, name string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	lg := logger.New(logger.WithDebug(c.debug))

	sess, err := workspace.NewSession(c.configDir, lg)
	if err != nil {
		return fmt.Errorf("starting session: %w", err)
	}
	defer sess.CloseProject()

	var path string
	err = cliui.Step(os.Stdout, fmt.Sprintf("Creating project %q", name), func() error {
		_, err := sess.CreateProjectIn(ctx, c.workspaceDir, name, workspace.Backend(c.backend))
		if err != nil {
			return err
		}
		path, _ = sess.Path()
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Printf("\n  %s %s\n", cliui.KeyStyle.Render("Project:"), cliui.NameStyle.Render(name))
	fmt.Printf("  %s %s\n", cliui.KeyStyle.Render("Backend:"), cliui.ValueStyle.Render(c.backend))
	fmt.Printf("  %s %s\n\n", cliui.KeyStyle.Render("Path:   "), cliui.DimStyle.Render(path))

	return nil
}
