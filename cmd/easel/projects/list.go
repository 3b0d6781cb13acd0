package projectscmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inkwellco/easel/pkg/cliui"
	"github.com/inkwellco/easel/pkg/config"
	"github.com/inkwellco/easel/pkg/workspace"
)

const listLongDesc string = `List projects in the workspace directory.

Scans the configured workspace directory for project directories and shows
each project's name and storage backend. Directories without an easel
backend file are skipped.

Examples:
  easel projects list
  easel projects list --workspace-dir ~/Art/easel`

const listShortDesc string = "List projects in the workspace"

func newListCmd() *cobra.Command {
	var workspaceDir string

	cmd := &cobra.Command{
		Use:   "list",
		Short: listShortDesc,
		Long:  listLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runList(workspaceDir, configDir)
		},
	}

	cmd.Flags().StringVarP(&workspaceDir, "workspace-dir", "w", "", "Workspace directory to scan (defaults to configuration)")

	return cmd
}

func runList(workspaceDir, configDir string) error {
	if workspaceDir == "" {
		cfger, err := config.NewConfiger(configDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg, err := cfger.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		workspaceDir = cfg.Workspace.Dir
	}

	infos, err := workspace.ListProjects(workspaceDir)
	if err != nil {
		return fmt.Errorf("listing projects: %w", err)
	}

	if len(infos) == 0 {
		fmt.Printf("  %s No projects in %s\n", cliui.DimStyle.Render("●"), workspaceDir)
		return nil
	}

	fmt.Printf("\n  %s %s\n\n", cliui.HeaderStyle.Render("Projects in"), cliui.DimStyle.Render(workspaceDir))
	for _, info := range infos {
		fmt.Printf("  %s %s\n",
			cliui.NameStyle.Render(info.Name),
			cliui.DimStyle.Render("("+string(info.Backend)+")"),
		)
	}
	fmt.Println()

	return nil
}
