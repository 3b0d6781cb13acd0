package projectscmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inkwellco/easel/pkg/cliui"
	"github.com/inkwellco/easel/pkg/config"
)

const recentLongDesc string = `List recently opened projects, most recent first.

The recent list is kept in the persistent configuration and updated every
time a project is opened or created.

Examples:
  easel projects recent`

const recentShortDesc string = "List recently opened projects"

func newRecentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recent",
		Short: recentShortDesc,
		Long:  recentLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runRecent(configDir)
		},
	}

	return cmd
}

func runRecent(configDir string) error {
	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cfg, err := cfger.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if len(cfg.Recent.Projects) == 0 {
		fmt.Printf("  %s No recent projects.\n", cliui.DimStyle.Render("●"))
		return nil
	}

	fmt.Println()
	for i, path := range cfg.Recent.Projects {
		fmt.Printf("  %s %s\n",
			cliui.DimStyle.Render(fmt.Sprintf("%d.", i+1)),
			cliui.ValueStyle.Render(path),
		)
	}
	fmt.Println()

	return nil
}
