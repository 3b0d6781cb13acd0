// Package easelcmder
package easelcmder

import (
	"github.com/spf13/cobra"

	configcmder "github.com/inkwellco/easel/cmd/easel/config"
	historycmder "github.com/inkwellco/easel/cmd/easel/history"
	initcmder "github.com/inkwellco/easel/cmd/easel/init"
	migratecmder "github.com/inkwellco/easel/cmd/easel/migrate"
	newcmder "github.com/inkwellco/easel/cmd/easel/new"
	opencmder "github.com/inkwellco/easel/cmd/easel/open"
	projectscmder "github.com/inkwellco/easel/cmd/easel/projects"
	statuscmder "github.com/inkwellco/easel/cmd/easel/status"
	versioncmder "github.com/inkwellco/easel/cmd/version"
)

const easelLongDesc string = `Easel is project persistence for node-graph canvases.

Create and manage projects:
  easel new        Create a new project in the workspace
  easel open       Open an existing project directory
  easel projects   List, rename, and delete projects

Work with asset history:
  easel history    List, inspect, and restore asset versions

Maintain storage:
  easel migrate    Convert a project between storage backends`

const easelShortDesc string = "Easel - Canvas Project Persistence"

func NewEaselCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "easel",
		Short: easelShortDesc,
		Long:  easelLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .easel config directory")

	// Add subcommands
	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(newcmder.NewNewCmd())
	cmd.AddCommand(opencmder.NewOpenCmd())
	cmd.AddCommand(statuscmder.NewStatusCmd())
	cmd.AddCommand(projectscmder.NewProjectsCmd())
	cmd.AddCommand(historycmder.NewHistoryCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(migratecmder.NewMigrateCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
