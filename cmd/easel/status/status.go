// Package statuscmder provides the status command for displaying the current
// session state of the local .easel directory.
package statuscmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inkwellco/easel/pkg/cliui"
	"github.com/inkwellco/easel/pkg/dotdir"
)

const statusLongDesc string = `Show the current easel session state.

Reads the local .easel/ directory (or ~/.easel/) to display the last opened
project, including its path, backend, and when it was opened.

If no session state exists, indicates that no project is currently open.

Examples:
  easel status`

const statusShortDesc string = "Show current session state"

func NewStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: statusShortDesc,
		Long:  statusLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runStatus(configDir)
		},
	}

	return cmd
}

func runStatus(configDir string) error {
	manager := dotdir.NewManager()

	state, err := manager.LoadSessionState(configDir)
	if err != nil {
		return fmt.Errorf("loading session state: %w", err)
	}

	if state == nil {
		fmt.Printf("  %s No project open. Use easel open or easel new.\n", cliui.DimStyle.Render("●"))
		return nil
	}

	fmt.Printf("\n  %s %s\n", cliui.KeyStyle.Render("Project:"), cliui.NameStyle.Render(state.ProjectPath))
	fmt.Printf("  %s %s\n", cliui.KeyStyle.Render("Backend:"), cliui.ValueStyle.Render(state.Backend))
	fmt.Printf("  %s %s\n\n", cliui.KeyStyle.Render("Opened: "), cliui.DimStyle.Render(cliui.FormatTimestampMS(state.OpenedAt)))

	return nil
}
