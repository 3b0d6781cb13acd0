// Package opencmder provides the open command for opening an existing easel
// project directory.
package opencmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inkwellco/easel/pkg/cliui"
	"github.com/inkwellco/easel/pkg/logger"
	"github.com/inkwellco/easel/pkg/workspace"
)

type openCommander struct {
	debug     bool
	configDir string
}

const openLongDesc string = `Open an existing easel project directory.

Detects the storage backend from the files present (easel.db wins over
easel.json when both exist), loads the project, records it as the current
session project, and prints a summary.

Examples:
  easel open ~/Easel/sketchbook
  easel open .`

const openShortDesc string = "Open a project directory"

func NewOpenCmd() *cobra.Command {
	cmder := &openCommander{}

	cmd := &cobra.Command{
		Use:   "open <dir>",
		Short: openShortDesc,
		Long:  openLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.debug, _ = cmd.Flags().GetBool("debug")
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			return cmder.run(cmd.Context(), args[0])
		},
	}

	return cmd
}

func (c *openCommander) run(ctx context.Context, dir string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	lg := logger.New(logger.WithDebug(c.debug))

	sess, err := workspace.NewSession(c.configDir, lg)
	if err != nil {
		return fmt.Errorf("starting session: %w", err)
	}
	defer sess.CloseProject()

	p, err := sess.OpenProject(ctx, dir)
	if err != nil {
		return fmt.Errorf("opening project: %w", err)
	}

	path, _ := sess.Path()
	backend, _ := workspace.Detect(path)

	fmt.Printf("\n  %s %s\n", cliui.SuccessMark, cliui.NameStyle.Render(p.Meta.Name))
	fmt.Printf("  %s %s\n", cliui.KeyStyle.Render("Backend: "), cliui.ValueStyle.Render(string(backend)))
	fmt.Printf("  %s %s\n", cliui.KeyStyle.Render("Nodes:   "), cliui.ValueStyle.Render(fmt.Sprintf("%d", len(p.Graph.Nodes))))
	fmt.Printf("  %s %s\n", cliui.KeyStyle.Render("Edges:   "), cliui.ValueStyle.Render(fmt.Sprintf("%d", len(p.Graph.Edges))))
	fmt.Printf("  %s %s\n", cliui.KeyStyle.Render("Assets:  "), cliui.ValueStyle.Render(fmt.Sprintf("%d", len(p.Assets))))
	fmt.Printf("  %s %s\n\n", cliui.KeyStyle.Render("Updated: "), cliui.DimStyle.Render(cliui.FormatTimestampMS(p.Meta.UpdatedAt)))

	return nil
}
