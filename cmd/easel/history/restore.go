package historycmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inkwellco/easel/pkg/cliui"
)

const restoreLongDesc string = `Restore an asset to a history snapshot.

Makes the snapshot's content the asset's current content. The overwritten
current content is snapshotted into history first, so a restore never loses
work. The entry must belong to the named asset.

Examples:
  easel history restore a1 42`

const restoreShortDesc string = "Restore a snapshot as current content"

func newRestoreCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "restore <asset-id> <entry-id>",
		Short: restoreShortDesc,
		Long:  restoreLongDesc,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			configDir, _ := cmd.Flags().GetString("config-dir")

			var id int64
			if _, err := fmt.Sscanf(args[1], "%d", &id); err != nil {
				return fmt.Errorf("entry id must be a number, got %q", args[1])
			}

			return runHistoryRestore(cmd.Context(), args[0], id, dir, configDir, debug)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Project directory (defaults to the current session project)")

	return cmd
}

func runHistoryRestore(ctx context.Context, assetID string, id int64, dir, configDir string, debug bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	v, err := openVersioned(configDir, dir, debug)
	if err != nil {
		return err
	}
	defer v.Close()

	value, err := v.RestoreAssetVersion(ctx, assetID, id)
	if err != nil {
		return fmt.Errorf("restoring version: %w", err)
	}

	fmt.Printf("  %s Restored %s to entry %d\n", cliui.SuccessMark, cliui.NameStyle.Render(assetID), id)
	fmt.Printf("  %s %s\n", cliui.KeyStyle.Render("Content:"), cliui.PreviewStyle.Render(preview(value.Payload())))

	return nil
}
