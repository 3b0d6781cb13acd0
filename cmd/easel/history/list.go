package historycmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inkwellco/easel/pkg/cliui"
	"github.com/inkwellco/easel/pkg/utils"
)

const listLongDesc string = `List history snapshots for an asset, newest first.

Each line shows the snapshot id, content hash, capture time, and a short
content preview. The asset's current content is shown first as entry "now".

Examples:
  easel history list a1
  easel history list a1 --limit 10`

const listShortDesc string = "List snapshots for an asset"

func newListCmd() *cobra.Command {
	var (
		dir   string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "list <asset-id>",
		Short: listShortDesc,
		Long:  listLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runHistoryList(cmd.Context(), args[0], dir, configDir, limit, debug)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Project directory (defaults to the current session project)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum snapshots to list (0 uses the retention cap)")

	return cmd
}

func runHistoryList(ctx context.Context, assetID, dir, configDir string, limit int, debug bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	v, err := openVersioned(configDir, dir, debug)
	if err != nil {
		return err
	}
	defer v.Close()

	asset, err := v.Asset(ctx, assetID)
	if err != nil {
		return fmt.Errorf("reading asset: %w", err)
	}

	entries, err := v.History(ctx, assetID, limit)
	if err != nil {
		return fmt.Errorf("listing history: %w", err)
	}

	fmt.Printf("\n  %s %s\n\n", cliui.KeyStyle.Render("Asset:"), cliui.NameStyle.Render(assetID))

	// Current content first, as a pseudo-entry.
	hash, err := v.CurrentHash(ctx, assetID)
	if err != nil {
		return fmt.Errorf("reading current hash: %w", err)
	}
	fmt.Printf("  %s  %s  %s\n",
		cliui.DimStyle.Render("now"),
		cliui.HashStyle.Render(utils.Truncate(hash, 12)),
		cliui.PreviewStyle.Render(preview(asset.Value.Payload())),
	)

	for _, e := range entries {
		fmt.Printf("  %s  %s  %s  %s\n",
			cliui.DimStyle.Render(fmt.Sprintf("%3d", e.ID)),
			cliui.HashStyle.Render(utils.Truncate(e.ContentHash, 12)),
			cliui.DimStyle.Render(cliui.FormatTimestampMS(e.CreatedAt)),
			cliui.PreviewStyle.Render(previewBytes(e.Content)),
		)
	}
	fmt.Println()

	return nil
}
