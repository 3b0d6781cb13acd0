package historycmder

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inkwellco/easel/pkg/cliui"
	"github.com/inkwellco/easel/pkg/utils"
)

const showLongDesc string = `Show a history snapshot's full content.

Text content renders as markdown by default; pass --raw to print it
unformatted. Structured content prints as indented JSON.

Examples:
  easel history show 42
  easel history show 42 --raw`

const showShortDesc string = "Show a snapshot's content"

func newShowCmd() *cobra.Command {
	var (
		dir string
		raw bool
	)

	cmd := &cobra.Command{
		Use:   "show <entry-id>",
		Short: showShortDesc,
		Long:  showLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			configDir, _ := cmd.Flags().GetString("config-dir")

			var id int64
			if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil {
				return fmt.Errorf("entry id must be a number, got %q", args[0])
			}

			return runHistoryShow(cmd.Context(), id, dir, configDir, raw, debug)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Project directory (defaults to the current session project)")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print text content without markdown rendering")

	return cmd
}

func runHistoryShow(ctx context.Context, id int64, dir, configDir string, raw, debug bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	v, err := openVersioned(configDir, dir, debug)
	if err != nil {
		return err
	}
	defer v.Close()

	entry, err := v.HistoryEntry(ctx, id)
	if err != nil {
		return fmt.Errorf("reading history entry: %w", err)
	}

	fmt.Printf("\n  %s %s\n", cliui.KeyStyle.Render("Asset:   "), cliui.NameStyle.Render(entry.AssetID))
	fmt.Printf("  %s %s\n", cliui.KeyStyle.Render("Hash:    "), cliui.HashStyle.Render(entry.ContentHash))
	fmt.Printf("  %s %s\n\n", cliui.KeyStyle.Render("Captured:"), cliui.DimStyle.Render(cliui.FormatTimestampMS(entry.CreatedAt)))

	// Bare JSON strings are text content; render them as markdown unless
	// asked for the raw form.
	var text string
	if err := json.Unmarshal(entry.Content, &text); err == nil {
		if raw {
			fmt.Println(text)
			return nil
		}
		rendered, err := cliui.RenderMarkdown(text)
		if err != nil {
			fmt.Println(text)
			return nil
		}
		fmt.Print(rendered)
		return nil
	}

	var pretty json.RawMessage = entry.Content
	out, err := json.MarshalIndent(pretty, "", "  ")
	if err != nil {
		fmt.Println(string(entry.Content))
		return nil
	}
	fmt.Println(string(out))

	return nil
}

// preview formats an asset payload for one-line display.
func preview(payload any) string {
	if s, ok := payload.(string); ok {
		return utils.Truncate(s, 100)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return ""
	}
	return utils.Truncate(string(data), 100)
}

// previewBytes formats canonical snapshot content for one-line display.
func previewBytes(content []byte) string {
	var s string
	if err := json.Unmarshal(content, &s); err == nil {
		return utils.Truncate(s, 100)
	}
	return utils.Truncate(string(content), 100)
}
