// Package historycmder provides the history command group for listing,
// inspecting, and restoring asset versions.
package historycmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inkwellco/easel/pkg/logger"
	"github.com/inkwellco/easel/pkg/store"
	"github.com/inkwellco/easel/pkg/workspace"
)

const historyLongDesc string = `Inspect and restore asset version history.

Every time an asset's content changes, the superseded content is snapshotted
into a history ledger before the new content is written. The ledger keeps the
newest snapshots per asset and survives asset deletion.

History requires the sqlite backend; document-backed projects keep no
per-asset history.

Use subcommands to list, show, or restore versions:
  easel history list <asset-id>               List snapshots for an asset
  easel history show <entry-id>               Show a snapshot's content
  easel history restore <asset-id> <entry-id> Restore a snapshot

Examples:
  easel history list a1
  easel history show 42
  easel history restore a1 42`

const historyShortDesc string = "Inspect and restore asset versions"

func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: historyShortDesc,
		Long:  historyLongDesc,
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newRestoreCmd())

	return cmd
}

// openVersioned opens the project at dir (or the session project when dir is
// empty) and returns its versioned store surface. Document-backed projects
// have none.
func openVersioned(configDir, dir string, debug bool) (store.Versioned, error) {
	lg := logger.New(logger.WithDebug(debug))

	target, err := workspace.ResolveDir(configDir, dir)
	if err != nil {
		return nil, err
	}

	st, err := workspace.Open(target, "", lg)
	if err != nil {
		return nil, err
	}

	v, ok := st.(store.Versioned)
	if !ok {
		st.Close()
		return nil, fmt.Errorf("asset history requires the sqlite backend; migrate with: easel migrate sqlite")
	}

	return v, nil
}
