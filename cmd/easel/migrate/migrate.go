// Package migratecmder provides the migrate command for converting a project
// between storage backends.
package migratecmder

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/inkwellco/easel/pkg/cliui"
	"github.com/inkwellco/easel/pkg/logger"
	"github.com/inkwellco/easel/pkg/workspace"
)

type migrateCommander struct {
	dir        string
	keepSource bool
	debug      bool
	configDir  string
}

const migrateLongDesc string = `Convert a project between storage backends.

Loads the project through its current backend and saves it through the
target backend in the same directory. The source backend's files are removed
afterwards unless --keep-source is passed.

Converting from document to sqlite starts an empty history ledger; history
accumulates from the first change after migration. Converting from sqlite to
document drops access to history (the ledger lives only in easel.db).

Examples:
  easel migrate sqlite
  easel migrate document --dir ~/Easel/sketchbook
  easel migrate sqlite --keep-source`

const migrateShortDesc string = "Convert a project between backends"

func NewMigrateCmd() *cobra.Command {
	cmder := &migrateCommander{}

	cmd := &cobra.Command{
		Use:   "migrate <backend>",
		Short: migrateShortDesc,
		Long:  migrateLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.debug, _ = cmd.Flags().GetBool("debug")
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			return cmder.run(cmd.Context(), args[0])
		},
	}

	cmd.Flags().StringVar(&cmder.dir, "dir", "", "Project directory (defaults to the current session project)")
	cmd.Flags().BoolVar(&cmder.keepSource, "keep-source", false, "Keep the source backend's files after migration")

	return cmd
}

func (c *migrateCommander) run(ctx context.Context, backend string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	to := workspace.Backend(backend)
	if !to.Valid() {
		return fmt.Errorf("unknown backend %q (valid: document, sqlite)", backend)
	}

	lg := logger.New(logger.WithDebug(c.debug))

	target, err := workspace.ResolveDir(c.configDir, c.dir)
	if err != nil {
		return err
	}

	err = cliui.Step(os.Stdout, fmt.Sprintf("Migrating to %s", to), func() error {
		_, err := workspace.Migrate(ctx, target, to, !c.keepSource, lg)
		return err
	})
	if err != nil {
		return err
	}

	fmt.Printf("\n  %s %s now uses the %s backend\n\n",
		cliui.SuccessMark,
		cliui.DimStyle.Render(target),
		cliui.ValueStyle.Render(string(to)),
	)

	return nil
}
