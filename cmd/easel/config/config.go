// Package configcmder provides the config command for managing persistent
// easel configuration stored in the .easel/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent easel configuration.

Configuration is stored as config.toml in the .easel/ directory and provides
default values for command flags. CLI flags always take precedence over
config file values.

Keys use dotted notation matching the TOML section structure:
  workspace.dir, workspace.backend,
  autosave.enabled, autosave.interval_ms,
  history.limit, recent.max

Use subcommands to get, set, or list configuration values:
  easel config set <key> <value>    Set a configuration value
  easel config get <key>            Get a configuration value
  easel config list                 List all configuration values

Examples:
  easel config set workspace.backend document
  easel config set autosave.interval_ms 10000
  easel config get workspace.dir
  easel config list`

const configShortDesc string = "Manage persistent easel configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
