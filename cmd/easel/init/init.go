// Package initcmder provides the init command for initializing a local .easel
// directory in the current working directory.
package initcmder

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/inkwellco/easel/pkg/config"
)

const (
	dirName        = ".easel"
	configFileName = "config.toml"
)

const initLongDesc string = `Initialize a new .easel/ directory in the current working directory.

Creates a local .easel/ directory that takes precedence over the default
~/.easel/ directory for session state, configuration, and other easel
operations, and seeds it with a config.toml.

The --preset flag selects a starting configuration: a backend preset name
(document or sqlite) or an HTTP(S) URL serving a config.toml. Re-running
with a preset overwrites the existing config.toml.

This is useful for maintaining separate easel state per workspace.

Examples:
  easel init
  easel init --preset document
  easel init --preset https://example.com/team-easel.toml`

const initShortDesc string = "Initialize a local .easel/ directory"

func NewInitCmd() *cobra.Command {
	var preset string

	cmd := &cobra.Command{
		Use:   "init",
		Short: initShortDesc,
		Long:  initLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runInit(preset)
		},
	}

	cmd.Flags().StringVar(&preset, "preset", "", "Starting configuration: a backend preset name or a config.toml URL")

	return cmd
}

func runInit(preset string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	dir := filepath.Join(cwd, dirName)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating .easel directory: %w", err)
	}

	configPath := filepath.Join(dir, configFileName)

	if preset == "" {
		// Plain init seeds defaults but never clobbers an existing config.
		if _, err := os.Stat(configPath); err == nil {
			fmt.Printf("Already initialized: %s\n", dir)
			return nil
		}
		return writeConfig(dir, config.NewDefaultConfig())
	}

	cfg, err := resolvePreset(preset)
	if err != nil {
		return err
	}

	return writeConfig(dir, cfg)
}

func resolvePreset(preset string) (*config.Config, error) {
	if strings.HasPrefix(preset, "http://") || strings.HasPrefix(preset, "https://") {
		return fetchRemoteConfig(preset)
	}
	return config.PresetConfig(preset)
}

func fetchRemoteConfig(url string) (*config.Config, error) {
	client := &http.Client{Timeout: 10 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetching remote config: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching remote config: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading remote config: %w", err)
	}

	cfg, err := config.ParseConfigTOML(data)
	if err != nil {
		return nil, fmt.Errorf("parsing remote config: %w", err)
	}

	return cfg, nil
}

func writeConfig(dir string, cfg *config.Config) error {
	cfger, err := config.NewConfiger(dir)
	if err != nil {
		return fmt.Errorf("resolving config target: %w", err)
	}

	if err := cfger.SaveConfig(cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("Initialized .easel directory: %s\n", dir)
	return nil
}
