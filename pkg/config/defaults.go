package config

import (
	"os"
	"path/filepath"
)

const (
	defaultBackend = "sqlite"

	defaultAutosaveEnabled    = true
	defaultAutosaveIntervalMS = 30_000

	defaultHistoryLimit = 50

	defaultRecentMax = 10
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Workspace: WorkspaceConfig{
			Dir:     DefaultWorkspaceDir(),
			Backend: defaultBackend,
		},
		Autosave: AutosaveConfig{
			Enabled:    defaultAutosaveEnabled,
			IntervalMS: defaultAutosaveIntervalMS,
		},
		History: HistoryConfig{
			Limit: defaultHistoryLimit,
		},
		Recent: RecentConfig{
			Max: defaultRecentMax,
		},
	}
}

// DefaultWorkspaceDir is where new projects land when workspace.dir is not
// configured: ~/Easel, or ./Easel when the home directory cannot be
// resolved.
func DefaultWorkspaceDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "Easel"
	}
	return filepath.Join(home, "Easel")
}
