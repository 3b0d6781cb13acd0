package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent easel configuration stored as config.toml
// in the .easel/ directory. The TOML layout uses sections for logical grouping.
type Config struct {
	Version   int             `toml:"version"`
	Workspace WorkspaceConfig `toml:"workspace"`
	Autosave  AutosaveConfig  `toml:"autosave"`
	History   HistoryConfig   `toml:"history"`
	Recent    RecentConfig    `toml:"recent"`
}

// WorkspaceConfig holds settings for where projects live and how new ones
// are backed.
type WorkspaceConfig struct {
	// Dir is the directory new projects are created under.
	Dir string `toml:"dir,omitempty"`

	// Backend selects the store backend for new projects,
	// "document" or "sqlite".
	Backend string `toml:"backend,omitempty"`
}

// AutosaveConfig holds hot-exit recovery settings.
type AutosaveConfig struct {
	Enabled    bool `toml:"enabled"`
	IntervalMS uint `toml:"interval_ms,omitempty"`
}

// HistoryConfig holds asset history listing settings.
type HistoryConfig struct {
	// Limit caps how many entries history listings show by default.
	Limit uint `toml:"limit,omitempty"`
}

// RecentConfig holds the recently-opened project list.
type RecentConfig struct {
	// Max caps how many entries Projects retains.
	Max uint `toml:"max,omitempty"`

	// Projects is the list of recently opened project directories,
	// most recent first.
	Projects []string `toml:"projects,omitempty"`
}

// AddRecentProject moves path to the front of the recent list, dropping any
// earlier occurrence and trimming the list to Recent.Max entries.
func (c *Config) AddRecentProject(path string) {
	max := int(c.Recent.Max)
	if max == 0 {
		max = defaultRecentMax
	}

	projects := make([]string, 0, max)
	projects = append(projects, path)
	for _, p := range c.Recent.Projects {
		if p == path {
			continue
		}
		projects = append(projects, p)
		if len(projects) == max {
			break
		}
	}
	c.Recent.Projects = projects
}

// RemoveRecentProject drops path from the recent list if present.
func (c *Config) RemoveRecentProject(path string) {
	projects := c.Recent.Projects[:0]
	for _, p := range c.Recent.Projects {
		if p != path {
			projects = append(projects, p)
		}
	}
	c.Recent.Projects = projects
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"workspace.dir": {
		get: func(c *Config) string { return c.Workspace.Dir },
		set: func(c *Config, v string) error { c.Workspace.Dir = v; return nil },
	},
	"workspace.backend": {
		get: func(c *Config) string { return c.Workspace.Backend },
		set: func(c *Config, v string) error {
			if v != "document" && v != "sqlite" {
				return fmt.Errorf("invalid value for workspace.backend: %q (available: document, sqlite)", v)
			}
			c.Workspace.Backend = v
			return nil
		},
	},
	"autosave.enabled": {
		get: func(c *Config) string { return strconv.FormatBool(c.Autosave.Enabled) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid value for autosave.enabled: %w", err)
			}
			c.Autosave.Enabled = b
			return nil
		},
	},
	"autosave.interval_ms": {
		get: func(c *Config) string {
			if c.Autosave.IntervalMS == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Autosave.IntervalMS), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for autosave.interval_ms: %w", err)
			}
			c.Autosave.IntervalMS = uint(n)
			return nil
		},
	},
	"history.limit": {
		get: func(c *Config) string {
			if c.History.Limit == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.History.Limit), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for history.limit: %w", err)
			}
			c.History.Limit = uint(n)
			return nil
		},
	},
	"recent.max": {
		get: func(c *Config) string {
			if c.Recent.Max == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Recent.Max), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for recent.max: %w", err)
			}
			c.Recent.Max = uint(n)
			return nil
		},
	},
}
