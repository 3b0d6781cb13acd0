// Package workspace resolves project directories to store backends and
// manages the editing session: which project is open, where it lives, and
// the bookkeeping around opening, creating, renaming, and deleting
// projects.
package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/inkwellco/easel/pkg/store"
	"github.com/inkwellco/easel/pkg/store/document"
	"github.com/inkwellco/easel/pkg/store/sqlite"
)

// Backend names a store backend.
type Backend string

const (
	BackendDocument Backend = "document"
	BackendSQLite   Backend = "sqlite"
)

// Valid reports whether b names a known backend.
func (b Backend) Valid() bool {
	return b == BackendDocument || b == BackendSQLite
}

// Detect inspects a project directory and reports which backend it uses.
// When both backend files exist the table backend wins; the document file
// is treated as a leftover export. Returns NotFoundError when the
// directory holds neither.
func Detect(dir string) (Backend, error) {
	if sqlite.Exists(dir) {
		return BackendSQLite, nil
	}
	if document.Exists(dir) {
		return BackendDocument, nil
	}
	return "", store.NotFoundError{Kind: "project", ID: dir}
}

// Open returns a store for the project at dir. An empty backend means
// detect from the directory contents; a named backend is used as-is, which
// is how new projects choose their format before any file exists.
func Open(dir string, backend Backend, logger *slog.Logger) (store.Store, error) {
	if backend == "" {
		detected, err := Detect(dir)
		if err != nil {
			return nil, err
		}
		backend = detected
	}

	switch backend {
	case BackendDocument:
		return document.New(dir, document.WithLogger(logger)), nil
	case BackendSQLite:
		return sqlite.New(dir, sqlite.WithLogger(logger)), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", backend)
	}
}

// ProjectInfo describes a project directory found in the workspace.
type ProjectInfo struct {
	Name    string  `json:"name"`
	Path    string  `json:"path"`
	Backend Backend `json:"backend"`
}

// ListProjects scans a workspace directory for project subdirectories. A
// subdirectory counts as a project when Detect recognizes it; anything
// else is skipped. A missing workspace directory yields an empty list.
func ListProjects(workspaceDir string) ([]ProjectInfo, error) {
	entries, err := os.ReadDir(workspaceDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading workspace directory: %w", err)
	}

	var projects []ProjectInfo
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(workspaceDir, entry.Name())
		backend, err := Detect(dir)
		if err != nil {
			continue
		}
		projects = append(projects, ProjectInfo{
			Name:    entry.Name(),
			Path:    dir,
			Backend: backend,
		})
	}

	return projects, nil
}
