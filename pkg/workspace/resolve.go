package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/inkwellco/easel/pkg/dotdir"
)

// ResolveDir picks the project directory a command should operate on.
// An explicit dir always wins. Otherwise the last project recorded in the
// session state is used, and failing that the current working directory
// when it holds a project.
func ResolveDir(configDir, explicit string) (string, error) {
	if explicit != "" {
		return filepath.Abs(explicit)
	}

	ddm := dotdir.NewManager()
	state, err := ddm.LoadSessionState(configDir)
	if err != nil {
		return "", fmt.Errorf("loading session state: %w", err)
	}
	if state != nil && state.ProjectPath != "" {
		return state.ProjectPath, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}
	if _, err := Detect(cwd); err == nil {
		return cwd, nil
	}

	return "", fmt.Errorf("no project open: pass --dir or open a project first")
}
