package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/inkwellco/easel/pkg/project"
	"github.com/inkwellco/easel/pkg/store/document"
	"github.com/inkwellco/easel/pkg/store/sqlite"
)

// Migrate converts the project at dir from its current backend to the
// target backend, in place. The whole project is loaded from the source
// and saved through the target, so a document project gains a history
// ledger going forward and a table project flattens into one file.
//
// When removeSource is true the source backend's files are deleted after
// a successful save. Otherwise they stay behind, which matters for the
// sqlite-to-document direction: the table file wins detection, so the
// migrated document is shadowed until the database is removed.
func Migrate(ctx context.Context, dir string, to Backend, removeSource bool, logger *slog.Logger) (*project.Project, error) {
	if !to.Valid() {
		return nil, fmt.Errorf("unknown backend %q", to)
	}

	from, err := Detect(dir)
	if err != nil {
		return nil, err
	}
	if from == to {
		return nil, fmt.Errorf("project at %s already uses the %s backend", dir, to)
	}

	src, err := Open(dir, from, logger)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	p, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}

	dst, err := Open(dir, to, logger)
	if err != nil {
		return nil, err
	}
	defer dst.Close()

	if err := dst.Save(ctx, p); err != nil {
		return nil, err
	}

	if removeSource {
		if err := removeBackendFiles(dir, from); err != nil {
			return nil, err
		}
	}

	logger.Info("migrated project", "path", dir, "from", from, "to", to)
	return p, nil
}

func removeBackendFiles(dir string, backend Backend) error {
	var paths []string
	switch backend {
	case BackendDocument:
		paths = []string{
			document.Path(dir),
			document.AutosavePath(dir),
		}
	case BackendSQLite:
		db := sqlite.DBPath(dir)
		paths = []string{db, db + "-wal", db + "-shm"}
	}

	for _, path := range paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing %s: %w", path, err)
		}
	}
	return nil
}
