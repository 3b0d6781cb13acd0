// Package sqlite implements the table store backend on a single SQLite
// database file. Whole-project saves run inside one transaction; asset
// writes feed the content-addressed history ledger before overwriting
// current state.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/inkwellco/easel/pkg/store"
)

// DBName is the database filename inside the project root.
const DBName = "easel.db"

// schemaVersion is written to PRAGMA user_version on migration.
const schemaVersion = 1

const schemaSQL = `
CREATE TABLE IF NOT EXISTS project_meta (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT,
	author TEXT,
	thumbnail TEXT,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS viewport (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	x REAL NOT NULL DEFAULT 0,
	y REAL NOT NULL DEFAULT 0,
	zoom REAL NOT NULL DEFAULT 1
);

INSERT OR IGNORE INTO viewport (id, x, y, zoom) VALUES (1, 0, 0, 1);

CREATE TABLE IF NOT EXISTS nodes (
	id TEXT PRIMARY KEY,
	type TEXT NOT NULL,
	x REAL NOT NULL,
	y REAL NOT NULL,
	width REAL,
	height REAL,
	parent_id TEXT,
	extent TEXT,
	style_json TEXT,
	data_json TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS edges (
	id TEXT PRIMARY KEY,
	source TEXT NOT NULL,
	target TEXT NOT NULL,
	source_handle TEXT,
	target_handle TEXT,
	type TEXT,
	label TEXT,
	animated INTEGER DEFAULT 0
);

CREATE TABLE IF NOT EXISTS assets (
	id TEXT PRIMARY KEY,
	value_type TEXT NOT NULL,
	value_hash TEXT NOT NULL,
	value_json TEXT NOT NULL,
	value_meta_json TEXT,
	config_json TEXT,
	sys_json TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS asset_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	asset_id TEXT NOT NULL,
	content_hash TEXT NOT NULL,
	content_json TEXT NOT NULL,
	created_at INTEGER NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_history_dedup
	ON asset_history(asset_id, content_hash);

CREATE INDEX IF NOT EXISTS idx_history_time
	ON asset_history(asset_id, created_at DESC);

CREATE INDEX IF NOT EXISTS idx_asset_hash
	ON assets(value_hash);

CREATE TABLE IF NOT EXISTS settings (
	key TEXT PRIMARY KEY,
	value_json TEXT NOT NULL
);
`

// Store is a SQLite-backed project store rooted at a directory. The
// database file lives at <root>/easel.db.
type Store struct {
	root   string
	logger *slog.Logger

	db *sql.DB
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for swallowed autosave failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New creates a store rooted at dir. Nothing touches the filesystem until
// an operation needs the database.
func New(dir string, opts ...Option) *Store {
	s := &Store{root: dir, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Exists reports whether dir holds a table-backed project.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, DBName))
	return err == nil
}

// Root returns the store's root directory.
func (s *Store) Root() string { return s.root }

// DBPath returns the database file path for a project root.
func DBPath(dir string) string {
	return filepath.Join(dir, DBName)
}

// open lazily opens the database connection and runs migration. Migration
// is append-only: CREATE IF NOT EXISTS throughout, so reopening an existing
// database is a no-op.
func (s *Store) open(ctx context.Context) error {
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", DBPath(s.root))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}

	pragmas := `PRAGMA journal_mode = WAL;
		PRAGMA synchronous = NORMAL;
		PRAGMA foreign_keys = ON;
		PRAGMA busy_timeout = 5000;`
	if _, err := db.ExecContext(ctx, pragmas); err != nil {
		db.Close()
		return fmt.Errorf("configuring database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		db.Close()
		return fmt.Errorf("migrating database: %w", err)
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		db.Close()
		return fmt.Errorf("stamping schema version: %w", err)
	}

	s.db = db
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// dbtx is the subset of database/sql shared by *sql.DB and *sql.Tx, so the
// row-level helpers run both standalone and inside a save transaction.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// nullable maps "" to NULL so optional text columns round-trip cleanly.
func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}

var _ store.Versioned = (*Store)(nil)
