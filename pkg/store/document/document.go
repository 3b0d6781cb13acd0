// Package document implements the single-document store backend. The whole
// project serializes to one pretty-printed JSON file that is only ever
// replaced through a write-temp, fsync, atomic-rename sequence, so the
// canonical document is always either the previous complete state or the
// new complete state.
//
// A compact autosave sibling provides hot-exit recovery: it is written
// frequently without durability guarantees, preferred over the canonical
// document on load, and deleted by every clean save.
package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/inkwellco/easel/pkg/project"
	"github.com/inkwellco/easel/pkg/store"
)

const (
	// CanonicalName is the project document's filename inside the root.
	CanonicalName = "easel.json"

	tmpName      = CanonicalName + ".tmp"
	autosaveName = CanonicalName + ".autosave"
)

// Store is a document-backed project store rooted at a directory.
type Store struct {
	root   string
	logger *slog.Logger

	// Serializes writes to the canonical path. Autosave writes only its
	// own side path and takes no part in this.
	mu sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for swallowed autosave failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New creates a document store rooted at dir. The directory does not need
// to exist yet; Init creates it.
func New(dir string, opts ...Option) *Store {
	s := &Store{root: dir, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Exists reports whether dir holds a document-backed project.
func Exists(dir string) bool {
	if _, err := os.Stat(filepath.Join(dir, CanonicalName)); err == nil {
		return true
	}
	if _, err := os.Stat(filepath.Join(dir, autosaveName)); err == nil {
		return true
	}
	return false
}

// Path returns the canonical document path for a project root.
func Path(dir string) string {
	return filepath.Join(dir, CanonicalName)
}

// AutosavePath returns the autosave sidecar path for a project root.
func AutosavePath(dir string) string {
	return filepath.Join(dir, autosaveName)
}

// Root returns the store's root directory.
func (s *Store) Root() string { return s.root }

// Init creates and persists a fresh project, or loads the existing one if
// the root already holds a document.
func (s *Store) Init(ctx context.Context, name string) (*project.Project, error) {
	if Exists(s.root) {
		return s.Load(ctx)
	}

	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return nil, fmt.Errorf("creating project directory: %w", err)
	}

	p := project.New(name)
	if err := s.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Load reads the project, preferring the autosave artifact when present: an
// autosave left behind means the last session ended without a clean save.
func (s *Store) Load(_ context.Context) (*project.Project, error) {
	data, err := os.ReadFile(filepath.Join(s.root, autosaveName))
	if errors.Is(err, os.ErrNotExist) {
		data, err = os.ReadFile(filepath.Join(s.root, CanonicalName))
	}
	if errors.Is(err, os.ErrNotExist) {
		return nil, store.NotFoundError{Kind: "project", ID: s.root}
	}
	if err != nil {
		return nil, fmt.Errorf("reading project document: %w", err)
	}

	p := &project.Project{}
	if err := json.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parsing project document: %w", err)
	}

	if err := store.Validate(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Save atomically replaces the canonical document and removes any autosave
// artifact, re-establishing the canonical document as authoritative.
func (s *Store) Save(_ context.Context, p *project.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling project: %w", err)
	}

	canonical := filepath.Join(s.root, CanonicalName)
	tmp := filepath.Join(s.root, tmpName)

	if err := writeSync(tmp, data); err != nil {
		return err
	}
	if err := os.Rename(tmp, canonical); err != nil {
		return fmt.Errorf("replacing project document: %w", err)
	}

	if err := os.Remove(filepath.Join(s.root, autosaveName)); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("removing autosave artifact", "root", s.root, "error", err)
	}

	return nil
}

// Autosave writes a compact recovery copy to the side path. Failures are
// advisory: they are logged and never surface to the caller.
func (s *Store) Autosave(_ context.Context, p *project.Project) {
	data, err := json.Marshal(p)
	if err != nil {
		s.logger.Warn("marshaling autosave", "root", s.root, "error", err)
		return
	}

	if err := os.WriteFile(filepath.Join(s.root, autosaveName), data, 0o644); err != nil {
		s.logger.Warn("writing autosave", "root", s.root, "error", err)
	}
}

// Close is a no-op; the document store holds no open resources.
func (s *Store) Close() error { return nil }

// writeSync writes data to path and flushes it to stable storage before
// returning. A failure leaves at worst an orphaned temp file, which the
// next successful save overwrites.
func writeSync(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("creating temp document: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("writing temp document: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("flushing temp document: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing temp document: %w", err)
	}

	return nil
}

var _ store.Store = (*Store)(nil)
