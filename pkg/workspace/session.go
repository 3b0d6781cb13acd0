package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/inkwellco/easel/pkg/config"
	"github.com/inkwellco/easel/pkg/dotdir"
	"github.com/inkwellco/easel/pkg/project"
	"github.com/inkwellco/easel/pkg/store"
)

// ErrNoProjectOpen is returned by session operations that need an open
// project when there is none.
var ErrNoProjectOpen = errors.New("no project open")

// Session tracks the currently open project and its store. One session per
// process; the store handle inside assumes a single writer.
type Session struct {
	cfger     *config.Configer
	ddm       *dotdir.Manager
	logger    *slog.Logger
	configDir string

	path store.PathRef

	mu      sync.Mutex
	current store.Store
}

// NewSession builds a session using the .easel/ directory resolved from
// configDir (empty means the usual dotdir precedence).
func NewSession(configDir string, logger *slog.Logger) (*Session, error) {
	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return nil, err
	}

	return &Session{
		cfger:     cfger,
		ddm:       dotdir.NewManager(),
		logger:    logger,
		configDir: configDir,
	}, nil
}

// OpenProject opens the project at dir with the backend detected from its
// contents, loads it, and makes it the session's current project. The
// directory lands at the front of the recent list and in the persisted
// session state so the next launch can resume it.
func (s *Session) OpenProject(ctx context.Context, dir string) (*project.Project, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving project path: %w", err)
	}

	backend, err := Detect(abs)
	if err != nil {
		return nil, err
	}

	st, err := Open(abs, backend, s.logger)
	if err != nil {
		return nil, err
	}

	p, err := st.Load(ctx)
	if err != nil {
		st.Close()
		return nil, err
	}

	s.setCurrent(st, abs)
	s.remember(abs, backend)

	s.logger.Info("opened project", "name", p.Meta.Name, "path", abs, "backend", backend)
	return p, nil
}

// CreateProject initializes a new project named name under the configured
// workspace directory and makes it the session's current project. The
// backend argument overrides the configured default when non-empty.
func (s *Session) CreateProject(ctx context.Context, name string, backend Backend) (*project.Project, error) {
	return s.CreateProjectIn(ctx, "", name, backend)
}

// CreateProjectIn is CreateProject with an explicit parent directory. An
// empty parentDir falls back to the configured workspace directory.
func (s *Session) CreateProjectIn(ctx context.Context, parentDir, name string, backend Backend) (*project.Project, error) {
	if name == "" {
		return nil, errors.New("project name must not be empty")
	}

	cfg, err := s.cfger.LoadConfig()
	if err != nil {
		return nil, err
	}

	if backend == "" {
		backend = Backend(cfg.Workspace.Backend)
	}
	if !backend.Valid() {
		return nil, fmt.Errorf("unknown backend %q", backend)
	}

	if parentDir == "" {
		parentDir = cfg.Workspace.Dir
	}
	dir := filepath.Join(parentDir, name)
	if _, err := Detect(dir); err == nil {
		return nil, fmt.Errorf("project already exists at %s", dir)
	}

	st, err := Open(dir, backend, s.logger)
	if err != nil {
		return nil, err
	}

	p, err := st.Init(ctx, name)
	if err != nil {
		st.Close()
		return nil, err
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}

	s.setCurrent(st, abs)
	s.remember(abs, backend)

	s.logger.Info("created project", "name", name, "path", abs, "backend", backend)
	return p, nil
}

// ResumeLast reopens the project recorded in the persisted session state.
// Returns nil, nil when there is nothing to resume or the recorded project
// no longer exists on disk.
func (s *Session) ResumeLast(ctx context.Context) (*project.Project, error) {
	state, err := s.ddm.LoadSessionState(s.configDir)
	if err != nil {
		return nil, err
	}
	if state == nil || state.ProjectPath == "" {
		return nil, nil
	}

	p, err := s.OpenProject(ctx, state.ProjectPath)
	if store.IsNotFound(err) {
		// The project was deleted out from under us. Forget it.
		_ = s.ddm.ClearSession(s.configDir)
		_ = s.cfger.ForgetProject(state.ProjectPath)
		return nil, nil
	}
	return p, err
}

// Save persists p through the current project's store.
func (s *Session) Save(ctx context.Context, p *project.Project) error {
	st := s.Store()
	if st == nil {
		return ErrNoProjectOpen
	}
	return st.Save(ctx, p)
}

// Autosave writes a best-effort recovery copy of p.
func (s *Session) Autosave(ctx context.Context, p *project.Project) {
	st := s.Store()
	if st == nil {
		return
	}
	st.Autosave(ctx, p)
}

// RenameProject changes the current project's display name and saves it.
// The directory on disk keeps its name; only the metadata changes.
func (s *Session) RenameProject(ctx context.Context, newName string) (*project.Project, error) {
	if newName == "" {
		return nil, errors.New("project name must not be empty")
	}

	st := s.Store()
	if st == nil {
		return nil, ErrNoProjectOpen
	}

	p, err := st.Load(ctx)
	if err != nil {
		return nil, err
	}

	p.Meta.Name = newName
	p.Meta.UpdatedAt = project.Now()

	if err := st.Save(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("renamed project", "name", newName)
	return p, nil
}

// DeleteProject removes a project directory from disk. The directory must
// actually hold a project; arbitrary directories are refused so a stray
// path can't wipe unrelated data. Deleting the currently open project
// closes it first.
func (s *Session) DeleteProject(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving project path: %w", err)
	}

	if _, err := Detect(abs); err != nil {
		return fmt.Errorf("refusing to delete %s: %w", abs, err)
	}

	if current, ok := s.path.Get(); ok && current == abs {
		if err := s.CloseProject(); err != nil {
			return err
		}
	}

	if err := os.RemoveAll(abs); err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}

	if err := s.cfger.ForgetProject(abs); err != nil {
		s.logger.Warn("failed to update recent projects", "error", err)
	}

	s.logger.Info("deleted project", "path", abs)
	return nil
}

// CloseProject closes the current store and clears the session state.
func (s *Session) CloseProject() error {
	s.mu.Lock()
	st := s.current
	s.current = nil
	s.mu.Unlock()

	s.path.Clear()

	if err := s.ddm.ClearSession(s.configDir); err != nil {
		s.logger.Warn("failed to clear session state", "error", err)
	}

	if st == nil {
		return nil
	}
	return st.Close()
}

// Store returns the current project's store, or nil when no project is
// open.
func (s *Session) Store() store.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Path returns the current project directory.
func (s *Session) Path() (string, bool) {
	return s.path.Get()
}

// RecentProjects returns the recently opened project directories, most
// recent first.
func (s *Session) RecentProjects() ([]string, error) {
	cfg, err := s.cfger.LoadConfig()
	if err != nil {
		return nil, err
	}
	return cfg.Recent.Projects, nil
}

func (s *Session) setCurrent(st store.Store, abs string) {
	s.mu.Lock()
	if s.current != nil {
		s.current.Close()
	}
	s.current = st
	s.mu.Unlock()

	s.path.Set(abs)
}

func (s *Session) remember(abs string, backend Backend) {
	if err := s.cfger.RememberProject(abs); err != nil {
		s.logger.Warn("failed to update recent projects", "error", err)
	}

	state := &dotdir.SessionState{
		ProjectPath: abs,
		Backend:     string(backend),
		OpenedAt:    project.Now(),
	}
	if err := s.ddm.SaveSession(state, s.configDir); err != nil {
		s.logger.Warn("failed to persist session state", "error", err)
	}
}
