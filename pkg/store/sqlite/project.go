package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/inkwellco/easel/pkg/project"
	"github.com/inkwellco/easel/pkg/store"
)

// Init creates a fresh project at the store's root and persists it once.
// If a database already exists there, Init loads it instead.
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

	s.logger.Info("initialized project", "name", name, "root", s.root)
	return p, nil
}

// Load reads the whole project out of the database.
func (s *Store) Load(ctx context.Context) (*project.Project, error) {
	if !Exists(s.root) {
		return nil, store.NotFoundError{Kind: "project", ID: s.root}
	}
	if err := s.open(ctx); err != nil {
		return nil, err
	}

	p := &project.Project{
		Version: project.SchemaVersion,
		Graph:   project.Graph{Nodes: []project.Node{}, Edges: []project.Edge{}},
		Assets:  map[string]project.Asset{},
	}

	if err := s.loadMeta(ctx, p); err != nil {
		return nil, err
	}
	if err := s.loadViewport(ctx, p); err != nil {
		return nil, err
	}
	if err := s.loadNodes(ctx, p); err != nil {
		return nil, err
	}
	if err := s.loadEdges(ctx, p); err != nil {
		return nil, err
	}
	if err := s.loadAssets(ctx, p); err != nil {
		return nil, err
	}
	if err := s.loadSettings(ctx, p); err != nil {
		return nil, err
	}

	if err := store.Validate(p); err != nil {
		return nil, err
	}

	return p, nil
}

// Save persists the entire project in one transaction. Graph rows are
// replaced wholesale; assets go through the versioned upsert so superseded
// content lands in history before being overwritten. Assets present in the
// database but absent from the project are removed.
func (s *Store) Save(ctx context.Context, p *project.Project) error {
	if err := s.open(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning save transaction: %w", err)
	}
	defer tx.Rollback()

	if err := saveMeta(ctx, tx, p); err != nil {
		return err
	}
	if err := saveViewport(ctx, tx, p.Viewport); err != nil {
		return err
	}
	if err := saveNodes(ctx, tx, p.Graph.Nodes); err != nil {
		return err
	}
	if err := saveEdges(ctx, tx, p.Graph.Edges); err != nil {
		return err
	}
	if err := saveAssets(ctx, tx, p.Assets); err != nil {
		return err
	}
	if err := saveSettings(ctx, tx, p.Settings); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing save: %w", err)
	}

	s.logger.Debug("saved project",
		"nodes", len(p.Graph.Nodes),
		"edges", len(p.Graph.Edges),
		"assets", len(p.Assets))
	return nil
}

// Autosave persists a recovery copy. The table backend's saves are already
// transactional, so autosave is a plain save with errors logged and
// swallowed.
func (s *Store) Autosave(ctx context.Context, p *project.Project) {
	if err := s.Save(ctx, p); err != nil {
		s.logger.Warn("autosave failed", "error", err)
	}
}

func saveMeta(ctx context.Context, q dbtx, p *project.Project) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO project_meta (id, name, description, author, thumbnail, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		 	name = excluded.name,
		 	description = excluded.description,
		 	author = excluded.author,
		 	thumbnail = excluded.thumbnail,
		 	created_at = excluded.created_at,
		 	updated_at = excluded.updated_at`,
		p.Meta.ID, p.Meta.Name,
		nullable(p.Meta.Description), nullable(p.Meta.Author), nullable(p.Meta.Thumbnail),
		p.Meta.CreatedAt, p.Meta.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving project meta: %w", err)
	}

	// One project per database. Stale rows from an earlier identity (a
	// project duplicated into a fresh directory, say) are dropped.
	if _, err := q.ExecContext(ctx, `DELETE FROM project_meta WHERE id != ?`, p.Meta.ID); err != nil {
		return fmt.Errorf("pruning project meta: %w", err)
	}
	return nil
}

func saveViewport(ctx context.Context, q dbtx, v project.Viewport) error {
	_, err := q.ExecContext(ctx,
		`UPDATE viewport SET x = ?, y = ?, zoom = ? WHERE id = 1`,
		v.X, v.Y, v.Zoom)
	if err != nil {
		return fmt.Errorf("saving viewport: %w", err)
	}
	return nil
}

func saveNodes(ctx context.Context, q dbtx, nodes []project.Node) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM nodes`); err != nil {
		return fmt.Errorf("clearing nodes: %w", err)
	}

	for _, n := range nodes {
		var style any
		if len(n.Style) > 0 {
			b, err := json.Marshal(n.Style)
			if err != nil {
				return fmt.Errorf("marshaling node %s style: %w", n.ID, err)
			}
			style = string(b)
		}
		data, err := json.Marshal(n.Data)
		if err != nil {
			return fmt.Errorf("marshaling node %s data: %w", n.ID, err)
		}

		var width, height any
		if n.Width != nil {
			width = *n.Width
		}
		if n.Height != nil {
			height = *n.Height
		}

		_, err = q.ExecContext(ctx,
			`INSERT INTO nodes (id, type, x, y, width, height, parent_id, extent, style_json, data_json)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			n.ID, n.Type, n.Position.X, n.Position.Y,
			width, height, nullable(n.ParentID), nullable(n.Extent),
			style, string(data))
		if err != nil {
			return fmt.Errorf("inserting node %s: %w", n.ID, err)
		}
	}
	return nil
}

func saveEdges(ctx context.Context, q dbtx, edges []project.Edge) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM edges`); err != nil {
		return fmt.Errorf("clearing edges: %w", err)
	}

	for _, e := range edges {
		_, err := q.ExecContext(ctx,
			`INSERT INTO edges (id, source, target, source_handle, target_handle, type, label, animated)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.Source, e.Target,
			nullable(e.SourceHandle), nullable(e.TargetHandle),
			nullable(e.Type), nullable(e.Label), e.Animated)
		if err != nil {
			return fmt.Errorf("inserting edge %s: %w", e.ID, err)
		}
	}
	return nil
}

func saveAssets(ctx context.Context, q dbtx, assets map[string]project.Asset) error {
	for id, a := range assets {
		if a.ID == "" {
			a.ID = id
		}
		if _, err := upsertAsset(ctx, q, a); err != nil {
			return err
		}
	}

	// Assets dropped from the project are removed from the current table.
	// Their history entries stay behind and remain restorable.
	rows, err := q.QueryContext(ctx, `SELECT id FROM assets`)
	if err != nil {
		return fmt.Errorf("listing assets for cleanup: %w", err)
	}
	defer rows.Close()

	var orphans []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("scanning asset id: %w", err)
		}
		if _, ok := assets[id]; !ok {
			orphans = append(orphans, id)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating asset ids: %w", err)
	}

	for _, id := range orphans {
		if _, err := q.ExecContext(ctx, `DELETE FROM assets WHERE id = ?`, id); err != nil {
			return fmt.Errorf("removing asset %s: %w", id, err)
		}
	}
	return nil
}

func saveSettings(ctx context.Context, q dbtx, settings map[string]any) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM settings`); err != nil {
		return fmt.Errorf("clearing settings: %w", err)
	}

	for key, value := range settings {
		b, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("marshaling setting %s: %w", key, err)
		}
		_, err = q.ExecContext(ctx,
			`INSERT INTO settings (key, value_json) VALUES (?, ?)`,
			key, string(b))
		if err != nil {
			return fmt.Errorf("inserting setting %s: %w", key, err)
		}
	}
	return nil
}

func (s *Store) loadMeta(ctx context.Context, p *project.Project) error {
	var description, author, thumbnail sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, author, thumbnail, created_at, updated_at
		 FROM project_meta LIMIT 1`).
		Scan(&p.Meta.ID, &p.Meta.Name, &description, &author, &thumbnail,
			&p.Meta.CreatedAt, &p.Meta.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return store.NotFoundError{Kind: "project", ID: s.root}
	}
	if err != nil {
		return fmt.Errorf("loading project meta: %w", err)
	}

	p.Meta.Description = description.String
	p.Meta.Author = author.String
	p.Meta.Thumbnail = thumbnail.String
	return nil
}

func (s *Store) loadViewport(ctx context.Context, p *project.Project) error {
	err := s.db.QueryRowContext(ctx,
		`SELECT x, y, zoom FROM viewport WHERE id = 1`).
		Scan(&p.Viewport.X, &p.Viewport.Y, &p.Viewport.Zoom)
	if errors.Is(err, sql.ErrNoRows) {
		p.Viewport = project.DefaultViewport()
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading viewport: %w", err)
	}
	return nil
}

func (s *Store) loadNodes(ctx context.Context, p *project.Project) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, type, x, y, width, height, parent_id, extent, style_json, data_json
		 FROM nodes ORDER BY id`)
	if err != nil {
		return fmt.Errorf("loading nodes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var n project.Node
		var width, height sql.NullFloat64
		var parentID, extent, style sql.NullString
		var data string

		err := rows.Scan(&n.ID, &n.Type, &n.Position.X, &n.Position.Y,
			&width, &height, &parentID, &extent, &style, &data)
		if err != nil {
			return fmt.Errorf("scanning node: %w", err)
		}

		if width.Valid {
			w := width.Float64
			n.Width = &w
		}
		if height.Valid {
			h := height.Float64
			n.Height = &h
		}
		n.ParentID = parentID.String
		n.Extent = extent.String

		if style.Valid {
			if err := json.Unmarshal([]byte(style.String), &n.Style); err != nil {
				return fmt.Errorf("parsing node %s style: %w", n.ID, err)
			}
		}
		if err := json.Unmarshal([]byte(data), &n.Data); err != nil {
			return fmt.Errorf("parsing node %s data: %w", n.ID, err)
		}

		p.Graph.Nodes = append(p.Graph.Nodes, n)
	}
	return rows.Err()
}

func (s *Store) loadEdges(ctx context.Context, p *project.Project) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, target, source_handle, target_handle, type, label, animated
		 FROM edges ORDER BY id`)
	if err != nil {
		return fmt.Errorf("loading edges: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e project.Edge
		var sourceHandle, targetHandle, edgeType, label sql.NullString

		err := rows.Scan(&e.ID, &e.Source, &e.Target,
			&sourceHandle, &targetHandle, &edgeType, &label, &e.Animated)
		if err != nil {
			return fmt.Errorf("scanning edge: %w", err)
		}

		e.SourceHandle = sourceHandle.String
		e.TargetHandle = targetHandle.String
		e.Type = edgeType.String
		e.Label = label.String

		p.Graph.Edges = append(p.Graph.Edges, e)
	}
	return rows.Err()
}

func (s *Store) loadAssets(ctx context.Context, p *project.Project) error {
	assets, err := s.AssetsWhere(ctx, nil)
	if err != nil {
		return err
	}
	for _, a := range assets {
		p.Assets[a.ID] = a
	}
	return nil
}

func (s *Store) loadSettings(ctx context.Context, p *project.Project) error {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value_json FROM settings`)
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return fmt.Errorf("scanning setting: %w", err)
		}
		var v any
		if err := json.Unmarshal([]byte(value), &v); err != nil {
			return fmt.Errorf("parsing setting %s: %w", key, err)
		}
		if p.Settings == nil {
			p.Settings = map[string]any{}
		}
		p.Settings[key] = v
	}
	return rows.Err()
}
