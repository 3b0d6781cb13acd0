package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/inkwellco/easel/pkg/hash"
	"github.com/inkwellco/easel/pkg/project"
	"github.com/inkwellco/easel/pkg/store"
)

// UpsertAsset writes an asset's current state. When the content hash
// differs from the stored one, the superseded content is snapshotted into
// the history ledger before the new content becomes current. Returns
// whether the hash actually changed; callers use this to flag downstream
// staleness.
func (s *Store) UpsertAsset(ctx context.Context, asset project.Asset) (bool, error) {
	if err := s.open(ctx); err != nil {
		return false, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning asset transaction: %w", err)
	}
	defer tx.Rollback()

	changed, err := upsertAsset(ctx, tx, asset)
	if err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing asset upsert: %w", err)
	}
	return changed, nil
}

func upsertAsset(ctx context.Context, q dbtx, asset project.Asset) (bool, error) {
	if asset.Value == nil {
		return false, fmt.Errorf("asset %s has no value", asset.ID)
	}
	if !asset.Value.Type().Valid() {
		return false, fmt.Errorf("asset %s has unknown value type %q", asset.ID, asset.Value.Type())
	}

	digest, canon, err := hash.Canonical(asset.Value.Payload())
	if err != nil {
		return false, err
	}

	var oldHash, oldContent string
	exists := true
	err = q.QueryRowContext(ctx,
		`SELECT value_hash, value_json FROM assets WHERE id = ?`,
		asset.ID).Scan(&oldHash, &oldContent)
	if errors.Is(err, sql.ErrNoRows) {
		exists = false
	} else if err != nil {
		return false, fmt.Errorf("reading asset %s: %w", asset.ID, err)
	}

	changed := !exists || oldHash != digest

	// Write-before-overwrite: the superseded content enters history before
	// anything newer replaces it. The currently-live value itself is never
	// duplicated into history.
	if exists && changed {
		if _, err := snapshotIfChanged(ctx, q, asset.ID, oldHash, []byte(oldContent)); err != nil {
			return false, err
		}
	}

	_, meta, config, err := project.EncodeValue(asset.Value)
	if err != nil {
		return false, err
	}
	sys, err := json.Marshal(asset.Sys)
	if err != nil {
		return false, fmt.Errorf("marshaling asset sys: %w", err)
	}

	updatedAt := asset.Sys.UpdatedAt
	if updatedAt == 0 {
		updatedAt = project.Now()
	}

	_, err = q.ExecContext(ctx,
		`INSERT INTO assets (id, value_type, value_hash, value_json, value_meta_json, config_json, sys_json, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		 	value_type = excluded.value_type,
		 	value_hash = excluded.value_hash,
		 	value_json = excluded.value_json,
		 	value_meta_json = excluded.value_meta_json,
		 	config_json = excluded.config_json,
		 	sys_json = excluded.sys_json,
		 	updated_at = excluded.updated_at`,
		asset.ID, string(asset.Value.Type()), digest, string(canon),
		nullableBytes(meta), nullableBytes(config), string(sys), updatedAt)
	if err != nil {
		return false, fmt.Errorf("upserting asset %s: %w", asset.ID, err)
	}

	return changed, nil
}

// Asset reads a single asset's current state.
func (s *Store) Asset(ctx context.Context, id string) (project.Asset, error) {
	if err := s.open(ctx); err != nil {
		return project.Asset{}, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, value_type, value_json, value_meta_json, config_json, sys_json
		 FROM assets WHERE id = ?`, id)

	a, err := scanAsset(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return project.Asset{}, store.NotFoundError{Kind: "asset", ID: id}
	}
	return a, err
}

// AssetsWhere returns current assets whose value type satisfies pred,
// newest first by update time. The media library view passes
// project.ValueType.Media to exclude text and record assets.
func (s *Store) AssetsWhere(ctx context.Context, pred func(project.ValueType) bool) ([]project.Asset, error) {
	if err := s.open(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, value_type, value_json, value_meta_json, config_json, sys_json
		 FROM assets ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("querying assets: %w", err)
	}
	defer rows.Close()

	var assets []project.Asset
	for rows.Next() {
		a, err := scanAsset(rows.Scan)
		if err != nil {
			return nil, err
		}
		if pred == nil || pred(a.Value.Type()) {
			assets = append(assets, a)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating assets: %w", err)
	}

	return assets, nil
}

// DeleteAsset removes an asset's current state. History entries are
// retained and remain addressable; nodes that referenced the asset are the
// caller's responsibility.
func (s *Store) DeleteAsset(ctx context.Context, id string) error {
	if err := s.open(ctx); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM assets WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting asset %s: %w", id, err)
	}
	return nil
}

func scanAsset(scan func(...any) error) (project.Asset, error) {
	var id string
	var valueType project.ValueType
	var value, sys string
	var meta, config sql.NullString

	if err := scan(&id, &valueType, &value, &meta, &config, &sys); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return project.Asset{}, err
		}
		return project.Asset{}, fmt.Errorf("scanning asset: %w", err)
	}

	var metaRaw, configRaw []byte
	if meta.Valid {
		metaRaw = []byte(meta.String)
	}
	if config.Valid {
		configRaw = []byte(config.String)
	}

	v, err := project.DecodeValue(valueType, []byte(value), metaRaw, configRaw)
	if err != nil {
		return project.Asset{}, fmt.Errorf("asset %s: %w", id, err)
	}

	a := project.Asset{ID: id, Value: v}
	if err := json.Unmarshal([]byte(sys), &a.Sys); err != nil {
		return project.Asset{}, fmt.Errorf("parsing asset %s sys: %w", id, err)
	}

	return a, nil
}

func nullableBytes(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
