package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/inkwellco/easel/pkg/project"
	"github.com/inkwellco/easel/pkg/store"
)

// retentionCap is the maximum number of history entries kept per asset.
const retentionCap = 50

// SnapshotIfChanged appends superseded content to the history ledger unless
// an entry with the same (asset id, content hash) already exists. Returns
// whether a new entry was created. Every successful insert trims the
// asset's history to the retention cap within the same operation.
func (s *Store) SnapshotIfChanged(ctx context.Context, assetID, contentHash string, content []byte) (bool, error) {
	if err := s.open(ctx); err != nil {
		return false, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning snapshot transaction: %w", err)
	}
	defer tx.Rollback()

	created, err := snapshotIfChanged(ctx, tx, assetID, contentHash, content)
	if err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing snapshot: %w", err)
	}
	return created, nil
}

func snapshotIfChanged(ctx context.Context, q dbtx, assetID, contentHash string, content []byte) (bool, error) {
	res, err := q.ExecContext(ctx,
		`INSERT OR IGNORE INTO asset_history (asset_id, content_hash, content_json, created_at)
		 VALUES (?, ?, ?, ?)`,
		assetID, contentHash, string(content), project.Now())
	if err != nil {
		return false, fmt.Errorf("inserting history entry: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking history insert: %w", err)
	}
	if n == 0 {
		return false, nil
	}

	if err := trimHistory(ctx, q, assetID); err != nil {
		return false, err
	}
	return true, nil
}

// trimHistory deletes everything but the newest retentionCap entries for an
// asset. The id tiebreaker keeps ordering stable when several snapshots
// share a creation timestamp.
func trimHistory(ctx context.Context, q dbtx, assetID string) error {
	_, err := q.ExecContext(ctx,
		`DELETE FROM asset_history
		 WHERE asset_id = ?
		 AND id NOT IN (
		 	SELECT id FROM asset_history
		 	WHERE asset_id = ?
		 	ORDER BY created_at DESC, id DESC
		 	LIMIT ?
		 )`,
		assetID, assetID, retentionCap)
	if err != nil {
		return fmt.Errorf("trimming history: %w", err)
	}
	return nil
}

// History lists an asset's snapshots, newest first. A limit <= 0 applies
// store.DefaultHistoryLimit.
func (s *Store) History(ctx context.Context, assetID string, limit int) ([]store.HistoryEntry, error) {
	if err := s.open(ctx); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = store.DefaultHistoryLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, asset_id, content_hash, content_json, created_at
		 FROM asset_history
		 WHERE asset_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		assetID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []store.HistoryEntry
	for rows.Next() {
		e, err := scanHistoryEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating history: %w", err)
	}

	return entries, nil
}

// HistoryEntry fetches one snapshot by its sequence id.
func (s *Store) HistoryEntry(ctx context.Context, id int64) (store.HistoryEntry, error) {
	if err := s.open(ctx); err != nil {
		return store.HistoryEntry{}, err
	}
	return historyEntry(ctx, s.db, id)
}

func historyEntry(ctx context.Context, q dbtx, id int64) (store.HistoryEntry, error) {
	row := q.QueryRowContext(ctx,
		`SELECT id, asset_id, content_hash, content_json, created_at
		 FROM asset_history
		 WHERE id = ?`, id)

	e, err := scanHistoryEntry(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return store.HistoryEntry{}, store.NotFoundError{Kind: "history entry", ID: strconv.FormatInt(id, 10)}
	}
	if err != nil {
		return store.HistoryEntry{}, err
	}
	return e, nil
}

func scanHistoryEntry(scan func(...any) error) (store.HistoryEntry, error) {
	var e store.HistoryEntry
	var content string

	if err := scan(&e.ID, &e.AssetID, &e.ContentHash, &content, &e.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.HistoryEntry{}, err
		}
		return store.HistoryEntry{}, fmt.Errorf("scanning history entry: %w", err)
	}

	e.Content = []byte(content)
	return e, nil
}

// HistoryCount returns the number of snapshots held for an asset.
func (s *Store) HistoryCount(ctx context.Context, assetID string) (int, error) {
	if err := s.open(ctx); err != nil {
		return 0, err
	}

	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM asset_history WHERE asset_id = ?`, assetID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting history: %w", err)
	}
	return n, nil
}

// CurrentHash returns the content hash of an asset's current state as held
// by the registry, or "" when the asset does not exist.
func (s *Store) CurrentHash(ctx context.Context, assetID string) (string, error) {
	if err := s.open(ctx); err != nil {
		return "", err
	}
	return currentHash(ctx, s.db, assetID)
}

func currentHash(ctx context.Context, q dbtx, assetID string) (string, error) {
	var h string
	err := q.QueryRowContext(ctx,
		`SELECT value_hash FROM assets WHERE id = ?`, assetID).Scan(&h)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading current hash: %w", err)
	}
	return h, nil
}

// RestoreAssetVersion makes a snapshot's content the asset's current
// content. The overwritten state goes through the usual
// write-before-overwrite protocol, so restoring never loses the current
// content and never duplicates an existing snapshot.
func (s *Store) RestoreAssetVersion(ctx context.Context, assetID string, historyID int64) (project.Value, error) {
	if err := s.open(ctx); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning restore transaction: %w", err)
	}
	defer tx.Rollback()

	entry, err := historyEntry(ctx, tx, historyID)
	if err != nil {
		return nil, err
	}
	if entry.AssetID != assetID {
		return nil, store.ConsistencyError{
			Detail: fmt.Sprintf("history entry %d belongs to asset %s, not %s", historyID, entry.AssetID, assetID),
		}
	}

	var valueType project.ValueType
	var curHash, curContent string
	var config sql.NullString
	err = tx.QueryRowContext(ctx,
		`SELECT value_type, value_hash, value_json, config_json FROM assets WHERE id = ?`,
		assetID).Scan(&valueType, &curHash, &curContent, &config)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.NotFoundError{Kind: "asset", ID: assetID}
	}
	if err != nil {
		return nil, fmt.Errorf("reading asset %s: %w", assetID, err)
	}

	if curHash != entry.ContentHash {
		if _, err := snapshotIfChanged(ctx, tx, assetID, curHash, []byte(curContent)); err != nil {
			return nil, err
		}
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE assets SET value_json = ?, value_hash = ?, updated_at = ? WHERE id = ?`,
		string(entry.Content), entry.ContentHash, project.Now(), assetID)
	if err != nil {
		return nil, fmt.Errorf("restoring asset %s: %w", assetID, err)
	}

	var configRaw []byte
	if config.Valid {
		configRaw = []byte(config.String)
	}

	// Derived metadata for the restored content is left for the caller to
	// recompute; only the payload and config are authoritative.
	value, err := project.DecodeValue(valueType, entry.Content, nil, configRaw)
	if err != nil {
		return nil, fmt.Errorf("decoding restored content: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing restore: %w", err)
	}
	return value, nil
}
