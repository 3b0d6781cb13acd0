// Package store defines the persistence contract for easel projects: a
// whole-project save/load transaction manager with two interchangeable
// physical backends, plus the versioned asset operations the table backend
// layers on top.
package store

import (
	"context"

	"github.com/inkwellco/easel/pkg/project"
)

// DefaultHistoryLimit caps how many history entries a listing returns when
// the caller does not specify a limit. It matches the retention cap.
const DefaultHistoryLimit = 50

// Store persists whole projects. Implementations guarantee that Save is
// atomic with respect to the entire project: a crash mid-save leaves the
// prior state fully intact, never a partial mix.
//
// A Store handle assumes a single writer. Callers must not invoke Save
// concurrently on the same handle.
type Store interface {
	// Init creates a fresh project at the store's root and persists it
	// once. If a backing store already exists, Init loads it instead; it
	// never silently overwrites.
	Init(ctx context.Context, name string) (*project.Project, error)

	// Load reads the persisted project. Returns NotFoundError when no
	// backing store exists and ConsistencyError when the stored graph
	// references assets or nodes that are missing.
	Load(ctx context.Context) (*project.Project, error)

	// Save atomically persists the entire project.
	Save(ctx context.Context, p *project.Project) error

	// Autosave persists a best-effort recovery copy. It never fails from
	// the caller's point of view; write errors are logged and swallowed.
	Autosave(ctx context.Context, p *project.Project)

	Close() error
}

// HistoryEntry is an immutable snapshot of superseded asset content.
type HistoryEntry struct {
	ID          int64  `json:"id"`
	AssetID     string `json:"asset_id"`
	ContentHash string `json:"content_hash"`
	Content     []byte `json:"content"`
	CreatedAt   int64  `json:"created_at"`
}

// Versioned is the asset registry and history ledger surface of the table
// backend. The document backend does not keep per-asset history; callers
// that need it open the project with the table backend.
type Versioned interface {
	Store

	// UpsertAsset writes an asset's current state. When the content hash
	// changed, the superseded content is snapshotted into history first.
	// Returns whether the hash actually changed.
	UpsertAsset(ctx context.Context, asset project.Asset) (bool, error)

	// Asset reads a single asset's current state.
	Asset(ctx context.Context, id string) (project.Asset, error)

	// AssetsWhere returns current assets whose value type satisfies pred,
	// newest first by update time.
	AssetsWhere(ctx context.Context, pred func(project.ValueType) bool) ([]project.Asset, error)

	// DeleteAsset removes an asset's current state. History is retained;
	// the caller is responsible for any nodes that referenced the asset.
	DeleteAsset(ctx context.Context, id string) error

	// CurrentHash returns the content hash of an asset's current state,
	// or "" when the asset does not exist.
	CurrentHash(ctx context.Context, assetID string) (string, error)

	// History lists snapshots for an asset, newest first. A limit <= 0
	// applies DefaultHistoryLimit.
	History(ctx context.Context, assetID string, limit int) ([]HistoryEntry, error)

	// HistoryEntry fetches one snapshot by id.
	HistoryEntry(ctx context.Context, id int64) (HistoryEntry, error)

	// HistoryCount returns the number of snapshots held for an asset.
	HistoryCount(ctx context.Context, assetID string) (int, error)

	// RestoreAssetVersion makes a snapshot's content the asset's current
	// content, snapshotting the overwritten state first. Fails with
	// ConsistencyError when the entry belongs to a different asset.
	RestoreAssetVersion(ctx context.Context, assetID string, historyID int64) (project.Value, error)
}
