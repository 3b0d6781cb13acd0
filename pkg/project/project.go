// Package project defines the in-memory model of an easel project: the
// visual graph, the asset registry, and the project-level metadata that the
// store persists as one unit. The store never retains a Project between
// operations; callers own the value and hand the store a snapshot per call.
package project

import (
	"time"

	"github.com/google/uuid"
)

// SchemaVersion tags the serialized form of a Project.
const SchemaVersion = "1.0.0"

// Project is the root aggregate persisted by the store.
type Project struct {
	Version  string           `json:"version"`
	Meta     Meta             `json:"meta"`
	Viewport Viewport         `json:"viewport"`
	Graph    Graph            `json:"graph"`
	Assets   map[string]Asset `json:"assets"`
	Settings map[string]any   `json:"settings,omitempty"`
}

// Meta holds project-level identity and bookkeeping. Timestamps are Unix
// milliseconds.
type Meta struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
	Description string `json:"description,omitempty"`
	Author      string `json:"author,omitempty"`
	Thumbnail   string `json:"thumbnail,omitempty"`
}

// Viewport is the last camera position of the editor. View-only state, no
// invariants.
type Viewport struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Zoom float64 `json:"zoom"`
}

// DefaultViewport returns the viewport a fresh project starts with.
func DefaultViewport() Viewport {
	return Viewport{X: 0, Y: 0, Zoom: 1}
}

// Graph holds the visual layer: nodes and the directed edges between them.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// New creates an empty project with a fresh id, default viewport, and no
// graph or assets.
func New(name string) *Project {
	now := Now()
	return &Project{
		Version: SchemaVersion,
		Meta: Meta{
			ID:        uuid.New().String(),
			Name:      name,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Viewport: DefaultViewport(),
		Graph:    Graph{Nodes: []Node{}, Edges: []Edge{}},
		Assets:   map[string]Asset{},
	}
}

// Now returns the current time in Unix milliseconds, the timestamp unit used
// throughout the model.
func Now() int64 {
	return time.Now().UnixMilli()
}
