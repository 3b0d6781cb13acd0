package project

import (
	"encoding/json"
	"fmt"
)

// Position is a node's location on the canvas.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a graph-visible element. It references content through
// Data.AssetID; the node itself carries only view state.
type Node struct {
	ID       string         `json:"id"`
	Type     string         `json:"type"`
	Position Position       `json:"position"`
	Width    *float64       `json:"width,omitempty"`
	Height   *float64       `json:"height,omitempty"`
	ParentID string         `json:"parent_id,omitempty"`
	Extent   string         `json:"extent,omitempty"`
	Style    map[string]any `json:"style,omitempty"`
	Data     NodeData       `json:"data"`
}

// Edge is a directed connection between two node ids.
type Edge struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	Target       string `json:"target"`
	SourceHandle string `json:"source_handle,omitempty"`
	TargetHandle string `json:"target_handle,omitempty"`
	Type         string `json:"type,omitempty"`
	Label        string `json:"label,omitempty"`
	Animated     bool   `json:"animated,omitempty"`
}

// NodeData is the node's data bag. Known fields are typed; anything else a
// node kind attaches lands in Extra and round-trips unchanged.
type NodeData struct {
	Title     string
	AssetID   string
	Reference bool
	Collapsed bool
	DockedTo  string
	Extra     map[string]any
}

var nodeDataKeys = map[string]bool{
	"title":     true,
	"asset_id":  true,
	"reference": true,
	"collapsed": true,
	"docked_to": true,
}

func (d NodeData) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(d.Extra)+5)
	for k, v := range d.Extra {
		if !nodeDataKeys[k] {
			m[k] = v
		}
	}

	m["title"] = d.Title
	if d.AssetID != "" {
		m["asset_id"] = d.AssetID
	}
	if d.Reference {
		m["reference"] = true
	}
	if d.Collapsed {
		m["collapsed"] = true
	}
	if d.DockedTo != "" {
		m["docked_to"] = d.DockedTo
	}

	return json.Marshal(m)
}

func (d *NodeData) UnmarshalJSON(b []byte) error {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("parsing node data: %w", err)
	}

	*d = NodeData{}

	if v, ok := raw["title"]; ok {
		if err := json.Unmarshal(v, &d.Title); err != nil {
			return fmt.Errorf("parsing node title: %w", err)
		}
	}
	if v, ok := raw["asset_id"]; ok {
		if err := json.Unmarshal(v, &d.AssetID); err != nil {
			return fmt.Errorf("parsing node asset_id: %w", err)
		}
	}
	if v, ok := raw["reference"]; ok {
		if err := json.Unmarshal(v, &d.Reference); err != nil {
			return fmt.Errorf("parsing node reference flag: %w", err)
		}
	}
	if v, ok := raw["collapsed"]; ok {
		if err := json.Unmarshal(v, &d.Collapsed); err != nil {
			return fmt.Errorf("parsing node collapsed flag: %w", err)
		}
	}
	if v, ok := raw["docked_to"]; ok {
		if err := json.Unmarshal(v, &d.DockedTo); err != nil {
			return fmt.Errorf("parsing node docked_to: %w", err)
		}
	}

	for k, v := range raw {
		if nodeDataKeys[k] {
			continue
		}
		var val any
		if err := json.Unmarshal(v, &val); err != nil {
			return fmt.Errorf("parsing node data field %q: %w", k, err)
		}
		if d.Extra == nil {
			d.Extra = map[string]any{}
		}
		d.Extra[k] = val
	}

	return nil
}
