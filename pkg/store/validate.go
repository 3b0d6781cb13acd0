package store

import "github.com/inkwellco/easel/pkg/project"

// Validate checks a loaded project's referential integrity: every node that
// carries an asset reference must point at an asset in the project, and
// every edge endpoint must name an existing node. Violations surface as a
// ConsistencyError; the store never drops or repairs the offending element.
func Validate(p *project.Project) error {
	for _, n := range p.Graph.Nodes {
		if n.Data.AssetID == "" {
			continue
		}
		if _, ok := p.Assets[n.Data.AssetID]; !ok {
			return consistencyf("node %s references missing asset %s", n.ID, n.Data.AssetID)
		}
	}

	nodes := make(map[string]bool, len(p.Graph.Nodes))
	for _, n := range p.Graph.Nodes {
		nodes[n.ID] = true
	}

	for _, e := range p.Graph.Edges {
		if !nodes[e.Source] {
			return consistencyf("edge %s references missing source node %s", e.ID, e.Source)
		}
		if !nodes[e.Target] {
			return consistencyf("edge %s references missing target node %s", e.ID, e.Target)
		}
	}

	return nil
}
