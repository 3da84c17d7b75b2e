// Package graph implements the mind-map engine: adjacency building, depth
// calculation, collapse policy, visibility filtering, tree layout, and the
// selection/highlight state machine. Everything here is a pure function of
// (snapshot, session state); nothing blocks or touches the network.
package graph

import "github.com/kraitsura/insight_viewer/pkg/model"

// Adjacency holds the id-indexed relationship maps derived from a flat edge
// list. Relationships are kept as id-keyed maps rather than pointers between
// nodes so a snapshot can be rebuilt wholesale without ownership concerns.
type Adjacency struct {
	// Children maps a node id to its child ids in edge insertion order.
	Children map[string][]string
	// Parent maps a node id to its parent id. If a node appears as the
	// target of multiple edges, the last-seen edge wins.
	Parent map[string]string
}

// BuildAdjacency derives children and parent maps from the snapshot's edge
// list. Edges with an empty endpoint, or an endpoint that does not name a
// known node, are skipped. O(N + E).
func BuildAdjacency(nodes []model.Node, edges []model.Edge) Adjacency {
	known := make(map[string]bool, len(nodes))
	for i := range nodes {
		known[nodes[i].ID] = true
	}

	adj := Adjacency{
		Children: make(map[string][]string),
		Parent:   make(map[string]string),
	}
	for _, edge := range edges {
		if edge.Source == "" || edge.Target == "" {
			continue
		}
		if !known[edge.Source] || !known[edge.Target] {
			continue
		}
		adj.Children[edge.Source] = append(adj.Children[edge.Source], edge.Target)
		adj.Parent[edge.Target] = edge.Source
	}
	return adj
}

// HasChildren returns true if the node has at least one child.
func (a Adjacency) HasChildren(id string) bool {
	return len(a.Children[id]) > 0
}

// FindRoot looks for the unique node with no incoming edge. The second
// return is false when zero or multiple candidates exist, in which case the
// caller should fall back to degraded rendering rather than erroring.
func FindRoot(nodes []model.Node, edges []model.Edge) (string, bool) {
	incoming := make(map[string]bool, len(edges))
	for _, edge := range edges {
		if edge.Target != "" {
			incoming[edge.Target] = true
		}
	}

	root := ""
	for i := range nodes {
		if incoming[nodes[i].ID] {
			continue
		}
		if root != "" {
			return "", false // multiple candidates
		}
		root = nodes[i].ID
	}
	if root == "" {
		return "", false
	}
	return root, true
}
