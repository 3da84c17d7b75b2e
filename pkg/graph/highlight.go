package graph

import "github.com/kraitsura/insight_viewer/pkg/model"

// Highlight is the emphasis set computed from the current selection: the
// selected node, its ancestor chain up to the root, and its direct children,
// plus the edges connecting them. Everything else renders dimmed.
type Highlight struct {
	Nodes map[string]bool
	Edges map[string]bool
}

// Active reports whether any node is emphasized.
func (h Highlight) Active() bool {
	return len(h.Nodes) > 0
}

// ComputeHighlight builds the highlight set for the selected node. With no
// selection it returns an empty set (everything renders at full opacity).
//
// Direct children are taken straight from the edge list, not the visible
// subgraph: a child hidden behind a collapse still belongs to the set, it
// just won't render because it is not visible. The ancestor walk stops when
// no parent is found and carries a visited guard so a cyclic parent map
// cannot loop.
func ComputeHighlight(selectedID string, edges []model.Edge, parent map[string]string) Highlight {
	h := Highlight{}
	if selectedID == "" {
		return h
	}
	h.Nodes = map[string]bool{selectedID: true}
	h.Edges = make(map[string]bool)

	// Ancestor chain, root inclusive.
	visited := map[string]bool{selectedID: true}
	for cur := selectedID; ; {
		p, ok := parent[cur]
		if !ok || visited[p] {
			break
		}
		visited[p] = true
		h.Nodes[p] = true
		markEdges(h.Edges, edges, p, cur)
		cur = p
	}

	// Direct children of the selection.
	for _, edge := range edges {
		if edge.Source == selectedID && edge.Target != "" {
			h.Nodes[edge.Target] = true
			h.Edges[edge.ID] = true
		}
	}
	return h
}

// markEdges flags every edge connecting the given parent/child pair.
func markEdges(set map[string]bool, edges []model.Edge, source, target string) {
	for _, edge := range edges {
		if edge.Source == source && edge.Target == target {
			set[edge.ID] = true
		}
	}
}
