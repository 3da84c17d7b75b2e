package graph

import "github.com/kraitsura/insight_viewer/pkg/model"

// Edge styling handed to the rendering adapter. Non-highlighted edges drop
// to near-zero opacity while a selection is active.
const (
	EdgeOpacityFull   = 1.0
	EdgeOpacityDimmed = 0.05
	EdgeWidthDefault  = 1.5
	EdgeWidthEmphasis = 2.5
)

// RenderNode is the per-node output contract for the rendering adapter.
type RenderNode struct {
	ID            string         `json:"id"`
	Type          model.NodeType `json:"type"`
	Position      Position       `json:"position"`
	Label         string         `json:"label"`
	Description   string         `json:"description,omitempty"`
	ChunkCount    int            `json:"chunk_count,omitempty"`
	Depth         int            `json:"depth"`
	HasChildren   bool           `json:"has_children"`
	IsCollapsed   bool           `json:"is_collapsed"`
	IsHighlighted bool           `json:"is_highlighted"`
	IsDimmed      bool           `json:"is_dimmed"`
}

// RenderEdge is the per-edge output contract for the rendering adapter.
type RenderEdge struct {
	ID       string  `json:"id"`
	Source   string  `json:"source"`
	Target   string  `json:"target"`
	Animated bool    `json:"animated"`
	Opacity  float64 `json:"opacity"`
	Width    float64 `json:"width"`
}

// ViewModel is the fully derived, render-ready view of one (snapshot,
// session state) pair. Nodes appear in visible traversal order, which is
// stable across recomputations of identical inputs.
type ViewModel struct {
	Nodes      []RenderNode `json:"nodes"`
	Edges      []RenderEdge `json:"edges"`
	SelectedID string       `json:"selected_id,omitempty"`
	Degraded   bool         `json:"degraded,omitempty"`
}

// Node returns the render node with the given id, or nil if not visible.
func (vm *ViewModel) Node(id string) *RenderNode {
	for i := range vm.Nodes {
		if vm.Nodes[i].ID == id {
			return &vm.Nodes[i]
		}
	}
	return nil
}

// VisibleIDs returns the visible node ids in render order.
func (vm *ViewModel) VisibleIDs() []string {
	ids := make([]string, len(vm.Nodes))
	for i := range vm.Nodes {
		ids[i] = vm.Nodes[i].ID
	}
	return ids
}
