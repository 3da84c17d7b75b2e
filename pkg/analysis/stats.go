package analysis

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/kraitsura/insight_viewer/pkg/graph"
	"github.com/kraitsura/insight_viewer/pkg/model"
)

// GraphStats summarizes the shape of an insight graph. It drives the
// stats panel in the viewer and the header line of exported snapshots.
type GraphStats struct {
	NodeCount   int                    `json:"node_count"`
	EdgeCount   int                    `json:"edge_count"`
	TypeCounts  map[model.NodeType]int `json:"type_counts"`
	MaxDepth    int                    `json:"max_depth"`
	LeafCount   int                    `json:"leaf_count"`
	TotalChunks int                    `json:"total_chunks"`

	// AvgBranching is the mean child count over nodes that have children.
	AvgBranching float64 `json:"avg_branching"`

	// DepthWidths[d] is the number of nodes at depth d, for detecting
	// graphs that fan out too wide to read at the default collapse depth.
	DepthWidths []int `json:"depth_widths"`

	// Unreachable lists node IDs with no path from the root, sorted.
	Unreachable []string `json:"unreachable,omitempty"`
}

// Compute derives GraphStats from a graph and its adjacency. A nil graph
// yields zero-valued stats.
func Compute(g *model.InsightGraph, adj graph.Adjacency) GraphStats {
	s := GraphStats{TypeCounts: make(map[model.NodeType]int)}
	if g == nil {
		return s
	}

	s.NodeCount = len(g.Nodes)
	s.EdgeCount = len(g.Edges)

	for _, n := range g.Nodes {
		s.TypeCounts[n.Type]++
		s.TotalChunks += n.ChunkCount
	}

	var branching []float64
	for _, n := range g.Nodes {
		kids := adj.Children[n.ID]
		if len(kids) == 0 {
			s.LeafCount++
			continue
		}
		branching = append(branching, float64(len(kids)))
	}
	if len(branching) > 0 {
		s.AvgBranching = stat.Mean(branching, nil)
	}

	rootID, ok := graph.FindRoot(g.Nodes, g.Edges)
	if !ok {
		// No unique root: every node counts as unreachable at depth stats
		// level, but reporting all of them is noise. Leave depth fields zero.
		return s
	}

	depths := graph.ComputeDepths(rootID, adj.Children)
	for _, n := range g.Nodes {
		d, reached := depths[n.ID]
		if !reached {
			s.Unreachable = append(s.Unreachable, n.ID)
			continue
		}
		if d > s.MaxDepth {
			s.MaxDepth = d
		}
		for len(s.DepthWidths) <= d {
			s.DepthWidths = append(s.DepthWidths, 0)
		}
		s.DepthWidths[d]++
	}
	sort.Strings(s.Unreachable)
	return s
}

// WidestDepth returns the depth with the most nodes and its width.
func (s GraphStats) WidestDepth() (depth, width int) {
	for d, w := range s.DepthWidths {
		if w > width {
			depth, width = d, w
		}
	}
	return depth, width
}
