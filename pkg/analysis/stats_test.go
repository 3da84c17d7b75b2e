package analysis

import (
	"math"
	"testing"

	"github.com/kraitsura/insight_viewer/pkg/graph"
	"github.com/kraitsura/insight_viewer/pkg/model"
)

func testGraph() *model.InsightGraph {
	return &model.InsightGraph{
		ConversationID: "conv-1",
		Nodes: []model.Node{
			{ID: "R", Type: model.TypeRoot, Label: "Root"},
			{ID: "A", Type: model.TypeTopic, Label: "Topic A", ChunkCount: 3},
			{ID: "B", Type: model.TypeTopic, Label: "Topic B", ChunkCount: 1},
			{ID: "A1", Type: model.TypeSubtopic, Label: "Sub A1"},
			{ID: "A2", Type: model.TypeSubtopic, Label: "Sub A2"},
		},
		Edges: []model.Edge{
			{ID: "e1", Source: "R", Target: "A"},
			{ID: "e2", Source: "R", Target: "B"},
			{ID: "e3", Source: "A", Target: "A1"},
			{ID: "e4", Source: "A", Target: "A2"},
		},
	}
}

func TestComputeStats(t *testing.T) {
	g := testGraph()
	adj := graph.BuildAdjacency(g.Nodes, g.Edges)
	s := Compute(g, adj)

	if s.NodeCount != 5 || s.EdgeCount != 4 {
		t.Fatalf("counts: got %d nodes, %d edges", s.NodeCount, s.EdgeCount)
	}
	if s.TypeCounts[model.TypeTopic] != 2 || s.TypeCounts[model.TypeSubtopic] != 2 {
		t.Errorf("type counts wrong: %v", s.TypeCounts)
	}
	if s.MaxDepth != 2 {
		t.Errorf("MaxDepth = %d, want 2", s.MaxDepth)
	}
	if s.LeafCount != 3 {
		t.Errorf("LeafCount = %d, want 3 (B, A1, A2)", s.LeafCount)
	}
	if s.TotalChunks != 4 {
		t.Errorf("TotalChunks = %d, want 4", s.TotalChunks)
	}
	// R has 2 children, A has 2: mean branching 2.0
	if math.Abs(s.AvgBranching-2.0) > 1e-9 {
		t.Errorf("AvgBranching = %f, want 2.0", s.AvgBranching)
	}
	want := []int{1, 2, 2}
	if len(s.DepthWidths) != len(want) {
		t.Fatalf("DepthWidths = %v, want %v", s.DepthWidths, want)
	}
	for i := range want {
		if s.DepthWidths[i] != want[i] {
			t.Errorf("DepthWidths[%d] = %d, want %d", i, s.DepthWidths[i], want[i])
		}
	}
	if len(s.Unreachable) != 0 {
		t.Errorf("Unreachable = %v, want none", s.Unreachable)
	}
}

func TestComputeStatsUnreachable(t *testing.T) {
	g := testGraph()
	g.Nodes = append(g.Nodes, model.Node{ID: "orphan", Type: model.TypePoint})
	adj := graph.BuildAdjacency(g.Nodes, g.Edges)
	s := Compute(g, adj)

	if len(s.Unreachable) != 1 || s.Unreachable[0] != "orphan" {
		t.Errorf("Unreachable = %v, want [orphan]", s.Unreachable)
	}
}

func TestComputeStatsNoRoot(t *testing.T) {
	g := &model.InsightGraph{
		Nodes: []model.Node{
			{ID: "A", Type: model.TypeTopic},
			{ID: "B", Type: model.TypeTopic},
		},
	}
	adj := graph.BuildAdjacency(g.Nodes, g.Edges)
	s := Compute(g, adj)

	if s.NodeCount != 2 {
		t.Errorf("NodeCount = %d, want 2", s.NodeCount)
	}
	if s.MaxDepth != 0 || len(s.DepthWidths) != 0 {
		t.Errorf("depth stats should stay zero without a unique root, got max=%d widths=%v", s.MaxDepth, s.DepthWidths)
	}
}

func TestComputeStatsNil(t *testing.T) {
	s := Compute(nil, graph.Adjacency{})
	if s.NodeCount != 0 || s.AvgBranching != 0 {
		t.Errorf("nil graph should yield zero stats, got %+v", s)
	}
}

func TestWidestDepth(t *testing.T) {
	s := GraphStats{DepthWidths: []int{1, 4, 2}}
	d, w := s.WidestDepth()
	if d != 1 || w != 4 {
		t.Errorf("WidestDepth = (%d, %d), want (1, 4)", d, w)
	}
}
