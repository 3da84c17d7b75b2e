package graph

import (
	"testing"

	"github.com/kraitsura/insight_viewer/pkg/model"
)

func TestBuildAdjacency_ChildrenInsertionOrder(t *testing.T) {
	nodes := []model.Node{{ID: "R"}, {ID: "A"}, {ID: "B"}, {ID: "C"}}
	edges := []model.Edge{
		{ID: "e1", Source: "R", Target: "B"},
		{ID: "e2", Source: "R", Target: "A"},
		{ID: "e3", Source: "R", Target: "C"},
	}

	adj := BuildAdjacency(nodes, edges)

	got := adj.Children["R"]
	want := []string{"B", "A", "C"}
	if len(got) != len(want) {
		t.Fatalf("expected %d children, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("child[%d]: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestBuildAdjacency_LastParentWins(t *testing.T) {
	nodes := []model.Node{{ID: "P1"}, {ID: "P2"}, {ID: "C"}}
	edges := []model.Edge{
		{ID: "e1", Source: "P1", Target: "C"},
		{ID: "e2", Source: "P2", Target: "C"},
	}

	adj := BuildAdjacency(nodes, edges)

	if adj.Parent["C"] != "P2" {
		t.Errorf("expected last-seen edge to win parent, got %s", adj.Parent["C"])
	}
}

func TestBuildAdjacency_SkipsDanglingEdges(t *testing.T) {
	nodes := []model.Node{{ID: "R"}, {ID: "A"}}
	edges := []model.Edge{
		{ID: "e1", Source: "R", Target: "A"},
		{ID: "e2", Source: "X", Target: "Y"}, // neither endpoint exists
		{ID: "e3", Source: "R", Target: "Z"}, // target missing
		{ID: "e4", Source: "", Target: "A"},  // empty source
	}

	adj := BuildAdjacency(nodes, edges)

	if len(adj.Children["R"]) != 1 || adj.Children["R"][0] != "A" {
		t.Fatalf("expected R to have exactly child A, got %v", adj.Children["R"])
	}
	if _, ok := adj.Parent["Y"]; ok {
		t.Error("dangling target must not appear in parent map")
	}
	if len(adj.Children["X"]) != 0 {
		t.Error("dangling source must not appear in children map")
	}
}

func TestFindRoot(t *testing.T) {
	tests := []struct {
		name     string
		nodes    []model.Node
		edges    []model.Edge
		wantID   string
		wantOK   bool
	}{
		{
			name:   "unique root",
			nodes:  []model.Node{{ID: "R"}, {ID: "A"}},
			edges:  []model.Edge{{ID: "e1", Source: "R", Target: "A"}},
			wantID: "R",
			wantOK: true,
		},
		{
			name:   "multiple candidates",
			nodes:  []model.Node{{ID: "R1"}, {ID: "R2"}, {ID: "A"}},
			edges:  []model.Edge{{ID: "e1", Source: "R1", Target: "A"}},
			wantOK: false,
		},
		{
			name:  "no candidate (cycle)",
			nodes: []model.Node{{ID: "A"}, {ID: "B"}},
			edges: []model.Edge{
				{ID: "e1", Source: "A", Target: "B"},
				{ID: "e2", Source: "B", Target: "A"},
			},
			wantOK: false,
		},
		{
			name:   "empty graph",
			nodes:  nil,
			edges:  nil,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := FindRoot(tt.nodes, tt.edges)
			if ok != tt.wantOK {
				t.Fatalf("expected ok=%v, got %v", tt.wantOK, ok)
			}
			if ok && id != tt.wantID {
				t.Errorf("expected root %s, got %s", tt.wantID, id)
			}
		})
	}
}

func TestComputeDepths_EdgeIncrementsDepth(t *testing.T) {
	nodes := []model.Node{{ID: "R"}, {ID: "A"}, {ID: "B"}, {ID: "C"}, {ID: "D"}}
	edges := []model.Edge{
		{ID: "e1", Source: "R", Target: "A"},
		{ID: "e2", Source: "A", Target: "B"},
		{ID: "e3", Source: "B", Target: "C"},
		{ID: "e4", Source: "B", Target: "D"},
	}
	adj := BuildAdjacency(nodes, edges)

	depths := ComputeDepths("R", adj.Children)

	if depths["R"] != 0 {
		t.Errorf("depth(root) must be 0, got %d", depths["R"])
	}
	for _, edge := range edges {
		if depths[edge.Target] != depths[edge.Source]+1 {
			t.Errorf("edge %s->%s: expected depth %d, got %d",
				edge.Source, edge.Target, depths[edge.Source]+1, depths[edge.Target])
		}
	}
}

func TestComputeDepths_FirstPathWinsOnDAG(t *testing.T) {
	// R -> A -> C and R -> C: BFS reaches C at depth 1 first.
	children := map[string][]string{
		"R": {"A", "C"},
		"A": {"C"},
	}

	depths := ComputeDepths("R", children)

	if depths["C"] != 1 {
		t.Errorf("expected shortest-path depth 1 for C, got %d", depths["C"])
	}
}

func TestComputeDepths_TerminatesOnCycle(t *testing.T) {
	children := map[string][]string{
		"R": {"A"},
		"A": {"R"},
	}

	depths := ComputeDepths("R", children)

	if depths["A"] != 1 {
		t.Errorf("expected depth 1 for A, got %d", depths["A"])
	}
	if depths["R"] != 0 {
		t.Errorf("first-assigned depth must win for R, got %d", depths["R"])
	}
}

func TestComputeDepths_UnreachableAbsent(t *testing.T) {
	children := map[string][]string{"R": {"A"}, "X": {"Y"}}

	depths := ComputeDepths("R", children)

	if _, ok := depths["X"]; ok {
		t.Error("unreachable node must be absent from depth map")
	}
	if _, ok := depths["Y"]; ok {
		t.Error("unreachable node must be absent from depth map")
	}
}

func TestDefaultCollapsed(t *testing.T) {
	// R(0) -> A(1) -> B(2) -> C(3), D(3); B has children so it collapses,
	// leaves C and D never do.
	children := map[string][]string{
		"R": {"A"},
		"A": {"B"},
		"B": {"C", "D"},
	}
	depths := ComputeDepths("R", children)

	collapsed := DefaultCollapsed(depths, children, DefaultCollapseFromDepth)

	if !collapsed["B"] {
		t.Error("B at depth 2 with children should start collapsed")
	}
	for _, id := range []string{"R", "A", "C", "D"} {
		if collapsed[id] {
			t.Errorf("%s should not start collapsed", id)
		}
	}
}
