package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kraitsura/insight_viewer/pkg/detail"
	"github.com/kraitsura/insight_viewer/pkg/model"
)

// keyMsg creates a tea.KeyMsg for testing
func keyMsg(key string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

// White-box testing of UI model logic

func fixtureGraph() model.InsightGraph {
	return model.InsightGraph{
		ConversationID: "conv-1",
		Nodes: []model.Node{
			{ID: "R", Type: model.TypeRoot, Label: "Root"},
			{ID: "A", Type: model.TypeTopic, Label: "Alpha"},
			{ID: "B", Type: model.TypeTopic, Label: "Beta"},
			{ID: "C", Type: model.TypeSubtopic, Label: "Gamma", ChunkCount: 2},
			{ID: "D", Type: model.TypeSubtopic, Label: "Delta"},
		},
		Edges: []model.Edge{
			{ID: "e1", Source: "R", Target: "A"},
			{ID: "e2", Source: "A", Target: "B"},
			{ID: "e3", Source: "B", Target: "C"},
			{ID: "e4", Source: "B", Target: "D"},
		},
	}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	theme := DefaultTheme(lipgloss.DefaultRenderer())
	m := NewModel(fixtureGraph(), theme, ViewerOptions{})
	return update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return nm
}

func TestDefaultVisibleRows(t *testing.T) {
	m := newTestModel(t)
	vm := m.ViewModel()

	// B sits at depth 2 with children, so it starts collapsed: R, A, B visible.
	if len(vm.Nodes) != 3 {
		t.Fatalf("expected 3 visible rows, got %d", len(vm.Nodes))
	}
	if got := vm.Nodes[2].ID; got != "B" {
		t.Errorf("third row should be B, got %s", got)
	}
}

func TestCursorNavigation(t *testing.T) {
	m := newTestModel(t)

	if m.CursorID() != "R" {
		t.Fatalf("cursor should start at R, got %s", m.CursorID())
	}

	m = update(t, m, keyMsg("j"))
	m = update(t, m, keyMsg("j"))
	if m.CursorID() != "B" {
		t.Errorf("after jj cursor should be B, got %s", m.CursorID())
	}

	// Cursor clamps at the last row.
	m = update(t, m, keyMsg("j"))
	if m.CursorID() != "B" {
		t.Errorf("cursor should clamp at B, got %s", m.CursorID())
	}

	m = update(t, m, keyMsg("k"))
	if m.CursorID() != "A" {
		t.Errorf("after k cursor should be A, got %s", m.CursorID())
	}

	m = update(t, m, keyMsg("G"))
	if m.CursorID() != "B" {
		t.Errorf("G should jump to last row, got %s", m.CursorID())
	}
	m = update(t, m, keyMsg("g"))
	if m.CursorID() != "R" {
		t.Errorf("g should jump to first row, got %s", m.CursorID())
	}
}

func TestToggleCollapseViaKeys(t *testing.T) {
	m := newTestModel(t)

	// Move to B and expand it.
	m = update(t, m, keyMsg("G"))
	m = update(t, m, keyMsg(" "))

	vm := m.ViewModel()
	if len(vm.Nodes) != 5 {
		t.Fatalf("expanding B should reveal 5 rows, got %d", len(vm.Nodes))
	}

	// Collapse again: back to 3 rows, cursor stays valid.
	m = update(t, m, keyMsg(" "))
	vm = m.ViewModel()
	if len(vm.Nodes) != 3 {
		t.Fatalf("collapsing B should hide its subtree, got %d rows", len(vm.Nodes))
	}
	if m.cursor >= len(vm.Nodes) {
		t.Errorf("cursor %d out of range after collapse", m.cursor)
	}
}

func TestToggleOnLeafSetsStatus(t *testing.T) {
	m := newTestModel(t)

	m = update(t, m, keyMsg("G"))
	m = update(t, m, keyMsg(" ")) // expand B
	m = update(t, m, keyMsg("j")) // onto C, a leaf
	if m.CursorID() != "C" {
		t.Fatalf("cursor should be C, got %s", m.CursorID())
	}

	before := len(m.ViewModel().Nodes)
	m = update(t, m, keyMsg(" "))
	if len(m.ViewModel().Nodes) != before {
		t.Error("toggling a leaf must not change visibility")
	}
	if m.statusMsg == "" {
		t.Error("toggling a leaf should explain itself in the status line")
	}
}

func TestSelectHighlightsPath(t *testing.T) {
	m := newTestModel(t)

	m = update(t, m, keyMsg("G")) // cursor on B
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	vm := m.ViewModel()
	if vm.SelectedID != "B" {
		t.Fatalf("SelectedID = %q, want B", vm.SelectedID)
	}
	for _, id := range []string{"R", "A", "B"} {
		n := vm.Node(id)
		if n == nil || !n.IsHighlighted {
			t.Errorf("%s should be highlighted", id)
		}
	}
}

func TestSelectRootClearsSelection(t *testing.T) {
	m := newTestModel(t)

	m = update(t, m, keyMsg("G"))
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if m.ViewModel().SelectedID != "B" {
		t.Fatal("precondition: B selected")
	}

	m = update(t, m, keyMsg("g"))
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if got := m.ViewModel().SelectedID; got != "" {
		t.Errorf("selecting the root should clear selection, got %q", got)
	}
}

func TestEscClearsSelection(t *testing.T) {
	m := newTestModel(t)

	m = update(t, m, keyMsg("G"))
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)
	if got := m.ViewModel().SelectedID; got != "" {
		t.Errorf("esc should clear selection, got %q", got)
	}
}

func TestSelectDisabledWhenDegraded(t *testing.T) {
	theme := DefaultTheme(lipgloss.DefaultRenderer())
	// Two zero-indegree nodes: no unique root.
	g := model.InsightGraph{
		Nodes: []model.Node{
			{ID: "A", Type: model.TypeTopic, Label: "Alpha"},
			{ID: "B", Type: model.TypeTopic, Label: "Beta"},
		},
	}
	m := NewModel(g, theme, ViewerOptions{})
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	if !m.ViewModel().Degraded {
		t.Fatal("fixture should be degraded")
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if m.ViewModel().SelectedID != "" {
		t.Error("selection must stay empty in degraded mode")
	}
	if m.statusMsg == "" {
		t.Error("degraded selection attempt should set a status message")
	}
}

func TestSearchAcceptRevealsHiddenNode(t *testing.T) {
	m := newTestModel(t)

	// Gamma (C) is hidden under collapsed B.
	if m.ViewModel().Node("C") != nil {
		t.Fatal("precondition: C hidden")
	}

	m = update(t, m, keyMsg("/"))
	if m.focused != focusSearch {
		t.Fatal("/ should focus the search overlay")
	}
	m = update(t, m, keyMsg("gam"))

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	if m.focused != focusTree {
		t.Error("accepting a search result should return focus to the tree")
	}
	if m.ViewModel().Node("C") == nil {
		t.Fatal("accepting Gamma should expand B and reveal C")
	}
	if m.CursorID() != "C" {
		t.Errorf("cursor should land on C, got %s", m.CursorID())
	}
	if m.ViewModel().SelectedID != "C" {
		t.Errorf("accepted node should be selected, got %q", m.ViewModel().SelectedID)
	}
}

func TestSearchEscCloses(t *testing.T) {
	m := newTestModel(t)

	m = update(t, m, keyMsg("/"))
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)

	if m.focused != focusTree {
		t.Error("esc should close search and refocus the tree")
	}
	if m.ViewModel().SelectedID != "" {
		t.Error("cancelled search must not select anything")
	}
}

func TestGraphMsgReplacesSnapshot(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, keyMsg("G")) // move cursor off the top

	replacement := model.InsightGraph{
		ConversationID: "conv-2",
		Nodes: []model.Node{
			{ID: "R2", Type: model.TypeRoot, Label: "Root2"},
			{ID: "X", Type: model.TypeTopic, Label: "Chi"},
		},
		Edges: []model.Edge{{ID: "e1", Source: "R2", Target: "X"}},
	}
	m = update(t, m, GraphMsg{Graph: replacement})

	vm := m.ViewModel()
	if len(vm.Nodes) != 2 || vm.Nodes[0].ID != "R2" {
		t.Fatalf("snapshot replacement failed: %+v", vm.VisibleIDs())
	}
	if m.cursor != 0 {
		t.Errorf("cursor should reset on reload, got %d", m.cursor)
	}
	if vm.SelectedID != "" {
		t.Errorf("selection should reset on reload, got %q", vm.SelectedID)
	}
}

func TestGraphMsgErrorKeepsSnapshot(t *testing.T) {
	m := newTestModel(t)
	before := len(m.ViewModel().Nodes)

	m = update(t, m, GraphMsg{Err: errFake})
	if len(m.ViewModel().Nodes) != before {
		t.Error("a failed reload must keep the current snapshot")
	}
	if !strings.Contains(m.statusMsg, "reload failed") {
		t.Errorf("status should report the failure, got %q", m.statusMsg)
	}
}

type fakeErr struct{}

func (fakeErr) Error() string { return "boom" }

var errFake = fakeErr{}

func TestStatsOverlayToggles(t *testing.T) {
	m := newTestModel(t)

	m = update(t, m, keyMsg("s"))
	if !m.showStats {
		t.Fatal("s should open the stats overlay")
	}
	view := m.View()
	if !strings.Contains(view, "Graph Shape") {
		t.Error("stats overlay should render the shape summary")
	}

	m = update(t, m, keyMsg("j"))
	if m.showStats {
		t.Error("any key should close the stats overlay")
	}
}

func TestHelpOverlayToggles(t *testing.T) {
	m := newTestModel(t)

	m = update(t, m, keyMsg("?"))
	if !m.help.IsVisible() {
		t.Fatal("? should open help")
	}
	m = update(t, m, keyMsg("j"))
	if m.help.IsVisible() {
		t.Error("any key should close help")
	}
	if m.CursorID() != "R" {
		t.Error("keys pressed while help is open must not move the cursor")
	}
}

func TestDetailPaneRendersChunks(t *testing.T) {
	theme := DefaultTheme(lipgloss.DefaultRenderer())
	pane := NewDetailPaneModel(theme)
	pane.SetSize(60, 20)

	pane.SetResponse("C", "Gamma", detail.Response{
		Chunks: []detail.Chunk{
			{ID: "ch1", TopicID: "C", Content: "we talked about gamma rays", Speaker: "ana"},
		},
		Meta: detail.Meta{Total: 1},
	})

	view := pane.View()
	if !strings.Contains(view, "gamma rays") {
		t.Error("detail pane should contain the chunk content")
	}
}

func TestDetailPaneEmptyState(t *testing.T) {
	theme := DefaultTheme(lipgloss.DefaultRenderer())
	pane := NewDetailPaneModel(theme)
	pane.SetSize(60, 20)

	if view := pane.View(); !strings.Contains(view, "select a topic") {
		t.Errorf("empty pane should show the hint, got %q", view)
	}
}

func TestRenderTypeBars(t *testing.T) {
	m := newTestModel(t)
	lines := RenderTypeBars(m.stats, m.theme)
	if len(lines) != 4 {
		t.Fatalf("expected 4 type rows, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "Topics:") {
		t.Errorf("first row should be topics, got %q", lines[0])
	}
}
