package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/kraitsura/insight_viewer/pkg/analysis"
	"github.com/kraitsura/insight_viewer/pkg/detail"
	"github.com/kraitsura/insight_viewer/pkg/graph"
	"github.com/kraitsura/insight_viewer/pkg/model"
)

// focusArea tracks which component receives key input.
type focusArea int

const (
	focusTree focusArea = iota
	focusSearch
)

// GraphMsg delivers a new or reloaded snapshot to the viewer. The watcher
// and the regenerate flow both feed the program through this message.
type GraphMsg struct {
	Graph model.InsightGraph
	Err   error
}

// detailMsg carries the fetched chunks for a selected topic.
type detailMsg struct {
	topicID string
	resp    detail.Response
}

// statusExpiredMsg clears a transient status line.
type statusExpiredMsg struct{ seq int }

// ViewerOptions wires optional collaborators into the viewer.
type ViewerOptions struct {
	// DetailClient fetches conversation excerpts; nil disables the pane.
	DetailClient *detail.Client
	// ReloadFn regenerates the graph on 'R'; nil disables the binding.
	ReloadFn func() tea.Cmd
	// ExportFn writes a map snapshot on 'e' and returns the written path.
	ExportFn func(vm *graph.ViewModel) (string, error)

	EngineOpts graph.Options
}

// Model is the root bubbletea model for the insight map viewer.
type Model struct {
	ctrl  *graph.Controller
	adj   graph.Adjacency
	stats analysis.GraphStats
	theme Theme
	opts  ViewerOptions

	width  int
	height int
	ready  bool

	cursor  int // index into the visible rows
	focused focusArea

	search SearchModel
	help   HelpOverlayModel

	showDetail  bool
	showStats   bool
	detailPane  DetailPaneModel
	detailTopic string // topic id the pane currently shows or is loading

	statusMsg string
	statusSeq int
}

// NewModel creates the viewer around an initial snapshot.
func NewModel(g model.InsightGraph, theme Theme, opts ViewerOptions) Model {
	ctrl := graph.NewController(opts.EngineOpts)
	ctrl.SetSnapshot(g)
	adj := graph.BuildAdjacency(g.Nodes, g.Edges)
	return Model{
		ctrl:       ctrl,
		adj:        adj,
		stats:      analysis.Compute(&g, adj),
		theme:      theme,
		opts:       opts,
		search:     NewSearchModel(theme),
		help:       NewHelpOverlayModel(theme),
		detailPane: NewDetailPaneModel(theme),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Controller exposes the interaction engine, mainly for tests and export.
func (m Model) Controller() *graph.Controller { return m.ctrl }

// ViewModel returns the current render-ready view.
func (m Model) ViewModel() *graph.ViewModel { return m.ctrl.ViewModel() }

// CursorID returns the id of the row under the cursor, or "".
func (m Model) CursorID() string {
	vm := m.ctrl.ViewModel()
	if m.cursor < 0 || m.cursor >= len(vm.Nodes) {
		return ""
	}
	return vm.Nodes[m.cursor].ID
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.detailPane.SetSize(m.width-m.treeWidth(), m.bodyHeight())
		m.help.SetSize(msg.Width, msg.Height)
		m.ready = true
		return m, nil

	case GraphMsg:
		if msg.Err != nil {
			return m.setStatus(fmt.Sprintf("reload failed: %v", msg.Err))
		}
		m.ctrl.SetSnapshot(msg.Graph)
		m.adj = graph.BuildAdjacency(msg.Graph.Nodes, msg.Graph.Edges)
		m.stats = analysis.Compute(&msg.Graph, m.adj)
		m.cursor = 0
		m.detailTopic = ""
		m.detailPane.Clear()
		return m.setStatus("snapshot reloaded")

	case detailMsg:
		// A reply for a topic the user has moved away from is stale.
		if msg.topicID != m.ctrl.SelectedID() {
			return m, nil
		}
		m.detailPane.SetResponse(msg.topicID, m.nodeLabel(msg.topicID), msg.resp)
		return m, nil

	case statusExpiredMsg:
		if msg.seq == m.statusSeq {
			m.statusMsg = ""
		}
		return m, nil

	case tea.KeyMsg:
		if m.help.IsVisible() {
			var cmd tea.Cmd
			m.help, cmd = m.help.Update(msg)
			return m, cmd
		}
		if m.showStats {
			m.showStats = false
			return m, nil
		}
		if m.focused == focusSearch {
			return m.handleSearchKeys(msg)
		}
		return m.handleTreeKeys(msg)
	}

	return m, nil
}

func (m Model) handleTreeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	vm := m.ctrl.ViewModel()

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "j", "down":
		if m.cursor < len(vm.Nodes)-1 {
			m.cursor++
		}
		return m, nil

	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "g":
		m.cursor = 0
		return m, nil

	case "G":
		if len(vm.Nodes) > 0 {
			m.cursor = len(vm.Nodes) - 1
		}
		return m, nil

	case " ", "tab":
		id := m.CursorID()
		if id == "" {
			return m, nil
		}
		if !m.ctrl.CanToggle(id) {
			return m.setStatus("node has no children to toggle")
		}
		m.ctrl.ToggleCollapse(id)
		m.clampCursor()
		return m, nil

	case "enter":
		return m.selectUnderCursor()

	case "esc", "x":
		m.ctrl.ClearSelection()
		m.detailTopic = ""
		m.detailPane.Clear()
		return m, nil

	case "/":
		m.focused = focusSearch
		m.search.Open(m.ctrl.Graph().Nodes)
		return m, nil

	case "d":
		m.showDetail = !m.showDetail
		m.detailPane.SetSize(m.width-m.treeWidth(), m.bodyHeight())
		return m, nil

	case "y":
		id := m.CursorID()
		if id == "" {
			return m, nil
		}
		if err := clipboard.WriteAll(id); err != nil {
			return m.setStatus(fmt.Sprintf("clipboard: %v", err))
		}
		return m.setStatus("copied " + id)

	case "e":
		if m.opts.ExportFn == nil {
			return m.setStatus("export not configured")
		}
		path, err := m.opts.ExportFn(m.ctrl.ViewModel())
		if err != nil {
			return m.setStatus(fmt.Sprintf("export failed: %v", err))
		}
		return m.setStatus("exported " + path)

	case "R":
		if m.opts.ReloadFn == nil {
			return m.setStatus("regenerate not available")
		}
		next, cmd := m.setStatus("regenerating…")
		return next, tea.Batch(cmd, m.opts.ReloadFn())

	case "s":
		m.showStats = true
		return m, nil

	case "?":
		m.help.Toggle()
		return m, nil
	}

	return m, nil
}

// selectUnderCursor drives the highlight engine and, when enabled, the
// detail fetch for the node under the cursor.
func (m Model) selectUnderCursor() (tea.Model, tea.Cmd) {
	vm := m.ctrl.ViewModel()
	if vm.Degraded {
		return m.setStatus("selection disabled: graph has no unique root")
	}
	id := m.CursorID()
	if id == "" {
		return m, nil
	}

	emitted := m.ctrl.Select(id)
	if emitted == "" {
		// Root or non-selectable: engine cleared the selection.
		m.detailTopic = ""
		m.detailPane.Clear()
		return m, nil
	}

	if m.opts.DetailClient == nil || !m.showDetail {
		return m, nil
	}
	if emitted == m.detailTopic {
		return m, nil
	}
	m.detailTopic = emitted
	m.detailPane.SetLoading(emitted, m.nodeLabel(emitted))
	return m, fetchDetailCmd(m.opts.DetailClient, emitted)
}

func fetchDetailCmd(client *detail.Client, topicID string) tea.Cmd {
	return func() tea.Msg {
		resp := client.Fetch(context.Background(), detail.Options{TopicID: topicID})
		return detailMsg{topicID: topicID, resp: resp}
	}
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.focused = focusTree
		m.search.Close()
		return m, nil
	case "enter":
		id, ok := m.search.Accepted()
		m.focused = focusTree
		m.search.Close()
		if !ok {
			return m, nil
		}
		m.revealNode(id)
		m.moveCursorTo(id)
		return m.selectUnderCursor()
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

// revealNode expands every collapsed ancestor so the node becomes visible.
func (m *Model) revealNode(id string) {
	seen := map[string]bool{id: true}
	for p, ok := m.adj.Parent[id]; ok && !seen[p]; p, ok = m.adj.Parent[p] {
		seen[p] = true
		if m.ctrl.IsCollapsed(p) {
			m.ctrl.ToggleCollapse(p)
		}
	}
}

func (m *Model) moveCursorTo(id string) {
	for i, n := range m.ctrl.ViewModel().Nodes {
		if n.ID == id {
			m.cursor = i
			return
		}
	}
}

func (m *Model) clampCursor() {
	n := len(m.ctrl.ViewModel().Nodes)
	if n == 0 {
		m.cursor = 0
	} else if m.cursor >= n {
		m.cursor = n - 1
	}
}

func (m Model) setStatus(s string) (Model, tea.Cmd) {
	m.statusMsg = s
	m.statusSeq++
	seq := m.statusSeq
	return m, tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return statusExpiredMsg{seq: seq}
	})
}

func (m Model) nodeLabel(id string) string {
	g := m.ctrl.Graph()
	if n := g.NodeByID(id); n != nil {
		return n.Label
	}
	return id
}

func (m Model) treeWidth() int {
	if m.showDetail {
		return m.width * 55 / 100
	}
	return m.width
}

func (m Model) bodyHeight() int {
	h := m.height - 3 // header, status, keybind bar
	if h < 1 {
		h = 1
	}
	return h
}

// ── rendering ──

func (m Model) View() string {
	if !m.ready {
		return "loading…"
	}
	if m.help.IsVisible() {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.help.View())
	}
	if m.showStats {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, RenderStatsPanel(m.stats, m.theme))
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteByte('\n')

	tree := m.treeView()
	if m.showDetail {
		detailView := m.detailPane.View()
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tree, detailView))
	} else {
		b.WriteString(tree)
	}
	b.WriteByte('\n')

	if m.focused == focusSearch {
		b.WriteString(m.search.View())
	} else {
		b.WriteString(m.footerView())
	}
	return b.String()
}

func (m Model) headerView() string {
	t := m.theme
	vm := m.ctrl.ViewModel()

	title := t.Renderer.NewStyle().Bold(true).Foreground(t.Primary).Render("Insight Map")
	counts := t.Renderer.NewStyle().Foreground(t.Subtext).Render(
		fmt.Sprintf(" %d nodes · %d visible · depth %d", m.stats.NodeCount, len(vm.Nodes), m.stats.MaxDepth))

	if vm.Degraded {
		warn := t.Renderer.NewStyle().Foreground(lipgloss.Color("#FF5555")).Bold(true).
			Render("  [degraded: no unique root]")
		return title + counts + warn
	}
	return title + counts
}

func (m Model) treeView() string {
	t := m.theme
	vm := m.ctrl.ViewModel()
	width := m.treeWidth()
	height := m.bodyHeight()

	if len(vm.Nodes) == 0 {
		return t.Renderer.NewStyle().Foreground(t.Secondary).
			Width(width).Height(height).
			Render("empty graph")
	}

	highlightActive := vm.SelectedID != ""
	lines := make([]string, 0, len(vm.Nodes))
	for i, n := range vm.Nodes {
		lines = append(lines, m.renderRow(n, i == m.cursor, highlightActive, width))
	}

	// Keep the cursor row inside the visible window.
	top := 0
	if m.cursor >= height {
		top = m.cursor - height + 1
	}
	end := top + height
	if end > len(lines) {
		end = len(lines)
	}
	body := strings.Join(lines[top:end], "\n")
	return t.Renderer.NewStyle().Width(width).Height(height).Render(body)
}

func (m Model) renderRow(n graph.RenderNode, underCursor, highlightActive bool, width int) string {
	t := m.theme

	indent := strings.Repeat("  ", n.Depth)
	icon := TypeIcon(n.Type)
	label := n.Label
	if label == "" {
		label = n.ID
	}

	marker := ""
	if n.HasChildren {
		if n.IsCollapsed {
			marker = " [+]"
		} else {
			marker = " [-]"
		}
	}
	chunks := ""
	if n.ChunkCount > 0 {
		chunks = fmt.Sprintf(" (%d)", n.ChunkCount)
	}

	line := fmt.Sprintf("%s%s %s%s%s", indent, icon, label, marker, chunks)
	line = runewidth.Truncate(line, width-2, "…")

	style := t.Renderer.NewStyle().Foreground(t.TypeColor(n.Type))
	if highlightActive && n.IsDimmed {
		style = t.Renderer.NewStyle().Foreground(t.Secondary).Faint(true)
	}
	if n.IsHighlighted {
		style = style.Bold(true)
	}
	if underCursor {
		style = style.Background(t.Highlight)
		return style.Render("▸ " + line)
	}
	return style.Render("  " + line)
}

func (m Model) footerView() string {
	t := m.theme
	keyStyle := t.Renderer.NewStyle().Foreground(t.Primary)
	sepStyle := t.Renderer.NewStyle().Foreground(t.Secondary)

	binds := []string{
		keyStyle.Render("j/k") + " move",
		keyStyle.Render("spc") + " fold",
		keyStyle.Render("↵") + " select",
		keyStyle.Render("/") + " search",
		keyStyle.Render("d") + " detail",
		keyStyle.Render("e") + " export",
		keyStyle.Render("?") + " help",
		keyStyle.Render("q") + " quit",
	}
	bar := strings.Join(binds, sepStyle.Render(" │ "))
	if m.statusMsg != "" {
		bar += sepStyle.Render(" │ ") + t.Renderer.NewStyle().Foreground(t.Subtext).Italic(true).Render(m.statusMsg)
	}
	return bar
}
