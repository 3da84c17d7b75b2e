package graph

import "github.com/kraitsura/insight_viewer/pkg/model"

// Options tunes the engine. Zero values fall back to the defaults.
type Options struct {
	CollapseFromDepth int
	XSpacing          float64
	YSpacing          float64
}

func (o Options) withDefaults() Options {
	if o.CollapseFromDepth <= 0 {
		o.CollapseFromDepth = DefaultCollapseFromDepth
	}
	if o.XSpacing <= 0 {
		o.XSpacing = DefaultXSpacing
	}
	if o.YSpacing <= 0 {
		o.YSpacing = DefaultYSpacing
	}
	return o
}

// Controller owns the session-local state (collapsed set, selection) for one
// graph snapshot and produces render-ready view models from it. Derived maps
// are rebuilt once per snapshot; the view model is memoized and only
// recomputed after a state change. Not safe for concurrent mutation: callers
// serialize updates, one interaction at a time.
type Controller struct {
	opts Options

	graph    model.InsightGraph
	adj      Adjacency
	depths   map[string]int
	rootID   string
	degraded bool

	collapsed  map[string]bool
	selectedID string

	rev     uint64 // bumped on every snapshot or state change
	memoRev uint64
	memo    *ViewModel
}

// NewController creates an empty controller. Call SetSnapshot before use.
func NewController(opts Options) *Controller {
	return &Controller{
		opts:      opts.withDefaults(),
		collapsed: make(map[string]bool),
	}
}

// SetSnapshot replaces the graph and resets all session state: derived maps
// are rebuilt, the collapsed set is re-seeded from the default policy, and
// the selection is cleared. A "regenerate" lands here too.
func (c *Controller) SetSnapshot(g model.InsightGraph) {
	c.graph = g.Clone()
	c.adj = BuildAdjacency(c.graph.Nodes, c.graph.Edges)

	c.rootID, c.degraded = "", false
	if root, ok := FindRoot(c.graph.Nodes, c.graph.Edges); ok {
		c.rootID = root
	} else {
		c.degraded = len(c.graph.Nodes) > 0
	}

	c.depths = ComputeDepths(c.rootID, c.adj.Children)
	if c.degraded {
		// No discoverable root: no collapse applied, everything renders.
		c.collapsed = make(map[string]bool)
	} else {
		c.collapsed = DefaultCollapsed(c.depths, c.adj.Children, c.opts.CollapseFromDepth)
	}
	c.selectedID = ""
	c.rev++
}

// Graph returns the current snapshot.
func (c *Controller) Graph() model.InsightGraph { return c.graph }

// Root returns the discovered root id; ok is false in degraded mode.
func (c *Controller) Root() (string, bool) { return c.rootID, !c.degraded && c.rootID != "" }

// Depth returns the node's distance from the root, or -1 if unreachable.
func (c *Controller) Depth(id string) int {
	if d, ok := c.depths[id]; ok {
		return d
	}
	return -1
}

// CanToggle reports whether toggling collapse on the node does anything.
// Hosts use this to disable the action on leaves.
func (c *Controller) CanToggle(id string) bool {
	return !c.degraded && c.adj.HasChildren(id)
}

// ToggleCollapse flips the node between expanded and collapsed. Returns
// false, without mutating anything, when the node has no children.
func (c *Controller) ToggleCollapse(id string) bool {
	if !c.CanToggle(id) {
		return false
	}
	if c.collapsed[id] {
		delete(c.collapsed, id)
	} else {
		c.collapsed[id] = true
	}
	c.rev++
	return true
}

// IsCollapsed reports whether the node is currently collapsed.
func (c *Controller) IsCollapsed(id string) bool { return c.collapsed[id] }

// CollapsedIDs returns a copy of the collapsed set.
func (c *Controller) CollapsedIDs() map[string]bool {
	out := make(map[string]bool, len(c.collapsed))
	for id := range c.collapsed {
		out[id] = true
	}
	return out
}

// Select updates the selection and returns the id to emit to the topic
// detail collaborator. Selecting the root, an unknown id, or the empty
// canvas ("") clears the selection and returns "".
func (c *Controller) Select(id string) string {
	next := ""
	if node := c.graph.NodeByID(id); node != nil && node.Type.IsSelectable() {
		next = id
	}
	if next != c.selectedID {
		c.selectedID = next
		c.rev++
	}
	return c.selectedID
}

// ClearSelection drops the selection if one exists.
func (c *Controller) ClearSelection() {
	if c.selectedID != "" {
		c.selectedID = ""
		c.rev++
	}
}

// SelectedID returns the current selection, or "" when none.
func (c *Controller) SelectedID() string { return c.selectedID }

// ViewModel returns the derived view for the current state. The result is
// memoized on (snapshot, collapsed set, selection) identity; repeated calls
// without a state change return the same value. A selection that is no
// longer visible (e.g. an ancestor was just collapsed) is cleared here
// before the view is assembled.
func (c *Controller) ViewModel() *ViewModel {
	if c.memo != nil && c.memoRev == c.rev {
		return c.memo
	}

	vm := c.compute()
	c.memo = vm
	c.memoRev = c.rev
	return vm
}

func (c *Controller) compute() *ViewModel {
	var order []string
	var positions map[string]Position

	if c.degraded {
		order = make([]string, 0, len(c.graph.Nodes))
		for i := range c.graph.Nodes {
			order = append(order, c.graph.Nodes[i].ID)
		}
		positions = ArrivalOrderLayout(order, c.opts.YSpacing)
	} else {
		order = VisibleNodes(c.rootID, c.adj.Children, c.collapsed)
	}
	visible := VisibleSet(order)

	// Auto-clear a selection that fell out of the visible set.
	if c.selectedID != "" && !visible[c.selectedID] {
		c.selectedID = ""
		c.rev++
	}

	if !c.degraded {
		positions = ComputeLayout(c.rootID, c.adj.Children, visible, c.opts.XSpacing, c.opts.YSpacing)
	}

	hl := ComputeHighlight(c.selectedID, c.graph.Edges, c.adj.Parent)

	vm := &ViewModel{
		Nodes:      make([]RenderNode, 0, len(order)),
		SelectedID: c.selectedID,
		Degraded:   c.degraded,
	}

	byID := make(map[string]*model.Node, len(c.graph.Nodes))
	for i := range c.graph.Nodes {
		byID[c.graph.Nodes[i].ID] = &c.graph.Nodes[i]
	}

	for _, id := range order {
		node := byID[id]
		if node == nil {
			continue
		}
		depth := 0
		if d, ok := c.depths[id]; ok {
			depth = d
		}
		vm.Nodes = append(vm.Nodes, RenderNode{
			ID:            id,
			Type:          node.Type,
			Position:      positions[id],
			Label:         node.Label,
			Description:   node.Description,
			ChunkCount:    node.ChunkCount,
			Depth:         depth,
			HasChildren:   c.adj.HasChildren(id),
			IsCollapsed:   c.collapsed[id],
			IsHighlighted: hl.Active() && hl.Nodes[id],
			IsDimmed:      hl.Active() && !hl.Nodes[id],
		})
	}

	for _, edge := range c.graph.Edges {
		if !visible[edge.Source] || !visible[edge.Target] {
			continue
		}
		re := RenderEdge{
			ID:      edge.ID,
			Source:  edge.Source,
			Target:  edge.Target,
			Opacity: EdgeOpacityFull,
			Width:   EdgeWidthDefault,
		}
		if hl.Active() {
			if hl.Edges[edge.ID] {
				re.Animated = true
				re.Width = EdgeWidthEmphasis
			} else {
				re.Opacity = EdgeOpacityDimmed
				re.Width = 1
			}
		}
		vm.Edges = append(vm.Edges, re)
	}

	return vm
}
