package graph

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Spacing defaults for the mind-map layout, in canvas units.
const (
	DefaultXSpacing = 360.0
	DefaultYSpacing = 110.0
)

// Position is a node's placement on the canvas.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ComputeLayout assigns a position to every node reachable from the root
// through the visible subgraph. Columns sit at x = depth * xSpacing. Leaves
// stack top to bottom in traversal order, ySpacing apart; an internal node
// is centered on the mean of its children's y. The whole layout is then
// recentered so (min(y) + max(y)) / 2 == 0.
//
// Pure and deterministic: identical inputs produce identical outputs. A node
// reachable via more than one path is positioned exactly once; the first
// computed position is authoritative.
func ComputeLayout(rootID string, children map[string][]string, visible map[string]bool, xSpacing, ySpacing float64) map[string]Position {
	positions := make(map[string]Position)
	if rootID == "" || !visible[rootID] {
		return positions
	}
	if xSpacing <= 0 {
		xSpacing = DefaultXSpacing
	}
	if ySpacing <= 0 {
		ySpacing = DefaultYSpacing
	}

	l := &mapLayouter{
		children:  children,
		visible:   visible,
		positions: positions,
		xSpacing:  xSpacing,
		ySpacing:  ySpacing,
	}
	l.place(rootID, 0)

	recenter(positions)
	return positions
}

type mapLayouter struct {
	children  map[string][]string
	visible   map[string]bool
	positions map[string]Position
	xSpacing  float64
	ySpacing  float64
	nextSlot  float64
}

// place positions the subtree rooted at id, post-order, and returns the
// node's y coordinate.
func (l *mapLayouter) place(id string, depth int) float64 {
	if pos, done := l.positions[id]; done {
		return pos.Y
	}
	// Claim the slot before recursing so a cyclic edge back to this node
	// cannot re-enter.
	l.positions[id] = Position{X: float64(depth) * l.xSpacing}

	var childYs []float64
	for _, childID := range l.children[id] {
		if !l.visible[childID] {
			continue
		}
		if _, done := l.positions[childID]; done {
			continue
		}
		childYs = append(childYs, l.place(childID, depth+1))
	}

	var y float64
	if len(childYs) == 0 {
		y = l.nextSlot
		l.nextSlot += l.ySpacing
	} else {
		y = stat.Mean(childYs, nil)
	}
	l.positions[id] = Position{X: float64(depth) * l.xSpacing, Y: y}
	return y
}

// ArrivalOrderLayout is the degraded fallback used when no unique root can
// be discovered: every node in the given order gets a stable single-column
// placement. Never an error, just something renderable.
func ArrivalOrderLayout(ids []string, ySpacing float64) map[string]Position {
	if ySpacing <= 0 {
		ySpacing = DefaultYSpacing
	}
	positions := make(map[string]Position, len(ids))
	slot := 0.0
	for _, id := range ids {
		if _, done := positions[id]; done {
			continue
		}
		positions[id] = Position{X: 0, Y: slot}
		slot += ySpacing
	}
	recenter(positions)
	return positions
}

// recenter shifts all y values so the layout is vertically centered on 0.
func recenter(positions map[string]Position) {
	if len(positions) == 0 {
		return
	}
	ys := make([]float64, 0, len(positions))
	for _, pos := range positions {
		ys = append(ys, pos.Y)
	}
	mid := (floats.Min(ys) + floats.Max(ys)) / 2
	if mid == 0 {
		return
	}
	for id, pos := range positions {
		pos.Y -= mid
		positions[id] = pos
	}
}
