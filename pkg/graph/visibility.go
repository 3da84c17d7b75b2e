package graph

// DefaultCollapseFromDepth is the depth at which branches start collapsed.
const DefaultCollapseFromDepth = 2

// DefaultCollapsed decides, once per snapshot, which branches start out
// collapsed: every node at depth >= collapseFromDepth that has at least one
// child. Leaves are never collapsed since there is nothing to hide.
func DefaultCollapsed(depths map[string]int, children map[string][]string, collapseFromDepth int) map[string]bool {
	collapsed := make(map[string]bool)
	for id, depth := range depths {
		if depth >= collapseFromDepth && len(children[id]) > 0 {
			collapsed[id] = true
		}
	}
	return collapsed
}

// VisibleNodes walks the tree depth-first from the root, stopping at
// collapsed branches. A visited guard keeps the traversal terminating even
// when the edge list contains a cycle. The returned slice is in traversal
// order; the set form is derivable but callers usually want both.
func VisibleNodes(rootID string, children map[string][]string, collapsed map[string]bool) []string {
	if rootID == "" {
		return nil
	}

	var order []string
	seen := make(map[string]bool)
	stack := []string{rootID}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[id] {
			continue
		}
		seen[id] = true
		order = append(order, id)

		if collapsed[id] {
			continue
		}
		// Push in reverse so children pop in insertion order.
		kids := children[id]
		for i := len(kids) - 1; i >= 0; i-- {
			if !seen[kids[i]] {
				stack = append(stack, kids[i])
			}
		}
	}
	return order
}

// VisibleSet converts a traversal order into a membership set.
func VisibleSet(order []string) map[string]bool {
	set := make(map[string]bool, len(order))
	for _, id := range order {
		set[id] = true
	}
	return set
}
