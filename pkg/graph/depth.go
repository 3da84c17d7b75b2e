package graph

// bfsQueueItem tracks a node and its distance from the root during BFS.
type bfsQueueItem struct {
	ID    string
	Depth int
}

// ComputeDepths returns the breadth-first distance from the root for every
// reachable node. A node already assigned a depth is never revisited, so the
// first depth assigned wins; this both guards against cycles and gives the
// shortest path over DAG re-entry. Unreachable nodes are absent from the map.
func ComputeDepths(rootID string, children map[string][]string) map[string]int {
	depths := make(map[string]int)
	if rootID == "" {
		return depths
	}

	depths[rootID] = 0
	queue := []bfsQueueItem{{ID: rootID, Depth: 0}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, childID := range children[current.ID] {
			if _, seen := depths[childID]; seen {
				continue
			}
			depths[childID] = current.Depth + 1
			queue = append(queue, bfsQueueItem{ID: childID, Depth: current.Depth + 1})
		}
	}
	return depths
}
