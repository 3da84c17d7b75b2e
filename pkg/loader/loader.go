// Package loader reads insight graph snapshots from disk or from the
// conversation-insights API. The engine itself never fetches anything; this
// is the host-side boundary that hands it a snapshot.
package loader

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kraitsura/insight_viewer/pkg/model"
)

// LoadGraph reads an InsightGraph snapshot from a JSON file.
func LoadGraph(path string) (model.InsightGraph, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return model.InsightGraph{}, fmt.Errorf("no insight graph found at %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return model.InsightGraph{}, fmt.Errorf("failed to read graph file: %w", err)
	}
	return ParseGraph(data)
}

// ParseGraph decodes a snapshot and drops entries that could never render:
// nodes without an id and edges without an id. Structurally dangling edges
// stay in; the engine skips them during adjacency construction.
func ParseGraph(data []byte) (model.InsightGraph, error) {
	var g model.InsightGraph
	if err := json.Unmarshal(data, &g); err != nil {
		return model.InsightGraph{}, fmt.Errorf("failed to parse graph: %w", err)
	}

	nodes := g.Nodes[:0]
	for _, n := range g.Nodes {
		if n.ID == "" {
			continue
		}
		if n.Type == "" {
			n.Type = model.TypeTopic
		}
		nodes = append(nodes, n)
	}
	g.Nodes = nodes

	edges := g.Edges[:0]
	for _, e := range g.Edges {
		if e.ID == "" {
			continue
		}
		edges = append(edges, e)
	}
	g.Edges = edges

	return g, nil
}
