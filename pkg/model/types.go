package model

import "fmt"

// Node is a single topic in a conversation's extracted knowledge graph.
type Node struct {
	ID            string   `json:"id"`
	Type          NodeType `json:"type"`
	Label         string   `json:"label"`
	Description   string   `json:"description,omitempty"`
	ChunkCount    int      `json:"chunk_count,omitempty"`
	ParentTopicID string   `json:"parent_topic_id,omitempty"` // informational; edges are authoritative
}

// Validate checks if the node data is logically valid
func (n *Node) Validate() error {
	if n.ID == "" {
		return fmt.Errorf("node ID cannot be empty")
	}
	if n.Label == "" {
		return fmt.Errorf("node label cannot be empty")
	}
	if !n.Type.IsValid() {
		return fmt.Errorf("invalid node type: %s", n.Type)
	}
	return nil
}

// NodeType categorizes the granularity of a topic node
type NodeType string

const (
	TypeRoot     NodeType = "root"
	TypeTopic    NodeType = "topic"
	TypeSubtopic NodeType = "subtopic"
	TypePoint    NodeType = "point"
	TypeMoment   NodeType = "moment"
)

// IsValid returns true if the node type is a recognized value
func (t NodeType) IsValid() bool {
	switch t {
	case TypeRoot, TypeTopic, TypeSubtopic, TypePoint, TypeMoment:
		return true
	}
	return false
}

// IsSelectable returns true if selecting a node of this type should drive
// highlighting and a topic-detail fetch. Selecting the root clears selection.
func (t NodeType) IsSelectable() bool {
	switch t {
	case TypeTopic, TypeSubtopic, TypePoint, TypeMoment:
		return true
	}
	return false
}

// Edge is a directed parent->child relationship between two nodes.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// Validate checks if the edge data is logically valid
func (e *Edge) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("edge ID cannot be empty")
	}
	if e.Source == "" || e.Target == "" {
		return fmt.Errorf("edge %s must have both source and target", e.ID)
	}
	return nil
}

// InsightGraph is the node/edge snapshot describing a conversation's
// extracted topic hierarchy, as delivered by the insights service.
type InsightGraph struct {
	ConversationID string `json:"conversation_id,omitempty"`
	Nodes          []Node `json:"nodes"`
	Edges          []Edge `json:"edges"`
}

// Clone creates a deep copy of the graph
func (g InsightGraph) Clone() InsightGraph {
	clone := g
	if g.Nodes != nil {
		clone.Nodes = make([]Node, len(g.Nodes))
		copy(clone.Nodes, g.Nodes)
	}
	if g.Edges != nil {
		clone.Edges = make([]Edge, len(g.Edges))
		copy(clone.Edges, g.Edges)
	}
	return clone
}

// NodeByID returns the node with the given id, or nil if absent.
func (g *InsightGraph) NodeByID(id string) *Node {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}
