package graph

import (
	"time"
)

// Graph is the exported view of one document graph
type Graph struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Links []Link `json:"links" yaml:"links"`
	Meta  Meta   `json:"meta" yaml:"meta"`
}

// Node is an annotation node or a referenced sentinel
type Node struct {
	ID       string                 `json:"id" yaml:"id"`
	Type     string                 `json:"type" yaml:"type"`   // Variant name, or "sentinel"
	Label    string                 `json:"label" yaml:"label"` // Upstream label and covered text
	Sentence int                    `json:"sentence" yaml:"sentence"`
	Start    int                    `json:"start" yaml:"start"`
	End      int                    `json:"end" yaml:"end"`
	Metadata map[string]interface{} `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Link is an edge from child (Source) to parent (Target)
type Link struct {
	Source string  `json:"source" yaml:"source"` // Node ID
	Target string  `json:"target" yaml:"target"` // Node ID
	Type   string  `json:"type" yaml:"type"`     // Relation label
	Weight float64 `json:"value" yaml:"value"`   // Grows when the same triple was integrated more than once
	Graph  string  `json:"graph" yaml:"graph"`
}

// Meta contains metadata about the graph
type Meta struct {
	GeneratedAt       time.Time              `json:"generated_at" yaml:"generated_at"`
	Stats             Stats                  `json:"stats" yaml:"stats"`
	Config            map[string]string      `json:"config" yaml:"config"`
	NodeTypes         []NodeTypeInfo         `json:"node_types" yaml:"node_types"`
	RelationshipTypes []RelationshipTypeInfo `json:"relationship_types" yaml:"relationship_types"`
}

// NodeTypeInfo counts nodes of one type
type NodeTypeInfo struct {
	Type  string `json:"type" yaml:"type"`
	Label string `json:"label" yaml:"label"`
	Color string `json:"color,omitempty" yaml:"color,omitempty"`
	Count int    `json:"count,omitempty" yaml:"count,omitempty"`
}

// RelationshipTypeInfo counts links of one relation
type RelationshipTypeInfo struct {
	Type  string `json:"type" yaml:"type"`
	Label string `json:"label" yaml:"label"`
	Count int    `json:"count,omitempty" yaml:"count,omitempty"`
}

// Stats provides graph statistics
type Stats struct {
	TotalNodes int `json:"total_nodes,omitempty" yaml:"total_nodes,omitempty"`
	TotalEdges int `json:"total_edges,omitempty" yaml:"total_edges,omitempty"`
}
