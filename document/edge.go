package document

import (
	"fmt"

	"github.com/teranos/annograph/errors"
)

// Sentinel is a fixed pseudo-node usable as an edge endpoint.
type Sentinel string

const (
	NoSentinel    Sentinel = ""
	Root          Sentinel = "ROOT"
	Author        Sentinel = "AUTHOR"
	NullConceiver Sentinel = "NULL_CONCEIVER"
	DCT           Sentinel = "DCT"
)

// Sentinels lists every sentinel.
var Sentinels = []Sentinel{Root, Author, NullConceiver, DCT}

// ParseSentinel recognizes a sentinel name.
func ParseSentinel(s string) (Sentinel, bool) {
	for _, sen := range Sentinels {
		if string(sen) == s {
			return sen, true
		}
	}
	return NoSentinel, false
}

// Endpoint is either a node or a sentinel.
type Endpoint struct {
	Node     NodeID
	Sentinel Sentinel
}

// NodeEndpoint refers to a node.
func NodeEndpoint(id NodeID) Endpoint {
	return Endpoint{Node: id}
}

// SentinelEndpoint refers to a sentinel.
func SentinelEndpoint(s Sentinel) Endpoint {
	return Endpoint{Node: NoNode, Sentinel: s}
}

// IsSentinel reports whether the endpoint is a pseudo-node.
func (e Endpoint) IsSentinel() bool {
	return e.Sentinel != NoSentinel
}

func (e Endpoint) String() string {
	if e.IsSentinel() {
		return string(e.Sentinel)
	}
	return fmt.Sprintf("node:%d", e.Node)
}

// Edge is a labeled relation from Child to Parent within one named graph.
type Edge struct {
	ID       EdgeID
	Graph    string
	Relation string
	Child    Endpoint
	Parent   Endpoint
}

func (d *Document) checkEndpoint(e Endpoint) error {
	if e.IsSentinel() {
		if _, ok := ParseSentinel(string(e.Sentinel)); !ok {
			return errors.NewInvalidRequestError("unknown sentinel %q", e.Sentinel)
		}
		return nil
	}
	_, err := d.Node(e.Node)
	return err
}

// AddEdge appends an edge. Callers own deduplication.
func (d *Document) AddEdge(graph, relation string, child, parent Endpoint) (EdgeID, error) {
	if err := d.checkEndpoint(child); err != nil {
		return -1, errors.Wrap(err, "edge child")
	}
	if err := d.checkEndpoint(parent); err != nil {
		return -1, errors.Wrap(err, "edge parent")
	}
	id := EdgeID(len(d.Edges))
	d.Edges = append(d.Edges, Edge{
		ID:       id,
		Graph:    graph,
		Relation: relation,
		Child:    child,
		Parent:   parent,
	})
	return id, nil
}

// EdgesIn returns the edges of one named graph in creation order. An empty
// graph name selects every edge.
func (d *Document) EdgesIn(graph string) []Edge {
	var out []Edge
	for _, e := range d.Edges {
		if graph == "" || e.Graph == graph {
			out = append(out, e)
		}
	}
	return out
}

// SetRoot designates the root of a named graph. The first call per graph
// wins; later calls return false and change nothing.
func (d *Document) SetRoot(graph string, root Endpoint) bool {
	if d.Roots == nil {
		d.Roots = make(map[string]Endpoint)
	}
	if _, ok := d.Roots[graph]; ok {
		return false
	}
	d.Roots[graph] = root
	return true
}

// GraphRoot returns the designated root of a named graph.
func (d *Document) GraphRoot(graph string) (Endpoint, bool) {
	r, ok := d.Roots[graph]
	return r, ok
}
