package score

import (
	"github.com/teranos/annograph/document"
	"github.com/teranos/annograph/graph"
)

// TriplesFromDocument projects the edges of one graph of doc onto triples.
// Node endpoints are written as span references, sentinels by name. An empty
// graph name projects every edge.
func TriplesFromDocument(doc *document.Document, graphName string) []Triple {
	edges := doc.EdgesIn(graphName)
	triples := make([]Triple, 0, len(edges))
	for _, e := range edges {
		triples = append(triples, Triple{
			Child:    refOf(doc, e.Child),
			Relation: e.Relation,
			Parent:   refOf(doc, e.Parent),
		})
	}
	return triples
}

func refOf(doc *document.Document, ep document.Endpoint) string {
	if ep.IsSentinel() {
		return graph.FormatRef(graph.SentinelRef(ep.Sentinel))
	}
	n := doc.Nodes[ep.Node]
	return graph.FormatRef(graph.SpanRef(n.Sentence, n.Start, n.End))
}
