package graph

import (
	"fmt"
	"sort"
	"time"

	"github.com/teranos/annograph/document"
)

// BuildView exports the edges of one named graph (every edge when graphName
// is empty) with their endpoint nodes. Nodes and links are sorted by id, so
// the output is stable across runs. With an empty graphName every annotation
// node is included, connected or not.
func BuildView(doc *document.Document, graphName string) *Graph {
	graph := &Graph{
		Nodes: []Node{},
		Links: []Link{},
		Meta: Meta{
			GeneratedAt: time.Now(),
			Config: map[string]string{
				"document":    doc.ID,
				"graph":       graphName,
				"description": fmt.Sprintf("Annotation graph %q of document %s", graphName, doc.ID),
			},
		},
	}
	if root, ok := doc.GraphRoot(graphName); ok {
		graph.Meta.Config["root"] = endpointID(doc, root)
	}

	nodeMap := make(map[string]*Node)
	linkMap := make(map[string]*Link)

	addEndpoint := func(ep document.Endpoint) string {
		id := endpointID(doc, ep)
		if _, exists := nodeMap[id]; exists {
			return id
		}
		if ep.IsSentinel() {
			nodeMap[id] = &Node{
				ID:       id,
				Type:     sentinelNodeType,
				Label:    string(ep.Sentinel),
				Sentence: -1,
				Start:    -1,
				End:      -1,
			}
			return id
		}
		nodeMap[id] = viewNode(doc, doc.Nodes[ep.Node])
		return id
	}

	if graphName == "" {
		for _, n := range doc.Nodes {
			addEndpoint(document.NodeEndpoint(n.ID))
		}
	}

	for _, e := range doc.EdgesIn(graphName) {
		source := addEndpoint(e.Child)
		target := addEndpoint(e.Parent)

		linkID := fmt.Sprintf("%s|%s|%s|%s", e.Graph, source, e.Relation, target)
		if link, exists := linkMap[linkID]; exists {
			link.Weight += linkWeightIncrement
			continue
		}
		linkMap[linkID] = &Link{
			Source: source,
			Target: target,
			Type:   e.Relation,
			Weight: defaultLinkWeight,
			Graph:  e.Graph,
		}
	}

	nodeIDs := make([]string, 0, len(nodeMap))
	for id := range nodeMap {
		nodeIDs = append(nodeIDs, id)
	}
	sort.Strings(nodeIDs)
	for _, id := range nodeIDs {
		graph.Nodes = append(graph.Nodes, *nodeMap[id])
	}

	linkIDs := make([]string, 0, len(linkMap))
	for id := range linkMap {
		linkIDs = append(linkIDs, id)
	}
	sort.Strings(linkIDs)
	for _, id := range linkIDs {
		graph.Links = append(graph.Links, *linkMap[id])
	}

	graph.Meta.Stats.TotalNodes = len(graph.Nodes)
	graph.Meta.Stats.TotalEdges = len(graph.Links)
	graph.Meta.NodeTypes = collectNodeTypeInfo(graph.Nodes)
	graph.Meta.RelationshipTypes = collectRelationshipTypeInfo(graph.Links)

	return graph
}

func viewNode(doc *document.Document, n document.Node) *Node {
	meta := map[string]interface{}{
		"label": n.Label,
		"text":  doc.NodeText(n.ID),
	}
	if n.Confidence != nil {
		meta["confidence"] = *n.Confidence
	}
	if n.Anchored() {
		meta["syntax"] = doc.Sentences[n.Sentence].Syntax[n.Syn].Tag
	}
	if n.HasHead() {
		meta["head"] = doc.Sentences[n.Sentence].Text(n.HeadStart, n.HeadEnd)
	}
	if len(n.Args) > 0 {
		args := make(map[string]string, len(n.Args))
		for _, a := range n.Args {
			args[a.Role] = doc.Nodes[a.Value].UID
		}
		meta["args"] = args
	}
	return &Node{
		ID:       n.UID,
		Type:     n.Variant.String(),
		Label:    displayLabel(doc, n),
		Sentence: n.Sentence,
		Start:    n.Start,
		End:      n.End,
		Metadata: meta,
	}
}
