package graph

import (
	"testing"

	"github.com/teranos/annograph/document"
	qtest "github.com/teranos/annograph/internal/testing"
)

// TestBuildViewEmpty tests a document without nodes or edges
func TestBuildViewEmpty(t *testing.T) {
	doc := qtest.JohnFlewDoc(t)
	graph := BuildView(doc, "modal")

	if len(graph.Nodes) != 0 {
		t.Errorf("Expected 0 nodes, got %d", len(graph.Nodes))
	}
	if len(graph.Links) != 0 {
		t.Errorf("Expected 0 links, got %d", len(graph.Links))
	}
	if graph.Meta.Stats.TotalNodes != 0 || graph.Meta.Stats.TotalEdges != 0 {
		t.Errorf("Meta Stats = %+v, want zero", graph.Meta.Stats)
	}
	if graph.Meta.Config["document"] != "doc-1" {
		t.Errorf("Meta Config document = %q, want %q", graph.Meta.Config["document"], "doc-1")
	}
}

// TestBuildViewRichDocument tests node and link export of one named graph
func TestBuildViewRichDocument(t *testing.T) {
	doc := qtest.RichDoc(t)
	graph := BuildView(doc, "modal")

	// said, flew, when + AUTHOR and DCT sentinels
	if len(graph.Nodes) != 5 {
		t.Fatalf("Expected 5 nodes, got %d", len(graph.Nodes))
	}
	if len(graph.Links) != 3 {
		t.Fatalf("Expected 3 links, got %d", len(graph.Links))
	}
	if graph.Meta.Config["root"] != "sentinel:author" {
		t.Errorf("Meta Config root = %q, want %q", graph.Meta.Config["root"], "sentinel:author")
	}

	for i := 1; i < len(graph.Nodes); i++ {
		if graph.Nodes[i-1].ID > graph.Nodes[i].ID {
			t.Errorf("Nodes not sorted: %q before %q", graph.Nodes[i-1].ID, graph.Nodes[i].ID)
		}
	}

	byID := make(map[string]Node)
	for _, n := range graph.Nodes {
		byID[n.ID] = n
	}
	flew := byID[doc.Nodes[2].UID]
	if flew.Type != "event_mention" {
		t.Errorf("flew Type = %q, want %q", flew.Type, "event_mention")
	}
	if flew.Label != "Event: flew" {
		t.Errorf("flew Label = %q, want %q", flew.Label, "Event: flew")
	}
	if flew.Metadata["confidence"] != 0.9 {
		t.Errorf("flew confidence = %v, want 0.9", flew.Metadata["confidence"])
	}
	if flew.Metadata["syntax"] != "V" {
		t.Errorf("flew syntax = %v, want V", flew.Metadata["syntax"])
	}

	when := byID[doc.Nodes[5].UID]
	if when.Metadata["head"] != "Paris" {
		t.Errorf("when head = %v, want Paris", when.Metadata["head"])
	}

	dct, ok := byID["sentinel:dct"]
	if !ok {
		t.Fatal("Expected DCT sentinel node")
	}
	if dct.Type != sentinelNodeType || dct.Sentence != -1 {
		t.Errorf("DCT node = %+v", dct)
	}

	if len(graph.Meta.NodeTypes) == 0 || graph.Meta.NodeTypes[0].Type != sentinelNodeType {
		t.Errorf("Most common node type = %+v, want sentinel", graph.Meta.NodeTypes)
	}
	if len(graph.Meta.RelationshipTypes) != 2 || graph.Meta.RelationshipTypes[0].Type != "pos" {
		t.Errorf("RelationshipTypes = %+v", graph.Meta.RelationshipTypes)
	}
}

// TestBuildViewAllNodes tests that an empty graph name exports every node
func TestBuildViewAllNodes(t *testing.T) {
	doc := qtest.RichDoc(t)
	graph := BuildView(doc, "")

	// six annotation nodes + AUTHOR + DCT
	if len(graph.Nodes) != 8 {
		t.Errorf("Expected 8 nodes, got %d", len(graph.Nodes))
	}
	if _, ok := graph.Meta.Config["root"]; ok {
		t.Error("Expected no root for the unnamed graph")
	}
}

// TestBuildViewRepeatedTriples tests weight accumulation across integration calls
func TestBuildViewRepeatedTriples(t *testing.T) {
	doc := qtest.JohnFlewDoc(t)
	in := NewIntegrator(DefaultConfig(), nil)
	edges := []EdgeSpec{{Child: SpanRef(0, 1, 1), ChildLabel: "Event", Parent: SentinelRef(document.Root), Relation: "dep"}}

	for i := 0; i < 2; i++ {
		if _, err := in.Integrate(doc, edges); err != nil {
			t.Fatalf("Integrate() error = %v", err)
		}
	}

	graph := BuildView(doc, "modal")
	if len(graph.Links) != 1 {
		t.Fatalf("Expected 1 link, got %d", len(graph.Links))
	}
	if graph.Links[0].Weight != defaultLinkWeight+linkWeightIncrement {
		t.Errorf("Link weight = %v, want %v", graph.Links[0].Weight, defaultLinkWeight+linkWeightIncrement)
	}
	if graph.Links[0].Target != "sentinel:root" {
		t.Errorf("Link target = %q, want %q", graph.Links[0].Target, "sentinel:root")
	}
}
