package graph

import (
	"testing"
)

// TestNormalizeNodeID tests sentinel ID normalization
func TestNormalizeNodeID(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"ROOT", "sentinel:root"},
		{"NULL_CONCEIVER", "sentinel:null_conceiver"},
		{"with spaces", "sentinel:with_spaces"},
		{"special@chars#here", "sentinel:special_chars_here"},
		{"", "sentinel:"},
	}

	for _, tt := range tests {
		result := normalizeNodeID(tt.input)
		if result != tt.expected {
			t.Errorf("normalizeNodeID(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

// TestTypeLabel tests display labels for node types
func TestTypeLabel(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"event_mention", "Event Mention"},
		{"mention", "Mention"},
		{"sentinel", "Sentinel"},
		{"", ""},
	}

	for _, tt := range tests {
		if result := typeLabel(tt.input); result != tt.expected {
			t.Errorf("typeLabel(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

// TestCollectTypeInfoOrdering tests count-descending, name-ascending order
func TestCollectTypeInfoOrdering(t *testing.T) {
	nodes := []Node{{Type: "mention"}, {Type: "event_mention"}, {Type: "mention"}, {Type: "sentinel"}}
	info := collectNodeTypeInfo(nodes)

	want := []string{"mention", "event_mention", "sentinel"}
	if len(info) != len(want) {
		t.Fatalf("collectNodeTypeInfo() returned %d types, want %d", len(info), len(want))
	}
	for i, typ := range want {
		if info[i].Type != typ {
			t.Errorf("collectNodeTypeInfo()[%d].Type = %q, want %q", i, info[i].Type, typ)
		}
	}
	if info[0].Count != 2 {
		t.Errorf("mention count = %d, want 2", info[0].Count)
	}
	if info[2].Color != sentinelNodeColor {
		t.Errorf("sentinel color = %q, want %q", info[2].Color, sentinelNodeColor)
	}

	rels := collectRelationshipTypeInfo([]Link{{Type: "pos"}, {Type: "before"}, {Type: "pos"}})
	if len(rels) != 2 || rels[0].Type != "pos" || rels[0].Count != 2 || rels[1].Type != "before" {
		t.Errorf("collectRelationshipTypeInfo() = %+v", rels)
	}
}
