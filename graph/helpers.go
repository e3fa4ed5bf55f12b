package graph

import (
	"strings"

	"github.com/teranos/annograph/document"
)

// normalizeNodeID creates a safe, lowercase node ID for sentinels.
// Example: "NULL_CONCEIVER" becomes "sentinel:null_conceiver"
func normalizeNodeID(id string) string {
	normalized := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			return r
		}
		return '_'
	}, id)

	return "sentinel:" + strings.ToLower(normalized)
}

// endpointID returns the view id of an edge endpoint: the node UID, or the
// normalized sentinel name.
func endpointID(doc *document.Document, ep document.Endpoint) string {
	if ep.IsSentinel() {
		return normalizeNodeID(string(ep.Sentinel))
	}
	return doc.Nodes[ep.Node].UID
}

// displayLabel renders "Label: covered text", or just the text for unlabeled
// nodes.
func displayLabel(doc *document.Document, n document.Node) string {
	text := doc.NodeText(n.ID)
	if n.Label == "" {
		return text
	}
	return n.Label + ": " + text
}
