package graph

const (
	// Link weight constants
	defaultLinkWeight   = 1.0 // Initial weight for new links
	linkWeightIncrement = 0.5 // Weight increase for repeated triples

	// Sentinel nodes
	sentinelNodeType  = "sentinel"
	sentinelNodeColor = "rgba(149, 165, 166, 0.3)" // Transparent gray
)

// variantColors gives each node variant a stable display color
var variantColors = map[string]string{
	"mention":           "#3498db",
	"event_mention":     "#e74c3c",
	"value_mention":     "#2ecc71",
	"conceiver_mention": "#9b59b6",
	sentinelNodeType:    sentinelNodeColor,
}
