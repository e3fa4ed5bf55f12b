package graph

import (
	"sort"
)

// collectNodeTypeInfo counts nodes per type, most common first, ties by name.
func collectNodeTypeInfo(nodes []Node) []NodeTypeInfo {
	typeCounts := make(map[string]int)
	for _, node := range nodes {
		typeCounts[node.Type]++
	}

	var nodeTypes []NodeTypeInfo
	for nodeType, count := range typeCounts {
		nodeTypes = append(nodeTypes, NodeTypeInfo{
			Type:  nodeType,
			Label: typeLabel(nodeType),
			Color: variantColors[nodeType],
			Count: count,
		})
	}

	sort.Slice(nodeTypes, func(i, j int) bool {
		if nodeTypes[i].Count != nodeTypes[j].Count {
			return nodeTypes[i].Count > nodeTypes[j].Count
		}
		return nodeTypes[i].Type < nodeTypes[j].Type
	})

	return nodeTypes
}

// typeLabel turns "event_mention" into "Event Mention".
func typeLabel(nodeType string) string {
	out := []byte(nodeType)
	upper := true
	for i, c := range out {
		switch {
		case c == '_':
			out[i] = ' '
			upper = true
		case upper && c >= 'a' && c <= 'z':
			out[i] = c - 'a' + 'A'
			upper = false
		default:
			upper = false
		}
	}
	return string(out)
}
