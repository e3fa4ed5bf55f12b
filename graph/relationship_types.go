package graph

import (
	"sort"
)

// collectRelationshipTypeInfo counts links per relation, most common first,
// ties by name.
func collectRelationshipTypeInfo(links []Link) []RelationshipTypeInfo {
	typeCounts := make(map[string]int)
	for _, link := range links {
		typeCounts[link.Type]++
	}

	var relationshipTypes []RelationshipTypeInfo
	for linkType, count := range typeCounts {
		relationshipTypes = append(relationshipTypes, RelationshipTypeInfo{
			Type:  linkType,
			Label: linkType,
			Count: count,
		})
	}

	sort.Slice(relationshipTypes, func(i, j int) bool {
		if relationshipTypes[i].Count != relationshipTypes[j].Count {
			return relationshipTypes[i].Count > relationshipTypes[j].Count
		}
		return relationshipTypes[i].Type < relationshipTypes[j].Type
	})

	return relationshipTypes
}
