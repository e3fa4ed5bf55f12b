package grapherror

// Category represents the main failure category of an integration item
type Category string

const (
	// CategoryRange indicates a sentence or token index outside valid bounds
	CategoryRange Category = "range"

	// CategoryResolve indicates a span could not be resolved to a node
	CategoryResolve Category = "resolve"

	// CategoryEncoding indicates an unparsable span reference or edge line
	CategoryEncoding Category = "encoding"

	// CategoryConflict indicates contradictory upstream data for one node key
	CategoryConflict Category = "conflict"

	// CategoryInternal indicates an unexpected failure
	CategoryInternal Category = "internal"
)

// String returns the string representation of the category
func (c Category) String() string {
	return string(c)
}

// Range Subcategories
const (
	// SubcategoryRangeSentence indicates the sentence index does not exist
	SubcategoryRangeSentence = "sentence_index"

	// SubcategoryRangeToken indicates a token index outside the sentence
	SubcategoryRangeToken = "token_index"

	// SubcategoryRangeEmptySentence indicates a sentence with zero tokens
	SubcategoryRangeEmptySentence = "empty_sentence"
)

// Resolve Subcategories
const (
	// SubcategoryResolveNoOverlap indicates no tier cleared the overlap threshold
	SubcategoryResolveNoOverlap = "no_overlap"

	// SubcategoryResolveMissingEndpoint indicates an edge endpoint failed to resolve
	SubcategoryResolveMissingEndpoint = "missing_endpoint"
)

// Encoding Subcategories
const (
	// SubcategoryEncodingRef indicates a malformed span reference
	SubcategoryEncodingRef = "malformed_ref"

	// SubcategoryEncodingLine indicates a line with the wrong column count
	SubcategoryEncodingLine = "malformed_line"

	// SubcategoryEncodingConfidence indicates an unparsable confidence column
	SubcategoryEncodingConfidence = "bad_confidence"
)

// Conflict Subcategories
const (
	// SubcategoryConflictVariant indicates two labels for one span map to different variants
	SubcategoryConflictVariant = "variant_mismatch"

	// SubcategoryConflictDuplicate indicates a second node for an existing key
	SubcategoryConflictDuplicate = "duplicate_node"
)
