package grapherror

import (
	"fmt"
	"sort"
)

// defaultMessages provides readable messages for each category
var defaultMessages = map[Category]string{
	CategoryRange:    "Index outside the document",
	CategoryResolve:  "Span could not be resolved to a node",
	CategoryEncoding: "Malformed edge-list entry",
	CategoryConflict: "Contradictory annotations for one span",
	CategoryInternal: "An internal error occurred",
}

// ToUIMessage returns the custom message or the category default
func (e *GraphError) ToUIMessage() string {
	if e.UserMessage != "" {
		return e.UserMessage
	}
	return e.defaultMessageForCategory()
}

func (e *GraphError) defaultMessageForCategory() string {
	if msg, ok := defaultMessages[e.Category]; ok {
		return msg
	}
	return "An error occurred"
}

// ToMeta formats the failure for report output
func (e *GraphError) ToMeta() map[string]string {
	meta := map[string]string{
		"error":       e.Error(),
		"category":    string(e.Category),
		"description": e.ToUIMessage(),
	}

	if e.Subcategory != "" {
		meta["subcategory"] = e.Subcategory
	}

	if len(e.Context) > 0 {
		meta["context"] = fmt.Sprintf("%v", e.Context)
	}

	return meta
}

// ToLogFields converts the failure to structured log fields for logger.Debugw().
// Context keys are emitted in sorted order.
func (e *GraphError) ToLogFields() []interface{} {
	fields := []interface{}{
		"error_category", e.Category,
		"error_message", e.Error(),
		"user_message", e.UserMessage,
	}

	if e.Subcategory != "" {
		fields = append(fields, "error_subcategory", e.Subcategory)
	}

	keys := make([]string, 0, len(e.Context))
	for k := range e.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fields = append(fields, k, e.Context[k])
	}

	return fields
}

// IsCategory checks if the error matches a specific category
func (e *GraphError) IsCategory(cat Category) bool {
	return e.Category == cat
}

// IsSubcategory checks if the error matches a specific subcategory
func (e *GraphError) IsSubcategory(sub string) bool {
	return e.Subcategory == sub
}
