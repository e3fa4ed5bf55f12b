package grapherror

import (
	"time"

	"github.com/teranos/annograph/errors"
)

// GraphError is a per-item failure record with structured context
type GraphError struct {
	Err         error                  // Underlying error
	Category    Category               // Main category
	Subcategory string                 // Optional subcategory
	UserMessage string                 // Short human-readable message
	Context     map[string]interface{} // Item coordinates (sentence, span, line)
	Timestamp   time.Time              // When the failure was recorded
}

// Error implements the error interface
func (e *GraphError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.UserMessage
}

// Unwrap returns the underlying error for errors.Is/As compatibility
func (e *GraphError) Unwrap() error {
	return e.Err
}

// New creates a new GraphError with the specified category and messages
func New(category Category, err error, userMsg string) *GraphError {
	return &GraphError{
		Err:         err,
		Category:    category,
		UserMessage: userMsg,
		Context:     make(map[string]interface{}),
		Timestamp:   time.Now(),
	}
}

// Newf creates a new GraphError with a formatted error message
func Newf(category Category, userMsg, format string, args ...interface{}) *GraphError {
	return New(category, errors.Newf(format, args...), userMsg)
}

// FromError classifies err by the domain sentinel it wraps.
func FromError(err error, userMsg string) *GraphError {
	switch {
	case errors.Is(err, errors.ErrOutOfRange):
		return New(CategoryRange, err, userMsg)
	case errors.Is(err, errors.ErrNoOverlap):
		return New(CategoryResolve, err, userMsg).WithSubcategory(SubcategoryResolveNoOverlap)
	case errors.Is(err, errors.ErrMalformedSpanEncoding):
		return New(CategoryEncoding, err, userMsg)
	case errors.Is(err, errors.ErrDuplicateNodeConflict):
		return New(CategoryConflict, err, userMsg)
	default:
		return New(CategoryInternal, err, userMsg)
	}
}

// WithSubcategory adds a subcategory to the error
func (e *GraphError) WithSubcategory(sub string) *GraphError {
	e.Subcategory = sub
	return e
}

// WithContext adds a context key-value pair for debugging
func (e *GraphError) WithContext(key string, value interface{}) *GraphError {
	e.Context[key] = value
	return e
}

// WithContextMap adds multiple context key-value pairs
func (e *GraphError) WithContextMap(ctx map[string]interface{}) *GraphError {
	for k, v := range ctx {
		e.Context[k] = v
	}
	return e
}
