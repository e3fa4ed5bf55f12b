// Package errors provides error handling for annograph.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Hints and details for CLI users
//
// It also declares the error taxonomy of the integration engine. Callers check
// the kind of a failure with errors.Is against the sentinels below:
//
//	id, _, err := builder.GetOrCreate(sent, q, document.EventMention, "Event", 0.99)
//	if errors.Is(err, errors.ErrNoOverlap) {
//	    // skip this span, keep going
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Assertions
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Sentinel errors. Wrap these with errors.Wrapf to add context while
// preserving the kind.
var (
	// ErrNotFound indicates the requested resource does not exist
	ErrNotFound = New("not found")

	// ErrInvalidRequest indicates the request was malformed or invalid
	ErrInvalidRequest = New("invalid request")

	// ErrOutOfRange indicates a sentence or token index outside valid bounds,
	// or a sentence without tokens. Fatal for the current document only.
	ErrOutOfRange = New("out of range")

	// ErrNoOverlap indicates a span could not be resolved above the overlap
	// threshold. The span (or edge) is skipped and counted.
	ErrNoOverlap = New("no overlap")

	// ErrMalformedSpanEncoding indicates an unparsable span reference or
	// edge line. The edge is skipped.
	ErrMalformedSpanEncoding = New("malformed span encoding")

	// ErrDuplicateNodeConflict indicates two nodes were requested for the same
	// span with different variants. Upstream data contradicts itself.
	ErrDuplicateNodeConflict = New("duplicate node conflict")
)

// IsDocumentFatal reports whether err should abort processing of the current
// document. Everything else is recovered locally by skipping the item.
func IsDocumentFatal(err error) bool {
	return err != nil && Is(err, ErrOutOfRange)
}

// IsNotFoundError checks if an error is or wraps ErrNotFound.
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsInvalidRequestError checks if an error is or wraps ErrInvalidRequest
func IsInvalidRequestError(err error) bool {
	return err != nil && Is(err, ErrInvalidRequest)
}

// NewNotFoundError creates a not-found error with a formatted message
func NewNotFoundError(format string, args ...interface{}) error {
	return Wrapf(ErrNotFound, format, args...)
}

// NewInvalidRequestError creates an invalid-request error with a formatted message
func NewInvalidRequestError(format string, args ...interface{}) error {
	return Wrapf(ErrInvalidRequest, format, args...)
}

// NewOutOfRangef creates an out-of-range error with a formatted message
func NewOutOfRangef(format string, args ...interface{}) error {
	return Wrapf(ErrOutOfRange, format, args...)
}

// NewMalformedf creates a malformed-encoding error with a formatted message
func NewMalformedf(format string, args ...interface{}) error {
	return Wrapf(ErrMalformedSpanEncoding, format, args...)
}
