package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New("test error")
	require.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestWithHint(t *testing.T) {
	err := WithHint(New("error"), "try this fix")

	hints := GetAllHints(err)
	require.Len(t, hints, 1)
	assert.Equal(t, "try this fix", hints[0])
}

func TestStackTrace(t *testing.T) {
	err := New("with stack")
	assert.Contains(t, fmt.Sprintf("%+v", err), "errors_test.go")
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "context %d", 1))
	assert.Nil(t, WithHint(nil, "hint"))
	assert.Nil(t, WithDetail(nil, "detail"))
}

func TestTaxonomySentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		fatal    bool
	}{
		{"out of range", NewOutOfRangef("sentence %d", 7), ErrOutOfRange, true},
		{"no overlap", Wrapf(ErrNoOverlap, "span %d-%d", 1, 2), ErrNoOverlap, false},
		{"malformed", NewMalformedf("bad ref %q", "x_y"), ErrMalformedSpanEncoding, false},
		{"conflict", Wrap(ErrDuplicateNodeConflict, "0_1_1"), ErrDuplicateNodeConflict, false},
		{"not found", NewNotFoundError("document %s", "d1"), ErrNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, Is(tt.err, tt.sentinel))
			assert.Equal(t, tt.fatal, IsDocumentFatal(tt.err))
		})
	}
}

func TestIsDocumentFatalNil(t *testing.T) {
	assert.False(t, IsDocumentFatal(nil))
}

func TestHelpersPreserveMessage(t *testing.T) {
	err := NewOutOfRangef("token %d outside [0, %d)", 9, 5)
	assert.Contains(t, err.Error(), "token 9 outside [0, 5)")
	assert.Contains(t, err.Error(), "out of range")
	assert.True(t, IsInvalidRequestError(NewInvalidRequestError("x")))
	assert.True(t, IsNotFoundError(Wrap(ErrNotFound, "doc")))
}

func ExampleWrap() {
	baseErr := New("connection failed")
	err := Wrap(baseErr, "failed to connect to database")
	fmt.Println(err)
	// Output: failed to connect to database: connection failed
}
