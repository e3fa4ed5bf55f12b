package grapherror

import (
	"errors"
	"testing"
	"time"

	aerrors "github.com/teranos/annograph/errors"
)

func TestGraphError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *GraphError
		want string
	}{
		{
			name: "returns underlying error message when Err is not nil",
			err: &GraphError{
				Err:         errors.New("span 0_9_9 outside sentence"),
				UserMessage: "Index outside the document",
			},
			want: "span 0_9_9 outside sentence",
		},
		{
			name: "returns UserMessage when Err is nil",
			err: &GraphError{
				UserMessage: "Span could not be resolved",
			},
			want: "Span could not be resolved",
		},
		{
			name: "returns empty string when both Err and UserMessage are empty",
			err:  &GraphError{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if got != tt.want {
				t.Errorf("GraphError.Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGraphError_Unwrap(t *testing.T) {
	underlyingErr := errors.New("underlying error")
	err := &GraphError{Err: underlyingErr}

	if got := err.Unwrap(); got != underlyingErr {
		t.Errorf("GraphError.Unwrap() = %v, want %v", got, underlyingErr)
	}

	errNil := &GraphError{}
	if got := errNil.Unwrap(); got != nil {
		t.Errorf("GraphError.Unwrap() with nil Err = %v, want nil", got)
	}
}

func TestNew(t *testing.T) {
	underlyingErr := errors.New("no overlap")
	err := New(CategoryResolve, underlyingErr, "Span dropped")

	if err.Err != underlyingErr {
		t.Errorf("New().Err = %v, want %v", err.Err, underlyingErr)
	}
	if err.Category != CategoryResolve {
		t.Errorf("New().Category = %v, want %v", err.Category, CategoryResolve)
	}
	if err.UserMessage != "Span dropped" {
		t.Errorf("New().UserMessage = %q, want %q", err.UserMessage, "Span dropped")
	}
	if err.Context == nil || len(err.Context) != 0 {
		t.Errorf("New().Context should be an empty map, got %v", err.Context)
	}
	if time.Since(err.Timestamp) > time.Second {
		t.Errorf("New().Timestamp is not recent: %v", err.Timestamp)
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryEncoding, "Bad line", "line %d: expected %d columns", 7, 4)

	if err.Category != CategoryEncoding {
		t.Errorf("Newf().Category = %v, want %v", err.Category, CategoryEncoding)
	}
	if err.Err == nil {
		t.Fatal("Newf().Err should not be nil")
	}
	if want := "line 7: expected 4 columns"; err.Err.Error() != want {
		t.Errorf("Newf().Err.Error() = %q, want %q", err.Err.Error(), want)
	}
}

func TestFromError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantCat Category
		wantSub string
	}{
		{"out of range", aerrors.NewOutOfRangef("sentence 9"), CategoryRange, ""},
		{"no overlap", aerrors.Wrap(aerrors.ErrNoOverlap, "0_1_1"), CategoryResolve, SubcategoryResolveNoOverlap},
		{"malformed", aerrors.NewMalformedf("x_y"), CategoryEncoding, ""},
		{"conflict", aerrors.Wrap(aerrors.ErrDuplicateNodeConflict, "0_1_1"), CategoryConflict, ""},
		{"other", errors.New("boom"), CategoryInternal, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromError(tt.err, "")
			if got.Category != tt.wantCat {
				t.Errorf("FromError().Category = %v, want %v", got.Category, tt.wantCat)
			}
			if got.Subcategory != tt.wantSub {
				t.Errorf("FromError().Subcategory = %q, want %q", got.Subcategory, tt.wantSub)
			}
			if !errors.Is(got, tt.err) {
				t.Error("FromError() result should wrap the original error")
			}
		})
	}
}

func TestGraphError_MethodChaining(t *testing.T) {
	err := New(CategoryResolve, errors.New("missing child"), "Edge skipped").
		WithSubcategory(SubcategoryResolveMissingEndpoint).
		WithContext("line", 3).
		WithContextMap(map[string]interface{}{
			"child":  "0_1_1",
			"parent": "ROOT",
		})

	if err.Subcategory != SubcategoryResolveMissingEndpoint {
		t.Errorf("Chained Subcategory = %q, want %q", err.Subcategory, SubcategoryResolveMissingEndpoint)
	}

	expected := map[string]interface{}{"line": 3, "child": "0_1_1", "parent": "ROOT"}
	if len(err.Context) != len(expected) {
		t.Errorf("Chained Context has %d items, want %d", len(err.Context), len(expected))
	}
	for k, v := range expected {
		if err.Context[k] != v {
			t.Errorf("Chained Context[%q] = %v, want %v", k, err.Context[k], v)
		}
	}
}

func TestGraphError_IsCategory(t *testing.T) {
	err := New(CategoryConflict, nil, "").WithSubcategory(SubcategoryConflictVariant)

	if !err.IsCategory(CategoryConflict) {
		t.Error("IsCategory(CategoryConflict) should return true")
	}
	if err.IsCategory(CategoryRange) {
		t.Error("IsCategory(CategoryRange) should return false")
	}
	if !err.IsSubcategory(SubcategoryConflictVariant) {
		t.Error("IsSubcategory(SubcategoryConflictVariant) should return true")
	}
	if err.IsSubcategory(SubcategoryConflictDuplicate) {
		t.Error("IsSubcategory(SubcategoryConflictDuplicate) should return false")
	}
}
