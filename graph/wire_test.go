package graph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/annograph/document"
	"github.com/teranos/annograph/errors"
	grapherr "github.com/teranos/annograph/graph/error"
)

func TestParseRef(t *testing.T) {
	tests := []struct {
		in   string
		want Ref
	}{
		{"0_1_1", SpanRef(0, 1, 1)},
		{" 12_3_7 ", SpanRef(12, 3, 7)},
		{"ROOT", SentinelRef(document.Root)},
		{"AUTHOR", SentinelRef(document.Author)},
		{"NULL_CONCEIVER", SentinelRef(document.NullConceiver)},
		{"DCT", SentinelRef(document.DCT)},
		{"-1_-1_-1", SentinelRef(document.Root)},
		{"-3_-3_-3", SentinelRef(document.Author)},
		{"-5_-5_-5", SentinelRef(document.NullConceiver)},
		{"-7_-7_-7", SentinelRef(document.DCT)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRef(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			back, err := ParseRef(FormatRef(got))
			require.NoError(t, err)
			assert.Equal(t, got, back)
		})
	}
}

func TestParseRefMalformed(t *testing.T) {
	for _, in := range []string{"", "root", "0_1", "0_1_2_3", "a_1_2", "0_3_1", "-2_-2_-2", "-1_-1_0", "0_-1_2"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseRef(in)
			assert.True(t, errors.Is(err, errors.ErrMalformedSpanEncoding), "%q: %v", in, err)
		})
	}
}

func TestFormatRef(t *testing.T) {
	assert.Equal(t, "3_0_4", FormatRef(SpanRef(3, 0, 4)))
	assert.Equal(t, "NULL_CONCEIVER", SentinelRef(document.NullConceiver).String())
}

func TestParseEdgeList(t *testing.T) {
	in := strings.Join([]string{
		"# modal dependencies",
		"0_1_1\tEvent\tROOT\tdep",
		"",
		"0_3_3\tEvent\t0_1_1\tpos\t0.75",
		"0_x_1\tEvent\tROOT\tdep",
		"0_1_1\tEvent\tROOT",
		"0_2_2\tEvent\t-3_-3_-3\tpos\thigh",
		"0_0_0\tConceiver\t-3_-3_-3\tpos\r",
	}, "\n")

	edges, failures, err := ParseEdgeList(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, edges, 3)

	assert.Equal(t, EdgeSpec{Child: SpanRef(0, 1, 1), ChildLabel: "Event", Parent: SentinelRef(document.Root), Relation: "dep", Line: 2}, edges[0])
	require.NotNil(t, edges[1].Confidence)
	assert.Equal(t, 0.75, *edges[1].Confidence)
	assert.Equal(t, 4, edges[1].Line)
	assert.Equal(t, SentinelRef(document.Author), edges[2].Parent)
	assert.Equal(t, "pos", edges[2].Relation)

	require.Len(t, failures, 3)
	wantSubs := []string{grapherr.SubcategoryEncodingRef, grapherr.SubcategoryEncodingLine, grapherr.SubcategoryEncodingConfidence}
	wantLines := []int{5, 6, 7}
	for i, f := range failures {
		assert.True(t, f.IsCategory(grapherr.CategoryEncoding))
		assert.Equal(t, wantSubs[i], f.Subcategory)
		assert.Equal(t, wantLines[i], f.Context["line"])
		assert.True(t, errors.Is(f, errors.ErrMalformedSpanEncoding))
	}
}
