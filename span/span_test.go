package span

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/annograph/errors"
)

func TestIoU(t *testing.T) {
	tests := []struct {
		name           string
		a0, a1, b0, b1 int
		want           float64
	}{
		{"identical", 3, 7, 3, 7, 1.0},
		{"single point identical", 4, 4, 4, 4, 1.0},
		{"disjoint", 0, 3, 5, 8, 0},
		{"adjacent closed intervals", 0, 3, 4, 8, 0},
		{"touching endpoint", 0, 4, 4, 8, 1.0 / 9.0},
		{"contained", 2, 3, 0, 9, 2.0 / 10.0},
		{"partial", 0, 5, 3, 8, 3.0 / 9.0},
		{"inverted a", 5, 3, 0, 9, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, IoU(tt.a0, tt.a1, tt.b0, tt.b1), 1e-9)
			// symmetry
			assert.InDelta(t, tt.want, IoU(tt.b0, tt.b1, tt.a0, tt.a1), 1e-9)
		})
	}
}

func TestIoUSymmetryGrid(t *testing.T) {
	for a0 := 0; a0 < 6; a0++ {
		for a1 := a0; a1 < 6; a1++ {
			assert.Equal(t, 1.0, IoU(a0, a1, a0, a1))
			for b0 := 0; b0 < 6; b0++ {
				for b1 := b0; b1 < 6; b1++ {
					assert.Equal(t, IoU(a0, a1, b0, b1), IoU(b0, b1, a0, a1))
					if a1 < b0 || b1 < a0 {
						assert.Zero(t, IoU(a0, a1, b0, b1))
					}
				}
			}
		}
	}
}

func TestClamp(t *testing.T) {
	q, ok := Clamp(Query{Coord: CoordChar, Start: -4, End: 30}, 0, 18)
	require.True(t, ok)
	assert.Equal(t, Query{Coord: CoordChar, Start: 0, End: 18}, q)

	_, ok = Clamp(Query{Coord: CoordChar, Start: 20, End: 25}, 0, 18)
	assert.False(t, ok)

	_, ok = Clamp(Query{Coord: CoordChar, Start: 5, End: 2}, 0, 18)
	assert.False(t, ok)
}

func TestCoordString(t *testing.T) {
	assert.Equal(t, "char", CoordChar.String())
	assert.Equal(t, "edt", CoordEDT.String())
	assert.Equal(t, "token", CoordToken.String())
	assert.Equal(t, "coord(9)", Coord(9).String())
}

// "John flew to Paris ." as character intervals
var johnFlew = []Interval{{0, 3}, {5, 8}, {10, 11}, {13, 17}, {18, 18}}

func TestOffsetIndex(t *testing.T) {
	x, err := NewOffsetIndex(johnFlew)
	require.NoError(t, err)
	assert.Equal(t, 5, x.Len())

	lo, hi := x.Bounds()
	assert.Equal(t, 0, lo)
	assert.Equal(t, 18, hi)

	tests := []struct {
		name      string
		offset    int
		wantStart int
		okStart   bool
		wantEnd   int
		okEnd     bool
	}{
		{"token start", 5, 1, true, 1, true},
		{"inside token", 6, 1, true, 1, true},
		{"whitespace gap", 4, 0, true, 1, true},
		{"before first token", -1, 0, false, 0, true},
		{"after last token", 19, 4, true, 0, false},
		{"last token", 18, 4, true, 4, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ok := x.NearestStart(tt.offset)
			assert.Equal(t, tt.okStart, ok)
			if ok {
				assert.Equal(t, tt.wantStart, s)
			}
			e, ok := x.NearestEnd(tt.offset)
			assert.Equal(t, tt.okEnd, ok)
			if ok {
				assert.Equal(t, tt.wantEnd, e)
			}
		})
	}
}

func TestOffsetIndexResolve(t *testing.T) {
	x, err := NewOffsetIndex(johnFlew)
	require.NoError(t, err)

	s, e, ok := x.Resolve(Query{Coord: CoordChar, Start: 5, End: 17})
	require.True(t, ok)
	assert.Equal(t, 1, s)
	assert.Equal(t, 3, e)

	_, _, ok = x.Resolve(Query{Coord: CoordChar, Start: 19, End: 25})
	assert.False(t, ok)
}

func TestOffsetIndexErrors(t *testing.T) {
	_, err := NewOffsetIndex(nil)
	assert.True(t, errors.Is(err, errors.ErrOutOfRange))

	_, err = NewOffsetIndex([]Interval{{0, 3}, {2, 5}})
	assert.True(t, errors.IsInvalidRequestError(err))

	_, err = NewOffsetIndex([]Interval{{4, 3}})
	assert.True(t, errors.IsInvalidRequestError(err))
}

type cand struct {
	name  string
	iv    Interval
	noEDT bool
}

func candSpan(c cand, coord Coord) (Interval, bool) {
	if coord == CoordEDT && c.noEDT {
		return Interval{}, false
	}
	return c.iv, true
}

func TestBestOverlap(t *testing.T) {
	pool := []cand{
		{name: "np-paris", iv: Interval{13, 17}},
		{name: "pp", iv: Interval{10, 17}},
		{name: "vp", iv: Interval{5, 17}},
	}

	res := BestOverlap(Query{Coord: CoordChar, Start: 13, End: 17}, pool, candSpan, 0.99)
	require.True(t, res.Found())
	assert.Equal(t, 1.0, res.Ratio)
	first, ok := res.First()
	require.True(t, ok)
	assert.Equal(t, "np-paris", first.name)

	res = BestOverlap(Query{Coord: CoordChar, Start: 12, End: 17}, pool, candSpan, 0.99)
	assert.False(t, res.Found())
	_, ok = res.First()
	assert.False(t, ok)

	res = BestOverlap(Query{Coord: CoordChar, Start: 12, End: 17}, pool, candSpan, 0.5)
	require.True(t, res.Found())
	assert.InDelta(t, 5.0/6.0, res.Ratio, 1e-9)
	first, _ = res.First()
	assert.Equal(t, "np-paris", first.name)
}

func TestBestOverlapKeepsTiesInDeterministicOrder(t *testing.T) {
	// [2,5] and [0,3] both overlap [1,4] with IoU 3/5.
	pool := []cand{
		{name: "right", iv: Interval{2, 5}},
		{name: "left", iv: Interval{0, 3}},
		{name: "left-dup", iv: Interval{0, 3}},
	}
	res := BestOverlap(Query{Coord: CoordChar, Start: 1, End: 4}, pool, candSpan, 0.1)
	require.Len(t, res.Candidates, 3)
	assert.Equal(t, "left", res.Candidates[0].name)
	assert.Equal(t, "left-dup", res.Candidates[1].name)
	assert.Equal(t, "right", res.Candidates[2].name)
}

func TestBestOverlapZeroNeverMatches(t *testing.T) {
	pool := []cand{{name: "far", iv: Interval{40, 50}}}
	res := BestOverlap(Query{Coord: CoordChar, Start: 0, End: 3}, pool, candSpan, 0)
	assert.False(t, res.Found())
}

func TestBestOverlapSkipsCandidatesWithoutCoordinate(t *testing.T) {
	pool := []cand{
		{name: "no-edt", iv: Interval{0, 3}, noEDT: true},
		{name: "edt", iv: Interval{0, 4}},
	}
	res := BestOverlap(Query{Coord: CoordEDT, Start: 0, End: 3}, pool, candSpan, 0.5)
	first, ok := res.First()
	require.True(t, ok)
	assert.Equal(t, "edt", first.name)
}

func TestTextOverlap(t *testing.T) {
	assert.Equal(t, 1.0, TextOverlap("Paris", "Paris"))
	assert.InDelta(t, 5.0/13.0, TextOverlap("Paris", "Paris, France"), 1e-9)
	assert.Zero(t, TextOverlap("Paris", "London"))
	assert.Zero(t, TextOverlap("", "London"))
	assert.Equal(t, TextOverlap("to Paris", "Paris"), TextOverlap("Paris", "to Paris"))
}

func TestBestTextOverlap(t *testing.T) {
	pool := []string{"flew", "to Paris", "Paris", "Paris"}
	res := BestTextOverlap("Paris", pool, func(s string) string { return s }, 0.5)
	require.True(t, res.Found())
	assert.Equal(t, 1.0, res.Ratio)
	assert.Equal(t, []string{"Paris", "Paris"}, res.Candidates)

	res = BestTextOverlap("Pari", []string{"to Paris"}, func(s string) string { return s }, 0.9)
	assert.False(t, res.Found())
}
