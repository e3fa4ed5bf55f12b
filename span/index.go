package span

import (
	"sort"

	"github.com/teranos/annograph/errors"
)

// OffsetIndex maps offsets in one coordinate system to the tokens of one
// sentence. Token intervals are ordered and non-overlapping, so both sides of
// a lookup are binary searches.
type OffsetIndex struct {
	starts []int
	ends   []int
}

// NewOffsetIndex builds an index over the token intervals of one sentence, in
// token order. Fails with ErrOutOfRange when there are no tokens.
func NewOffsetIndex(tokens []Interval) (*OffsetIndex, error) {
	if len(tokens) == 0 {
		return nil, errors.NewOutOfRangef("offset index over a sentence with zero tokens")
	}
	x := &OffsetIndex{
		starts: make([]int, len(tokens)),
		ends:   make([]int, len(tokens)),
	}
	for i, tok := range tokens {
		if !tok.Valid() {
			return nil, errors.NewInvalidRequestError("token %d has inverted interval [%d,%d]", i, tok.Start, tok.End)
		}
		if i > 0 && tok.Start <= x.ends[i-1] {
			return nil, errors.NewInvalidRequestError("token %d overlaps token %d", i, i-1)
		}
		x.starts[i] = tok.Start
		x.ends[i] = tok.End
	}
	return x, nil
}

// Len returns the number of indexed tokens.
func (x *OffsetIndex) Len() int {
	return len(x.starts)
}

// Bounds returns the sentence range: first token start, last token end.
func (x *OffsetIndex) Bounds() (lo, hi int) {
	return x.starts[0], x.ends[len(x.ends)-1]
}

// Token returns the interval of token i.
func (x *OffsetIndex) Token(i int) Interval {
	return Interval{Start: x.starts[i], End: x.ends[i]}
}

// NearestStart resolves the start side of a span: the token with the smallest
// non-negative distance offset - token.start. ok is false when every token
// starts after offset.
func (x *OffsetIndex) NearestStart(offset int) (int, bool) {
	i := sort.Search(len(x.starts), func(i int) bool { return x.starts[i] > offset }) - 1
	if i < 0 {
		return 0, false
	}
	return i, true
}

// NearestEnd resolves the end side of a span: the token with the smallest
// non-negative distance token.end - offset. ok is false when every token ends
// before offset.
func (x *OffsetIndex) NearestEnd(offset int) (int, bool) {
	i := sort.Search(len(x.ends), func(i int) bool { return x.ends[i] >= offset })
	if i == len(x.ends) {
		return 0, false
	}
	return i, true
}

// Resolve resolves both sides of q to a token pair. The sides are independent
// and may land on different tokens; ok is false if either side is unresolved
// or the pair is inverted.
func (x *OffsetIndex) Resolve(q Query) (start, end int, ok bool) {
	start, okStart := x.NearestStart(q.Start)
	end, okEnd := x.NearestEnd(q.End)
	if !okStart || !okEnd || end < start {
		return 0, 0, false
	}
	return start, end, true
}
