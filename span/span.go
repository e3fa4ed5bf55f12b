// Package span aligns spans reported in different offset coordinate systems.
//
// Every span is a closed integer interval [Start, End] in exactly one
// coordinate system. There is no global coordinate system: a Query always says
// which one it is in, and candidates are asked for their interval in that same
// system.
package span

import (
	"fmt"

	"github.com/teranos/annograph/internal/util"
)

// Coord identifies an offset coordinate system.
type Coord int

const (
	// CoordChar is raw character offsets into the document text.
	CoordChar Coord = iota
	// CoordEDT is the alternate character offset system some upstream
	// producers report in. Treated as opaque, never converted to CoordChar.
	CoordEDT
	// CoordToken is token indices within one sentence.
	CoordToken
)

// String returns the lowercase name of the coordinate system
func (c Coord) String() string {
	switch c {
	case CoordChar:
		return "char"
	case CoordEDT:
		return "edt"
	case CoordToken:
		return "token"
	default:
		return fmt.Sprintf("coord(%d)", int(c))
	}
}

// Interval is a closed integer interval.
type Interval struct {
	Start int
	End   int
}

// Valid reports whether Start <= End.
func (iv Interval) Valid() bool {
	return iv.Start <= iv.End
}

// Query is the only unit passed into the matchers.
type Query struct {
	Coord Coord
	Start int
	End   int
}

// Interval returns the query's interval.
func (q Query) Interval() Interval {
	return Interval{Start: q.Start, End: q.End}
}

// String renders the query as coord[start,end]
func (q Query) String() string {
	return fmt.Sprintf("%s[%d,%d]", q.Coord, q.Start, q.End)
}

// IoU is intersection-over-union of two closed integer intervals:
// (min(a1,b1) - max(a0,b0) + 1) / (max(a1,b1) - min(a0,b0) + 1) when they
// intersect, else 0. Inverted intervals never overlap anything.
func IoU(a0, a1, b0, b1 int) float64 {
	if a1 < a0 || b1 < b0 {
		return 0
	}
	lo := max(a0, b0)
	hi := min(a1, b1)
	if hi < lo {
		return 0
	}
	return float64(hi-lo+1) / float64(max(a1, b1)-min(a0, b0)+1)
}

// Clamp restricts q to [lo, hi]. ok is false when q lies entirely outside.
func Clamp(q Query, lo, hi int) (Query, bool) {
	if q.End < lo || q.Start > hi || q.End < q.Start {
		return q, false
	}
	q.Start = util.ClampInt(q.Start, lo, hi)
	q.End = util.ClampInt(q.End, lo, hi)
	return q, true
}
