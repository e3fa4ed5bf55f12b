package span

import (
	"sort"
	"strings"
)

// SpanFunc extracts a candidate's interval in the requested coordinate
// system. ok is false when the candidate has no span in that system.
type SpanFunc[T any] func(candidate T, coord Coord) (Interval, bool)

// Result holds every candidate that reached the best observed ratio.
// Candidates are never reduced to one internally; First applies the
// deterministic tie-break.
type Result[T any] struct {
	Ratio      float64
	Candidates []T
}

// Found reports whether any candidate cleared the threshold.
func (r Result[T]) Found() bool {
	return len(r.Candidates) > 0
}

// First returns the tie-break winner: lowest start, then lowest end, then
// earliest in the candidate pool. Candidates are already stored in that order.
func (r Result[T]) First() (T, bool) {
	if len(r.Candidates) == 0 {
		var zero T
		return zero, false
	}
	return r.Candidates[0], true
}

type scored[T any] struct {
	candidate T
	span      Interval
	order     int
}

// BestOverlap finds all candidates with the maximal IoU against q, provided
// that maximum is >= minOverlap. A zero ratio never counts as a match, even
// with minOverlap 0. Pure function.
func BestOverlap[T any](q Query, candidates []T, spanOf SpanFunc[T], minOverlap float64) Result[T] {
	best := 0.0
	var winners []scored[T]

	for i, c := range candidates {
		iv, ok := spanOf(c, q.Coord)
		if !ok {
			continue
		}
		ratio := IoU(q.Start, q.End, iv.Start, iv.End)
		if ratio <= 0 {
			continue
		}
		switch {
		case ratio > best:
			best = ratio
			winners = append(winners[:0], scored[T]{candidate: c, span: iv, order: i})
		case ratio == best:
			winners = append(winners, scored[T]{candidate: c, span: iv, order: i})
		}
	}

	if len(winners) == 0 || best < minOverlap {
		return Result[T]{}
	}

	sort.SliceStable(winners, func(i, j int) bool {
		a, b := winners[i], winners[j]
		if a.span.Start != b.span.Start {
			return a.span.Start < b.span.Start
		}
		if a.span.End != b.span.End {
			return a.span.End < b.span.End
		}
		return a.order < b.order
	})

	res := Result[T]{
		Ratio:      best,
		Candidates: make([]T, len(winners)),
	}
	for i, w := range winners {
		res.Candidates[i] = w.candidate
	}
	return res
}

// TextOverlap is len(shorter)/len(longer) when one string contains the
// other, else 0. Lengths are in bytes; empty strings never overlap.
func TextOverlap(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	shorter, longer := a, b
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if !strings.Contains(longer, shorter) {
		return 0
	}
	return float64(len(shorter)) / float64(len(longer))
}

// BestTextOverlap is the offset-free fallback: candidates are compared by
// text containment. Ties keep candidate pool order. Pure function.
func BestTextOverlap[T any](text string, candidates []T, textOf func(T) string, minOverlap float64) Result[T] {
	best := 0.0
	var winners []T

	for _, c := range candidates {
		ratio := TextOverlap(text, textOf(c))
		if ratio <= 0 {
			continue
		}
		switch {
		case ratio > best:
			best = ratio
			winners = append(winners[:0], c)
		case ratio == best:
			winners = append(winners, c)
		}
	}

	if len(winners) == 0 || best < minOverlap {
		return Result[T]{}
	}
	return Result[T]{Ratio: best, Candidates: winners}
}
