package graph

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/teranos/annograph/document"
	"github.com/teranos/annograph/errors"
	grapherr "github.com/teranos/annograph/graph/error"
	"github.com/teranos/annograph/logger"
)

// Ref is an edge endpoint on the wire: a sentinel or a token span.
type Ref struct {
	Sentinel document.Sentinel
	Sentence int
	Start    int
	End      int
}

// SpanRef refers to tokens [start, end] of a sentence.
func SpanRef(sentence, start, end int) Ref {
	return Ref{Sentence: sentence, Start: start, End: end}
}

// SentinelRef refers to a sentinel pseudo-node.
func SentinelRef(s document.Sentinel) Ref {
	return Ref{Sentinel: s}
}

// IsSentinel reports whether the reference names a sentinel.
func (r Ref) IsSentinel() bool {
	return r.Sentinel != document.NoSentinel
}

func (r Ref) String() string {
	return FormatRef(r)
}

// Numeric sentinel encodings used by modal and temporal dependency producers.
var numericSentinels = map[int]document.Sentinel{
	-1: document.Root,
	-3: document.Author,
	-5: document.NullConceiver,
	-7: document.DCT,
}

// ParseRef parses "{sentence}_{start}_{end}" or a sentinel name. The numeric
// encodings -1_-1_-1, -3_-3_-3, -5_-5_-5 and -7_-7_-7 name ROOT, AUTHOR,
// NULL_CONCEIVER and DCT.
func ParseRef(s string) (Ref, error) {
	s = strings.TrimSpace(s)
	if sen, ok := document.ParseSentinel(s); ok {
		return SentinelRef(sen), nil
	}

	parts := strings.Split(s, "_")
	if len(parts) != 3 {
		return Ref{}, errors.NewMalformedf("span reference %q: want sentence_start_end", s)
	}
	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Ref{}, errors.NewMalformedf("span reference %q: %q is not an integer", s, p)
		}
		nums[i] = n
	}

	if nums[0] < 0 {
		if sen, ok := numericSentinels[nums[0]]; ok && nums[1] == nums[0] && nums[2] == nums[0] {
			return SentinelRef(sen), nil
		}
		return Ref{}, errors.NewMalformedf("span reference %q: negative index", s)
	}
	if nums[1] < 0 || nums[2] < nums[1] {
		return Ref{}, errors.NewMalformedf("span reference %q: invalid token range", s)
	}
	return SpanRef(nums[0], nums[1], nums[2]), nil
}

// FormatRef is the inverse of ParseRef. Sentinels are written by name.
func FormatRef(r Ref) string {
	if r.IsSentinel() {
		return string(r.Sentinel)
	}
	return fmt.Sprintf("%d_%d_%d", r.Sentence, r.Start, r.End)
}

// EdgeSpec is one externally produced edge.
type EdgeSpec struct {
	Child      Ref
	ChildLabel string
	Parent     Ref
	Relation   string
	Confidence *float64
	Line       int
}

// ParseEdgeList reads tab-separated edge lines:
//
//	child <TAB> child_label <TAB> parent <TAB> relation [<TAB> confidence]
//
// Blank lines and lines starting with '#' are skipped. Unparsable lines are
// returned as encoding failures; only read errors are fatal.
func ParseEdgeList(r io.Reader) ([]EdgeSpec, []*grapherr.GraphError, error) {
	var (
		edges    []EdgeSpec
		failures []*grapherr.GraphError
	)

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" || strings.HasPrefix(text, "#") {
			continue
		}

		spec, gerr := parseEdgeLine(text, line)
		if gerr != nil {
			failures = append(failures, gerr)
			continue
		}
		edges = append(edges, spec)
	}
	if err := scanner.Err(); err != nil {
		return edges, failures, errors.Wrapf(err, "failed to read edge list at line %d", line)
	}
	return edges, failures, nil
}

func parseEdgeLine(text string, line int) (EdgeSpec, *grapherr.GraphError) {
	cols := strings.Split(text, "\t")
	if len(cols) != 4 && len(cols) != 5 {
		return EdgeSpec{}, grapherr.FromError(
			errors.NewMalformedf("line %d: expected 4 or 5 tab-separated columns, got %d", line, len(cols)), "").
			WithSubcategory(grapherr.SubcategoryEncodingLine).
			WithContext(logger.FieldLine, line)
	}

	child, err := ParseRef(cols[0])
	if err != nil {
		return EdgeSpec{}, grapherr.FromError(err, "").
			WithSubcategory(grapherr.SubcategoryEncodingRef).
			WithContext(logger.FieldLine, line)
	}
	parent, err := ParseRef(cols[2])
	if err != nil {
		return EdgeSpec{}, grapherr.FromError(err, "").
			WithSubcategory(grapherr.SubcategoryEncodingRef).
			WithContext(logger.FieldLine, line)
	}

	spec := EdgeSpec{
		Child:      child,
		ChildLabel: strings.TrimSpace(cols[1]),
		Parent:     parent,
		Relation:   strings.TrimSpace(cols[3]),
		Line:       line,
	}
	if len(cols) == 5 && strings.TrimSpace(cols[4]) != "" {
		c, err := strconv.ParseFloat(strings.TrimSpace(cols[4]), 64)
		if err != nil {
			return EdgeSpec{}, grapherr.FromError(
				errors.NewMalformedf("line %d: confidence %q", line, cols[4]), "").
				WithSubcategory(grapherr.SubcategoryEncodingConfidence).
				WithContext(logger.FieldLine, line)
		}
		spec.Confidence = &c
	}
	return spec, nil
}
