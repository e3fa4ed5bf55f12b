package document

import (
	"strings"

	"github.com/teranos/annograph/errors"
	"github.com/teranos/annograph/span"
)

// SynID indexes Sentence.Syntax.
type SynID int

// NoSyn marks an absent syntax node.
const NoSyn SynID = -1

// Token is a leaf span. Immutable once its sentence is added.
type Token struct {
	Index     int
	Text      string
	StartChar int
	EndChar   int
	StartEDT  int
	EndEDT    int
	HasEDT    bool
}

// Span returns the token interval in the given coordinate system.
func (t Token) Span(coord span.Coord) (span.Interval, bool) {
	switch coord {
	case span.CoordChar:
		return span.Interval{Start: t.StartChar, End: t.EndChar}, true
	case span.CoordEDT:
		if !t.HasEDT {
			return span.Interval{}, false
		}
		return span.Interval{Start: t.StartEDT, End: t.EndEDT}, true
	case span.CoordToken:
		return span.Interval{Start: t.Index, End: t.Index}, true
	default:
		return span.Interval{}, false
	}
}

// SynNode covers the inclusive token range [StartToken, EndToken].
type SynNode struct {
	ID         SynID
	Tag        string
	StartToken int
	EndToken   int
	Parent     SynID
	Children   []SynID
}

// IsLeaf reports whether the node has no children.
func (n SynNode) IsLeaf() bool {
	return len(n.Children) == 0
}

// Sentence is an ordered run of tokens with at most one syntax tree.
type Sentence struct {
	Index  int
	Tokens []Token
	Syntax []SynNode
	Root   SynID

	// Nodes lists the annotation nodes anchored in this sentence, in
	// creation order.
	Nodes []NodeID
}

// TokenSpan returns the interval covered by tokens [start, end] in coord.
func (s *Sentence) TokenSpan(start, end int, coord span.Coord) (span.Interval, bool) {
	if start < 0 || end >= len(s.Tokens) || end < start {
		return span.Interval{}, false
	}
	first, ok := s.Tokens[start].Span(coord)
	if !ok {
		return span.Interval{}, false
	}
	last, ok := s.Tokens[end].Span(coord)
	if !ok {
		return span.Interval{}, false
	}
	return span.Interval{Start: first.Start, End: last.End}, true
}

// TokenIntervals returns every token's interval in coord. ok is false if any
// token lacks that coordinate system.
func (s *Sentence) TokenIntervals(coord span.Coord) ([]span.Interval, bool) {
	out := make([]span.Interval, len(s.Tokens))
	for i, tok := range s.Tokens {
		iv, ok := tok.Span(coord)
		if !ok {
			return nil, false
		}
		out[i] = iv
	}
	return out, true
}

// Text joins the text of tokens [start, end] with single spaces.
func (s *Sentence) Text(start, end int) string {
	if start < 0 || end >= len(s.Tokens) || end < start {
		return ""
	}
	parts := make([]string, 0, end-start+1)
	for _, tok := range s.Tokens[start : end+1] {
		parts = append(parts, tok.Text)
	}
	return strings.Join(parts, " ")
}

// HasSyntax reports whether a syntax tree is attached.
func (s *Sentence) HasSyntax() bool {
	return s.Root != NoSyn
}

// AddSynNode attaches a syntax node under parent (NoSyn for the root).
// Children must be added left to right; each child range must sit inside
// its parent and after its previous sibling.
func (s *Sentence) AddSynNode(parent SynID, tag string, start, end int) (SynID, error) {
	if start < 0 || end >= len(s.Tokens) || end < start {
		return NoSyn, errors.NewOutOfRangef("sentence %d: syntax node %s [%d,%d] outside [0, %d)", s.Index, tag, start, end, len(s.Tokens))
	}

	id := SynID(len(s.Syntax))
	if parent == NoSyn {
		if s.Root != NoSyn {
			return NoSyn, errors.NewInvalidRequestError("sentence %d already has a syntax root", s.Index)
		}
		s.Root = id
	} else {
		if parent < 0 || int(parent) >= len(s.Syntax) {
			return NoSyn, errors.NewNotFoundError("sentence %d: syntax parent %d", s.Index, parent)
		}
		p := &s.Syntax[parent]
		if start < p.StartToken || end > p.EndToken {
			return NoSyn, errors.NewInvalidRequestError("sentence %d: child [%d,%d] outside parent %s [%d,%d]", s.Index, start, end, p.Tag, p.StartToken, p.EndToken)
		}
		if n := len(p.Children); n > 0 {
			prev := s.Syntax[p.Children[n-1]]
			if start <= prev.EndToken {
				return NoSyn, errors.NewInvalidRequestError("sentence %d: child [%d,%d] overlaps sibling [%d,%d]", s.Index, start, end, prev.StartToken, prev.EndToken)
			}
		}
		p.Children = append(p.Children, id)
	}

	s.Syntax = append(s.Syntax, SynNode{
		ID:         id,
		Tag:        tag,
		StartToken: start,
		EndToken:   end,
		Parent:     parent,
	})
	return id, nil
}

// SynSpan returns a syntax node's interval in coord.
func (s *Sentence) SynSpan(id SynID, coord span.Coord) (span.Interval, bool) {
	if id < 0 || int(id) >= len(s.Syntax) {
		return span.Interval{}, false
	}
	n := s.Syntax[id]
	return s.TokenSpan(n.StartToken, n.EndToken, coord)
}

// Bounds returns the sentence range in coord.
func (s *Sentence) Bounds(coord span.Coord) (span.Interval, bool) {
	if len(s.Tokens) == 0 {
		return span.Interval{}, false
	}
	return s.TokenSpan(0, len(s.Tokens)-1, coord)
}
