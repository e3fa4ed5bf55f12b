package graph

import (
	"github.com/teranos/annograph/document"
	"github.com/teranos/annograph/errors"
	"github.com/teranos/annograph/logger"
	"github.com/teranos/annograph/span"
	"go.uber.org/zap"
)

// Resolution reports which tier produced a node.
type Resolution int

const (
	ResolvedNone Resolution = iota
	ResolvedExisting
	ResolvedSyntax
	ResolvedTokens
)

func (r Resolution) String() string {
	switch r {
	case ResolvedExisting:
		return "existing"
	case ResolvedSyntax:
		return "syntax"
	case ResolvedTokens:
		return "tokens"
	default:
		return "none"
	}
}

type indexKey struct {
	sentence int
	coord    span.Coord
}

// Builder resolves spans of one document into canonical annotation nodes.
// A Builder belongs to a single integration call; its offset indices are
// never shared across documents.
type Builder struct {
	doc     *document.Document
	logger  *zap.SugaredLogger
	indices map[indexKey]*span.OffsetIndex
}

// NewBuilder creates a builder over doc.
func NewBuilder(doc *document.Document, log *zap.SugaredLogger) *Builder {
	return &Builder{
		doc:     doc,
		logger:  logger.OrNop(log).Named("graph.builder"),
		indices: make(map[indexKey]*span.OffsetIndex),
	}
}

// Document returns the document being built.
func (b *Builder) Document() *document.Document {
	return b.doc
}

// GetOrCreate resolves q in the given sentence to a node of variant,
// creating it with label when needed. Tiers, first success wins:
//  1. an existing node of the same variant with exactly the query span
//  2. the best-overlapping syntax node at minOverlap
//  3. the token pair nearest to the query ends, if it overlaps the query
//
// Returns ErrNoOverlap when every tier fails and ErrOutOfRange when the
// sentence itself cannot be addressed.
func (b *Builder) GetOrCreate(sentence int, q span.Query, variant document.Variant, label string, minOverlap float64) (document.NodeID, Resolution, error) {
	s, err := b.doc.Sentence(sentence)
	if err != nil {
		return document.NoNode, ResolvedNone, err
	}
	if len(s.Tokens) == 0 {
		return document.NoNode, ResolvedNone, errors.NewOutOfRangef("sentence %d has zero tokens", sentence)
	}
	if q.Coord == span.CoordToken && (q.Start < 0 || q.End >= len(s.Tokens)) {
		return document.NoNode, ResolvedNone, errors.NewOutOfRangef("token span %s outside sentence %d of %d tokens", q, sentence, len(s.Tokens))
	}

	if id, ok := b.doc.FindNode(sentence, q, variant); ok {
		b.trace(sentence, q, variant, ResolvedExisting, 1.0)
		return id, ResolvedExisting, nil
	}

	if s.HasSyntax() {
		res := span.BestOverlap(q, synIDs(s), func(id document.SynID, coord span.Coord) (span.Interval, bool) {
			return s.SynSpan(id, coord)
		}, minOverlap)
		if winner, ok := res.First(); ok {
			syn := s.Syntax[winner]
			id, r, err := b.create(document.NodeSpec{
				Variant:  variant,
				Label:    label,
				Sentence: sentence,
				Start:    syn.StartToken,
				End:      syn.EndToken,
				Syn:      winner,
			}, ResolvedSyntax)
			if err == nil {
				b.trace(sentence, q, variant, r, res.Ratio)
			}
			return id, r, err
		}
	}

	idx, err := b.index(s, q.Coord)
	if err != nil {
		return document.NoNode, ResolvedNone, err
	}
	if idx != nil {
		lo, hi := idx.Bounds()
		if clamped, ok := span.Clamp(q, lo, hi); ok {
			if start, end, ok := idx.Resolve(clamped); ok {
				iv, _ := s.TokenSpan(start, end, q.Coord)
				if ratio := span.IoU(q.Start, q.End, iv.Start, iv.End); ratio > 0 {
					id, r, err := b.create(document.NodeSpec{
						Variant:  variant,
						Label:    label,
						Sentence: sentence,
						Start:    start,
						End:      end,
						Syn:      document.NoSyn,
					}, ResolvedTokens)
					if err == nil {
						b.trace(sentence, q, variant, r, ratio)
					}
					return id, r, err
				}
			}
		}
	}

	return document.NoNode, ResolvedNone, errors.Wrapf(errors.ErrNoOverlap, "sentence %d span %s as %s", sentence, q, variant)
}

// create registers a node unless its key is already taken, in which case the
// existing node is reused.
func (b *Builder) create(spec document.NodeSpec, tier Resolution) (document.NodeID, Resolution, error) {
	key := document.NodeKey{Sentence: spec.Sentence, Start: spec.Start, End: spec.End, Variant: spec.Variant}
	if id, ok := b.doc.LookupNode(key); ok {
		return id, ResolvedExisting, nil
	}
	id, err := b.doc.AddNode(spec)
	if err != nil {
		return document.NoNode, ResolvedNone, err
	}
	return id, tier, nil
}

// index returns the offset index of a sentence in coord, building it on
// first use. A nil index means the sentence has no spans in coord.
func (b *Builder) index(s *document.Sentence, coord span.Coord) (*span.OffsetIndex, error) {
	key := indexKey{sentence: s.Index, coord: coord}
	if idx, ok := b.indices[key]; ok {
		return idx, nil
	}
	intervals, ok := s.TokenIntervals(coord)
	if !ok {
		b.indices[key] = nil
		return nil, nil
	}
	idx, err := span.NewOffsetIndex(intervals)
	if err != nil {
		return nil, errors.Wrapf(err, "sentence %d %s index", s.Index, coord)
	}
	b.indices[key] = idx
	return idx, nil
}

func (b *Builder) trace(sentence int, q span.Query, variant document.Variant, r Resolution, ratio float64) {
	if !logger.ShouldOutput(logger.Verbosity, logger.OutputResolution) {
		return
	}
	b.logger.Debugw("Resolved span",
		logger.FieldDocument, b.doc.ID,
		logger.FieldSentence, sentence,
		logger.FieldSpan, q.String(),
		logger.FieldVariant, variant.String(),
		logger.FieldResolution, r.String(),
		logger.FieldRatio, ratio,
	)
}

func synIDs(s *document.Sentence) []document.SynID {
	ids := make([]document.SynID, len(s.Syntax))
	for i := range s.Syntax {
		ids[i] = document.SynID(i)
	}
	return ids
}
