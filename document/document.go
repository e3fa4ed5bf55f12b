// Package document is the in-memory annotation graph of one document.
//
// Everything lives in arenas owned by the Document and is addressed by small
// integer ids. Sentences own their tokens and syntax nodes; the Document owns
// annotation nodes, edges and the cross-sentence structures (entities,
// relation mentions, propositions). References between them are plain ids and
// carry no ownership. Nodes and edges are append-only.
package document

import (
	"github.com/teranos/annograph/errors"
)

// NodeID indexes Document.Nodes.
type NodeID int

// EdgeID indexes Document.Edges.
type EdgeID int

// EntityID indexes Document.Entities.
type EntityID int

// RelMentionID indexes Document.RelMentions.
type RelMentionID int

// ActorMentionID indexes Document.ActorMentions.
type ActorMentionID int

// PropositionID indexes Document.Propositions.
type PropositionID int

// NoNode marks an absent node reference.
const NoNode NodeID = -1

// Document is one document's annotation graph.
type Document struct {
	ID            string
	Sentences     []*Sentence
	Nodes         []Node
	Edges         []Edge
	Entities      []Entity
	RelMentions   []RelMention
	ActorMentions []ActorMention
	Propositions  []Proposition

	// Roots holds the designated root per graph name ("modal", "temporal").
	Roots map[string]Endpoint

	nodeKeys map[NodeKey]NodeID
}

// New creates an empty document.
func New(id string) *Document {
	return &Document{
		ID:       id,
		Roots:    make(map[string]Endpoint),
		nodeKeys: make(map[NodeKey]NodeID),
	}
}

// AddSentence appends a sentence built from tokens. Token indices are
// assigned in order; character intervals must be ordered and non-overlapping.
func (d *Document) AddSentence(tokens []Token) (*Sentence, error) {
	idx := len(d.Sentences)
	for i := range tokens {
		tok := &tokens[i]
		tok.Index = i
		if tok.EndChar < tok.StartChar {
			return nil, errors.NewInvalidRequestError("sentence %d token %d: inverted char span [%d,%d]", idx, i, tok.StartChar, tok.EndChar)
		}
		if tok.HasEDT && tok.EndEDT < tok.StartEDT {
			return nil, errors.NewInvalidRequestError("sentence %d token %d: inverted edt span [%d,%d]", idx, i, tok.StartEDT, tok.EndEDT)
		}
		if i > 0 && tok.StartChar <= tokens[i-1].EndChar {
			return nil, errors.NewInvalidRequestError("sentence %d token %d overlaps token %d", idx, i, i-1)
		}
	}

	s := &Sentence{
		Index:  idx,
		Tokens: tokens,
		Root:   NoSyn,
	}
	d.Sentences = append(d.Sentences, s)
	return s, nil
}

// Sentence returns sentence i, or ErrOutOfRange.
func (d *Document) Sentence(i int) (*Sentence, error) {
	if i < 0 || i >= len(d.Sentences) {
		return nil, errors.NewOutOfRangef("sentence index %d outside [0, %d)", i, len(d.Sentences))
	}
	return d.Sentences[i], nil
}

// Node returns a pointer into the node arena. The pointer is invalidated by
// the next AddNode.
func (d *Document) Node(id NodeID) (*Node, error) {
	if id < 0 || int(id) >= len(d.Nodes) {
		return nil, errors.NewNotFoundError("node %d", id)
	}
	return &d.Nodes[id], nil
}

// Stats summarizes arena sizes.
type Stats struct {
	Sentences     int `json:"sentences" yaml:"sentences"`
	Tokens        int `json:"tokens" yaml:"tokens"`
	Nodes         int `json:"nodes" yaml:"nodes"`
	Edges         int `json:"edges" yaml:"edges"`
	Entities      int `json:"entities" yaml:"entities"`
	RelMentions   int `json:"rel_mentions" yaml:"rel_mentions"`
	ActorMentions int `json:"actor_mentions" yaml:"actor_mentions"`
	Propositions  int `json:"propositions" yaml:"propositions"`
}

// Stats returns arena sizes.
func (d *Document) Stats() Stats {
	st := Stats{
		Sentences:     len(d.Sentences),
		Nodes:         len(d.Nodes),
		Edges:         len(d.Edges),
		Entities:      len(d.Entities),
		RelMentions:   len(d.RelMentions),
		ActorMentions: len(d.ActorMentions),
		Propositions:  len(d.Propositions),
	}
	for _, s := range d.Sentences {
		st.Tokens += len(s.Tokens)
	}
	return st
}
