package document

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/teranos/annograph/errors"
	"github.com/teranos/annograph/span"
)

// Variant tags the kind of an annotation node.
type Variant int

const (
	Mention Variant = iota
	EventMention
	ValueMention
	ConceiverMention
)

// Variants lists every variant in declaration order.
var Variants = []Variant{Mention, EventMention, ValueMention, ConceiverMention}

func (v Variant) String() string {
	switch v {
	case Mention:
		return "mention"
	case EventMention:
		return "event_mention"
	case ValueMention:
		return "value_mention"
	case ConceiverMention:
		return "conceiver_mention"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}

// ParseVariant accepts the String form or the CamelCase type name.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mention":
		return Mention, nil
	case "event_mention", "eventmention", "event":
		return EventMention, nil
	case "value_mention", "valuemention", "value":
		return ValueMention, nil
	case "conceiver_mention", "conceivermention", "conceiver":
		return ConceiverMention, nil
	default:
		return Mention, errors.NewInvalidRequestError("unknown node variant %q", s)
	}
}

// NodeKey is the identity of an annotation node within a document.
type NodeKey struct {
	Sentence int
	Start    int
	End      int
	Variant  Variant
}

func (k NodeKey) String() string {
	return fmt.Sprintf("%d_%d_%d/%s", k.Sentence, k.Start, k.End, k.Variant)
}

// Argument is a role-labeled argument of an EventMention.
type Argument struct {
	Role  string
	Value NodeID
}

// Node is an annotation node. Start and End are token indices within the
// owning sentence. HeadStart and HeadEnd are -1 when there is no head.
type Node struct {
	ID         NodeID
	UID        string
	Variant    Variant
	Label      string
	Sentence   int
	Start      int
	End        int
	HeadStart  int
	HeadEnd    int
	Syn        SynID
	Confidence *float64
	Args       []Argument
}

// Key returns the dedup key of the node.
func (n Node) Key() NodeKey {
	return NodeKey{Sentence: n.Sentence, Start: n.Start, End: n.End, Variant: n.Variant}
}

// HasHead reports whether a head sub-span is set.
func (n Node) HasHead() bool {
	return n.HeadStart >= 0 && n.HeadEnd >= n.HeadStart
}

// Anchored reports whether the node is anchored to a syntax node rather than
// raw tokens.
func (n Node) Anchored() bool {
	return n.Syn != NoSyn
}

var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/teranos/annograph/node"))

// NodeUID derives the stable node id for a document and key.
func NodeUID(docID string, key NodeKey) string {
	name := fmt.Sprintf("%s\x00%d\x00%d\x00%d\x00%s", docID, key.Sentence, key.Start, key.End, key.Variant)
	return uuid.NewSHA1(uidNamespace, []byte(name)).String()
}

// NodeSpec describes a node to add. Head fields of zero value mean no head
// unless HasHead is set.
type NodeSpec struct {
	Variant    Variant
	Label      string
	Sentence   int
	Start      int
	End        int
	Syn        SynID
	HasHead    bool
	HeadStart  int
	HeadEnd    int
	Confidence *float64
	UID        string
}

// AddNode appends a node. A taken key fails with ErrDuplicateNodeConflict;
// spans outside the sentence fail with ErrOutOfRange.
func (d *Document) AddNode(spec NodeSpec) (NodeID, error) {
	s, err := d.Sentence(spec.Sentence)
	if err != nil {
		return NoNode, err
	}
	if spec.Start < 0 || spec.End >= len(s.Tokens) || spec.End < spec.Start {
		return NoNode, errors.NewOutOfRangef("sentence %d: node span [%d,%d] outside [0, %d)", spec.Sentence, spec.Start, spec.End, len(s.Tokens))
	}
	if spec.Syn != NoSyn && (spec.Syn < 0 || int(spec.Syn) >= len(s.Syntax)) {
		return NoNode, errors.NewNotFoundError("sentence %d: syntax node %d", spec.Sentence, spec.Syn)
	}

	if d.nodeKeys == nil {
		d.nodeKeys = make(map[NodeKey]NodeID)
	}
	key := NodeKey{Sentence: spec.Sentence, Start: spec.Start, End: spec.End, Variant: spec.Variant}
	if existing, ok := d.nodeKeys[key]; ok {
		return existing, errors.Wrapf(errors.ErrDuplicateNodeConflict, "node %s already exists as %d", key, existing)
	}

	n := Node{
		ID:         NodeID(len(d.Nodes)),
		UID:        spec.UID,
		Variant:    spec.Variant,
		Label:      spec.Label,
		Sentence:   spec.Sentence,
		Start:      spec.Start,
		End:        spec.End,
		HeadStart:  -1,
		HeadEnd:    -1,
		Syn:        spec.Syn,
		Confidence: spec.Confidence,
	}
	if spec.HasHead {
		if spec.HeadStart < spec.Start || spec.HeadEnd > spec.End || spec.HeadEnd < spec.HeadStart {
			return NoNode, errors.NewInvalidRequestError("node %s: head [%d,%d] outside span", key, spec.HeadStart, spec.HeadEnd)
		}
		n.HeadStart, n.HeadEnd = spec.HeadStart, spec.HeadEnd
	}
	if n.UID == "" {
		n.UID = NodeUID(d.ID, key)
	}

	d.Nodes = append(d.Nodes, n)
	d.nodeKeys[key] = n.ID
	s.Nodes = append(s.Nodes, n.ID)
	return n.ID, nil
}

// LookupNode returns the node registered for key.
func (d *Document) LookupNode(key NodeKey) (NodeID, bool) {
	id, ok := d.nodeKeys[key]
	return id, ok
}

// FindNode returns the node of the given variant whose span in coord equals
// q exactly, searching only the sentence's own node index.
func (d *Document) FindNode(sentence int, q span.Query, variant Variant) (NodeID, bool) {
	if sentence < 0 || sentence >= len(d.Sentences) {
		return NoNode, false
	}
	s := d.Sentences[sentence]
	for _, id := range s.Nodes {
		n := d.Nodes[id]
		if n.Variant != variant {
			continue
		}
		iv, ok := s.TokenSpan(n.Start, n.End, q.Coord)
		if ok && span.IoU(q.Start, q.End, iv.Start, iv.End) == 1.0 {
			return id, true
		}
	}
	return NoNode, false
}

// RefineConfidence raises a node's confidence to score if it is higher.
// Confidence never decreases. Reports whether the value changed.
func (d *Document) RefineConfidence(id NodeID, score float64) (bool, error) {
	n, err := d.Node(id)
	if err != nil {
		return false, err
	}
	if n.Confidence != nil && *n.Confidence >= score {
		return false, nil
	}
	v := score
	n.Confidence = &v
	return true, nil
}

// AddArgument attaches a role-labeled argument to an EventMention.
func (d *Document) AddArgument(event NodeID, role string, value NodeID) error {
	n, err := d.Node(event)
	if err != nil {
		return err
	}
	if n.Variant != EventMention {
		return errors.NewInvalidRequestError("node %d is a %s, only event mentions take arguments", event, n.Variant)
	}
	if _, err := d.Node(value); err != nil {
		return errors.Wrapf(err, "argument %s of node %d", role, event)
	}
	n.Args = append(n.Args, Argument{Role: role, Value: value})
	return nil
}

// NodeText returns the token text covered by a node.
func (d *Document) NodeText(id NodeID) string {
	if id < 0 || int(id) >= len(d.Nodes) {
		return ""
	}
	n := d.Nodes[id]
	return d.Sentences[n.Sentence].Text(n.Start, n.End)
}
