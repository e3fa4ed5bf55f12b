// Package roundtrip finds structurally equivalent elements between two
// independently built annotation graphs over the same text.
//
// Equivalence never looks at ids: two nodes are the same when their type,
// label and span agree and everything they reference is itself equivalent.
package roundtrip

import (
	"github.com/teranos/annograph/document"
)

type pair struct {
	a, b document.NodeID
}

type synRef struct {
	sentence int
	id       document.SynID
}

type nodeResult struct {
	id document.NodeID
	ok bool
}

// Matcher maps elements of document A to document B. It never mutates either
// document. Sentences are paired by index.
type Matcher struct {
	a, b *document.Document

	syn   map[synRef]document.SynID
	nodes map[document.NodeID]nodeResult

	// pairs under comparison; a revisited pair is assumed equal so that
	// self-referential argument structures terminate
	visiting map[pair]bool
}

// NewMatcher creates a matcher from a to b.
func NewMatcher(a, b *document.Document) *Matcher {
	return &Matcher{
		a:        a,
		b:        b,
		syn:      make(map[synRef]document.SynID),
		nodes:    make(map[document.NodeID]nodeResult),
		visiting: make(map[pair]bool),
	}
}

func (m *Matcher) sentences(i int) (*document.Sentence, *document.Sentence, bool) {
	if i < 0 || i >= len(m.a.Sentences) || i >= len(m.b.Sentences) {
		return nil, nil, false
	}
	return m.a.Sentences[i], m.b.Sentences[i], true
}

// Token matches a token of sentence by text and character offsets.
func (m *Matcher) Token(sentence, token int) (int, bool) {
	sa, sb, ok := m.sentences(sentence)
	if !ok || token < 0 || token >= len(sa.Tokens) {
		return -1, false
	}
	ta := sa.Tokens[token]
	for _, tb := range sb.Tokens {
		if tb.Text == ta.Text && tb.StartChar == ta.StartChar && tb.EndChar == ta.EndChar {
			return tb.Index, true
		}
	}
	return -1, false
}

// SynNode matches a syntax node by a depth-first search of B's tree for the
// same tag and token range. The first match in pre-order wins.
func (m *Matcher) SynNode(sentence int, id document.SynID) (document.SynID, bool) {
	key := synRef{sentence: sentence, id: id}
	if got, ok := m.syn[key]; ok {
		return got, got != document.NoSyn
	}

	sa, sb, ok := m.sentences(sentence)
	if !ok || id < 0 || int(id) >= len(sa.Syntax) || !sb.HasSyntax() {
		m.syn[key] = document.NoSyn
		return document.NoSyn, false
	}

	want := sa.Syntax[id]
	found := document.NoSyn
	stack := []document.SynID{sb.Root}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := sb.Syntax[cur]
		if n.Tag == want.Tag && n.StartToken == want.StartToken && n.EndToken == want.EndToken {
			found = cur
			break
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}

	m.syn[key] = found
	return found, found != document.NoSyn
}

// Node matches an annotation node of A to one in the same sentence of B.
func (m *Matcher) Node(id document.NodeID) (document.NodeID, bool) {
	if r, ok := m.nodes[id]; ok {
		return r.id, r.ok
	}
	if id < 0 || int(id) >= len(m.a.Nodes) {
		return document.NoNode, false
	}

	n := m.a.Nodes[id]
	_, sb, ok := m.sentences(n.Sentence)
	if !ok {
		m.nodes[id] = nodeResult{id: document.NoNode}
		return document.NoNode, false
	}

	for _, cid := range sb.Nodes {
		if m.nodeEqual(id, cid) {
			m.nodes[id] = nodeResult{id: cid, ok: true}
			return cid, true
		}
	}
	m.nodes[id] = nodeResult{id: document.NoNode}
	return document.NoNode, false
}

// nodeEqual compares node a of A with node b of B.
func (m *Matcher) nodeEqual(aid, bid document.NodeID) bool {
	p := pair{a: aid, b: bid}
	if m.visiting[p] {
		return true
	}

	na, nb := m.a.Nodes[aid], m.b.Nodes[bid]
	if na.Variant != nb.Variant || na.Label != nb.Label || na.Sentence != nb.Sentence {
		return false
	}
	if !m.spanEqual(na, nb) {
		return false
	}

	switch na.Variant {
	case document.EventMention:
		m.visiting[p] = true
		defer delete(m.visiting, p)
		return m.argsEqual(na.Args, nb.Args)
	case document.Mention, document.ValueMention, document.ConceiverMention:
		return true
	default:
		return false
	}
}

// spanEqual holds when the syntax anchors match, or when the node's own
// start and end tokens resolve to the other node's.
func (m *Matcher) spanEqual(na, nb document.Node) bool {
	if na.Anchored() && nb.Anchored() {
		if syn, ok := m.SynNode(na.Sentence, na.Syn); ok && syn == nb.Syn {
			return true
		}
	}
	start, ok := m.Token(na.Sentence, na.Start)
	if !ok || start != nb.Start {
		return false
	}
	end, ok := m.Token(na.Sentence, na.End)
	return ok && end == nb.End
}

// argsEqual matches arguments role by role, in order.
func (m *Matcher) argsEqual(a, b []document.Argument) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Role != b[i].Role {
			return false
		}
		if !m.nodeEqual(a[i].Value, b[i].Value) {
			return false
		}
	}
	return true
}

// Entity matches an entity whose mention set is equal under node equivalence.
func (m *Matcher) Entity(id document.EntityID) (document.EntityID, bool) {
	if id < 0 || int(id) >= len(m.a.Entities) {
		return -1, false
	}
	ea := m.a.Entities[id]

	mapped := make(map[document.NodeID]bool, len(ea.Mentions))
	for _, mention := range ea.Mentions {
		bid, ok := m.Node(mention)
		if !ok {
			return -1, false
		}
		mapped[bid] = true
	}

	for _, eb := range m.b.Entities {
		if eb.Type != ea.Type {
			continue
		}
		if sameMentionSet(mapped, eb.Mentions) {
			return eb.ID, true
		}
	}
	return -1, false
}

// sameMentionSet reports whether mentions, repeats collapsed, equals set.
func sameMentionSet(set map[document.NodeID]bool, mentions []document.NodeID) bool {
	seen := make(map[document.NodeID]bool, len(mentions))
	for _, mention := range mentions {
		if !set[mention] {
			return false
		}
		seen[mention] = true
	}
	return len(seen) == len(set)
}

// RelMention matches a relation mention by type and both arguments.
func (m *Matcher) RelMention(id document.RelMentionID) (document.RelMentionID, bool) {
	if id < 0 || int(id) >= len(m.a.RelMentions) {
		return -1, false
	}
	ra := m.a.RelMentions[id]
	left, ok := m.Node(ra.Left)
	if !ok {
		return -1, false
	}
	right, ok := m.Node(ra.Right)
	if !ok {
		return -1, false
	}
	for _, rb := range m.b.RelMentions {
		if rb.Type == ra.Type && rb.Left == left && rb.Right == right {
			return rb.ID, true
		}
	}
	return -1, false
}

// ActorMention matches an actor mention by label, actor name and mention.
func (m *Matcher) ActorMention(id document.ActorMentionID) (document.ActorMentionID, bool) {
	if id < 0 || int(id) >= len(m.a.ActorMentions) {
		return -1, false
	}
	aa := m.a.ActorMentions[id]
	mention, ok := m.Node(aa.Mention)
	if !ok {
		return -1, false
	}
	for _, ab := range m.b.ActorMentions {
		if ab.Label == aa.Label && ab.ActorName == aa.ActorName && ab.Mention == mention {
			return ab.ID, true
		}
	}
	return -1, false
}

// Proposition matches by predicate type, head and arguments role by role.
func (m *Matcher) Proposition(id document.PropositionID) (document.PropositionID, bool) {
	if id < 0 || int(id) >= len(m.a.Propositions) {
		return -1, false
	}
	pa := m.a.Propositions[id]
	head, ok := m.SynNode(pa.Sentence, pa.Head)
	if !ok {
		return -1, false
	}

	for _, pb := range m.b.Propositions {
		if pb.PredType != pa.PredType || pb.Sentence != pa.Sentence || pb.Head != head || len(pb.Args) != len(pa.Args) {
			continue
		}
		if m.propArgsEqual(pa.Sentence, pa.Args, pb.Args) {
			return pb.ID, true
		}
	}
	return -1, false
}

func (m *Matcher) propArgsEqual(sentence int, a, b []document.PropArg) bool {
	for i := range a {
		if a[i].Role != b[i].Role {
			return false
		}
		switch {
		case a[i].Syn != document.NoSyn:
			syn, ok := m.SynNode(sentence, a[i].Syn)
			if !ok || syn != b[i].Syn {
				return false
			}
		default:
			node, ok := m.Node(a[i].Node)
			if !ok || node != b[i].Node {
				return false
			}
		}
	}
	return true
}

// Edge matches by graph, relation and both endpoints.
func (m *Matcher) Edge(id document.EdgeID) (document.EdgeID, bool) {
	if id < 0 || int(id) >= len(m.a.Edges) {
		return -1, false
	}
	ea := m.a.Edges[id]
	child, ok := m.endpoint(ea.Child)
	if !ok {
		return -1, false
	}
	parent, ok := m.endpoint(ea.Parent)
	if !ok {
		return -1, false
	}
	for _, eb := range m.b.Edges {
		if eb.Graph == ea.Graph && eb.Relation == ea.Relation && sameEndpoint(eb.Child, child) && sameEndpoint(eb.Parent, parent) {
			return eb.ID, true
		}
	}
	return -1, false
}

func (m *Matcher) endpoint(ep document.Endpoint) (document.Endpoint, bool) {
	if ep.IsSentinel() {
		return ep, true
	}
	id, ok := m.Node(ep.Node)
	if !ok {
		return document.Endpoint{}, false
	}
	return document.NodeEndpoint(id), true
}

func sameEndpoint(x, y document.Endpoint) bool {
	if x.IsSentinel() || y.IsSentinel() {
		return x.Sentinel == y.Sentinel
	}
	return x.Node == y.Node
}
