package roundtrip

import (
	"fmt"

	"github.com/teranos/annograph/document"
)

// KindStats counts matched and unmatched elements of one kind.
type KindStats struct {
	Matched   int `json:"matched" yaml:"matched"`
	Unmatched int `json:"unmatched" yaml:"unmatched"`
}

// Total returns Matched + Unmatched.
func (k KindStats) Total() int {
	return k.Matched + k.Unmatched
}

func (k *KindStats) add(ok bool) {
	if ok {
		k.Matched++
	} else {
		k.Unmatched++
	}
}

// Report summarizes MatchAll.
type Report struct {
	Tokens        KindStats `json:"tokens" yaml:"tokens"`
	SynNodes      KindStats `json:"syn_nodes" yaml:"syn_nodes"`
	Nodes         KindStats `json:"nodes" yaml:"nodes"`
	Entities      KindStats `json:"entities" yaml:"entities"`
	RelMentions   KindStats `json:"rel_mentions" yaml:"rel_mentions"`
	ActorMentions KindStats `json:"actor_mentions" yaml:"actor_mentions"`
	Propositions  KindStats `json:"propositions" yaml:"propositions"`
	Edges         KindStats `json:"edges" yaml:"edges"`

	// UnmatchedNodes lists A-side node UIDs without a counterpart.
	UnmatchedNodes []string `json:"unmatched_nodes,omitempty" yaml:"unmatched_nodes,omitempty"`
}

// Kinds returns the per-kind stats in a fixed order.
func (r Report) Kinds() []struct {
	Name  string
	Stats KindStats
} {
	return []struct {
		Name  string
		Stats KindStats
	}{
		{"tokens", r.Tokens},
		{"syn_nodes", r.SynNodes},
		{"nodes", r.Nodes},
		{"entities", r.Entities},
		{"rel_mentions", r.RelMentions},
		{"actor_mentions", r.ActorMentions},
		{"propositions", r.Propositions},
		{"edges", r.Edges},
	}
}

// Complete reports whether every element of A found a counterpart.
func (r Report) Complete() bool {
	for _, k := range r.Kinds() {
		if k.Stats.Unmatched > 0 {
			return false
		}
	}
	return true
}

func (r Report) String() string {
	return fmt.Sprintf("tokens %d/%d, syntax %d/%d, nodes %d/%d, entities %d/%d, edges %d/%d",
		r.Tokens.Matched, r.Tokens.Total(),
		r.SynNodes.Matched, r.SynNodes.Total(),
		r.Nodes.Matched, r.Nodes.Total(),
		r.Entities.Matched, r.Entities.Total(),
		r.Edges.Matched, r.Edges.Total())
}

// MatchAll matches every element of A into B.
func (m *Matcher) MatchAll() Report {
	var r Report

	for _, s := range m.a.Sentences {
		for i := range s.Tokens {
			_, ok := m.Token(s.Index, i)
			r.Tokens.add(ok)
		}
		for i := range s.Syntax {
			_, ok := m.SynNode(s.Index, document.SynID(i))
			r.SynNodes.add(ok)
		}
	}
	for _, n := range m.a.Nodes {
		_, ok := m.Node(n.ID)
		r.Nodes.add(ok)
		if !ok {
			r.UnmatchedNodes = append(r.UnmatchedNodes, n.UID)
		}
	}
	for _, e := range m.a.Entities {
		_, ok := m.Entity(e.ID)
		r.Entities.add(ok)
	}
	for _, rm := range m.a.RelMentions {
		_, ok := m.RelMention(rm.ID)
		r.RelMentions.add(ok)
	}
	for _, am := range m.a.ActorMentions {
		_, ok := m.ActorMention(am.ID)
		r.ActorMentions.add(ok)
	}
	for _, p := range m.a.Propositions {
		_, ok := m.Proposition(p.ID)
		r.Propositions.add(ok)
	}
	for _, e := range m.a.Edges {
		_, ok := m.Edge(e.ID)
		r.Edges.add(ok)
	}
	return r
}
