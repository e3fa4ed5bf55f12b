package testing

import (
	"testing"

	"github.com/teranos/annograph/document"
)

// JohnFlewTokens is "John flew to Paris ." with character spans and EDT
// offsets shifted by 100.
func JohnFlewTokens() []document.Token {
	words := []struct {
		text       string
		start, end int
	}{
		{"John", 0, 3},
		{"flew", 5, 8},
		{"to", 10, 11},
		{"Paris", 13, 17},
		{".", 18, 18},
	}
	out := make([]document.Token, len(words))
	for i, w := range words {
		out[i] = document.Token{
			Text:      w.text,
			StartChar: w.start,
			EndChar:   w.end,
			StartEDT:  w.start + 100,
			EndEDT:    w.end + 100,
			HasEDT:    true,
		}
	}
	return out
}

// JohnFlewDoc returns a one-sentence document without syntax.
func JohnFlewDoc(t *testing.T) *document.Document {
	t.Helper()
	doc := document.New("doc-1")
	if _, err := doc.AddSentence(JohnFlewTokens()); err != nil {
		t.Fatalf("Failed to add sentence: %v", err)
	}
	return doc
}

// JohnFlewParsedDoc returns JohnFlewDoc with the tree
// (S (NP John) (VP (V flew) (PP (P to) (NP Paris))) (. .)).
func JohnFlewParsedDoc(t *testing.T) *document.Document {
	t.Helper()
	doc := JohnFlewDoc(t)
	s := doc.Sentences[0]
	mustSyn := func(parent document.SynID, tag string, start, end int) document.SynID {
		id, err := s.AddSynNode(parent, tag, start, end)
		if err != nil {
			t.Fatalf("Failed to add syntax node %s: %v", tag, err)
		}
		return id
	}
	root := mustSyn(document.NoSyn, "S", 0, 4)
	mustSyn(root, "NP", 0, 0)
	vp := mustSyn(root, "VP", 1, 3)
	mustSyn(vp, "V", 1, 1)
	pp := mustSyn(vp, "PP", 2, 3)
	mustSyn(pp, "P", 2, 2)
	mustSyn(pp, "NP", 3, 3)
	mustSyn(root, ".", 4, 4)
	return doc
}

// RichDoc returns a two-sentence parsed document ("John flew to Paris ."
// and "He said so .") with mentions, an event with arguments, a
// cross-sentence entity, a relation, an actor mention, a proposition and
// modal edges.
func RichDoc(t *testing.T) *document.Document {
	t.Helper()
	doc := JohnFlewParsedDoc(t)

	s2, err := doc.AddSentence([]document.Token{
		{Text: "He", StartChar: 20, EndChar: 21},
		{Text: "said", StartChar: 23, EndChar: 26},
		{Text: "so", StartChar: 28, EndChar: 29},
		{Text: ".", StartChar: 31, EndChar: 31},
	})
	if err != nil {
		t.Fatalf("Failed to add sentence: %v", err)
	}
	root, err := s2.AddSynNode(document.NoSyn, "S", 0, 3)
	if err != nil {
		t.Fatalf("Failed to add syntax root: %v", err)
	}
	np, err := s2.AddSynNode(root, "NP", 0, 0)
	if err != nil {
		t.Fatalf("Failed to add syntax node: %v", err)
	}

	mustNode := func(spec document.NodeSpec) document.NodeID {
		id, err := doc.AddNode(spec)
		if err != nil {
			t.Fatalf("Failed to add node %+v: %v", spec, err)
		}
		return id
	}
	conf := 0.9
	john := mustNode(document.NodeSpec{Variant: document.Mention, Label: "PER", Sentence: 0, Start: 0, End: 0, Syn: 1})
	paris := mustNode(document.NodeSpec{Variant: document.Mention, Label: "GPE", Sentence: 0, Start: 3, End: 3, Syn: 6})
	flew := mustNode(document.NodeSpec{Variant: document.EventMention, Label: "Event", Sentence: 0, Start: 1, End: 1, Syn: 3, Confidence: &conf})
	he := mustNode(document.NodeSpec{Variant: document.Mention, Label: "PER", Sentence: 1, Start: 0, End: 0, Syn: np})
	said := mustNode(document.NodeSpec{Variant: document.ConceiverMention, Label: "Conceiver", Sentence: 1, Start: 1, End: 1, Syn: document.NoSyn})
	when := mustNode(document.NodeSpec{Variant: document.ValueMention, Label: "Timex", Sentence: 0, Start: 2, End: 3, Syn: 4, HasHead: true, HeadStart: 3, HeadEnd: 3})

	if err := doc.AddArgument(flew, "Agent", john); err != nil {
		t.Fatalf("Failed to add argument: %v", err)
	}
	if err := doc.AddArgument(flew, "Destination", paris); err != nil {
		t.Fatalf("Failed to add argument: %v", err)
	}
	if _, err := doc.AddEntity("PER", john, he); err != nil {
		t.Fatalf("Failed to add entity: %v", err)
	}
	if _, err := doc.AddRelMention("Located", john, paris); err != nil {
		t.Fatalf("Failed to add relation: %v", err)
	}
	if _, err := doc.AddActorMention("PER", "John Smith", john); err != nil {
		t.Fatalf("Failed to add actor mention: %v", err)
	}
	if _, err := doc.AddProposition("verb", 0, 2, document.PropArg{Role: "<ref>", Syn: 3, Node: document.NoNode}, document.PropArg{Role: "to", Syn: document.NoSyn, Node: paris}); err != nil {
		t.Fatalf("Failed to add proposition: %v", err)
	}

	edges := []struct {
		child, parent document.Endpoint
		relation      string
	}{
		{document.NodeEndpoint(said), document.SentinelEndpoint(document.Author), "pos"},
		{document.NodeEndpoint(flew), document.NodeEndpoint(said), "pos"},
		{document.NodeEndpoint(when), document.SentinelEndpoint(document.DCT), "before"},
	}
	for _, e := range edges {
		if _, err := doc.AddEdge("modal", e.relation, e.child, e.parent); err != nil {
			t.Fatalf("Failed to add edge: %v", err)
		}
	}
	doc.SetRoot("modal", document.SentinelEndpoint(document.Author))
	return doc
}
