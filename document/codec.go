package document

import (
	"encoding/json"
	"io"

	"github.com/teranos/annograph/errors"
)

// TokenJSON is the input shape of one token.
type TokenJSON struct {
	Text     string `json:"text"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	EDTStart *int   `json:"edt_start,omitempty"`
	EDTEnd   *int   `json:"edt_end,omitempty"`
}

// SyntaxJSON is the input shape of a syntax subtree.
type SyntaxJSON struct {
	Tag      string        `json:"tag"`
	Start    int           `json:"start"`
	End      int           `json:"end"`
	Children []*SyntaxJSON `json:"children,omitempty"`
}

// SentenceJSON is the input shape of one sentence.
type SentenceJSON struct {
	Tokens []TokenJSON `json:"tokens"`
	Syntax *SyntaxJSON `json:"syntax,omitempty"`
}

// DocumentJSON is the upstream tokenized document.
type DocumentJSON struct {
	ID        string         `json:"id"`
	Sentences []SentenceJSON `json:"sentences"`
}

// DecodeJSON reads a tokenized document with optional syntax trees.
func DecodeJSON(r io.Reader) (*Document, error) {
	var in DocumentJSON
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		return nil, errors.Wrap(err, "failed to decode document JSON")
	}
	return FromJSON(in)
}

// FromJSON builds a Document from its decoded input form.
func FromJSON(in DocumentJSON) (*Document, error) {
	if in.ID == "" {
		return nil, errors.NewInvalidRequestError("document id is required")
	}
	doc := New(in.ID)
	for i, sj := range in.Sentences {
		tokens := make([]Token, len(sj.Tokens))
		for j, tj := range sj.Tokens {
			tok := Token{Text: tj.Text, StartChar: tj.Start, EndChar: tj.End}
			if tj.EDTStart != nil && tj.EDTEnd != nil {
				tok.StartEDT, tok.EndEDT, tok.HasEDT = *tj.EDTStart, *tj.EDTEnd, true
			}
			tokens[j] = tok
		}
		s, err := doc.AddSentence(tokens)
		if err != nil {
			return nil, errors.Wrapf(err, "document %s", in.ID)
		}
		if sj.Syntax != nil {
			if err := addSyntax(s, NoSyn, sj.Syntax); err != nil {
				return nil, errors.Wrapf(err, "document %s sentence %d syntax", in.ID, i)
			}
		}
	}
	return doc, nil
}

func addSyntax(s *Sentence, parent SynID, n *SyntaxJSON) error {
	id, err := s.AddSynNode(parent, n.Tag, n.Start, n.End)
	if err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := addSyntax(s, id, c); err != nil {
			return err
		}
	}
	return nil
}

// ToJSON renders the token and syntax layers of a document.
func ToJSON(d *Document) DocumentJSON {
	out := DocumentJSON{ID: d.ID, Sentences: make([]SentenceJSON, len(d.Sentences))}
	for i, s := range d.Sentences {
		sj := SentenceJSON{Tokens: make([]TokenJSON, len(s.Tokens))}
		for j, tok := range s.Tokens {
			tj := TokenJSON{Text: tok.Text, Start: tok.StartChar, End: tok.EndChar}
			if tok.HasEDT {
				es, ee := tok.StartEDT, tok.EndEDT
				tj.EDTStart, tj.EDTEnd = &es, &ee
			}
			sj.Tokens[j] = tj
		}
		if s.HasSyntax() {
			sj.Syntax = syntaxJSON(s, s.Root)
		}
		out.Sentences[i] = sj
	}
	return out
}

func syntaxJSON(s *Sentence, id SynID) *SyntaxJSON {
	n := s.Syntax[id]
	out := &SyntaxJSON{Tag: n.Tag, Start: n.StartToken, End: n.EndToken}
	for _, c := range n.Children {
		out.Children = append(out.Children, syntaxJSON(s, c))
	}
	return out
}
