package score

import (
	"bufio"
	"io"
	"strings"

	"github.com/teranos/annograph/errors"
	"github.com/teranos/annograph/graph"
	grapherr "github.com/teranos/annograph/graph/error"
)

const headerPrefix = "filename:"

// EdgeFile holds the triples of a scoring file, grouped by document.
type EdgeFile struct {
	Documents map[string][]Triple
	// Order lists document ids in first-seen order.
	Order []string
}

func (f *EdgeFile) add(doc string, t Triple) {
	if _, ok := f.Documents[doc]; !ok {
		f.Order = append(f.Order, doc)
	}
	f.Documents[doc] = append(f.Documents[doc], t)
}

// Len returns the number of triples across all documents.
func (f *EdgeFile) Len() int {
	n := 0
	for _, ts := range f.Documents {
		n += len(ts)
	}
	return n
}

// LoadEdges reads a scoring file:
//
//	filename:<doc id>
//	child <TAB> relation <TAB> parent [<TAB> extra ...]
//
// Lines before the first header belong to document "". References are
// normalized through graph.ParseRef so numeric sentinel encodings compare equal
// to sentinel names. Malformed lines are returned as failures and skipped.
func LoadEdges(r io.Reader) (*EdgeFile, []*grapherr.GraphError, error) {
	f := &EdgeFile{Documents: make(map[string][]Triple)}
	var failures []*grapherr.GraphError

	doc := ""
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(text)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if strings.HasPrefix(trimmed, headerPrefix) {
			doc = strings.TrimSpace(strings.TrimPrefix(trimmed, headerPrefix))
			continue
		}

		t, gerr := parseTriple(text, line)
		if gerr != nil {
			failures = append(failures, gerr.WithContext("document", doc))
			continue
		}
		f.add(doc, t)
	}
	if err := scanner.Err(); err != nil {
		return f, failures, errors.Wrapf(err, "failed to read edge file at line %d", line)
	}
	return f, failures, nil
}

func parseTriple(text string, line int) (Triple, *grapherr.GraphError) {
	cols := strings.Split(text, "\t")
	if len(cols) < 3 {
		return Triple{}, grapherr.FromError(
			errors.NewMalformedf("line %d: expected at least 3 tab-separated columns, got %d", line, len(cols)), "").
			WithSubcategory(grapherr.SubcategoryEncodingLine).
			WithContext("line", line)
	}

	child, err := graph.ParseRef(cols[0])
	if err != nil {
		return Triple{}, grapherr.FromError(err, "").
			WithSubcategory(grapherr.SubcategoryEncodingRef).
			WithContext("line", line)
	}
	parent, err := graph.ParseRef(cols[2])
	if err != nil {
		return Triple{}, grapherr.FromError(err, "").
			WithSubcategory(grapherr.SubcategoryEncodingRef).
			WithContext("line", line)
	}

	return Triple{
		Child:    graph.FormatRef(child),
		Relation: strings.TrimSpace(cols[1]),
		Parent:   graph.FormatRef(parent),
	}, nil
}

// AddReferenceFile adds every document of f as reference triples.
func (s *Scorer) AddReferenceFile(f *EdgeFile) {
	for _, id := range f.Order {
		s.AddReference(id, f.Documents[id]...)
	}
}

// AddCandidateFile adds every document of f as candidate triples.
func (s *Scorer) AddCandidateFile(f *EdgeFile) {
	for _, id := range f.Order {
		s.AddCandidate(id, f.Documents[id]...)
	}
}
