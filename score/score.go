// Package score compares candidate edge sets against reference edge sets.
//
// Every document is scored at three granularities. A triple counts once per
// document however often it is listed. Documents that appear on only one side
// are scored against an empty set.
package score

import (
	"sort"

	"github.com/teranos/annograph/internal/util"
)

// Triple is one comparable edge: child and parent are span references or
// sentinel names, as written by graph.FormatRef.
type Triple struct {
	Child    string `json:"child" yaml:"child"`
	Relation string `json:"relation" yaml:"relation"`
	Parent   string `json:"parent" yaml:"parent"`
}

// Granularity selects the fields of a triple that must agree.
type Granularity string

const (
	// Labeled compares (child, relation, parent).
	Labeled Granularity = "labeled"
	// Unlabeled compares (child, relation) and ignores the parent.
	Unlabeled Granularity = "unlabeled"
	// RelOnly compares (child, parent) and ignores the relation label.
	RelOnly Granularity = "rel_only"
)

// Granularities lists every granularity in report order.
var Granularities = []Granularity{Labeled, Unlabeled, RelOnly}

func (g Granularity) project(t Triple) Triple {
	switch g {
	case Unlabeled:
		t.Parent = ""
	case RelOnly:
		t.Relation = ""
	}
	return t
}

// Counts are the confusion counts of one comparison.
type Counts struct {
	TP int `json:"tp" yaml:"tp"`
	FP int `json:"fp" yaml:"fp"`
	FN int `json:"fn" yaml:"fn"`
}

// Add sums two counts.
func (c Counts) Add(o Counts) Counts {
	return Counts{TP: c.TP + o.TP, FP: c.FP + o.FP, FN: c.FN + o.FN}
}

// Score is a precision/recall/F1 result with the counts behind it.
type Score struct {
	Counts    `yaml:",inline"`
	Precision float64 `json:"precision" yaml:"precision"`
	Recall    float64 `json:"recall" yaml:"recall"`
	F1        float64 `json:"f1" yaml:"f1"`
}

// FromCounts computes P/R/F from counts. A zero denominator yields 0.
func FromCounts(c Counts) Score {
	s := Score{Counts: c}
	s.Precision = ratio(c.TP, c.TP+c.FP)
	s.Recall = ratio(c.TP, c.TP+c.FN)
	if s.Precision+s.Recall > 0 {
		s.F1 = 2 * s.Precision * s.Recall / (s.Precision + s.Recall)
	}
	return s
}

func ratio(n, d int) float64 {
	return util.SafeRatio(float64(n), float64(d))
}

// Scores holds one Score per granularity.
type Scores struct {
	Labeled   Score `json:"labeled" yaml:"labeled"`
	Unlabeled Score `json:"unlabeled" yaml:"unlabeled"`
	RelOnly   Score `json:"rel_only" yaml:"rel_only"`
}

// Get returns the score of g.
func (s Scores) Get(g Granularity) Score {
	switch g {
	case Unlabeled:
		return s.Unlabeled
	case RelOnly:
		return s.RelOnly
	default:
		return s.Labeled
	}
}

func (s *Scores) set(g Granularity, v Score) {
	switch g {
	case Unlabeled:
		s.Unlabeled = v
	case RelOnly:
		s.RelOnly = v
	default:
		s.Labeled = v
	}
}

// DocumentScore is the result for a single document.
type DocumentScore struct {
	ID     string `json:"id" yaml:"id"`
	Scores `yaml:",inline"`
}

// Report is the result of a scoring run.
type Report struct {
	Documents []DocumentScore `json:"documents" yaml:"documents"`
	Micro     Scores          `json:"micro" yaml:"micro"`
	Macro     Scores          `json:"macro" yaml:"macro"`
}

// ScoreDocument scores one document. It has no side effects.
func ScoreDocument(id string, reference, candidate []Triple) DocumentScore {
	ds := DocumentScore{ID: id}
	for _, g := range Granularities {
		ref := project(g, reference)
		cand := project(g, candidate)

		var c Counts
		for t := range cand {
			if ref[t] {
				c.TP++
			} else {
				c.FP++
			}
		}
		for t := range ref {
			if !cand[t] {
				c.FN++
			}
		}
		ds.set(g, FromCounts(c))
	}
	return ds
}

func project(g Granularity, triples []Triple) map[Triple]bool {
	set := make(map[Triple]bool, len(triples))
	for _, t := range triples {
		set[g.project(t)] = true
	}
	return set
}

// Aggregate reduces per-document scores to corpus micro and macro scores.
//
// Micro sums the counts and computes P/R/F once. Macro averages per-document
// precision, recall and F1 independently, so macro F1 is the mean of the
// document F1 values rather than the harmonic mean of macro P and R. Macro
// scores carry the summed counts.
func Aggregate(docs []DocumentScore) (micro, macro Scores) {
	for _, g := range Granularities {
		var (
			sum     Counts
			p, r, f float64
		)
		for _, d := range docs {
			s := d.Get(g)
			sum = sum.Add(s.Counts)
			p += s.Precision
			r += s.Recall
			f += s.F1
		}
		micro.set(g, FromCounts(sum))

		m := Score{Counts: sum}
		if n := float64(len(docs)); n > 0 {
			m.Precision, m.Recall, m.F1 = p/n, r/n, f/n
		}
		macro.set(g, m)
	}
	return micro, macro
}

// Scorer accumulates reference and candidate triples per document.
// It is not safe for concurrent use.
type Scorer struct {
	reference map[string][]Triple
	candidate map[string][]Triple
}

// NewScorer creates an empty scorer.
func NewScorer() *Scorer {
	return &Scorer{
		reference: make(map[string][]Triple),
		candidate: make(map[string][]Triple),
	}
}

// AddReference appends reference triples for a document.
func (s *Scorer) AddReference(docID string, triples ...Triple) {
	s.reference[docID] = append(s.reference[docID], triples...)
}

// AddCandidate appends candidate triples for a document.
func (s *Scorer) AddCandidate(docID string, triples ...Triple) {
	s.candidate[docID] = append(s.candidate[docID], triples...)
}

// Documents returns every document id seen on either side, sorted.
func (s *Scorer) Documents() []string {
	seen := make(map[string]bool, len(s.reference)+len(s.candidate))
	for id := range s.reference {
		seen[id] = true
	}
	for id := range s.candidate {
		seen[id] = true
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Pair returns the reference and candidate triples of a document.
func (s *Scorer) Pair(docID string) (reference, candidate []Triple) {
	return s.reference[docID], s.candidate[docID]
}

// Score scores every document and aggregates the corpus.
func (s *Scorer) Score() Report {
	var r Report
	for _, id := range s.Documents() {
		ref, cand := s.Pair(id)
		r.Documents = append(r.Documents, ScoreDocument(id, ref, cand))
	}
	r.Micro, r.Macro = Aggregate(r.Documents)
	return r
}
