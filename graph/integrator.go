package graph

import (
	"strings"

	"github.com/teranos/annograph/document"
	"github.com/teranos/annograph/errors"
	grapherr "github.com/teranos/annograph/graph/error"
	"github.com/teranos/annograph/logger"
	"github.com/teranos/annograph/span"
	"go.uber.org/zap"
)

// RootHook designates the root of a named graph. It returns whether the root
// was recorded.
type RootHook func(doc *document.Document, graph string, root document.Endpoint) bool

// SetDocumentRoot is the default RootHook.
func SetDocumentRoot(doc *document.Document, graph string, root document.Endpoint) bool {
	return doc.SetRoot(graph, root)
}

// DefaultVariants maps upstream labels to node variants. Labels absent from
// the table become plain mentions.
func DefaultVariants() map[string]document.Variant {
	return map[string]document.Variant{
		"Event":     document.EventMention,
		"Conceiver": document.ConceiverMention,
		"Timex":     document.ValueMention,
		"DCT":       document.ValueMention,
		"Value":     document.ValueMention,
	}
}

// Config controls one integration call.
type Config struct {
	Graph              string
	MinOverlap         float64
	DefaultParentLabel string
	Variants           map[string]document.Variant
	RootHook           RootHook
}

// DefaultConfig returns the modal-graph defaults.
func DefaultConfig() Config {
	return Config{
		Graph:              "modal",
		MinOverlap:         0.99,
		DefaultParentLabel: "Event",
		Variants:           DefaultVariants(),
		RootHook:           SetDocumentRoot,
	}
}

// VariantFor maps a label through the configured table. An exact key wins
// over a case-insensitive one.
func (c Config) VariantFor(label string) document.Variant {
	if v, ok := c.Variants[label]; ok {
		return v
	}
	for k, v := range c.Variants {
		if strings.EqualFold(k, label) {
			return v
		}
	}
	return document.Mention
}

// Outcome describes what happened to one edge endpoint.
type Outcome int

const (
	OutcomeCreated Outcome = iota
	OutcomeReused
	OutcomeSentinel
	OutcomeMissing
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeReused:
		return "reused"
	case OutcomeSentinel:
		return "sentinel"
	case OutcomeMissing:
		return "missing"
	default:
		return "unknown"
	}
}

// EdgeOutcome is the per-edge diagnostic record.
type EdgeOutcome struct {
	Spec   EdgeSpec
	Child  Outcome
	Parent Outcome

	// Edge is the materialized edge, or -1 when the edge was skipped.
	Edge        document.EdgeID
	EdgeCreated bool
	Err         *grapherr.GraphError
}

// Skipped reports whether no edge was materialized.
func (o EdgeOutcome) Skipped() bool {
	return o.Edge < 0
}

// SpanFailure records a span that could not be resolved in the first pass.
type SpanFailure struct {
	Ref   Ref
	Label string
	Err   *grapherr.GraphError
}

// Result holds the diagnostics of one integration call.
type Result struct {
	Document     string
	Graph        string
	Edges        []EdgeOutcome
	SpanFailures []SpanFailure

	// Root is the endpoint passed to the RootHook, if any.
	Root *document.Endpoint
}

// Summary aggregates a Result.
type Summary struct {
	Edges        int `json:"edges" yaml:"edges"`
	EdgesCreated int `json:"edges_created" yaml:"edges_created"`
	EdgesReused  int `json:"edges_reused" yaml:"edges_reused"`
	EdgesSkipped int `json:"edges_skipped" yaml:"edges_skipped"`
	NodesCreated int `json:"nodes_created" yaml:"nodes_created"`
	SpanFailures int `json:"span_failures" yaml:"span_failures"`
	Conflicts    int `json:"conflicts" yaml:"conflicts"`
}

// Summary counts edge and node outcomes.
func (r *Result) Summary() Summary {
	s := Summary{Edges: len(r.Edges), SpanFailures: len(r.SpanFailures)}
	for _, e := range r.Edges {
		switch {
		case e.Skipped():
			s.EdgesSkipped++
		case e.EdgeCreated:
			s.EdgesCreated++
		default:
			s.EdgesReused++
		}
		if e.Child == OutcomeCreated {
			s.NodesCreated++
		}
		if e.Parent == OutcomeCreated {
			s.NodesCreated++
		}
		if e.Err != nil && e.Err.IsCategory(grapherr.CategoryConflict) {
			s.Conflicts++
		}
	}
	return s
}

// Failures returns every per-item failure, span failures first.
func (r *Result) Failures() []*grapherr.GraphError {
	var out []*grapherr.GraphError
	for _, f := range r.SpanFailures {
		out = append(out, f.Err)
	}
	for _, e := range r.Edges {
		if e.Err != nil {
			out = append(out, e.Err)
		}
	}
	return out
}

// Integrator materializes flat edge lists into document graphs. It holds
// configuration only; every cache lives inside one Integrate call.
type Integrator struct {
	cfg    Config
	logger *zap.SugaredLogger
}

// NewIntegrator creates an integrator. Zero-valued config fields fall back to
// DefaultConfig.
func NewIntegrator(cfg Config, log *zap.SugaredLogger) *Integrator {
	def := DefaultConfig()
	if cfg.Graph == "" {
		cfg.Graph = def.Graph
	}
	if cfg.DefaultParentLabel == "" {
		cfg.DefaultParentLabel = def.DefaultParentLabel
	}
	if cfg.Variants == nil {
		cfg.Variants = def.Variants
	}
	if cfg.RootHook == nil {
		cfg.RootHook = def.RootHook
	}
	return &Integrator{
		cfg:    cfg,
		logger: logger.OrNop(log).Named("graph.integrator"),
	}
}

// Config returns the effective configuration.
func (in *Integrator) Config() Config {
	return in.cfg
}

type spanKey struct {
	sentence, start, end int
}

func keyOf(r Ref) spanKey {
	return spanKey{sentence: r.Sentence, start: r.Start, end: r.End}
}

type resolvedSpan struct {
	node    document.NodeID
	variant document.Variant
	created bool
	used    bool
}

type edgeKey struct {
	child    document.Endpoint
	relation string
	parent   document.Endpoint
}

// Integrate adds the edges to doc in two passes: every distinct span is
// resolved once, then edges are materialized and deduplicated by
// (child, relation, parent). Per-item failures are recorded in the Result.
// A non-nil error means the document itself is malformed; the partial graph
// should then be discarded.
func (in *Integrator) Integrate(doc *document.Document, edges []EdgeSpec) (*Result, error) {
	log := in.logger.With(logger.FieldDocument, doc.ID, logger.FieldGraph, in.cfg.Graph)
	builder := NewBuilder(doc, in.logger)
	result := &Result{Document: doc.ID, Graph: in.cfg.Graph}

	// Pass 1: labels, then resolution in first-appearance order.
	var order []Ref
	labels := make(map[spanKey]string)
	seen := make(map[spanKey]bool)
	note := func(r Ref) {
		if r.IsSentinel() || seen[keyOf(r)] {
			return
		}
		seen[keyOf(r)] = true
		order = append(order, r)
	}
	for _, e := range edges {
		note(e.Child)
		note(e.Parent)
		if !e.Child.IsSentinel() {
			if _, ok := labels[keyOf(e.Child)]; !ok {
				labels[keyOf(e.Child)] = e.ChildLabel
			}
		}
	}

	nodes := make(map[spanKey]*resolvedSpan, len(order))
	for _, r := range order {
		label, ok := labels[keyOf(r)]
		if !ok {
			label = in.cfg.DefaultParentLabel
		}
		variant := in.cfg.VariantFor(label)
		q := span.Query{Coord: span.CoordToken, Start: r.Start, End: r.End}

		id, res, err := builder.GetOrCreate(r.Sentence, q, variant, label, in.cfg.MinOverlap)
		if err != nil {
			if errors.IsDocumentFatal(err) {
				log.Warnw("Aborting document",
					logger.FieldSpan, FormatRef(r),
					logger.FieldError, err.Error(),
				)
				return result, errors.Wrapf(err, "document %s", doc.ID)
			}
			gerr := grapherr.FromError(err, "").
				WithContext(logger.FieldSpan, FormatRef(r)).
				WithContext(logger.FieldLabel, label)
			result.SpanFailures = append(result.SpanFailures, SpanFailure{Ref: r, Label: label, Err: gerr})
			log.Debugw("Span not resolved", gerr.ToLogFields()...)
			continue
		}
		nodes[keyOf(r)] = &resolvedSpan{
			node:    id,
			variant: variant,
			created: res == ResolvedSyntax || res == ResolvedTokens,
		}
	}

	// Pass 2: edges.
	edgeCache := make(map[edgeKey]document.EdgeID)
	rootSeen := false
	for _, e := range edges {
		out := EdgeOutcome{Spec: e, Edge: -1}

		childEP, childOutcome, childNode := in.endpoint(e.Child, nodes)
		parentEP, parentOutcome, _ := in.endpoint(e.Parent, nodes)
		out.Child, out.Parent = childOutcome, parentOutcome

		switch {
		case childOutcome == OutcomeMissing || parentOutcome == OutcomeMissing:
			out.Err = grapherr.New(grapherr.CategoryResolve,
				errors.Wrapf(errors.ErrNoOverlap, "edge %s -%s-> %s has an unresolved endpoint", FormatRef(e.Child), e.Relation, FormatRef(e.Parent)), "").
				WithSubcategory(grapherr.SubcategoryResolveMissingEndpoint).
				WithContext(logger.FieldLine, e.Line)

		case childNode != nil && in.cfg.VariantFor(e.ChildLabel) != childNode.variant:
			out.Err = grapherr.New(grapherr.CategoryConflict,
				errors.Wrapf(errors.ErrDuplicateNodeConflict, "span %s labeled %q as %s, already resolved as %s",
					FormatRef(e.Child), e.ChildLabel, in.cfg.VariantFor(e.ChildLabel), childNode.variant), "").
				WithSubcategory(grapherr.SubcategoryConflictVariant).
				WithContext(logger.FieldLine, e.Line)

		default:
			key := edgeKey{child: childEP, relation: e.Relation, parent: parentEP}
			if id, ok := edgeCache[key]; ok {
				out.Edge = id
			} else {
				id, err := doc.AddEdge(in.cfg.Graph, e.Relation, childEP, parentEP)
				if err != nil {
					out.Err = grapherr.FromError(err, "").WithContext(logger.FieldLine, e.Line)
					break
				}
				edgeCache[key] = id
				out.Edge, out.EdgeCreated = id, true
			}

			if childNode != nil && e.Confidence != nil {
				if _, err := doc.RefineConfidence(childNode.node, *e.Confidence); err != nil {
					return result, errors.Wrap(err, "refine confidence")
				}
			}
			if parentEP.Sentinel == document.Root && !rootSeen {
				rootSeen = true
				root := parentEP
				result.Root = &root
				in.cfg.RootHook(doc, in.cfg.Graph, root)
			}
		}

		// created/reused is decided on first use in an edge
		if out.Child == OutcomeCreated || out.Child == OutcomeReused {
			out.Child = in.firstUse(nodes[keyOf(e.Child)])
		}
		if out.Parent == OutcomeCreated || out.Parent == OutcomeReused {
			out.Parent = in.firstUse(nodes[keyOf(e.Parent)])
		}

		if out.Err != nil {
			log.Debugw("Edge skipped", out.Err.ToLogFields()...)
		} else if logger.ShouldOutput(logger.Verbosity, logger.OutputEdgeOutcomes) {
			log.Debugw("Edge integrated",
				logger.FieldLine, e.Line,
				logger.FieldRelation, e.Relation,
				"created", out.EdgeCreated,
			)
		}
		result.Edges = append(result.Edges, out)
	}

	sum := result.Summary()
	log.Debugw("Integrated edge list",
		logger.FieldCount, sum.Edges,
		"edges_created", sum.EdgesCreated,
		"edges_skipped", sum.EdgesSkipped,
		logger.FieldFailures, len(result.Failures()),
	)
	return result, nil
}

func (in *Integrator) endpoint(r Ref, nodes map[spanKey]*resolvedSpan) (document.Endpoint, Outcome, *resolvedSpan) {
	if r.IsSentinel() {
		return document.SentinelEndpoint(r.Sentinel), OutcomeSentinel, nil
	}
	rs, ok := nodes[keyOf(r)]
	if !ok {
		return document.Endpoint{Node: document.NoNode}, OutcomeMissing, nil
	}
	return document.NodeEndpoint(rs.node), OutcomeReused, rs
}

func (in *Integrator) firstUse(rs *resolvedSpan) Outcome {
	outcome := OutcomeReused
	if rs.created && !rs.used {
		outcome = OutcomeCreated
	}
	rs.used = true
	return outcome
}
