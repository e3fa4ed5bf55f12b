package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/annograph/am"
	"github.com/teranos/annograph/corpus"
	"github.com/teranos/annograph/document"
	"github.com/teranos/annograph/errors"
	"github.com/teranos/annograph/graph"
	grapherr "github.com/teranos/annograph/graph/error"
	"github.com/teranos/annograph/graphstore"
	"github.com/teranos/annograph/logger"
	"github.com/teranos/annograph/score"
)

// IntegrateCmd integrates edge lists into tokenized documents
var IntegrateCmd = &cobra.Command{
	Use:   "integrate",
	Short: "Integrate edge lists into documents",
	Long: `Integrate externally produced edges into tokenized documents.

Each --doc is paired with the --edges file at the same position. Documents are
integrated in parallel; a document whose edges reference sentences or tokens
outside it is aborted without affecting the others.

With --from-db each --doc is the id of a stored document. The edges are added
to it as one more graph over the same nodes and the document is saved back, so
a temporal run after a modal run keeps both graphs. Without --from-db, saving
replaces any stored document with the same id.

Edge lines are tab-separated:
  child  child_label  parent  relation  [confidence]

Examples:
  annograph integrate --doc a.json --edges a.tsv
  annograph integrate --doc a.json --edges a.tsv --doc b.json --edges b.tsv --save
  annograph integrate --doc a.json --edges a.tsv --graph temporal --format json
  annograph integrate --from-db --doc doc-1 --edges doc-1.temporal.tsv --graph temporal`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := am.Load()
		if err != nil {
			return errors.Wrap(err, "failed to load configuration")
		}
		if err := cfg.Validate(); err != nil {
			return errors.Wrap(err, "invalid configuration")
		}
		if integrateOpts.Workers == 0 {
			integrateOpts.Workers = cfg.Integration.Workers
		}
		if !cmd.Flags().Changed("format") {
			integrateOpts.Format = cfg.Scoring.Format
		}
		_, err = runIntegrate(cmd.Context(), cfg, integrateOpts, cmd.OutOrStdout())
		return err
	},
}

type integrateOptions struct {
	Docs    []string
	Edges   []string
	Graph   string
	DBPath  string
	Save    bool
	FromDB  bool
	Format  string
	Workers int
}

var integrateOpts integrateOptions

func init() {
	IntegrateCmd.Flags().StringArrayVar(&integrateOpts.Docs, "doc", nil, "Document JSON file (repeatable)")
	IntegrateCmd.Flags().StringArrayVar(&integrateOpts.Edges, "edges", nil, "Edge list for the --doc at the same position (repeatable)")
	IntegrateCmd.Flags().StringVar(&integrateOpts.Graph, "graph", "", "Graph name (default from integration.graph)")
	IntegrateCmd.Flags().BoolVar(&integrateOpts.Save, "save", false, "Save integrated documents to the database")
	IntegrateCmd.Flags().StringVar(&integrateOpts.DBPath, "db", "", "Database path (default from database.path; implies --save)")
	IntegrateCmd.Flags().BoolVar(&integrateOpts.FromDB, "from-db", false, "Treat each --doc as a stored document id and save it back (implies --save)")
	IntegrateCmd.Flags().StringVar(&integrateOpts.Format, "format", score.FormatTable, "Output format: table, json, yaml")
	IntegrateCmd.Flags().IntVar(&integrateOpts.Workers, "workers", 0, "Documents integrated in parallel (default one per CPU)")
	IntegrateCmd.MarkFlagRequired("doc")
	IntegrateCmd.MarkFlagRequired("edges")
}

// DocumentReport is the integration result of one document
type DocumentReport struct {
	ID             string              `json:"id" yaml:"id"`
	Status         string              `json:"status" yaml:"status"`
	Error          string              `json:"error,omitempty" yaml:"error,omitempty"`
	MalformedLines int                 `json:"malformed_lines" yaml:"malformed_lines"`
	DurationMS     int64               `json:"duration_ms" yaml:"duration_ms"`
	Failures       []map[string]string `json:"failures,omitempty" yaml:"failures,omitempty"`
	graph.Summary  `yaml:",inline"`
}

// IntegrationReport is the result of an integrate run
type IntegrationReport struct {
	Graph     string           `json:"graph" yaml:"graph"`
	Documents []DocumentReport `json:"documents" yaml:"documents"`
	Summary   corpus.Summary   `json:"summary" yaml:"summary"`
	Saved     int              `json:"saved" yaml:"saved"`
}

func runIntegrate(ctx context.Context, cfg *am.Config, opts integrateOptions, out io.Writer) (*IntegrationReport, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(opts.Docs) == 0 || len(opts.Docs) != len(opts.Edges) {
		return nil, errors.NewInvalidRequestError("need one --edges per --doc, got %d documents and %d edge lists", len(opts.Docs), len(opts.Edges))
	}
	if !isFormat(opts.Format) {
		return nil, errors.NewInvalidRequestError("unsupported format %q", opts.Format)
	}

	gc, err := cfg.IntegratorConfig()
	if err != nil {
		return nil, err
	}
	if opts.Graph != "" {
		gc.Graph = opts.Graph
	}

	var store *graphstore.Store
	if opts.Save || opts.FromDB || opts.DBPath != "" {
		database, s, err := openStore(opts.DBPath)
		if err != nil {
			return nil, err
		}
		defer database.Close()
		store = s
	}

	jobs := make([]corpus.Job, len(opts.Docs))
	malformed := make([]int, len(opts.Docs))
	for i := range opts.Docs {
		var doc *document.Document
		if opts.FromDB {
			doc, err = store.LoadDocument(ctx, opts.Docs[i])
		} else {
			doc, err = readDocument(opts.Docs[i])
		}
		if err != nil {
			return nil, err
		}
		edges, failures, err := readEdges(opts.Edges[i])
		if err != nil {
			return nil, err
		}
		logFailures(opts.Edges[i], failures)
		jobs[i] = corpus.Job{Document: doc, Edges: edges}
		malformed[i] = len(failures)
	}

	integrator := graph.NewIntegrator(gc, logger.ComponentLogger("graph.integrator"))
	outcomes, err := corpus.Integrate(ctx, jobs, integrator, opts.Workers, logger.ComponentLogger("corpus"))
	if err != nil {
		return nil, errors.Wrap(err, "integration interrupted")
	}

	report := &IntegrationReport{Graph: gc.Graph, Summary: corpus.Summarize(outcomes)}
	for i, o := range outcomes {
		dr := DocumentReport{
			ID:             o.DocumentID,
			Status:         "ok",
			MalformedLines: malformed[i],
			DurationMS:     o.Duration.Milliseconds(),
		}
		if o.Result != nil {
			dr.Summary = o.Result.Summary()
			for _, f := range o.Result.Failures() {
				dr.Failures = append(dr.Failures, f.ToMeta())
			}
		}
		if o.Failed() {
			dr.Status = "aborted"
			dr.Error = o.Err.Error()
		}
		report.Documents = append(report.Documents, dr)
	}

	if store != nil {
		saved, err := saveOutcomes(ctx, store, jobs, outcomes)
		report.Saved = saved
		if err != nil {
			return report, err
		}
	}

	return report, renderIntegration(out, report, opts.Format)
}

func readDocument(path string) (*document.Document, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	doc, err := document.DecodeJSON(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read document %s", path)
	}
	return doc, nil
}

// readEdges parses an edge list. Malformed lines are returned, not fatal.
func readEdges(path string) ([]graph.EdgeSpec, []*grapherr.GraphError, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	edges, failures, err := graph.ParseEdgeList(f)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to read edges %s", path)
	}
	return edges, failures, nil
}

// saveOutcomes stores every document that integrated without a fatal error
func saveOutcomes(ctx context.Context, store *graphstore.Store, jobs []corpus.Job, outcomes []corpus.Outcome) (int, error) {
	saved := 0
	for i, o := range outcomes {
		if o.Failed() {
			continue
		}
		if err := store.SaveDocument(ctx, jobs[i].Document); err != nil {
			return saved, errors.Wrapf(err, "failed to save document %s", o.DocumentID)
		}
		saved++
	}
	return saved, nil
}

func renderIntegration(w io.Writer, r *IntegrationReport, format string) error {
	switch format {
	case score.FormatJSON:
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal report to JSON")
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case score.FormatYAML:
		data, err := yaml.Marshal(r)
		if err != nil {
			return errors.Wrap(err, "failed to marshal report to YAML")
		}
		_, err = w.Write(data)
		return err
	}

	data := pterm.TableData{{"Document", "Status", "Edges", "Created", "Reused", "Skipped", "Nodes", "Span failures", "Conflicts", "Malformed"}}
	for _, d := range r.Documents {
		data = append(data, []string{
			d.ID, d.Status,
			itoa(d.Edges), itoa(d.EdgesCreated), itoa(d.EdgesReused), itoa(d.EdgesSkipped),
			itoa(d.NodesCreated), itoa(d.SpanFailures), itoa(d.Conflicts), itoa(d.MalformedLines),
		})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, "failed to render table")
	}
	fmt.Fprintln(w, table)
	fmt.Fprintf(w, "graph %s: %d documents, %d succeeded, %d aborted", r.Graph, r.Summary.Documents, r.Summary.Succeeded, r.Summary.Failed)
	if r.Saved > 0 {
		fmt.Fprintf(w, ", %d saved", r.Saved)
	}
	fmt.Fprintln(w)
	for _, d := range r.Documents {
		if d.Error != "" {
			fmt.Fprintf(w, "  %s: %s\n", d.ID, d.Error)
		}
	}
	if logger.ShouldOutput(logger.Verbosity, logger.OutputItemFailures) {
		for _, d := range r.Documents {
			for _, f := range d.Failures {
				fmt.Fprintf(w, "  %s: %s: %s\n", d.ID, f["description"], f["error"])
			}
		}
	}
	return nil
}

func openFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	return f, nil
}
