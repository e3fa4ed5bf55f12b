package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/teranos/annograph/am"
	"github.com/teranos/annograph/corpus"
	"github.com/teranos/annograph/errors"
	grapherr "github.com/teranos/annograph/graph/error"
	"github.com/teranos/annograph/logger"
	"github.com/teranos/annograph/score"
)

// ScoreCmd scores candidate edges against reference edges
var ScoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score candidate edges against reference edges",
	Long: `Compare candidate edges with reference edges per document.

Both files group edges under "filename:<doc id>" header lines:
  child  relation  parent  [extra columns ignored]

Without --cand, candidates are read from the stored documents named in the
reference file (graph from --graph or scoring.graph).

Each document is scored labeled (child, relation, parent), unlabeled
(child, relation) and rel_only (child, parent). Micro scores sum counts over
the corpus; macro scores average per-document precision, recall and F1.

Examples:
  annograph score --ref gold.tsv --cand pred.tsv
  annograph score --ref gold.tsv --db corpus.db --graph modal --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := am.Load()
		if err != nil {
			return errors.Wrap(err, "failed to load configuration")
		}
		if !cmd.Flags().Changed("format") {
			scoreOpts.Format = cfg.Scoring.Format
		}
		if !cmd.Flags().Changed("graph") {
			scoreOpts.Graph = cfg.Scoring.Graph
		}
		if scoreOpts.Workers == 0 {
			scoreOpts.Workers = cfg.Scoring.Workers
		}
		_, err = runScore(cmd.Context(), scoreOpts, cmd.OutOrStdout())
		return err
	},
}

type scoreOptions struct {
	Ref     string
	Cand    string
	DBPath  string
	Graph   string
	Format  string
	Workers int
}

var scoreOpts scoreOptions

func init() {
	ScoreCmd.Flags().StringVar(&scoreOpts.Ref, "ref", "", "Reference edge file")
	ScoreCmd.Flags().StringVar(&scoreOpts.Cand, "cand", "", "Candidate edge file (omit to score stored documents)")
	ScoreCmd.Flags().StringVar(&scoreOpts.DBPath, "db", "", "Database holding candidate documents (default from database.path)")
	ScoreCmd.Flags().StringVar(&scoreOpts.Graph, "graph", "", "Graph of stored documents to score (empty = every edge)")
	ScoreCmd.Flags().StringVar(&scoreOpts.Format, "format", score.FormatTable, "Output format: table, json, yaml")
	ScoreCmd.Flags().IntVar(&scoreOpts.Workers, "workers", 0, "Documents scored in parallel (default one per CPU)")
	ScoreCmd.MarkFlagRequired("ref")
}

func runScore(ctx context.Context, opts scoreOptions, out io.Writer) (score.Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !isFormat(opts.Format) {
		return score.Report{}, errors.NewInvalidRequestError("unsupported format %q", opts.Format)
	}

	ref, err := loadEdgeFile(opts.Ref)
	if err != nil {
		return score.Report{}, err
	}
	scorer := score.NewScorer()
	scorer.AddReferenceFile(ref)

	if opts.Cand != "" {
		cand, err := loadEdgeFile(opts.Cand)
		if err != nil {
			return score.Report{}, err
		}
		scorer.AddCandidateFile(cand)
	} else if err := addStoredCandidates(ctx, scorer, ref.Order, opts); err != nil {
		return score.Report{}, err
	}

	report, err := corpus.Score(ctx, scorer, opts.Workers)
	if err != nil {
		return score.Report{}, errors.Wrap(err, "scoring interrupted")
	}
	return report, score.Render(out, report, opts.Format)
}

func loadEdgeFile(path string) (*score.EdgeFile, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ef, failures, err := score.LoadEdges(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	logFailures(path, failures)
	return ef, nil
}

func logFailures(path string, failures []*grapherr.GraphError) {
	if len(failures) == 0 {
		return
	}
	logger.Warnw("Skipped malformed edge lines", logger.FieldFile, path, logger.FieldCount, len(failures))
	for _, f := range failures {
		logger.Debugw("Malformed edge line", append(f.ToLogFields(), logger.FieldFile, path)...)
	}
}

// addStoredCandidates projects stored documents onto candidate triples. A
// reference document missing from the store is scored against no candidates.
func addStoredCandidates(ctx context.Context, scorer *score.Scorer, ids []string, opts scoreOptions) error {
	database, store, err := openStore(opts.DBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	for _, id := range ids {
		doc, err := store.LoadDocument(ctx, id)
		if errors.Is(err, errors.ErrNotFound) {
			logger.Warnw("Reference document not stored", logger.FieldDocument, id)
			continue
		}
		if err != nil {
			return err
		}
		scorer.AddCandidate(id, score.TriplesFromDocument(doc, opts.Graph)...)
	}
	return nil
}
