// Package corpus runs integration and scoring over many documents at once.
//
// Documents share nothing: each job integrates into its own document with its
// own builder and caches, so jobs run in parallel without locks. A failure in
// one document is recorded in that document's Outcome and never stops the
// others.
package corpus

import (
	"context"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/teranos/annograph/document"
	"github.com/teranos/annograph/graph"
	"github.com/teranos/annograph/logger"
	"github.com/teranos/annograph/score"
)

// Integrator integrates one document's edge list.
type Integrator interface {
	Integrate(doc *document.Document, edges []graph.EdgeSpec) (*graph.Result, error)
}

// Job is one document and the edges to integrate into it.
type Job struct {
	Document *document.Document
	Edges    []graph.EdgeSpec
}

// Outcome is the result of one job. Err is a document-fatal error or the
// context error when the job never started; Result may still hold the
// partial graph of a failed document.
type Outcome struct {
	DocumentID string
	Result     *graph.Result
	Err        error
	Duration   time.Duration
}

// Failed reports whether the document was aborted or skipped.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// Workers resolves a worker count; zero or less means one per CPU.
func Workers(n int) int {
	if n <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}

// Integrate runs every job with at most workers in flight and returns one
// Outcome per job, in job order. Cancellation is checked before each document
// starts; the returned error is ctx.Err() when any job was skipped.
func Integrate(ctx context.Context, jobs []Job, integrator Integrator, workers int, log *zap.SugaredLogger) ([]Outcome, error) {
	log = logger.OrNop(log).Named("corpus")
	outcomes := make([]Outcome, len(jobs))

	log.Debugw("Integrating corpus",
		logger.FieldCount, len(jobs),
		logger.FieldWorkers, Workers(workers),
	)

	var g errgroup.Group
	g.SetLimit(Workers(workers))
	for i := range jobs {
		job := jobs[i]
		outcomes[i].DocumentID = job.Document.ID

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				outcomes[i].Err = err
				return nil
			}

			start := time.Now()
			res, err := integrator.Integrate(job.Document, job.Edges)
			outcomes[i].Result = res
			outcomes[i].Err = err
			outcomes[i].Duration = time.Since(start)

			docLog := logger.ChildLogger(log, logger.FieldDocument, job.Document.ID)
			if err != nil {
				docLog.Warnw("Document aborted", logger.FieldError, err.Error())
			} else {
				docLog.Debugw("Document integrated",
					logger.FieldDurationMS, outcomes[i].Duration.Milliseconds(),
					logger.FieldFailures, len(res.Failures()),
				)
			}
			return nil
		})
	}
	// jobs never return errors; failures live in their outcomes
	_ = g.Wait()

	return outcomes, ctx.Err()
}

// Summary counts outcomes.
type Summary struct {
	Documents     int `json:"documents" yaml:"documents"`
	Succeeded     int `json:"succeeded" yaml:"succeeded"`
	Failed        int `json:"failed" yaml:"failed"`
	graph.Summary `yaml:",inline"`
}

// Summarize adds up the outcomes of a run.
func Summarize(outcomes []Outcome) Summary {
	s := Summary{Documents: len(outcomes)}
	for _, o := range outcomes {
		if o.Failed() {
			s.Failed++
		} else {
			s.Succeeded++
		}
		if o.Result == nil {
			continue
		}
		r := o.Result.Summary()
		s.Edges += r.Edges
		s.EdgesCreated += r.EdgesCreated
		s.EdgesReused += r.EdgesReused
		s.EdgesSkipped += r.EdgesSkipped
		s.NodesCreated += r.NodesCreated
		s.SpanFailures += r.SpanFailures
		s.Conflicts += r.Conflicts
	}
	return s
}

// Score scores every document of s in parallel and aggregates the corpus.
// Documents are reported in sorted id order.
func Score(ctx context.Context, s *score.Scorer, workers int) (score.Report, error) {
	ids := s.Documents()
	docs := make([]score.DocumentScore, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(Workers(workers))
	for i, id := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ref, cand := s.Pair(id)
			docs[i] = score.ScoreDocument(id, ref, cand)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return score.Report{}, err
	}

	r := score.Report{Documents: docs}
	r.Micro, r.Macro = score.Aggregate(docs)
	return r, nil
}
