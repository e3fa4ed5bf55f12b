// Package graphstore persists annotation graphs in SQLite.
//
// A saved document is a faithful copy of its arenas: ids are stored as-is and
// loading rebuilds the document through the document package's constructors,
// so every invariant the in-memory graph enforces is checked again on load.
package graphstore

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/annograph/db"
	"github.com/teranos/annograph/document"
	"github.com/teranos/annograph/errors"
	"github.com/teranos/annograph/logger"
)

// Query constants
const (
	deleteDocumentQuery = `DELETE FROM documents WHERE id = ?`
	insertDocumentQuery = `INSERT INTO documents (id, saved_at) VALUES (?, ?)`
	insertSentenceQuery = `INSERT INTO sentences (document_id, idx) VALUES (?, ?)`

	insertTokenQuery = `
		INSERT INTO tokens (document_id, sentence, idx, text, start_char, end_char, start_edt, end_edt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	insertSynNodeQuery = `
		INSERT INTO syn_nodes (document_id, sentence, id, parent, tag, start_token, end_token)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	insertNodeQuery = `
		INSERT INTO nodes (document_id, id, uid, variant, label, sentence, start_token, end_token, head_start, head_end, syn, confidence)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	insertNodeArgQuery = `
		INSERT INTO node_args (document_id, node_id, position, role, value)
		VALUES (?, ?, ?, ?, ?)`

	insertEdgeQuery = `
		INSERT INTO edges (document_id, id, graph, relation, child_node, child_sentinel, parent_node, parent_sentinel)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	insertRootQuery = `INSERT INTO graph_roots (document_id, graph, node, sentinel) VALUES (?, ?, ?, ?)`

	insertEntityQuery        = `INSERT INTO entities (document_id, id, type) VALUES (?, ?, ?)`
	insertEntityMentionQuery = `INSERT INTO entity_mentions (document_id, entity_id, position, node_id) VALUES (?, ?, ?, ?)`

	insertRelMentionQuery = `
		INSERT INTO rel_mentions (document_id, id, type, left_node, right_node)
		VALUES (?, ?, ?, ?, ?)`

	insertActorMentionQuery = `
		INSERT INTO actor_mentions (document_id, id, label, actor_name, mention)
		VALUES (?, ?, ?, ?, ?)`

	insertPropositionQuery = `
		INSERT INTO propositions (document_id, id, pred_type, sentence, head)
		VALUES (?, ?, ?, ?, ?)`

	insertPropArgQuery = `
		INSERT INTO proposition_args (document_id, proposition_id, position, role, syn, node)
		VALUES (?, ?, ?, ?, ?, ?)`

	documentExistsQuery = `SELECT EXISTS(SELECT 1 FROM documents WHERE id = ?)`

	listDocumentsQuery = `
		SELECT d.id, d.saved_at,
			(SELECT COUNT(*) FROM sentences s WHERE s.document_id = d.id),
			(SELECT COUNT(*) FROM nodes n WHERE n.document_id = d.id),
			(SELECT COUNT(*) FROM edges e WHERE e.document_id = d.id)
		FROM documents d
		ORDER BY d.id`
)

// Store saves and loads annotation graphs.
type Store struct {
	db     *sql.DB
	logger *zap.SugaredLogger
	now    func() time.Time
}

// NewStore creates a store over an open, migrated database.
func NewStore(conn *sql.DB, log *zap.SugaredLogger) *Store {
	return &Store{
		db:     conn,
		logger: logger.OrNop(log).Named("graphstore"),
		now:    time.Now,
	}
}

// DocumentInfo summarizes a stored document.
type DocumentInfo struct {
	ID        string    `json:"id" yaml:"id"`
	SavedAt   time.Time `json:"saved_at" yaml:"saved_at"`
	Sentences int       `json:"sentences" yaml:"sentences"`
	Nodes     int       `json:"nodes" yaml:"nodes"`
	Edges     int       `json:"edges" yaml:"edges"`
}

// SaveDocument writes doc in a single transaction, replacing any stored
// document with the same id. On failure nothing is written.
func (s *Store) SaveDocument(ctx context.Context, doc *document.Document) (err error) {
	if doc == nil || doc.ID == "" {
		return errors.NewInvalidRequestError("cannot save a document without an id")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrapf(err, "failed to begin transaction for document %s", doc.ID)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Warnw("Rollback failed",
					logger.FieldDocument, doc.ID,
					logger.FieldError, rbErr.Error(),
				)
			}
		}
	}()

	w := &writer{ctx: ctx, tx: tx, doc: doc.ID}
	if err = w.exec(deleteDocumentQuery, doc.ID); err != nil {
		return errors.Wrapf(err, "failed to replace document %s", doc.ID)
	}
	if err = w.exec(insertDocumentQuery, doc.ID, s.now().UTC()); err != nil {
		return errors.Wrapf(err, "failed to insert document %s", doc.ID)
	}
	if err = w.sentences(doc); err != nil {
		return err
	}
	if err = w.nodes(doc); err != nil {
		return err
	}
	if err = w.edges(doc); err != nil {
		return err
	}
	if err = w.structures(doc); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrapf(err, "failed to commit document %s", doc.ID)
	}

	st := doc.Stats()
	s.logger.Infow("Saved document",
		logger.FieldDocument, doc.ID,
		"sentences", st.Sentences,
		"nodes", st.Nodes,
		"edges", st.Edges,
	)
	return nil
}

// DeleteDocument removes a stored document. Deleting an unknown id returns
// ErrNotFound.
func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, deleteDocumentQuery, id)
	if err != nil {
		return errors.Wrapf(err, "failed to delete document %s", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrapf(err, "failed to delete document %s", id)
	}
	if n == 0 {
		return errors.NewNotFoundError("document %s", id)
	}
	return nil
}

// ListDocuments returns every stored document ordered by id.
func (s *Store) ListDocuments(ctx context.Context) ([]DocumentInfo, error) {
	rows, err := s.db.QueryContext(ctx, listDocumentsQuery)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list documents")
	}
	defer rows.Close()

	var out []DocumentInfo
	for rows.Next() {
		var info DocumentInfo
		if err := rows.Scan(&info.ID, &info.SavedAt, &info.Sentences, &info.Nodes, &info.Edges); err != nil {
			return nil, errors.Wrap(err, "failed to scan document row")
		}
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to list documents")
	}
	return out, nil
}

type writer struct {
	ctx context.Context
	tx  *sql.Tx
	doc string
}

func (w *writer) exec(query string, args ...interface{}) error {
	_, err := w.tx.ExecContext(w.ctx, query, args...)
	return err
}

func (w *writer) sentences(doc *document.Document) error {
	for _, s := range doc.Sentences {
		if err := w.exec(insertSentenceQuery, w.doc, s.Index); err != nil {
			return errors.Wrapf(err, "failed to insert sentence %d", s.Index)
		}
		for _, t := range s.Tokens {
			var startEDT, endEDT sql.NullInt64
			if t.HasEDT {
				startEDT = sql.NullInt64{Int64: int64(t.StartEDT), Valid: true}
				endEDT = sql.NullInt64{Int64: int64(t.EndEDT), Valid: true}
			}
			if err := w.exec(insertTokenQuery, w.doc, s.Index, t.Index, t.Text, t.StartChar, t.EndChar, startEDT, endEDT); err != nil {
				return errors.Wrapf(err, "failed to insert token %d of sentence %d", t.Index, s.Index)
			}
		}
		for _, n := range s.Syntax {
			if err := w.exec(insertSynNodeQuery, w.doc, s.Index, int(n.ID), int(n.Parent), n.Tag, n.StartToken, n.EndToken); err != nil {
				return errors.Wrapf(err, "failed to insert syntax node %d of sentence %d", n.ID, s.Index)
			}
		}
	}
	return nil
}

func (w *writer) nodes(doc *document.Document) error {
	for _, n := range doc.Nodes {
		var conf sql.NullFloat64
		if n.Confidence != nil {
			conf = sql.NullFloat64{Float64: *n.Confidence, Valid: true}
		}
		err := w.exec(insertNodeQuery, w.doc, int(n.ID), n.UID, n.Variant.String(), n.Label,
			n.Sentence, n.Start, n.End, n.HeadStart, n.HeadEnd, int(n.Syn), conf)
		if err != nil {
			if db.IsConstraintViolation(err) {
				return errors.Wrapf(errors.ErrDuplicateNodeConflict, "node %d %s: %v", n.ID, n.Key(), err)
			}
			return errors.Wrapf(err, "failed to insert node %d", n.ID)
		}
	}
	for _, n := range doc.Nodes {
		for i, arg := range n.Args {
			if err := w.exec(insertNodeArgQuery, w.doc, int(n.ID), i, arg.Role, int(arg.Value)); err != nil {
				return errors.Wrapf(err, "failed to insert argument %d of node %d", i, n.ID)
			}
		}
	}
	return nil
}

// endpointArgs splits an endpoint into a nullable node column and a sentinel column.
func endpointArgs(ep document.Endpoint) (sql.NullInt64, string) {
	if ep.IsSentinel() {
		return sql.NullInt64{}, string(ep.Sentinel)
	}
	return sql.NullInt64{Int64: int64(ep.Node), Valid: true}, ""
}

func (w *writer) edges(doc *document.Document) error {
	for _, e := range doc.Edges {
		childNode, childSen := endpointArgs(e.Child)
		parentNode, parentSen := endpointArgs(e.Parent)
		if err := w.exec(insertEdgeQuery, w.doc, int(e.ID), e.Graph, e.Relation, childNode, childSen, parentNode, parentSen); err != nil {
			return errors.Wrapf(err, "failed to insert edge %d", e.ID)
		}
	}
	for graph, root := range doc.Roots {
		node, sen := endpointArgs(root)
		if err := w.exec(insertRootQuery, w.doc, graph, node, sen); err != nil {
			return errors.Wrapf(err, "failed to insert root of graph %s", graph)
		}
	}
	return nil
}

func (w *writer) structures(doc *document.Document) error {
	for _, e := range doc.Entities {
		if err := w.exec(insertEntityQuery, w.doc, int(e.ID), e.Type); err != nil {
			return errors.Wrapf(err, "failed to insert entity %d", e.ID)
		}
		for i, m := range e.Mentions {
			if err := w.exec(insertEntityMentionQuery, w.doc, int(e.ID), i, int(m)); err != nil {
				return errors.Wrapf(err, "failed to insert mention %d of entity %d", i, e.ID)
			}
		}
	}
	for _, r := range doc.RelMentions {
		if err := w.exec(insertRelMentionQuery, w.doc, int(r.ID), r.Type, int(r.Left), int(r.Right)); err != nil {
			return errors.Wrapf(err, "failed to insert relation mention %d", r.ID)
		}
	}
	for _, a := range doc.ActorMentions {
		if err := w.exec(insertActorMentionQuery, w.doc, int(a.ID), a.Label, a.ActorName, int(a.Mention)); err != nil {
			return errors.Wrapf(err, "failed to insert actor mention %d", a.ID)
		}
	}
	for _, p := range doc.Propositions {
		if err := w.exec(insertPropositionQuery, w.doc, int(p.ID), p.PredType, p.Sentence, int(p.Head)); err != nil {
			return errors.Wrapf(err, "failed to insert proposition %d", p.ID)
		}
		for i, arg := range p.Args {
			if err := w.exec(insertPropArgQuery, w.doc, int(p.ID), i, arg.Role, int(arg.Syn), int(arg.Node)); err != nil {
				return errors.Wrapf(err, "failed to insert argument %d of proposition %d", i, p.ID)
			}
		}
	}
	return nil
}
