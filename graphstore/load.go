package graphstore

import (
	"context"
	"database/sql"

	"github.com/teranos/annograph/document"
	"github.com/teranos/annograph/errors"
	"github.com/teranos/annograph/internal/util"
	"github.com/teranos/annograph/logger"
)

const (
	selectSentencesQuery = `SELECT idx FROM sentences WHERE document_id = ? ORDER BY idx`

	selectTokensQuery = `
		SELECT sentence, idx, text, start_char, end_char, start_edt, end_edt
		FROM tokens WHERE document_id = ? ORDER BY sentence, idx`

	selectSynNodesQuery = `
		SELECT sentence, id, parent, tag, start_token, end_token
		FROM syn_nodes WHERE document_id = ? ORDER BY sentence, id`

	selectNodesQuery = `
		SELECT id, uid, variant, label, sentence, start_token, end_token, head_start, head_end, syn, confidence
		FROM nodes WHERE document_id = ? ORDER BY id`

	selectNodeArgsQuery = `
		SELECT node_id, role, value
		FROM node_args WHERE document_id = ? ORDER BY node_id, position`

	selectEdgesQuery = `
		SELECT id, graph, relation, child_node, child_sentinel, parent_node, parent_sentinel
		FROM edges WHERE document_id = ? ORDER BY id`

	selectRootsQuery = `SELECT graph, node, sentinel FROM graph_roots WHERE document_id = ? ORDER BY graph`

	selectEntityMentionsQuery = `
		SELECT entity_id, node_id
		FROM entity_mentions WHERE document_id = ? ORDER BY entity_id, position`

	selectEntitiesQuery = `SELECT id, type FROM entities WHERE document_id = ? ORDER BY id`

	selectRelMentionsQuery = `
		SELECT id, type, left_node, right_node
		FROM rel_mentions WHERE document_id = ? ORDER BY id`

	selectActorMentionsQuery = `
		SELECT id, label, actor_name, mention
		FROM actor_mentions WHERE document_id = ? ORDER BY id`

	selectPropArgsQuery = `
		SELECT proposition_id, role, syn, node
		FROM proposition_args WHERE document_id = ? ORDER BY proposition_id, position`

	selectPropositionsQuery = `
		SELECT id, pred_type, sentence, head
		FROM propositions WHERE document_id = ? ORDER BY id`
)

// LoadDocument reads a stored document. Unknown ids return ErrNotFound.
func (s *Store) LoadDocument(ctx context.Context, id string) (*document.Document, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx, documentExistsQuery, id).Scan(&exists); err != nil {
		return nil, errors.Wrapf(err, "failed to look up document %s", id)
	}
	if !exists {
		return nil, errors.NewNotFoundError("document %s", id)
	}

	r := &reader{ctx: ctx, db: s.db, doc: document.New(id)}
	steps := []struct {
		what string
		load func() error
	}{
		{"sentences", r.sentences},
		{"syntax", r.syntax},
		{"nodes", r.nodes},
		{"arguments", r.arguments},
		{"edges", r.edges},
		{"roots", r.roots},
		{"entities", r.entities},
		{"relation mentions", r.relMentions},
		{"actor mentions", r.actorMentions},
		{"propositions", r.propositions},
	}
	for _, step := range steps {
		if err := step.load(); err != nil {
			return nil, errors.Wrapf(err, "failed to load %s of document %s", step.what, id)
		}
	}

	s.logger.Debugw("Loaded document",
		logger.FieldDocument, id,
		"nodes", len(r.doc.Nodes),
		"edges", len(r.doc.Edges),
	)
	return r.doc, nil
}

type reader struct {
	ctx context.Context
	db  *sql.DB
	doc *document.Document
}

// each runs query for this document and calls scan once per row.
func (r *reader) each(query string, scan func(*sql.Rows) error) error {
	rows, err := r.db.QueryContext(r.ctx, query, r.doc.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *reader) sentences() error {
	n := 0
	err := r.each(selectSentencesQuery, func(rows *sql.Rows) error {
		var idx int
		if err := rows.Scan(&idx); err != nil {
			return err
		}
		if idx != n {
			return errors.Newf("sentence %d stored out of sequence, expected %d", idx, n)
		}
		n++
		return nil
	})
	if err != nil {
		return err
	}

	tokens := make([][]document.Token, n)
	err = r.each(selectTokensQuery, func(rows *sql.Rows) error {
		var (
			sentence         int
			t                document.Token
			startEDT, endEDT sql.NullInt64
		)
		if err := rows.Scan(&sentence, &t.Index, &t.Text, &t.StartChar, &t.EndChar, &startEDT, &endEDT); err != nil {
			return err
		}
		if sentence < 0 || sentence >= n {
			return errors.NewOutOfRangef("token of unknown sentence %d", sentence)
		}
		if startEDT.Valid && endEDT.Valid {
			t.StartEDT, t.EndEDT, t.HasEDT = int(startEDT.Int64), int(endEDT.Int64), true
		}
		tokens[sentence] = append(tokens[sentence], t)
		return nil
	})
	if err != nil {
		return err
	}

	for i := range tokens {
		if _, err := r.doc.AddSentence(tokens[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *reader) syntax() error {
	return r.each(selectSynNodesQuery, func(rows *sql.Rows) error {
		var (
			sentence, id, parent, start, end int
			tag                              string
		)
		if err := rows.Scan(&sentence, &id, &parent, &tag, &start, &end); err != nil {
			return err
		}
		s, err := r.doc.Sentence(sentence)
		if err != nil {
			return err
		}
		got, err := s.AddSynNode(document.SynID(parent), tag, start, end)
		if err != nil {
			return err
		}
		if int(got) != id {
			return errors.Newf("syntax node %d of sentence %d loaded as %d", id, sentence, got)
		}
		return nil
	})
}

func (r *reader) nodes() error {
	return r.each(selectNodesQuery, func(rows *sql.Rows) error {
		var (
			id, syn      int
			variant      string
			spec         document.NodeSpec
			confidence   sql.NullFloat64
			headS, headE int
		)
		if err := rows.Scan(&id, &spec.UID, &variant, &spec.Label, &spec.Sentence, &spec.Start, &spec.End,
			&headS, &headE, &syn, &confidence); err != nil {
			return err
		}
		v, err := document.ParseVariant(variant)
		if err != nil {
			return err
		}
		spec.Variant = v
		spec.Syn = document.SynID(syn)
		if headS >= 0 {
			spec.HasHead, spec.HeadStart, spec.HeadEnd = true, headS, headE
		}
		if confidence.Valid {
			spec.Confidence = util.Ptr(confidence.Float64)
		}

		got, err := r.doc.AddNode(spec)
		if err != nil {
			return err
		}
		if int(got) != id {
			return errors.Newf("node %d loaded as %d", id, got)
		}
		return nil
	})
}

func (r *reader) arguments() error {
	return r.each(selectNodeArgsQuery, func(rows *sql.Rows) error {
		var (
			node, value int
			role        string
		)
		if err := rows.Scan(&node, &role, &value); err != nil {
			return err
		}
		return r.doc.AddArgument(document.NodeID(node), role, document.NodeID(value))
	})
}

// endpoint rebuilds an endpoint from its node and sentinel columns.
func endpoint(node sql.NullInt64, sentinel string) (document.Endpoint, error) {
	if sentinel != "" {
		s, ok := document.ParseSentinel(sentinel)
		if !ok {
			return document.Endpoint{}, errors.NewMalformedf("unknown sentinel %q", sentinel)
		}
		return document.SentinelEndpoint(s), nil
	}
	if !node.Valid {
		return document.Endpoint{}, errors.NewMalformedf("endpoint has neither node nor sentinel")
	}
	return document.NodeEndpoint(document.NodeID(node.Int64)), nil
}

func (r *reader) edges() error {
	return r.each(selectEdgesQuery, func(rows *sql.Rows) error {
		var (
			id                    int
			graph, relation       string
			childNode, parentNode sql.NullInt64
			childSen, parentSen   string
		)
		if err := rows.Scan(&id, &graph, &relation, &childNode, &childSen, &parentNode, &parentSen); err != nil {
			return err
		}
		child, err := endpoint(childNode, childSen)
		if err != nil {
			return errors.Wrapf(err, "edge %d child", id)
		}
		parent, err := endpoint(parentNode, parentSen)
		if err != nil {
			return errors.Wrapf(err, "edge %d parent", id)
		}
		got, err := r.doc.AddEdge(graph, relation, child, parent)
		if err != nil {
			return err
		}
		if int(got) != id {
			return errors.Newf("edge %d loaded as %d", id, got)
		}
		return nil
	})
}

func (r *reader) roots() error {
	return r.each(selectRootsQuery, func(rows *sql.Rows) error {
		var (
			graph, sentinel string
			node            sql.NullInt64
		)
		if err := rows.Scan(&graph, &node, &sentinel); err != nil {
			return err
		}
		ep, err := endpoint(node, sentinel)
		if err != nil {
			return errors.Wrapf(err, "root of graph %s", graph)
		}
		r.doc.SetRoot(graph, ep)
		return nil
	})
}

func (r *reader) entities() error {
	mentions := make(map[int][]document.NodeID)
	err := r.each(selectEntityMentionsQuery, func(rows *sql.Rows) error {
		var entity, node int
		if err := rows.Scan(&entity, &node); err != nil {
			return err
		}
		mentions[entity] = append(mentions[entity], document.NodeID(node))
		return nil
	})
	if err != nil {
		return err
	}

	return r.each(selectEntitiesQuery, func(rows *sql.Rows) error {
		var (
			id  int
			typ string
		)
		if err := rows.Scan(&id, &typ); err != nil {
			return err
		}
		_, err := r.doc.AddEntity(typ, mentions[id]...)
		return err
	})
}

func (r *reader) relMentions() error {
	return r.each(selectRelMentionsQuery, func(rows *sql.Rows) error {
		var (
			id, left, right int
			typ             string
		)
		if err := rows.Scan(&id, &typ, &left, &right); err != nil {
			return err
		}
		_, err := r.doc.AddRelMention(typ, document.NodeID(left), document.NodeID(right))
		return err
	})
}

func (r *reader) actorMentions() error {
	return r.each(selectActorMentionsQuery, func(rows *sql.Rows) error {
		var (
			id, mention      int
			label, actorName string
		)
		if err := rows.Scan(&id, &label, &actorName, &mention); err != nil {
			return err
		}
		_, err := r.doc.AddActorMention(label, actorName, document.NodeID(mention))
		return err
	})
}

func (r *reader) propositions() error {
	args := make(map[int][]document.PropArg)
	err := r.each(selectPropArgsQuery, func(rows *sql.Rows) error {
		var (
			prop, syn, node int
			role            string
		)
		if err := rows.Scan(&prop, &role, &syn, &node); err != nil {
			return err
		}
		args[prop] = append(args[prop], document.PropArg{Role: role, Syn: document.SynID(syn), Node: document.NodeID(node)})
		return nil
	})
	if err != nil {
		return err
	}

	return r.each(selectPropositionsQuery, func(rows *sql.Rows) error {
		var (
			id, sentence, head int
			predType           string
		)
		if err := rows.Scan(&id, &predType, &sentence, &head); err != nil {
			return err
		}
		_, err := r.doc.AddProposition(predType, sentence, document.SynID(head), args[id]...)
		return err
	})
}
