package document

import (
	"github.com/teranos/annograph/errors"
)

// Entity groups coreferent mentions, possibly across sentences.
type Entity struct {
	ID       EntityID
	Type     string
	Mentions []NodeID
}

// RelMention is a typed binary relation between two mentions.
type RelMention struct {
	ID    RelMentionID
	Type  string
	Left  NodeID
	Right NodeID
}

// ActorMention links a mention to a named actor.
type ActorMention struct {
	ID        ActorMentionID
	Label     string
	ActorName string
	Mention   NodeID
}

// PropArg is one argument of a proposition. Exactly one of Syn and Node is
// set; the other holds NoSyn or NoNode.
type PropArg struct {
	Role string
	Syn  SynID
	Node NodeID
}

// Proposition is a predicate anchored on a syntax node of one sentence.
type Proposition struct {
	ID       PropositionID
	PredType string
	Sentence int
	Head     SynID
	Args     []PropArg
}

func (d *Document) checkNodes(what string, ids ...NodeID) error {
	for _, id := range ids {
		if _, err := d.Node(id); err != nil {
			return errors.Wrap(err, what)
		}
	}
	return nil
}

// AddEntity appends an entity over existing mentions.
func (d *Document) AddEntity(typ string, mentions ...NodeID) (EntityID, error) {
	if err := d.checkNodes("entity mention", mentions...); err != nil {
		return -1, err
	}
	id := EntityID(len(d.Entities))
	d.Entities = append(d.Entities, Entity{ID: id, Type: typ, Mentions: append([]NodeID(nil), mentions...)})
	return id, nil
}

// AddRelMention appends a relation mention.
func (d *Document) AddRelMention(typ string, left, right NodeID) (RelMentionID, error) {
	if err := d.checkNodes("relation argument", left, right); err != nil {
		return -1, err
	}
	id := RelMentionID(len(d.RelMentions))
	d.RelMentions = append(d.RelMentions, RelMention{ID: id, Type: typ, Left: left, Right: right})
	return id, nil
}

// AddActorMention appends an actor mention.
func (d *Document) AddActorMention(label, actorName string, mention NodeID) (ActorMentionID, error) {
	if err := d.checkNodes("actor mention", mention); err != nil {
		return -1, err
	}
	id := ActorMentionID(len(d.ActorMentions))
	d.ActorMentions = append(d.ActorMentions, ActorMention{ID: id, Label: label, ActorName: actorName, Mention: mention})
	return id, nil
}

// AddProposition appends a proposition headed by a syntax node of sentence.
func (d *Document) AddProposition(predType string, sentence int, head SynID, args ...PropArg) (PropositionID, error) {
	s, err := d.Sentence(sentence)
	if err != nil {
		return -1, err
	}
	validSyn := func(id SynID) bool { return id >= 0 && int(id) < len(s.Syntax) }
	if !validSyn(head) {
		return -1, errors.NewNotFoundError("proposition head %d in sentence %d", head, sentence)
	}
	for _, a := range args {
		switch {
		case a.Syn != NoSyn && a.Node == NoNode:
			if !validSyn(a.Syn) {
				return -1, errors.NewNotFoundError("proposition argument %s: syntax node %d", a.Role, a.Syn)
			}
		case a.Syn == NoSyn && a.Node != NoNode:
			if err := d.checkNodes("proposition argument "+a.Role, a.Node); err != nil {
				return -1, err
			}
		default:
			return -1, errors.NewInvalidRequestError("proposition argument %s must reference exactly one of syntax node or mention", a.Role)
		}
	}
	id := PropositionID(len(d.Propositions))
	d.Propositions = append(d.Propositions, Proposition{
		ID:       id,
		PredType: predType,
		Sentence: sentence,
		Head:     head,
		Args:     append([]PropArg(nil), args...),
	})
	return id, nil
}
