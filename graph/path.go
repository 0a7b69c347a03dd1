// Copyright © 2026 the forml authors.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package graph

// Discriminant distinguishes the two Path variants.
type Discriminant int

const (
	// Channel is a Path whose tail publishes Apply data: it has at least one
	// outgoing Apply edge (alongside any Train/Label edges), or no outgoing
	// edge at all.
	Channel Discriminant = iota
	// Closure is a Path whose tail publishes exclusively into Train/Label
	// ports — data dead-ends into training. Closures are non-extendable.
	Closure
)

// Path is a head/tail-anchored sub-graph with copy/extend operations,
// discriminated as Channel or Closure.
type Path struct {
	head, tail *Node
	kind       Discriminant
}

// NewPath constructs a Path rooted at head, resolving its tail by walking
// Mappers from head (disambiguated by the optional expected tail). It
// fails with ErrBadHead / ErrBadTail when the endpoints violate the
// szin/szout ∈ {0,1} arity constraint.
func NewPath(head *Node, expected *Node) (*Path, error) {
	if head.SzIn() > 1 {
		return nil, newError(ErrBadHead, head.DebugID(), "", "head must have at most one apply input")
	}

	term, err := NewTraversal(head).Tail(expected)
	if err != nil {
		return nil, err
	}
	tail := term.Current()

	if tail.SzOut() > 1 {
		return nil, newError(ErrBadTail, tail.DebugID(), "", "tail must have at most one apply output")
	}

	return &Path{head: head, tail: tail, kind: discriminate(tail)}, nil
}

func discriminate(tail *Node) Discriminant {
	if tail.SzOut() == 0 {
		return Channel
	}
	for _, e := range tail.output[0] {
		if e.SubPort.Kind == PortApply {
			return Channel
		}
	}
	if len(tail.output[0]) > 0 {
		return Closure
	}
	return Channel
}

// Head is the Path's anchoring head node.
func (p *Path) Head() *Node { return p.head }

// Tail is the Path's anchoring tail node.
func (p *Path) Tail() *Node { return p.tail }

// Kind reports whether p is a Channel or a Closure.
func (p *Path) Kind() Discriminant { return p.kind }

// Publisher is the publishable handle of tail's single Apply output. For a
// Closure it is restricted: subscribing it to an Apply port fails with
// ErrClosurePublishing, forwarding only Train/Label subscriptions so later
// stages can still wire training signals without leaking data out of a
// closed branch.
type Publisher struct {
	path *Path
}

// Publisher returns p's publishable handle.
func (p *Path) Publisher() *Publisher { return &Publisher{path: p} }

// SubscribeTo wires sub's input port to the publisher's underlying tail
// output.
func (pub *Publisher) SubscribeTo(sub *Node, subPort Port) error {
	if pub.path.kind == Closure && subPort.Kind == PortApply {
		return newError(ErrClosurePublishing, pub.path.tail.DebugID(), subPort.String(), "closure tail cannot publish into an apply port")
	}
	return Subscribe(pub.path.tail, 0, sub, subPort)
}

// Subscribe wires head's single Apply input to the given publisher's tail
// output.
func (p *Path) Subscribe(pub *Publisher) error {
	return pub.SubscribeTo(p.head, Apply(0))
}

// Extend grows a Channel by subscribing right's head to self's tail, or —
// when right is nil — by retracing from tail to the given (or natural)
// terminal and re-anchoring there. It fails with ErrClosurePathExtension
// on a Closure unless the call is a structural no-op (right nil and tail
// equal to self's current tail).
func (p *Path) Extend(right *Path, tail *Node) (*Path, error) {
	if p.kind == Closure {
		if right != nil || (tail != nil && tail != p.tail) {
			return nil, newError(ErrClosurePathExtension, p.tail.DebugID(), "", "cannot extend a closure")
		}
		return p, nil
	}

	if right == nil {
		term, err := NewTraversal(p.tail).Tail(tail)
		if err != nil {
			return nil, err
		}
		return &Path{head: p.head, tail: term.Current(), kind: discriminate(term.Current())}, nil
	}

	if err := p.Publisher().SubscribeTo(right.head, Apply(0)); err != nil {
		return nil, err
	}

	return &Path{head: p.head, tail: right.tail, kind: right.kind}, nil
}

// Copy produces a structurally isomorphic Path over brand-new, independent
// Worker instances (fresh fork groups, not forks of the originals) using
// Traversal.Copy.
func (p *Path) Copy() (*Path, error) {
	copies, err := NewTraversal(p.head).Copy(p.tail)
	if err != nil {
		return nil, err
	}
	head, tail := copies[p.head], copies[p.tail]
	return &Path{head: head, tail: tail, kind: discriminate(tail)}, nil
}

// Visitor is implemented by runners, renderers, and consistency checkers
// that walk a compiled graph. Path.Accept guarantees each node is visited
// exactly once and VisitPath is invoked last; traversal order is
// deterministic (subscription insertion order).
type Visitor interface {
	VisitNode(n *Node)
	VisitPath(p *Path)
}

// Accept invokes Each with the visitor's node handler and finally
// visitor.VisitPath(p).
func (p *Path) Accept(v Visitor) error {
	if err := NewTraversal(p.head).Each(p.tail, v.VisitNode); err != nil {
		return err
	}
	v.VisitPath(p)
	return nil
}
