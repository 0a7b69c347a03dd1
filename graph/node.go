// Copyright © 2026 the forml authors.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package graph

import (
	"fmt"

	"github.com/YamanAlBochi/forml/actor"
)

// Kind discriminates a Node's two possible roles.
type Kind int

const (
	// KindWorker is a node bound to an immutable actor spec.
	KindWorker Kind = iota
	// KindFuture is a transparent 1-in/1-out placeholder used only during
	// composition.
	KindFuture
)

// Subscription is a directed, immutable edge from a publisher's output
// port to a subscriber's input port. Once installed it is never mutated or
// removed; the edge list is authoritative.
type Subscription struct {
	Publisher   *Node
	PublishPort int
	Subscriber  *Node
	SubPort     Port
	seq         int
}

// pendingRef is a not-yet-installed subscriber waiting on a Future to
// resolve its upstream publisher.
type pendingRef struct {
	node *Node
	port Port
}

// Node is an atomic graph vertex: either a Worker bound to an actor spec
// or a Future placeholder. Node identity is distinct from its value — two
// forks of the same Worker are distinct Nodes sharing a ForkGroup.
type Node struct {
	id    int
	kind  Kind
	szin  int
	szout int

	spec  actor.Spec
	group *ForkGroup

	trained bool

	input  map[Port]*Subscription
	output [][]*Subscription

	sess *Session
	seq  int

	// Future-only bookkeeping. A Future dissolves the instant both its
	// upstream publisher and at least one downstream subscriber are known;
	// see subscribe.go. root futures (the three that seed a brand new
	// Trunk) are permitted to survive lowering undissolved — they denote
	// the graph's literal entry point.
	futureUpstream *Subscription
	futurePending  []pendingRef
	dissolved      bool
	root           bool
}

// NewWorker allocates a Worker bound to spec with the given input/output
// Apply arities, founding a brand-new fork group of size one.
func (s *Session) NewWorker(spec actor.Spec, szin, szout int) *Node {
	n := &Node{
		kind:   KindWorker,
		szin:   szin,
		szout:  szout,
		spec:   spec,
		input:  map[Port]*Subscription{},
		output: make([][]*Subscription, szout),
		sess:   s,
	}
	n.group = s.newForkGroup()
	n.group.members = append(n.group.members, n)
	return s.register(n)
}

// NewFuture allocates a 1-in/1-out placeholder node.
func (s *Session) NewFuture() *Node {
	n := &Node{
		kind:   KindFuture,
		szin:   1,
		szout:  1,
		input:  map[Port]*Subscription{},
		output: make([][]*Subscription, 1),
		sess:   s,
	}
	return s.register(n)
}

// NewRootFuture allocates a Future marked as a Trunk's seed node. Root
// futures are permitted to survive lowering undissolved: they denote the
// literal entry point of the compiled graph, wherever a runner injects
// input data.
func (s *Session) NewRootFuture() *Node {
	n := s.NewFuture()
	n.root = true
	return n
}

// Root reports whether n was allocated as a Trunk-seeding root Future.
func (n *Node) Root() bool { return n.root }

// Dissolved reports whether a Future has resolved away (replaced by a
// direct publisher→subscriber edge) or is otherwise exempt from the
// UnresolvedFuture check at lowering.
func (n *Node) Dissolved() bool { return n.dissolved }

// Fork returns a fresh Worker identical in spec and arities, joined to the
// same fork group, with empty input/output sets. It fails with
// ErrForkTrained if the source is already trained.
func (n *Node) Fork() (*Node, error) {
	if n.kind != KindWorker {
		return nil, newError(ErrForkTrained, n.DebugID(), "", "only Worker nodes can be forked")
	}
	if n.trained {
		return nil, newError(ErrForkTrained, n.DebugID(), "", "source worker is already trained")
	}

	f := &Node{
		kind:   KindWorker,
		szin:   n.szin,
		szout:  n.szout,
		spec:   n.spec,
		group:  n.group,
		input:  map[Port]*Subscription{},
		output: make([][]*Subscription, n.szout),
		sess:   n.sess,
	}
	n.group.members = append(n.group.members, f)
	return n.sess.register(f), nil
}

// Kind reports whether n is a Worker or a Future.
func (n *Node) Kind() Kind { return n.kind }

// SzIn is the number of Apply input slots.
func (n *Node) SzIn() int { return n.szin }

// SzOut is the number of Apply output slots.
func (n *Node) SzOut() int { return n.szout }

// Spec is the node's bound actor spec, nil for a Future.
func (n *Node) Spec() actor.Spec { return n.spec }

// ForkGroup is the node's fork-group membership, nil for a Future.
func (n *Node) ForkGroup() *ForkGroup { return n.group }

// Trained reports whether this node's Train or Label input has been wired.
func (n *Node) Trained() bool { return n.trained }

// ID is the node's session-local identifier.
func (n *Node) ID() int { return n.id }

// DebugID renders a human-readable node identity for error messages.
func (n *Node) DebugID() string {
	if n.kind == KindFuture {
		return fmt.Sprintf("future#%d", n.id)
	}
	name := "worker"
	if n.spec != nil {
		name = n.spec.Name()
	}
	return fmt.Sprintf("%s#%d(group=%d)", name, n.id, n.group.id)
}

// Outputs enumerates the installed subscriptions leaving output port i, in
// insertion order.
func (n *Node) Outputs(i int) []*Subscription {
	if i < 0 || i >= len(n.output) {
		return nil
	}
	out := make([]*Subscription, len(n.output[i]))
	copy(out, n.output[i])
	return out
}

// Train wires both Train and Label inputs of n in one call: a Worker
// convenience enforcing that neither publisher is itself trained and that
// n is not already trained on either port.
func (n *Node) Train(features *Node, featuresPort int, label *Node, labelPort int) error {
	if n.trained {
		return newError(ErrAlreadyBound, n.DebugID(), Train.String(), "worker is already trained")
	}
	if features.trained {
		return newError(ErrTrainedPublisher, features.DebugID(), "", "features publisher is already trained")
	}
	if label.trained {
		return newError(ErrTrainedPublisher, label.DebugID(), "", "label publisher is already trained")
	}
	if err := subscribe(features, featuresPort, n, Train); err != nil {
		return err
	}
	if err := subscribe(label, labelPort, n, Label); err != nil {
		return err
	}
	return nil
}
