// Copyright © 2026 the forml authors.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package graph

// Mask filters which downstream nodes a Traversal step is allowed to land
// on.
type Mask func(*Node) bool

// NotTrained excludes Worker nodes whose Train/Label input has been wired,
// the mask used by Traversal.Mappers.
func NotTrained(n *Node) bool { return !n.Trained() }

// Traversal is a cycle-detecting walk over the output relation, masked by
// an optional predicate. Each step carries the set of nodes already
// visited on the current walk so a revisit can be reported as a cycle
// rather than silently deduplicated.
type Traversal struct {
	current *Node
	preds   map[*Node]bool
}

// NewTraversal starts a Traversal rooted at n.
func NewTraversal(n *Node) *Traversal {
	return &Traversal{current: n, preds: map[*Node]bool{}}
}

// Current is the node this Traversal step stands on.
func (t *Traversal) Current() *Node { return t.current }

// Directs iterates downstream nodes reached via current's output edges plus
// any extras (used to splice Futures not yet physically subscribed),
// skipping duplicates, applying mask if supplied, and failing with
// ErrCyclicGraph if a candidate lies in the predecessor set.
func (t *Traversal) Directs(extras []*Node, mask Mask) ([]*Traversal, error) {
	seen := map[*Node]bool{}
	var out []*Traversal

	add := func(n *Node) error {
		if n == nil || seen[n] {
			return nil
		}
		seen[n] = true
		if mask != nil && !mask(n) {
			return nil
		}
		if t.preds[n] {
			return newError(ErrCyclicGraph, n.DebugID(), "", "cycle detected during traversal")
		}
		next := make(map[*Node]bool, len(t.preds)+1)
		for k := range t.preds {
			next[k] = true
		}
		next[t.current] = true
		out = append(out, &Traversal{current: n, preds: next})
		return nil
	}

	for i := 0; i < t.current.szout; i++ {
		for _, e := range t.current.output[i] {
			if err := add(e.Subscriber); err != nil {
				return nil, err
			}
		}
	}
	for _, n := range extras {
		if err := add(n); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// Mappers is Directs masked to exclude trained Workers — the walk a Path
// follows for its main (non-training) branch.
func (t *Traversal) Mappers(extras []*Node) ([]*Traversal, error) {
	return t.Directs(extras, NotTrained)
}

// Tail recursively follows Mappers to the furthest non-branching downstream
// node. If expected is non-nil and the current node equals it, at any
// depth, Tail returns that traversal immediately and sibling branches are
// never consulted. A branch with no further mapper children is a dead end:
// at any frame other than the outermost it is simply handed back as a
// candidate ending rather than raised, since a sibling branch elsewhere in
// the walk may still reach expected. Only the outermost frame — the one
// with no recorded predecessors, i.e. the original, externally invoked
// call rather than one stepped into via Directs/Mappers — ever turns an
// unfound expected into ErrAmbiguousTail, and only once every branch has
// reported back. Without expected, any frame whose branches end at more
// than one distinct terminal fails with ErrAmbiguousTail, since nothing
// can disambiguate them.
func (t *Traversal) Tail(expected *Node) (*Traversal, error) {
	if expected != nil && t.current == expected {
		return t, nil
	}

	root := len(t.preds) == 0

	children, err := t.Mappers(nil)
	if err != nil {
		return nil, err
	}

	if len(children) == 0 {
		if expected != nil && root {
			return nil, newError(ErrAmbiguousTail, t.current.DebugID(), "", "expected tail unreachable")
		}
		return t, nil
	}

	var endings []*Traversal
	seen := map[*Node]bool{}
	for _, c := range children {
		term, err := c.Tail(expected)
		if err != nil {
			return nil, err
		}
		if expected != nil && term.current == expected {
			return term, nil
		}
		if !seen[term.current] {
			seen[term.current] = true
			endings = append(endings, term)
		}
	}

	if (root && expected != nil) || (expected == nil && len(endings) > 1) {
		return nil, newError(ErrAmbiguousTail, t.current.DebugID(), "", "ambiguous tail")
	}
	return endings[0], nil
}

// Each performs a depth-first, post-order-safe traversal from current to
// tail, invoking visit exactly once per distinct node reachable without
// passing through trained-output edges, except at tail's own frontier,
// where the walk is masked to follow only edges into trained subscribers
// so the visitor also reaches the training sinks.
func (t *Traversal) Each(tail *Node, visit func(*Node)) error {
	visited := map[*Node]bool{}
	return t.each(tail, visit, visited)
}

func (t *Traversal) each(tail *Node, visit func(*Node), visited map[*Node]bool) error {
	if visited[t.current] {
		return nil
	}
	visited[t.current] = true
	visit(t.current)

	var children []*Traversal
	var err error
	if t.current == tail {
		children, err = t.Directs(nil, trainedOnly)
	} else {
		children, err = t.Mappers(nil)
	}
	if err != nil {
		return err
	}

	for _, c := range children {
		if err := c.each(tail, visit, visited); err != nil {
			return err
		}
	}
	return nil
}

func trainedOnly(n *Node) bool { return n.Trained() }

// Copy produces a structurally isomorphic sub-graph bounded by tail: it
// walks mapper-only edges, materializing a brand-new Worker (in a brand
// new fork group — unlike Fork, which shares fork-group identity) for
// every node on the main branch, then installing equivalent Apply
// subscriptions between the copies. Edges into trained sinks are not
// copied: the main branch only. It returns a map from original node to its
// fresh copy. This is how operators such as Ensembler mint independently
// trainable fold instances from one base operator.
func (t *Traversal) Copy(tail *Node) (map[*Node]*Node, error) {
	copies := map[*Node]*Node{}
	order := []*Node{}

	if err := t.collect(tail, copies, &order); err != nil {
		return nil, err
	}

	for _, n := range order {
		if n.kind != KindWorker {
			return nil, newError(ErrBadHead, n.DebugID(), "", "cannot copy a path through an unresolved future")
		}
		fresh := n.sess.NewWorker(n.spec, n.szin, n.szout)
		copies[n] = fresh
	}

	for _, n := range order {
		src := copies[n]
		for i := 0; i < n.szout; i++ {
			for _, e := range n.output[i] {
				if e.SubPort.Kind != PortApply {
					continue
				}
				dstTarget, ok := copies[e.Subscriber]
				if !ok {
					continue
				}
				if err := Subscribe(src, e.PublishPort, dstTarget, e.SubPort); err != nil {
					return nil, err
				}
			}
		}
	}

	return copies, nil
}

func (t *Traversal) collect(tail *Node, copies map[*Node]*Node, order *[]*Node) error {
	if _, ok := copies[t.current]; ok {
		return nil
	}
	copies[t.current] = nil
	*order = append(*order, t.current)

	if t.current == tail {
		return nil
	}

	children, err := t.Mappers(nil)
	if err != nil {
		return err
	}
	for _, c := range children {
		if err := c.collect(tail, copies, order); err != nil {
			return err
		}
	}
	return nil
}
