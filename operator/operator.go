// Copyright © 2026 the forml authors.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package operator

import "github.com/YamanAlBochi/forml/graph"

// Operator is anything that, given a left-hand trunk, emits fresh graph
// fragments and returns a new trunk. Implementations must allocate fresh
// nodes on every call — compose is never idempotent, so the compiler
// detects cycles in the compiled graph rather than in the operator
// expression that produced it.
type Operator interface {
	Compose(s *graph.Session, left *Trunk) (*Trunk, error)
}

type then struct {
	left, right Operator
}

// Then returns an Operator equivalent to the binary composition `left >>
// right`: composing it calls right.Compose on whatever trunk left.Compose
// produces.
func Then(left, right Operator) Operator {
	return &then{left: left, right: right}
}

func (t *then) Compose(s *graph.Session, left *Trunk) (*Trunk, error) {
	mid, err := t.left.Compose(s, left)
	if err != nil {
		return nil, err
	}
	return t.right.Compose(s, mid)
}

// Chain folds Then across a sequence of operators left to right, equivalent
// to op0 >> op1 >> ... >> opN.
func Chain(ops ...Operator) Operator {
	if len(ops) == 0 {
		return Then(identity{}, identity{})
	}
	out := ops[0]
	for _, op := range ops[1:] {
		out = Then(out, op)
	}
	return out
}

type identity struct{}

func (identity) Compose(_ *graph.Session, left *Trunk) (*Trunk, error) { return left, nil }

// Lower runs the pipeline rooted at a fresh trunk through ops and freezes
// the result into a graph.Compiled pair, ready for a runner.
func Lower(s *graph.Session, op Operator) (*graph.Compiled, error) {
	root, err := NewRootTrunk(s)
	if err != nil {
		return nil, err
	}
	final, err := op.Compose(s, root)
	if err != nil {
		return nil, err
	}
	return s.Freeze(final.Apply, final.Train, final.Label)
}
