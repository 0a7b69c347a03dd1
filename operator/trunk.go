// Copyright © 2026 the forml authors.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package operator implements pipeline assembly: operators that, given a
// left-hand trunk, emit fresh graph fragments through the graph package's
// primitives and return a new trunk, plus the composition operator and
// terminal lowering into a compiled apply/train graph pair.
package operator

import "github.com/YamanAlBochi/forml/graph"

// Trunk is the triple of paths threaded through composition: the apply-time
// data path, the train-time feature path, and the train-time label path.
// All three are independently copyable.
type Trunk struct {
	Apply *graph.Path
	Train *graph.Path
	Label *graph.Path
}

// NewRootTrunk seeds a brand-new trunk with three root futures, one per
// constituent path, each standing in as the literal entry point a runner
// injects data, features, or labels into.
func NewRootTrunk(s *graph.Session) (*Trunk, error) {
	apply, err := graph.NewPath(s.NewRootFuture(), nil)
	if err != nil {
		return nil, err
	}
	train, err := graph.NewPath(s.NewRootFuture(), nil)
	if err != nil {
		return nil, err
	}
	label, err := graph.NewPath(s.NewRootFuture(), nil)
	if err != nil {
		return nil, err
	}
	return &Trunk{Apply: apply, Train: train, Label: label}, nil
}

// Extend grows each constituent path by the corresponding argument, or
// retraces it to its natural terminal when the argument is nil.
func (t *Trunk) Extend(apply, train, label *graph.Path) (*Trunk, error) {
	newApply, err := extendOne(t.Apply, apply)
	if err != nil {
		return nil, err
	}
	newTrain, err := extendOne(t.Train, train)
	if err != nil {
		return nil, err
	}
	newLabel, err := extendOne(t.Label, label)
	if err != nil {
		return nil, err
	}
	return &Trunk{Apply: newApply, Train: newTrain, Label: newLabel}, nil
}

func extendOne(left, right *graph.Path) (*graph.Path, error) {
	if left == nil {
		return right, nil
	}
	return left.Extend(right, nil)
}

// Use replaces the named paths wholesale, keeping the existing path for any
// argument left nil.
func (t *Trunk) Use(apply, train, label *graph.Path) *Trunk {
	out := &Trunk{Apply: t.Apply, Train: t.Train, Label: t.Label}
	if apply != nil {
		out.Apply = apply
	}
	if train != nil {
		out.Train = train
	}
	if label != nil {
		out.Label = label
	}
	return out
}
