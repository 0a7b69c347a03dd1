// Copyright © 2026 the forml authors.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package operator

import (
	"github.com/YamanAlBochi/forml/actor"
	"github.com/YamanAlBochi/forml/graph"
)

// Mapper composes a single-actor transformer, stateless or stateful, into
// the pipeline: it forks an apply-time Worker and a train-time Worker from
// the same fork group, advances the apply path through the apply-time
// Worker, and trains the train-time Worker directly off the trunk's
// feature and label taps. The train and label paths themselves are never
// advanced — every stage trains from the same upstream taps, so the
// compiled train graph is a fan of trained sinks off one feature/label tap
// pair (the root futures, or the taps a Labeler upstream re-anchored).
type Mapper struct {
	spec         actor.Spec
	szin, szout  int
}

// NewMapper returns a Mapper bound to spec with the given Apply arities.
func NewMapper(spec actor.Spec, szin, szout int) *Mapper {
	return &Mapper{spec: spec, szin: szin, szout: szout}
}

// Compose implements Operator.
func (m *Mapper) Compose(s *graph.Session, left *Trunk) (*Trunk, error) {
	newApply, trainWorker, err := forkAndWireApply(s, m.spec, m.szin, m.szout, left)
	if err != nil {
		return nil, err
	}

	if err := trainWorker.Train(left.Train.Tail(), 0, left.Label.Tail(), 0); err != nil {
		return nil, err
	}

	return left.Use(newApply, nil, nil), nil
}

// forkAndWireApply allocates the apply/train fork pair for a single-actor
// stage, extends left.Apply through the apply-time instance, and returns
// the untrained train-time fork for the caller to wire into training.
func forkAndWireApply(s *graph.Session, spec actor.Spec, szin, szout int, left *Trunk) (*graph.Path, *graph.Node, error) {
	applyWorker := s.NewWorker(spec, szin, szout)

	applyWorkerPath, err := graph.NewPath(applyWorker, nil)
	if err != nil {
		return nil, nil, err
	}

	newApply, err := left.Apply.Extend(applyWorkerPath, nil)
	if err != nil {
		return nil, nil, err
	}

	trainWorker, err := applyWorker.Fork()
	if err != nil {
		return nil, nil, err
	}

	return newApply, trainWorker, nil
}
