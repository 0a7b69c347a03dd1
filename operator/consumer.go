// Copyright © 2026 the forml authors.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package operator

import (
	"github.com/YamanAlBochi/forml/actor"
	"github.com/YamanAlBochi/forml/graph"
)

// Consumer composes a terminal estimator: structurally identical to
// Mapper — fork an apply/train pair, advance the apply path, train off the
// trunk's taps — but named separately since a Consumer's apply-time Worker
// is typically the pipeline's tail rather than feeding a further stage.
type Consumer struct {
	spec        actor.Spec
	szin, szout int
}

// NewConsumer returns a Consumer bound to spec with the given Apply
// arities.
func NewConsumer(spec actor.Spec, szin, szout int) *Consumer {
	return &Consumer{spec: spec, szin: szin, szout: szout}
}

// Compose implements Operator.
func (c *Consumer) Compose(s *graph.Session, left *Trunk) (*Trunk, error) {
	newApply, trainWorker, err := forkAndWireApply(s, c.spec, c.szin, c.szout, left)
	if err != nil {
		return nil, err
	}

	if err := trainWorker.Train(left.Train.Tail(), 0, left.Label.Tail(), 0); err != nil {
		return nil, err
	}

	return left.Use(newApply, nil, nil), nil
}
