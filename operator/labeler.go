// Copyright © 2026 the forml authors.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package operator

import (
	"github.com/YamanAlBochi/forml/actor"
	"github.com/YamanAlBochi/forml/graph"
	"github.com/YamanAlBochi/forml/tabular"
)

// Labeler diverges a label signal out of the upstream apply data: it
// splits the single incoming feature stream into two independent
// single-output taps — one continuing as features, one extracting the
// label — since a Path's tail may carry at most one Apply output and so
// can never itself stand for both branches of a split. The apply path
// continues through the feature tap; the train and label paths are
// replaced wholesale, re-anchored at the feature and label taps
// respectively, so every later stage trains directly off them.
type Labeler struct {
	featureSpec actor.Spec
	labelSpec   actor.Spec
}

// NewLabelerSpecs returns a Labeler built from explicit feature/label
// extraction specs.
func NewLabelerSpecs(featureSpec, labelSpec actor.Spec) *Labeler {
	return &Labeler{featureSpec: featureSpec, labelSpec: labelSpec}
}

// NewLabeler returns a Labeler that extracts the named column as the
// label and passes the remaining columns through as features.
func NewLabeler(column string) *Labeler {
	frame := tabular.Frame{tabular.Column(column)}
	return &Labeler{
		featureSpec: frame.Exclude("labeler.features"),
		labelSpec:   frame.Select("labeler.label"),
	}
}

// Compose implements Operator.
func (l *Labeler) Compose(s *graph.Session, left *Trunk) (*Trunk, error) {
	featureTap := s.NewWorker(l.featureSpec, 1, 1)
	labelTap := s.NewWorker(l.labelSpec, 1, 1)

	if err := left.Apply.Publisher().SubscribeTo(featureTap, graph.Apply(0)); err != nil {
		return nil, err
	}
	if err := left.Apply.Publisher().SubscribeTo(labelTap, graph.Apply(0)); err != nil {
		return nil, err
	}

	featurePath, err := graph.NewPath(featureTap, nil)
	if err != nil {
		return nil, err
	}
	labelPath, err := graph.NewPath(labelTap, nil)
	if err != nil {
		return nil, err
	}

	// featureTap's edge is already installed above; re-anchor rather than
	// extend, since Extend(right, nil) would subscribe it a second time.
	newApply, err := left.Apply.Extend(nil, featureTap)
	if err != nil {
		return nil, err
	}

	return left.Use(newApply, featurePath, labelPath), nil
}
