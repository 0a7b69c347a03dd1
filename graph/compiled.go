// Copyright © 2026 the forml authors.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package graph

// Compiled is the frozen graph handed to a runner: an apply graph, and the
// train/label pair whose union — each closed at its trained-worker sinks —
// constitutes the training graph, sharing fork-group identity with the
// apply side for every stateful worker. Once produced, the underlying node
// graph must not be mutated further — Session.Freeze is the only way to
// obtain one, and it validates every invariant up front, so no
// partially-built graph is ever observable.
type Compiled struct {
	Apply *Path
	Train *Path
	Label *Path
}

// Freeze validates the session's invariants and returns the Compiled
// triple for apply, train, and label. label may be nil for a trunk that
// never diverged a label tap from its training data.
func (s *Session) Freeze(apply, train, label *Path) (*Compiled, error) {
	if apply.Kind() != Channel {
		return nil, newError(ErrClosurePathExtension, apply.tail.DebugID(), "", "apply graph must be a channel")
	}

	if err := s.validateFutures(); err != nil {
		return nil, err
	}
	if err := s.validateForkGroups(); err != nil {
		return nil, err
	}

	return &Compiled{Apply: apply, Train: train, Label: label}, nil
}

func (s *Session) validateFutures() error {
	for _, f := range s.futures {
		if f.dissolved || f.root {
			continue
		}
		return newError(ErrUnresolvedFuture, f.DebugID(), "", "future survived into lowering")
	}
	return nil
}

func (s *Session) validateForkGroups() error {
	for _, fg := range s.groups {
		if len(fg.members) == 0 {
			continue
		}
		if !fg.members[0].spec.Stateful() {
			continue
		}
		switch fg.trainedCount() {
		case 0:
			return newError(ErrMissingTrainer, fg.members[0].DebugID(), "", "stateful fork group has no trained member")
		case 1:
			continue
		default:
			return newError(ErrMultipleTrainers, fg.members[0].DebugID(), "", "stateful fork group has more than one trained member")
		}
	}
	return nil
}
