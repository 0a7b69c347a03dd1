// Copyright © 2026 the forml authors.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package graph

import "fmt"

// ErrorKind enumerates the fatal error conditions the compiler can report.
// None of these are retried or downgraded: every one aborts the
// composition or lowering call in progress before any further edge is
// installed.
type ErrorKind string

const (
	// ErrSelfLoop signals a node subscribed to itself.
	ErrSelfLoop ErrorKind = "self_loop"
	// ErrAlreadyBound signals a duplicate subscription on an input port.
	ErrAlreadyBound ErrorKind = "already_bound"
	// ErrPortCollision signals mixing Apply and Train/Label inputs on one node.
	ErrPortCollision ErrorKind = "port_collision"
	// ErrTrainedPublisher signals a publisher already trained feeding an Apply port.
	ErrTrainedPublisher ErrorKind = "trained_publisher"
	// ErrForkTrained signals a fork requested on an already-trained worker.
	ErrForkTrained ErrorKind = "fork_trained"
	// ErrBadHead signals a Path head violating arity constraints.
	ErrBadHead ErrorKind = "bad_head"
	// ErrBadTail signals a Path tail violating arity constraints.
	ErrBadTail ErrorKind = "bad_tail"
	// ErrAmbiguousTail signals multiple terminal mappers with no disambiguator.
	ErrAmbiguousTail ErrorKind = "ambiguous_tail"
	// ErrCyclicGraph signals a cycle detected during traversal.
	ErrCyclicGraph ErrorKind = "cyclic_graph"
	// ErrClosurePathExtension signals an attempt to extend a closure.
	ErrClosurePathExtension ErrorKind = "closure_path_extension"
	// ErrClosurePublishing signals an attempt to publish a closure tail into an Apply port.
	ErrClosurePublishing ErrorKind = "closure_publishing"
	// ErrUnresolvedFuture signals a Future survived into lowering.
	ErrUnresolvedFuture ErrorKind = "unresolved_future"
	// ErrMissingTrainer signals a stateful fork group with no trained member.
	ErrMissingTrainer ErrorKind = "missing_trainer"
	// ErrMultipleTrainers signals a stateful fork group with more than one trained member.
	ErrMultipleTrainers ErrorKind = "multiple_trainers"
)

// Error is the error type every core operation reports. It carries enough
// context (offending node identity and port, when applicable) to be
// actionable without the caller having to re-derive it.
type Error struct {
	Kind    ErrorKind
	Node    string
	Port    string
	Message string
}

func (e *Error) Error() string {
	switch {
	case e.Node != "" && e.Port != "":
		return fmt.Sprintf("graph: %s: node %s port %s: %s", e.Kind, e.Node, e.Port, e.Message)
	case e.Node != "":
		return fmt.Sprintf("graph: %s: node %s: %s", e.Kind, e.Node, e.Message)
	default:
		return fmt.Sprintf("graph: %s: %s", e.Kind, e.Message)
	}
}

// Is supports errors.Is(err, &Error{Kind: ...}) comparisons by kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func newError(kind ErrorKind, node, port, msg string) *Error {
	return &Error{Kind: kind, Node: node, Port: port, Message: msg}
}
