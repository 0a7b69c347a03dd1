package graph

import (
	"errors"
	"testing"
)

func TestPathChannelExtend(t *testing.T) {
	s := NewSession()
	a := s.NewWorker(stubSpec("a", false), 0, 1)
	b := s.NewWorker(stubSpec("b", false), 1, 1)

	pa, err := NewPath(a, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pa.Kind() != Channel {
		t.Fatalf("expected channel")
	}

	pb, err := NewPath(b, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	merged, err := pa.Extend(pb, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if merged.Tail() != b {
		t.Fatalf("expected merged tail to be b")
	}

	edges := a.Outputs(0)
	if len(edges) != 1 || edges[0].Subscriber != b {
		t.Fatalf("expected exactly one new edge a->b, got %+v", edges)
	}
}

func TestPathBadHead(t *testing.T) {
	s := NewSession()
	bad := s.NewWorker(stubSpec("bad", false), 2, 1)

	_, err := NewPath(bad, nil)
	var ge *Error
	if !errors.As(err, &ge) || ge.Kind != ErrBadHead {
		t.Fatalf("expected ErrBadHead, got %v", err)
	}
}

func TestPathCyclicGraph(t *testing.T) {
	s := NewSession()
	a := s.NewWorker(stubSpec("a", false), 1, 1)
	b := s.NewWorker(stubSpec("b", false), 1, 1)

	if err := Subscribe(a, 0, b, Apply(0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Subscribe(b, 0, a, Apply(0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := NewPath(a, nil)
	var ge *Error
	if !errors.As(err, &ge) || ge.Kind != ErrCyclicGraph {
		t.Fatalf("expected ErrCyclicGraph, got %v", err)
	}
}

func TestClosureExtensionRejected(t *testing.T) {
	s := NewSession()
	a := s.NewWorker(stubSpec("a", false), 0, 1)
	trainee := s.NewWorker(stubSpec("trainee", true), 1, 0)

	if err := Subscribe(a, 0, trainee, Train); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p, err := NewPath(a, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Kind() != Closure {
		t.Fatalf("expected closure, got %v", p.Kind())
	}

	other := s.NewWorker(stubSpec("other", false), 1, 1)
	otherPath, err := NewPath(other, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = p.Extend(otherPath, nil)
	var ge *Error
	if !errors.As(err, &ge) || ge.Kind != ErrClosurePathExtension {
		t.Fatalf("expected ErrClosurePathExtension, got %v", err)
	}
}

func TestClosurePublishingRejectsApply(t *testing.T) {
	s := NewSession()
	a := s.NewWorker(stubSpec("a", false), 0, 1)
	trainee := s.NewWorker(stubSpec("trainee", true), 1, 0)

	if err := Subscribe(a, 0, trainee, Train); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p, err := NewPath(a, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	downstream := s.NewWorker(stubSpec("downstream", false), 1, 1)
	err = p.Publisher().SubscribeTo(downstream, Apply(0))
	var ge *Error
	if !errors.As(err, &ge) || ge.Kind != ErrClosurePublishing {
		t.Fatalf("expected ErrClosurePublishing, got %v", err)
	}
}

func TestPathCopyProducesFreshForkGroups(t *testing.T) {
	s := NewSession()
	a := s.NewWorker(stubSpec("a", false), 0, 1)
	b := s.NewWorker(stubSpec("b", false), 1, 1)
	if err := Subscribe(a, 0, b, Apply(0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p, err := NewPath(a, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cp, err := p.Copy()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cp.Head() == p.Head() || cp.Tail() == p.Tail() {
		t.Fatalf("expected fresh nodes in the copy")
	}
	if cp.Head().ForkGroup() == p.Head().ForkGroup() {
		t.Fatalf("expected fresh fork groups in the copy")
	}

	edges := cp.Head().Outputs(0)
	if len(edges) != 1 || edges[0].Subscriber != cp.Tail() {
		t.Fatalf("expected copy to preserve apply-edge topology, got %+v", edges)
	}
}
