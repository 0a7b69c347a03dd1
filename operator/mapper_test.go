package operator

import (
	"testing"

	"github.com/YamanAlBochi/forml/actor"
	"github.com/YamanAlBochi/forml/graph"
)

func testSpec(name string, stateful bool) actor.Spec {
	return actor.New(name, nil, stateful)
}

func TestMapperForksApplyAndTrainFromSameGroup(t *testing.T) {
	s := graph.NewSession()
	root, err := NewRootTrunk(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := NewMapper(testSpec("scale", true), 1, 1)
	out, err := m.Compose(s, root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	applyTail := out.Apply.Tail()
	if applyTail.ForkGroup() == nil {
		t.Fatalf("expected apply tail to belong to a fork group")
	}
	if len(applyTail.ForkGroup().Members()) != 2 {
		t.Fatalf("expected fork group of 2 (apply + train), got %d", len(applyTail.ForkGroup().Members()))
	}

	trained := 0
	for _, member := range applyTail.ForkGroup().Members() {
		if member.Trained() {
			trained++
		}
	}
	if trained != 1 {
		t.Fatalf("expected exactly 1 trained member, got %d", trained)
	}
	if applyTail.Trained() {
		t.Fatalf("apply-time instance itself must not be the trained one")
	}
}

func TestMapperChainTrainsOffOriginalTapsNotAdvancedPaths(t *testing.T) {
	s := graph.NewSession()
	root, err := NewRootTrunk(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	featuresTap := root.Train.Tail()
	labelTap := root.Label.Tail()

	f := NewMapper(testSpec("f", true), 1, 1)
	afterF, err := f.Compose(s, root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	g := NewConsumer(testSpec("g", true), 1, 1)
	afterG, err := g.Compose(s, afterF)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if afterG.Train.Tail() != featuresTap {
		t.Fatalf("expected train path to remain anchored at the original features tap")
	}
	if afterG.Label.Tail() != labelTap {
		t.Fatalf("expected label path to remain anchored at the original label tap")
	}

	// Both f's and g's trained forks must have trained off featuresTap
	// directly: each is a distinct subscriber on featuresTap's single Apply
	// output, which is permitted since outputs allow unbounded subscribers.
	if len(featuresTap.Outputs(0)) != 2 {
		t.Fatalf("expected featuresTap to feed exactly 2 trained sinks, got %d", len(featuresTap.Outputs(0)))
	}
}

func TestConsumerComposeProducesSingleTrainedMember(t *testing.T) {
	s := graph.NewSession()
	root, err := NewRootTrunk(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c := NewConsumer(testSpec("estimator", true), 1, 1)
	out, err := c.Compose(s, root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	compiled, err := s.Freeze(out.Apply, out.Train, out.Label)
	if err != nil {
		t.Fatalf("unexpected error freezing: %v", err)
	}
	if compiled.Apply.Tail() != out.Apply.Tail() {
		t.Fatalf("expected compiled apply tail to match the consumer's apply-time worker")
	}
}
