package operator

import (
	"testing"

	"github.com/YamanAlBochi/forml/graph"
)

func TestChainEquivalentToNestedThen(t *testing.T) {
	s1 := graph.NewSession()
	op1 := NewMapper(testSpec("f", true), 1, 1)
	op2 := NewMapper(testSpec("g", true), 1, 1)
	op3 := NewConsumer(testSpec("h", true), 1, 1)

	chained, err := Lower(s1, Chain(op1, op2, op3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s2 := graph.NewSession()
	nested, err := Lower(s2, Then(Then(op1, op2), op3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if chained.Apply.Tail().Spec().Name() != nested.Apply.Tail().Spec().Name() {
		t.Fatalf("expected Chain and nested Then to reach an apply tail of the same spec")
	}
}

func TestChainOfZeroIsIdentity(t *testing.T) {
	s := graph.NewSession()
	root, err := NewRootTrunk(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := Chain().Compose(s, root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Apply != root.Apply || out.Train != root.Train || out.Label != root.Label {
		t.Fatalf("expected an empty Chain to leave the trunk untouched")
	}
}

func TestLowerFreezesAFullPipeline(t *testing.T) {
	s := graph.NewSession()
	pipeline := Chain(
		NewLabeler("target"),
		NewMapper(testSpec("scale", true), 1, 1),
		NewConsumer(testSpec("estimator", true), 1, 1),
	)

	compiled, err := Lower(s, pipeline)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if compiled.Apply.Kind() != graph.Channel {
		t.Fatalf("expected a channel apply graph")
	}
	if compiled.Apply.Tail().Spec().Name() != "estimator" {
		t.Fatalf("expected the pipeline's apply tail to be the estimator, got %s", compiled.Apply.Tail().Spec().Name())
	}
}
