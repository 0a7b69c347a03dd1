package render

import (
	"strings"
	"testing"

	"github.com/YamanAlBochi/forml/actor"
	"github.com/YamanAlBochi/forml/graph"
	"github.com/YamanAlBochi/forml/operator"
)

func TestDotRendersNodesAndApplyEdge(t *testing.T) {
	s := graph.NewSession()
	root, err := operator.NewRootTrunk(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	spec := actor.New("scale.standard", nil, false)
	out, err := operator.NewMapper(spec, 1, 1).Compose(s, root)
	if err != nil {
		t.Fatalf("unexpected error composing: %v", err)
	}

	d := NewDot("pipeline")
	if err := out.Apply.Accept(d); err != nil {
		t.Fatalf("unexpected error accepting dot visitor: %v", err)
	}

	got := d.String()
	if !strings.HasPrefix(got, `digraph "pipeline" {`) {
		t.Fatalf("expected digraph header, got %q", got)
	}
	if !strings.Contains(got, "scale.standard") {
		t.Fatalf("expected mapper spec name in output, got %q", got)
	}
	if !strings.Contains(got, `label="apply(0)"`) {
		t.Fatalf("expected an apply(0) edge label, got %q", got)
	}
}

func TestDotMarksTrainedNodesAndStatefulSpecsDistinctly(t *testing.T) {
	s := graph.NewSession()
	root, err := operator.NewRootTrunk(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	spec := actor.New("linear.regression", nil, true)
	out, err := operator.NewConsumer(spec, 1, 1).Compose(s, root)
	if err != nil {
		t.Fatalf("unexpected error composing: %v", err)
	}

	d := NewDot("pipeline")
	if err := out.Train.Accept(d); err != nil {
		t.Fatalf("unexpected error accepting dot visitor over train path: %v", err)
	}

	got := d.String()
	if !strings.Contains(got, "shape=box") {
		t.Fatalf("expected the trained consumer to render with shape=box, got %q", got)
	}
	if !strings.Contains(got, "peripheries=2") {
		t.Fatalf("expected the stateful spec to render with peripheries=2, got %q", got)
	}
}
