package config

import (
	"strings"
	"testing"

	"github.com/YamanAlBochi/forml/graph"
	"github.com/YamanAlBochi/forml/operator"
)

const testPipeline = `
vertices:
  - id: split
    provider: labeler
    attributes:
      column: target
  - id: scale
    provider: mapper
    attributes:
      name: scale.standard
      stateful: true
  - id: model
    provider: consumer
    attributes:
      name: estimator.lasso
      stateful: true
pipeline: [split, scale, model]
`

func TestLoadAndComposeBuildsAFreezablePipeline(t *testing.T) {
	ps, err := Load(strings.NewReader(testPipeline))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ps.Vertices) != 3 || len(ps.Pipeline) != 3 {
		t.Fatalf("unexpected decode shape: %+v", ps)
	}

	op, err := ps.Compose()
	if err != nil {
		t.Fatalf("unexpected error composing: %v", err)
	}

	s := graph.NewSession()
	compiled, err := operator.Lower(s, op)
	if err != nil {
		t.Fatalf("unexpected error lowering: %v", err)
	}
	if compiled.Apply.Tail().Spec().Name() != "estimator.lasso" {
		t.Fatalf("expected apply tail estimator.lasso, got %s", compiled.Apply.Tail().Spec().Name())
	}
}

func TestComposeRejectsUnknownProvider(t *testing.T) {
	ps := &PipelineSerialization{
		Vertices: []*VertexSerialization{{ID: "x", Provider: "nonexistent"}},
		Pipeline: []string{"x"},
	}
	if _, err := ps.Compose(); err == nil {
		t.Fatalf("expected an error for an unregistered provider")
	}
}

func TestComposeRejectsUnknownPipelineVertex(t *testing.T) {
	ps := &PipelineSerialization{
		Vertices: []*VertexSerialization{{ID: "x", Provider: "mapper"}},
		Pipeline: []string{"y"},
	}
	if _, err := ps.Compose(); err == nil {
		t.Fatalf("expected an error for a pipeline entry with no matching vertex")
	}
}
