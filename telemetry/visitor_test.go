package telemetry

import (
	"context"
	"log/slog"
	"testing"

	"github.com/YamanAlBochi/forml/actor"
	"github.com/YamanAlBochi/forml/graph"
	"github.com/YamanAlBochi/forml/operator"
	"go.opentelemetry.io/otel"
)

func TestVisitorRecordsOneEventPerNodeInTraversalOrder(t *testing.T) {
	prior := slog.Default()
	slog.SetDefault(slog.New(New(nil, otel.Meter("forml/visitor_test"), otel.Tracer("forml/visitor_test"), false)))
	defer slog.SetDefault(prior)

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

	v := NewVisitor(context.Background(), "test-path")
	if err := out.Apply.Accept(v); err != nil {
		t.Fatalf("unexpected error accepting visitor: %v", err)
	}

	nodes := v.Nodes()
	if len(nodes) != 2 {
		t.Fatalf("expected 2 node events (root + mapper), got %d", len(nodes))
	}
	if nodes[len(nodes)-1].SpecName != "scale.standard" {
		t.Fatalf("expected the last visited node to be the mapper, got %s", nodes[len(nodes)-1].SpecName)
	}
}
