package tabular

import (
	"testing"

	"github.com/YamanAlBochi/forml/graph"
	"github.com/whitaker-io/data"
)

func TestFrameRowKeepsOnlyNamedColumnsPresent(t *testing.T) {
	f := Frame{"a", "c"}
	row := data.Data{"a": 1, "b": 2, "d": 4}

	out := f.Row(row)

	if len(out) != 1 {
		t.Fatalf("expected 1 column kept (a), got %d: %+v", len(out), out)
	}
	if out["a"] != 1 {
		t.Fatalf("expected a=1, got %v", out["a"])
	}
}

func TestSelectAndExcludeProduceStatelessSpecsWithColumns(t *testing.T) {
	f := Frame{"target"}

	sel := f.Select("select.cols")
	if sel.Stateful() {
		t.Fatalf("expected Select to produce a stateless spec")
	}
	cols, ok := sel.Params()["columns"].([]string)
	if !ok || len(cols) != 1 || cols[0] != "target" {
		t.Fatalf("expected columns=[target], got %+v", sel.Params()["columns"])
	}

	exc := f.Exclude("exclude.cols")
	excCols, ok := exc.Params()["exclude"].([]string)
	if !ok || len(excCols) != 1 || excCols[0] != "target" {
		t.Fatalf("expected exclude=[target], got %+v", exc.Params()["exclude"])
	}
}

func TestDescribeRecordsFrameForEachTabularWorkerVisited(t *testing.T) {
	s := graph.NewSession()

	f := Frame{"x", "y"}
	selectSpec := f.Select("project")
	n := s.NewWorker(selectSpec, 1, 1)

	p, err := graph.NewPath(n, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d := NewDescribe()
	if err := p.Accept(d); err != nil {
		t.Fatalf("unexpected error accepting describe visitor: %v", err)
	}

	frame, ok := d.Touched[n.DebugID()]
	if !ok {
		t.Fatalf("expected the project node to be recorded")
	}
	if len(frame) != 2 || frame[0] != "x" || frame[1] != "y" {
		t.Fatalf("unexpected recorded frame: %+v", frame)
	}
}
