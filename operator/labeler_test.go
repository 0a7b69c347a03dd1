package operator

import (
	"testing"

	"github.com/YamanAlBochi/forml/graph"
)

func TestLabelerSplitsIntoIndependentFeatureAndLabelTaps(t *testing.T) {
	s := graph.NewSession()
	root, err := NewRootTrunk(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	l := NewLabeler("target")
	out, err := l.Compose(s, root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Train.Tail() == out.Label.Tail() {
		t.Fatalf("expected distinct feature and label taps")
	}
	if out.Apply.Tail() != out.Train.Tail() {
		t.Fatalf("expected the apply path to continue through the same node the train path re-anchors at")
	}
	if out.Apply.Kind() != graph.Channel {
		t.Fatalf("expected apply path to remain a channel after a labeler split")
	}
}

func TestLabelerThenMapperTrainsOffDivergedTaps(t *testing.T) {
	s := graph.NewSession()
	root, err := NewRootTrunk(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	l := NewLabeler("target")
	afterLabel, err := l.Compose(s, root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	featureTap := afterLabel.Train.Tail()
	labelTap := afterLabel.Label.Tail()

	m := NewMapper(testSpec("estimator", true), 1, 1)
	out, err := m.Compose(s, afterLabel)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	compiled, err := s.Freeze(out.Apply, out.Train, out.Label)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if compiled.Train.Tail() != featureTap {
		t.Fatalf("expected compiled train path still anchored at the feature tap")
	}
	if compiled.Label.Tail() != labelTap {
		t.Fatalf("expected compiled label path still anchored at the label tap")
	}
}
