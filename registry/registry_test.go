package registry

import (
	"archive/tar"
	"bytes"
	"encoding/gob"
	"testing"
)

type fakeParams struct {
	Weights []float64
	Bias    float64
}

func TestBlobRoundTripsThroughDecode(t *testing.T) {
	want := fakeParams{Weights: []float64{0.1, 0.2, 0.3}, Bias: 1.5}

	s, err := Blob(3, "hash-abc", want)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got fakeParams
	if err := s.Decode(&got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Bias != want.Bias || len(got.Weights) != len(want.Weights) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestDistributionPackageWriteReadRoundTrip(t *testing.T) {
	p := NewDistributionPackage()

	for i, w := range []fakeParams{{Weights: []float64{1}, Bias: 0}, {Weights: []float64{2, 3}, Bias: 9}} {
		s, err := Blob(i, "hash-x", w)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		p.Add(s)
	}

	buf := &bytes.Buffer{}
	if err := p.Write(buf); err != nil {
		t.Fatalf("unexpected error writing: %v", err)
	}

	loaded, err := Read(buf, p.ID)
	if err != nil {
		t.Fatalf("unexpected error reading: %v", err)
	}
	if len(loaded.States) != 2 {
		t.Fatalf("expected 2 states, got %d", len(loaded.States))
	}

	for _, s := range loaded.States {
		var got fakeParams
		if err := s.Decode(&got); err != nil {
			t.Fatalf("unexpected error decoding fork group %d: %v", s.ForkGroupID, err)
		}
	}
}

func TestReadRejectsManifestReferencingMissingEntry(t *testing.T) {
	buf := &bytes.Buffer{}
	tw := tar.NewWriter(buf)

	manifest := &bytes.Buffer{}
	if err := gob.NewEncoder(manifest).Encode([]manifestEntry{{ForkGroupID: 99, SpecHash: "hash-x"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := writeTarEntry(tw, "manifest.gob", manifest.Bytes()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := Read(buf, "pkg-1"); err == nil {
		t.Fatalf("expected an error for a manifest entry with no matching tar entry")
	}
}
