// Copyright © 2026 the forml authors.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package registry persists trained state: one gob-encoded blob per fork
// group, bundled into a tar-archived DistributionPackage for transport or
// storage. Grounded in the teacher's encoding/gob deep-copy pattern
// (ForkDuplicate in its packet type) and its github.com/google/uuid usage
// for identifiers.
package registry

import (
	"archive/tar"
	"bytes"
	"encoding/gob"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// State is one fork group's trained parameter blob, opaque to the
// compiler. SpecHash binds it to the actor.Spec it was trained against so
// a mismatched load is caught rather than silently misapplied.
type State struct {
	ForkGroupID int
	SpecHash    string
	Payload     []byte
}

// Blob gob-encodes value into a State for the given fork group and spec
// hash.
func Blob(forkGroupID int, specHash string, value interface{}) (*State, error) {
	buf := &bytes.Buffer{}
	if err := gob.NewEncoder(buf).Encode(value); err != nil {
		return nil, fmt.Errorf("registry: encoding fork group %d: %w", forkGroupID, err)
	}
	return &State{ForkGroupID: forkGroupID, SpecHash: specHash, Payload: buf.Bytes()}, nil
}

// Decode gob-decodes s's payload into out.
func (s *State) Decode(out interface{}) error {
	if err := gob.NewDecoder(bytes.NewReader(s.Payload)).Decode(out); err != nil {
		return fmt.Errorf("registry: decoding fork group %d: %w", s.ForkGroupID, err)
	}
	return nil
}

// DistributionPackage bundles every fork group's trained State for one
// compiled graph under a generated identifier.
type DistributionPackage struct {
	ID     string
	States []*State
}

// NewDistributionPackage returns an empty, freshly identified package.
func NewDistributionPackage() *DistributionPackage {
	return &DistributionPackage{ID: uuid.NewString()}
}

// Add appends s to the package.
func (p *DistributionPackage) Add(s *State) {
	p.States = append(p.States, s)
}

type manifestEntry struct {
	ForkGroupID int
	SpecHash    string
}

// Write serializes p as a tar archive: a manifest entry listing fork-group
// ids and spec hashes, followed by one entry per State's raw gob payload.
func (p *DistributionPackage) Write(w io.Writer) error {
	tw := tar.NewWriter(w)

	entries := make([]manifestEntry, len(p.States))
	for i, s := range p.States {
		entries[i] = manifestEntry{ForkGroupID: s.ForkGroupID, SpecHash: s.SpecHash}
	}
	manifest := &bytes.Buffer{}
	if err := gob.NewEncoder(manifest).Encode(entries); err != nil {
		return fmt.Errorf("registry: encoding manifest: %w", err)
	}
	if err := writeTarEntry(tw, "manifest.gob", manifest.Bytes()); err != nil {
		return err
	}

	for _, s := range p.States {
		if err := writeTarEntry(tw, forkEntryName(s.ForkGroupID), s.Payload); err != nil {
			return err
		}
	}

	return tw.Close()
}

func forkEntryName(forkGroupID int) string {
	return fmt.Sprintf("fork-%d.gob", forkGroupID)
}

func writeTarEntry(tw *tar.Writer, name string, data []byte) error {
	hdr := &tar.Header{Name: name, Size: int64(len(data)), Mode: 0o644}
	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("registry: writing tar header %s: %w", name, err)
	}
	if _, err := tw.Write(data); err != nil {
		return fmt.Errorf("registry: writing tar entry %s: %w", name, err)
	}
	return nil
}

// Read parses a tar archive written by Write into a DistributionPackage. id
// is supplied by the caller: the tar format itself carries no package id.
func Read(r io.Reader, id string) (*DistributionPackage, error) {
	tr := tar.NewReader(r)
	p := &DistributionPackage{ID: id}

	var entries []manifestEntry
	payloads := map[int][]byte{}

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("registry: reading tar header: %w", err)
		}

		data, err := io.ReadAll(tr)
		if err != nil {
			return nil, fmt.Errorf("registry: reading tar entry %s: %w", hdr.Name, err)
		}

		if hdr.Name == "manifest.gob" {
			if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&entries); err != nil {
				return nil, fmt.Errorf("registry: decoding manifest: %w", err)
			}
			continue
		}

		var forkGroupID int
		if _, err := fmt.Sscanf(hdr.Name, "fork-%d.gob", &forkGroupID); err != nil {
			return nil, fmt.Errorf("registry: unexpected tar entry %q", hdr.Name)
		}
		payloads[forkGroupID] = data
	}

	for _, e := range entries {
		payload, ok := payloads[e.ForkGroupID]
		if !ok {
			return nil, fmt.Errorf("registry: manifest references missing fork group %d", e.ForkGroupID)
		}
		p.States = append(p.States, &State{ForkGroupID: e.ForkGroupID, SpecHash: e.SpecHash, Payload: payload})
	}

	return p, nil
}
