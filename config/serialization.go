// Copyright © 2026 the forml authors.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"fmt"
	"io"

	"github.com/YamanAlBochi/forml/operator"
	"gopkg.in/yaml.v3"
)

// VertexSerialization is the config-file representation of one pipeline
// stage: an ID for ordering, a Provider naming which PluginProvider builds
// it, and a free-form Attributes bag the provider decodes itself.
type VertexSerialization struct {
	ID         string                 `json:"id" yaml:"id" mapstructure:"id"`
	Provider   string                 `json:"provider" yaml:"provider" mapstructure:"provider"`
	Attributes map[string]interface{} `json:"attributes" yaml:"attributes" mapstructure:"attributes"`
}

// PipelineSerialization is a whole pipeline definition: every vertex, plus
// the order they compose in.
type PipelineSerialization struct {
	Vertices []*VertexSerialization `json:"vertices" yaml:"vertices" mapstructure:"vertices"`
	Pipeline []string               `json:"pipeline" yaml:"pipeline" mapstructure:"pipeline"`
}

// Load decodes a PipelineSerialization from YAML (a superset of JSON, so
// this also reads plain JSON documents).
func Load(r io.Reader) (*PipelineSerialization, error) {
	ps := &PipelineSerialization{}
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(ps); err != nil {
		return nil, fmt.Errorf("config: decoding pipeline: %w", err)
	}
	return ps, nil
}

// Compose resolves every named vertex's provider and chains the resulting
// operators in Pipeline order.
func (ps *PipelineSerialization) Compose() (operator.Operator, error) {
	byID := make(map[string]*VertexSerialization, len(ps.Vertices))
	for _, v := range ps.Vertices {
		byID[v.ID] = v
	}

	ops := make([]operator.Operator, 0, len(ps.Pipeline))
	for _, id := range ps.Pipeline {
		v, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("config: pipeline references unknown vertex %q", id)
		}
		provider, err := lookup(v.Provider)
		if err != nil {
			return nil, fmt.Errorf("config: vertex %q: %w", id, err)
		}
		op, err := provider.Build(v)
		if err != nil {
			return nil, fmt.Errorf("config: building vertex %q: %w", id, err)
		}
		ops = append(ops, op)
	}

	return operator.Chain(ops...), nil
}
