// Copyright © 2026 the forml authors.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"fmt"

	"github.com/YamanAlBochi/forml/actor"
	"github.com/YamanAlBochi/forml/operator"
	"github.com/mitchellh/mapstructure"
)

// stageAttrs is the common shape shared by Mapper and Consumer vertices:
// the actor class name, its bound hyper-parameters, whether it carries
// trainable state, and its Apply arities.
type stageAttrs struct {
	Name     string                 `mapstructure:"name"`
	Params   map[string]interface{} `mapstructure:"params"`
	Stateful bool                   `mapstructure:"stateful"`
	SzIn     int                    `mapstructure:"szin"`
	SzOut    int                    `mapstructure:"szout"`
}

func decodeStage(v *VertexSerialization) (stageAttrs, error) {
	attrs := stageAttrs{SzIn: 1, SzOut: 1}
	if err := mapstructure.Decode(v.Attributes, &attrs); err != nil {
		return attrs, fmt.Errorf("decoding attributes: %w", err)
	}
	if attrs.Name == "" {
		return attrs, fmt.Errorf("vertex %q missing required attribute %q", v.ID, "name")
	}
	return attrs, nil
}

type mapperProvider struct{}

func (mapperProvider) Build(v *VertexSerialization) (operator.Operator, error) {
	attrs, err := decodeStage(v)
	if err != nil {
		return nil, err
	}
	spec := actor.New(attrs.Name, attrs.Params, attrs.Stateful)
	return operator.NewMapper(spec, attrs.SzIn, attrs.SzOut), nil
}

type consumerProvider struct{}

func (consumerProvider) Build(v *VertexSerialization) (operator.Operator, error) {
	attrs, err := decodeStage(v)
	if err != nil {
		return nil, err
	}
	spec := actor.New(attrs.Name, attrs.Params, attrs.Stateful)
	return operator.NewConsumer(spec, attrs.SzIn, attrs.SzOut), nil
}

type labelerAttrs struct {
	Column string `mapstructure:"column"`
}

type labelerProvider struct{}

func (labelerProvider) Build(v *VertexSerialization) (operator.Operator, error) {
	attrs := labelerAttrs{}
	if err := mapstructure.Decode(v.Attributes, &attrs); err != nil {
		return nil, fmt.Errorf("decoding attributes: %w", err)
	}
	if attrs.Column == "" {
		return nil, fmt.Errorf("vertex %q missing required attribute %q", v.ID, "column")
	}
	return operator.NewLabeler(attrs.Column), nil
}

type baseAttrs struct {
	Name     string                 `mapstructure:"name"`
	Params   map[string]interface{} `mapstructure:"params"`
	Stateful bool                   `mapstructure:"stateful"`
	Folds    int                    `mapstructure:"folds"`
}

type ensemblerAttrs struct {
	Aggregator struct {
		Name     string                 `mapstructure:"name"`
		Params   map[string]interface{} `mapstructure:"params"`
		Stateful bool                   `mapstructure:"stateful"`
	} `mapstructure:"aggregator"`
	Bases []baseAttrs `mapstructure:"bases"`
}

type ensemblerProvider struct{}

func (ensemblerProvider) Build(v *VertexSerialization) (operator.Operator, error) {
	attrs := ensemblerAttrs{}
	if err := mapstructure.Decode(v.Attributes, &attrs); err != nil {
		return nil, fmt.Errorf("decoding attributes: %w", err)
	}
	if attrs.Aggregator.Name == "" {
		return nil, fmt.Errorf("vertex %q missing required attribute %q", v.ID, "aggregator.name")
	}
	if len(attrs.Bases) == 0 {
		return nil, fmt.Errorf("vertex %q has no bases", v.ID)
	}

	aggregator := actor.New(attrs.Aggregator.Name, attrs.Aggregator.Params, attrs.Aggregator.Stateful)
	bases := make([]operator.Base, len(attrs.Bases))
	for i, b := range attrs.Bases {
		if b.Name == "" {
			return nil, fmt.Errorf("vertex %q base %d missing required attribute %q", v.ID, i, "name")
		}
		folds := b.Folds
		if folds <= 0 {
			folds = 1
		}
		bases[i] = operator.Base{Spec: actor.New(b.Name, b.Params, b.Stateful), Folds: folds}
	}

	return operator.NewEnsembler(aggregator, bases...), nil
}
