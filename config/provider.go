// Copyright © 2026 the forml authors.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package config resolves a declarative pipeline definition — YAML or JSON,
// decoded with gopkg.in/yaml.v3, each vertex's attributes then decoded
// through github.com/mitchellh/mapstructure the same way the teacher's
// loader resolves a Serialization into a Builder chain — into an
// operator.Operator tree via a registry of named PluginProviders. There is
// no dynamic code evaluation path: every vertex names a provider, and every
// provider is a statically registered Go value.
package config

import (
	"fmt"

	"github.com/YamanAlBochi/forml/operator"
)

// PluginProvider resolves one VertexSerialization's Attributes into an
// operator.Operator. Implementations typically decode Attributes into a
// concrete hyper-parameter struct via mapstructure.Decode before building.
type PluginProvider interface {
	Build(v *VertexSerialization) (operator.Operator, error)
}

var providers = map[string]PluginProvider{}

// RegisterPluginProvider registers p under name, overwriting any provider
// previously registered under the same name — the same last-write-wins rule
// actor.Adapter uses for duplicate registrations.
func RegisterPluginProvider(name string, p PluginProvider) {
	providers[name] = p
}

func lookup(name string) (PluginProvider, error) {
	p, ok := providers[name]
	if !ok {
		return nil, fmt.Errorf("config: no PluginProvider registered under %q", name)
	}
	return p, nil
}

func init() {
	RegisterPluginProvider("mapper", mapperProvider{})
	RegisterPluginProvider("consumer", consumerProvider{})
	RegisterPluginProvider("labeler", labelerProvider{})
	RegisterPluginProvider("ensembler", ensemblerProvider{})
}
