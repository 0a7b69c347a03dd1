// Copyright © 2026 the forml authors.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package actor defines the opaque handle the compiler attaches to a
// Worker, plus the adapter trait used to present third-party fit/transform
// style types as actors without runtime reflection.
package actor

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/karlseguin/typed"
)

// Spec is an actor class plus bound hyper-parameters. It is immutable and
// hashable by value so the compiler can use it as opaque, comparable graph
// payload without ever inspecting what the actor does.
type Spec interface {
	// Name identifies the actor class, e.g. "sklearn.linear_model.Lasso".
	Name() string
	// Params returns the bound hyper-parameters.
	Params() typed.Typed
	// Stateful reports whether the actor carries trainable state. Stateless
	// specs are exempt from the fork-group "exactly one trained member"
	// invariant at lowering time.
	Stateful() bool
	// Hash is a value hash over Name, Stateful and Params, stable across
	// processes.
	Hash() string
}

type spec struct {
	name     string
	params   typed.Typed
	stateful bool
}

// New returns a Spec for the named actor class with the given
// hyper-parameters. stateful marks whether the actor holds trainable
// state (and therefore requires exactly one trained fork).
func New(name string, params map[string]interface{}, stateful bool) Spec {
	if params == nil {
		params = map[string]interface{}{}
	}
	return &spec{name: name, params: typed.New(params), stateful: stateful}
}

func (s *spec) Name() string        { return s.name }
func (s *spec) Params() typed.Typed { return s.params }
func (s *spec) Stateful() bool      { return s.stateful }

func (s *spec) Hash() string {
	keys := make([]string, 0, len(s.params))
	for k := range s.params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := sha256.New()
	fmt.Fprintf(h, "%s|%t", s.name, s.stateful)
	for _, k := range keys {
		fmt.Fprintf(h, "|%s=%v", k, s.params[k])
	}

	return hex.EncodeToString(h.Sum(nil))
}
