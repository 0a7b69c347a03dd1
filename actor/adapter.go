// Copyright © 2026 the forml authors.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package actor

import (
	"fmt"

	"github.com/karlseguin/typed"
)

// Role names the recognized method bindings on a wrapped third-party type.
type Role string

const (
	// RoleTrain binds the method used to fit the wrapped type against
	// features and a label.
	RoleTrain Role = "train"
	// RoleApply binds the method used to transform/predict.
	RoleApply Role = "apply"
	// RoleGetParams binds the method used to read hyper-parameters back out.
	RoleGetParams Role = "get_params"
	// RoleSetParams binds the method used to push hyper-parameters in.
	RoleSetParams Role = "set_params"
)

// Binding is a single recognized method-role entry for a wrapped type.
type Binding struct {
	Role   Role
	Method func(self interface{}, args ...interface{}) (interface{}, error)
}

// Adapter is a compile-time table of method-role bindings for a wrapped
// third-party type. It replaces the dynamic attribute-rewriting the source
// framework used to present foreign fit/transform objects as actors: instead
// of inspecting the wrapped value at runtime, the binding table is built
// once, by hand or by a generator, per wrapped type.
type Adapter struct {
	TypeName string
	bindings map[Role]func(self interface{}, args ...interface{}) (interface{}, error)
}

// NewAdapter builds an Adapter from a set of Bindings. Duplicate roles
// overwrite earlier ones: last write wins, the same rule the plugin
// registry uses for duplicate registrations.
func NewAdapter(typeName string, bindings ...Binding) *Adapter {
	a := &Adapter{
		TypeName: typeName,
		bindings: map[Role]func(self interface{}, args ...interface{}) (interface{}, error){},
	}
	for _, b := range bindings {
		a.bindings[b.Role] = b.Method
	}
	return a
}

// Dispatch invokes the bound method for role against self, failing if the
// adapter has no binding for it.
func (a *Adapter) Dispatch(role Role, self interface{}, args ...interface{}) (interface{}, error) {
	fn, ok := a.bindings[role]
	if !ok {
		return nil, fmt.Errorf("actor: %s has no %s binding", a.TypeName, role)
	}
	return fn(self, args...)
}

// Has reports whether the adapter has a binding for role, used to derive
// Spec.Stateful() (an adapter with a RoleTrain binding is stateful).
func (a *Adapter) Has(role Role) bool {
	_, ok := a.bindings[role]
	return ok
}

// Wrap produces a Spec for a value adapted through a, carrying params
// through the adapter's RoleGetParams binding when present, falling back to
// the supplied defaults otherwise.
func Wrap(a *Adapter, self interface{}, defaults map[string]interface{}) (Spec, error) {
	params := defaults
	if a.Has(RoleGetParams) {
		raw, err := a.Dispatch(RoleGetParams, self)
		if err != nil {
			return nil, err
		}
		if m, ok := raw.(map[string]interface{}); ok {
			params = m
		} else if t, ok := raw.(typed.Typed); ok {
			params = map[string]interface{}(t)
		}
	}
	return New(a.TypeName, params, a.Has(RoleTrain)), nil
}
