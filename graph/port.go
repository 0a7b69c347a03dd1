// Copyright © 2026 the forml authors.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package graph

import "fmt"

// PortKind discriminates the three slot kinds a node's ports can carry.
type PortKind int

const (
	// PortApply identifies a data slot, both input and output side.
	PortApply PortKind = iota
	// PortTrain identifies a label-free input slot feeding an actor's
	// training method.
	PortTrain
	// PortLabel identifies a paired input slot carrying the training target.
	PortLabel
)

func (k PortKind) String() string {
	switch k {
	case PortApply:
		return "apply"
	case PortTrain:
		return "train"
	case PortLabel:
		return "label"
	default:
		return "unknown"
	}
}

// Port is a tagged value identifying a slot on a node. Apply ports are
// indexed; Train and Label are singletons.
type Port struct {
	Kind  PortKind
	Index int
}

// Apply returns the i'th Apply port.
func Apply(i int) Port { return Port{Kind: PortApply, Index: i} }

// Train is the singleton Train port.
var Train = Port{Kind: PortTrain}

// Label is the singleton Label port.
var Label = Port{Kind: PortLabel}

// Equal reports whether p and o name the same port. Apply(i) == Apply(j)
// iff i == j; Train and Label are singletons compared by kind alone.
func (p Port) Equal(o Port) bool {
	if p.Kind != o.Kind {
		return false
	}
	if p.Kind != PortApply {
		return true
	}
	return p.Index == o.Index
}

func (p Port) String() string {
	if p.Kind == PortApply {
		return fmt.Sprintf("apply(%d)", p.Index)
	}
	return p.Kind.String()
}
