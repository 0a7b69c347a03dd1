// Copyright © 2026 the forml authors.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package tabular is a small column-selection DSL over row-shaped data: it
// builds the actor specs a Labeler's feature/label extractors are bound to,
// and a graph.Visitor that reports which columns a compiled graph touches.
package tabular

import (
	"github.com/YamanAlBochi/forml/actor"
	"github.com/YamanAlBochi/forml/graph"
	"github.com/whitaker-io/data"
)

// Column names a single field of a data.Data row.
type Column string

// Frame is a fixed, ordered set of columns a tabular actor reads or writes.
type Frame []Column

func (f Frame) strings() []string {
	out := make([]string, len(f))
	for i, c := range f {
		out[i] = string(c)
	}
	return out
}

// Select returns a stateless actor.Spec for a projection that keeps only
// f's columns of each row.
func (f Frame) Select(name string) actor.Spec {
	return actor.New(name, map[string]interface{}{"columns": f.strings()}, false)
}

// Exclude returns a stateless actor.Spec for a projection that drops f's
// columns, keeping everything else.
func (f Frame) Exclude(name string) actor.Spec {
	return actor.New(name, map[string]interface{}{"exclude": f.strings()}, false)
}

// Row applies f over d, returning a new data.Data holding only the columns
// named in f that are actually present.
func (f Frame) Row(d data.Data) data.Data {
	out := data.Data{}
	for _, c := range f {
		if v, ok := d[string(c)]; ok {
			out[string(c)] = v
		}
	}
	return out
}

// Describe implements graph.Visitor, recording the Frame carried by every
// worker node's spec (under a "columns" or "exclude" parameter), keyed by
// the node's debug id, in visit order.
type Describe struct {
	Touched map[string]Frame
	order   []string
}

// NewDescribe returns an empty Describe ready to Accept a Path.
func NewDescribe() *Describe {
	return &Describe{Touched: map[string]Frame{}}
}

// Order is the node debug ids in the order they were visited.
func (d *Describe) Order() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// VisitNode implements graph.Visitor.
func (d *Describe) VisitNode(n *graph.Node) {
	if n.Kind() != graph.KindWorker || n.Spec() == nil {
		return
	}
	params := n.Spec().Params()
	for _, key := range []string{"columns", "exclude"} {
		raw, ok := params[key]
		if !ok {
			continue
		}
		frame, ok := toFrame(raw)
		if !ok || len(frame) == 0 {
			continue
		}
		id := n.DebugID()
		if _, seen := d.Touched[id]; !seen {
			d.order = append(d.order, id)
		}
		d.Touched[id] = frame
	}
}

// VisitPath implements graph.Visitor. Describe has no path-level summary.
func (d *Describe) VisitPath(p *graph.Path) {}

func toFrame(raw interface{}) (Frame, bool) {
	switch v := raw.(type) {
	case []string:
		out := make(Frame, len(v))
		for i, s := range v {
			out[i] = Column(s)
		}
		return out, true
	case []interface{}:
		out := make(Frame, 0, len(v))
		for _, e := range v {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			out = append(out, Column(s))
		}
		return out, true
	default:
		return nil, false
	}
}
