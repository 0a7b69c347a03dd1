// Copyright © 2026 the forml authors.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package telemetry

import (
	"context"
	"log/slog"

	"github.com/YamanAlBochi/forml/graph"
)

// Visitor is a graph.Visitor that emits one span and one counter metric per
// node as Path.Accept walks a compiled path, then a closing span for the
// path as a whole. Unlike the teacher's per-packet vertex wrapping (each
// packet passing through a vertex gets its own span), this wraps
// compile-time traversal: the spans here describe the shape of a compiled
// graph, not a single execution of it, and are intended for `flowctl
// compile`-style inspection rather than request tracing.
type Visitor struct {
	ctx   context.Context
	label string
	nodes []NodeEvent
}

// NodeEvent records what Visitor observed about one node.
type NodeEvent struct {
	DebugID  string
	SpecName string
	Stateful bool
	Trained  bool
	SzIn     int
	SzOut    int
}

// NewVisitor returns a Visitor that starts spans under ctx, labeling the
// path-level span name.
func NewVisitor(ctx context.Context, label string) *Visitor {
	return &Visitor{ctx: ctx, label: label}
}

// Nodes returns the events recorded so far, in visit order.
func (v *Visitor) Nodes() []NodeEvent {
	out := make([]NodeEvent, len(v.nodes))
	copy(out, v.nodes)
	return out
}

// VisitNode implements graph.Visitor.
func (v *Visitor) VisitNode(n *graph.Node) {
	ev := NodeEvent{
		DebugID: n.DebugID(),
		SzIn:    n.SzIn(),
		SzOut:   n.SzOut(),
		Trained: n.Trained(),
	}
	if spec := n.Spec(); spec != nil {
		ev.SpecName = spec.Name()
		ev.Stateful = spec.Stateful()
	}
	v.nodes = append(v.nodes, ev)

	c := SpanStart(v.ctx, "node:"+ev.DebugID,
		slog.String("spec", ev.SpecName),
		slog.Bool("stateful", ev.Stateful),
		slog.Bool("trained", ev.Trained),
	)
	Int64Counter(c, "forml.nodes.visited", 1, slog.String("spec", ev.SpecName))
	SpanEnd(c, "node:"+ev.DebugID)
}

// VisitPath implements graph.Visitor, closing a summary span for the whole
// traversal once every node has been visited.
func (v *Visitor) VisitPath(p *graph.Path) {
	kind := "channel"
	if p.Kind() == graph.Closure {
		kind = "closure"
	}
	c := SpanStart(v.ctx, "path:"+v.label,
		slog.Int("nodes", len(v.nodes)),
		slog.String("kind", kind),
	)
	Int64Histogram(c, "forml.path.node_count", int64(len(v.nodes)), slog.String("path", v.label))
	SpanEnd(c, "path:"+v.label)
}
