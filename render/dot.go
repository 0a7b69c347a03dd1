// Copyright © 2026 the forml authors.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package render renders a compiled graph as Graphviz DOT source, a
// graph.Visitor consumer in the same spirit as the apply/train dag.render
// calls in the original pipeline's example scripts — the reference project
// builds a visual.Dot visitor and accepts both the train and apply paths
// into it before writing the result out. This package keeps that shape:
// visit one or more Paths into a Dot, then take String().
package render

import (
	"fmt"
	"strings"

	"github.com/YamanAlBochi/forml/graph"
)

// Dot is a graph.Visitor that accumulates a Graphviz DOT digraph
// describing every node it visits and every output subscription of those
// nodes (Train/Label edges drawn dashed). A single Dot can accept
// more than one Path — the apply graph and the train graph, say — and the
// result is their union, since node identity (DebugID) is stable across
// both.
type Dot struct {
	name    string
	nodes   strings.Builder
	edges   strings.Builder
	seen    map[string]bool
	seenEdg map[string]bool
}

// NewDot returns an empty Dot that will render as `digraph name { ... }`.
func NewDot(name string) *Dot {
	return &Dot{name: name, seen: map[string]bool{}, seenEdg: map[string]bool{}}
}

// VisitNode implements graph.Visitor: declares n as a styled DOT node and
// emits one edge per output subscription of n, of any port kind, whether
// or not the subscriber itself is visited. Repeated edges are emitted once.
func (d *Dot) VisitNode(n *graph.Node) {
	id := quote(n.DebugID())
	if !d.seen[id] {
		d.seen[id] = true
		fmt.Fprintf(&d.nodes, "  %s [%s];\n", id, attrsFor(n))
	}

	for i := 0; i < n.SzOut(); i++ {
		for _, sub := range n.Outputs(i) {
			d.edge(id, sub)
		}
	}
}

func (d *Dot) edge(fromID string, sub *graph.Subscription) {
	toID := quote(sub.Subscriber.DebugID())
	key := fromID + "->" + toID + ":" + sub.SubPort.String()
	if d.seenEdg[key] {
		return
	}
	d.seenEdg[key] = true

	style := ""
	if sub.SubPort.Kind != graph.PortApply {
		style = ", style=dashed, color=gray40"
	}
	fmt.Fprintf(&d.edges, "  %s -> %s [label=%q%s];\n", fromID, toID, sub.SubPort.String(), style)
}

// VisitPath implements graph.Visitor. Dot has no path-level summary: the
// node/edge declarations accumulated by VisitNode are enough.
func (d *Dot) VisitPath(p *graph.Path) {}

// String renders the accumulated nodes and edges as a complete DOT
// digraph, ready to hand to `dot -Tpng` or an equivalent renderer.
func (d *Dot) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "digraph %s {\n  rankdir=LR;\n", quote(d.name))
	b.WriteString(d.nodes.String())
	b.WriteString(d.edges.String())
	b.WriteString("}\n")
	return b.String()
}

func attrsFor(n *graph.Node) string {
	label := n.DebugID()
	shape := "ellipse"
	switch {
	case n.Kind() == graph.KindFuture:
		shape = "point"
		label = "future"
	case n.Trained():
		shape = "box"
	}
	attrs := fmt.Sprintf("label=%q, shape=%s", label, shape)
	if n.Kind() == graph.KindWorker && n.Spec() != nil && n.Spec().Stateful() {
		attrs += ", peripheries=2"
	}
	return attrs
}

// quote wraps s as a DOT quoted identifier, escaping embedded quotes. DOT
// identifiers built from DebugID (which contains "#", "(", ")") must be
// quoted — DOT's bareword id rule doesn't allow those characters.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
