// Copyright © 2026 the forml authors.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package graph

import "github.com/google/uuid"

// Session is the arena that owns every Node and ForkGroup created during
// one compilation. Nodes point at their ForkGroup; the Session owns the
// list of groups. A Session's node graph must not be mutated
// after Freeze returns a Compiled pair (see compiled.go).
type Session struct {
	id         string
	nodes      []*Node
	groups     []*ForkGroup
	futures    []*Node
	seqCounter int
}

// NewSession starts a fresh compilation arena.
func NewSession() *Session {
	return &Session{id: uuid.NewString()}
}

// ID is the session's identifier, useful for log correlation.
func (s *Session) ID() string { return s.id }

// ForkGroup is the equivalence class of all Worker nodes sharing one
// logical actor identity. The compiler guarantees structural uniqueness of
// fork identity; the Session owns the slice of members.
type ForkGroup struct {
	id      int
	members []*Node
}

// ID is the fork group's arena-local identifier.
func (fg *ForkGroup) ID() int { return fg.id }

// Members lists every node forked into this group, in creation order.
func (fg *ForkGroup) Members() []*Node {
	out := make([]*Node, len(fg.members))
	copy(out, fg.members)
	return out
}

func (fg *ForkGroup) trainedCount() int {
	n := 0
	for _, m := range fg.members {
		if m.trained {
			n++
		}
	}
	return n
}

func (s *Session) newForkGroup() *ForkGroup {
	fg := &ForkGroup{id: len(s.groups)}
	s.groups = append(s.groups, fg)
	return fg
}

// ForkGroups returns every fork group allocated in this session, in
// creation order.
func (s *Session) ForkGroups() []*ForkGroup {
	out := make([]*ForkGroup, len(s.groups))
	copy(out, s.groups)
	return out
}

// Nodes returns every node allocated in this session, in creation order,
// so callers get a deterministic enumeration regardless of traversal order.
func (s *Session) Nodes() []*Node {
	out := make([]*Node, len(s.nodes))
	copy(out, s.nodes)
	return out
}

func (s *Session) register(n *Node) *Node {
	n.id = len(s.nodes)
	s.nodes = append(s.nodes, n)
	if n.kind == KindFuture {
		s.futures = append(s.futures, n)
	}
	return n
}
