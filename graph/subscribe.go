// Copyright © 2026 the forml authors.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package graph

// Subscribe installs a directed edge from pub's output port pubPort to
// sub's input port subPort, validating the graph's structural invariants
// in order. It is the single mutation entry point on the graph:
// subscriptions are immutable once installed, and the edge list is
// authoritative.
func Subscribe(pub *Node, pubPort int, sub *Node, subPort Port) error {
	return subscribe(pub, pubPort, sub, subPort)
}

// subscribe resolves Future forwarding before delegating to installEdge for
// the real validation + installation. Futures are re-broadcast: publishing
// to a Future's output transparently publishes to every downstream
// subscriber already recorded on it, and subscribing a Future's input to an
// upstream publisher rewrites all existing downstream subscribers to
// subscribe directly to that publisher. A Future with both sides known
// dissolves out of the graph at that moment, except for the root futures
// seeding a brand-new trunk, which are allowed to stand in as the literal
// entry point of the compiled graph.
func subscribe(pub *Node, pubPort int, sub *Node, subPort Port) error {
	if pub.kind == KindFuture {
		if pub.futureUpstream != nil {
			real := pub.futureUpstream
			pub.dissolved = true
			return subscribe(real.Publisher, real.PublishPort, sub, subPort)
		}
		// A root future never acquires an upstream publisher of its own —
		// it IS the graph's entry point — so its edges install directly
		// with the future standing in as publisher, rather than waiting
		// in futurePending for a dissolve that will never come.
		if pub.root {
			return installEdge(pub, pubPort, sub, subPort)
		}
		pub.futurePending = append(pub.futurePending, pendingRef{node: sub, port: subPort})
		return nil
	}

	if sub.kind == KindFuture {
		if len(sub.futurePending) > 0 {
			pending := sub.futurePending
			sub.futurePending = nil
			sub.dissolved = true
			for _, p := range pending {
				if err := subscribe(pub, pubPort, p.node, p.port); err != nil {
					return err
				}
			}
			return nil
		}
		sub.futureUpstream = &Subscription{Publisher: pub, PublishPort: pubPort}
		return nil
	}

	return installEdge(pub, pubPort, sub, subPort)
}

func installEdge(pub *Node, pubPort int, sub *Node, subPort Port) error {
	if pub == sub {
		return newError(ErrSelfLoop, pub.DebugID(), subPort.String(), "node subscribed to itself")
	}

	if sub.input[subPort] != nil {
		return newError(ErrAlreadyBound, sub.DebugID(), subPort.String(), "input port already occupied")
	}

	if subPort.Kind == PortApply {
		if sub.input[Train] != nil || sub.input[Label] != nil {
			return newError(ErrPortCollision, sub.DebugID(), subPort.String(), "node already has a train/label input")
		}
	} else {
		for p := range sub.input {
			if p.Kind == PortApply {
				return newError(ErrPortCollision, sub.DebugID(), subPort.String(), "node already has an apply input")
			}
		}
	}

	if subPort.Kind == PortApply && pub.trained {
		return newError(ErrTrainedPublisher, pub.DebugID(), subPort.String(), "trained node cannot feed an apply consumer")
	}

	if pubPort < 0 || pubPort >= pub.szout {
		return newError(ErrBadTail, pub.DebugID(), subPort.String(), "publish port out of range")
	}

	edge := &Subscription{
		Publisher:   pub,
		PublishPort: pubPort,
		Subscriber:  sub,
		SubPort:     subPort,
		seq:         nextSeq(pub.sess),
	}

	pub.output[pubPort] = append(pub.output[pubPort], edge)
	sub.input[subPort] = edge

	if subPort.Kind == PortTrain || subPort.Kind == PortLabel {
		sub.trained = true
	}

	return nil
}

func nextSeq(s *Session) int {
	s.seqCounter++
	return s.seqCounter
}
