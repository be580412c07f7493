package quadtree

import "iter"

// Leaves yields every leaf with its resident items, depth first in NE, NW,
// SW, SE order. The sequence is lazy and must not be used across mutations.
func (t *Tree[T]) Leaves() iter.Seq2[NodeID, []T] {
	return func(yield func(NodeID, []T) bool) {
		t.walkLeaves(Root, yield)
	}
}

func (t *Tree[T]) walkLeaves(id NodeID, yield func(NodeID, []T) bool) bool {
	n := &t.nodes[id]
	if n.kind == Leaf {
		return yield(id, n.items)
	}
	for _, c := range n.children {
		if !t.walkLeaves(c, yield) {
			return false
		}
	}
	return true
}

// Walk calls fn for every live node in pre-order. Returning false from fn
// skips that node's subtree.
func (t *Tree[T]) Walk(fn func(id NodeID) bool) {
	t.walk(Root, fn)
}

func (t *Tree[T]) walk(id NodeID, fn func(id NodeID) bool) {
	if !fn(id) {
		return
	}
	if n := &t.nodes[id]; n.kind == Branch {
		for _, c := range n.children {
			t.walk(c, fn)
		}
	}
}

// NodeInfo is a read-only view of one node for debug overlays.
type NodeInfo struct {
	ID     NodeID
	Kind   Kind
	Depth  int
	Bounds Rect
	Count  int // resident items, leaves only
}

// Snapshot copies the tree structure into a flat pre-order list.
func (t *Tree[T]) Snapshot() []NodeInfo {
	var out []NodeInfo
	t.Walk(func(id NodeID) bool {
		n := &t.nodes[id]
		out = append(out, NodeInfo{
			ID:     id,
			Kind:   n.kind,
			Depth:  n.depth,
			Bounds: n.bounds,
			Count:  len(n.items),
		})
		return true
	})
	return out
}

// Stats summarises tree shape.
type Stats struct {
	Nodes    int
	Leaves   int
	MaxDepth int
}

// Stats walks the tree and counts nodes.
func (t *Tree[T]) Stats() Stats {
	var s Stats
	t.Walk(func(id NodeID) bool {
		n := &t.nodes[id]
		s.Nodes++
		if n.kind == Leaf {
			s.Leaves++
		}
		if n.depth > s.MaxDepth {
			s.MaxDepth = n.depth
		}
		return true
	})
	return s
}
