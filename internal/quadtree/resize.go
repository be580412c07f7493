package quadtree

// Resize rebalances the whole tree once. Overflowing leaves above the depth
// limit become branches and have their items re-inserted; branches whose
// children are all empty leaves collapse back into an empty leaf.
func (t *Tree[T]) Resize() {
	t.resize(Root)
}

func (t *Tree[T]) resize(id NodeID) {
	switch t.nodes[id].kind {
	case Leaf:
		n := &t.nodes[id]
		if len(n.items) <= t.capacity || n.depth >= t.maxDepth {
			return
		}
		items := n.items
		t.split(id)
		for _, it := range items {
			t.Insert(id, it)
		}
		// children may still be over capacity
		t.resize(id)
	case Branch:
		for _, c := range t.nodes[id].children {
			t.resize(c)
		}
		if t.collapsible(id) {
			t.merge(id)
		}
	}
}

// split turns leaf id into a branch with four empty leaf children, keeping
// its ID so cached references to it stay valid.
func (t *Tree[T]) split(id NodeID) {
	bounds, depth := t.nodes[id].bounds, t.nodes[id].depth
	var children [4]NodeID
	for q := range children {
		// alloc may grow the arena, so node pointers are not held across it
		children[q] = t.alloc(id, bounds.quadrant(q), depth+1)
	}
	n := &t.nodes[id]
	n.kind = Branch
	n.children = children
	n.items = nil
	n.index = nil
}

func (t *Tree[T]) collapsible(id NodeID) bool {
	for _, c := range t.nodes[id].children {
		if cn := &t.nodes[c]; cn.kind != Leaf || len(cn.items) > 0 {
			return false
		}
	}
	return true
}

// merge turns branch id, whose children are all empty leaves, into an empty leaf.
func (t *Tree[T]) merge(id NodeID) {
	for _, c := range t.nodes[id].children {
		t.release(c)
	}
	n := &t.nodes[id]
	n.kind = Leaf
	n.children = [4]NodeID{}
	n.index = make(map[T]int)
}
