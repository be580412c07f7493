package quadtree

// Touches reports whether item's bounding circle touches node id's region.
func (t *Tree[T]) Touches(id NodeID, item T) bool {
	x, y, r := item.Circle()
	return t.nodes[id].bounds.Touches(x, y, r)
}

// Encloses reports whether node id's region strictly contains item.
func (t *Tree[T]) Encloses(id NodeID, item T) bool {
	x, y, r := item.Circle()
	return t.nodes[id].bounds.Encloses(x, y, r)
}

// Insert adds item to every leaf under id that it touches. The deepest
// visited node that encloses item becomes its node. Items that touch nothing
// are silently not inserted.
func (t *Tree[T]) Insert(id NodeID, item T) {
	x, y, r := item.Circle()
	t.insert(id, item, x, y, r)
}

func (t *Tree[T]) insert(id NodeID, item T, x, y, r float64) {
	n := &t.nodes[id]
	if !n.bounds.Touches(x, y, r) {
		return
	}
	if n.bounds.Encloses(x, y, r) {
		item.SetNode(id)
	}
	if n.kind == Leaf {
		if _, ok := n.index[item]; !ok {
			n.index[item] = len(n.items)
			n.items = append(n.items, item)
		}
		return
	}
	for _, c := range n.children {
		t.insert(c, item, x, y, r)
	}
}

// Remove drops item from every leaf under id. Removing an absent item is a
// no-op.
func (t *Tree[T]) Remove(id NodeID, item T) {
	if !t.valid(id) {
		id = Root
	}
	t.remove(id, item)
}

func (t *Tree[T]) remove(id NodeID, item T) {
	n := &t.nodes[id]
	if n.kind == Branch {
		for _, c := range n.children {
			t.remove(c, item)
		}
		return
	}
	i, ok := n.index[item]
	if !ok {
		return
	}
	last := len(n.items) - 1
	if i != last {
		moved := n.items[last]
		n.items[i] = moved
		n.index[moved] = i
	}
	var zero T
	n.items[last] = zero
	n.items = n.items[:last]
	delete(n.index, item)
}

// Relocate repairs item's residency after it moved. Starting from its cached
// node it walks up until a node encloses it (or the root is reached), then
// removes and re-inserts it below that node.
func (t *Tree[T]) Relocate(item T) {
	id := item.Node()
	if !t.valid(id) {
		id = Root
	}
	x, y, r := item.Circle()
	for !t.nodes[id].bounds.Encloses(x, y, r) && t.nodes[id].parent != None {
		id = t.nodes[id].parent
	}
	item.SetNode(id)
	t.remove(id, item)
	t.insert(id, item, x, y, r)
}
