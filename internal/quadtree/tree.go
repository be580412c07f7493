// Package quadtree implements the adaptive spatial index used for broad-phase
// collision detection.
//
// Nodes live in an arena and are addressed by NodeID. Each node is either a
// Leaf holding item references or a Branch with four children in NE, NW, SW,
// SE order. Items cache the ID of the deepest node that fully encloses them so
// relocation after motion only has to walk a small part of the tree.
package quadtree

// NodeID addresses a node in the tree arena.
type NodeID int32

const (
	// Root is the ID of the root node. It is never freed.
	Root NodeID = 0
	// None marks the absent parent of the root.
	None NodeID = -1
)

// Kind tags a node as Leaf or Branch.
type Kind uint8

const (
	Leaf Kind = iota
	Branch
)

func (k Kind) String() string {
	if k == Branch {
		return "branch"
	}
	return "leaf"
}

// Quadrant order of a branch's children.
const (
	NE = iota
	NW
	SW
	SE
)

// Item is anything with a bounding circle that can remember its enclosing node.
// Implementations are compared by identity, so pointer types are expected.
type Item interface {
	comparable
	Circle() (x, y, r float64)
	Node() NodeID
	SetNode(id NodeID)
}

// Rect is an axis-aligned region given by its top-left corner and size.
type Rect struct {
	X, Y, W, H float64
}

// Touches reports whether a circle overlaps the rectangle expanded outward by
// the radius. It over-reports near corners, so an item may be resident in
// several adjacent leaves at once.
func (r Rect) Touches(x, y, radius float64) bool {
	return x >= r.X-radius && x <= r.X+r.W+radius &&
		y >= r.Y-radius && y <= r.Y+r.H+radius
}

// Encloses reports whether the whole circle lies strictly inside the rectangle.
func (r Rect) Encloses(x, y, radius float64) bool {
	return x > r.X+radius && x < r.X+r.W-radius &&
		y > r.Y+radius && y < r.Y+r.H-radius
}

// quadrant returns the sub-rectangle for child q.
func (r Rect) quadrant(q int) Rect {
	hw, hh := r.W/2, r.H/2
	sub := Rect{X: r.X, Y: r.Y, W: hw, H: hh}
	if q == NE || q == SE {
		sub.X += hw
	}
	if q == SW || q == SE {
		sub.Y += hh
	}
	return sub
}

type node[T Item] struct {
	kind     Kind
	live     bool
	parent   NodeID
	depth    int
	bounds   Rect
	children [4]NodeID

	// leaf storage: items plus their positions for O(1) swap-removal
	items []T
	index map[T]int
}

// Tree is a quadtree over a fixed rectangular arena. It is not safe for
// concurrent use.
type Tree[T Item] struct {
	nodes    []node[T]
	free     []NodeID
	capacity int
	maxDepth int
}

// New creates a tree whose root is an empty leaf covering bounds. A leaf with
// more than capacity items splits on Resize unless it is at maxDepth.
func New[T Item](bounds Rect, capacity, maxDepth int) *Tree[T] {
	t := &Tree[T]{
		capacity: capacity,
		maxDepth: maxDepth,
	}
	t.nodes = append(t.nodes, node[T]{
		kind:   Leaf,
		live:   true,
		parent: None,
		bounds: bounds,
		index:  make(map[T]int),
	})
	return t
}

// Bounds returns the region covered by node id.
func (t *Tree[T]) Bounds(id NodeID) Rect {
	return t.nodes[id].bounds
}

// Kind returns whether node id is a leaf or a branch.
func (t *Tree[T]) Kind(id NodeID) Kind {
	return t.nodes[id].kind
}

// Depth returns the depth of node id (root is 0).
func (t *Tree[T]) Depth(id NodeID) int {
	return t.nodes[id].depth
}

// Parent returns the parent of node id, or None for the root.
func (t *Tree[T]) Parent(id NodeID) NodeID {
	return t.nodes[id].parent
}

// Children returns the four children of a branch in NE, NW, SW, SE order.
// The result is meaningless for leaves.
func (t *Tree[T]) Children(id NodeID) [4]NodeID {
	return t.nodes[id].children
}

// Items returns the items resident in leaf id. The slice is owned by the tree
// and is only valid until the next mutation.
func (t *Tree[T]) Items(id NodeID) []T {
	return t.nodes[id].items
}

// Contains reports whether leaf id holds item.
func (t *Tree[T]) Contains(id NodeID, item T) bool {
	n := &t.nodes[id]
	if n.kind != Leaf {
		return false
	}
	_, ok := n.index[item]
	return ok
}

// Capacity returns the per-leaf item count above which leaves split.
func (t *Tree[T]) Capacity() int {
	return t.capacity
}

// MaxDepth returns the depth limit.
func (t *Tree[T]) MaxDepth() int {
	return t.maxDepth
}

// valid reports whether id names a live node.
func (t *Tree[T]) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes) && t.nodes[id].live
}

// alloc returns a fresh empty leaf, reusing freed slots first.
func (t *Tree[T]) alloc(parent NodeID, bounds Rect, depth int) NodeID {
	n := node[T]{
		kind:   Leaf,
		live:   true,
		parent: parent,
		depth:  depth,
		bounds: bounds,
		index:  make(map[T]int),
	}
	if k := len(t.free); k > 0 {
		id := t.free[k-1]
		t.free = t.free[:k-1]
		t.nodes[id] = n
		return id
	}
	t.nodes = append(t.nodes, n)
	return NodeID(len(t.nodes) - 1)
}

// release frees a node slot; its children must already be released.
func (t *Tree[T]) release(id NodeID) {
	t.nodes[id] = node[T]{parent: None}
	t.free = append(t.free, id)
}
