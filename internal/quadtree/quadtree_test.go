package quadtree

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type body struct {
	x, y, r float64
	node    NodeID
}

func (b *body) Circle() (float64, float64, float64) { return b.x, b.y, b.r }
func (b *body) Node() NodeID                        { return b.node }
func (b *body) SetNode(id NodeID)                   { b.node = id }

func newBody(x, y, r float64) *body {
	return &body{x: x, y: y, r: r, node: Root}
}

var arena = Rect{X: 0, Y: 0, W: 400, H: 200}

func randomBodies(rng *rand.Rand, n int) []*body {
	out := make([]*body, n)
	for i := range out {
		r := 1 + rng.Float64()*3
		out[i] = newBody(r+rng.Float64()*(arena.W-2*r), r+rng.Float64()*(arena.H-2*r), r)
	}
	return out
}

func TestRectTouchesAndEncloses(t *testing.T) {
	r := Rect{X: 10, Y: 10, W: 20, H: 20}

	assert.True(t, r.Touches(20, 20, 1), "centre")
	assert.True(t, r.Touches(8, 20, 2), "outside by exactly radius")
	assert.False(t, r.Touches(7.9, 20, 2), "outside by more than radius")
	assert.True(t, r.Touches(8, 8, 2), "corner over-inclusion")

	assert.True(t, r.Encloses(20, 20, 5))
	assert.False(t, r.Encloses(12, 20, 2), "touching the edge from inside")
	assert.False(t, r.Encloses(20, 20, 10), "too large")
}

func TestQuadrantOrder(t *testing.T) {
	r := Rect{X: 0, Y: 0, W: 8, H: 4}
	assert.Equal(t, Rect{X: 4, Y: 0, W: 4, H: 2}, r.quadrant(NE))
	assert.Equal(t, Rect{X: 0, Y: 0, W: 4, H: 2}, r.quadrant(NW))
	assert.Equal(t, Rect{X: 0, Y: 2, W: 4, H: 2}, r.quadrant(SW))
	assert.Equal(t, Rect{X: 4, Y: 2, W: 4, H: 2}, r.quadrant(SE))
}

func TestInsertOutsideArenaIsNoop(t *testing.T) {
	tree := New[*body](arena, 4, 3)
	b := newBody(-50, -50, 2)
	tree.Insert(Root, b)

	assert.Empty(t, tree.Items(Root))
	assert.Equal(t, Root, b.Node())
}

func TestInsertPicksDeepestEnclosingNode(t *testing.T) {
	tree := New[*body](arena, 1, 4)
	// two far-apart bodies force a split
	tree.Insert(Root, newBody(50, 50, 2))
	tree.Insert(Root, newBody(350, 150, 2))
	tree.Resize()
	require.Equal(t, Branch, tree.Kind(Root))

	b := newBody(60, 40, 1)
	tree.Insert(Root, b)
	assert.NotEqual(t, Root, b.Node())
	assert.True(t, tree.Encloses(b.Node(), b))
	assert.Equal(t, Leaf, tree.Kind(b.Node()))
	assert.True(t, tree.Contains(b.Node(), b))
}

func TestBodyOnBoundaryIsResidentInSeveralLeaves(t *testing.T) {
	tree := New[*body](arena, 1, 1)
	tree.Insert(Root, newBody(50, 50, 2))
	tree.Insert(Root, newBody(350, 150, 2))
	tree.Resize()

	centre := newBody(200, 100, 3)
	tree.Insert(Root, centre)

	leaves := 0
	for id := range tree.Leaves() {
		if tree.Contains(id, centre) {
			leaves++
		}
	}
	assert.Equal(t, 4, leaves)
	assert.Equal(t, Root, centre.Node(), "no quadrant encloses it")
}

func TestRemoveIsIdempotent(t *testing.T) {
	tree := New[*body](arena, 16, 5)
	a, b := newBody(10, 10, 1), newBody(20, 20, 1)
	tree.Insert(Root, a)
	tree.Insert(Root, b)

	tree.Remove(Root, a)
	tree.Remove(Root, a)
	tree.Remove(Root, newBody(30, 30, 1))

	assert.Equal(t, []*body{b}, tree.Items(Root))
}

func TestResizeRespectsDepthBound(t *testing.T) {
	const maxDepth = 3
	tree := New[*body](arena, 2, maxDepth)
	for i := 0; i < 50; i++ {
		tree.Insert(Root, newBody(101, 51, 0.5))
	}
	tree.Resize()

	deepestCount := 0
	for _, n := range tree.Snapshot() {
		assert.LessOrEqual(t, n.Depth, maxDepth)
		if n.Kind == Leaf && n.Depth == maxDepth {
			deepestCount = max(deepestCount, n.Count)
		}
	}
	assert.Equal(t, 50, deepestCount, "leaf at max depth keeps everything")
}

func TestBranchChildrenPartitionParent(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	tree := New[*body](arena, 4, 6)
	for _, b := range randomBodies(rng, 500) {
		tree.Insert(Root, b)
	}
	tree.Resize()

	branches := 0
	tree.Walk(func(id NodeID) bool {
		if tree.Kind(id) != Branch {
			return true
		}
		branches++
		p := tree.Bounds(id)
		kids := tree.Children(id)
		area := 0.0
		for q, c := range kids {
			cb := tree.Bounds(c)
			area += cb.W * cb.H
			assert.Equal(t, tree.Depth(id)+1, tree.Depth(c))
			assert.Equal(t, id, tree.Parent(c))
			assert.GreaterOrEqual(t, cb.X, p.X)
			assert.GreaterOrEqual(t, cb.Y, p.Y)
			assert.LessOrEqual(t, cb.X+cb.W, p.X+p.W)
			assert.LessOrEqual(t, cb.Y+cb.H, p.Y+p.H)
			for _, o := range kids[q+1:] {
				ob := tree.Bounds(o)
				overlapW := min(cb.X+cb.W, ob.X+ob.W) - max(cb.X, ob.X)
				overlapH := min(cb.Y+cb.H, ob.Y+ob.H) - max(cb.Y, ob.Y)
				assert.False(t, overlapW > 0 && overlapH > 0, "children overlap")
			}
		}
		assert.InDelta(t, p.W*p.H, area, 1e-9)
		return true
	})
	assert.Positive(t, branches)
}

func TestResizeIsIdempotent(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	tree := New[*body](arena, 8, 5)
	for _, b := range randomBodies(rng, 300) {
		tree.Insert(Root, b)
	}
	tree.Resize()
	before := tree.Snapshot()
	tree.Resize()
	assert.Equal(t, before, tree.Snapshot())
}

func TestResizeMergesEmptyBranches(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	tree := New[*body](arena, 4, 5)
	bodies := randomBodies(rng, 200)
	for _, b := range bodies {
		tree.Insert(Root, b)
	}
	tree.Resize()
	require.Equal(t, Branch, tree.Kind(Root))
	peak := len(tree.nodes)

	for _, b := range bodies {
		tree.Remove(b.Node(), b)
	}
	tree.Resize()

	assert.Equal(t, Leaf, tree.Kind(Root))
	assert.Equal(t, Stats{Nodes: 1, Leaves: 1}, tree.Stats())

	// freed slots are reused
	for _, b := range bodies {
		b.node = Root
		tree.Insert(Root, b)
	}
	tree.Resize()
	assert.Equal(t, peak, len(tree.nodes))
}

func TestRelocateKeepsResidencyConsistent(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 8))
	tree := New[*body](arena, 6, 5)
	bodies := randomBodies(rng, 250)
	for _, b := range bodies {
		tree.Insert(Root, b)
	}
	tree.Resize()

	for step := 0; step < 40; step++ {
		for _, b := range bodies {
			b.x += (rng.Float64() - 0.5) * 12
			b.y += (rng.Float64() - 0.5) * 12
			b.x = min(max(b.x, b.r), arena.W-b.r)
			b.y = min(max(b.y, b.r), arena.H-b.r)
			tree.Relocate(b)
		}
		tree.Resize()

		for _, b := range bodies {
			id := b.Node()
			assert.True(t, id == Root || tree.Encloses(id, b), "enclosing node invariant")
		}
		for id, items := range tree.Leaves() {
			for _, b := range bodies {
				assert.Equal(t, tree.Touches(id, b), tree.Contains(id, b))
			}
			assert.True(t, len(items) <= tree.Capacity() || tree.Depth(id) == tree.MaxDepth())
		}
	}
}

func TestLeavesIsDepthFirstQuadrantOrder(t *testing.T) {
	tree := New[*body](arena, 1, 1)
	tree.Insert(Root, newBody(50, 50, 2))
	tree.Insert(Root, newBody(350, 150, 2))
	tree.Resize()

	var got []Rect
	for id := range tree.Leaves() {
		got = append(got, tree.Bounds(id))
	}
	want := []Rect{arena.quadrant(NE), arena.quadrant(NW), arena.quadrant(SW), arena.quadrant(SE)}
	assert.Equal(t, want, got)

	// early break stops the walk
	n := 0
	for range tree.Leaves() {
		n++
		break
	}
	assert.Equal(t, 1, n)
}
