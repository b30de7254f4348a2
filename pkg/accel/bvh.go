package accel

import "github.com/df07/go-photon-raytracer/pkg/core"

// bvhNode represents a node in the Bounding Volume Hierarchy
type bvhNode struct {
	box   core.AABB
	left  *bvhNode
	right *bvhNode
	nodes []core.AccelerationNode // Leaf members, nil for interior nodes
}

// BVH is a Bounding Volume Hierarchy built by median split along the longest axis
type BVH struct {
	root        *bvhNode
	maxLeafSize int
	primitives  int
}

// NewBVH creates an empty BVH whose leaves hold at most maxLeafSize nodes
func NewBVH(maxLeafSize int) *BVH {
	return &BVH{maxLeafSize: maxLeafSize}
}

// Build constructs the hierarchy over nodes
func (b *BVH) Build(nodes []core.AccelerationNode) error {
	b.primitives = len(nodes)
	if len(nodes) == 0 {
		b.root = nil
		return nil
	}

	// Sorting happens in place, so work on a copy
	nodesCopy := make([]core.AccelerationNode, len(nodes))
	copy(nodesCopy, nodes)
	b.root = b.build(nodesCopy)
	return nil
}

// build recursively splits nodes until they fit in a leaf
func (b *BVH) build(nodes []core.AccelerationNode) *bvhNode {
	box := boundNodes(nodes)
	if len(nodes) <= b.maxLeafSize {
		return &bvhNode{box: box, nodes: nodes}
	}

	// A median split keeps both halves non-empty, so recursion always terminates
	sortByCenter(nodes, box.LongestAxis())
	mid := len(nodes) / 2
	return &bvhNode{
		box:   box,
		left:  b.build(nodes[:mid]),
		right: b.build(nodes[mid:]),
	}
}

// Trace descends into every child whose box the ray enters
func (b *BVH) Trace(ray core.Ray, state *core.IntersectionState) bool {
	if b.root == nil {
		return false
	}
	return b.traceNode(b.root, ray, state)
}

func (b *BVH) traceNode(node *bvhNode, ray core.Ray, state *core.IntersectionState) bool {
	if !boxHit(node.box, ray, state) {
		return false
	}
	if node.nodes != nil {
		return traceNodes(node.nodes, ray, state)
	}

	hitLeft := b.traceNode(node.left, ray, state)
	hitRight := b.traceNode(node.right, ray, state)
	return hitLeft || hitRight
}

// BoundingBox returns the root bounds
func (b *BVH) BoundingBox() core.AABB {
	if b.root == nil {
		return core.NewEmptyAABB()
	}
	return b.root.box
}

// Stats walks the hierarchy
func (b *BVH) Stats() Stats {
	var c statsCollector
	if b.root != nil {
		collectBVH(b.root, 0, &c)
	}
	return c.finish(KindBVH, b.primitives)
}

func collectBVH(node *bvhNode, depth int, c *statsCollector) {
	if node.nodes != nil {
		c.leaf(depth, len(node.nodes))
		return
	}
	c.interior(depth)
	collectBVH(node.left, depth+1, c)
	collectBVH(node.right, depth+1, c)
}
