package accel

import "github.com/df07/go-photon-raytracer/pkg/core"

// splitNode is either a leaf holding nodes or an interior node with exactly two children
type splitNode struct {
	box        core.AABB
	splitPoint core.Vec3 // Mean of the children's box centers
	splitAxis  int
	left       *splitNode
	right      *splitNode
	nodes      []core.AccelerationNode
}

func (n *splitNode) isLeaf() bool {
	return n.left == nil
}

// SplitTree is a k-d tree over primitives. Each interior node partitions its
// primitives around the mean box center along an axis that cycles with depth,
// so every primitive lands in exactly one leaf.
type SplitTree struct {
	root        *splitNode
	maxLeafSize int
	primitives  int
}

// NewSplitTree creates an empty split tree whose leaves hold at most maxLeafSize nodes
// unless the primitives cannot be separated
func NewSplitTree(maxLeafSize int) *SplitTree {
	return &SplitTree{maxLeafSize: maxLeafSize}
}

// Build partitions nodes recursively
func (s *SplitTree) Build(nodes []core.AccelerationNode) error {
	s.primitives = len(nodes)
	if len(nodes) == 0 {
		s.root = nil
		return nil
	}
	s.root = s.build(append([]core.AccelerationNode(nil), nodes...), 0)
	return nil
}

func (s *SplitTree) build(nodes []core.AccelerationNode, depth int) *splitNode {
	if len(nodes) <= s.maxLeafSize {
		return &splitNode{box: boundNodes(nodes), nodes: nodes}
	}

	axis := depth % 3
	var mean core.Vec3
	for _, node := range nodes {
		mean = mean.Add(node.BoundingBox().Center())
	}
	mean = mean.Multiply(1.0 / float64(len(nodes)))

	var left, right []core.AccelerationNode
	for _, node := range nodes {
		if node.BoundingBox().Center().Axis(axis) < mean.Axis(axis) {
			left = append(left, node)
		} else {
			right = append(right, node)
		}
	}

	// Identical centers along the axis cannot be separated
	if len(left) == 0 || len(right) == 0 {
		return &splitNode{box: boundNodes(nodes), nodes: nodes}
	}

	leftNode := s.build(left, depth+1)
	rightNode := s.build(right, depth+1)
	return &splitNode{
		box:        leftNode.box.Union(rightNode.box),
		splitPoint: mean,
		splitAxis:  axis,
		left:       leftNode,
		right:      rightNode,
	}
}

// Trace prunes by node box and visits both children of every node the ray enters
func (s *SplitTree) Trace(ray core.Ray, state *core.IntersectionState) bool {
	if s.root == nil {
		return false
	}
	return s.traceNode(s.root, ray, state)
}

func (s *SplitTree) traceNode(node *splitNode, ray core.Ray, state *core.IntersectionState) bool {
	if !boxHit(node.box, ray, state) {
		return false
	}
	if node.isLeaf() {
		return traceNodes(node.nodes, ray, state)
	}
	hitLeft := s.traceNode(node.left, ray, state)
	hitRight := s.traceNode(node.right, ray, state)
	return hitLeft || hitRight
}

// BoundingBox returns the root bounds
func (s *SplitTree) BoundingBox() core.AABB {
	if s.root == nil {
		return core.NewEmptyAABB()
	}
	return s.root.box
}

// Stats walks the tree
func (s *SplitTree) Stats() Stats {
	var c statsCollector
	s.walkLeaves(func(depth int, _ core.AABB, nodes []core.AccelerationNode) {
		c.leaf(depth, len(nodes))
	}, func(depth int) {
		c.interior(depth)
	})
	return c.finish(KindSplitTree, s.primitives)
}

// walkLeaves visits every leaf, and every interior node when interior is non-nil
func (s *SplitTree) walkLeaves(leaf func(depth int, box core.AABB, nodes []core.AccelerationNode), interior func(depth int)) {
	var walk func(node *splitNode, depth int)
	walk = func(node *splitNode, depth int) {
		if node.isLeaf() {
			leaf(depth, node.box, node.nodes)
			return
		}
		if interior != nil {
			interior(depth)
		}
		walk(node.left, depth+1)
		walk(node.right, depth+1)
	}
	if s.root != nil {
		walk(s.root, 0)
	}
}
