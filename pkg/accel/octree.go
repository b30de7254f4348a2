package accel

import "github.com/df07/go-photon-raytracer/pkg/core"

// octantPadding grows the root box so primitives lying on its faces still
// overlap it under the strict overlap test
const octantPadding = 1e-5

// octantNode owns its octant box. Interior nodes leave a child slot nil when
// no primitive overlaps that octant.
type octantNode struct {
	box      core.AABB
	children [8]*octantNode
	nodes    []core.AccelerationNode
	leaf     bool
}

// OctantTree recursively subdivides its bounding box into eight equal
// octants. A primitive is stored under every octant its box overlaps, so the
// same primitive may be tested more than once per ray.
type OctantTree struct {
	root        *octantNode
	maxLeafSize int
	maxDepth    int
	primitives  int
}

// NewOctantTree creates an empty octant tree. Nodes with fewer than
// maxLeafSize primitives, or at maxDepth, become leaves.
func NewOctantTree(maxLeafSize, maxDepth int) *OctantTree {
	return &OctantTree{maxLeafSize: maxLeafSize, maxDepth: maxDepth}
}

// Build subdivides the padded bounds of nodes
func (o *OctantTree) Build(nodes []core.AccelerationNode) error {
	o.primitives = len(nodes)
	if len(nodes) == 0 {
		o.root = nil
		return nil
	}
	box := boundNodes(nodes).Expand(octantPadding)
	o.root = o.build(append([]core.AccelerationNode(nil), nodes...), box, 0)
	return nil
}

func (o *OctantTree) build(nodes []core.AccelerationNode, box core.AABB, depth int) *octantNode {
	if len(nodes) < o.maxLeafSize || depth >= o.maxDepth {
		return &octantNode{box: box, nodes: nodes, leaf: true}
	}

	octants := box.Octants()
	var members [8][]core.AccelerationNode
	for _, node := range nodes {
		nodeBox := node.BoundingBox()
		placed := false
		for i, octant := range octants {
			if octant.Overlaps(nodeBox) {
				members[i] = append(members[i], node)
				placed = true
			}
		}
		// Flat boxes lying exactly on a split plane overlap nothing
		if !placed {
			i := octantIndex(box.Center(), nodeBox.Center())
			members[i] = append(members[i], node)
		}
	}

	// Stop when no octant separates any primitive from the rest
	progress := false
	for _, m := range members {
		if len(m) > 0 && len(m) < len(nodes) {
			progress = true
			break
		}
	}
	if !progress {
		return &octantNode{box: box, nodes: nodes, leaf: true}
	}

	node := &octantNode{box: box}
	for i, m := range members {
		if len(m) > 0 {
			node.children[i] = o.build(m, octants[i], depth+1)
		}
	}
	return node
}

// octantIndex returns the octant of a box centered at center that holds point
func octantIndex(center, point core.Vec3) int {
	index := 0
	if point.X >= center.X {
		index |= 1
	}
	if point.Y >= center.Y {
		index |= 2
	}
	if point.Z >= center.Z {
		index |= 4
	}
	return index
}

// Trace prunes by octant box and visits every allocated child the ray enters
func (o *OctantTree) Trace(ray core.Ray, state *core.IntersectionState) bool {
	if o.root == nil {
		return false
	}
	return o.traceNode(o.root, ray, state)
}

func (o *OctantTree) traceNode(node *octantNode, ray core.Ray, state *core.IntersectionState) bool {
	if !boxHit(node.box, ray, state) {
		return false
	}
	if node.leaf {
		return traceNodes(node.nodes, ray, state)
	}
	hit := false
	for _, child := range node.children {
		if child != nil && o.traceNode(child, ray, state) {
			hit = true
		}
	}
	return hit
}

// BoundingBox returns the padded root box
func (o *OctantTree) BoundingBox() core.AABB {
	if o.root == nil {
		return core.NewEmptyAABB()
	}
	return o.root.box
}

// Stats walks the tree
func (o *OctantTree) Stats() Stats {
	var c statsCollector
	o.walkLeaves(func(depth int, _ core.AABB, nodes []core.AccelerationNode) {
		c.leaf(depth, len(nodes))
	}, func(depth int) {
		c.interior(depth)
	})
	return c.finish(KindOctantTree, o.primitives)
}

// walkLeaves visits every leaf, and every interior node when interior is non-nil
func (o *OctantTree) walkLeaves(leaf func(depth int, box core.AABB, nodes []core.AccelerationNode), interior func(depth int)) {
	var walk func(node *octantNode, depth int)
	walk = func(node *octantNode, depth int) {
		if node.leaf {
			leaf(depth, node.box, node.nodes)
			return
		}
		if interior != nil {
			interior(depth)
		}
		for _, child := range node.children {
			if child != nil {
				walk(child, depth+1)
			}
		}
	}
	if o.root != nil {
		walk(o.root, 0)
	}
}
