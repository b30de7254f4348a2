package accel

import "github.com/df07/go-photon-raytracer/pkg/core"

// None is the brute-force structure: every ray is tested against every node
type None struct {
	nodes []core.AccelerationNode
	box   core.AABB
}

// NewNone creates an empty brute-force structure
func NewNone() *None {
	return &None{box: core.NewEmptyAABB()}
}

// Build stores a copy of nodes
func (n *None) Build(nodes []core.AccelerationNode) error {
	n.nodes = append([]core.AccelerationNode(nil), nodes...)
	n.box = boundNodes(n.nodes)
	return nil
}

// Trace tests the ray against every stored node
func (n *None) Trace(ray core.Ray, state *core.IntersectionState) bool {
	return traceNodes(n.nodes, ray, state)
}

// BoundingBox returns the bounds of every stored node
func (n *None) BoundingBox() core.AABB {
	return n.box
}

// Stats reports a single leaf holding every node
func (n *None) Stats() Stats {
	var c statsCollector
	if len(n.nodes) > 0 {
		c.leaf(0, len(n.nodes))
	}
	return c.finish(KindNone, len(n.nodes))
}
