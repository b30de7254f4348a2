package geometry

import (
	"github.com/df07/go-photon-raytracer/pkg/core"
)

// boxPadding keeps triangle bounds from being flat, since axis-aligned
// triangles would otherwise fail strict box overlap tests
const boxPadding = core.SmallEpsilon

// Triangle represents a single triangle defined by three vertices
type Triangle struct {
	V0, V1, V2 core.Vec3        // The three vertices
	object     core.SceneObject // Owning mesh
	normal     core.Vec3        // Cached normal vector
	bbox       core.AABB        // Cached, padded bounding box
}

// NewTriangle creates a new triangle from three vertices. The normal follows
// the counter-clockwise winding of v0, v1, v2.
func NewTriangle(v0, v1, v2 core.Vec3, object core.SceneObject) *Triangle {
	t := &Triangle{
		V0:     v0,
		V1:     v1,
		V2:     v2,
		object: object,
	}

	// Precompute normal and bounding box for efficiency
	t.normal = v1.Subtract(v0).Cross(v2.Subtract(v0)).Normalize()
	t.bbox = core.NewAABBFromPoints(v0, v1, v2).Expand(boxPadding)

	return t
}

// Trace intersects the ray with the triangle using the Möller-Trumbore
// algorithm and records the hit in state if it is the closest so far
func (t *Triangle) Trace(ray core.Ray, state *core.IntersectionState) bool {
	const epsilon = 1e-12

	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)

	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)

	// If determinant is near zero, ray lies in plane of triangle
	if a > -epsilon && a < epsilon {
		return false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(t.V0)
	u := f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return false
	}

	tHit := f * edge2.Dot(q)
	if tHit < core.SmallEpsilon || tHit > ray.Limit() {
		return false
	}

	return state.Record(tHit, ray, t)
}

// BoundingBox returns the axis-aligned bounding box for this triangle
func (t *Triangle) BoundingBox() core.AABB {
	return t.bbox
}

// Normal returns the triangle's geometric normal. It is the same on both
// faces; callers orient it against the incoming ray.
func (t *Triangle) Normal(_ *core.IntersectionState) core.Vec3 {
	return t.normal
}

// Object returns the mesh the triangle belongs to
func (t *Triangle) Object() core.SceneObject {
	return t.object
}

// Area returns the triangle's surface area
func (t *Triangle) Area() float64 {
	return 0.5 * t.V1.Subtract(t.V0).Cross(t.V2.Subtract(t.V0)).Length()
}
