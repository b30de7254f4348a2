package geometry

import (
	"testing"

	"go.viam.com/test"

	"github.com/df07/go-photon-raytracer/pkg/core"
	"github.com/df07/go-photon-raytracer/pkg/material"
)

func newTestMesh(t *testing.T) *Mesh {
	t.Helper()
	mesh, err := NewQuadMesh("floor",
		core.NewVec3(-1, 0, -1), core.NewVec3(0, 0, 2), core.NewVec3(2, 0, 0),
		material.NewLambertian(core.NewVec3(0.8, 0.8, 0.8)), nil)
	test.That(t, err, test.ShouldBeNil)
	return mesh
}

func TestTriangle_Trace(t *testing.T) {
	triangle := NewTriangle(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), nil)

	tests := []struct {
		name      string
		ray       core.Ray
		expectHit bool
		expectT   float64
	}{
		{"Front", core.NewRay(core.NewVec3(0.25, 0.25, 1), core.NewVec3(0, 0, -1)), true, 1},
		{"Back", core.NewRay(core.NewVec3(0.25, 0.25, -2), core.NewVec3(0, 0, 1)), true, 2},
		{"Outside edge", core.NewRay(core.NewVec3(0.75, 0.75, 1), core.NewVec3(0, 0, -1)), false, 0},
		{"Parallel", core.NewRay(core.NewVec3(0.25, 0.25, 1), core.NewVec3(1, 0, 0)), false, 0},
		{"Behind origin", core.NewRay(core.NewVec3(0.25, 0.25, 1), core.NewVec3(0, 0, 1)), false, 0},
		{"Segment too short", core.NewSegment(core.NewVec3(0.25, 0.25, 1), core.NewVec3(0, 0, -1), 0.5), false, 0},
		{"Starting on surface", core.NewRay(core.NewVec3(0.25, 0.25, 0), core.NewVec3(0, 0, 1)), false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := core.NewIntersectionState(0, 0)
			hit := triangle.Trace(tt.ray, state)
			test.That(t, hit, test.ShouldEqual, tt.expectHit)
			test.That(t, state.HasIntersection, test.ShouldEqual, tt.expectHit)
			if tt.expectHit {
				test.That(t, state.T, test.ShouldAlmostEqual, tt.expectT, 1e-9)
				test.That(t, state.Primitive, test.ShouldEqual, triangle)
			}
		})
	}
}

func TestTriangle_KeepsCloserHit(t *testing.T) {
	near := NewTriangle(core.NewVec3(-1, -1, 1), core.NewVec3(1, -1, 1), core.NewVec3(0, 1, 1), nil)
	far := NewTriangle(core.NewVec3(-1, -1, 0), core.NewVec3(1, -1, 0), core.NewVec3(0, 1, 0), nil)
	ray := core.NewRay(core.NewVec3(0, 0, 3), core.NewVec3(0, 0, -1))

	state := core.NewIntersectionState(0, 0)
	test.That(t, near.Trace(ray, state), test.ShouldBeTrue)
	test.That(t, far.Trace(ray, state), test.ShouldBeFalse)
	test.That(t, state.T, test.ShouldAlmostEqual, 2.0, 1e-9)
	test.That(t, state.Primitive, test.ShouldEqual, near)

	// Same primitive again: the hit is unchanged
	test.That(t, near.Trace(ray, state), test.ShouldBeTrue)
	test.That(t, state.T, test.ShouldAlmostEqual, 2.0, 1e-9)
}

func TestTriangle_BoundsArePadded(t *testing.T) {
	// Lies in the z = 0 plane, so its exact bounds would be flat
	triangle := NewTriangle(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), nil)
	box := triangle.BoundingBox()
	test.That(t, box.Max.Z-box.Min.Z, test.ShouldBeGreaterThan, 0)
	test.That(t, box.Overlaps(core.NewAABB(core.NewVec3(0, 0, 0), core.NewVec3(0.5, 0.5, 0.5))), test.ShouldBeTrue)
	test.That(t, box.Overlaps(core.NewAABB(core.NewVec3(0, 0, -0.5), core.NewVec3(0.5, 0.5, 0))), test.ShouldBeTrue)
}

func TestTriangle_NormalAndObject(t *testing.T) {
	mesh := newTestMesh(t)
	primitives := mesh.Primitives()
	test.That(t, primitives, test.ShouldHaveLength, 2)

	for _, primitive := range primitives {
		test.That(t, primitive.Object(), test.ShouldEqual, mesh)
		normal := primitive.Normal(nil)
		test.That(t, normal.Length(), test.ShouldAlmostEqual, 1.0, 1e-9)
		// u = +Z, v = +X gives u × v = +Y
		test.That(t, normal.Y, test.ShouldAlmostEqual, 1.0, 1e-9)
	}
}
