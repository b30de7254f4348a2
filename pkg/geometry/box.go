package geometry

import (
	"github.com/df07/go-photon-raytracer/pkg/core"
)

// NewBoxMesh creates a closed box of 12 triangles.
// Size represents half-extents (so a size of (1,1,1) creates a 2x2x2 box).
// Rotation is in radians around X, Y, Z axes (applied in that order) about the center.
func NewBoxMesh(name string, center, size, rotation core.Vec3, material core.Material) (*Mesh, error) {
	// The 8 corners of a unit box centered at origin
	corners := []core.Vec3{
		core.NewVec3(-1, -1, -1), // 0: left-bottom-back
		core.NewVec3(1, -1, -1),  // 1: right-bottom-back
		core.NewVec3(1, 1, -1),   // 2: right-top-back
		core.NewVec3(-1, 1, -1),  // 3: left-top-back
		core.NewVec3(-1, -1, 1),  // 4: left-bottom-front
		core.NewVec3(1, -1, 1),   // 5: right-bottom-front
		core.NewVec3(1, 1, 1),    // 6: right-top-front
		core.NewVec3(-1, 1, 1),   // 7: left-top-front
	}
	for i := range corners {
		corners[i] = corners[i].MultiplyVec(size).Add(center)
	}

	// Each face is a quad wound so its normal points out of the box
	quads := [][4]int{
		{4, 5, 6, 7}, // Front (Z+)
		{1, 0, 3, 2}, // Back (Z-)
		{5, 1, 2, 6}, // Right (X+)
		{0, 4, 7, 3}, // Left (X-)
		{3, 7, 6, 2}, // Top (Y+)
		{4, 0, 1, 5}, // Bottom (Y-)
	}
	faces := make([]int, 0, len(quads)*6)
	for _, q := range quads {
		faces = append(faces, q[0], q[1], q[2], q[0], q[2], q[3])
	}

	return NewMesh(name, corners, faces, material, &MeshOptions{Rotation: &rotation, Center: &center})
}
