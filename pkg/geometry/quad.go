package geometry

import (
	"github.com/df07/go-photon-raytracer/pkg/core"
)

// NewQuadMesh creates a parallelogram from a corner and two edge vectors,
// split into two triangles. The normal points along u × v.
func NewQuadMesh(name string, corner, u, v core.Vec3, material core.Material, options *MeshOptions) (*Mesh, error) {
	vertices := []core.Vec3{
		corner,
		corner.Add(u),
		corner.Add(u).Add(v),
		corner.Add(v),
	}
	faces := []int{0, 1, 2, 0, 2, 3}
	return NewMesh(name, vertices, faces, material, options)
}
