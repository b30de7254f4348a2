package geometry

import (
	"math"

	"github.com/df07/go-photon-raytracer/pkg/core"
)

// NewIcosphereMesh creates a sphere approximation by repeatedly subdividing
// an icosahedron. Each subdivision quadruples the triangle count.
func NewIcosphereMesh(name string, center core.Vec3, radius float64, subdivisions int, material core.Material, options *MeshOptions) (*Mesh, error) {
	phi := (1 + math.Sqrt(5)) / 2
	vertices := []core.Vec3{
		core.NewVec3(-1, phi, 0), core.NewVec3(1, phi, 0), core.NewVec3(-1, -phi, 0), core.NewVec3(1, -phi, 0),
		core.NewVec3(0, -1, phi), core.NewVec3(0, 1, phi), core.NewVec3(0, -1, -phi), core.NewVec3(0, 1, -phi),
		core.NewVec3(phi, 0, -1), core.NewVec3(phi, 0, 1), core.NewVec3(-phi, 0, -1), core.NewVec3(-phi, 0, 1),
	}
	for i := range vertices {
		vertices[i] = vertices[i].Normalize()
	}
	faces := []int{
		0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11,
		1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
		3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9,
		4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
	}

	for s := 0; s < subdivisions; s++ {
		midpoints := make(map[[2]int]int)
		midpoint := func(a, b int) int {
			key := [2]int{min(a, b), max(a, b)}
			if index, ok := midpoints[key]; ok {
				return index
			}
			vertices = append(vertices, vertices[a].Add(vertices[b]).Normalize())
			midpoints[key] = len(vertices) - 1
			return len(vertices) - 1
		}

		subdivided := make([]int, 0, len(faces)*4)
		for i := 0; i < len(faces); i += 3 {
			a, b, c := faces[i], faces[i+1], faces[i+2]
			ab, bc, ca := midpoint(a, b), midpoint(b, c), midpoint(c, a)
			subdivided = append(subdivided,
				a, ab, ca,
				b, bc, ab,
				c, ca, bc,
				ab, bc, ca,
			)
		}
		faces = subdivided
	}

	for i := range vertices {
		vertices[i] = vertices[i].Multiply(radius).Add(center)
	}
	return NewMesh(name, vertices, faces, material, options)
}
