package geometry

import (
	"math"

	"github.com/pkg/errors"

	"github.com/df07/go-photon-raytracer/pkg/core"
)

// Mesh is a scene object made of triangles that share one material
type Mesh struct {
	name      string
	triangles []*Triangle
	material  core.Material
	media     bool
	bbox      core.AABB
}

// MeshOptions contains optional parameters for mesh creation
type MeshOptions struct {
	Rotation *core.Vec3 // Optional rotation in radians around X, Y, Z, applied in that order
	Center   *core.Vec3 // Optional center point for rotation
	Media    bool       // Marks the mesh as a participating media volume
}

// NewMesh creates a mesh from vertices and face indices. Each group of three
// indices forms a triangle; options may be nil.
func NewMesh(name string, vertices []core.Vec3, faces []int, material core.Material, options *MeshOptions) (*Mesh, error) {
	if len(faces)%3 != 0 {
		return nil, errors.Errorf("mesh %q: face indices must be a multiple of 3, got %d", name, len(faces))
	}
	if material == nil {
		return nil, errors.Errorf("mesh %q: material is required", name)
	}

	workingVertices := vertices
	if options != nil && options.Rotation != nil {
		workingVertices = make([]core.Vec3, len(vertices))
		for i, vertex := range vertices {
			// Translate to center, rotate, then translate back
			if options.Center != nil {
				vertex = vertex.Subtract(*options.Center)
			}
			vertex = rotateVertex(vertex, *options.Rotation)
			if options.Center != nil {
				vertex = vertex.Add(*options.Center)
			}
			workingVertices[i] = vertex
		}
	}

	mesh := &Mesh{
		name:     name,
		material: material,
		media:    options != nil && options.Media,
		bbox:     core.NewEmptyAABB(),
	}

	numTriangles := len(faces) / 3
	mesh.triangles = make([]*Triangle, 0, numTriangles)
	for i := 0; i < numTriangles; i++ {
		i0, i1, i2 := faces[i*3], faces[i*3+1], faces[i*3+2]
		for _, index := range []int{i0, i1, i2} {
			if index < 0 || index >= len(workingVertices) {
				return nil, errors.Errorf("mesh %q: face %d index %d out of range [0, %d)", name, i, index, len(workingVertices))
			}
		}

		triangle := NewTriangle(workingVertices[i0], workingVertices[i1], workingVertices[i2], mesh)
		// Degenerate triangles can never be hit
		if triangle.Area() == 0 {
			continue
		}
		mesh.triangles = append(mesh.triangles, triangle)
		mesh.bbox.IncludeBox(triangle.BoundingBox())
	}

	return mesh, nil
}

// Name returns the mesh name
func (m *Mesh) Name() string {
	return m.name
}

// Material returns the material shared by every triangle
func (m *Mesh) Material() core.Material {
	return m.material
}

// IsMedia reports whether the mesh bounds a participating media volume
func (m *Mesh) IsMedia() bool {
	return m.media
}

// Primitives returns the mesh triangles as primitives
func (m *Mesh) Primitives() []core.Primitive {
	primitives := make([]core.Primitive, len(m.triangles))
	for i, triangle := range m.triangles {
		primitives[i] = triangle
	}
	return primitives
}

// TriangleCount returns the number of triangles in this mesh
func (m *Mesh) TriangleCount() int {
	return len(m.triangles)
}

// BoundingBox returns the axis-aligned bounding box for the entire mesh
func (m *Mesh) BoundingBox() core.AABB {
	return m.bbox
}

// rotateVertex applies rotation around X, Y, Z axes (in that order)
func rotateVertex(vertex, rotation core.Vec3) core.Vec3 {
	if rotation.X != 0 {
		cos, sin := math.Cos(rotation.X), math.Sin(rotation.X)
		vertex = core.NewVec3(vertex.X, vertex.Y*cos-vertex.Z*sin, vertex.Y*sin+vertex.Z*cos)
	}
	if rotation.Y != 0 {
		cos, sin := math.Cos(rotation.Y), math.Sin(rotation.Y)
		vertex = core.NewVec3(vertex.X*cos+vertex.Z*sin, vertex.Y, -vertex.X*sin+vertex.Z*cos)
	}
	if rotation.Z != 0 {
		cos, sin := math.Cos(rotation.Z), math.Sin(rotation.Z)
		vertex = core.NewVec3(vertex.X*cos-vertex.Y*sin, vertex.X*sin+vertex.Y*cos, vertex.Z)
	}
	return vertex
}
