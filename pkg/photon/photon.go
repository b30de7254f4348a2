// Package photon stores light transport samples in a point k-d tree and
// answers radius queries over them.
package photon

import (
	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/df07/go-photon-raytracer/pkg/core"
)

// Photon is a packet of light energy deposited on a surface
type Photon struct {
	Position  core.Vec3 // Where the photon landed
	Intensity core.Vec3 // Carried power
	ToLight   core.Ray  // Points from Position back the way the photon arrived
}

// NewPhoton creates a photon at position that arrived travelling along incoming
func NewPhoton(position, intensity, incoming core.Vec3) Photon {
	return Photon{
		Position:  position,
		Intensity: intensity,
		ToLight:   core.NewRay(position, incoming.Normalize().Negate()),
	}
}

// Compare returns the signed distance of p from the plane through c perpendicular to d
func (p Photon) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(Photon)
	return p.Position.Axis(int(d)) - q.Position.Axis(int(d))
}

// Dims returns the number of spatial dimensions
func (p Photon) Dims() int {
	return 3
}

// Distance returns the squared Euclidean distance between photon positions
func (p Photon) Distance(c kdtree.Comparable) float64 {
	q := c.(Photon)
	return p.Position.Subtract(q.Position).LengthSquared()
}

// photons satisfies kdtree.Interface
type photons []Photon

func (p photons) Index(i int) kdtree.Comparable { return p[i] }
func (p photons) Len() int                      { return len(p) }
func (p photons) Pivot(d kdtree.Dim) int        { return plane{Dim: d, photons: p}.Pivot() }
func (p photons) Slice(start, end int) kdtree.Interface {
	return p[start:end]
}

// plane orders photons along one dimension for median partitioning
type plane struct {
	kdtree.Dim
	photons
}

func (p plane) Less(i, j int) bool {
	return p.photons[i].Position.Axis(int(p.Dim)) < p.photons[j].Position.Axis(int(p.Dim))
}

func (p plane) Pivot() int {
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}

func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.photons = p.photons[start:end]
	return p
}

func (p plane) Swap(i, j int) {
	p.photons[i], p.photons[j] = p.photons[j], p.photons[i]
}
