package photon

import (
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/df07/go-photon-raytracer/pkg/core"
)

var (
	// ErrMapFrozen is returned when inserting into a map that was already built
	ErrMapFrozen = errors.New("photon map is already built")
	// ErrMapNotBuilt is returned when querying a map before it was built
	ErrMapNotBuilt = errors.New("photon map is not built")
)

// Map is a build-then-query photon store. Photons are inserted during
// transport; Optimize balances the k-d tree, after which the map is
// read-only and safe for concurrent queries.
type Map struct {
	name    string
	photons photons
	tree    *kdtree.Tree
	built   bool
}

// NewMap creates an empty map
func NewMap(name string) *Map {
	return &Map{name: name}
}

// Name returns the map name
func (m *Map) Name() string {
	return m.name
}

// Insert adds a photon. It fails once the map is built.
func (m *Map) Insert(p Photon) error {
	if m.built {
		return errors.Wrapf(ErrMapFrozen, "insert into %s map", m.name)
	}
	m.photons = append(m.photons, p)
	return nil
}

// InsertAll adds photons in order
func (m *Map) InsertAll(ps []Photon) error {
	if m.built {
		return errors.Wrapf(ErrMapFrozen, "insert into %s map", m.name)
	}
	m.photons = append(m.photons, ps...)
	return nil
}

// Optimize builds the balanced k-d tree. Calling it again does nothing.
func (m *Map) Optimize() {
	if m.built {
		return
	}
	m.built = true
	if len(m.photons) == 0 {
		return
	}
	// kdtree.New reorders its input
	stored := make(photons, len(m.photons))
	copy(stored, m.photons)
	m.tree = kdtree.New(stored, false)
}

// Built reports whether Optimize has run
func (m *Map) Built() bool {
	return m.built
}

// Len returns the number of stored photons
func (m *Map) Len() int {
	return len(m.photons)
}

// Within returns every photon no farther than radius from point, nearest first
func (m *Map) Within(point core.Vec3, radius float64) ([]Photon, error) {
	if !m.built {
		return nil, errors.Wrapf(ErrMapNotBuilt, "query %s map", m.name)
	}
	if m.tree == nil || radius <= 0 {
		return nil, nil
	}

	keep := kdtree.NewDistKeeper(radius * radius)
	m.tree.NearestSet(keep, Photon{Position: point})

	found := make([]kdtree.ComparableDist, 0, len(keep.Heap))
	for _, c := range keep.Heap {
		// The keeper is seeded with an empty sentinel
		if c.Comparable == nil {
			continue
		}
		found = append(found, c)
	}
	sort.SliceStable(found, func(i, j int) bool {
		return found[i].Dist < found[j].Dist
	})

	result := make([]Photon, len(found))
	for i, c := range found {
		result[i] = c.Comparable.(Photon)
	}
	return result, nil
}

// Photons returns a copy of every stored photon in insertion order
func (m *Map) Photons() []Photon {
	return append([]Photon(nil), m.photons...)
}

// TotalPower sums the intensity of every stored photon
func (m *Map) TotalPower() core.Vec3 {
	var total core.Vec3
	for _, p := range m.photons {
		total = total.Add(p.Intensity)
	}
	return total
}
