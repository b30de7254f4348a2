package accel

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/df07/go-photon-raytracer/pkg/core"
)

// Kind names one of the fixed set of acceleration structures
type Kind string

const (
	// KindNone tests every primitive against every ray
	KindNone Kind = "none"
	// KindBVH is a bounding volume hierarchy split at the median along the longest axis
	KindBVH Kind = "bvh"
	// KindSplitTree is a k-d tree split at the mean primitive center along a cycling axis
	KindSplitTree Kind = "kdtree"
	// KindOctantTree recursively subdivides space into eight octants
	KindOctantTree Kind = "octree"
)

var (
	// ErrUnknownKind is returned for an acceleration kind that does not exist
	ErrUnknownKind = errors.New("unknown acceleration structure kind")
	// ErrInvalidOptions is returned when build options are out of range
	ErrInvalidOptions = errors.New("invalid acceleration options")
)

// Structure is a spatial index over scene primitives. It is built once and
// is read-only afterwards, so Trace may be called from many goroutines.
type Structure interface {
	// Build indexes nodes, replacing anything built before
	Build(nodes []core.AccelerationNode) error
	// Trace finds the closest node hit by ray, recording it in state. It
	// reports whether any node recorded a hit.
	Trace(ray core.Ray, state *core.IntersectionState) bool
	// BoundingBox returns the bounds of everything indexed
	BoundingBox() core.AABB
	// Stats describes the shape of the built structure
	Stats() Stats
}

// Stats contains statistics about a built structure
type Stats struct {
	Kind             Kind
	Primitives       int     // Nodes passed to Build
	Nodes            int     // Tree nodes, interior and leaf
	Leaves           int     // Leaf nodes
	MaxDepth         int     // Deepest leaf, root is depth 0
	AvgLeafDepth     float64 // Mean depth over leaves
	StoredReferences int     // Primitive references summed over leaves
}

// Options controls how a structure is built
type Options struct {
	MaxLeafSize int // Leaf threshold on primitive count
	MaxDepth    int // Depth limit, only used by the octant tree
}

// DefaultOptions returns the build options each kind uses by default
func DefaultOptions(kind Kind) Options {
	switch kind {
	case KindBVH:
		return Options{MaxLeafSize: 8}
	case KindOctantTree:
		return Options{MaxLeafSize: 2, MaxDepth: 16}
	default:
		return Options{MaxLeafSize: 2}
	}
}

// Validate checks that the options are usable, reporting every problem found
func (o Options) Validate() error {
	var err error
	if o.MaxLeafSize < 1 {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidOptions, "max leaf size must be at least 1, got %d", o.MaxLeafSize))
	}
	if o.MaxDepth < 0 {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidOptions, "max depth must not be negative, got %d", o.MaxDepth))
	}
	return err
}

// Kinds lists every supported kind in a stable order
func Kinds() []Kind {
	return []Kind{KindNone, KindBVH, KindSplitTree, KindOctantTree}
}

// ParseKind converts a name into a Kind
func ParseKind(name string) (Kind, error) {
	for _, kind := range Kinds() {
		if string(kind) == name {
			return kind, nil
		}
	}
	return "", errors.Wrapf(ErrUnknownKind, "%q", name)
}

// New creates an empty structure of the given kind. Zero option fields fall
// back to the kind's defaults.
func New(kind Kind, opts Options) (Structure, error) {
	defaults := DefaultOptions(kind)
	if opts.MaxLeafSize == 0 {
		opts.MaxLeafSize = defaults.MaxLeafSize
	}
	if opts.MaxDepth == 0 {
		opts.MaxDepth = defaults.MaxDepth
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	switch kind {
	case KindNone:
		return NewNone(), nil
	case KindBVH:
		return NewBVH(opts.MaxLeafSize), nil
	case KindSplitTree:
		return NewSplitTree(opts.MaxLeafSize), nil
	case KindOctantTree:
		return NewOctantTree(opts.MaxLeafSize, opts.MaxDepth), nil
	default:
		return nil, errors.Wrapf(ErrUnknownKind, "%q", kind)
	}
}

// String formats the stats on one line
func (s Stats) String() string {
	return fmt.Sprintf("%s: %d primitives, %d nodes, %d leaves, max depth %d, %d references",
		s.Kind, s.Primitives, s.Nodes, s.Leaves, s.MaxDepth, s.StoredReferences)
}

// traceNodes tests every node and keeps the closest hit in state
func traceNodes(nodes []core.AccelerationNode, ray core.Ray, state *core.IntersectionState) bool {
	hit := false
	for _, node := range nodes {
		if node.Trace(ray, state) {
			hit = true
		}
	}
	return hit
}

// boxHit prunes against box, ignoring anything beyond the closest hit so far
func boxHit(box core.AABB, ray core.Ray, state *core.IntersectionState) bool {
	hit, _ := box.Hit(ray, 0, min(ray.Limit(), state.T))
	return hit
}

// boundNodes returns the union of every node's box
func boundNodes(nodes []core.AccelerationNode) core.AABB {
	box := core.NewEmptyAABB()
	for _, node := range nodes {
		box.IncludeBox(node.BoundingBox())
	}
	return box
}

// sortByCenter orders nodes by their box center along axis
func sortByCenter(nodes []core.AccelerationNode, axis int) {
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].BoundingBox().Center().Axis(axis) < nodes[j].BoundingBox().Center().Axis(axis)
	})
}

// statsCollector accumulates Stats while walking a tree
type statsCollector struct {
	stats    Stats
	depthSum int
}

func (c *statsCollector) interior(depth int) {
	c.stats.Nodes++
	c.stats.MaxDepth = max(c.stats.MaxDepth, depth)
}

func (c *statsCollector) leaf(depth, references int) {
	c.interior(depth)
	c.stats.Leaves++
	c.stats.StoredReferences += references
	c.depthSum += depth
}

func (c *statsCollector) finish(kind Kind, primitives int) Stats {
	c.stats.Kind = kind
	c.stats.Primitives = primitives
	if c.stats.Leaves > 0 {
		c.stats.AvgLeafDepth = float64(c.depthSum) / float64(c.stats.Leaves)
	}
	return c.stats
}
