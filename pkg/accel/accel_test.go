package accel

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/test"

	"github.com/df07/go-photon-raytracer/pkg/core"
)

// boxNode is a solid box primitive: rays hit it where they enter its bounds
type boxNode struct {
	box   core.AABB
	tests int
}

func (b *boxNode) BoundingBox() core.AABB {
	return b.box
}

func (b *boxNode) Trace(ray core.Ray, state *core.IntersectionState) bool {
	b.tests++
	hit, t := b.box.Trace(ray)
	if !hit || t < core.SmallEpsilon {
		return false
	}
	return state.Record(t, ray, nil)
}

func newBoxNode(min, max core.Vec3) *boxNode {
	return &boxNode{box: core.NewAABB(min, max)}
}

// randomBoxes scatters small boxes through [-10, 10]^3
func randomBoxes(random *rand.Rand, count int) []core.AccelerationNode {
	nodes := make([]core.AccelerationNode, count)
	for i := range nodes {
		center := core.NewVec3(random.Float64()*20-10, random.Float64()*20-10, random.Float64()*20-10)
		half := core.NewVec3(random.Float64()*0.8+0.1, random.Float64()*0.8+0.1, random.Float64()*0.8+0.1)
		nodes[i] = newBoxNode(center.Subtract(half), center.Add(half))
	}
	return nodes
}

func TestNewKinds(t *testing.T) {
	for _, kind := range Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			structure, err := New(kind, Options{})
			test.That(t, err, test.ShouldBeNil)
			test.That(t, structure, test.ShouldNotBeNil)
			test.That(t, structure.Stats().Kind, test.ShouldEqual, kind)

			parsed, err := ParseKind(string(kind))
			test.That(t, err, test.ShouldBeNil)
			test.That(t, parsed, test.ShouldEqual, kind)
		})
	}
}

func TestNewErrors(t *testing.T) {
	_, err := ParseKind("grid")
	test.That(t, errors.Is(err, ErrUnknownKind), test.ShouldBeTrue)

	_, err = New(Kind("grid"), Options{})
	test.That(t, errors.Is(err, ErrUnknownKind), test.ShouldBeTrue)

	err = Options{MaxLeafSize: -1, MaxDepth: -3}.Validate()
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, multierr.Errors(err), test.ShouldHaveLength, 2)
	test.That(t, errors.Is(err, ErrInvalidOptions), test.ShouldBeTrue)

	_, err = New(KindOctantTree, Options{MaxLeafSize: -1})
	test.That(t, errors.Is(err, ErrInvalidOptions), test.ShouldBeTrue)
}

func TestDefaultOptions(t *testing.T) {
	test.That(t, DefaultOptions(KindSplitTree), test.ShouldResemble, Options{MaxLeafSize: 2})
	test.That(t, DefaultOptions(KindOctantTree), test.ShouldResemble, Options{MaxLeafSize: 2, MaxDepth: 16})
	test.That(t, DefaultOptions(KindBVH), test.ShouldResemble, Options{MaxLeafSize: 8})
	for _, kind := range Kinds() {
		test.That(t, DefaultOptions(kind).Validate(), test.ShouldBeNil)
	}
}

func TestEmptyStructures(t *testing.T) {
	for _, kind := range Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			structure, err := New(kind, Options{})
			test.That(t, err, test.ShouldBeNil)
			test.That(t, structure.Build(nil), test.ShouldBeNil)

			state := core.NewIntersectionState(0, 0)
			ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0))
			test.That(t, structure.Trace(ray, state), test.ShouldBeFalse)
			test.That(t, state.HasIntersection, test.ShouldBeFalse)
			test.That(t, structure.Stats().Nodes, test.ShouldEqual, 0)
			test.That(t, structure.BoundingBox().IsValid(), test.ShouldBeFalse)
		})
	}
}

func TestClosestHitMatchesBruteForce(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	nodes := randomBoxes(random, 200)

	rays := make([]core.Ray, 300)
	for i := range rays {
		origin := core.NewVec3(random.Float64()*30-15, random.Float64()*30-15, random.Float64()*30-15)
		direction := core.SampleOnUnitSphere(core.NewVec2(random.Float64(), random.Float64()))
		rays[i] = core.NewRay(origin, direction)
	}

	expected := make([]float64, len(rays))
	for i, ray := range rays {
		expected[i] = math.Inf(1)
		for _, node := range nodes {
			if hit, t := node.BoundingBox().Trace(ray); hit && t >= core.SmallEpsilon {
				expected[i] = math.Min(expected[i], t)
			}
		}
	}

	for _, kind := range Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			structure, err := New(kind, Options{})
			test.That(t, err, test.ShouldBeNil)
			test.That(t, structure.Build(nodes), test.ShouldBeNil)

			for i, ray := range rays {
				state := core.NewIntersectionState(0, 0)
				hit := structure.Trace(ray, state)
				if math.IsInf(expected[i], 1) {
					test.That(t, hit, test.ShouldBeFalse)
					continue
				}
				test.That(t, hit, test.ShouldBeTrue)
				test.That(t, state.T, test.ShouldAlmostEqual, expected[i], 1e-9)
			}
		})
	}
}

func TestShadowSegmentStopsAtMaxT(t *testing.T) {
	nodes := []core.AccelerationNode{newBoxNode(core.NewVec3(4, -1, -1), core.NewVec3(5, 1, 1))}
	for _, kind := range Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			structure, err := New(kind, Options{})
			test.That(t, err, test.ShouldBeNil)
			test.That(t, structure.Build(nodes), test.ShouldBeNil)

			short := core.NewSegment(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), 3)
			test.That(t, structure.Trace(short, core.NewIntersectionState(0, 0)), test.ShouldBeFalse)

			long := core.NewSegment(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), 6)
			state := core.NewIntersectionState(0, 0)
			test.That(t, structure.Trace(long, state), test.ShouldBeTrue)
			test.That(t, state.T, test.ShouldAlmostEqual, 4.0, 1e-9)
		})
	}
}

func TestBVHLeafThresholdBoundary(t *testing.T) {
	nodes := make([]core.AccelerationNode, 8)
	for i := range nodes {
		x := float64(i)
		nodes[i] = newBoxNode(core.NewVec3(x, 0, 0), core.NewVec3(x+1, 1, 1))
	}

	bvh := NewBVH(8)
	test.That(t, bvh.Build(nodes), test.ShouldBeNil)
	stats := bvh.Stats()
	test.That(t, stats.Nodes, test.ShouldEqual, 1)
	test.That(t, stats.Leaves, test.ShouldEqual, 1)

	nodes = append(nodes, newBoxNode(core.NewVec3(8, 0, 0), core.NewVec3(9, 1, 1)))
	test.That(t, bvh.Build(nodes), test.ShouldBeNil)
	stats = bvh.Stats()
	test.That(t, stats.Nodes, test.ShouldBeGreaterThan, 1)
	test.That(t, stats.Leaves, test.ShouldBeGreaterThanOrEqualTo, 2)
	test.That(t, stats.StoredReferences, test.ShouldEqual, 9)
}
