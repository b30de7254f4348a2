package lights

import (
	"math"
	"testing"

	"go.viam.com/test"

	"github.com/df07/go-photon-raytracer/pkg/core"
)

// Both light types satisfy the renderer's light contract
var (
	_ core.Light = (*PointLight)(nil)
	_ core.Light = (*AreaLight)(nil)
)

func TestPointLight_ComputeSampleRays(t *testing.T) {
	light := NewPointLight(core.NewVec3(0, 4, 0), core.NewVec3(1, 1, 1))
	sampler := core.NewSeededSampler(42)

	rays := light.ComputeSampleRays(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), sampler)
	test.That(t, rays, test.ShouldHaveLength, 1)

	ray := rays[0]
	test.That(t, ray.Origin.Y, test.ShouldAlmostEqual, core.LargeEpsilon, 1e-12)
	test.That(t, ray.Direction.Y, test.ShouldAlmostEqual, 1.0, 1e-12)
	test.That(t, ray.MaxT, test.ShouldAlmostEqual, 4-core.LargeEpsilon, 1e-12)
	test.That(t, ray.At(ray.MaxT).Y, test.ShouldAlmostEqual, 4.0, 1e-12)
	test.That(t, light.ComputeLightAttenuation(core.NewVec3(5, 5, 5)), test.ShouldEqual, 1.0)
}

func TestPointLight_PhotonDirectionsAreUniform(t *testing.T) {
	light := NewPointLight(core.NewVec3(1, 2, 3), core.NewVec3(1, 1, 1))
	sampler := core.NewSeededSampler(7)

	var mean core.Vec3
	const count = 5000
	for i := 0; i < count; i++ {
		ray := light.GenerateRandomPhotonRay(sampler)
		test.That(t, ray.Origin, test.ShouldResemble, light.Position)
		test.That(t, ray.Direction.Length(), test.ShouldAlmostEqual, 1.0, 1e-9)
		mean = mean.Add(ray.Direction)
	}
	test.That(t, mean.Multiply(1.0/count).Length(), test.ShouldBeLessThan, 0.05)
}

func TestAreaLight_ComputeSampleRays(t *testing.T) {
	// Unit square at y = 2 facing down
	light := NewAreaLight(core.NewVec3(-0.5, 2, -0.5), core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1), core.NewVec3(4, 4, 4))
	test.That(t, light.Normal.Y, test.ShouldAlmostEqual, -1.0, 1e-12)
	light.SetSamplerAttributes(3, 2)
	test.That(t, light.Samples(), test.ShouldEqual, 6)
	test.That(t, light.ComputeLightAttenuation(core.Vec3{}), test.ShouldAlmostEqual, 1.0/6, 1e-12)

	sampler := core.NewSeededSampler(42)
	origin := core.NewVec3(0, 0, 0)
	rays := light.ComputeSampleRays(origin, core.NewVec3(0, 1, 0), sampler)
	test.That(t, rays, test.ShouldHaveLength, 6)
	for _, ray := range rays {
		end := ray.At(ray.MaxT)
		test.That(t, end.Y, test.ShouldBeLessThan, 2)
		test.That(t, end.Y, test.ShouldBeGreaterThan, 2-2*core.LargeEpsilon)
		test.That(t, math.Abs(end.X), test.ShouldBeLessThanOrEqualTo, 0.5)
		test.That(t, math.Abs(end.Z), test.ShouldBeLessThanOrEqualTo, 0.5)
	}

	// Above the light the origin only sees its back face
	rays = light.ComputeSampleRays(core.NewVec3(0, 5, 0), core.NewVec3(0, 1, 0), sampler)
	test.That(t, rays, test.ShouldBeEmpty)
}

func TestAreaLight_GenerateRandomPhotonRay(t *testing.T) {
	light := NewAreaLight(core.NewVec3(-0.5, 2, -0.5), core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1), core.NewVec3(4, 4, 4))
	sampler := core.NewSeededSampler(3)

	for i := 0; i < 500; i++ {
		ray := light.GenerateRandomPhotonRay(sampler)
		test.That(t, ray.Direction.Y, test.ShouldBeLessThan, 0)
		test.That(t, ray.Origin.Y, test.ShouldAlmostEqual, 2-core.LargeEpsilon, 1e-12)
		test.That(t, math.Abs(ray.Origin.X), test.ShouldBeLessThanOrEqualTo, 0.5)
	}
}

func TestAreaLight_SamplerAttributesClamp(t *testing.T) {
	light := NewAreaLight(core.Vec3{}, core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), core.NewVec3(1, 1, 1))
	light.SetSamplerAttributes(0, -2)
	test.That(t, light.Samples(), test.ShouldEqual, 1)
}
