package lights

import (
	"github.com/df07/go-photon-raytracer/pkg/core"
)

// PointLight is an infinitely small light that shines equally in every direction
type PointLight struct {
	Position core.Vec3
	Color    core.Vec3
}

// NewPointLight creates a new point light
func NewPointLight(position, color core.Vec3) *PointLight {
	return &PointLight{Position: position, Color: color}
}

// ComputeSampleRays returns a single shadow ray from origin, pushed off the
// surface along normal, that ends at the light
func (pl *PointLight) ComputeSampleRays(origin, normal core.Vec3, _ core.Sampler) []core.Ray {
	origin = origin.Add(normal.Multiply(core.LargeEpsilon))
	toLight := pl.Position.Subtract(origin)
	distance := toLight.Length()
	if distance == 0 {
		return nil
	}
	return []core.Ray{core.NewSegment(origin, toLight.Multiply(1.0/distance), distance)}
}

// GenerateRandomPhotonRay emits from the light position in a uniformly random direction
func (pl *PointLight) GenerateRandomPhotonRay(sampler core.Sampler) core.Ray {
	return core.NewRay(pl.Position, core.SampleOnUnitSphere(sampler.Get2D()))
}

// LightColor returns the light's color and power
func (pl *PointLight) LightColor() core.Vec3 {
	return pl.Color
}

// ComputeLightAttenuation returns 1: the light has no distance falloff
func (pl *PointLight) ComputeLightAttenuation(_ core.Vec3) float64 {
	return 1.0
}
