package lights

import (
	"github.com/df07/go-photon-raytracer/pkg/core"
)

// AreaLight represents a rectangular light that emits from its front face,
// the side u × v points to
type AreaLight struct {
	Corner core.Vec3 // Corner point of the rectangle
	U, V   core.Vec3 // Edge vectors
	Normal core.Vec3 // Unit emission direction
	Color  core.Vec3

	gridX, gridY int // Jittered shadow sample grid
}

// NewAreaLight creates a new area light sampled with a single shadow ray
func NewAreaLight(corner, u, v, color core.Vec3) *AreaLight {
	return &AreaLight{
		Corner: corner,
		U:      u,
		V:      v,
		Normal: u.Cross(v).Normalize(),
		Color:  color,
		gridX:  1,
		gridY:  1,
	}
}

// SetSamplerAttributes sets the jittered grid of shadow rays per shading point.
// Non-positive dimensions are treated as 1.
func (al *AreaLight) SetSamplerAttributes(gridX, gridY int) *AreaLight {
	al.gridX = max(1, gridX)
	al.gridY = max(1, gridY)
	return al
}

// Samples returns the number of shadow rays per shading point
func (al *AreaLight) Samples() int {
	return al.gridX * al.gridY
}

// ComputeSampleRays returns one shadow ray per grid cell toward a jittered
// point in that cell. Points the origin sees from behind the light are skipped.
func (al *AreaLight) ComputeSampleRays(origin, normal core.Vec3, sampler core.Sampler) []core.Ray {
	origin = origin.Add(normal.Multiply(core.LargeEpsilon))

	rays := make([]core.Ray, 0, al.Samples())
	for i := 0; i < al.gridX; i++ {
		for j := 0; j < al.gridY; j++ {
			jitter := sampler.Get2D()
			point := al.pointAt((float64(i)+jitter.X)/float64(al.gridX), (float64(j)+jitter.Y)/float64(al.gridY))

			toLight := point.Subtract(origin)
			distance := toLight.Length()
			if distance <= core.LargeEpsilon {
				continue
			}
			direction := toLight.Multiply(1.0 / distance)
			if direction.Dot(al.Normal) > -core.SmallEpsilon {
				continue
			}
			// Stop short of the light itself
			rays = append(rays, core.NewSegment(origin, direction, distance-core.LargeEpsilon))
		}
	}
	return rays
}

// GenerateRandomPhotonRay emits from a uniform point on the rectangle in a
// cosine-weighted direction about the normal
func (al *AreaLight) GenerateRandomPhotonRay(sampler core.Sampler) core.Ray {
	uv := sampler.Get2D()
	origin := al.pointAt(uv.X, uv.Y).Add(al.Normal.Multiply(core.LargeEpsilon))
	return core.NewRay(origin, core.SampleCosineHemisphere(al.Normal, sampler.Get2D()))
}

// LightColor returns the light's color and power
func (al *AreaLight) LightColor() core.Vec3 {
	return al.Color
}

// ComputeLightAttenuation spreads the light over its shadow rays
func (al *AreaLight) ComputeLightAttenuation(_ core.Vec3) float64 {
	return 1.0 / float64(al.Samples())
}

func (al *AreaLight) pointAt(s, t float64) core.Vec3 {
	return al.Corner.Add(al.U.Multiply(s)).Add(al.V.Multiply(t))
}
