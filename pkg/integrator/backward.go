package integrator

import (
	"context"

	"github.com/df07/go-photon-raytracer/pkg/core"
	"github.com/df07/go-photon-raytracer/pkg/scene"
)

// Shadow rays stop after this many transmissive surfaces
const maxShadowSegments = 64

// BackwardRenderer shades hits with direct lighting from every light plus
// the colors seen along the reflection and refraction children
type BackwardRenderer struct {
	scene *scene.Scene
	// children shades the secondary hits, so a renderer embedding this one
	// applies its own shading along reflected and refracted rays
	children Renderer
}

// NewBackwardRenderer creates a direct lighting renderer
func NewBackwardRenderer(s *scene.Scene) *BackwardRenderer {
	b := &BackwardRenderer{scene: s}
	b.children = b
	return b
}

// Initialize does nothing: direct lighting needs no preparation
func (b *BackwardRenderer) Initialize(_ context.Context) error {
	return nil
}

// ComputeSampleColor returns black for a miss
func (b *BackwardRenderer) ComputeSampleColor(state *core.IntersectionState, fromCamera core.Ray, sampler core.Sampler) core.Vec3 {
	if !state.HasIntersection {
		return core.Vec3{}
	}
	return b.DirectLighting(state, fromCamera, sampler).Add(b.nonLightDependent(state, sampler))
}

// DirectLighting sums the BRDF response to every shadow ray of every light,
// each scaled by the transmittance of whatever lies between the hit and the light
func (b *BackwardRenderer) DirectLighting(state *core.IntersectionState, fromCamera core.Ray, sampler core.Sampler) core.Vec3 {
	mat := state.Material()
	point := state.Point()
	normal := state.ComputeNormal()
	// Shadow rays leave from the side the camera sees
	if normal.Dot(fromCamera.Direction) > 0 {
		normal = normal.Negate()
	}

	var color core.Vec3
	for _, light := range b.scene.Lights() {
		attenuation := light.ComputeLightAttenuation(point)
		for _, ray := range light.ComputeSampleRays(point, normal, sampler) {
			transmitted := b.shadowTransmittance(ray)
			if transmitted == 0 {
				continue
			}
			lightColor := light.LightColor().Multiply(transmitted)
			color = color.Add(mat.ComputeBRDF(state, lightColor, ray, fromCamera, attenuation, true, true))
		}
	}
	return color
}

// nonLightDependent adds the light arriving along the secondary rays
func (b *BackwardRenderer) nonLightDependent(state *core.IntersectionState, sampler core.Sampler) core.Vec3 {
	mat := state.Material()
	var color core.Vec3
	if child := state.Reflection; child != nil && child.HasIntersection {
		color = color.Add(b.children.ComputeSampleColor(child, child.Ray, sampler).Multiply(mat.Reflectivity()))
	}
	if child := state.Refraction; child != nil && child.HasIntersection {
		color = color.Add(b.children.ComputeSampleColor(child, child.Ray, sampler).Multiply(mat.Transmittance()))
	}
	return color
}

// shadowTransmittance follows ray to its end, passing through transmissive
// surfaces and media. It returns the product of their transmittances, or 0
// when an opaque surface blocks the ray.
func (b *BackwardRenderer) shadowTransmittance(ray core.Ray) float64 {
	transmitted := 1.0
	origin := ray.Origin
	remaining := ray.Limit()

	for i := 0; i < maxShadowSegments; i++ {
		segment := core.NewSegment(origin, ray.Direction, remaining)
		state := core.NewIntersectionState(0, 0)
		if b.scene.Trace(segment, state, true) == core.NoHit {
			return transmitted
		}

		mat := state.Material()
		if !mat.IsTransmissive() && !state.Primitive.Object().IsMedia() {
			return 0
		}
		transmitted *= mat.Transmittance()
		if transmitted == 0 {
			return 0
		}

		advance := state.T + core.LargeEpsilon
		remaining -= advance
		if remaining <= 0 {
			return transmitted
		}
		origin = segment.At(advance)
	}
	return transmitted
}
