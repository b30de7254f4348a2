package integrator

import (
	"github.com/df07/go-photon-raytracer/pkg/core"
	"github.com/df07/go-photon-raytracer/pkg/photon"
	"github.com/df07/go-photon-raytracer/pkg/scene"
)

// photonTracer carries one emission worker's random stream and results
type photonTracer struct {
	scene         *scene.Scene
	sampler       core.Sampler
	policy        CausticPolicy
	routeCaustics bool
	specular      map[core.SceneObject]bool
	result        workerResult
}

// hit is a photon's landing point with its Russian roulette probabilities
type hit struct {
	state        *core.IntersectionState
	mat          core.Material
	pDiffuse     float64
	pSpecular    float64
	diffuse      core.Vec3 // Diffuse reflectance
	specular     core.Vec3 // Specular reflectance
	hasSpecular  bool
	incomingSide core.Vec3 // Unit normal on the side the photon arrived from
}

// land traces ray to its first hit. Photons never spawn secondary rays in
// the scene, so the budgets are zero.
func (pt *photonTracer) land(ray core.Ray, power core.Vec3, currentIOR float64) (hit, bool) {
	state := core.NewIntersectionState(0, 0)
	state.CurrentIOR = currentIOR
	if pt.scene.Trace(ray, state, false) == core.NoHit {
		return hit{}, false
	}

	mat := state.Material()
	h := hit{
		state:    state,
		mat:      mat,
		diffuse:  mat.BaseDiffuseReflection(),
		specular: mat.BaseSpecularReflection(),
	}
	h.hasSpecular = mat.IsReflective() || mat.IsTransmissive()

	// Per-channel probabilities weighted by the photon's color
	if maxPower := power.MaxComponent(); maxPower > 0 {
		h.pDiffuse = h.diffuse.MultiplyVec(power).MaxComponent() / maxPower
		if h.hasSpecular {
			h.pSpecular = h.specular.MultiplyVec(power).MaxComponent() / maxPower
		}
	}
	if total := h.pDiffuse + h.pSpecular; total > 1 {
		h.pDiffuse /= total
		h.pSpecular /= total
	}

	h.incomingSide = state.ComputeNormal()
	if h.incomingSide.Dot(ray.Direction) > 0 {
		h.incomingSide = h.incomingSide.Negate()
	}
	return h, true
}

// trace follows a photon through the scene. Photons are stored at every
// diffuse surface they reach after leaving the light, then Russian roulette
// picks diffuse scattering, specular scattering or absorption.
func (pt *photonTracer) trace(ray core.Ray, power core.Vec3, pathLength, diffuseBounces, specularBounces int, currentIOR float64, remaining int) {
	if remaining < 0 {
		return
	}
	h, ok := pt.land(ray, power, currentIOR)
	if !ok {
		return
	}

	if pathLength > 1 && h.pDiffuse > 0 {
		p := photon.NewPhoton(h.state.Point(), power, ray.Direction)
		pt.result.diffuse = append(pt.result.diffuse, p)
		if pt.routeCaustics && pt.policy.stores(diffuseBounces, specularBounces) {
			pt.result.caustic = append(pt.result.caustic, p)
		}
	}

	u := pt.sampler.Get1D()
	switch {
	case u < h.pDiffuse:
		direction := core.SampleCosineHemisphere(h.incomingSide, pt.sampler.Get2D())
		origin := h.state.Point().Add(h.incomingSide.Multiply(core.LargeEpsilon))
		scattered := power.MultiplyVec(h.diffuse).Multiply(1.0 / h.pDiffuse)
		pt.trace(core.NewRay(origin, direction), scattered, pathLength+1, diffuseBounces+1, specularBounces, currentIOR, remaining-1)
	case u < h.pDiffuse+h.pSpecular:
		next, ior := pt.scatterSpecular(ray, h, currentIOR)
		scattered := power.MultiplyVec(h.specular).Multiply(1.0 / h.pSpecular)
		pt.trace(next, scattered, pathLength+1, diffuseBounces, specularBounces+1, ior, remaining-1)
	}
}

// traceSpecularFromLight fires a photon of the specular pass. Photons whose
// first hit is not a specular object are rejected.
func (pt *photonTracer) traceSpecularFromLight(ray core.Ray, power core.Vec3, remaining int) {
	if remaining < 0 {
		return
	}
	h, ok := pt.land(ray, power, 1.0)
	if !ok || !pt.specular[h.state.Primitive.Object()] {
		pt.result.rejected++
		return
	}
	pt.continueSpecular(ray, h, power, 1, 0, 1.0, remaining)
}

// traceSpecular follows only specular bounces. The first diffuse surface
// reached after a specular bounce receives a caustic photon and ends the path.
func (pt *photonTracer) traceSpecular(ray core.Ray, power core.Vec3, pathLength, specularBounces int, currentIOR float64, remaining int) {
	if remaining < 0 {
		return
	}
	h, ok := pt.land(ray, power, currentIOR)
	if !ok {
		return
	}
	pt.continueSpecular(ray, h, power, pathLength, specularBounces, currentIOR, remaining)
}

// continueSpecular handles a photon of the specular pass that landed at h
func (pt *photonTracer) continueSpecular(ray core.Ray, h hit, power core.Vec3, pathLength, specularBounces int, currentIOR float64, remaining int) {
	if pathLength > 1 && h.pDiffuse > 0 {
		if pt.policy.stores(0, specularBounces) {
			pt.result.caustic = append(pt.result.caustic, photon.NewPhoton(h.state.Point(), power, ray.Direction))
		}
		return
	}

	if pt.sampler.Get1D() < h.pSpecular {
		next, ior := pt.scatterSpecular(ray, h, currentIOR)
		scattered := power.MultiplyVec(h.specular).Multiply(1.0 / h.pSpecular)
		pt.traceSpecular(next, scattered, pathLength+1, specularBounces+1, ior, remaining-1)
	}
}

// scatterSpecular picks refraction or mirror reflection in proportion to
// the material's transmittance and reflectivity. It returns the outgoing ray
// and the index of refraction of the medium it travels in.
func (pt *photonTracer) scatterSpecular(ray core.Ray, h hit, currentIOR float64) (core.Ray, float64) {
	point := h.state.Point()
	direction := ray.Direction.Normalize()
	normal := h.state.ComputeNormal()

	reflectivity, transmittance := h.mat.Reflectivity(), h.mat.Transmittance()
	if transmittance > 0 && pt.sampler.Get1D()*(reflectivity+transmittance) < transmittance {
		nDotR := direction.Dot(normal)
		targetIOR := 1.0
		if nDotR < core.SmallEpsilon {
			targetIOR = h.mat.IOR()
		}
		refracted := core.Refract(direction, normal, currentIOR, targetIOR)
		if refracted.Dot(normal)*nDotR < 0 {
			targetIOR = currentIOR
		}
		return core.NewRay(point.Add(refracted.Multiply(core.LargeEpsilon)), refracted), targetIOR
	}

	reflected := core.Reflect(direction, h.incomingSide).Normalize()
	return core.NewRay(point.Add(reflected.Multiply(core.LargeEpsilon)), reflected), currentIOR
}
