package material

import (
	"math"

	"github.com/df07/go-photon-raytracer/pkg/core"
)

// BlinnPhong is a diffuse plus Blinn-Phong highlight material that can also
// mirror-reflect and transmit a fraction of incoming light. The fractions
// that are reflected or transmitted are taken out of the local shading.
type BlinnPhong struct {
	diffuse       core.Vec3
	specular      core.Vec3
	shininess     float64
	reflectivity  float64
	transmittance float64
	ior           float64
}

// NewBlinnPhong creates an opaque, non-reflective material
func NewBlinnPhong(diffuse, specular core.Vec3, shininess float64) *BlinnPhong {
	return &BlinnPhong{
		diffuse:   diffuse,
		specular:  specular,
		shininess: shininess,
		ior:       1.0,
	}
}

// NewLambertian creates a purely diffuse material
func NewLambertian(albedo core.Vec3) *BlinnPhong {
	return NewBlinnPhong(albedo, core.Vec3{}, 0)
}

// SetReflectivity sets the fraction of light mirror-reflected, clamped to [0, 1]
func (m *BlinnPhong) SetReflectivity(reflectivity float64) *BlinnPhong {
	m.reflectivity = clamp01(reflectivity)
	return m
}

// SetTransmittance sets the fraction of light refracted through the surface
// and the index of refraction it bends with
func (m *BlinnPhong) SetTransmittance(transmittance, ior float64) *BlinnPhong {
	m.transmittance = clamp01(transmittance)
	if ior > 0 {
		m.ior = ior
	}
	return m
}

// ComputeBRDF evaluates the diffuse and highlight lobes for light arriving
// along toLight and leaving toward the camera. The normal is oriented toward
// the camera, so light from behind the surface contributes nothing.
func (m *BlinnPhong) ComputeBRDF(state *core.IntersectionState, lightColor core.Vec3, toLight, fromCamera core.Ray, attenuation float64, diffuse, specular bool) core.Vec3 {
	normal := state.ComputeNormal()
	toCamera := fromCamera.Direction.Normalize().Negate()
	if normal.Dot(toCamera) < 0 {
		normal = normal.Negate()
	}

	l := toLight.Direction.Normalize()
	nDotL := normal.Dot(l)
	if nDotL <= 0 {
		return core.Vec3{}
	}

	var response core.Vec3
	if diffuse {
		response = response.Add(m.diffuse.Multiply(nDotL))
	}
	if specular && m.shininess > 0 {
		h := l.Add(toCamera).Normalize()
		nDotH := math.Max(0, normal.Dot(h))
		response = response.Add(m.specular.Multiply(math.Pow(nDotH, m.shininess)))
	}

	return response.MultiplyVec(lightColor).Multiply(attenuation * m.localFraction())
}

// BaseDiffuseReflection returns the albedo left for local diffuse shading
func (m *BlinnPhong) BaseDiffuseReflection() core.Vec3 {
	return m.diffuse.Multiply(m.localFraction())
}

// BaseSpecularReflection returns the fraction of light that continues
// specularly, by mirror reflection or refraction
func (m *BlinnPhong) BaseSpecularReflection() core.Vec3 {
	s := m.reflectivity + m.transmittance
	return core.NewVec3(s, s, s)
}

// IsReflective reports whether any light is mirror-reflected
func (m *BlinnPhong) IsReflective() bool {
	return m.reflectivity > core.SmallEpsilon
}

// IsTransmissive reports whether any light is refracted
func (m *BlinnPhong) IsTransmissive() bool {
	return m.transmittance > core.SmallEpsilon
}

// Reflectivity returns the mirror-reflected fraction
func (m *BlinnPhong) Reflectivity() float64 {
	return m.reflectivity
}

// Transmittance returns the refracted fraction
func (m *BlinnPhong) Transmittance() float64 {
	return m.transmittance
}

// IOR returns the index of refraction
func (m *BlinnPhong) IOR() float64 {
	return m.ior
}

// localFraction is what remains for local shading after reflection and transmission
func (m *BlinnPhong) localFraction() float64 {
	return math.Max(0, 1-m.reflectivity-m.transmittance)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
