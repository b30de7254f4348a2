package core

// AccelerationNode is anything that can be bounded and intersected: the
// primitives stored in acceleration structures.
type AccelerationNode interface {
	BoundingBox() AABB
	// Trace intersects the ray with the node and records the hit in state if
	// it is closer than the one already recorded. It reports whether the ray
	// hit the node at a distance no farther than state's closest hit.
	Trace(ray Ray, state *IntersectionState) bool
}

// Primitive is an intersectable leaf that belongs to a scene object
type Primitive interface {
	AccelerationNode
	// Normal returns the unit surface normal at the hit recorded in state
	Normal(state *IntersectionState) Vec3
	// Object returns the scene object the primitive belongs to
	Object() SceneObject
}

// SceneObject owns primitives and the material they share
type SceneObject interface {
	Material() Material
	// IsMedia reports whether the object is a participating media volume
	IsMedia() bool
}

// Material is the surface response consumed by the tracer and renderers
type Material interface {
	// ComputeBRDF returns the light reflected toward the camera at the hit in
	// state from lightColor arriving along toLight, scaled by attenuation.
	// The diffuse and specular flags select which lobes are evaluated.
	ComputeBRDF(state *IntersectionState, lightColor Vec3, toLight, fromCamera Ray, attenuation float64, diffuse, specular bool) Vec3
	BaseDiffuseReflection() Vec3
	BaseSpecularReflection() Vec3
	IsReflective() bool
	IsTransmissive() bool
	Reflectivity() float64
	Transmittance() float64
	IOR() float64
}

// Light is a source of direct illumination and photons
type Light interface {
	// ComputeSampleRays returns shadow rays from origin toward the light,
	// each bounded to stop right before the light.
	ComputeSampleRays(origin, normal Vec3, sampler Sampler) []Ray
	// GenerateRandomPhotonRay returns a ray leaving the light along a random emission direction
	GenerateRandomPhotonRay(sampler Sampler) Ray
	LightColor() Vec3
	ComputeLightAttenuation(point Vec3) float64
}
