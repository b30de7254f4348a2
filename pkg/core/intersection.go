package core

import "math"

// HitStatus is the outcome of tracing a ray through a scene
type HitStatus int

const (
	// NoHit means the ray left the scene without hitting anything
	NoHit HitStatus = iota
	// HitSurface means the ray stopped at an ordinary surface, possibly after passing through media
	HitSurface
	// HitMediaOnly means the ray only passed through participating media
	HitMediaOnly
)

// String returns a readable name for the status
func (s HitStatus) String() string {
	switch s {
	case NoHit:
		return "no-hit"
	case HitSurface:
		return "hit-surface"
	case HitMediaOnly:
		return "hit-media-only"
	default:
		return "unknown"
	}
}

// IntersectionState is the per-ray record threaded through a trace. The
// reflection and refraction children are only set when the corresponding
// secondary ray was spawned, forming a binary tree whose depth is bounded by
// the bounce budgets.
type IntersectionState struct {
	HasIntersection bool
	Primitive       Primitive
	T               float64 // Closest hit distance so far
	Ray             Ray     // The ray that produced this state
	CurrentIOR      float64

	RemainingReflectionBounces int
	RemainingRefractionBounces int

	Reflection *IntersectionState
	Refraction *IntersectionState
}

// NewIntersectionState creates a fresh state with the given bounce budgets
func NewIntersectionState(reflectionBounces, refractionBounces int) *IntersectionState {
	return &IntersectionState{
		T:                          math.Inf(1),
		CurrentIOR:                 1.0,
		RemainingReflectionBounces: reflectionBounces,
		RemainingRefractionBounces: refractionBounces,
	}
}

// Record keeps the hit if it is at least as close as the current one. Equal
// distances are accepted so re-testing the same primitive is idempotent;
// farther hits never replace a closer one.
func (s *IntersectionState) Record(t float64, ray Ray, primitive Primitive) bool {
	if t > s.T {
		return false
	}
	s.HasIntersection = true
	s.T = t
	s.Ray = ray
	s.Primitive = primitive
	return true
}

// Point returns the world-space hit position
func (s *IntersectionState) Point() Vec3 {
	return s.Ray.At(s.T)
}

// ComputeNormal returns the surface normal at the hit
func (s *IntersectionState) ComputeNormal() Vec3 {
	if s.Primitive == nil {
		return Vec3{}
	}
	return s.Primitive.Normal(s)
}

// Material returns the hit object's material, or nil without a hit
func (s *IntersectionState) Material() Material {
	if !s.HasIntersection || s.Primitive == nil {
		return nil
	}
	return s.Primitive.Object().Material()
}

// Depth returns the height of the secondary ray tree rooted at s
func (s *IntersectionState) Depth() int {
	if s == nil {
		return 0
	}
	return 1 + max(s.Reflection.Depth(), s.Refraction.Depth())
}
