// Package scene holds the objects, lights and acceleration structure of a
// render, and traces rays through them spawning reflection and refraction
// rays.
package scene

import (
	"time"

	"github.com/pkg/errors"

	"github.com/df07/go-photon-raytracer/pkg/accel"
	"github.com/df07/go-photon-raytracer/pkg/core"
	"github.com/df07/go-photon-raytracer/pkg/logging"
)

var (
	// ErrNoAcceleration is returned when a nil acceleration structure is installed
	ErrNoAcceleration = errors.New("scene has no acceleration structure")
	// ErrNotFinalized is the panic value for tracing a scene before Finalize
	ErrNotFinalized = errors.New("scene is not finalized")
	// ErrEmptyScene is returned when finalizing a scene without primitives
	ErrEmptyScene = errors.New("scene has no primitives")
)

// Object is a scene object that owns primitives
type Object interface {
	core.SceneObject
	Name() string
	Primitives() []core.Primitive
}

// CameraConfig is the camera a scene is meant to be viewed from
type CameraConfig struct {
	Center core.Vec3 // Camera position
	LookAt core.Vec3 // Point the camera looks at
	Up     core.Vec3 // Up direction
	VFov   float64   // Vertical field of view in degrees
}

// Scene contains all the elements needed for rendering
type Scene struct {
	Name         string
	CameraConfig CameraConfig

	objects []Object
	lights  []core.Light

	kind         accel.Kind
	options      accel.Options
	acceleration accel.Structure
	primitives   int
	finalized    bool

	logger logging.Logger
}

// New creates an empty scene that is traced by brute force unless another
// acceleration structure is chosen
func New(name string, logger logging.Logger) *Scene {
	return &Scene{
		Name:    name,
		kind:    accel.KindNone,
		options: accel.DefaultOptions(accel.KindNone),
		logger:  logger,
	}
}

// AddObject adds an object. Objects added after Finalize are not traced
// until Finalize runs again.
func (s *Scene) AddObject(object Object) {
	s.objects = append(s.objects, object)
	s.finalized = false
}

// AddLight adds a light
func (s *Scene) AddLight(light core.Light) {
	s.lights = append(s.lights, light)
}

// SetAcceleration selects the kind of structure Finalize builds
func (s *Scene) SetAcceleration(kind accel.Kind, opts accel.Options) error {
	structure, err := accel.New(kind, opts)
	if err != nil {
		return errors.Wrap(err, "set acceleration")
	}
	s.kind = kind
	s.options = opts
	s.acceleration = structure
	s.finalized = false
	return nil
}

// SetAccelerationStructure installs an already constructed structure.
// Finalize builds it over the scene's primitives.
func (s *Scene) SetAccelerationStructure(structure accel.Structure) error {
	if structure == nil {
		return ErrNoAcceleration
	}
	s.acceleration = structure
	s.kind = structure.Stats().Kind
	s.finalized = false
	return nil
}

// Finalize collects every object's primitives and builds the acceleration
// structure over them. The scene is read-only afterwards.
func (s *Scene) Finalize() error {
	var nodes []core.AccelerationNode
	for _, object := range s.objects {
		for _, primitive := range object.Primitives() {
			nodes = append(nodes, primitive)
		}
	}
	if len(nodes) == 0 {
		return errors.Wrapf(ErrEmptyScene, "finalize %q", s.Name)
	}

	if s.acceleration == nil {
		structure, err := accel.New(s.kind, s.options)
		if err != nil {
			return errors.Wrapf(err, "finalize %q", s.Name)
		}
		s.acceleration = structure
	}

	start := time.Now()
	if err := s.acceleration.Build(nodes); err != nil {
		return errors.Wrapf(err, "build acceleration for %q", s.Name)
	}
	stats := s.acceleration.Stats()
	s.logger.Debugw("built acceleration structure",
		"kind", stats.Kind,
		"nodes", stats.Nodes,
		"leaves", stats.Leaves,
		"maxDepth", stats.MaxDepth,
		"duration", time.Since(start))

	s.primitives = len(nodes)
	s.finalized = true
	s.logger.Infow("scene finalized",
		"scene", s.Name,
		"objects", len(s.objects),
		"primitives", s.primitives,
		"lights", len(s.lights))
	return nil
}

// Trace finds the closest hit along ray and records it in state. Unless the
// ray is a shadow ray stopped by an ordinary surface, reflection and
// refraction rays are spawned into state's children while the bounce
// budgets allow. Trace panics if the scene was not finalized.
func (s *Scene) Trace(ray core.Ray, state *core.IntersectionState, isShadowRay bool) core.HitStatus {
	if !s.finalized {
		panic(errors.Wrapf(ErrNotFinalized, "trace %q", s.Name))
	}
	return s.trace(ray, state, isShadowRay)
}

func (s *Scene) trace(ray core.Ray, state *core.IntersectionState, isShadowRay bool) core.HitStatus {
	if !s.acceleration.Trace(ray, state) || !state.HasIntersection {
		return core.NoHit
	}

	object := state.Primitive.Object()
	media := object.IsMedia()
	surfaceBeyond := false

	if !isShadowRay || media {
		mat := object.Material()
		point := state.Point()
		normal := state.ComputeNormal()
		direction := ray.Direction.Normalize()
		nDotR := direction.Dot(normal)

		if mat.IsReflective() && state.RemainingReflectionBounces > 0 {
			child := core.NewIntersectionState(state.RemainingReflectionBounces-1, state.RemainingRefractionBounces)
			child.CurrentIOR = state.CurrentIOR

			facing := normal
			if nDotR > core.SmallEpsilon {
				facing = facing.Negate()
			}
			reflected := core.Reflect(direction, facing).Normalize()
			state.Reflection = child
			if s.trace(core.NewRay(point.Add(reflected.Multiply(core.LargeEpsilon)), reflected), child, false) == core.HitSurface {
				surfaceBeyond = true
			}
		}

		if mat.IsTransmissive() && state.RemainingRefractionBounces > 0 {
			child := core.NewIntersectionState(state.RemainingReflectionBounces, state.RemainingRefractionBounces-1)

			// Entering when travelling against the normal, otherwise leaving into air
			targetIOR := 1.0
			if nDotR < core.SmallEpsilon {
				targetIOR = mat.IOR()
			}
			refracted := core.Refract(direction, normal, state.CurrentIOR, targetIOR)
			child.CurrentIOR = targetIOR
			// Total internal reflection keeps the ray in the current medium
			if refracted.Dot(normal)*nDotR < 0 {
				child.CurrentIOR = state.CurrentIOR
			}
			state.Refraction = child
			if s.trace(core.NewRay(point.Add(refracted.Multiply(core.LargeEpsilon)), refracted), child, false) == core.HitSurface {
				surfaceBeyond = true
			}
		}
	}

	if media && !surfaceBeyond {
		return core.HitMediaOnly
	}
	return core.HitSurface
}

// Objects returns the scene objects in insertion order
func (s *Scene) Objects() []Object {
	return s.objects
}

// Lights returns the scene lights in insertion order
func (s *Scene) Lights() []core.Light {
	return s.lights
}

// Finalized reports whether the scene is ready to trace
func (s *Scene) Finalized() bool {
	return s.finalized
}

// PrimitiveCount returns the number of primitives indexed by Finalize
func (s *Scene) PrimitiveCount() int {
	return s.primitives
}

// Acceleration returns the installed acceleration structure, or nil
func (s *Scene) Acceleration() accel.Structure {
	return s.acceleration
}

// Stats returns statistics of the built acceleration structure
func (s *Scene) Stats() accel.Stats {
	if s.acceleration == nil {
		return accel.Stats{Kind: s.kind}
	}
	return s.acceleration.Stats()
}
