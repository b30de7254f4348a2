package scene

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/df07/go-photon-raytracer/pkg/core"
	"github.com/df07/go-photon-raytracer/pkg/geometry"
	"github.com/df07/go-photon-raytracer/pkg/lights"
	"github.com/df07/go-photon-raytracer/pkg/logging"
	"github.com/df07/go-photon-raytracer/pkg/material"
)

// ErrUnknownPreset is returned when looking up a preset that does not exist
var ErrUnknownPreset = errors.New("unknown scene preset")

// SamplingConfig is the render setup a preset is tuned for
type SamplingConfig struct {
	Width                int // Image width
	Height               int // Image height
	SamplesPerPixel      int // Number of rays per pixel
	MaxReflectionBounces int // Mirror bounces per camera ray
	MaxRefractionBounces int // Refraction bounces per camera ray
}

// Preset is a builtin scene
type Preset struct {
	Name        string
	Description string
	Sampling    SamplingConfig
	Build       func(logger logging.Logger) (*Scene, error)
}

// Cornell box height, the box spans [-1, 1] in x and z
const cornellHeight = 1.59

var presets = map[string]Preset{
	"cornell": {
		Name:        "cornell",
		Description: "Cornell box with a mirror block and a glass sphere lit by a point light",
		Sampling:    SamplingConfig{Width: 640, Height: 480, SamplesPerPixel: 1, MaxReflectionBounces: 2, MaxRefractionBounces: 4},
		Build: func(logger logging.Logger) (*Scene, error) {
			return NewCornellScene(false, logger)
		},
	},
	"cornell-area": {
		Name:        "cornell-area",
		Description: "Cornell box with an extra area light under the ceiling",
		Sampling:    SamplingConfig{Width: 640, Height: 480, SamplesPerPixel: 1, MaxReflectionBounces: 2, MaxRefractionBounces: 4},
		Build: func(logger logging.Logger) (*Scene, error) {
			return NewCornellScene(true, logger)
		},
	},
	"lit-plane": {
		Name:        "lit-plane",
		Description: "Point light above a white plane",
		Sampling:    SamplingConfig{Width: 200, Height: 200, SamplesPerPixel: 1},
		Build: func(logger logging.Logger) (*Scene, error) {
			return NewLitPlaneScene(false, logger)
		},
	},
	"lit-plane-occluded": {
		Name:        "lit-plane-occluded",
		Description: "Point light above a white plane with a slab casting a shadow",
		Sampling:    SamplingConfig{Width: 200, Height: 200, SamplesPerPixel: 1},
		Build: func(logger logging.Logger) (*Scene, error) {
			return NewLitPlaneScene(true, logger)
		},
	},
}

// Presets lists every builtin scene sorted by name
func Presets() []Preset {
	result := make([]Preset, 0, len(presets))
	for _, preset := range presets {
		result = append(result, preset)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// LookupPreset returns the builtin scene with the given name
func LookupPreset(name string) (Preset, error) {
	preset, ok := presets[name]
	if !ok {
		return Preset{}, errors.Wrapf(ErrUnknownPreset, "%q", name)
	}
	return preset, nil
}

// NewCornellScene creates a Cornell box holding a mirror block and a glass
// sphere, lit by a point light under the ceiling and optionally an area light
func NewCornellScene(withAreaLight bool, logger logging.Logger) (*Scene, error) {
	s := New("cornell", logger)
	s.CameraConfig = CameraConfig{
		Center: core.NewVec3(0, 0.79, 4.15), // Outside the open front of the box
		LookAt: core.NewVec3(0, 0.79, 0),
		Up:     core.NewVec3(0, 1, 0),
		VFov:   26.6,
	}

	newWall := func(diffuse core.Vec3) *material.BlinnPhong {
		return material.NewBlinnPhong(diffuse, core.NewVec3(0.6, 0.6, 0.6), 40)
	}
	white := newWall(core.NewVec3(0.725, 0.71, 0.68))
	red := newWall(core.NewVec3(0.63, 0.065, 0.05))
	green := newWall(core.NewVec3(0.14, 0.45, 0.091))

	h := cornellHeight
	// Every wall normal points into the box
	walls := []struct {
		name    string
		corner  core.Vec3
		u, v    core.Vec3
		surface *material.BlinnPhong
	}{
		{"floor", core.NewVec3(-1, 0, -1), core.NewVec3(0, 0, 2), core.NewVec3(2, 0, 0), white},
		{"ceiling", core.NewVec3(-1, h, -1), core.NewVec3(2, 0, 0), core.NewVec3(0, 0, 2), white},
		{"back", core.NewVec3(-1, 0, -1), core.NewVec3(2, 0, 0), core.NewVec3(0, h, 0), white},
		{"left", core.NewVec3(-1, 0, -1), core.NewVec3(0, h, 0), core.NewVec3(0, 0, 2), red},
		{"right", core.NewVec3(1, 0, -1), core.NewVec3(0, 0, 2), core.NewVec3(0, h, 0), green},
	}
	for _, w := range walls {
		mesh, err := geometry.NewQuadMesh(w.name, w.corner, w.u, w.v, w.surface, nil)
		if err != nil {
			return nil, err
		}
		s.AddObject(mesh)
	}

	mirror := newWall(core.NewVec3(1, 1, 1)).SetReflectivity(0.6)
	block, err := geometry.NewBoxMesh("mirror-block",
		core.NewVec3(-0.4, 0.6, -0.35),
		core.NewVec3(0.28, 0.6, 0.28),
		core.NewVec3(0, 0.3, 0),
		mirror)
	if err != nil {
		return nil, err
	}
	s.AddObject(block)

	glass := newWall(core.NewVec3(1, 1, 1)).SetTransmittance(0.9, 1.5)
	sphere, err := geometry.NewIcosphereMesh("glass-sphere", core.NewVec3(0.45, 0.35, 0.3), 0.35, 3, glass, nil)
	if err != nil {
		return nil, err
	}
	s.AddObject(sphere)

	s.AddLight(lights.NewPointLight(core.NewVec3(0, h-0.02, 0), core.NewVec3(1, 1, 1)))
	if withAreaLight {
		area := lights.NewAreaLight(
			core.NewVec3(-0.25, h-0.01-core.LargeEpsilon, -0.25),
			core.NewVec3(0.5, 0, 0),
			core.NewVec3(0, 0, 0.5),
			core.NewVec3(1, 1, 1))
		area.SetSamplerAttributes(2, 2)
		s.AddLight(area)
	}
	return s, nil
}

// NewLitPlaneScene creates a white plane at y = 0 lit by a point light at
// (0, 2, 0), viewed from straight above. With an occluder, an opaque slab
// shadows the plane around (1, 0, 0).
func NewLitPlaneScene(withOccluder bool, logger logging.Logger) (*Scene, error) {
	s := New("lit-plane", logger)
	s.CameraConfig = CameraConfig{
		Center: core.NewVec3(0, 5, 0),
		LookAt: core.NewVec3(0, 0, 0),
		Up:     core.NewVec3(0, 0, -1),
		VFov:   50,
	}

	plane, err := geometry.NewQuadMesh("plane",
		core.NewVec3(-2, 0, -2),
		core.NewVec3(0, 0, 4),
		core.NewVec3(4, 0, 0),
		material.NewLambertian(core.NewVec3(1, 1, 1)), nil)
	if err != nil {
		return nil, err
	}
	s.AddObject(plane)

	if withOccluder {
		// Halfway between (1, 0, 0) and the light
		slab, err := geometry.NewBoxMesh("occluder",
			core.NewVec3(0.5, 1, 0),
			core.NewVec3(0.2, 0.05, 0.2),
			core.Vec3{},
			material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))
		if err != nil {
			return nil, err
		}
		s.AddObject(slab)
	}

	s.AddLight(lights.NewPointLight(core.NewVec3(0, 2, 0), core.NewVec3(1, 1, 1)))
	return s, nil
}
