package integrator

import (
	"context"
	"math"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"

	"github.com/df07/go-photon-raytracer/pkg/core"
	"github.com/df07/go-photon-raytracer/pkg/lights"
	"github.com/df07/go-photon-raytracer/pkg/logging"
	"github.com/df07/go-photon-raytracer/pkg/material"
	"github.com/df07/go-photon-raytracer/pkg/scene"
)

func testPhotonOptions(photons int) PhotonOptions {
	options := DefaultPhotonOptions()
	options.DiffusePhotons = photons
	options.DiffuseRadius = 0.3
	options.SpecularRadius = 0.3
	options.Workers = 3
	options.Seed = 7
	return options
}

// boxedLight builds a floor and a ceiling with a point light between them.
// Photons bounce between the two surfaces.
func boxedLight(t *testing.T, surface core.Material, color core.Vec3) *scene.Scene {
	t.Helper()
	s := scene.New("boxed", logging.NewTestLogger(t))
	addQuad(t, s, "floor", core.NewVec3(-2, 0, -2), core.NewVec3(0, 0, 4), core.NewVec3(4, 0, 0), surface)
	addQuad(t, s, "ceiling", core.NewVec3(-2, 3, -2), core.NewVec3(4, 0, 0), core.NewVec3(0, 0, 4), surface)
	s.AddLight(lights.NewPointLight(core.NewVec3(0, 2, 0), color))
	test.That(t, s.Finalize(), test.ShouldBeNil)
	return s
}

func TestPhotonMapping_PanicsBeforeInitialize(t *testing.T) {
	s := litPlane(t, false)
	r := NewPhotonMappingRenderer(s, testPhotonOptions(100), logging.NewTestLogger(t))
	state, ray := cameraHit(t, s, -1, 0.3, 0, 0)
	test.That(t, func() {
		r.ComputeSampleColor(state, ray, core.NewSeededSampler(1))
	}, test.ShouldPanic)
}

func TestPhotonMapping_NoLightIntensity(t *testing.T) {
	s := boxedLight(t, material.NewLambertian(core.NewVec3(1, 1, 1)), core.Vec3{})
	r := NewPhotonMappingRenderer(s, testPhotonOptions(100), logging.NewTestLogger(t))
	err := r.Initialize(context.Background())
	test.That(t, errors.Is(err, ErrNoLightIntensity), test.ShouldBeTrue)
}

func TestPhotonMapping_InvalidOptions(t *testing.T) {
	s := litPlane(t, false)
	options := testPhotonOptions(100)
	options.Workers = 0
	r := NewPhotonMappingRenderer(s, options, logging.NewTestLogger(t))
	test.That(t, errors.Is(r.Initialize(context.Background()), ErrInvalidOptions), test.ShouldBeTrue)
}

func TestPhotonMapping_AbsorptiveSurfacesStoreNothing(t *testing.T) {
	black := material.NewBlinnPhong(core.Vec3{}, core.Vec3{}, 0)
	s := boxedLight(t, black, core.NewVec3(1, 1, 1))
	r := NewPhotonMappingRenderer(s, testPhotonOptions(5000), logging.NewTestLogger(t))
	test.That(t, r.Initialize(context.Background()), test.ShouldBeNil)

	test.That(t, r.DiffuseMap().Len(), test.ShouldEqual, 0)
	test.That(t, r.CausticMap().Len(), test.ShouldEqual, 0)
	test.That(t, r.Stats().Emitted, test.ShouldEqual, 5000)
}

func TestPhotonMapping_StoresBouncedLight(t *testing.T) {
	s := boxedLight(t, material.NewLambertian(core.NewVec3(0.8, 0.8, 0.8)), core.NewVec3(1, 1, 1))
	logger, logs := logging.NewObservedTestLogger(t)
	r := NewPhotonMappingRenderer(s, testPhotonOptions(20000), logger)
	test.That(t, r.Initialize(context.Background()), test.ShouldBeNil)
	test.That(t, logs.FilterMessage("photon maps built").Len(), test.ShouldEqual, 1)

	// Diffuse bounces never make caustics
	test.That(t, r.CausticMap().Len(), test.ShouldEqual, 0)
	test.That(t, r.DiffuseMap().Len(), test.ShouldBeGreaterThan, 0)
	test.That(t, r.DiffuseMap().Built(), test.ShouldBeTrue)

	// On a gray surface the roulette rescale cancels the albedo
	for _, p := range r.DiffuseMap().Photons() {
		test.That(t, p.Intensity.IsFinite(), test.ShouldBeTrue)
		test.That(t, p.Intensity.X, test.ShouldAlmostEqual, 1.0/20000, 1e-12)
		onSurface := math.Abs(p.Position.Y) < 1e-9 || math.Abs(p.Position.Y-3) < 1e-9
		test.That(t, onSurface, test.ShouldBeTrue)
	}

	// Indirect light reaches the floor and adds to the direct light
	sampler := core.NewSeededSampler(3)
	state, ray := cameraHit(t, s, -0.5, 0.3, 0, 0)
	indirect := r.ComputePhotonMapColor(state, ray)
	test.That(t, indirect.IsFinite(), test.ShouldBeTrue)
	test.That(t, indirect.X, test.ShouldBeGreaterThan, 0)

	direct := r.BackwardRenderer.ComputeSampleColor(state, ray, sampler)
	total := r.ComputeSampleColor(state, ray, sampler)
	test.That(t, total.X, test.ShouldAlmostEqual, direct.X+indirect.X, 1e-12)
}

func TestPhotonMapping_Deterministic(t *testing.T) {
	s := boxedLight(t, material.NewLambertian(core.NewVec3(0.7, 0.5, 0.3)), core.NewVec3(1, 1, 1))

	first := NewPhotonMappingRenderer(s, testPhotonOptions(3000), logging.NewTestLogger(t))
	test.That(t, first.Initialize(context.Background()), test.ShouldBeNil)
	second := NewPhotonMappingRenderer(s, testPhotonOptions(3000), logging.NewTestLogger(t))
	test.That(t, second.Initialize(context.Background()), test.ShouldBeNil)

	test.That(t, first.DiffuseMap().Len(), test.ShouldBeGreaterThan, 0)
	test.That(t, second.DiffuseMap().Photons(), test.ShouldResemble, first.DiffuseMap().Photons())
}

func TestPhotonMapping_Cancelled(t *testing.T) {
	s := boxedLight(t, material.NewLambertian(core.NewVec3(1, 1, 1)), core.NewVec3(1, 1, 1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewPhotonMappingRenderer(s, testPhotonOptions(1000), logging.NewTestLogger(t))
	err := r.Initialize(ctx)
	test.That(t, errors.Is(err, context.Canceled), test.ShouldBeTrue)
	test.That(t, func() {
		state, ray := cameraHit(t, s, -0.5, 0.3, 0, 0)
		r.ComputeSampleColor(state, ray, core.NewSeededSampler(1))
	}, test.ShouldPanic)
}

func cornell(t *testing.T) *scene.Scene {
	t.Helper()
	s, err := scene.NewCornellScene(false, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s.Finalize(), test.ShouldBeNil)
	return s
}

func TestPhotonMapping_Caustics(t *testing.T) {
	s := cornell(t)

	t.Run("generic pass routes pure specular paths", func(t *testing.T) {
		r := NewPhotonMappingRenderer(s, testPhotonOptions(20000), logging.NewTestLogger(t))
		test.That(t, r.Initialize(context.Background()), test.ShouldBeNil)
		test.That(t, r.CausticMap().Len(), test.ShouldBeGreaterThan, 0)
		test.That(t, r.CausticMap().Len(), test.ShouldBeLessThan, r.DiffuseMap().Len())
		test.That(t, r.Stats().SpecularObjects, test.ShouldEqual, 2)
	})

	t.Run("disabled policy", func(t *testing.T) {
		options := testPhotonOptions(20000)
		options.CausticPolicy = CausticDisabled
		r := NewPhotonMappingRenderer(s, options, logging.NewTestLogger(t))
		test.That(t, r.Initialize(context.Background()), test.ShouldBeNil)
		test.That(t, r.CausticMap().Len(), test.ShouldEqual, 0)
		test.That(t, r.DiffuseMap().Len(), test.ShouldBeGreaterThan, 0)
	})

	t.Run("dedicated specular pass", func(t *testing.T) {
		options := testPhotonOptions(20000)
		options.SpecularPhotons = 20000
		r := NewPhotonMappingRenderer(s, options, logging.NewTestLogger(t))
		test.That(t, r.Initialize(context.Background()), test.ShouldBeNil)

		stats := r.Stats()
		test.That(t, stats.Emitted, test.ShouldEqual, 40000)
		test.That(t, stats.Rejected, test.ShouldBeGreaterThan, 0)
		test.That(t, stats.Rejected, test.ShouldBeLessThan, 20000)
		test.That(t, stats.CausticPhotons, test.ShouldBeGreaterThan, 0)
		test.That(t, stats.DiffusePhotons, test.ShouldEqual, r.DiffuseMap().Len())
	})
}

func TestPhotonMapping_SpecularPathEndsAtFirstDeposit(t *testing.T) {
	mirrored := material.NewLambertian(core.NewVec3(1, 1, 1)).SetReflectivity(0.5)
	s := boxedLight(t, mirrored, core.NewVec3(1, 1, 1))
	tracer := &photonTracer{
		scene:    s,
		sampler:  core.NewSeededSampler(11),
		policy:   CausticPureSpecular,
		specular: map[core.SceneObject]bool{},
	}
	for _, object := range s.Objects() {
		tracer.specular[object] = true
	}

	light := s.Lights()[0]
	deposited := 0
	for i := 0; i < 5000; i++ {
		before := len(tracer.result.caustic)
		tracer.traceSpecularFromLight(light.GenerateRandomPhotonRay(tracer.sampler), core.NewVec3(1, 1, 1), 1000)
		added := len(tracer.result.caustic) - before
		test.That(t, added, test.ShouldBeLessThanOrEqualTo, 1)
		deposited += added
	}
	test.That(t, deposited, test.ShouldBeGreaterThan, 0)
	test.That(t, tracer.result.diffuse, test.ShouldBeEmpty)
}
