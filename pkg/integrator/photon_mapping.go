package integrator

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/df07/go-photon-raytracer/pkg/core"
	"github.com/df07/go-photon-raytracer/pkg/logging"
	"github.com/df07/go-photon-raytracer/pkg/photon"
	"github.com/df07/go-photon-raytracer/pkg/scene"
)

// PhotonStats describes the photon maps built by Initialize
type PhotonStats struct {
	DiffusePhotons  int           // Photons stored in the diffuse map
	CausticPhotons  int           // Photons stored in the caustic map
	Emitted         int           // Photons fired by both passes
	Rejected        int           // Specular pass photons that missed every specular object
	SpecularObjects int           // Objects the specular pass aims at
	Duration        time.Duration // Emission and map building time
}

// PhotonMappingRenderer adds indirect light gathered from photon maps on
// top of the direct lighting of BackwardRenderer
type PhotonMappingRenderer struct {
	*BackwardRenderer

	options     PhotonOptions
	diffuseMap  *photon.Map
	causticMap  *photon.Map
	specular    map[core.SceneObject]bool
	stats       PhotonStats
	initialized bool
	logger      logging.Logger
}

// NewPhotonMappingRenderer creates a photon mapping renderer. The options
// are checked by Initialize.
func NewPhotonMappingRenderer(s *scene.Scene, options PhotonOptions, logger logging.Logger) *PhotonMappingRenderer {
	r := &PhotonMappingRenderer{
		BackwardRenderer: NewBackwardRenderer(s),
		options:          options,
		diffuseMap:       photon.NewMap("diffuse"),
		causticMap:       photon.NewMap("caustic"),
		logger:           logger,
	}
	r.children = r
	return r
}

// emission is the share of a pass assigned to one light
type emission struct {
	light core.Light
	count int       // Photons fired from the light
	power core.Vec3 // Power carried by each photon
}

// planEmission divides total photons between lights in proportion to the
// magnitude of their color. Each photon carries the light's color divided by
// the light's photon count.
func planEmission(lights []core.Light, total int) ([]emission, error) {
	sum := 0.0
	for _, light := range lights {
		sum += light.LightColor().Length()
	}
	if sum <= 0 {
		return nil, ErrNoLightIntensity
	}

	plan := make([]emission, 0, len(lights))
	for _, light := range lights {
		color := light.LightColor()
		count := int(math.Round(color.Length() / sum * float64(total)))
		if count == 0 {
			continue
		}
		plan = append(plan, emission{
			light: light,
			count: count,
			power: color.Multiply(1.0 / float64(count)),
		})
	}
	return plan, nil
}

// share returns how many of count photons worker w of workers fires
func share(count, w, workers int) int {
	n := count / workers
	if w < count%workers {
		n++
	}
	return n
}

// workerResult holds the photons one emission worker stored
type workerResult struct {
	diffuse  []photon.Photon
	caustic  []photon.Photon
	emitted  int
	rejected int
}

// Initialize fires every photon, fills both maps and builds them. The maps
// are read-only afterwards.
func (r *PhotonMappingRenderer) Initialize(ctx context.Context) error {
	if r.initialized {
		return nil
	}
	if err := r.options.Validate(); err != nil {
		return err
	}
	start := time.Now()

	generic, err := planEmission(r.scene.Lights(), r.options.DiffusePhotons)
	if err != nil {
		return errors.Wrap(err, "plan photon emission")
	}

	r.specular = make(map[core.SceneObject]bool)
	for _, object := range r.scene.Objects() {
		if mat := object.Material(); mat.IsReflective() || mat.IsTransmissive() {
			r.specular[object] = true
		}
	}
	var specular []emission
	if r.options.SpecularPhotons > 0 {
		if len(r.specular) == 0 {
			r.logger.Warnw("skipping specular photon pass, no reflective or transmissive objects")
		} else if specular, err = planEmission(r.scene.Lights(), r.options.SpecularPhotons); err != nil {
			return errors.Wrap(err, "plan specular photon emission")
		}
	}
	for i, e := range generic {
		r.logger.Debugw("emitting photons", "light", i, "photons", e.count, "power", e.power)
	}

	// A dedicated specular pass is the only writer of the caustic map
	routeCaustics := len(specular) == 0

	workers := r.options.Workers
	results := make([]workerResult, workers)
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			tracer := &photonTracer{
				scene:         r.scene,
				sampler:       core.NewRandomSampler(rand.New(rand.NewSource(r.options.Seed + int64(w)))),
				policy:        r.options.CausticPolicy,
				routeCaustics: routeCaustics,
				specular:      r.specular,
			}
			for _, e := range generic {
				for i := share(e.count, w, workers); i > 0; i-- {
					if err := ctx.Err(); err != nil {
						return err
					}
					ray := e.light.GenerateRandomPhotonRay(tracer.sampler)
					tracer.trace(ray, e.power, 1, 0, 0, 1.0, r.options.MaxPhotonBounces)
					tracer.result.emitted++
				}
			}
			for _, e := range specular {
				for i := share(e.count, w, workers); i > 0; i-- {
					if err := ctx.Err(); err != nil {
						return err
					}
					ray := e.light.GenerateRandomPhotonRay(tracer.sampler)
					tracer.traceSpecularFromLight(ray, e.power, r.options.MaxPhotonBounces)
					tracer.result.emitted++
				}
			}
			results[w] = tracer.result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return errors.Wrap(err, "emit photons")
	}

	for _, result := range results {
		if err := r.diffuseMap.InsertAll(result.diffuse); err != nil {
			return err
		}
		if err := r.causticMap.InsertAll(result.caustic); err != nil {
			return err
		}
		r.stats.Emitted += result.emitted
		r.stats.Rejected += result.rejected
	}
	r.diffuseMap.Optimize()
	r.causticMap.Optimize()

	r.stats.DiffusePhotons = r.diffuseMap.Len()
	r.stats.CausticPhotons = r.causticMap.Len()
	r.stats.SpecularObjects = len(r.specular)
	r.stats.Duration = time.Since(start)
	r.initialized = true

	r.logger.Infow("photon maps built",
		"diffuse", r.stats.DiffusePhotons,
		"caustic", r.stats.CausticPhotons,
		"emitted", r.stats.Emitted,
		"rejected", r.stats.Rejected,
		"duration", r.stats.Duration)
	return nil
}

// ComputeSampleColor adds the photon map estimate to the direct lighting.
// It panics if Initialize has not completed.
func (r *PhotonMappingRenderer) ComputeSampleColor(state *core.IntersectionState, fromCamera core.Ray, sampler core.Sampler) core.Vec3 {
	if !r.initialized {
		panic(ErrNotInitialized)
	}
	if !state.HasIntersection {
		return core.Vec3{}
	}
	color := r.BackwardRenderer.ComputeSampleColor(state, fromCamera, sampler)
	return color.Add(r.ComputePhotonMapColor(state, fromCamera))
}

// ComputePhotonMapColor estimates the indirect light at the hit from the
// photons around it in both maps
func (r *PhotonMappingRenderer) ComputePhotonMapColor(state *core.IntersectionState, fromCamera core.Ray) core.Vec3 {
	diffuse := gather(r.diffuseMap, r.options.DiffuseRadius, state, fromCamera)
	caustic := gather(r.causticMap, r.options.SpecularRadius, state, fromCamera)
	return diffuse.Multiply(r.options.DiffuseGatherMultiplier).Add(caustic.Multiply(r.options.SpecularGatherMultiplier))
}

// gather sums the diffuse BRDF response to every photon within radius of
// the hit and divides by the disc area
func gather(m *photon.Map, radius float64, state *core.IntersectionState, fromCamera core.Ray) core.Vec3 {
	found, err := m.Within(state.Point(), radius)
	if err != nil || len(found) == 0 {
		return core.Vec3{}
	}

	mat := state.Material()
	var sum core.Vec3
	for _, p := range found {
		sum = sum.Add(mat.ComputeBRDF(state, p.Intensity, p.ToLight, fromCamera, 1.0, true, false))
	}
	return sum.Multiply(1.0 / (math.Pi * radius * radius))
}

// DiffuseMap returns the map of indirect photons
func (r *PhotonMappingRenderer) DiffuseMap() *photon.Map {
	return r.diffuseMap
}

// CausticMap returns the map of photons that reached a diffuse surface by specular bounces
func (r *PhotonMappingRenderer) CausticMap() *photon.Map {
	return r.causticMap
}

// Stats returns the photon statistics of the last Initialize
func (r *PhotonMappingRenderer) Stats() PhotonStats {
	return r.stats
}
