// Package renderer runs the per-pixel sampling loop: it shoots camera rays
// through a scene and shades them with an integrator.
package renderer

import (
	"context"
	"image"
	"image/color"
	"math/rand"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/df07/go-photon-raytracer/pkg/core"
	"github.com/df07/go-photon-raytracer/pkg/integrator"
	"github.com/df07/go-photon-raytracer/pkg/logging"
	"github.com/df07/go-photon-raytracer/pkg/scene"
)

// ErrInvalidOptions is returned when render options are out of range
var ErrInvalidOptions = errors.New("invalid render options")

// Options contains rendering configuration
type Options struct {
	Width                int   // Image width
	Height               int   // Image height
	SamplesPerPixel      int   // Number of jittered rays per pixel
	MaxReflectionBounces int   // Mirror bounces per camera ray
	MaxRefractionBounces int   // Refraction bounces per camera ray
	Workers              int   // Rows rendered in parallel
	Seed                 int64 // Row y samples from Seed and y
}

// DefaultOptions returns sensible default values
func DefaultOptions() Options {
	return Options{
		Width:                640,
		Height:               480,
		SamplesPerPixel:      1,
		MaxReflectionBounces: 2,
		MaxRefractionBounces: 4,
		Workers:              runtime.NumCPU(),
		Seed:                 42,
	}
}

// OptionsFromSampling returns the default options with the image size,
// sample count and bounce budgets a scene preset was tuned for
func OptionsFromSampling(config scene.SamplingConfig) Options {
	options := DefaultOptions()
	options.Width = config.Width
	options.Height = config.Height
	options.SamplesPerPixel = config.SamplesPerPixel
	options.MaxReflectionBounces = config.MaxReflectionBounces
	options.MaxRefractionBounces = config.MaxRefractionBounces
	return options
}

// Validate checks that the options are usable, reporting every problem found
func (o Options) Validate() error {
	var err error
	if o.Width < 1 || o.Height < 1 {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidOptions, "image size must be positive, got %dx%d", o.Width, o.Height))
	}
	if o.SamplesPerPixel < 1 {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidOptions, "samples per pixel must be at least 1, got %d", o.SamplesPerPixel))
	}
	if o.MaxReflectionBounces < 0 || o.MaxRefractionBounces < 0 {
		err = multierr.Append(err, errors.Wrap(ErrInvalidOptions, "bounce budgets must not be negative"))
	}
	if o.Workers < 1 {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidOptions, "workers must be at least 1, got %d", o.Workers))
	}
	return err
}

// Raytracer handles the rendering process
type Raytracer struct {
	scene    *scene.Scene
	renderer integrator.Renderer
	camera   *Camera
	options  Options
	logger   logging.Logger
}

// NewRaytracer creates a raytracer that views s through its camera config
func NewRaytracer(s *scene.Scene, renderer integrator.Renderer, options Options, logger logging.Logger) (*Raytracer, error) {
	if err := options.Validate(); err != nil {
		return nil, err
	}
	return &Raytracer{
		scene:    s,
		renderer: renderer,
		camera:   NewCamera(s.CameraConfig, float64(options.Width)/float64(options.Height)),
		options:  options,
		logger:   logger,
	}, nil
}

// Render initializes the renderer and renders every row. The row loop does
// not depend on how many workers ran, but an Initialize that splits work
// across its own workers, like photon emission, may.
func (rt *Raytracer) Render(ctx context.Context) (*image.RGBA, RenderStats, error) {
	start := time.Now()
	if !rt.scene.Finalized() {
		if err := rt.scene.Finalize(); err != nil {
			return nil, RenderStats{}, err
		}
	}
	if err := rt.renderer.Initialize(ctx); err != nil {
		return nil, RenderStats{}, errors.Wrap(err, "initialize renderer")
	}

	width, height := rt.options.Width, rt.options.Height
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	luminances := make([]float64, width*height)
	rowSeconds := make([]float64, height)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(rt.options.Workers)
	for y := 0; y < height; y++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rowStart := time.Now()
			rt.renderRow(y, img, luminances[y*width:(y+1)*width])
			rowSeconds[y] = time.Since(rowStart).Seconds()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, RenderStats{}, errors.Wrap(err, "render")
	}

	renderStats := RenderStats{
		Width:        width,
		Height:       height,
		TotalSamples: width * height * rt.options.SamplesPerPixel,
		Duration:     time.Since(start),
	}
	if err := renderStats.summarize(luminances, rowSeconds); err != nil {
		return nil, RenderStats{}, errors.Wrap(err, "summarize render")
	}

	rt.logger.Infow("render complete",
		"scene", rt.scene.Name,
		"size", [2]int{width, height},
		"samples", renderStats.TotalSamples,
		"meanLuminance", renderStats.MeanLuminance,
		"duration", renderStats.Duration)
	return img, renderStats, nil
}

// renderRow shades row y into img, writing each pixel's linear luminance.
// Rows touch disjoint pixels, so they can run concurrently.
func (rt *Raytracer) renderRow(y int, img *image.RGBA, luminances []float64) {
	width, height := rt.options.Width, rt.options.Height
	spp := rt.options.SamplesPerPixel
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(rt.options.Seed*1000003 + int64(y))))

	for x := 0; x < width; x++ {
		var sum core.Vec3
		for i := 0; i < spp; i++ {
			jitter := sampler.Get2D()
			// Image rows run top to bottom, camera t runs bottom to top
			s := (float64(x) + jitter.X) / float64(width)
			t := 1 - (float64(y)+jitter.Y)/float64(height)
			sum = sum.Add(rt.TraceSample(rt.camera.GetRay(s, t), sampler))
		}
		pixel := sum.Multiply(1.0 / float64(spp))
		luminances[x] = pixel.Luminance()
		img.SetRGBA(x, y, toRGBA(pixel))
	}
}

// TraceSample traces one camera ray and returns its linear color
func (rt *Raytracer) TraceSample(ray core.Ray, sampler core.Sampler) core.Vec3 {
	state := core.NewIntersectionState(rt.options.MaxReflectionBounces, rt.options.MaxRefractionBounces)
	if rt.scene.Trace(ray, state, false) == core.NoHit {
		return core.Vec3{}
	}
	return rt.renderer.ComputeSampleColor(state, ray, sampler)
}

// toRGBA gamma corrects a linear color and quantizes it to 8 bits
func toRGBA(c core.Vec3) color.RGBA {
	if !c.IsFinite() {
		c = core.Vec3{}
	}
	corrected := c.Clamp(0, 1).GammaCorrect(2.0)
	return color.RGBA{
		R: uint8(corrected.X*255 + 0.5),
		G: uint8(corrected.Y*255 + 0.5),
		B: uint8(corrected.Z*255 + 0.5),
		A: 255,
	}
}
