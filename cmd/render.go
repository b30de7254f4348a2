package cmd

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"github.com/df07/go-photon-raytracer/pkg/accel"
	"github.com/df07/go-photon-raytracer/pkg/integrator"
	"github.com/df07/go-photon-raytracer/pkg/logging"
	"github.com/df07/go-photon-raytracer/pkg/renderer"
	"github.com/df07/go-photon-raytracer/pkg/scene"
)

// ErrUnknownRenderer is returned for a --renderer value that does not exist
var ErrUnknownRenderer = errors.New("unknown renderer")

// Render renders a builtin scene and writes it as a PNG.
func Render(ctx *cli.Context) error {
	logger := setupLogging(ctx)

	s, preset, err := buildScene(ctx, logger)
	if err != nil {
		return err
	}
	options := renderOptions(ctx, preset.Sampling)

	start := time.Now()
	if err := s.Finalize(); err != nil {
		return err
	}
	built := accelResult{stats: s.Stats(), buildTime: time.Since(start)}

	var photons *integrator.PhotonMappingRenderer
	var popts integrator.PhotonOptions
	var r integrator.Renderer
	switch name := ctx.String(flagRenderer); name {
	case rendererBackward:
		r = integrator.NewBackwardRenderer(s)
	case rendererPhoton:
		popts, err = photonOptions(ctx)
		if err != nil {
			return err
		}
		photons = integrator.NewPhotonMappingRenderer(s, popts, logger)
		r = photons
	default:
		return errors.Wrapf(ErrUnknownRenderer, "%q", name)
	}

	rt, err := renderer.NewRaytracer(s, r, options, logger)
	if err != nil {
		return err
	}
	img, stats, err := rt.Render(ctx.Context)
	if err != nil {
		return err
	}

	out := ctx.String(flagOut)
	if err := writePNG(out, img); err != nil {
		return err
	}
	logger.Infow("image saved", "path", out)

	displayAccelStats(ctx.App.Writer, []accelResult{built})
	if photons != nil {
		displayPhotonStats(ctx.App.Writer, photons, popts)
	}
	displayRenderStats(ctx.App.Writer, stats)
	return nil
}

// buildScene builds the preset named by the scene flag and sets up its
// acceleration structure from the accel flags
func buildScene(ctx *cli.Context, logger logging.Logger) (*scene.Scene, scene.Preset, error) {
	preset, err := scene.LookupPreset(ctx.String(flagScene))
	if err != nil {
		return nil, scene.Preset{}, err
	}
	kind, err := accel.ParseKind(ctx.String(flagAccel))
	if err != nil {
		return nil, scene.Preset{}, err
	}
	s, err := buildPreset(ctx, preset, kind, logger)
	if err != nil {
		return nil, scene.Preset{}, err
	}
	return s, preset, nil
}

func buildPreset(ctx *cli.Context, preset scene.Preset, kind accel.Kind, logger logging.Logger) (*scene.Scene, error) {
	s, err := preset.Build(logger)
	if err != nil {
		return nil, errors.Wrapf(err, "build scene %q", preset.Name)
	}
	opts := accel.Options{
		MaxLeafSize: ctx.Int(flagMaxLeafSize),
		MaxDepth:    ctx.Int(flagMaxDepth),
	}
	if err := s.SetAcceleration(kind, opts); err != nil {
		return nil, err
	}
	return s, nil
}

// renderOptions starts from the preset's sampling and applies any flags the user set
func renderOptions(ctx *cli.Context, sampling scene.SamplingConfig) renderer.Options {
	options := renderer.OptionsFromSampling(sampling)
	if ctx.IsSet(flagWidth) {
		options.Width = ctx.Int(flagWidth)
	}
	if ctx.IsSet(flagHeight) {
		options.Height = ctx.Int(flagHeight)
	}
	if ctx.IsSet(flagSPP) {
		options.SamplesPerPixel = ctx.Int(flagSPP)
	}
	if ctx.IsSet(flagMaxReflections) {
		options.MaxReflectionBounces = ctx.Int(flagMaxReflections)
	}
	if ctx.IsSet(flagMaxRefractions) {
		options.MaxRefractionBounces = ctx.Int(flagMaxRefractions)
	}
	options.Workers = ctx.Int(flagWorkers)
	options.Seed = ctx.Int64(flagSeed)
	return options
}

func photonOptions(ctx *cli.Context) (integrator.PhotonOptions, error) {
	policy, err := integrator.ParseCausticPolicy(ctx.String(flagCaustics))
	if err != nil {
		return integrator.PhotonOptions{}, err
	}
	options := integrator.PhotonOptions{
		DiffusePhotons:           ctx.Int(flagPhotons),
		SpecularPhotons:          ctx.Int(flagSpecularPhotons),
		MaxPhotonBounces:         ctx.Int(flagMaxPhotonBounces),
		DiffuseRadius:            ctx.Float64(flagRadius),
		SpecularRadius:           ctx.Float64(flagCausticRadius),
		DiffuseGatherMultiplier:  ctx.Float64(flagGatherMultiplier),
		SpecularGatherMultiplier: ctx.Float64(flagCausticMultiplier),
		CausticPolicy:            policy,
		Workers:                  ctx.Int(flagWorkers),
		Seed:                     ctx.Int64(flagSeed),
	}
	return options, options.Validate()
}

func writePNG(path string, img image.Image) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "create output directory")
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create output file")
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	return errors.Wrap(png.Encode(f, img), "encode png")
}
