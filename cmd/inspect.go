package cmd

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/df07/go-photon-raytracer/pkg/accel"
	"github.com/df07/go-photon-raytracer/pkg/integrator"
	"github.com/df07/go-photon-raytracer/pkg/scene"
)

// Inspect builds a scene with every acceleration structure and prints their
// shapes, followed by the photon maps when any photons are requested.
func Inspect(ctx *cli.Context) error {
	logger := setupLogging(ctx)

	preset, err := scene.LookupPreset(ctx.String(flagScene))
	if err != nil {
		return err
	}

	results := make([]accelResult, 0, len(accel.Kinds()))
	for _, kind := range accel.Kinds() {
		s, err := buildPreset(ctx, preset, kind, logger)
		if err != nil {
			return err
		}
		start := time.Now()
		if err := s.Finalize(); err != nil {
			return err
		}
		results = append(results, accelResult{stats: s.Stats(), buildTime: time.Since(start)})
	}
	fmt.Fprintf(ctx.App.Writer, "%s: %s\n", preset.Name, preset.Description)
	displayAccelStats(ctx.App.Writer, results)

	if ctx.Int(flagPhotons) == 0 && ctx.Int(flagSpecularPhotons) == 0 {
		return nil
	}
	s, _, err := buildScene(ctx, logger)
	if err != nil {
		return err
	}
	if err := s.Finalize(); err != nil {
		return err
	}
	options, err := photonOptions(ctx)
	if err != nil {
		return err
	}
	r := integrator.NewPhotonMappingRenderer(s, options, logger)
	if err := r.Initialize(ctx.Context); err != nil {
		return err
	}
	displayPhotonStats(ctx.App.Writer, r, options)
	return nil
}

// ListScenes prints the builtin scenes.
func ListScenes(ctx *cli.Context) error {
	table := newTable(ctx.App.Writer, []string{"Scene", "Size", "Samples", "Description"})
	for _, preset := range scene.Presets() {
		table.Append([]string{
			preset.Name,
			fmt.Sprintf("%dx%d", preset.Sampling.Width, preset.Sampling.Height),
			fmt.Sprintf("%d", preset.Sampling.SamplesPerPixel),
			preset.Description,
		})
	}
	table.Render()
	return nil
}
