// Package cmd contains the command line actions of the raytracer.
package cmd

import (
	"io"
	"runtime"

	"github.com/urfave/cli/v2"

	"github.com/df07/go-photon-raytracer/pkg/accel"
	"github.com/df07/go-photon-raytracer/pkg/integrator"
)

const (
	// Global flags.
	flagVerbose = "v"
	flagDebug   = "debug"

	// Scene flags.
	flagScene       = "scene"
	flagAccel       = "accel"
	flagMaxLeafSize = "max-leaf-size"
	flagMaxDepth    = "max-depth"

	// Sampling flags.
	flagWidth          = "width"
	flagHeight         = "height"
	flagSPP            = "spp"
	flagMaxReflections = "max-reflections"
	flagMaxRefractions = "max-refractions"
	flagWorkers        = "workers"
	flagSeed           = "seed"
	flagOut            = "out"

	// Photon mapping flags.
	flagRenderer          = "renderer"
	flagPhotons           = "photons"
	flagSpecularPhotons   = "specular-photons"
	flagMaxPhotonBounces  = "max-photon-bounces"
	flagRadius            = "radius"
	flagCausticRadius     = "caustic-radius"
	flagGatherMultiplier  = "gather-multiplier"
	flagCausticMultiplier = "caustic-multiplier"
	flagCaustics          = "caustics"

	rendererBackward = "backward"
	rendererPhoton   = "photon"
)

func sceneFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    flagScene,
			Aliases: []string{"s"},
			Value:   "cornell",
			Usage:   "builtin scene to use, see the list command",
		},
		&cli.StringFlag{
			Name:  flagAccel,
			Value: string(accel.KindSplitTree),
			Usage: "acceleration structure: none, bvh, kdtree or octree",
		},
		&cli.IntFlag{
			Name:  flagMaxLeafSize,
			Usage: "primitives per acceleration leaf, 0 uses the default",
		},
		&cli.IntFlag{
			Name:  flagMaxDepth,
			Usage: "octree depth limit, 0 uses the default",
		},
	}
}

func photonFlags() []cli.Flag {
	defaults := integrator.DefaultPhotonOptions()
	return []cli.Flag{
		&cli.IntFlag{
			Name:  flagPhotons,
			Value: defaults.DiffusePhotons,
			Usage: "photons emitted by the generic pass",
		},
		&cli.IntFlag{
			Name:  flagSpecularPhotons,
			Value: defaults.SpecularPhotons,
			Usage: "photons aimed at specular objects, 0 disables the pass",
		},
		&cli.IntFlag{
			Name:  flagMaxPhotonBounces,
			Value: defaults.MaxPhotonBounces,
			Usage: "bounce limit per photon path",
		},
		&cli.Float64Flag{
			Name:  flagRadius,
			Value: defaults.DiffuseRadius,
			Usage: "gather radius in the diffuse photon map",
		},
		&cli.Float64Flag{
			Name:  flagCausticRadius,
			Value: defaults.SpecularRadius,
			Usage: "gather radius in the caustic photon map",
		},
		&cli.Float64Flag{
			Name:  flagGatherMultiplier,
			Value: defaults.DiffuseGatherMultiplier,
			Usage: "scale on the diffuse photon estimate",
		},
		&cli.Float64Flag{
			Name:  flagCausticMultiplier,
			Value: defaults.SpecularGatherMultiplier,
			Usage: "scale on the caustic photon estimate",
		},
		&cli.StringFlag{
			Name:  flagCaustics,
			Value: defaults.CausticPolicy.String(),
			Usage: "caustic photons: pure-specular, any-specular or disabled",
		},
	}
}

func workerFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    flagWorkers,
			Aliases: []string{"j"},
			Value:   runtime.NumCPU(),
			Usage:   "parallel workers",
		},
		&cli.Int64Flag{
			Name:  flagSeed,
			Value: 42,
			Usage: "random seed, equal seeds and workers give equal images",
		},
	}
}

func renderFlags() []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:  flagRenderer,
			Value: rendererPhoton,
			Usage: "shading: backward for direct light only, photon to add photon mapped light",
		},
		&cli.IntFlag{
			Name:  flagWidth,
			Usage: "image width, defaults to the scene's",
		},
		&cli.IntFlag{
			Name:  flagHeight,
			Usage: "image height, defaults to the scene's",
		},
		&cli.IntFlag{
			Name:  flagSPP,
			Usage: "samples per pixel, defaults to the scene's",
		},
		&cli.IntFlag{
			Name:  flagMaxReflections,
			Usage: "mirror bounces per camera ray, defaults to the scene's",
		},
		&cli.IntFlag{
			Name:  flagMaxRefractions,
			Usage: "refraction bounces per camera ray, defaults to the scene's",
		},
		&cli.StringFlag{
			Name:    flagOut,
			Aliases: []string{"o"},
			Value:   "render.png",
			Usage:   "write the image to `FILE`",
		},
	}
	flags = append(flags, sceneFlags()...)
	flags = append(flags, photonFlags()...)
	return append(flags, workerFlags()...)
}

func inspectFlags() []cli.Flag {
	flags := sceneFlags()
	flags = append(flags, photonFlags()...)
	return append(flags, workerFlags()...)
}

// NewApp returns the raytracer CLI with Writer set to out and ErrWriter set to errOut
func NewApp(out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:            "photon-raytracer",
		Usage:           "render scenes with recursive ray tracing and photon mapping",
		HideHelpCommand: true,
		Writer:          out,
		ErrWriter:       errOut,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  flagVerbose,
				Usage: "enable verbose logging",
			},
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vv"},
				Usage:   "enable debug logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "render",
				Usage: "render a builtin scene to a PNG image",
				Description: `Build a scene, index it with the chosen acceleration structure and
render it. The photon renderer first emits photons from every light in
proportion to its power and gathers them at every diffuse hit.`,
				Flags:  renderFlags(),
				Action: Render,
			},
			{
				Name:  "inspect",
				Usage: "compare acceleration structures and photon maps for a scene",
				Description: `Build the scene with every acceleration structure and print the shape
of each. With photons enabled, also build the photon maps and print what
was stored.`,
				Flags:  inspectFlags(),
				Action: Inspect,
			},
			{
				Name:   "list",
				Usage:  "list the builtin scenes",
				Action: ListScenes,
			},
		},
	}
}
