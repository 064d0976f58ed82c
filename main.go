package main

import (
	"os"

	"github.com/urfave/cli"

	"github.com/df07/go-bvh-raytracer/cmd"
	"github.com/df07/go-bvh-raytracer/pkg/renderer"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		os.Exit(1)
	}
}

// sceneFlags are shared by every command that loads a scene
var sceneFlags = []cli.Flag{
	cli.StringSliceFlag{
		Name:  "mesh, m",
		Value: &cli.StringSlice{},
		Usage: "add the meshes of a .ply, .gltf or .glb file to the scene",
	},
}

// traceFlags are shared by the commands that render
func traceFlags(defaults renderer.Config) []cli.Flag {
	return []cli.Flag{
		cli.IntFlag{
			Name:  "width",
			Value: defaults.Width,
			Usage: "frame width",
		},
		cli.IntFlag{
			Name:  "height",
			Value: defaults.Height,
			Usage: "frame height",
		},
		cli.IntFlag{
			Name:  "depth",
			Value: defaults.MaxDepth,
			Usage: "maximum ray depth",
		},
		cli.IntFlag{
			Name:  "samples",
			Value: defaults.Samples,
			Usage: "indirect hemisphere samples per hit",
		},
		cli.IntFlag{
			Name:  "shadow-samples",
			Value: defaults.ShadowSamples,
			Usage: "shadow rays per spherical light",
		},
		cli.Uint64Flag{
			Name:  "seed",
			Value: defaults.Seed,
			Usage: "base seed for the per-pixel random generators",
		},
		cli.IntFlag{
			Name:  "workers",
			Value: defaults.NumWorkers,
			Usage: "number of render workers (0 = one per CPU)",
		},
		cli.IntFlag{
			Name:  "tile-size",
			Value: defaults.TileSize,
			Usage: "edge length of a render tile in pixels",
		},
	}
}

func newApp() *cli.App {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	defaults := renderer.DefaultConfig()
	previewDefaults := defaults
	previewDefaults.MaxDepth = 2
	previewDefaults.Samples = 0
	previewDefaults.ShadowSamples = 4
	previewDefaults.TileSize = 16

	app := cli.NewApp()
	app.Name = "go-bvh-raytracer"
	app.Usage = "render scenes with a BVH accelerated ray tracer"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a still frame",
			Description: `
Render one frame of a built-in scene and write it as a bitmap or PNG.

Transforms remap the indirect light that mesh j receives from rays
that struck mesh i: --transform i,j,sr,sg,sb,or,og,ob sets the color
scale (sr,sg,sb) and offset (or,og,ob) of that pair.`,
			ArgsUsage: "scene",
			Flags: append(append(traceFlags(defaults), sceneFlags...),
				cli.BoolFlag{
					Name:  "debug",
					Usage: "record indirect sample rays instead of tracing them",
				},
				cli.StringSliceFlag{
					Name:  "transform, t",
					Value: &cli.StringSlice{},
					Usage: "indirect light transform i,j,sr,sg,sb,or,og,ob (repeatable)",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "frame.png",
					Usage: "image filename for the rendered frame (.png or .bmp)",
				},
			),
			Action: cmd.RenderFrame,
		},
		{
			Name:   "scenes",
			Usage:  "list the built-in scenes",
			Action: cmd.ListScenes,
		},
		{
			Name:      "bvh",
			Usage:     "build the BVH of a scene and print its statistics",
			ArgsUsage: "scene",
			Flags: append(append([]cli.Flag(nil), sceneFlags...),
				cli.IntFlag{
					Name:  "level, l",
					Usage: "print the node boxes at this level (root is 0)",
				},
				cli.IntFlag{
					Name:  "verify",
					Usage: "compare BVH and linear search on this many random rays",
				},
				cli.Uint64Flag{
					Name:  "seed",
					Value: defaults.Seed,
					Usage: "seed for the verification rays",
				},
			),
			Action: cmd.InspectBVH,
		},
		{
			Name:  "transform",
			Usage: "Haar-compress a sample transform row and print the reconstruction error",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "size",
					Value: 16,
					Usage: "row length, a power of two",
				},
				cli.IntFlag{
					Name:  "level",
					Value: 2,
					Usage: "number of Haar iterations",
				},
				cli.Float64Flag{
					Name:  "epsilon",
					Value: 0.02,
					Usage: "coefficients with a smaller magnitude are dropped",
				},
				cli.Float64Flag{
					Name:  "noise",
					Value: 0.01,
					Usage: "amplitude of the noise added to the sample row",
				},
				cli.Uint64Flag{
					Name:  "seed",
					Value: defaults.Seed,
					Usage: "seed for the sample row noise",
				},
			},
			Action: cmd.CompressTransforms,
		},
		{
			Name:      "preview",
			Usage:     "render a scene in the terminal with an orbit camera",
			ArgsUsage: "scene",
			Flags: append(append(traceFlags(previewDefaults), sceneFlags...),
				cli.IntFlag{
					Name:  "fps",
					Value: 30,
					Usage: "camera animation frame rate",
				},
			),
			Action: cmd.PreviewScene,
		},
		{
			Name:  "serve",
			Usage: "serve scene listings, streaming renders and pixel inspection over HTTP",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "port, p",
					Value: 8080,
					Usage: "port to serve on",
				},
				cli.StringFlag{
					Name:  "static",
					Usage: "directory of static files to serve at /",
				},
			},
			Action: cmd.ServeScenes,
		},
	}

	return app
}
