package cmd

import (
	"github.com/urfave/cli"

	"github.com/df07/go-bvh-raytracer/pkg/scene"
)

// ListScenes prints the built-in scenes.
func ListScenes(ctx *cli.Context) error {
	setupLogging(ctx)
	displaySceneList(ctx.App.Writer, scene.List())
	return nil
}
