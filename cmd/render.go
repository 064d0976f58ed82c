package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli"

	"github.com/df07/go-bvh-raytracer/pkg/integrator"
	"github.com/df07/go-bvh-raytracer/pkg/renderer"
)

// RenderFrame renders a still frame of a scene and writes it to disk.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	config, err := renderConfig(ctx)
	if err != nil {
		logger.Error(err)
		return err
	}

	s, err := loadScene(context.Background(), ctx.Args().First(), ctx.StringSlice("mesh"))
	if err != nil {
		logger.Error(err)
		return err
	}

	camera := renderer.NewPinholeCamera(s.CameraConfig, config.AspectRatio())
	rt := renderer.NewRaytracer(s, camera, config)

	if err := applyTransforms(rt, ctx.StringSlice("transform")); err != nil {
		logger.Error(err)
		return err
	}

	var collector *integrator.RayCollector
	if config.Debug {
		collector = integrator.NewRayCollector()
		rt.SetSink(collector)
	}

	screen, stats, err := rt.RenderPass(nil)
	if err != nil {
		logger.Error(err)
		return err
	}
	if collector != nil {
		logger.Noticef("recorded %d debug ray segments", collector.Len())
	}

	out := ctx.String("out")
	if err := writeScreen(screen, out); err != nil {
		logger.Error(err)
		return err
	}

	displayRenderStats(ctx.App.Writer, config, stats)
	logger.Noticef("frame written to %s", out)
	return nil
}

// writeScreen encodes the screen by file extension
func writeScreen(screen *renderer.Screen, filename string) (err error) {
	var encode func(io.Writer) error
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".bmp":
		encode = screen.WriteBMP
	case ".png":
		encode = screen.WritePNG
	default:
		return fmt.Errorf("%s: %w", filename, ErrUnsupportedOutput)
	}

	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing output file: %w", cerr)
		}
	}()

	return encode(f)
}
