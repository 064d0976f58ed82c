package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli"

	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/loaders"
	"github.com/df07/go-bvh-raytracer/pkg/material"
	"github.com/df07/go-bvh-raytracer/pkg/renderer"
	"github.com/df07/go-bvh-raytracer/pkg/scene"
	"github.com/df07/go-bvh-raytracer/pkg/transform"
)

// Material given to meshes loaded from files
var meshMaterial = material.NewDiffuse(core.NewVec3(0.73, 0.73, 0.73))

// loadScene creates a built-in scene, adds the meshes of every file and
// builds the BVH
func loadScene(ctx context.Context, name string, meshPaths []string) (*scene.Scene, error) {
	if name == "" {
		return nil, ErrMissingScene
	}

	s, err := scene.New(name)
	if err != nil {
		return nil, err
	}

	if len(meshPaths) > 0 {
		meshes, err := loaders.LoadMeshes(ctx, meshPaths, meshMaterial)
		if err != nil {
			return nil, fmt.Errorf("loading meshes: %w", err)
		}
		for _, mesh := range meshes {
			s.AddMesh(mesh)
		}
	}

	if err := s.Preprocess(); err != nil {
		return nil, fmt.Errorf("preprocessing scene %q: %w", name, err)
	}
	logger.Infof("scene %q: %d meshes, %d triangles, %d spheres", s.Name, len(s.Meshes), s.TriangleCount(), len(s.Spheres))
	return s, nil
}

// renderConfig maps the render flags onto a renderer config. Values the
// renderer cannot work with are rejected with ErrInvalidRenderFlag.
func renderConfig(ctx *cli.Context) (renderer.Config, error) {
	config := renderer.DefaultConfig()
	config.Width = ctx.Int("width")
	config.Height = ctx.Int("height")
	config.MaxDepth = ctx.Int("depth")
	config.Samples = ctx.Int("samples")
	config.ShadowSamples = ctx.Int("shadow-samples")
	config.Seed = ctx.Uint64("seed")
	config.TileSize = ctx.Int("tile-size")
	config.NumWorkers = ctx.Int("workers")
	config.Debug = ctx.Bool("debug")

	checks := []struct {
		flag  string
		value int
		min   int
	}{
		{"width", config.Width, 1},
		{"height", config.Height, 1},
		{"depth", config.MaxDepth, 1},
		{"samples", config.Samples, 0},
		{"shadow-samples", config.ShadowSamples, 1},
		{"tile-size", config.TileSize, 1},
		{"workers", config.NumWorkers, 0},
	}
	for _, check := range checks {
		if check.value < check.min {
			return renderer.Config{}, fmt.Errorf("--%s %d is below %d: %w", check.flag, check.value, check.min, ErrInvalidRenderFlag)
		}
	}
	return config, nil
}

// transformEdit is one parsed --transform value
type transformEdit struct {
	I, J  int
	Entry transform.Entry
}

// parseTransform parses "i,j,sr,sg,sb,or,og,ob"
func parseTransform(value string) (transformEdit, error) {
	fields := strings.Split(value, ",")
	if len(fields) != 8 {
		return transformEdit{}, fmt.Errorf("%q has %d fields, expected 8: %w", value, len(fields), ErrInvalidTransform)
	}

	var edit transformEdit
	var err error
	if edit.I, err = strconv.Atoi(strings.TrimSpace(fields[0])); err != nil {
		return transformEdit{}, fmt.Errorf("%q: row: %w", value, ErrInvalidTransform)
	}
	if edit.J, err = strconv.Atoi(strings.TrimSpace(fields[1])); err != nil {
		return transformEdit{}, fmt.Errorf("%q: column: %w", value, ErrInvalidTransform)
	}

	var numbers [6]float64
	for k := range numbers {
		if numbers[k], err = strconv.ParseFloat(strings.TrimSpace(fields[k+2]), 64); err != nil {
			return transformEdit{}, fmt.Errorf("%q: field %d: %w", value, k+3, ErrInvalidTransform)
		}
	}
	edit.Entry = transform.Entry{
		Scale:  core.NewVec3(numbers[0], numbers[1], numbers[2]),
		Offset: core.NewVec3(numbers[3], numbers[4], numbers[5]),
	}
	return edit, nil
}

// applyTransforms parses every value and sets it on the raytracer's table
// between passes
func applyTransforms(rt *renderer.Raytracer, values []string) error {
	edits := make([]transformEdit, 0, len(values))
	for _, value := range values {
		edit, err := parseTransform(value)
		if err != nil {
			return err
		}
		edits = append(edits, edit)
	}
	if len(edits) == 0 {
		return nil
	}

	return rt.EditTransforms(func(table *transform.Table) error {
		for _, edit := range edits {
			if err := table.Set(edit.I, edit.J, edit.Entry); err != nil {
				return err
			}
		}
		logger.Infof("set %d transform entries", len(edits))
		return nil
	})
}
