package loaders

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/df07/go-bvh-raytracer/pkg/geometry"
	"github.com/df07/go-bvh-raytracer/pkg/log"
	"github.com/df07/go-bvh-raytracer/pkg/material"
	"golang.org/x/sync/errgroup"
)

var logger = log.New("loaders")

// LoadMesh loads a mesh file, choosing the reader by extension
func LoadMesh(path string, mat material.Phong) ([]geometry.Mesh, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ply":
		data, err := LoadPLY(path)
		if err != nil {
			return nil, err
		}
		return []geometry.Mesh{data.ToMesh(filepath.Base(path), mat)}, nil
	case ".gltf", ".glb":
		return LoadGLTF(path, mat)
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
}

// LoadMeshes loads every path concurrently. The result keeps the order of
// paths, so mesh indices are stable across runs. The first error cancels the
// remaining loads.
func LoadMeshes(ctx context.Context, paths []string, mat material.Phong) ([]geometry.Mesh, error) {
	results := make([][]geometry.Mesh, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			meshes, err := LoadMesh(path, mat)
			if err != nil {
				return err
			}
			results[i] = meshes
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var meshes []geometry.Mesh
	triangles := 0
	for _, loaded := range results {
		for _, m := range loaded {
			triangles += len(m.Triangles)
		}
		meshes = append(meshes, loaded...)
	}
	logger.Infof("loaded %d meshes (%d triangles) from %d files", len(meshes), triangles, len(paths))
	return meshes, nil
}
