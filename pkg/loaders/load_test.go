package loaders

import (
	"context"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-bvh-raytracer/pkg/material"
)

func writeTestFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadMeshes(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeTestFile(t, dir, "a.ply", []byte(asciiQuadPLY)),
		writeTestFile(t, dir, "b.PLY", createTestPLY(binary.LittleEndian, "binary_little_endian", true, false)),
		writeTestFile(t, dir, "c.ply", createTestPLY(binary.BigEndian, "binary_big_endian", false, true)),
	}

	meshes, err := LoadMeshes(context.Background(), paths, material.Phong{})
	if err != nil {
		t.Fatalf("LoadMeshes failed: %v", err)
	}
	if len(meshes) != len(paths) {
		t.Fatalf("Expected %d meshes, got %d", len(paths), len(meshes))
	}

	// Order follows the input paths regardless of completion order
	for i, want := range []string{"a.ply", "b.PLY", "c.ply"} {
		if meshes[i].Name != want {
			t.Errorf("Mesh %d name = %s, expected %s", i, meshes[i].Name, want)
		}
		if len(meshes[i].Triangles) != 2 {
			t.Errorf("Mesh %d has %d triangles, expected 2", i, len(meshes[i].Triangles))
		}
	}
}

func TestLoadMeshes_Errors(t *testing.T) {
	dir := t.TempDir()
	good := writeTestFile(t, dir, "good.ply", []byte(asciiQuadPLY))

	t.Run("unsupported extension", func(t *testing.T) {
		obj := writeTestFile(t, dir, "model.obj", []byte("v 0 0 0\n"))
		_, err := LoadMeshes(context.Background(), []string{good, obj}, material.Phong{})
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadMeshes(context.Background(), []string{good, filepath.Join(dir, "missing.ply")}, material.Phong{})
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("Expected os.ErrNotExist, got %v", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := LoadMeshes(ctx, []string{good}, material.Phong{})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	})
}
