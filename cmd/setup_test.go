package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/renderer"
	"github.com/df07/go-bvh-raytracer/pkg/scene"
	"github.com/df07/go-bvh-raytracer/pkg/transform"
)

const quadPLY = `ply
format ascii 1.0
element vertex 4
property float x
property float y
property float z
element face 1
property list uchar int vertex_indices
end_header
-0.5 0.5 -0.5
0.5 0.5 -0.5
0.5 0.5 0.5
-0.5 0.5 0.5
4 0 1 2 3
`

func TestParseTransform(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected transformEdit
		wantErr  bool
	}{
		{
			name:  "full entry",
			value: "1,2,0.5,1,2,0.1,0,-0.1",
			expected: transformEdit{I: 1, J: 2, Entry: transform.Entry{
				Scale:  core.NewVec3(0.5, 1, 2),
				Offset: core.NewVec3(0.1, 0, -0.1),
			}},
		},
		{
			name:  "spaces",
			value: "0, 0, 1, 1, 1, 0, 0, 0",
			expected: transformEdit{Entry: transform.Identity()},
		},
		{name: "too few fields", value: "0,1,1,1,1", wantErr: true},
		{name: "bad row", value: "a,1,1,1,1,0,0,0", wantErr: true},
		{name: "bad number", value: "0,1,1,x,1,0,0,0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edit, err := parseTransform(tt.value)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTransform) {
					t.Errorf("Expected ErrInvalidTransform, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseTransform failed: %v", err)
			}
			if edit != tt.expected {
				t.Errorf("parseTransform = %+v, expected %+v", edit, tt.expected)
			}
		})
	}
}

func TestLoadScene(t *testing.T) {
	t.Run("builtin", func(t *testing.T) {
		s, err := loadScene(context.Background(), "cube", nil)
		if err != nil {
			t.Fatalf("loadScene failed: %v", err)
		}
		if s.BVH == nil {
			t.Error("Expected the scene to be preprocessed")
		}
	})

	t.Run("with mesh file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "quad.ply")
		if err := os.WriteFile(path, []byte(quadPLY), 0o644); err != nil {
			t.Fatalf("write mesh: %v", err)
		}

		base := scene.NewCubeScene()
		s, err := loadScene(context.Background(), "cube", []string{path})
		if err != nil {
			t.Fatalf("loadScene failed: %v", err)
		}
		if len(s.Meshes) != len(base.Meshes)+1 {
			t.Fatalf("Expected %d meshes, got %d", len(base.Meshes)+1, len(s.Meshes))
		}
		if s.TriangleCount() != base.TriangleCount()+2 {
			t.Errorf("Expected %d triangles, got %d", base.TriangleCount()+2, s.TriangleCount())
		}
		if s.BVH.Stats().Primitives != s.TriangleCount() {
			t.Error("Expected the loaded mesh to be in the BVH")
		}
	})

	t.Run("errors", func(t *testing.T) {
		if _, err := loadScene(context.Background(), "", nil); !errors.Is(err, ErrMissingScene) {
			t.Errorf("Expected ErrMissingScene, got %v", err)
		}
		if _, err := loadScene(context.Background(), "nope", nil); !errors.Is(err, scene.ErrUnknownScene) {
			t.Errorf("Expected ErrUnknownScene, got %v", err)
		}
		if _, err := loadScene(context.Background(), "cube", []string{filepath.Join(t.TempDir(), "missing.ply")}); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("Expected os.ErrNotExist, got %v", err)
		}
	})
}

func TestApplyTransforms(t *testing.T) {
	s, err := loadScene(context.Background(), "cornell", nil)
	if err != nil {
		t.Fatalf("loadScene failed: %v", err)
	}
	config := renderer.DefaultConfig()
	rt := renderer.NewRaytracer(s, renderer.NewPinholeCamera(s.CameraConfig, config.AspectRatio()), config)

	if err := applyTransforms(rt, []string{"0,1,2,2,2,0,0,0", "3,4,1,0,0,0,0,0"}); err != nil {
		t.Fatalf("applyTransforms failed: %v", err)
	}

	var stored int
	var entry transform.Entry
	rt.EditTransforms(func(table *transform.Table) error {
		stored = table.Size()
		entry, _ = table.Get(0, 1)
		return nil
	})
	if stored != 2 {
		t.Errorf("Expected 2 stored entries, got %d", stored)
	}
	if entry.Scale != core.NewVec3(2, 2, 2) {
		t.Errorf("Entry (0,1) scale = %v, expected (2, 2, 2)", entry.Scale)
	}

	err = applyTransforms(rt, []string{"0,99,1,1,1,0,0,0"})
	if !errors.Is(err, transform.ErrOutOfRange) {
		t.Errorf("Expected ErrOutOfRange, got %v", err)
	}
}
