package renderer

import (
	"math"
	"testing"

	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/scene"
)

func createTestCamera(aspectRatio float64) *PinholeCamera {
	return NewPinholeCamera(scene.CameraConfig{
		Position: core.NewVec3(0, 0, 0),
		LookAt:   core.NewVec3(0, 0, -1),
		Up:       core.NewVec3(0, 1, 0),
		VFov:     90,
	}, aspectRatio)
}

func TestPinholeCamera_Forward(t *testing.T) {
	camera := createTestCamera(1)

	ray := camera.GenerateRay(core.NewVec2(0, 0))
	expected := core.NewVec3(0, 0, -1)
	if !ray.Direction.ApproxEqual(expected, 1e-9) {
		t.Errorf("Expected center ray direction %v, got %v", expected, ray.Direction)
	}
	if !camera.Forward().ApproxEqual(expected, 1e-9) {
		t.Errorf("Expected forward %v, got %v", expected, camera.Forward())
	}
	if ray.Origin != (core.Vec3{}) {
		t.Errorf("Expected rays from the camera position, got %v", ray.Origin)
	}
}

func TestPinholeCamera_Corners(t *testing.T) {
	camera := createTestCamera(2)

	tests := []struct {
		name     string
		ndc      core.Vec2
		expected core.Vec3
	}{
		// 90 degree vertical field of view: the image plane at distance 1
		// spans [-1, 1] vertically and [-2, 2] horizontally
		{"bottom left", core.NewVec2(-1, -1), core.NewVec3(-2, -1, -1)},
		{"top right", core.NewVec2(1, 1), core.NewVec3(2, 1, -1)},
		{"right edge", core.NewVec2(1, 0), core.NewVec3(2, 0, -1)},
		{"top edge", core.NewVec2(0, 1), core.NewVec3(0, 1, -1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := camera.GenerateRay(tt.ndc)
			want := tt.expected.Normalize()
			if !ray.Direction.ApproxEqual(want, 1e-9) {
				t.Errorf("Expected direction %v, got %v", want, ray.Direction)
			}
			if math.Abs(ray.Direction.Length()-1) > 1e-9 {
				t.Errorf("Expected unit direction, got length %f", ray.Direction.Length())
			}
		})
	}
}

func TestPixelNDC(t *testing.T) {
	tests := []struct {
		x, y     int
		expected core.Vec2
	}{
		{0, 0, core.NewVec2(-1, -1)},
		{50, 25, core.NewVec2(0, 0)},
		{75, 0, core.NewVec2(0.5, -1)},
	}
	for _, tt := range tests {
		got := PixelNDC(tt.x, tt.y, 100, 50)
		if got != tt.expected {
			t.Errorf("PixelNDC(%d, %d): expected %v, got %v", tt.x, tt.y, tt.expected, got)
		}
	}
}
