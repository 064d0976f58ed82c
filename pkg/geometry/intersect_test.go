package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/material"
)

func TestTrianglePlane(t *testing.T) {
	tests := []struct {
		name       string
		v0, v1, v2 core.Vec3
	}{
		{"through origin", core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0)},
		{"offset positive", core.NewVec3(0, 0, 2), core.NewVec3(1, 0, 2), core.NewVec3(0, 1, 2)},
		{"offset negative", core.NewVec3(0, 0, -2), core.NewVec3(1, 0, -2), core.NewVec3(0, 1, -2)},
		{"tilted", core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), core.NewVec3(0, 0, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plane := TrianglePlane(tt.v0, tt.v1, tt.v2)
			if math.Abs(plane.Normal.Length()-1) > 1e-12 {
				t.Errorf("Expected unit normal, got length %f", plane.Normal.Length())
			}
			if plane.D < 0 {
				t.Errorf("Expected non-negative offset, got %f", plane.D)
			}
			for _, v := range []core.Vec3{tt.v0, tt.v1, tt.v2} {
				if math.Abs(plane.Normal.Dot(v)-plane.D) > 1e-12 {
					t.Errorf("Vertex %v not on plane %+v", v, plane)
				}
			}
		})
	}
}

func TestIntersectTriangle(t *testing.T) {
	// Triangle in the XY plane
	v0 := core.NewVec3(0, 0, 0)
	v1 := core.NewVec3(1, 0, 0)
	v2 := core.NewVec3(0, 1, 0)

	tests := []struct {
		name           string
		ray            core.Ray
		shouldHit      bool
		expectedT      float64
		expectedNormal core.Vec3
	}{
		{
			name:           "Ray hits triangle center",
			ray:            core.NewRay(core.NewVec3(0.25, 0.25, -1), core.NewVec3(0, 0, 1)),
			shouldHit:      true,
			expectedT:      1.0,
			expectedNormal: core.NewVec3(0, 0, -1),
		},
		{
			name:           "Ray hits triangle edge",
			ray:            core.NewRay(core.NewVec3(0.5, 0, -1), core.NewVec3(0, 0, 1)),
			shouldHit:      true,
			expectedT:      1.0,
			expectedNormal: core.NewVec3(0, 0, -1),
		},
		{
			name:           "Ray hits triangle vertex",
			ray:            core.NewRay(core.NewVec3(1, 0, -2), core.NewVec3(0, 0, 1)),
			shouldHit:      true,
			expectedT:      2.0,
			expectedNormal: core.NewVec3(0, 0, -1),
		},
		{
			name:           "Ray hits from behind",
			ray:            core.NewRay(core.NewVec3(0.25, 0.25, 1), core.NewVec3(0, 0, -1)),
			shouldHit:      true,
			expectedT:      1.0,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
		{
			name:      "Ray misses triangle",
			ray:       core.NewRay(core.NewVec3(1, 1, -1), core.NewVec3(0, 0, 1)),
			shouldHit: false,
		},
		{
			name:      "Ray parallel to triangle above plane",
			ray:       core.NewRay(core.NewVec3(0.25, 0.25, 1), core.NewVec3(1, 0, 0)),
			shouldHit: false,
		},
		{
			name:           "Ray embedded in triangle plane starting inside",
			ray:            core.NewRay(core.NewVec3(0.25, 0.25, 0), core.NewVec3(1, 0, 0)),
			shouldHit:      true,
			expectedT:      0,
			expectedNormal: core.NewVec3(0, 0, -1),
		},
		{
			name:      "Triangle behind ray origin",
			ray:       core.NewRay(core.NewVec3(0.25, 0.25, -1), core.NewVec3(0, 0, -1)),
			shouldHit: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := tt.ray
			hit := NoHit()
			got := IntersectTriangle(v0, v1, v2, &ray, &hit)

			if got != tt.shouldHit {
				t.Fatalf("Expected hit=%v, got %v", tt.shouldHit, got)
			}
			if !tt.shouldHit {
				if !math.IsInf(ray.T, 1) {
					t.Errorf("Miss should leave T untouched, got %f", ray.T)
				}
				return
			}
			if math.Abs(ray.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got %f", tt.expectedT, ray.T)
			}
			if hit.Normal.Dot(ray.Direction) > 0 {
				t.Errorf("Normal %v should oppose direction %v", hit.Normal, ray.Direction)
			}
			if tt.expectedNormal.Dot(ray.Direction) != 0 && !hit.Normal.ApproxEqual(tt.expectedNormal, 1e-9) {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, hit.Normal)
			}
		})
	}
}

func TestIntersectTriangle_Idempotent(t *testing.T) {
	v0 := core.NewVec3(-1, -1, -3)
	v1 := core.NewVec3(1, -1, -3)
	v2 := core.NewVec3(0, 1, -3)
	original := core.NewRay(core.NewVec3(0.1, 0.2, 0), core.NewVec3(0.01, -0.02, -1))

	first := original
	firstHit := NoHit()
	firstResult := IntersectTriangle(v0, v1, v2, &first, &firstHit)

	second := original
	secondHit := NoHit()
	secondResult := IntersectTriangle(v0, v1, v2, &second, &secondHit)

	if firstResult != secondResult || first.T != second.T || firstHit != secondHit {
		t.Errorf("Repeated intersection differs: %v/%f vs %v/%f", firstResult, first.T, secondResult, second.T)
	}

	// Re-testing the same ray finds nothing strictly closer and keeps T
	committed := first.T
	if IntersectTriangle(v0, v1, v2, &first, &firstHit) {
		t.Error("Second test on the same ray should not report a closer hit")
	}
	if first.T != committed {
		t.Errorf("T changed from %f to %f", committed, first.T)
	}
}

func TestIntersectTriangle_Closer(t *testing.T) {
	v0 := core.NewVec3(0, 0, -5)
	v1 := core.NewVec3(1, 0, -5)
	v2 := core.NewVec3(0, 1, -5)

	ray := core.NewRay(core.NewVec3(0.2, 0.2, 0), core.NewVec3(0, 0, -1))
	ray.T = 3
	hit := NoHit()
	hit.Normal = core.NewVec3(1, 0, 0)

	if IntersectTriangle(v0, v1, v2, &ray, &hit) {
		t.Fatal("Farther triangle should not be reported")
	}
	if ray.T != 3 || hit.Normal != core.NewVec3(1, 0, 0) {
		t.Error("Rejected candidate must not modify ray or hit info")
	}
}

func TestIntersectTriangle_Degenerate(t *testing.T) {
	ray := core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1))
	hit := NoHit()

	tests := []struct {
		name       string
		v0, v1, v2 core.Vec3
	}{
		{"collinear", core.NewVec3(-1, 0, 0), core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0)},
		{"single point", core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ray
			if IntersectTriangle(tt.v0, tt.v1, tt.v2, &r, &hit) {
				t.Error("Degenerate triangle should never be hit")
			}
		})
	}
}

func TestIntersectSphere(t *testing.T) {
	mat := material.NewDiffuse(core.NewVec3(0.8, 0.1, 0.1))
	sphere := Sphere{Center: core.NewVec3(0, 0, -5), Radius: 1, Material: mat}

	tests := []struct {
		name           string
		ray            core.Ray
		shouldHit      bool
		expectedT      float64
		expectedNormal core.Vec3
	}{
		{
			name:           "hit from outside",
			ray:            core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)),
			shouldHit:      true,
			expectedT:      4,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
		{
			name:           "hit from inside takes the far root",
			ray:            core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, -1)),
			shouldHit:      true,
			expectedT:      1,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
		{
			name:      "sphere behind origin",
			ray:       core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1)),
			shouldHit: false,
		},
		{
			name:      "ray passes beside sphere",
			ray:       core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 0, -1)),
			shouldHit: false,
		},
		{
			name:           "unnormalized direction",
			ray:            core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -2)),
			shouldHit:      true,
			expectedT:      2,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := tt.ray
			hit := HitInfo{MeshIndex: 3}
			got := IntersectSphere(sphere, &ray, &hit)
			if got != tt.shouldHit {
				t.Fatalf("Expected hit=%v, got %v", tt.shouldHit, got)
			}
			if !got {
				return
			}
			if math.Abs(ray.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got %f", tt.expectedT, ray.T)
			}
			if !hit.Normal.ApproxEqual(tt.expectedNormal, 1e-9) {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, hit.Normal)
			}
			if hit.MeshIndex != -1 {
				t.Errorf("Sphere hit should have mesh index -1, got %d", hit.MeshIndex)
			}
			if hit.Material != mat {
				t.Errorf("Expected material %+v, got %+v", mat, hit.Material)
			}
		})
	}
}

func TestIntersectBox(t *testing.T) {
	box := core.NewAABB(core.NewVec3(-1, -1, -1), core.NewVec3(1, 1, 1))

	tests := []struct {
		name      string
		ray       core.Ray
		shouldHit bool
		expectedT float64
	}{
		{"entry from outside", core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1)), true, 4},
		{"exit from inside", core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), true, 1},
		{"box behind origin", core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, 1)), false, 0},
		{"parallel outside slab", core.NewRay(core.NewVec3(2, 0, 5), core.NewVec3(0, 0, -1)), false, 0},
		{"parallel on slab face", core.NewRay(core.NewVec3(1, 0, 5), core.NewVec3(0, 0, -1)), true, 4},
		{"diagonal", core.NewRay(core.NewVec3(3, 3, 3), core.NewVec3(-1, -1, -1)), true, 2},
		{"misses corner", core.NewRay(core.NewVec3(3, 0, 3), core.NewVec3(0, 1, -1)), false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := tt.ray
			got := IntersectBox(box, &ray)
			if got != tt.shouldHit {
				t.Fatalf("Expected hit=%v, got %v", tt.shouldHit, got)
			}
			if got && math.Abs(ray.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got %f", tt.expectedT, ray.T)
			}
		})
	}
}

func TestIntersectBox_KeepsCloserHit(t *testing.T) {
	box := core.NewAABB(core.NewVec3(-1, -1, -1), core.NewVec3(1, 1, 1))
	ray := core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1))
	ray.T = 2

	if IntersectBox(box, &ray) {
		t.Error("Box farther than current hit should not be reported")
	}
	if ray.T != 2 {
		t.Errorf("T should stay 2, got %f", ray.T)
	}
}

func TestIntersectBox_FlatBox(t *testing.T) {
	// Zero thickness along z, as produced by an axis-aligned triangle
	box := core.NewAABB(core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 0))
	ray := core.NewRay(core.NewVec3(0.5, 0.5, 2), core.NewVec3(0, 0, -1))

	if !IntersectBox(box, &ray) {
		t.Fatal("Ray through a flat box should hit")
	}
	if math.Abs(ray.T-2) > 1e-12 {
		t.Errorf("Expected t=2, got %f", ray.T)
	}
}
