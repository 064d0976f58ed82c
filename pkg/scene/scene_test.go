package scene

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/geometry"
	"github.com/df07/go-bvh-raytracer/pkg/lights"
	"github.com/df07/go-bvh-raytracer/pkg/material"
)

func TestBuiltinScenes(t *testing.T) {
	for _, info := range List() {
		t.Run(info.Name, func(t *testing.T) {
			s, err := New(info.Name)
			if err != nil {
				t.Fatalf("New(%q): %v", info.Name, err)
			}
			if s.Name != info.Name {
				t.Errorf("Expected scene name %q, got %q", info.Name, s.Name)
			}
			if err := s.Preprocess(); err != nil {
				t.Fatalf("Preprocess: %v", err)
			}
			if s.BVH == nil {
				t.Fatal("Preprocess should build the BVH")
			}
			if s.TriangleCount() == 0 && len(s.Spheres) == 0 {
				t.Error("Scene has no geometry")
			}
			if len(s.PointLights)+len(s.SphericalLights) == 0 {
				t.Error("Scene has no lights")
			}

			// The camera must look at something
			dir := s.CameraConfig.LookAt.Subtract(s.CameraConfig.Position).Normalize()
			ray := core.NewRay(s.CameraConfig.Position, dir)
			hit := geometry.NoHit()
			if !s.Intersect(&ray, &hit) {
				t.Error("Camera center ray should hit the scene")
			}
		})
	}
}

func TestNew_UnknownScene(t *testing.T) {
	s, err := New("nonexistent")
	if !errors.Is(err, ErrUnknownScene) {
		t.Errorf("Expected ErrUnknownScene, got %v", err)
	}
	if s != nil {
		t.Error("Expected nil scene")
	}
}

func TestList_Sorted(t *testing.T) {
	infos := List()
	for i := 1; i < len(infos); i++ {
		if infos[i-1].Name >= infos[i].Name {
			t.Errorf("Scenes not sorted: %q before %q", infos[i-1].Name, infos[i].Name)
		}
	}
}

func TestPreprocess_InvalidMesh(t *testing.T) {
	s := NewScene("broken")
	s.AddMesh(geometry.Mesh{
		Vertices:  []geometry.Vertex{{}, {}},
		Triangles: [][3]int{{0, 1, 2}},
	})

	if err := s.Preprocess(); !errors.Is(err, ErrInvalidMesh) {
		t.Errorf("Expected ErrInvalidMesh, got %v", err)
	}
}

func TestScene_IntersectMatchesBeforeAndAfterPreprocess(t *testing.T) {
	s := NewSpheresScene()
	random := rand.New(rand.NewSource(8))

	type result struct {
		hit  bool
		t    float64
		mesh int
	}
	var rays []core.Ray
	for i := 0; i < 300; i++ {
		target := core.NewVec3(random.Float64()*4-2, random.Float64()*1.5, random.Float64()*4-2)
		rays = append(rays, core.NewRay(s.CameraConfig.Position, target.Subtract(s.CameraConfig.Position)))
	}

	trace := func() []result {
		var results []result
		for _, r := range rays {
			ray := r
			hit := geometry.NoHit()
			ok := s.Intersect(&ray, &hit)
			results = append(results, result{ok, ray.T, hit.MeshIndex})
		}
		return results
	}

	linear := trace()
	if err := s.Preprocess(); err != nil {
		t.Fatal(err)
	}
	accelerated := trace()

	for i := range linear {
		if linear[i] != accelerated[i] {
			t.Fatalf("Ray %d: linear %+v, BVH %+v", i, linear[i], accelerated[i])
		}
	}
}

func TestScene_SphereInFrontOfMesh(t *testing.T) {
	s := NewScene("test")
	s.AddMesh(NewQuadMesh("wall", core.NewVec3(-2, -2, -5), core.NewVec3(4, 0, 0), core.NewVec3(0, 4, 0), white))
	s.Spheres = []geometry.Sphere{{Center: core.NewVec3(0, 0, -3), Radius: 1, Material: red}}
	if err := s.Preprocess(); err != nil {
		t.Fatal(err)
	}

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	hit := geometry.NoHit()
	if !s.Intersect(&ray, &hit) {
		t.Fatal("Expected a hit")
	}
	if math.Abs(ray.T-2) > 1e-9 || hit.MeshIndex != -1 || hit.Material != red {
		t.Errorf("Expected sphere hit at t=2, got t=%f %+v", ray.T, hit)
	}

	// Beside the sphere the wall is hit
	ray = core.NewRay(core.NewVec3(1.5, 0, 0), core.NewVec3(0, 0, -1))
	hit = geometry.NoHit()
	if !s.Intersect(&ray, &hit) || hit.MeshIndex != 0 || math.Abs(ray.T-5) > 1e-9 {
		t.Errorf("Expected wall hit at t=5, got t=%f %+v", ray.T, hit)
	}
}

func TestScene_Occluded(t *testing.T) {
	s := NewScene("test")
	s.AddMesh(NewQuadMesh("wall", core.NewVec3(-2, -2, -5), core.NewVec3(4, 0, 0), core.NewVec3(0, 4, 0), white))
	if err := s.Preprocess(); err != nil {
		t.Fatal(err)
	}

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	if s.Occluded(ray, 4) {
		t.Error("Wall beyond the distance should not occlude")
	}
	if !s.Occluded(ray, 6) {
		t.Error("Wall before the distance should occlude")
	}
}

func TestScene_Lights(t *testing.T) {
	s := NewScene("lights")
	s.AddPointLight(lights.NewPointLight(core.NewVec3(0, 1, 0), core.NewVec3(1, 1, 1)))
	s.AddPointLight(lights.NewPointLight(core.NewVec3(0, 2, 0), core.NewVec3(1, 1, 1)))
	s.AddSphericalLight(lights.NewSphericalLight(core.NewVec3(0, 3, 0), 0.5, core.NewVec3(1, 1, 1)))

	if err := s.RemovePointLight(0); err != nil {
		t.Fatal(err)
	}
	if len(s.PointLights) != 1 || s.PointLights[0].Position.Y != 2 {
		t.Errorf("Unexpected point lights after removal: %+v", s.PointLights)
	}
	if err := s.RemovePointLight(5); !errors.Is(err, ErrNoSuchLight) {
		t.Errorf("Expected ErrNoSuchLight, got %v", err)
	}
	if err := s.RemoveSphericalLight(0); err != nil {
		t.Fatal(err)
	}
	if err := s.RemoveSphericalLight(0); !errors.Is(err, ErrNoSuchLight) {
		t.Errorf("Expected ErrNoSuchLight, got %v", err)
	}
}

func TestNewBoxMesh(t *testing.T) {
	box := NewBoxMesh("box", core.NewVec3(-1, 0, 2), core.NewVec3(1, 3, 4), material.NewDiffuse(core.NewVec3(1, 1, 1)))
	if len(box.Triangles) != 12 {
		t.Errorf("Expected 12 triangles, got %d", len(box.Triangles))
	}
	bounds := box.Bounds()
	if bounds.Min != core.NewVec3(-1, 0, 2) || bounds.Max != core.NewVec3(1, 3, 4) {
		t.Errorf("Unexpected bounds %v", bounds)
	}

	// Every ray from inside the box must hit a face
	random := rand.New(rand.NewSource(2))
	center := bounds.Center()
	for i := 0; i < 50; i++ {
		dir := core.NewVec3(random.Float64()-0.5, random.Float64()-0.5, random.Float64()-0.5)
		ray := core.NewRay(center, dir)
		hit := geometry.NoHit()
		if !geometry.IntersectMeshes([]geometry.Mesh{box}, &ray, &hit) {
			t.Fatalf("Ray %v escaped the box", dir)
		}
	}
}

func TestNewUVSphereMesh(t *testing.T) {
	center := core.NewVec3(1, 2, 3)
	mesh := NewUVSphereMesh("sphere", center, 2, 8, 12, white)

	expected := (2*8 - 2) * 12
	if len(mesh.Triangles) != expected {
		t.Errorf("Expected %d triangles, got %d", expected, len(mesh.Triangles))
	}
	for i := range mesh.Triangles {
		v0, v1, v2 := mesh.Triangle(i)
		if v1.Subtract(v0).Cross(v2.Subtract(v0)).Length() < 1e-12 {
			t.Errorf("Triangle %d is degenerate", i)
		}
	}
	for _, v := range mesh.Vertices {
		if math.Abs(v.Position.Subtract(center).Length()-2) > 1e-9 {
			t.Fatalf("Vertex %v not on the sphere", v.Position)
		}
	}
}

func TestSphereGridScene(t *testing.T) {
	s := NewSphereGridScene()
	if len(s.Spheres) != sphereGridSize*sphereGridSize {
		t.Fatalf("Expected %d spheres, got %d", sphereGridSize*sphereGridSize, len(s.Spheres))
	}
	for i, sphere := range s.Spheres {
		// Every sphere rests on the floor
		if math.Abs(sphere.Center.Y-sphere.Radius) > 1e-12 {
			t.Errorf("Sphere %d floats: center %v radius %v", i, sphere.Center, sphere.Radius)
		}
		kd := sphere.Material.Kd
		if kd.X < 0 || kd.X > 1 || kd.Y < 0 || kd.Y > 1 || kd.Z < 0 || kd.Z > 1 {
			t.Errorf("Sphere %d color out of range: %v", i, kd)
		}
	}
}

func TestOklchToRGB(t *testing.T) {
	tests := []struct {
		name     string
		l, c, h  float64
		expected core.Vec3
	}{
		{"black", 0, 0, 0, core.NewVec3(0, 0, 0)},
		{"white", 1, 0, 0, core.NewVec3(1, 1, 1)},
		{"gray is neutral", 0.5, 0, 120, core.NewVec3(0.125, 0.125, 0.125)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := oklchToRGB(tt.l, tt.c, tt.h)
			if !got.ApproxEqual(tt.expected, 1e-6) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}

	// Red hue has more red than blue
	red := oklchToRGB(0.6, 0.2, 30)
	if red.X <= red.Z {
		t.Errorf("Expected a red color, got %v", red)
	}
}
