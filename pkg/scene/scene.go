package scene

import (
	"fmt"

	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/geometry"
	"github.com/df07/go-bvh-raytracer/pkg/lights"
	"github.com/df07/go-bvh-raytracer/pkg/log"
)

var logger = log.New("scene")

// CameraConfig describes a pinhole camera looking at a point
type CameraConfig struct {
	Position core.Vec3
	LookAt   core.Vec3
	Up       core.Vec3
	VFov     float64 // Vertical field of view in degrees
}

// DefaultCameraConfig returns a camera on the +Z axis looking at the origin
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Position: core.NewVec3(0, 0, 3),
		LookAt:   core.NewVec3(0, 0, 0),
		Up:       core.NewVec3(0, 1, 0),
		VFov:     45,
	}
}

// Scene contains everything the integrator reads during a render pass.
// Mesh edits must be followed by Preprocess; light edits take effect
// immediately.
type Scene struct {
	Name            string
	Meshes          []geometry.Mesh
	Spheres         []geometry.Sphere
	PointLights     []lights.PointLight
	SphericalLights []lights.SphericalLight
	CameraConfig    CameraConfig
	BVHConfig       geometry.BVHConfig
	BVH             *geometry.BVH // Built by Preprocess
}

// NewScene creates an empty scene with default camera and BVH settings
func NewScene(name string) *Scene {
	return &Scene{
		Name:         name,
		CameraConfig: DefaultCameraConfig(),
		BVHConfig:    geometry.DefaultBVHConfig(),
	}
}

// Preprocess validates the meshes and builds the BVH over them
func (s *Scene) Preprocess() error {
	for mi, mesh := range s.Meshes {
		for ti, tri := range mesh.Triangles {
			for _, vi := range tri {
				if vi < 0 || vi >= len(mesh.Vertices) {
					return fmt.Errorf("mesh %d (%s) triangle %d references vertex %d of %d: %w",
						mi, mesh.Name, ti, vi, len(mesh.Vertices), ErrInvalidMesh)
				}
			}
		}
	}

	s.BVH = geometry.NewBVH(s.Meshes, s.BVHConfig)

	stats := s.BVH.Stats()
	logger.Infof("scene %q: %d meshes, %d triangles, %d spheres, %d BVH nodes (%d levels) in %v",
		s.Name, len(s.Meshes), stats.Primitives, len(s.Spheres), stats.Nodes, s.BVH.Levels(), stats.BuildTime)
	return nil
}

// Intersect finds the closest mesh or sphere hit. Meshes are queried through
// the BVH once Preprocess has run and linearly before that.
func (s *Scene) Intersect(ray *core.Ray, hit *geometry.HitInfo) bool {
	hitMesh := false
	if s.BVH != nil {
		hitMesh = s.BVH.Intersect(ray, hit)
	} else {
		hitMesh = geometry.IntersectMeshes(s.Meshes, ray, hit)
	}
	hitSphere := geometry.IntersectSpheres(s.Spheres, ray, hit)
	return hitMesh || hitSphere
}

// Occluded reports whether anything lies on the ray before distance
func (s *Scene) Occluded(ray core.Ray, distance float64) bool {
	ray.T = distance
	hit := geometry.NoHit()
	return s.Intersect(&ray, &hit)
}

// TriangleCount returns the number of triangles over all meshes
func (s *Scene) TriangleCount() int {
	count := 0
	for _, mesh := range s.Meshes {
		count += len(mesh.Triangles)
	}
	return count
}

// Bounds returns the box around all geometry and lights
func (s *Scene) Bounds() core.AABB {
	box := core.EmptyAABB()
	for i := range s.Meshes {
		box = box.Union(s.Meshes[i].Bounds())
	}
	for _, sphere := range s.Spheres {
		box = box.Union(sphere.Bounds())
	}
	for _, light := range s.PointLights {
		box = box.Extend(light.Position)
	}
	for _, light := range s.SphericalLights {
		r := core.NewVec3(light.Radius, light.Radius, light.Radius)
		box = box.Union(core.NewAABB(light.Position.Subtract(r), light.Position.Add(r)))
	}
	return box
}

// AddMesh appends a mesh and returns its index. The BVH is stale until the
// next Preprocess.
func (s *Scene) AddMesh(mesh geometry.Mesh) int {
	s.Meshes = append(s.Meshes, mesh)
	return len(s.Meshes) - 1
}

// AddPointLight appends a point light
func (s *Scene) AddPointLight(light lights.PointLight) {
	s.PointLights = append(s.PointLights, light)
}

// AddSphericalLight appends a spherical light
func (s *Scene) AddSphericalLight(light lights.SphericalLight) {
	s.SphericalLights = append(s.SphericalLights, light)
}

// RemovePointLight removes the point light at index i
func (s *Scene) RemovePointLight(i int) error {
	if i < 0 || i >= len(s.PointLights) {
		return fmt.Errorf("point light %d of %d: %w", i, len(s.PointLights), ErrNoSuchLight)
	}
	s.PointLights = append(s.PointLights[:i], s.PointLights[i+1:]...)
	return nil
}

// RemoveSphericalLight removes the spherical light at index i
func (s *Scene) RemoveSphericalLight(i int) error {
	if i < 0 || i >= len(s.SphericalLights) {
		return fmt.Errorf("spherical light %d of %d: %w", i, len(s.SphericalLights), ErrNoSuchLight)
	}
	s.SphericalLights = append(s.SphericalLights[:i], s.SphericalLights[i+1:]...)
	return nil
}
