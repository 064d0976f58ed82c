package scene

import (
	"fmt"
	"sort"

	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/geometry"
	"github.com/df07/go-bvh-raytracer/pkg/lights"
	"github.com/df07/go-bvh-raytracer/pkg/material"
)

// SceneInfo describes a built-in scene
type SceneInfo struct {
	Name        string
	Description string
	New         func() *Scene
}

var builtins = map[string]SceneInfo{
	"single-triangle": {
		Name:        "single-triangle",
		Description: "One upward-facing triangle under a point light",
		New:         NewSingleTriangleScene,
	},
	"cube": {
		Name:        "cube",
		Description: "A cube on a floor lit by two point lights",
		New:         NewCubeScene,
	},
	"cornell": {
		Name:        "cornell",
		Description: "Cornell box with a mirror block and a point light",
		New:         NewCornellScene,
	},
	"cornell-spherical": {
		Name:        "cornell-spherical",
		Description: "Cornell box with a mirror block and a spherical light",
		New:         NewCornellSphericalScene,
	},
	"spheres": {
		Name:        "spheres",
		Description: "Analytic spheres on a floor, one mirrored",
		New:         NewSpheresScene,
	},
	"sphere-grid": {
		Name:        "sphere-grid",
		Description: "A grid of colored analytic spheres on a floor",
		New:         NewSphereGridScene,
	},
	"sphere-mesh": {
		Name:        "sphere-mesh",
		Description: "Tessellated spheres, a few thousand triangles",
		New:         NewSphereMeshScene,
	},
}

// List returns the built-in scenes sorted by name
func List() []SceneInfo {
	infos := make([]SceneInfo, 0, len(builtins))
	for _, info := range builtins {
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// New creates the named built-in scene. The scene is not preprocessed.
func New(name string) (*Scene, error) {
	info, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownScene)
	}
	return info.New(), nil
}

var (
	white = material.NewDiffuse(core.NewVec3(0.73, 0.73, 0.73))
	red   = material.NewDiffuse(core.NewVec3(0.65, 0.05, 0.05))
	green = material.NewDiffuse(core.NewVec3(0.12, 0.45, 0.15))
)

// NewSingleTriangleScene creates one triangle in the y=0 plane lit from above
func NewSingleTriangleScene() *Scene {
	s := NewScene("single-triangle")
	s.CameraConfig = CameraConfig{
		Position: core.NewVec3(0, 1.5, 2.5),
		LookAt:   core.NewVec3(0, 0, 0),
		Up:       core.NewVec3(0, 1, 0),
		VFov:     40,
	}

	mesh := geometry.Mesh{Name: "triangle", Material: material.NewPhong(core.NewVec3(0.8, 0.8, 0.8), core.NewVec3(0.2, 0.2, 0.2), 16)}
	mesh.AddTriangle(core.NewVec3(-1, 0, 1), core.NewVec3(1, 0, 1), core.NewVec3(0, 0, -1))
	s.AddMesh(mesh)

	s.AddPointLight(lights.NewPointLight(core.NewVec3(0, 2, 0), core.NewVec3(1, 1, 1)))
	return s
}

// NewCubeScene creates a unit cube resting on a floor quad
func NewCubeScene() *Scene {
	s := NewScene("cube")
	s.CameraConfig = CameraConfig{
		Position: core.NewVec3(2.5, 2, 3),
		LookAt:   core.NewVec3(0, 0.5, 0),
		Up:       core.NewVec3(0, 1, 0),
		VFov:     40,
	}

	s.AddMesh(NewQuadMesh("floor", core.NewVec3(-3, 0, -3), core.NewVec3(0, 0, 6), core.NewVec3(6, 0, 0), white))
	s.AddMesh(NewBoxMesh("cube", core.NewVec3(-0.5, 0, -0.5), core.NewVec3(0.5, 1, 0.5),
		material.NewPhong(core.NewVec3(0.2, 0.3, 0.8), core.NewVec3(0.1, 0.1, 0.1), 32)))

	s.AddPointLight(lights.NewPointLight(core.NewVec3(2, 3, 2), core.NewVec3(0.8, 0.8, 0.8)))
	s.AddPointLight(lights.NewPointLight(core.NewVec3(-2, 2, 1), core.NewVec3(0.3, 0.3, 0.4)))
	return s
}

// newCornellBox creates the walls and blocks of a Cornell box spanning
// [-1, 1] on every axis, open towards +Z
func newCornellBox(name string) *Scene {
	s := NewScene(name)
	s.CameraConfig = CameraConfig{
		Position: core.NewVec3(0, 0, 3.4),
		LookAt:   core.NewVec3(0, 0, 0),
		Up:       core.NewVec3(0, 1, 0),
		VFov:     40,
	}

	s.AddMesh(NewQuadMesh("floor", core.NewVec3(-1, -1, -1), core.NewVec3(0, 0, 2), core.NewVec3(2, 0, 0), white))
	s.AddMesh(NewQuadMesh("ceiling", core.NewVec3(-1, 1, -1), core.NewVec3(2, 0, 0), core.NewVec3(0, 0, 2), white))
	s.AddMesh(NewQuadMesh("back", core.NewVec3(-1, -1, -1), core.NewVec3(2, 0, 0), core.NewVec3(0, 2, 0), white))
	s.AddMesh(NewQuadMesh("left", core.NewVec3(-1, -1, -1), core.NewVec3(0, 2, 0), core.NewVec3(0, 0, 2), red))
	s.AddMesh(NewQuadMesh("right", core.NewVec3(1, -1, -1), core.NewVec3(0, 0, 2), core.NewVec3(0, 2, 0), green))
	s.AddMesh(NewBoxMesh("short-block", core.NewVec3(0.1, -1, 0.1), core.NewVec3(0.7, -0.4, 0.7), white))
	s.AddMesh(NewBoxMesh("mirror-block", core.NewVec3(-0.7, -1, -0.6), core.NewVec3(-0.1, 0.2, 0),
		material.NewPhong(core.NewVec3(0.1, 0.1, 0.1), core.NewVec3(0.8, 0.8, 0.8), 64)))
	return s
}

// NewCornellScene creates the Cornell box lit by a point light below the ceiling
func NewCornellScene() *Scene {
	s := newCornellBox("cornell")
	s.AddPointLight(lights.NewPointLight(core.NewVec3(0, 0.58, 0), core.NewVec3(1, 1, 1)))
	return s
}

// NewCornellSphericalScene creates the Cornell box lit by a spherical light
func NewCornellSphericalScene() *Scene {
	s := newCornellBox("cornell-spherical")
	s.AddSphericalLight(lights.NewSphericalLight(core.NewVec3(0, 0.7, 0.2), 0.15, core.NewVec3(1, 1, 1)))
	return s
}

// NewSpheresScene creates analytic spheres on a floor quad
func NewSpheresScene() *Scene {
	s := NewScene("spheres")
	s.CameraConfig = CameraConfig{
		Position: core.NewVec3(0, 1.2, 4),
		LookAt:   core.NewVec3(0, 0.5, 0),
		Up:       core.NewVec3(0, 1, 0),
		VFov:     45,
	}

	s.AddMesh(NewQuadMesh("floor", core.NewVec3(-4, 0, -4), core.NewVec3(0, 0, 8), core.NewVec3(8, 0, 0), white))
	s.Spheres = []geometry.Sphere{
		{Center: core.NewVec3(-1.2, 0.5, 0), Radius: 0.5, Material: red},
		{Center: core.NewVec3(0, 0.6, -0.5), Radius: 0.6, Material: material.NewMirror(core.NewVec3(0.9, 0.9, 0.9))},
		{Center: core.NewVec3(1.2, 0.5, 0), Radius: 0.5, Material: material.NewPhong(core.NewVec3(0.1, 0.2, 0.7), core.NewVec3(0.3, 0.3, 0.3), 32)},
	}

	s.AddPointLight(lights.NewPointLight(core.NewVec3(2, 4, 3), core.NewVec3(0.7, 0.7, 0.7)))
	s.AddSphericalLight(lights.NewSphericalLight(core.NewVec3(-2, 3, 2), 0.4, core.NewVec3(0.5, 0.5, 0.5)))
	return s
}

// NewSphereMeshScene creates tessellated spheres inside the Cornell box, a
// denser workload for the BVH
func NewSphereMeshScene() *Scene {
	s := newCornellBox("sphere-mesh")
	s.Meshes = s.Meshes[:5]

	s.AddMesh(NewUVSphereMesh("left-sphere", core.NewVec3(-0.45, -0.6, -0.2), 0.4, 24, 48, white))
	s.AddMesh(NewUVSphereMesh("right-sphere", core.NewVec3(0.45, -0.6, 0.2), 0.4, 24, 48,
		material.NewPhong(core.NewVec3(0.1, 0.1, 0.1), core.NewVec3(0.7, 0.7, 0.7), 64)))

	s.AddPointLight(lights.NewPointLight(core.NewVec3(0, 0.8, 0.3), core.NewVec3(1, 1, 1)))
	return s
}
