package scene

import (
	"math"

	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/geometry"
	"github.com/df07/go-bvh-raytracer/pkg/material"
)

// NewQuadMesh creates a two-triangle mesh spanning corner, corner+u,
// corner+u+v and corner+v
func NewQuadMesh(name string, corner, u, v core.Vec3, mat material.Phong) geometry.Mesh {
	mesh := geometry.Mesh{Name: name, Material: mat}
	mesh.AddQuad(corner, corner.Add(u), corner.Add(u).Add(v), corner.Add(v))
	return mesh
}

// NewBoxMesh creates an axis-aligned box of 12 triangles
func NewBoxMesh(name string, min, max core.Vec3, mat material.Phong) geometry.Mesh {
	mesh := geometry.Mesh{Name: name, Material: mat}
	p := func(x, y, z float64) core.Vec3 { return core.NewVec3(x, y, z) }

	// -Z, +Z, -X, +X, -Y, +Y
	mesh.AddQuad(p(min.X, min.Y, min.Z), p(min.X, max.Y, min.Z), p(max.X, max.Y, min.Z), p(max.X, min.Y, min.Z))
	mesh.AddQuad(p(min.X, min.Y, max.Z), p(max.X, min.Y, max.Z), p(max.X, max.Y, max.Z), p(min.X, max.Y, max.Z))
	mesh.AddQuad(p(min.X, min.Y, min.Z), p(min.X, min.Y, max.Z), p(min.X, max.Y, max.Z), p(min.X, max.Y, min.Z))
	mesh.AddQuad(p(max.X, min.Y, min.Z), p(max.X, max.Y, min.Z), p(max.X, max.Y, max.Z), p(max.X, min.Y, max.Z))
	mesh.AddQuad(p(min.X, min.Y, min.Z), p(max.X, min.Y, min.Z), p(max.X, min.Y, max.Z), p(min.X, min.Y, max.Z))
	mesh.AddQuad(p(min.X, max.Y, min.Z), p(min.X, max.Y, max.Z), p(max.X, max.Y, max.Z), p(max.X, max.Y, min.Z))
	return mesh
}

// NewUVSphereMesh tessellates a sphere into rings x segments quads, with
// triangles at the poles. rings must be at least 2 and segments at least 3.
func NewUVSphereMesh(name string, center core.Vec3, radius float64, rings, segments int, mat material.Phong) geometry.Mesh {
	rings = max(rings, 2)
	segments = max(segments, 3)
	mesh := geometry.Mesh{Name: name, Material: mat}

	for r := 0; r <= rings; r++ {
		theta := math.Pi * float64(r) / float64(rings)
		for s := 0; s <= segments; s++ {
			phi := 2 * math.Pi * float64(s) / float64(segments)
			normal := core.NewVec3(math.Sin(theta)*math.Cos(phi), math.Cos(theta), math.Sin(theta)*math.Sin(phi))
			mesh.Vertices = append(mesh.Vertices, geometry.Vertex{
				Position: center.Add(normal.Multiply(radius)),
				Normal:   normal,
			})
		}
	}

	stride := segments + 1
	for r := 0; r < rings; r++ {
		for s := 0; s < segments; s++ {
			a := r*stride + s
			b := a + stride
			if r != 0 {
				mesh.Triangles = append(mesh.Triangles, [3]int{a, b, a + 1})
			}
			if r != rings-1 {
				mesh.Triangles = append(mesh.Triangles, [3]int{a + 1, b, b + 1})
			}
		}
	}
	return mesh
}
