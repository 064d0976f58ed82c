package geometry

import (
	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/material"
)

// HitInfo is filled by a successful, closer intersection
type HitInfo struct {
	Normal    core.Vec3      // Unit normal facing against the ray
	Material  material.Phong // Copy of the struck surface's material
	MeshIndex int            // Index of the struck mesh, -1 for analytic shapes
}

// NoHit returns an empty HitInfo with no owning mesh
func NoHit() HitInfo {
	return HitInfo{MeshIndex: -1}
}

// Vertex is a mesh vertex. Normals are carried for loaders and previews;
// shading uses the face normal.
type Vertex struct {
	Position core.Vec3
	Normal   core.Vec3
}

// Mesh is an indexed triangle list with a single material
type Mesh struct {
	Name      string
	Vertices  []Vertex
	Triangles [][3]int
	Material  material.Phong
}

// Triangle returns the three corner positions of triangle i
func (m *Mesh) Triangle(i int) (core.Vec3, core.Vec3, core.Vec3) {
	tri := m.Triangles[i]
	return m.Vertices[tri[0]].Position, m.Vertices[tri[1]].Position, m.Vertices[tri[2]].Position
}

// TriangleBounds returns the bounding box of triangle i
func (m *Mesh) TriangleBounds(i int) core.AABB {
	v0, v1, v2 := m.Triangle(i)
	return core.NewAABBFromPoints(v0, v1, v2)
}

// Bounds returns the bounding box of every vertex of the mesh
func (m *Mesh) Bounds() core.AABB {
	box := core.EmptyAABB()
	for _, v := range m.Vertices {
		box = box.Extend(v.Position)
	}
	return box
}

// AddTriangle appends a triangle with its own three vertices
func (m *Mesh) AddTriangle(v0, v1, v2 core.Vec3) {
	normal := v1.Subtract(v0).Cross(v2.Subtract(v0)).Normalize()
	base := len(m.Vertices)
	m.Vertices = append(m.Vertices,
		Vertex{Position: v0, Normal: normal},
		Vertex{Position: v1, Normal: normal},
		Vertex{Position: v2, Normal: normal},
	)
	m.Triangles = append(m.Triangles, [3]int{base, base + 1, base + 2})
}

// AddQuad appends the quad v0 v1 v2 v3 (in winding order) as two triangles
// sharing four vertices
func (m *Mesh) AddQuad(v0, v1, v2, v3 core.Vec3) {
	normal := v1.Subtract(v0).Cross(v2.Subtract(v0)).Normalize()
	base := len(m.Vertices)
	m.Vertices = append(m.Vertices,
		Vertex{Position: v0, Normal: normal},
		Vertex{Position: v1, Normal: normal},
		Vertex{Position: v2, Normal: normal},
		Vertex{Position: v3, Normal: normal},
	)
	m.Triangles = append(m.Triangles,
		[3]int{base, base + 1, base + 2},
		[3]int{base, base + 2, base + 3},
	)
}

// Transform returns a copy of the mesh with every position scaled about the
// origin and then translated. Normals are kept as they are, so scale should be
// uniform or normals recomputed by the caller.
func (m *Mesh) Transform(scale, offset core.Vec3) Mesh {
	out := Mesh{
		Name:      m.Name,
		Vertices:  make([]Vertex, len(m.Vertices)),
		Triangles: append([][3]int(nil), m.Triangles...),
		Material:  m.Material,
	}
	for i, v := range m.Vertices {
		out.Vertices[i] = Vertex{
			Position: v.Position.MultiplyVec(scale).Add(offset),
			Normal:   v.Normal,
		}
	}
	return out
}

// Sphere is an analytic sphere primitive. Spheres are not stored in the BVH.
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material material.Phong
}

// Bounds returns the bounding box of the sphere
func (s Sphere) Bounds() core.AABB {
	r := core.NewVec3(s.Radius, s.Radius, s.Radius)
	return core.NewAABB(s.Center.Subtract(r), s.Center.Add(r))
}

// IntersectMeshes is the reference nearest-hit query: it tests every triangle
// of every mesh with no acceleration
func IntersectMeshes(meshes []Mesh, ray *core.Ray, hit *HitInfo) bool {
	hitAnything := false
	for mi := range meshes {
		mesh := &meshes[mi]
		for ti := range mesh.Triangles {
			v0, v1, v2 := mesh.Triangle(ti)
			if IntersectTriangle(v0, v1, v2, ray, hit) {
				hit.Material = mesh.Material
				hit.MeshIndex = mi
				hitAnything = true
			}
		}
	}
	return hitAnything
}

// IntersectSpheres tests the ray against every sphere, keeping the closest hit
func IntersectSpheres(spheres []Sphere, ray *core.Ray, hit *HitInfo) bool {
	hitAnything := false
	for _, s := range spheres {
		if IntersectSphere(s, ray, hit) {
			hitAnything = true
		}
	}
	return hitAnything
}
