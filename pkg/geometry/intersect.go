package geometry

import (
	"math"

	"github.com/df07/go-bvh-raytracer/pkg/core"
)

// Rays whose direction is within this of parallel to a plane are treated
// as parallel
const parallelEpsilon = 1e-6

// Plane is the set of points p with Normal·p == D
type Plane struct {
	Normal core.Vec3 // Unit normal
	D      float64   // Offset along the normal, never negative
}

// TrianglePlane returns the plane supporting a triangle. The normal is flipped
// when necessary so that D is non-negative. Degenerate triangles give a zero
// normal.
func TrianglePlane(v0, v1, v2 core.Vec3) Plane {
	normal := v0.Subtract(v2).Cross(v1.Subtract(v2)).Normalize()
	d := normal.Dot(v0)
	if d < 0 {
		return Plane{Normal: normal.Negate(), D: -d}
	}
	return Plane{Normal: normal, D: d}
}

// IntersectPlane solves for the ray parameter where the ray meets the plane.
// A ray lying inside the plane reports t = 0.
func IntersectPlane(plane Plane, ray core.Ray) (float64, bool) {
	onPlane := plane.Normal.Multiply(plane.D)
	f := ray.Direction.Dot(plane.Normal)
	g := onPlane.Subtract(ray.Origin).Dot(plane.Normal)

	embedded := math.Abs(g) < parallelEpsilon
	if math.Abs(f) < parallelEpsilon && !embedded {
		return 0, false
	}

	t := 0.0
	if !embedded {
		t = g / f
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

// PointInTriangle reports whether p, assumed to lie in the triangle's plane,
// is inside the triangle. Points on an edge are inside.
func PointInTriangle(v0, v1, v2, p core.Vec3) bool {
	a := v2.Subtract(v0)
	b := v1.Subtract(v0)
	c := p.Subtract(v0)

	f := a.Dot(a)
	g := a.Dot(b)
	h := a.Dot(c)
	i := b.Dot(b)
	j := b.Dot(c)

	denom := f*i - g*g
	if denom == 0 {
		return false
	}
	u := (i*h - g*j) / denom
	v := (f*j - g*h) / denom

	return u >= 0 && v >= 0 && u+v <= 1
}

// IntersectTriangle tests the ray against a triangle. On a hit strictly closer
// than ray.T it commits the distance, sets hit.Normal to the plane normal
// facing the ray and returns true. Material and mesh index are left to the
// caller.
func IntersectTriangle(v0, v1, v2 core.Vec3, ray *core.Ray, hit *HitInfo) bool {
	plane := TrianglePlane(v0, v1, v2)
	if plane.Normal.IsZero() {
		return false
	}

	t, ok := IntersectPlane(plane, *ray)
	if !ok || t >= ray.T {
		return false
	}
	if !PointInTriangle(v0, v1, v2, ray.At(t)) {
		return false
	}

	ray.T = t
	hit.Normal = facing(plane.Normal, ray.Direction)
	return true
}

// IntersectSphere tests the ray against an analytic sphere, taking the
// smallest non-negative root. On a closer hit it fills the whole HitInfo with
// MeshIndex -1.
func IntersectSphere(sphere Sphere, ray *core.Ray, hit *HitInfo) bool {
	oc := ray.Origin.Subtract(sphere.Center)
	a := ray.Direction.LengthSquared()
	if a == 0 {
		return false
	}
	b := 2 * ray.Direction.Dot(oc)
	c := oc.LengthSquared() - sphere.Radius*sphere.Radius

	disc := b*b - 4*a*c
	if disc < 0 {
		return false
	}

	sqrtDisc := math.Sqrt(disc)
	t0 := (-b - sqrtDisc) / (2 * a)
	t1 := (-b + sqrtDisc) / (2 * a)
	if t0 < 0 && t1 < 0 {
		return false
	}

	t := t0
	if t0 < 0 {
		t = t1
	}
	if t >= ray.T {
		return false
	}

	ray.T = t
	hit.Normal = facing(ray.At(t).Subtract(sphere.Center).Normalize(), ray.Direction)
	hit.Material = sphere.Material
	hit.MeshIndex = -1
	return true
}

// IntersectBox is the slab test. It reports the exit distance when the origin
// is inside the box and the entry distance otherwise, committing it to ray.T
// when closer. It never touches normals or materials.
func IntersectBox(box core.AABB, ray *core.Ray) bool {
	t, ok := boxDistance(box, *ray)
	if !ok || t >= ray.T {
		return false
	}
	ray.T = t
	return true
}

// boxDistance returns the distance IntersectBox would report, ignoring ray.T
func boxDistance(box core.AABB, ray core.Ray) (float64, bool) {
	inv := ray.Direction.Reciprocal()

	tin := math.Inf(-1)
	tout := math.Inf(1)
	for axis := 0; axis < 3; axis++ {
		near, far := slab(box.Min.Axis(axis), box.Max.Axis(axis), ray.Origin.Axis(axis), inv.Axis(axis))
		tin = math.Max(tin, near)
		tout = math.Min(tout, far)
	}

	if tin > tout || tout < 0 {
		return 0, false
	}
	if tin < 0 {
		return tout, true
	}
	return tin, true
}

// slab returns the entry and exit distances for one axis. A zero direction
// component gives infinite distances of matching sign; an origin exactly on
// a slab face then produces 0*Inf, which counts as inside the slab.
func slab(lo, hi, origin, invDir float64) (float64, float64) {
	a := (lo - origin) * invDir
	b := (hi - origin) * invDir
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.Inf(-1), math.Inf(1)
	}
	return math.Min(a, b), math.Max(a, b)
}

// facing flips the normal so that it opposes the direction
func facing(normal, direction core.Vec3) core.Vec3 {
	if direction.Dot(normal) > 0 {
		return normal.Negate()
	}
	return normal
}
