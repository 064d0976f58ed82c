package core

import "math"

// Ray represents a ray with an origin, a direction and the distance to the
// closest hit found so far.
//
// T starts at +Inf and only ever decreases: intersection routines commit a new
// distance only when a candidate passes every test and is strictly closer.
type Ray struct {
	Origin    Vec3
	Direction Vec3
	T         float64
}

// NewRay creates a new ray with no hit recorded
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction, T: math.Inf(1)}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

// HitPoint returns the point at the current best distance
func (r Ray) HitPoint() Vec3 {
	return r.At(r.T)
}

// HasHit reports whether a finite distance has been committed
func (r Ray) HasHit() bool {
	return !math.IsInf(r.T, 1)
}

// Reset returns a copy of the ray with the best distance cleared
func (r Ray) Reset() Ray {
	r.T = math.Inf(1)
	return r
}
