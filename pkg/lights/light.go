package lights

import (
	"math"

	"github.com/df07/go-bvh-raytracer/pkg/core"
)

// PointLight is an infinitely small light casting hard shadows
type PointLight struct {
	Position core.Vec3
	Color    core.Vec3
}

// NewPointLight creates a point light
func NewPointLight(position, color core.Vec3) PointLight {
	return PointLight{Position: position, Color: color}
}

// SphericalLight is a spherical area light casting soft shadows
type SphericalLight struct {
	Position core.Vec3 // Center of the sphere
	Radius   float64
	Color    core.Vec3
}

// NewSphericalLight creates a spherical light
func NewSphericalLight(position core.Vec3, radius float64, color core.Vec3) SphericalLight {
	return SphericalLight{Position: position, Radius: radius, Color: color}
}

// Contains reports whether the point lies strictly inside the light sphere
func (l SphericalLight) Contains(point core.Vec3) bool {
	return point.Subtract(l.Position).Length() < l.Radius
}

// Disk is the flat disk of a spherical light visible from a point
type Disk struct {
	Center core.Vec3
	Normal core.Vec3 // Unit vector from the light center toward the viewing point
	Radius float64
}

// VisibleDisk returns the disk bounding the part of the sphere visible from
// point: the circle where the tangent cone from point touches the sphere.
// Its center lies r²/d from the light center toward the point. It returns
// false when point is inside or on the light.
func (l SphericalLight) VisibleDisk(point core.Vec3) (Disk, bool) {
	toPoint := point.Subtract(l.Position)
	distance := toPoint.Length()
	if distance <= l.Radius || distance == 0 {
		return Disk{}, false
	}

	normal := toPoint.Multiply(1 / distance)
	offset := l.Radius * l.Radius / distance
	return Disk{
		Center: l.Position.Add(normal.Multiply(offset)),
		Normal: normal,
		Radius: math.Sqrt(math.Max(0, l.Radius*l.Radius-offset*offset)),
	}, true
}

// Sample maps a sample pair to a point on the disk with uniform area density
func (d Disk) Sample(sample core.Vec2) core.Vec3 {
	return core.SampleDisk(d.Center, d.Normal, d.Radius, sample)
}
