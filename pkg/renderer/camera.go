package renderer

import (
	"math"

	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/scene"
)

// Camera generates primary rays from normalized device coordinates in
// [-1, 1]², with (-1, -1) at the bottom-left corner of the image
type Camera interface {
	GenerateRay(ndc core.Vec2) core.Ray
}

// PinholeCamera is a perspective camera with no depth of field
type PinholeCamera struct {
	origin     core.Vec3
	forward    core.Vec3
	right      core.Vec3
	up         core.Vec3
	halfWidth  float64
	halfHeight float64
}

// NewPinholeCamera creates a camera looking from config.Position towards
// config.LookAt. aspectRatio is width over height.
func NewPinholeCamera(config scene.CameraConfig, aspectRatio float64) *PinholeCamera {
	halfHeight := math.Tan(config.VFov * math.Pi / 180 / 2)

	forward := config.LookAt.Subtract(config.Position).Normalize()
	right := forward.Cross(config.Up).Normalize()
	up := right.Cross(forward)

	return &PinholeCamera{
		origin:     config.Position,
		forward:    forward,
		right:      right,
		up:         up,
		halfWidth:  aspectRatio * halfHeight,
		halfHeight: halfHeight,
	}
}

// GenerateRay returns the ray through the given point of the image plane,
// with a unit direction
func (c *PinholeCamera) GenerateRay(ndc core.Vec2) core.Ray {
	direction := c.forward.
		Add(c.right.Multiply(ndc.X * c.halfWidth)).
		Add(c.up.Multiply(ndc.Y * c.halfHeight))
	return core.NewRay(c.origin, direction.Normalize())
}

// Forward returns the unit viewing direction
func (c *PinholeCamera) Forward() core.Vec3 {
	return c.forward
}

// PixelNDC maps a pixel of a width x height image, counted from the
// bottom-left, to normalized device coordinates
func PixelNDC(x, y, width, height int) core.Vec2 {
	return core.NewVec2(
		float64(x)/float64(width)*2-1,
		float64(y)/float64(height)*2-1,
	)
}
