package preview

import (
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/scene"
)

const (
	maxPitch      = 1.45 // Radians; keeps the view direction away from Up
	minDistance   = 0.1
	settleEpsilon = 1e-4
)

// OrbitAxis is one camera coordinate that follows its target on a spring
type OrbitAxis struct {
	Position float64
	Target   float64
	velocity float64
	spring   harmonica.Spring
}

func newOrbitAxis(value float64, fps int) OrbitAxis {
	return OrbitAxis{
		Position: value,
		Target:   value,
		// Frequency 6.0 settles in about half a second, damping 1.0 = no overshoot
		spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
	}
}

// Update advances the spring by one frame
func (a *OrbitAxis) Update() {
	a.Position, a.velocity = a.spring.Update(a.Position, a.velocity, a.Target)
}

func (a *OrbitAxis) settled() bool {
	return math.Abs(a.Position-a.Target) < settleEpsilon && math.Abs(a.velocity) < settleEpsilon
}

// Orbit moves a camera on a sphere around its look-at point. Yaw and pitch
// are in radians, yaw measured from +Z towards +X.
type Orbit struct {
	Yaw      OrbitAxis
	Pitch    OrbitAxis
	Distance OrbitAxis

	home scene.CameraConfig
	fps  int
}

// NewOrbit creates an orbit that starts at the given camera
func NewOrbit(camera scene.CameraConfig, fps int) *Orbit {
	o := &Orbit{home: camera, fps: fps}
	o.reset()
	return o
}

func (o *Orbit) reset() {
	offset := o.home.Position.Subtract(o.home.LookAt)
	distance := offset.Length()

	yaw, pitch := 0.0, 0.0
	if distance > 0 {
		yaw = math.Atan2(offset.X, offset.Z)
		pitch = math.Asin(clamp(offset.Y/distance, -1, 1))
	}

	o.Yaw = newOrbitAxis(yaw, o.fps)
	o.Pitch = newOrbitAxis(clamp(pitch, -maxPitch, maxPitch), o.fps)
	o.Distance = newOrbitAxis(math.Max(distance, minDistance), o.fps)
}

// Rotate moves the yaw and pitch targets. Pitch is clamped short of the poles.
func (o *Orbit) Rotate(yaw, pitch float64) {
	o.Yaw.Target += yaw
	o.Pitch.Target = clamp(o.Pitch.Target+pitch, -maxPitch, maxPitch)
}

// Zoom scales the distance target; factors below 1 move closer
func (o *Orbit) Zoom(factor float64) {
	o.Distance.Target = math.Max(o.Distance.Target*factor, minDistance)
}

// Reset springs the camera back to where it started
func (o *Orbit) Reset() {
	start := NewOrbit(o.home, o.fps)
	o.Yaw.Target = start.Yaw.Target
	o.Pitch.Target = start.Pitch.Target
	o.Distance.Target = start.Distance.Target
}

// Update advances every axis by one frame
func (o *Orbit) Update() {
	o.Yaw.Update()
	o.Pitch.Update()
	o.Distance.Update()
}

// Settled reports whether every axis has reached its target
func (o *Orbit) Settled() bool {
	return o.Yaw.settled() && o.Pitch.settled() && o.Distance.settled()
}

// Camera returns the camera at the current spring positions
func (o *Orbit) Camera() scene.CameraConfig {
	yaw, pitch, distance := o.Yaw.Position, o.Pitch.Position, o.Distance.Position
	offset := core.NewVec3(
		distance*math.Cos(pitch)*math.Sin(yaw),
		distance*math.Sin(pitch),
		distance*math.Cos(pitch)*math.Cos(yaw),
	)

	camera := o.home
	camera.Position = o.home.LookAt.Add(offset)
	return camera
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
