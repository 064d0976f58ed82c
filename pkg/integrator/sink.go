package integrator

import (
	"math"
	"sync"

	"github.com/df07/go-bvh-raytracer/pkg/core"
)

var (
	white  = core.NewVec3(1, 1, 1)
	red    = core.NewVec3(1, 0, 0)
	yellow = core.NewVec3(1, 1, 0)
)

// RaySegment is one traced ray as reported to a RaySink
type RaySegment struct {
	Origin    core.Vec3
	Direction core.Vec3
	Distance  float64   // Length along Direction, +Inf for a ray that hit nothing
	Color     core.Vec3 // White for hits and visible lights, red for misses and blocked lights, yellow for debug samples
}

// RaySink observes rays traced by the integrator. It must be safe for
// concurrent use; rendering does not depend on it.
type RaySink interface {
	RecordRay(segment RaySegment)
}

// RayCollector is a RaySink that keeps every segment in memory
type RayCollector struct {
	mu       sync.Mutex
	segments []RaySegment
}

// NewRayCollector creates an empty collector
func NewRayCollector() *RayCollector {
	return &RayCollector{}
}

// RecordRay appends a segment
func (c *RayCollector) RecordRay(segment RaySegment) {
	c.mu.Lock()
	c.segments = append(c.segments, segment)
	c.mu.Unlock()
}

// Segments returns a copy of the recorded segments
func (c *RayCollector) Segments() []RaySegment {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]RaySegment(nil), c.segments...)
}

// Len returns the number of recorded segments
func (c *RayCollector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.segments)
}

// Reset discards every recorded segment
func (c *RayCollector) Reset() {
	c.mu.Lock()
	c.segments = nil
	c.mu.Unlock()
}

// record reports a ray to the sink, if any. ray.T is the segment length when
// found is true.
func (in *Integrator) record(ray core.Ray, found bool, hitColor, missColor core.Vec3) {
	if in.config.Sink == nil {
		return
	}
	segment := RaySegment{
		Origin:    ray.Origin,
		Direction: ray.Direction,
		Distance:  math.Inf(1),
		Color:     missColor,
	}
	if found {
		segment.Distance = ray.T
		segment.Color = hitColor
	}
	in.config.Sink.RecordRay(segment)
}
