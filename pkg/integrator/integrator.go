package integrator

import (
	"math"

	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/geometry"
	"github.com/df07/go-bvh-raytracer/pkg/scene"
	"github.com/df07/go-bvh-raytracer/pkg/transform"
)

// Config controls the light transport
type Config struct {
	MaxDepth      int              // Rays at this depth return black
	Samples       int              // Hemisphere samples per hit for indirect light
	ShadowSamples int              // Occlusion rays per spherical light
	Debug         bool             // Report indirect samples to Sink instead of recursing
	Epsilon       float64          // Offset along the normal for secondary rays
	Transforms    *transform.Table // Optional remap of indirect light between meshes
	Sink          RaySink          // Optional observer of traced rays
}

// DefaultConfig returns the settings used by the CLI
func DefaultConfig() Config {
	return Config{
		MaxDepth:      4,
		Samples:       8,
		ShadowSamples: 64,
		Epsilon:       1e-3,
	}
}

// Integrator computes the radiance arriving along camera rays. It only reads
// the scene and the transform table, so one Integrator may be shared by every
// worker of a pass as long as each worker brings its own sampler.
type Integrator struct {
	scene  *scene.Scene
	config Config
}

// NewIntegrator creates an integrator over a preprocessed scene
func NewIntegrator(s *scene.Scene, config Config) *Integrator {
	return &Integrator{scene: s, config: config}
}

// Config returns the integrator settings
func (in *Integrator) Config() Config {
	return in.config
}

// Trace returns the color seen along ray, clamped to [0, 1] per channel.
// depth is the number of bounces already taken; camera rays start at 0.
func (in *Integrator) Trace(ray core.Ray, depth int, sampler core.Sampler) core.Vec3 {
	if depth >= in.config.MaxDepth {
		return core.Vec3{}
	}

	ray = ray.Reset()
	hit := geometry.NoHit()
	found := in.scene.Intersect(&ray, &hit)
	in.record(ray, found, white, red)
	if !found {
		return core.Vec3{}
	}

	point := ray.HitPoint()
	toViewer := ray.Direction.Negate().Normalize()

	direct := in.directLight(point, hit, toViewer, sampler).Clamp(0, 1)

	if hit.Material.IsSpecular() {
		reflected := core.NewRay(in.offset(point, hit.Normal), ray.Direction.Normalize().Reflect(hit.Normal))
		direct = direct.Add(hit.Material.Ks.MultiplyVec(in.Trace(reflected, depth+1, sampler)))
	}

	indirect := in.indirectLight(point, hit, depth, sampler)

	return direct.Add(indirect).Multiply(1 / math.Pi).Clamp(0, 1)
}

// indirectLight estimates the light arriving over the hemisphere with
// uniformly sampled directions
func (in *Integrator) indirectLight(point core.Vec3, hit geometry.HitInfo, depth int, sampler core.Sampler) core.Vec3 {
	samples := in.config.Samples
	if samples <= 0 {
		return core.Vec3{}
	}

	origin := in.offset(point, hit.Normal)
	// Hemisphere bounces stop two levels before the specular chain does
	sampleDepth := max(depth+1, in.config.MaxDepth-2)

	var sum core.Vec3
	for i := 0; i < samples; i++ {
		direction := core.SampleUniformHemisphere(hit.Normal, sampler.Get2D())
		sampleRay := core.NewRay(origin, direction)

		if in.config.Debug {
			in.debugSample(sampleRay)
			continue
		}

		color, struck := in.traceSample(sampleRay, sampleDepth, sampler)
		if in.config.Transforms != nil && struck >= 0 && hit.MeshIndex >= 0 {
			color = in.config.Transforms.Lookup(struck, hit.MeshIndex).Apply(color)
		}
		sum = sum.Add(color.Multiply(hit.Normal.Dot(direction)))
	}

	if in.config.Debug {
		return core.Vec3{}
	}
	return sum.Multiply(2 * math.Pi / float64(samples))
}

// traceSample traces an indirect sample and also reports which mesh the
// sample ray struck first, -1 for a miss or an analytic shape
func (in *Integrator) traceSample(ray core.Ray, depth int, sampler core.Sampler) (core.Vec3, int) {
	struck := -1
	if in.config.Transforms != nil {
		probe := ray
		hit := geometry.NoHit()
		if in.scene.Intersect(&probe, &hit) {
			struck = hit.MeshIndex
		}
	}
	return in.Trace(ray, depth, sampler), struck
}

// debugSample resolves an indirect sample with a single nearest-hit query
func (in *Integrator) debugSample(ray core.Ray) {
	hit := geometry.NoHit()
	found := in.scene.Intersect(&ray, &hit)
	in.record(ray, found, yellow, yellow)
}

// offset moves a point off the surface along the normal
func (in *Integrator) offset(point, normal core.Vec3) core.Vec3 {
	return point.Add(normal.Multiply(in.config.Epsilon))
}
