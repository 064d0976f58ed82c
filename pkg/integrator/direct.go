package integrator

import (
	"math"

	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/geometry"
	"github.com/df07/go-bvh-raytracer/pkg/lights"
)

// directLight sums the contribution of every light at a hit point. Point
// lights give diffuse and Blinn-Phong terms and cast hard shadows; spherical
// lights give a diffuse term scaled by their visible fraction.
func (in *Integrator) directLight(point core.Vec3, hit geometry.HitInfo, toViewer core.Vec3, sampler core.Sampler) core.Vec3 {
	origin := in.offset(point, hit.Normal)

	var color core.Vec3
	for _, light := range in.scene.PointLights {
		toLight, distance := towards(origin, light.Position)
		if distance == 0 {
			continue
		}
		if !in.unoccluded(origin, toLight, distance, hit.Normal) {
			continue
		}
		color = color.
			Add(hit.Material.Lambert(hit.Normal, toLight, light.Color)).
			Add(hit.Material.BlinnPhong(hit.Normal, toLight, toViewer, light.Color))
	}

	for _, light := range in.scene.SphericalLights {
		visibility := in.SphereVisibility(point, hit.Normal, light, sampler)
		if visibility == 0 {
			continue
		}
		toLight, _ := towards(origin, light.Position)
		color = color.Add(hit.Material.Lambert(hit.Normal, toLight, light.Color).Multiply(visibility))
	}

	return color
}

// SphereVisibility estimates the fraction of a spherical light visible from a
// surface point. Shadow rays aim at stratified points on the disk of the
// light facing the point; each counts when nothing blocks it and it leaves on
// the normal side. A point inside the light sees all of it.
func (in *Integrator) SphereVisibility(point, normal core.Vec3, light lights.SphericalLight, sampler core.Sampler) float64 {
	disk, ok := light.VisibleDisk(point)
	if !ok {
		return 1
	}

	grid := max(int(math.Sqrt(float64(in.config.ShadowSamples))), 1)
	origin := in.offset(point, normal)

	visible := 0
	for i := 0; i < grid; i++ {
		for j := 0; j < grid; j++ {
			u := sampler.Get2D()
			stratified := core.NewVec2((float64(i)+u.X)/float64(grid), (float64(j)+u.Y)/float64(grid))
			target := disk.Sample(stratified)

			toTarget, distance := towards(origin, target)
			if distance == 0 {
				continue
			}
			if in.unoccluded(origin, toTarget, distance, normal) {
				visible++
			}
		}
	}

	return float64(visible) / float64(grid*grid)
}

// unoccluded casts a shadow ray of the given length along the unit direction
// and reports whether it leaves on the normal side and reaches its end
func (in *Integrator) unoccluded(origin, direction core.Vec3, distance float64, normal core.Vec3) bool {
	if direction.Dot(normal) <= 0 {
		return false
	}

	shadow := core.NewRay(origin, direction)
	blocked := in.scene.Occluded(shadow, distance)

	shadow.T = distance
	if blocked {
		in.record(shadow, true, red, red)
	} else {
		in.record(shadow, true, white, white)
	}
	return !blocked
}

// towards returns the unit direction and the distance from one point to
// another. The direction is zero when the points coincide.
func towards(from, to core.Vec3) (core.Vec3, float64) {
	delta := to.Subtract(from)
	distance := delta.Length()
	if distance == 0 {
		return core.Vec3{}, 0
	}
	return delta.Multiply(1 / distance), distance
}
