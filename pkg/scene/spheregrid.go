package scene

import (
	"math"

	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/geometry"
	"github.com/df07/go-bvh-raytracer/pkg/lights"
	"github.com/df07/go-bvh-raytracer/pkg/material"
)

// sphereGridSize is the number of spheres along each side of the grid
const sphereGridSize = 8

// oklchToRGB converts OKLCH color values to linear RGB clamped to [0, 1].
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Vec3 {
	hRad := h * math.Pi / 180.0

	// OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to LMS
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b

	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	// LMS to linear RGB
	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	return core.NewVec3(r, g, blue).Clamp(0, 1)
}

// NewSphereGridScene creates a grid of analytic spheres on a floor. Hue
// varies along X and chroma along Z; every third sphere is glossy.
func NewSphereGridScene() *Scene {
	s := NewScene("sphere-grid")
	s.CameraConfig = CameraConfig{
		Position: core.NewVec3(0, 6, 11),
		LookAt:   core.NewVec3(0, 0.3, 0),
		Up:       core.NewVec3(0, 1, 0),
		VFov:     40,
	}

	s.AddMesh(NewQuadMesh("floor", core.NewVec3(-8, 0, -8), core.NewVec3(0, 0, 16), core.NewVec3(16, 0, 0),
		material.NewDiffuse(core.NewVec3(0.5, 0.5, 0.5))))

	const extent = 7.0
	spacing := extent / float64(sphereGridSize-1)
	radius := spacing * 0.35

	for i := 0; i < sphereGridSize; i++ {
		for j := 0; j < sphereGridSize; j++ {
			x := float64(i)*spacing - extent/2
			z := float64(j)*spacing - extent/2

			hue := float64(i) / float64(sphereGridSize-1) * 360
			chroma := 0.05 + float64(j)/float64(sphereGridSize-1)*0.2
			lightness := 0.65 + 0.1*math.Sin(float64(i+j)*0.5)
			kd := oklchToRGB(lightness, chroma, hue)

			mat := material.NewDiffuse(kd)
			if (i+j)%3 == 0 {
				mat = material.NewPhong(kd.Multiply(0.6), core.NewVec3(0.4, 0.4, 0.4), 64)
			}

			s.Spheres = append(s.Spheres, geometry.Sphere{
				Center:   core.NewVec3(x, radius, z),
				Radius:   radius,
				Material: mat,
			})
		}
	}

	s.AddPointLight(lights.NewPointLight(core.NewVec3(4, 8, 6), core.NewVec3(0.8, 0.78, 0.75)))
	s.AddSphericalLight(lights.NewSphericalLight(core.NewVec3(-5, 6, 4), 1, core.NewVec3(0.4, 0.4, 0.45)))
	return s
}
