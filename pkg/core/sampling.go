package core

import (
	"math"
	"math/rand"
)

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler with its own generator seeded from seed
func NewSeededSampler(seed uint64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewSource(int64(seed))))
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// PixelSeed derives an independent generator seed for a pixel so that the
// random stream of a pixel does not depend on which worker renders it.
func PixelSeed(seed uint64, x, y int) uint64 {
	h := seed ^ (uint64(uint32(x)) << 32) ^ uint64(uint32(y))
	// splitmix64 finalizer
	h += 0x9e3779b97f4a7c15
	h = (h ^ (h >> 30)) * 0xbf58476d1ce4e5b9
	h = (h ^ (h >> 27)) * 0x94d049bb133111eb
	return h ^ (h >> 31)
}

// TangentFrame returns two unit vectors that together with the unit normal
// form an orthonormal basis
func TangentFrame(normal Vec3) (Vec3, Vec3) {
	var nt Vec3
	if math.Abs(normal.X) > 0.1 {
		nt = NewVec3(0, 1, 0)
	} else {
		nt = NewVec3(1, 0, 0)
	}
	tangent := nt.Cross(normal).Normalize()
	bitangent := normal.Cross(tangent)
	return tangent, bitangent
}

// SampleUniformHemisphere maps a sample pair to a direction uniformly
// distributed over the hemisphere around normal: cos(theta) = u, phi = 2*pi*v
func SampleUniformHemisphere(normal Vec3, sample Vec2) Vec3 {
	cosTheta := sample.X
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	phi := 2.0 * math.Pi * sample.Y

	tangent, bitangent := TangentFrame(normal)
	return tangent.Multiply(sinTheta * math.Cos(phi)).
		Add(bitangent.Multiply(sinTheta * math.Sin(phi))).
		Add(normal.Multiply(cosTheta))
}

// SampleDisk maps a sample pair to a point on the disk with the given center,
// unit normal and radius. Radius is taken as radius*sqrt(u) for uniform area
// density.
func SampleDisk(center, normal Vec3, radius float64, sample Vec2) Vec3 {
	r := radius * math.Sqrt(sample.X)
	theta := 2.0 * math.Pi * sample.Y

	tangent := normal.Cross(NewVec3(-normal.Z, normal.X, normal.Y)).Normalize()
	if tangent.IsZero() {
		// (-z, x, y) is parallel to normals of the form (a, -a, a)
		tangent, _ = TangentFrame(normal)
	}
	bitangent := normal.Cross(tangent)

	return center.
		Add(tangent.Multiply(r * math.Cos(theta))).
		Add(bitangent.Multiply(r * math.Sin(theta)))
}
