package material

import (
	"math"

	"github.com/df07/go-bvh-raytracer/pkg/core"
)

// Phong is the surface description shared by every mesh and sphere: a
// diffuse coefficient, a specular (mirror) coefficient and a specular
// exponent. Transparency is carried with the material but not shaded.
type Phong struct {
	Kd           core.Vec3 // Diffuse reflectance
	Ks           core.Vec3 // Specular reflectance, also the mirror weight
	Shininess    float64   // Blinn-Phong exponent
	Transparency float64
}

// NewDiffuse creates a purely diffuse material
func NewDiffuse(kd core.Vec3) Phong {
	return Phong{Kd: kd, Shininess: 1, Transparency: 1}
}

// NewPhong creates a material with diffuse and specular terms
func NewPhong(kd, ks core.Vec3, shininess float64) Phong {
	return Phong{Kd: kd, Ks: ks, Shininess: shininess, Transparency: 1}
}

// NewMirror creates a perfect mirror with no diffuse term
func NewMirror(ks core.Vec3) Phong {
	return Phong{Ks: ks, Shininess: 1, Transparency: 1}
}

// IsSpecular reports whether the material has a non-zero mirror term
func (m Phong) IsSpecular() bool {
	return m.Ks.Length() > 0
}

// Lambert returns the diffuse term max(n·l, 0) * kd * lightColor.
// normal and toLight must be unit vectors.
func (m Phong) Lambert(normal, toLight, lightColor core.Vec3) core.Vec3 {
	cosTheta := math.Max(normal.Dot(toLight), 0)
	return m.Kd.MultiplyVec(lightColor).Multiply(cosTheta)
}

// BlinnPhong returns the specular highlight max(n·h, 0)^shininess * ks * lightColor
// where h is the half vector of the light and view directions.
func (m Phong) BlinnPhong(normal, toLight, toViewer, lightColor core.Vec3) core.Vec3 {
	half := toLight.Add(toViewer).Normalize()
	if half.IsZero() {
		return core.Vec3{}
	}
	cosAlpha := math.Max(normal.Dot(half), 0)
	return m.Ks.MultiplyVec(lightColor).Multiply(math.Pow(cosAlpha, m.Shininess))
}
