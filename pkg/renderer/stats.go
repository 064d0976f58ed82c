package renderer

import (
	"image"
	"time"

	"github.com/df07/go-bvh-raytracer/pkg/core"
)

// RenderStats contains statistics about a render pass
type RenderStats struct {
	PassNumber       int           // Pass these statistics belong to
	TotalPixels      int           // Total number of pixels rendered
	BlackPixels      int           // Pixels whose camera ray gathered no light
	Tiles            int           // Number of tiles in the pass
	Workers          int           // Number of workers that rendered the pass
	AverageLuminance float64       // Mean luminance over all pixels
	Duration         time.Duration // Wall time of the pass

	luminanceSum float64
}

// tileStats accumulates per-pixel statistics inside one tile
type tileStats struct {
	pixels       int
	blackPixels  int
	luminanceSum float64
}

// addPixel records one rendered pixel
func (ts *tileStats) addPixel(color core.Vec3) {
	ts.pixels++
	if color.IsZero() {
		ts.blackPixels++
	}
	ts.luminanceSum += color.Luminance()
}

// merge folds tile statistics into the pass statistics
func (rs *RenderStats) merge(ts tileStats) {
	rs.TotalPixels += ts.pixels
	rs.BlackPixels += ts.blackPixels
	rs.luminanceSum += ts.luminanceSum
	if rs.TotalPixels > 0 {
		rs.AverageLuminance = rs.luminanceSum / float64(rs.TotalPixels)
	}
}

// CalculateAverageLuminance returns the mean luminance of an image, with
// channels scaled to [0, 1]
func CalculateAverageLuminance(img image.Image) float64 {
	bounds := img.Bounds()
	pixels := bounds.Dx() * bounds.Dy()
	if pixels == 0 {
		return 0
	}

	sum := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			sum += core.NewVec3(float64(r)/0xffff, float64(g)/0xffff, float64(b)/0xffff).Luminance()
		}
	}
	return sum / float64(pixels)
}
