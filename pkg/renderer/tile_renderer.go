package renderer

import (
	"image"

	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/integrator"
)

// TileRenderer renders pixels of a screen with one integrator. It keeps no
// per-pass state, so one TileRenderer serves every worker of a pass.
type TileRenderer struct {
	integrator *integrator.Integrator
	camera     Camera
	screen     *Screen
	seed       uint64
}

// NewTileRenderer creates a tile renderer writing into screen
func NewTileRenderer(integratorInst *integrator.Integrator, camera Camera, screen *Screen, seed uint64) *TileRenderer {
	return &TileRenderer{
		integrator: integratorInst,
		camera:     camera,
		screen:     screen,
		seed:       seed,
	}
}

// RenderTileBounds renders every pixel within bounds. Each pixel draws its
// random numbers from a generator seeded by its own coordinates.
func (tr *TileRenderer) RenderTileBounds(bounds image.Rectangle) tileStats {
	var stats tileStats
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			color := tr.RenderPixel(x, y)
			tr.screen.SetPixel(x, y, color)
			stats.addPixel(color)
		}
	}
	return stats
}

// RenderPixel traces the camera ray of one pixel
func (tr *TileRenderer) RenderPixel(x, y int) core.Vec3 {
	sampler := core.NewSeededSampler(core.PixelSeed(tr.seed, x, y))
	ray := tr.camera.GenerateRay(PixelNDC(x, y, tr.screen.Width(), tr.screen.Height()))
	return tr.integrator.Trace(ray, 0, sampler)
}
