package renderer

import (
	"fmt"
	"sync"
	"time"

	"github.com/df07/go-bvh-raytracer/pkg/integrator"
	"github.com/df07/go-bvh-raytracer/pkg/log"
	"github.com/df07/go-bvh-raytracer/pkg/scene"
	"github.com/df07/go-bvh-raytracer/pkg/transform"
)

var logger = log.New("renderer")

// Config contains rendering configuration
type Config struct {
	Width         int
	Height        int
	MaxDepth      int    // Rays at this depth return black
	Samples       int    // Hemisphere samples per hit
	ShadowSamples int    // Shadow rays per spherical light
	Debug         bool   // Report indirect samples to the ray sink instead of tracing them
	Seed          uint64 // Base seed for every pixel generator
	TileSize      int    // Size of each square tile
	NumWorkers    int    // Number of parallel workers (0 = use CPU count)
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	defaults := integrator.DefaultConfig()
	return Config{
		Width:         320,
		Height:        240,
		MaxDepth:      defaults.MaxDepth,
		Samples:       defaults.Samples,
		ShadowSamples: defaults.ShadowSamples,
		Seed:          42,
		TileSize:      32,
		NumWorkers:    0, // Auto-detect CPU count
	}
}

// AspectRatio returns width over height
func (c Config) AspectRatio() float64 {
	if c.Height == 0 {
		return 1
	}
	return float64(c.Width) / float64(c.Height)
}

// TileCompletionResult contains information about a completed tile for callbacks
type TileCompletionResult struct {
	Tile       *Tile
	Screen     *Screen // Screen the tile was written to; only the tile's pixels are final
	PassNumber int

	// Progress information
	TileNumber int // Current tile number in this pass (1-based)
	TotalTiles int
}

// Raytracer renders a scene into a screen, one full pass at a time. The
// scene and the transform table may only be changed through EditScene and
// EditTransforms, which wait for any running pass to finish.
type Raytracer struct {
	mu         sync.Mutex
	scene      *scene.Scene
	camera     Camera
	config     Config
	transforms *transform.Table
	sink       integrator.RaySink
	screen     *Screen
	tiles      []*Tile
	passes     int
}

// NewRaytracer creates a raytracer for a preprocessed scene. The transform
// table is square over the scene's meshes and starts as identity.
func NewRaytracer(s *scene.Scene, camera Camera, config Config) *Raytracer {
	return &Raytracer{
		scene:      s,
		camera:     camera,
		config:     config,
		transforms: transform.NewSquareTable(len(s.Meshes)),
		screen:     NewScreen(config.Width, config.Height),
		tiles:      NewTileGrid(config.Width, config.Height, config.TileSize),
	}
}

// Config returns the render configuration
func (rt *Raytracer) Config() Config {
	return rt.config
}

// Screen returns the screen passes render into
func (rt *Raytracer) Screen() *Screen {
	return rt.screen
}

// SetCamera replaces the camera for the following passes
func (rt *Raytracer) SetCamera(camera Camera) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.camera = camera
}

// SetSink installs a ray sink for the following passes; nil removes it
func (rt *Raytracer) SetSink(sink integrator.RaySink) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.sink = sink
}

// EditTransforms runs fn on the transform table between passes
func (rt *Raytracer) EditTransforms(fn func(*transform.Table) error) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return fn(rt.transforms)
}

// EditScene runs fn on the scene between passes. Callers that change meshes
// must call Preprocess inside fn.
func (rt *Raytracer) EditScene(fn func(*scene.Scene) error) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return fn(rt.scene)
}

// RenderPass renders every pixel once using parallel processing. The
// callback, if any, is called from the calling goroutine after each tile.
func (rt *Raytracer) RenderPass(tileCallback func(TileCompletionResult)) (*Screen, RenderStats, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	rt.passes++
	start := time.Now()

	integratorInst := integrator.NewIntegrator(rt.scene, integrator.Config{
		MaxDepth:      rt.config.MaxDepth,
		Samples:       rt.config.Samples,
		ShadowSamples: rt.config.ShadowSamples,
		Debug:         rt.config.Debug,
		Epsilon:       integrator.DefaultConfig().Epsilon,
		Transforms:    rt.transforms,
		Sink:          rt.sink,
	})
	tileRenderer := NewTileRenderer(integratorInst, rt.camera, rt.screen, rt.config.Seed)

	workerPool := NewWorkerPool(tileRenderer, len(rt.tiles), rt.config.NumWorkers)
	workerPool.Start()
	defer workerPool.Stop()

	logger.Infof("pass %d: %dx%d, %d tiles, %d workers", rt.passes, rt.config.Width, rt.config.Height,
		len(rt.tiles), workerPool.GetNumWorkers())

	for i, tile := range rt.tiles {
		workerPool.SubmitTask(TileTask{Tile: tile, TaskID: i})
	}

	stats := RenderStats{
		PassNumber: rt.passes,
		Tiles:      len(rt.tiles),
		Workers:    workerPool.GetNumWorkers(),
	}

	// Wait for all tiles to complete and dispatch callbacks from this goroutine
	for i := 0; i < len(rt.tiles); i++ {
		result, ok := workerPool.GetResult()
		if !ok {
			return nil, RenderStats{}, fmt.Errorf("worker pool closed unexpectedly")
		}
		stats.merge(result.stats)

		if tileCallback != nil {
			tileCallback(TileCompletionResult{
				Tile:       rt.tiles[result.TaskID],
				Screen:     rt.screen,
				PassNumber: rt.passes,
				TileNumber: i + 1,
				TotalTiles: len(rt.tiles),
			})
		}
	}

	stats.Duration = time.Since(start)

	logger.Infof("pass %d completed in %v", rt.passes, stats.Duration)
	return rt.screen, stats, nil
}
