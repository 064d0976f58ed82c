package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/df07/go-bvh-raytracer/pkg/renderer"
	"github.com/df07/go-bvh-raytracer/pkg/scene"
)

// RenderRequest represents a render request from the client
type RenderRequest struct {
	SceneRequest
	MaxDepth      int    `json:"maxDepth"`
	Samples       int    `json:"samples"`
	ShadowSamples int    `json:"shadowSamples"`
	TileSize      int    `json:"tileSize"`
	Seed          uint64 `json:"seed"`
}

// TileUpdate represents a single tile update sent via SSE. X and Y locate
// the tile's top-left corner in image coordinates.
type TileUpdate struct {
	X          int    `json:"x"`
	Y          int    `json:"y"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	ImageData  string `json:"imageData"` // Base64 encoded PNG of just this tile
	PassNumber int    `json:"passNumber"`
	TileNumber int    `json:"tileNumber"` // Current tile number in this pass (1-based)
	TotalTiles int    `json:"totalTiles"`
}

// PassUpdate is sent once the pass has finished
type PassUpdate struct {
	PassNumber       int     `json:"passNumber"`
	ElapsedMs        int64   `json:"elapsedMs"`
	TotalPixels      int     `json:"totalPixels"`
	BlackPixels      int     `json:"blackPixels"`
	AverageLuminance float64 `json:"averageLuminance"`
	Workers          int     `json:"workers"`
	Triangles        int     `json:"triangles"`
	BVHNodes         int     `json:"bvhNodes"`
	ImageData        string  `json:"imageData"` // Base64 encoded PNG of the whole frame
}

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "tile", "passComplete", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// RenderingPipeline contains the configured scene and raytracer
type RenderingPipeline struct {
	Scene     *scene.Scene
	Raytracer *renderer.Raytracer
}

// handleRender renders one pass and streams every finished tile via SSE
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)

	ctx := r.Context()

	// All writes to w happen on the writer goroutine. The console channel is
	// closed and drained before the final event so console output never
	// trails it.
	sseEventChan := make(chan SSEEvent, 100)
	consoleChan := make(chan ConsoleMessage, 50)
	written := make(chan struct{})
	forwarded := make(chan struct{})
	go func() {
		s.writeSSEEvents(ctx, w, sseEventChan)
		close(written)
	}()
	go func() {
		s.streamConsoleMessages(ctx, consoleChan, sseEventChan)
		close(forwarded)
	}()
	var consoleOnce sync.Once
	closeConsole := func() {
		consoleOnce.Do(func() {
			close(consoleChan)
			<-forwarded
		})
	}
	defer func() {
		closeConsole()
		close(sseEventChan)
		<-written
	}()

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	webLogger := NewWebLogger(fmt.Sprintf("render-%d", time.Now().UnixNano()), consoleChan)
	if req.Width*req.Height > 800*600 && req.Samples > 16 {
		webLogger.Warningf("large image with %d indirect samples may render slowly", req.Samples)
	}

	pipeline, err := s.setupRenderingPipeline(req, webLogger)
	if err != nil {
		closeConsole()
		s.handleError(ctx, sseEventChan, err.Error())
		return
	}

	startTime := time.Now()
	screen, stats, err := pipeline.Raytracer.RenderPass(func(result renderer.TileCompletionResult) {
		s.handleTileUpdate(ctx, sseEventChan, result)
	})
	if err != nil {
		closeConsole()
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Rendering failed: %v", err))
		return
	}
	webLogger.Printf("pass %d finished in %v", stats.PassNumber, stats.Duration)
	closeConsole()

	s.handlePassComplete(ctx, sseEventChan, screen, stats, pipeline.Scene, startTime)
	s.sendEvent(ctx, sseEventChan, SSEEvent{Type: "complete", Data: "Rendering completed"})
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// writeSSEEvents writes events until the channel is closed. After the client
// goes away remaining events are drained without writing.
func (s *Server) writeSSEEvents(ctx context.Context, w http.ResponseWriter, sseEventChan <-chan SSEEvent) {
	flusher, _ := w.(http.Flusher)
	failed := false
	for event := range sseEventChan {
		if failed || ctx.Err() != nil {
			continue
		}
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
			logger.Debugf("client write failed: %v", err)
			failed = true
			continue
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}

// streamConsoleMessages forwards console messages as SSE events until the
// console channel is closed
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan <-chan ConsoleMessage, sseEventChan chan<- SSEEvent) {
	for consoleMsg := range consoleChan {
		data, err := json.Marshal(consoleMsg)
		if err != nil {
			logger.Errorf("marshaling console message: %v", err)
			continue
		}
		select {
		case sseEventChan <- SSEEvent{Type: "console", Data: string(data)}:
		case <-ctx.Done():
		default:
			// Channel full, skip message to avoid blocking
		}
	}
}

// setupRenderingPipeline creates and configures the scene and raytracer
func (s *Server) setupRenderingPipeline(req *RenderRequest, webLogger *WebLogger) (*RenderingPipeline, error) {
	sceneObj, err := s.createScene(req.Scene)
	if err != nil {
		return nil, err
	}
	stats := sceneObj.BVH.Stats()
	webLogger.Printf("scene %s: %d meshes, %d triangles, %d BVH nodes built in %v",
		sceneObj.Name, len(sceneObj.Meshes), stats.Primitives, stats.Nodes, stats.BuildTime)

	config := renderer.DefaultConfig()
	config.Width = req.Width
	config.Height = req.Height
	config.MaxDepth = req.MaxDepth
	config.Samples = req.Samples
	config.ShadowSamples = req.ShadowSamples
	config.TileSize = req.TileSize
	config.Seed = req.Seed

	camera := renderer.NewPinholeCamera(sceneObj.CameraConfig, config.AspectRatio())
	return &RenderingPipeline{
		Scene:     sceneObj,
		Raytracer: renderer.NewRaytracer(sceneObj, camera, config),
	}, nil
}

// handlePassComplete sends the finished frame with its statistics
func (s *Server) handlePassComplete(ctx context.Context, sseEventChan chan<- SSEEvent, screen *renderer.Screen,
	stats renderer.RenderStats, sceneObj *scene.Scene, startTime time.Time) {

	imageData, err := imageToBase64PNG(screen.ToImage())
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("encoding image: %v", err))
		return
	}

	data, err := json.Marshal(PassUpdate{
		PassNumber:       stats.PassNumber,
		ElapsedMs:        time.Since(startTime).Milliseconds(),
		TotalPixels:      stats.TotalPixels,
		BlackPixels:      stats.BlackPixels,
		AverageLuminance: stats.AverageLuminance,
		Workers:          stats.Workers,
		Triangles:        sceneObj.TriangleCount(),
		BVHNodes:         sceneObj.BVH.Stats().Nodes,
		ImageData:        imageData,
	})
	if err != nil {
		logger.Errorf("marshaling pass update: %v", err)
		return
	}
	s.sendEvent(ctx, sseEventChan, SSEEvent{Type: "passComplete", Data: string(data)})
}

// handleTileUpdate encodes a finished tile and sends it
func (s *Server) handleTileUpdate(ctx context.Context, sseEventChan chan<- SSEEvent, tileResult renderer.TileCompletionResult) {
	if ctx.Err() != nil {
		return
	}

	bounds := tileResult.Tile.Bounds
	tileData, err := imageToBase64PNG(tileResult.Screen.RegionImage(bounds))
	if err != nil {
		logger.Errorf("encoding tile %d: %v", tileResult.Tile.ID, err)
		return
	}

	data, err := json.Marshal(TileUpdate{
		X:          bounds.Min.X,
		Y:          tileResult.Screen.Height() - bounds.Max.Y,
		Width:      bounds.Dx(),
		Height:     bounds.Dy(),
		ImageData:  tileData,
		PassNumber: tileResult.PassNumber,
		TileNumber: tileResult.TileNumber,
		TotalTiles: tileResult.TotalTiles,
	})
	if err != nil {
		logger.Errorf("marshaling tile update: %v", err)
		return
	}
	s.sendEvent(ctx, sseEventChan, SSEEvent{Type: "tile", Data: string(data)})
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	req := &RenderRequest{}
	if err := s.parseCommonSceneParams(r, &req.SceneRequest); err != nil {
		return nil, err
	}

	defaults := renderer.DefaultConfig()
	values := r.URL.Query()
	var err error
	if req.MaxDepth, err = parseIntParam(values, "maxDepth", defaults.MaxDepth, 1, 16); err != nil {
		return nil, err
	}
	if req.Samples, err = parseIntParam(values, "samples", defaults.Samples, 0, 1024); err != nil {
		return nil, err
	}
	if req.ShadowSamples, err = parseIntParam(values, "shadowSamples", defaults.ShadowSamples, 1, 1024); err != nil {
		return nil, err
	}
	if req.TileSize, err = parseIntParam(values, "tileSize", DefaultTileSize, 4, 512); err != nil {
		return nil, err
	}
	if req.Seed, err = parseUintParam(values, "seed", defaults.Seed); err != nil {
		return nil, err
	}
	return req, nil
}

// sendEvent queues an event unless the client has gone away
func (s *Server) sendEvent(ctx context.Context, sseEventChan chan<- SSEEvent, event SSEEvent) {
	select {
	case sseEventChan <- event:
	case <-ctx.Done():
	}
}

// handleError sends an error event to the SSE channel
func (s *Server) handleError(ctx context.Context, sseEventChan chan<- SSEEvent, message string) {
	s.sendEvent(ctx, sseEventChan, SSEEvent{Type: "error", Data: message})
}
