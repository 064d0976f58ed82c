package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/urfave/cli"

	"github.com/df07/go-bvh-raytracer/pkg/preview"
	"github.com/df07/go-bvh-raytracer/pkg/renderer"
	"github.com/df07/go-bvh-raytracer/pkg/scene"
)

const (
	// Radians of orbit per key press
	rotateStep = 0.15
	// Distance factor per zoom key press
	zoomStep = 0.9
)

// PreviewScene renders a scene into the terminal and re-renders whenever the
// orbit camera moves.
func PreviewScene(ctx *cli.Context) error {
	setupLogging(ctx)

	config, err := renderConfig(ctx)
	if err != nil {
		logger.Error(err)
		return err
	}

	s, err := loadScene(context.Background(), ctx.Args().First(), ctx.StringSlice("mesh"))
	if err != nil {
		logger.Error(err)
		return err
	}

	term := uv.DefaultTerminal()
	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	if err := term.Resize(width, height); err != nil {
		return fmt.Errorf("resize terminal: %w", err)
	}

	cleanup := func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	fps := ctx.Int("fps")
	orbit := preview.NewOrbit(s.CameraConfig, fps)

	// Context for clean shutdown
	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-runCtx.Done():
		}
	}()

	// Orbit edits and resizes arrive from the event goroutine
	events := make(chan func(), 16)
	go func() {
		for ev := range term.Events() {
			var edit func()
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				w, h := ev.Width, ev.Height
				edit = func() {
					width, height = w, h
					term.Erase()
					term.Resize(width, height)
				}
			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("ctrl+c", "q", "escape"):
					cancel()
					return
				case ev.MatchString("a", "left"):
					edit = func() { orbit.Rotate(-rotateStep, 0) }
				case ev.MatchString("d", "right"):
					edit = func() { orbit.Rotate(rotateStep, 0) }
				case ev.MatchString("w", "up"):
					edit = func() { orbit.Rotate(0, rotateStep) }
				case ev.MatchString("s", "down"):
					edit = func() { orbit.Rotate(0, -rotateStep) }
				case ev.MatchString("+", "="):
					edit = func() { orbit.Zoom(zoomStep) }
				case ev.MatchString("-", "_"):
					edit = func() { orbit.Zoom(1 / zoomStep) }
				case ev.MatchString("r"):
					edit = orbit.Reset
				}
			}
			if edit != nil {
				select {
				case events <- edit:
				case <-runCtx.Done():
					return
				}
			}
		}
	}()

	frame := time.Second / time.Duration(max(fps, 1))
	var rt *renderer.Raytracer
	dirty := true
	for {
		select {
		case <-runCtx.Done():
			return nil
		case edit := <-events:
			edit()
			dirty = true
			if rt != nil {
				w, h := preview.FrameSize(term.Bounds())
				if w != rt.Config().Width || h != rt.Config().Height {
					rt = nil
				}
			}
			continue
		case <-time.After(frame):
		}

		moving := !orbit.Settled()
		orbit.Update()
		if !moving && !dirty {
			continue
		}
		dirty = false

		if rt == nil {
			rt = newPreviewRaytracer(s, orbit.Camera(), config, term.Bounds())
		}
		rt.SetCamera(renderer.NewPinholeCamera(orbit.Camera(), rt.Config().AspectRatio()))

		screen, stats, err := rt.RenderPass(nil)
		if err != nil {
			return err
		}
		preview.Draw(term, term.Bounds(), screen)
		if err := term.Display(); err != nil {
			return fmt.Errorf("display: %w", err)
		}
		logger.Debugf("preview pass %d in %v", stats.PassNumber, stats.Duration)
	}
}

// newPreviewRaytracer sizes a raytracer to fill the terminal area
func newPreviewRaytracer(s *scene.Scene, camera scene.CameraConfig, config renderer.Config, area uv.Rectangle) *renderer.Raytracer {
	config.Width, config.Height = preview.FrameSize(area)
	config.Width = max(config.Width, 1)
	config.Height = max(config.Height, 1)
	return renderer.NewRaytracer(s, renderer.NewPinholeCamera(camera, config.AspectRatio()), config)
}
