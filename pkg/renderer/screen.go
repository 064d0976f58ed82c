package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"golang.org/x/image/bmp"

	"github.com/df07/go-bvh-raytracer/pkg/core"
)

// Screen is the pixel buffer a render pass writes into. Pixel (0, 0) is the
// bottom-left corner; rows are stored top to bottom.
type Screen struct {
	width  int
	height int
	pixels []core.Vec3
}

// NewScreen creates a black screen
func NewScreen(width, height int) *Screen {
	return &Screen{
		width:  width,
		height: height,
		pixels: make([]core.Vec3, width*height),
	}
}

// Width returns the width in pixels
func (s *Screen) Width() int {
	return s.width
}

// Height returns the height in pixels
func (s *Screen) Height() int {
	return s.height
}

// index maps bottom-left coordinates to the row-major buffer
func (s *Screen) index(x, y int) (int, bool) {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return 0, false
	}
	return (s.height-1-y)*s.width + x, true
}

// SetPixel stores a color. Coordinates outside the screen are ignored.
// Distinct pixels may be set concurrently.
func (s *Screen) SetPixel(x, y int, c core.Vec3) {
	if i, ok := s.index(x, y); ok {
		s.pixels[i] = c
	}
}

// Pixel returns the color at (x, y), black outside the screen
func (s *Screen) Pixel(x, y int) core.Vec3 {
	if i, ok := s.index(x, y); ok {
		return s.pixels[i]
	}
	return core.Vec3{}
}

// Clear sets every pixel to black
func (s *Screen) Clear() {
	clear(s.pixels)
}

// ToImage converts the screen to an 8 bit per channel image with the usual
// top-left origin
func (s *Screen) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	for row := 0; row < s.height; row++ {
		for x := 0; x < s.width; x++ {
			img.SetRGBA(x, row, vec3ToColor(s.pixels[row*s.width+x]))
		}
	}
	return img
}

// RegionImage converts the pixels inside bounds, given in screen coordinates,
// to an image whose top-left pixel is the region's top-left corner
func (s *Screen) RegionImage(bounds image.Rectangle) *image.RGBA {
	bounds = bounds.Intersect(image.Rect(0, 0, s.width, s.height))
	img := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := bounds.Max.Y - 1 - y
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			img.SetRGBA(x-bounds.Min.X, row, vec3ToColor(s.Pixel(x, y)))
		}
	}
	return img
}

// WriteBMP encodes the screen as a 24 bit bitmap
func (s *Screen) WriteBMP(w io.Writer) error {
	if err := bmp.Encode(w, s.ToImage()); err != nil {
		return fmt.Errorf("encoding bitmap: %w", err)
	}
	return nil
}

// WritePNG encodes the screen as a PNG
func (s *Screen) WritePNG(w io.Writer) error {
	if err := png.Encode(w, s.ToImage()); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}

// vec3ToColor converts a color to RGBA, clamping each channel to [0, 1]
func vec3ToColor(c core.Vec3) color.RGBA {
	c = c.Clamp(0, 1)
	return color.RGBA{
		R: uint8(255 * c.X),
		G: uint8(255 * c.Y),
		B: uint8(255 * c.Z),
		A: 255,
	}
}
