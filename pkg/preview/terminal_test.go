package preview

import (
	"image/color"
	"testing"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/renderer"
)

func TestFrameSize(t *testing.T) {
	w, h := FrameSize(uv.Rect(2, 1, 80, 24))
	if w != 80 || h != 48 {
		t.Errorf("FrameSize = %dx%d, expected 80x48", w, h)
	}
}

func TestDraw(t *testing.T) {
	// 2x3 image: y=2 is the top row
	screen := renderer.NewScreen(2, 3)
	screen.SetPixel(0, 2, core.NewVec3(1, 0, 0))
	screen.SetPixel(0, 1, core.NewVec3(0, 1, 0))
	screen.SetPixel(1, 0, core.NewVec3(0, 0, 1))

	buf := uv.NewScreenBuffer(4, 4)
	Draw(buf, uv.Rect(1, 1, 3, 3), screen)

	red := color.RGBA{255, 0, 0, 255}
	green := color.RGBA{0, 255, 0, 255}
	blue := color.RGBA{0, 0, 255, 255}
	black := color.RGBA{0, 0, 0, 255}

	tests := []struct {
		name   string
		x, y   int
		fg, bg color.Color
	}{
		{"top left pair", 1, 1, red, green},
		{"top right pair", 2, 1, black, black},
		{"bottom row without pair", 1, 2, black, nil},
		{"bottom right", 2, 2, blue, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cell := buf.CellAt(tt.x, tt.y)
			if cell == nil || cell.Content != upperHalfBlock {
				t.Fatalf("Expected half block at (%d,%d), got %+v", tt.x, tt.y, cell)
			}
			if cell.Style.Fg != tt.fg {
				t.Errorf("Fg = %v, expected %v", cell.Style.Fg, tt.fg)
			}
			if cell.Style.Bg != tt.bg {
				t.Errorf("Bg = %v, expected %v", cell.Style.Bg, tt.bg)
			}
		})
	}

	// Cells outside the image are left alone
	for _, p := range [][2]int{{0, 0}, {3, 1}, {1, 3}} {
		if cell := buf.CellAt(p[0], p[1]); cell != nil && cell.Content == upperHalfBlock {
			t.Errorf("Cell (%d,%d) should not be drawn", p[0], p[1])
		}
	}
}
