// Package preview shows render passes in a terminal and drives the camera
// between passes.
package preview

import (
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/df07/go-bvh-raytracer/pkg/renderer"
)

// upperHalfBlock draws the top pixel in the foreground and the bottom pixel
// in the background
const upperHalfBlock = "▀"

// FrameSize returns the pixel size that fills a terminal area. Each cell
// shows two vertically stacked pixels.
func FrameSize(area uv.Rectangle) (int, int) {
	return area.Dx(), area.Dy() * 2
}

// Draw paints the screen into the given area of a terminal screen, top row of
// the image first. Pixels outside the image leave their cells untouched.
func Draw(scr uv.Screen, area uv.Rectangle, screen *renderer.Screen) {
	img := screen.ToImage()
	bounds := img.Bounds()

	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		botY := topY + 1
		if topY >= bounds.Dy() {
			break
		}

		for col := area.Min.X; col < area.Max.X; col++ {
			x := col - area.Min.X
			if x >= bounds.Dx() {
				break
			}

			cell := &uv.Cell{
				Content: upperHalfBlock,
				Width:   1,
				Style: uv.Style{
					Fg: img.RGBAAt(x, topY),
				},
			}
			if botY < bounds.Dy() {
				cell.Style.Bg = img.RGBAAt(x, botY)
			}
			scr.SetCell(col, row, cell)
		}
	}
}

