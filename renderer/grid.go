// Package renderer draws the map, its buildings and overdrive pulses with
// raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/mindurka/overdrive/camera"
	"github.com/mindurka/overdrive/components"
)

var (
	floorColor = rl.Color{R: 28, G: 30, B: 36, A: 255}
	gridColor  = rl.Color{R: 44, G: 48, B: 56, A: 255}
)

// GridRenderer draws the map floor and tile grid.
type GridRenderer struct {
	width, height int // tiles
}

// NewGridRenderer creates a grid renderer for a map of the given size in
// tiles.
func NewGridRenderer(width, height int) *GridRenderer {
	return &GridRenderer{width: width, height: height}
}

// Draw renders the floor and, when zoomed in far enough to read, the grid.
func (g *GridRenderer) Draw(cam *camera.Camera) {
	x0, y0 := cam.WorldToScreen(0, 0)
	x1, y1 := cam.WorldToScreen(float32(g.width*components.TileSize), float32(g.height*components.TileSize))
	rl.DrawRectangle(int32(x0), int32(y0), int32(x1-x0), int32(y1-y0), floorColor)

	tile := components.TileSize * cam.Zoom
	if tile < 6 {
		return
	}
	for tx := 0; tx <= g.width; tx++ {
		sx := x0 + float32(tx)*tile
		rl.DrawLine(int32(sx), int32(y0), int32(sx), int32(y1), gridColor)
	}
	for ty := 0; ty <= g.height; ty++ {
		sy := y0 + float32(ty)*tile
		rl.DrawLine(int32(x0), int32(sy), int32(x1), int32(sy), gridColor)
	}
}
