package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/mindurka/overdrive/camera"
	"github.com/mindurka/overdrive/components"
	"github.com/mindurka/overdrive/telemetry"
)

var teamColors = []rl.Color{
	{R: 255, G: 211, B: 127, A: 255}, // sharded
	{R: 242, G: 85, B: 85, A: 255},   // crux
	{R: 102, G: 153, B: 255, A: 255},
	{R: 84, G: 209, B: 105, A: 255},
}

// TeamColor returns the display color of a team.
func TeamColor(team uint8) rl.Color {
	return teamColors[int(team)%len(teamColors)]
}

// KindColor returns the fill color of a block kind.
func KindColor(kind string) rl.Color {
	switch kind {
	case "overdrive":
		return rl.Color{R: 160, G: 110, B: 220, A: 255}
	case "generator":
		return rl.Color{R: 200, G: 120, B: 60, A: 255}
	case "solar":
		return rl.Color{R: 70, G: 110, B: 170, A: 255}
	case "battery":
		return rl.Color{R: 190, G: 190, B: 90, A: 255}
	case "crafter":
		return rl.Color{R: 120, G: 130, B: 140, A: 255}
	}
	return rl.Gray
}

// BuildingRenderer draws buildings from a snapshot.
type BuildingRenderer struct {
	ShowRanges bool
}

// NewBuildingRenderer creates a new building renderer.
func NewBuildingRenderer() *BuildingRenderer {
	return &BuildingRenderer{ShowRanges: true}
}

// Draw renders every visible building. Blocks dim with efficiency, carry a
// team outline and an efficiency bar along their bottom edge. selected is
// the building id to highlight, 0 for none.
func (r *BuildingRenderer) Draw(cam *camera.Camera, buildings []telemetry.BuildingState, ranges map[string]float32, selected uint32) {
	for i := range buildings {
		b := &buildings[i]
		half := float32(b.Size*components.TileSize) / 2

		if r.ShowRanges && b.Kind == "overdrive" && b.Heat > 0.01 {
			if radius, ok := ranges[b.Block]; ok && cam.IsVisible(b.X, b.Y, radius) {
				sx, sy := cam.WorldToScreen(b.X, b.Y)
				color := TeamColor(b.Team)
				color.A = uint8(20 + b.Heat*30)
				rl.DrawCircle(int32(sx), int32(sy), radius*cam.Zoom, color)
			}
		}

		if !cam.IsVisible(b.X, b.Y, half) {
			continue
		}

		sx, sy := cam.WorldToScreen(b.X-half, b.Y-half)
		size := half * 2 * cam.Zoom
		rect := rl.Rectangle{X: sx + 1, Y: sy + 1, Width: size - 2, Height: size - 2}

		fill := KindColor(b.Kind)
		if !b.Enabled {
			fill = rl.Color{R: 60, G: 60, B: 60, A: 255}
		} else {
			fill = rl.ColorBrightness(fill, (b.Efficiency-1)*0.5)
		}
		rl.DrawRectangleRec(rect, fill)

		outline := TeamColor(b.Team)
		if b.ID == selected {
			outline = rl.White
		}
		rl.DrawRectangleLinesEx(rect, max(1, cam.Zoom/2), outline)

		if b.TimeScale > 1 {
			rl.DrawRectangleLinesEx(rl.Rectangle{X: rect.X + 3, Y: rect.Y + 3, Width: rect.Width - 6, Height: rect.Height - 6},
				1, rl.Color{R: 220, G: 160, B: 255, A: 200})
		}

		bar := rect.Height / 8
		rl.DrawRectangleRec(rl.Rectangle{X: rect.X, Y: rect.Y + rect.Height - bar, Width: rect.Width, Height: bar},
			rl.Color{R: 20, G: 20, B: 20, A: 200})
		rl.DrawRectangleRec(rl.Rectangle{X: rect.X, Y: rect.Y + rect.Height - bar, Width: rect.Width * b.Efficiency, Height: bar},
			efficiencyColor(b.Efficiency))
	}
}

func efficiencyColor(eff float32) rl.Color {
	switch {
	case eff < 0.3:
		return rl.Color{R: 200, G: 100, B: 100, A: 255}
	case eff < 0.9:
		return rl.Color{R: 200, G: 180, B: 100, A: 255}
	}
	return rl.Color{R: 100, G: 200, B: 100, A: 255}
}

// BuildingAt returns the building covering world point (wx, wy).
func BuildingAt(buildings []telemetry.BuildingState, wx, wy float32) (*telemetry.BuildingState, bool) {
	for i := range buildings {
		b := &buildings[i]
		half := float32(b.Size*components.TileSize) / 2
		if wx >= b.X-half && wx < b.X+half && wy >= b.Y-half && wy < b.Y+half {
			return b, true
		}
	}
	return nil, false
}
