package game

import (
	"github.com/mindurka/overdrive/renderer"
	"github.com/mindurka/overdrive/telemetry"
)

// selectAt selects the building under a screen point, or clears the
// selection when there is none. Clicks on the controls panel are ignored.
func (g *Game) selectAt(sx, sy float32) {
	snap := g.sim.Latest()
	if snap == nil || g.controls.Contains(sx, sy, g.controlsData(snap)) {
		return
	}
	wx, wy := g.camera.ScreenToWorld(sx, sy)
	if b, ok := renderer.BuildingAt(snap.Buildings, wx, wy); ok {
		g.selected = b.ID
		return
	}
	g.selected = 0
}

// selectedBuilding returns the selected building in a snapshot.
func (g *Game) selectedBuilding(snap *telemetry.Snapshot) *telemetry.BuildingState {
	if g.selected == 0 {
		return nil
	}
	for i := range snap.Buildings {
		if snap.Buildings[i].ID == g.selected {
			return &snap.Buildings[i]
		}
	}
	return nil
}
