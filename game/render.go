package game

import (
	"log/slog"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/stat"

	"github.com/mindurka/overdrive/components"
	"github.com/mindurka/overdrive/telemetry"
	"github.com/mindurka/overdrive/ui"
)

// Draw renders the latest snapshot and applies changes made with the
// controls panel.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: 18, G: 18, B: 24, A: 255})

	snap := g.sim.Latest()
	if snap == nil {
		rl.EndDrawing()
		return
	}

	g.grid.Draw(g.camera)
	g.buildings.Draw(g.camera, snap.Buildings, g.ranges, g.selected)
	g.pulses.Draw(g.camera)

	g.hud.Draw(g.hudData(snap))
	g.hud.DrawControls(int32(g.screenHeight), controlsLegend)

	data := g.controlsData(snap)
	g.applyControls(g.controls.Draw(data))

	if g.showPerf {
		g.perfPanel.Draw(g.sim.PerfStats())
	} else if b := g.selectedBuilding(snap); b != nil {
		g.inspector.Draw(b)
	}

	rl.EndDrawing()
	g.sim.RecordFrame()
}

func (g *Game) hudData(snap *telemetry.Snapshot) ui.HUDData {
	var effs []float64
	for i := range snap.Buildings {
		if snap.Buildings[i].Kind == "overdrive" {
			effs = append(effs, float64(snap.Buildings[i].Efficiency))
		}
	}
	var mean float64
	if len(effs) > 0 {
		mean = stat.Mean(effs, nil)
	}

	satisfaction := float32(math.NaN())
	for _, gs := range snap.Graphs {
		if gs.Needed > 0 && (math.IsNaN(float64(satisfaction)) || gs.Satisfaction < satisfaction) {
			satisfaction = gs.Satisfaction
		}
	}
	if math.IsNaN(float64(satisfaction)) {
		satisfaction = 1
	}

	return ui.HUDData{
		Map:              snap.Map,
		Gamemode:         snap.Gamemode,
		Tick:             snap.Tick,
		Speed:            g.sim.StepsPerUpdate(),
		FPS:              rl.GetFPS(),
		Paused:           g.sim.Paused(),
		Buildings:        len(snap.Buildings),
		ProjectorEffMean: float32(mean),
		Satisfaction:     satisfaction,
	}
}

func (g *Game) controlsData(snap *telemetry.Snapshot) ui.ControlsData {
	data := ui.ControlsData{
		OverdriveIgnoresCheat: snap.OverdriveIgnoresCheat,
		TeamCheat:             make(map[uint8]bool),
		Paused:                g.sim.Paused(),
		StepsPerUpdate:        g.sim.StepsPerUpdate(),
	}
	for team, tr := range g.sim.Teams() {
		data.TeamCheat[uint8(team)] = tr.Cheat
	}
	if b := g.selectedBuilding(snap); b != nil {
		data.Selected = b.ID
		data.SelectedEnabled = b.Enabled
	}
	return data
}

// applyControls hands panel changes to the simulation. They take effect
// from the next tick.
func (g *Game) applyControls(in ui.ControlsInput) {
	if in.Empty() {
		return
	}
	if in.OverdriveIgnoresCheat != nil {
		g.sim.SetOverdriveIgnoresCheat(*in.OverdriveIgnoresCheat)
	}
	for team, cheat := range in.TeamCheat {
		g.sim.SetTeamCheat(components.TeamID(team), cheat)
	}
	if in.TogglePause {
		g.sim.SetPaused(!g.sim.Paused())
	}
	if in.StepsPerUpdate > 0 {
		g.sim.SetStepsPerUpdate(in.StepsPerUpdate)
	}
	if in.SelectedEnabled != nil && g.selected != 0 {
		if err := g.sim.SetEnabled(g.selected, *in.SelectedEnabled); err != nil {
			slog.Warn("command failed", "action", "set_enabled", "id", g.selected, "error", err)
		}
	}
}
