// Package game is the graphical front end: it drives a simulation from the
// raylib frame loop and draws it.
package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/mindurka/overdrive/camera"
	"github.com/mindurka/overdrive/components"
	"github.com/mindurka/overdrive/content"
	"github.com/mindurka/overdrive/renderer"
	"github.com/mindurka/overdrive/sim"
	"github.com/mindurka/overdrive/ui"
)

const controlsLegend = "[Space] Pause  [,/.] Speed  [Arrows] Pan  [Wheel] Zoom  [Home] Reset  [Tab] Panels  [R] Ranges  [P] Perf"

// Game holds the front-end state around one simulation.
type Game struct {
	sim *sim.Sim

	screenWidth, screenHeight float32
	camera                    *camera.Camera

	// Rendering
	grid      *renderer.GridRenderer
	buildings *renderer.BuildingRenderer
	pulses    *renderer.PulseRenderer
	ranges    map[string]float32 // projector range by block name

	// UI
	hud       *ui.HUD
	controls  *ui.ControlsPanel
	inspector *ui.Inspector
	perfPanel *ui.PerfPanel
	showPerf  bool

	selected uint32 // building id, 0 for none
}

// New creates the front end. The raylib window must already be open.
func New(s *sim.Sim) *Game {
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	mapW, mapH := s.MapSize()

	g := &Game{
		sim:          s,
		screenWidth:  w,
		screenHeight: h,
		camera:       camera.New(w, h, float32(mapW*components.TileSize), float32(mapH*components.TileSize)),

		grid:      renderer.NewGridRenderer(mapW, mapH),
		buildings: renderer.NewBuildingRenderer(),
		pulses:    renderer.NewPulseRenderer(),
		ranges:    make(map[string]float32),

		hud:       ui.NewHUD(),
		controls:  ui.NewControlsPanel(10, 100, 240),
		inspector: ui.NewInspector(int32(w)-270, 10),
		perfPanel: ui.NewPerfPanel(int32(w)-270, 10, 260),
	}

	for _, b := range s.Registry().Blocks() {
		if b.Kind == content.KindOverdrive {
			g.ranges[b.Name] = b.Overdrive.Range + b.Overdrive.PhaseRangeBoost
		}
	}
	return g
}

// Update handles input and advances the simulation by one update.
func (g *Game) Update() {
	g.handleInput()
	g.sim.Update()
	g.pulses.Add(g.sim.Pulses())
}

// Tick returns the simulation tick.
func (g *Game) Tick() int32 {
	return g.sim.Tick()
}
