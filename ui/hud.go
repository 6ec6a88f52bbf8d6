package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/mindurka/overdrive/systems"
	"github.com/mindurka/overdrive/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Map              string
	Gamemode         string
	Tick             int32
	Speed            int
	FPS              int32
	Paused           bool
	Buildings        int
	ProjectorEffMean float32
	Satisfaction     float32 // lowest satisfaction across graphs with demand
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(fmt.Sprintf("%s (%s)", data.Map, data.Gamemode), 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Buildings: %d | Projector eff: %.2f | Min satisfaction: %.2f",
			data.Buildings, data.ProjectorEffMean, data.Satisfaction),
		10, 35, 16, rl.LightGray,
	)

	rl.DrawText(
		fmt.Sprintf("Tick: %d | Speed: %dx | FPS: %d", data.Tick, data.Speed, data.FPS),
		10, 55, 16, rl.LightGray,
	)

	statusText := "Running"
	if data.Paused {
		statusText = "PAUSED"
	}
	rl.DrawText(statusText, 10, 75, 16, rl.Yellow)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders step timing per phase.
type PerfPanel struct {
	renderer *Renderer
	names    *systems.SystemRegistry
	x, y     int32
	width    int32
}

// NewPerfPanel creates a new perf panel.
func NewPerfPanel(x, y, width int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		names:    systems.NewSystemRegistry(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	r := p.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	phases := p.names.All()
	height := lineHeight*int32(len(phases)+2) + padding*2
	r.DrawPanel(p.x, p.y, p.width, height)

	y := p.y + padding
	y = r.DrawSectionHeader(p.x+padding, y, "Step timing")
	y = r.DrawLabelValue(p.x+padding, y, "Tick", fmt.Sprintf("%v (%.0f tps)", stats.AvgTickDuration, stats.TicksPerSecond))
	for _, phase := range phases {
		y = r.DrawLabelValue(p.x+padding, y, phase.Name, fmt.Sprintf("%v %.1f%%", stats.PhaseAvg[phase.ID], stats.PhasePct[phase.ID]))
	}
}
