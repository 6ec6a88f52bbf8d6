package ui

import (
	"fmt"
	"slices"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlsData is the state the controls panel shows.
type ControlsData struct {
	OverdriveIgnoresCheat bool
	TeamCheat             map[uint8]bool
	Paused                bool
	StepsPerUpdate        int
	// Selected building id, 0 for none
	Selected        uint32
	SelectedEnabled bool
}

// ControlsInput reports what the user changed this frame.
type ControlsInput struct {
	OverdriveIgnoresCheat *bool
	TeamCheat             map[uint8]bool // only changed teams
	TogglePause           bool
	StepsPerUpdate        int // 0 = unchanged
	SelectedEnabled       *bool
}

// Empty reports whether nothing was changed.
func (in ControlsInput) Empty() bool {
	return in.OverdriveIgnoresCheat == nil && len(in.TeamCheat) == 0 &&
		!in.TogglePause && in.StepsPerUpdate == 0 && in.SelectedEnabled == nil
}

// ControlsPanel renders the session controls with raygui widgets.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
	}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Contains reports whether a screen point is over the panel, so clicks on it
// do not select buildings behind it.
func (c *ControlsPanel) Contains(sx, sy float32, data ControlsData) bool {
	if !c.visible {
		return false
	}
	return sx >= float32(c.x) && sx < float32(c.x+c.width) &&
		sy >= float32(c.y) && sy < float32(c.y+c.height(data))
}

func (c *ControlsPanel) height(data ControlsData) int32 {
	rows := int32(4 + len(data.TeamCheat))
	if data.Selected != 0 {
		rows++
	}
	return rows*24 + c.renderer.Theme.Padding*2 + c.renderer.Theme.LineHeight
}

// Draw renders the panel and returns the user's changes.
func (c *ControlsPanel) Draw(data ControlsData) ControlsInput {
	var in ControlsInput
	if !c.visible {
		return in
	}

	r := c.renderer
	padding := r.Theme.Padding
	r.DrawPanel(c.x, c.y, c.width, c.height(data))

	x := float32(c.x + padding)
	y := float32(c.y + padding)
	rl.DrawText("Session", int32(x), int32(y), 16, rl.White)
	y += float32(r.Theme.LineHeight) + 6

	if v := gui.CheckBox(rl.Rectangle{X: x, Y: y, Width: 16, Height: 16}, "Overdrive ignores cheat", data.OverdriveIgnoresCheat); v != data.OverdriveIgnoresCheat {
		in.OverdriveIgnoresCheat = &v
	}
	y += 24

	teams := make([]uint8, 0, len(data.TeamCheat))
	for team := range data.TeamCheat {
		teams = append(teams, team)
	}
	slices.Sort(teams)
	for _, team := range teams {
		cheat := data.TeamCheat[team]
		if v := gui.CheckBox(rl.Rectangle{X: x, Y: y, Width: 16, Height: 16}, fmt.Sprintf("Team %d cheat", team), cheat); v != cheat {
			if in.TeamCheat == nil {
				in.TeamCheat = make(map[uint8]bool)
			}
			in.TeamCheat[team] = v
		}
		y += 24
	}

	if data.Selected != 0 {
		label := fmt.Sprintf("Building #%d enabled", data.Selected)
		if v := gui.CheckBox(rl.Rectangle{X: x, Y: y, Width: 16, Height: 16}, label, data.SelectedEnabled); v != data.SelectedEnabled {
			in.SelectedEnabled = &v
		}
		y += 24
	}

	pauseText := "Pause"
	if data.Paused {
		pauseText = "Resume"
	}
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: 80, Height: 20}, pauseText) {
		in.TogglePause = true
	}
	y += 24

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: 24, Height: 20}, "-") && data.StepsPerUpdate > 1 {
		in.StepsPerUpdate = data.StepsPerUpdate - 1
	}
	rl.DrawText(fmt.Sprintf("%dx", data.StepsPerUpdate), int32(x)+32, int32(y)+4, r.Theme.FontSize, r.Theme.ValueColor)
	if gui.Button(rl.Rectangle{X: x + 64, Y: y, Width: 24, Height: 20}, "+") && data.StepsPerUpdate < 10 {
		in.StepsPerUpdate = data.StepsPerUpdate + 1
	}

	return in
}
