package ui

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/mindurka/overdrive/telemetry"
)

func building(data any) *telemetry.BuildingState {
	return data.(*telemetry.BuildingState)
}

func isProjector(data any) bool {
	return building(data).Kind == "overdrive"
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

// BuildingPanel lays out the inspector for one building.
var BuildingPanel = PanelDescriptor{
	Width: 260,
	Sections: []SectionDescriptor{
		{
			Fields: []FieldDescriptor{
				{Label: "Block", Widget: WidgetText, TextGetter: func(d any) string {
					b := building(d)
					return fmt.Sprintf("%s #%d", b.Block, b.ID)
				}},
				{Label: "Team", Widget: WidgetText, TextGetter: func(d any) string {
					return fmt.Sprintf("%d", building(d).Team)
				}},
				{Label: "Graph", Widget: WidgetText, TextGetter: func(d any) string {
					return fmt.Sprintf("%d", building(d).Graph)
				}},
				{Label: "Enabled", Widget: WidgetText, TextGetter: func(d any) string { return yesNo(building(d).Enabled) }},
				{Label: "Cheating", Widget: WidgetText, TextGetter: func(d any) string { return yesNo(building(d).Cheating) }},
			},
		},
		{
			Title: "Efficiency",
			Fields: []FieldDescriptor{
				{Label: "Efficiency", Widget: WidgetBar, Getter: func(d any) float32 { return building(d).Efficiency }},
				{Label: "Optional", Widget: WidgetBar, Getter: func(d any) float32 { return building(d).OptionalEfficiency }},
				{Label: "Potential", Widget: WidgetBar, Getter: func(d any) float32 { return building(d).PotentialEfficiency }},
				{Label: "Power", Widget: WidgetBar, Getter: func(d any) float32 { return building(d).PowerStatus }},
				{Label: "Wants power", Widget: WidgetText, TextGetter: func(d any) string {
					return yesNo(building(d).ShouldConsumePower)
				}},
				{Label: "Time scale", Widget: WidgetText, Format: "%.2fx", Getter: func(d any) float32 { return building(d).TimeScale }},
			},
		},
		{
			Title:   "Projector",
			Visible: isProjector,
			Fields: []FieldDescriptor{
				{Label: "Heat", Widget: WidgetBar, Getter: func(d any) float32 { return building(d).Heat }},
				{Label: "Phase heat", Widget: WidgetBar, Getter: func(d any) float32 { return building(d).PhaseHeat }},
			},
		},
		{
			Title: "Storage",
			Visible: func(d any) bool {
				b := building(d)
				return len(b.Items) > 0 || len(b.Liquids) > 0
			},
			Fields: []FieldDescriptor{
				{Label: "Items", Widget: WidgetText, TextGetter: func(d any) string {
					items := building(d).Items
					parts := make([]string, 0, len(items))
					for _, name := range slices.Sorted(maps.Keys(items)) {
						parts = append(parts, fmt.Sprintf("%s %d", name, items[name]))
					}
					return strings.Join(parts, ", ")
				}},
				{Label: "Liquids", Widget: WidgetText, TextGetter: func(d any) string {
					liquids := building(d).Liquids
					parts := make([]string, 0, len(liquids))
					for _, name := range slices.Sorted(maps.Keys(liquids)) {
						parts = append(parts, fmt.Sprintf("%s %.1f", name, liquids[name]))
					}
					return strings.Join(parts, ", ")
				}},
			},
		},
	},
}

// Inspector renders the building inspection panel.
type Inspector struct {
	renderer *Renderer
	x, y     int32
}

// NewInspector creates a new inspector panel.
func NewInspector(x, y int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the inspector position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// Draw renders the inspector for a building and returns the panel's bottom
// edge.
func (ins *Inspector) Draw(b *telemetry.BuildingState) int32 {
	return ins.renderer.DrawPanelDescriptor(ins.x, ins.y, BuildingPanel, b)
}
