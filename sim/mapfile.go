package sim

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mindurka/overdrive/components"
	"github.com/mindurka/overdrive/content"
	"github.com/mindurka/overdrive/systems"
)

//go:embed maps/default.yaml
var defaultMapYAML []byte

// MapFile is a map as stored on disk.
type MapFile struct {
	Name      string                                  `yaml:"name"`
	Width     int                                     `yaml:"width"`
	Height    int                                     `yaml:"height"`
	Tags      map[string]string                       `yaml:"tags"`
	Teams     map[components.TeamID]systems.TeamRules `yaml:"teams"`
	Buildings []BuildingDef                           `yaml:"buildings"`
}

// BuildingDef places one building.
type BuildingDef struct {
	Block   string             `yaml:"block"`
	X       int                `yaml:"x"`
	Y       int                `yaml:"y"`
	Team    components.TeamID  `yaml:"team"`
	Graph   int32              `yaml:"graph"`
	Enabled *bool              `yaml:"enabled"` // default true
	Items   map[string]int32   `yaml:"items"`
	Liquids map[string]float32 `yaml:"liquids"`
	Supply  *SupplyDef         `yaml:"supply"`
}

// SupplyDef feeds a building from off-map.
type SupplyDef struct {
	Item       string  `yaml:"item"`
	ItemRate   float32 `yaml:"item_rate"`
	Liquid     string  `yaml:"liquid"`
	LiquidRate float32 `yaml:"liquid_rate"`
	Drain      string  `yaml:"drain"`
	DrainRate  float32 `yaml:"drain_rate"`
}

// LoadMap reads a map file, or the embedded default map if path is empty.
func LoadMap(path string) (*MapFile, error) {
	data := defaultMapYAML
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading map file: %w", err)
		}
	}
	return ParseMap(data)
}

// ParseMap decodes a map and checks every building against the standard
// block set.
func ParseMap(data []byte) (*MapFile, error) {
	var m MapFile
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing map: %w", err)
	}
	if m.Name == "" {
		return nil, fmt.Errorf("map has no name")
	}

	reg := content.Load()
	for i, b := range m.Buildings {
		if _, ok := reg.BlockByName(b.Block); !ok {
			return nil, fmt.Errorf("building %d: unknown block %q", i, b.Block)
		}
		if b.X < 0 || b.Y < 0 || (m.Width > 0 && b.X >= m.Width) || (m.Height > 0 && b.Y >= m.Height) {
			return nil, fmt.Errorf("building %d (%s): position (%d, %d) outside map", i, b.Block, b.X, b.Y)
		}
		for name := range b.Items {
			if _, ok := content.ItemByName(name); !ok {
				return nil, fmt.Errorf("building %d (%s): unknown item %q", i, b.Block, name)
			}
		}
		for name := range b.Liquids {
			if _, ok := content.LiquidByName(name); !ok {
				return nil, fmt.Errorf("building %d (%s): unknown liquid %q", i, b.Block, name)
			}
		}
		if b.Supply != nil {
			if _, err := b.Supply.component(); err != nil {
				return nil, fmt.Errorf("building %d (%s): %w", i, b.Block, err)
			}
		}
	}

	return &m, nil
}

// Rules returns the team rules carried by the map.
func (m *MapFile) Rules() *systems.Rules {
	r := &systems.Rules{Teams: make(map[components.TeamID]systems.TeamRules, len(m.Teams))}
	for team, tr := range m.Teams {
		r.Teams[team] = tr
	}
	return r
}

func (d *SupplyDef) component() (components.Supply, error) {
	s := components.Supply{
		Item:       components.NoSupply,
		ItemRate:   d.ItemRate,
		Liquid:     components.NoSupply,
		LiquidRate: d.LiquidRate,
		Drain:      components.NoSupply,
		DrainRate:  d.DrainRate,
	}
	if d.Item != "" {
		id, ok := content.ItemByName(d.Item)
		if !ok {
			return s, fmt.Errorf("unknown supply item %q", d.Item)
		}
		s.Item = int16(id)
	}
	if d.Liquid != "" {
		id, ok := content.LiquidByName(d.Liquid)
		if !ok {
			return s, fmt.Errorf("unknown supply liquid %q", d.Liquid)
		}
		s.Liquid = int16(id)
	}
	if d.Drain != "" {
		id, ok := content.ItemByName(d.Drain)
		if !ok {
			return s, fmt.Errorf("unknown drain item %q", d.Drain)
		}
		s.Drain = int16(id)
	}
	return s, nil
}
