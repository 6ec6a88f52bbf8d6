package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mindurka/overdrive/systems"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot is a point-in-time view of the simulation, served by the status
// server and written next to bookmarks.
type Snapshot struct {
	Version int    `json:"version"`
	Map     string `json:"map"`
	Tick    int32  `json:"tick"`

	Gamemode              string `json:"gamemode"`
	OverdriveIgnoresCheat bool   `json:"overdrive_ignores_cheat"`

	Buildings []BuildingState      `json:"buildings"`
	Graphs    []systems.GraphStats `json:"graphs"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// BuildingState holds one building's resolved state.
type BuildingState struct {
	ID    uint32 `json:"id"`
	Block string `json:"block"`
	Kind  string `json:"kind"`
	Team  uint8  `json:"team"`
	Size  int    `json:"size"`
	Graph int32  `json:"graph"`

	X float32 `json:"x"`
	Y float32 `json:"y"`

	Enabled             bool    `json:"enabled"`
	Cheating            bool    `json:"cheating"`
	Efficiency          float32 `json:"efficiency"`
	OptionalEfficiency  float32 `json:"optional_efficiency"`
	PotentialEfficiency float32 `json:"potential_efficiency"`
	ShouldConsumePower  bool    `json:"should_consume_power"`
	PowerStatus         float32 `json:"power_status"`
	TimeScale           float32 `json:"time_scale"`

	// Projectors only
	Heat      float32 `json:"heat,omitempty"`
	PhaseHeat float32 `json:"phase_heat,omitempty"`

	Items   map[string]int32   `json:"items,omitempty"`
	Liquids map[string]float32 `json:"liquids,omitempty"`
}

// Projectors returns the efficiency of every overdrive building.
func (s *Snapshot) Projectors() []float64 {
	var out []float64
	for _, b := range s.Buildings {
		if b.Kind == "overdrive" {
			out = append(out, float64(b.Efficiency))
		}
	}
	return out
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, sanitized)
	}
	path := filepath.Join(dir, name+".json")

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	return &snapshot, nil
}
