package sim

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mindurka/overdrive/config"
	"github.com/mindurka/overdrive/settings"
	"github.com/mindurka/overdrive/storage"
	"github.com/mindurka/overdrive/telemetry"
)

func init() {
	config.MustInit("")
}

// Building ids in the default map.
const (
	teamZeroSmelter    = 15
	teamOneProjector   = 18
	defaultMapBuilding = 20
)

func newTestSim(t *testing.T, opts Options) *Sim {
	t.Helper()
	s, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoadMap_Default(t *testing.T) {
	m, err := LoadMap("")
	if err != nil {
		t.Fatalf("LoadMap: %v", err)
	}
	if m.Name != "proving-grounds" {
		t.Errorf("name = %q", m.Name)
	}
	if len(m.Buildings) != defaultMapBuilding {
		t.Errorf("buildings = %d, want %d", len(m.Buildings), defaultMapBuilding)
	}
	if !m.Rules().Cheat(1) || m.Rules().Cheat(0) {
		t.Error("team cheat rules not loaded")
	}
}

func TestParseMap_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"no name", "width: 4\n", "no name"},
		{"unknown block", "name: m\nbuildings:\n  - {block: mender, x: 0, y: 0}\n", "unknown block"},
		{"outside map", "name: m\nwidth: 4\nheight: 4\nbuildings:\n  - {block: battery, x: 4, y: 0}\n", "outside map"},
		{"negative position", "name: m\nbuildings:\n  - {block: battery, x: -1, y: 0}\n", "outside map"},
		{"unknown item", "name: m\nbuildings:\n  - {block: battery, x: 0, y: 0, items: {thorium: 1}}\n", "unknown item"},
		{"unknown liquid", "name: m\nbuildings:\n  - {block: cultivator, x: 0, y: 0, liquids: {slag: 1}}\n", "unknown liquid"},
		{"unknown supply", "name: m\nbuildings:\n  - {block: battery, x: 0, y: 0, supply: {item: thorium, item_rate: 1}}\n", "unknown supply item"},
		{"unknown drain", "name: m\nbuildings:\n  - {block: battery, x: 0, y: 0, supply: {drain: thorium, drain_rate: 1}}\n", "unknown drain item"},
		{"bad yaml", "name: [\n", "parsing map"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMap([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestNew_RejectsNonMindurkaMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vanilla.yaml")
	data := []byte("name: vanilla\nbuildings:\n  - {block: battery, x: 0, y: 0}\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	_, err := New(Options{MapPath: path})
	if !errors.Is(err, settings.ErrNotMindurkaMap) {
		t.Fatalf("err = %v, want ErrNotMindurkaMap", err)
	}
}

func TestSim_OverdriveIgnoresCheatToggle(t *testing.T) {
	s := newTestSim(t, Options{})

	// Consumption reads last tick's power status, so give it two ticks.
	s.Step()
	s.Step()

	b, err := s.Building(teamOneProjector)
	if err != nil {
		t.Fatal(err)
	}
	if !b.Cheating || b.Efficiency != 1 {
		t.Fatalf("cheating projector: cheating=%v efficiency=%v, want true and 1", b.Cheating, b.Efficiency)
	}

	s.SetOverdriveIgnoresCheat(true)
	s.Step()

	b, _ = s.Building(teamOneProjector)
	if b.Efficiency != 0 {
		t.Errorf("unpowered projector efficiency = %v, want 0 with cheat ignored", b.Efficiency)
	}
	if !b.ShouldConsumePower {
		t.Error("starved projector stopped requesting power")
	}
	if !s.Settings().OverdriveIgnoresCheat {
		t.Error("session flag not stored")
	}
}

func TestSim_TeamCheatOff(t *testing.T) {
	s := newTestSim(t, Options{})
	s.SetTeamCheat(1, false)
	s.Step()
	s.Step()

	b, _ := s.Building(teamOneProjector)
	if b.Cheating {
		t.Error("building still cheating")
	}
	if b.Efficiency != 0 {
		t.Errorf("efficiency = %v, want 0 without cheat or power", b.Efficiency)
	}
}

func TestSim_SetEnabled(t *testing.T) {
	s := newTestSim(t, Options{})

	for _, id := range []uint32{0, defaultMapBuilding + 1} {
		if err := s.SetEnabled(id, false); !errors.Is(err, ErrUnknownBuilding) {
			t.Errorf("SetEnabled(%d) err = %v, want ErrUnknownBuilding", id, err)
		}
	}

	if err := s.SetEnabled(teamZeroSmelter, false); err != nil {
		t.Fatal(err)
	}
	s.Step()

	b, _ := s.Building(teamZeroSmelter)
	if b.Enabled {
		t.Error("building still enabled")
	}
	if b.Efficiency != 0 || b.PotentialEfficiency != 0 || b.ShouldConsumePower {
		t.Errorf("disabled building resolved to %+v", b)
	}
}

func TestSim_UpdatePublishesSnapshot(t *testing.T) {
	s := newTestSim(t, Options{StepsPerUpdate: 3})

	snap := s.Latest()
	if snap == nil || snap.Tick != 0 {
		t.Fatalf("initial snapshot = %+v", snap)
	}
	if len(snap.Buildings) != defaultMapBuilding {
		t.Errorf("snapshot buildings = %d, want %d", len(snap.Buildings), defaultMapBuilding)
	}
	if snap.Buildings[0].ID != 1 || snap.Buildings[0].Block != "combustion-generator" {
		t.Errorf("first building = %+v", snap.Buildings[0])
	}

	s.Enqueue(func(s *Sim) { s.SetTeamCheat(1, false) })
	s.Update()

	if got := s.Latest().Tick; got != 3 {
		t.Errorf("tick after update = %d, want 3", got)
	}
	if s.TeamCheat(1) {
		t.Error("queued command not applied")
	}

	s.SetPaused(true)
	s.Update()
	if got := s.Tick(); got != 3 {
		t.Errorf("paused update advanced to %d", got)
	}
}

func TestSim_RunStopsAtMaxTicks(t *testing.T) {
	s := newTestSim(t, Options{})
	if err := s.Run(context.Background(), 5, true); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if s.Tick() != 5 {
		t.Errorf("tick = %d, want 5", s.Tick())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Run(ctx, 0, true); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled Run err = %v", err)
	}
}

func TestSim_FlushesWindowToOutputs(t *testing.T) {
	dir := t.TempDir()
	var flushed []telemetry.WindowStats
	s := newTestSim(t, Options{
		OutputDir:     dir,
		DBPath:        storage.MemoryPath,
		StatsCallback: func(w telemetry.WindowStats) { flushed = append(flushed, w) },
	})
	if s.RunID() == "" {
		t.Fatal("run not started")
	}

	window := config.Cfg().Derived.WindowTicks
	for i := int32(0); i < window; i++ {
		s.Step()
	}

	if len(flushed) != 1 {
		t.Fatalf("flushed %d windows, want 1", len(flushed))
	}
	w := flushed[0]
	if w.WindowEndTick != window || w.Buildings != defaultMapBuilding {
		t.Errorf("window end %d buildings %d", w.WindowEndTick, w.Buildings)
	}

	stored, err := s.store.Windows(context.Background(), s.RunID())
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 1 {
		t.Errorf("stored %d windows, want 1", len(stored))
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if lines := strings.Count(strings.TrimSpace(string(data)), "\n"); lines != 1 {
		t.Errorf("telemetry.csv has %d data lines, want 1", lines)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config snapshot missing: %v", err)
	}
}
