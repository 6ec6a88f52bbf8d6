package telemetry

import (
	"math"
	"testing"
	"time"

	"github.com/mindurka/overdrive/systems"
)

// record stores a finished tick without timing it, so stats are exact.
func record(p *PerfCollector, tick time.Duration, phases map[string]time.Duration) {
	p.samples[p.next] = PerfSample{TickDuration: tick, Phases: phases}
	p.next = (p.next + 1) % len(p.samples)
	if p.next == 0 {
		p.filled = true
	}
}

func TestNewPerfCollector_DefaultWindow(t *testing.T) {
	for _, size := range []int{0, -3} {
		if got := len(NewPerfCollector(size).samples); got != 60 {
			t.Errorf("NewPerfCollector(%d): window %d, want 60", size, got)
		}
	}
	if got := len(NewPerfCollector(8).samples); got != 8 {
		t.Errorf("NewPerfCollector(8): window %d, want 8", got)
	}
}

func TestPerfCollector_Window(t *testing.T) {
	p := NewPerfCollector(3)
	if n := len(p.window()); n != 0 {
		t.Fatalf("empty collector: window %d, want 0", n)
	}

	record(p, 10*time.Millisecond, nil)
	record(p, 20*time.Millisecond, nil)
	if p.filled {
		t.Fatal("window marked filled after 2 of 3 ticks")
	}
	stats := p.Stats()
	if stats.AvgTickDuration != 15*time.Millisecond {
		t.Errorf("partial window avg = %v, want 15ms", stats.AvgTickDuration)
	}
	if stats.MinTickDuration != 10*time.Millisecond || stats.MaxTickDuration != 20*time.Millisecond {
		t.Errorf("partial window min/max = %v/%v", stats.MinTickDuration, stats.MaxTickDuration)
	}

	// Third tick fills the ring, the fourth overwrites the oldest.
	record(p, 30*time.Millisecond, nil)
	record(p, 40*time.Millisecond, nil)
	if !p.filled {
		t.Fatal("window not filled after wrapping")
	}
	if n := len(p.window()); n != 3 {
		t.Fatalf("full window %d, want 3", n)
	}
	stats = p.Stats()
	if stats.AvgTickDuration != 30*time.Millisecond {
		t.Errorf("full window avg = %v, want 30ms", stats.AvgTickDuration)
	}
	if stats.MinTickDuration != 20*time.Millisecond {
		t.Errorf("oldest tick still counted: min = %v", stats.MinTickDuration)
	}
	if math.Abs(stats.TicksPerSecond-1000.0/30) > 1e-6 {
		t.Errorf("ticks per second = %v", stats.TicksPerSecond)
	}
}

func TestPerfCollector_EndTickClosesLastPhase(t *testing.T) {
	p := NewPerfCollector(4)
	p.StartTick()
	p.StartPhase(PhaseSupply)
	p.StartPhase(PhaseTimeScale)
	time.Sleep(time.Millisecond)
	p.EndTick()

	sample := p.samples[0]
	if sample.Phases[PhaseTimeScale] < time.Millisecond {
		t.Errorf("last phase = %v, want at least 1ms", sample.Phases[PhaseTimeScale])
	}
	if _, ok := sample.Phases[PhaseSupply]; !ok {
		t.Error("earlier phase not recorded")
	}
	if sample.TickDuration < sample.Phases[PhaseSupply]+sample.Phases[PhaseTimeScale] {
		t.Errorf("tick %v shorter than its phases", sample.TickDuration)
	}

	// A new tick starts with no open phase.
	p.StartTick()
	p.EndTick()
	if n := len(p.samples[1].Phases); n != 0 {
		t.Errorf("phase leaked into next tick: %v", p.samples[1].Phases)
	}
}

func TestPerfCollector_PhasePct(t *testing.T) {
	p := NewPerfCollector(2)
	tick := make(map[string]time.Duration, len(Phases))
	for i, phase := range Phases {
		tick[phase] = time.Duration(i+1) * time.Millisecond
	}
	// 1+2+...+8 = 36ms of phases in a 40ms tick
	record(p, 40*time.Millisecond, tick)
	record(p, 40*time.Millisecond, tick)

	stats := p.Stats()
	for i, phase := range Phases {
		want := float64(i+1) / 40 * 100
		if math.Abs(stats.PhasePct[phase]-want) > 1e-9 {
			t.Errorf("%s pct = %v, want %v", phase, stats.PhasePct[phase], want)
		}
		if stats.PhaseAvg[phase] != time.Duration(i+1)*time.Millisecond {
			t.Errorf("%s avg = %v", phase, stats.PhaseAvg[phase])
		}
	}

	row := stats.ToCSV(120)
	got := []float64{row.SupplyPct, row.PowerPct, row.ConsumptionPct, row.GeneratorsPct,
		row.CraftersPct, row.OverdrivePct, row.TimeScalePct, row.TelemetryPct}
	for i, phase := range Phases {
		if got[i] != stats.PhasePct[phase] {
			t.Errorf("csv column %d = %v, want %s pct %v", i, got[i], phase, stats.PhasePct[phase])
		}
	}
	if row.WindowEnd != 120 || row.AvgTickUS != 40000 {
		t.Errorf("csv row = %+v", row)
	}
}

func TestPerfCollector_RecordFrame(t *testing.T) {
	p := NewPerfCollector(1)
	p.RecordFrame()
	if s := p.Stats(); s.FPS != 0 {
		t.Errorf("fps after one frame = %v, want 0", s.FPS)
	}
	time.Sleep(2 * time.Millisecond)
	p.RecordFrame()
	s := p.Stats()
	if s.FrameDuration < 2*time.Millisecond || s.FPS <= 0 || s.FPS > 500 {
		t.Errorf("frame %v fps %v", s.FrameDuration, s.FPS)
	}
}

func TestPhases_MatchSystemRegistry(t *testing.T) {
	all := systems.NewSystemRegistry().All()
	if len(all) != len(Phases) {
		t.Fatalf("registry has %d phases, perf collector %d", len(all), len(Phases))
	}
	for i, phase := range Phases {
		if all[i].ID != phase {
			t.Errorf("phase %d: registry %q, perf collector %q", i, all[i].ID, phase)
		}
	}
}
