package telemetry

import (
	"log/slog"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Phase names for the simulation step.
const (
	PhaseSupply      = "supply"
	PhasePower       = "power"
	PhaseConsumption = "consumption"
	PhaseGenerators  = "generators"
	PhaseCrafters    = "crafters"
	PhaseOverdrive   = "overdrive"
	PhaseTimeScale   = "time_scale"
	PhaseTelemetry   = "telemetry"
)

// Phases lists the step phases in execution order.
var Phases = []string{
	PhaseSupply, PhasePower, PhaseConsumption, PhaseGenerators,
	PhaseCrafters, PhaseOverdrive, PhaseTimeScale, PhaseTelemetry,
}

// PerfSample holds timing data for a single tick.
type PerfSample struct {
	TickDuration time.Duration
	Phases       map[string]time.Duration
}

// PerfCollector tracks step timing over a rolling window of ticks.
type PerfCollector struct {
	samples []PerfSample
	next    int
	filled  bool

	current    map[string]time.Duration
	tickStart  time.Time
	phaseStart time.Time
	phase      string

	// Frame timing (for graphics mode)
	lastFrame     time.Time
	frameDuration time.Duration
}

// NewPerfCollector creates a new performance collector averaging over
// windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		samples: make([]PerfSample, windowSize),
		current: make(map[string]time.Duration),
	}
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.current = make(map[string]time.Duration, len(Phases))
	p.phase = ""
}

// StartPhase closes the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	p.closePhase(now)
	p.phaseStart = now
	p.phase = phase
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase != "" {
		p.current[p.phase] += now.Sub(p.phaseStart)
	}
}

// EndTick finishes timing the current tick and records the sample.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)

	p.samples[p.next] = PerfSample{
		TickDuration: now.Sub(p.tickStart),
		Phases:       p.current,
	}
	p.next = (p.next + 1) % len(p.samples)
	if p.next == 0 {
		p.filled = true
	}
}

// RecordFrame records frame timing for graphics mode.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frameDuration = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

func (p *PerfCollector) window() []PerfSample {
	if p.filled {
		return p.samples
	}
	return p.samples[:p.next]
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	// Average duration and share of tick time per phase
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	TicksPerSecond float64

	// Graphics mode only
	FrameDuration time.Duration
	FPS           float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	out := PerfStats{
		PhaseAvg:      make(map[string]time.Duration),
		PhasePct:      make(map[string]float64),
		FrameDuration: p.frameDuration,
	}
	if p.frameDuration > 0 {
		out.FPS = float64(time.Second) / float64(p.frameDuration)
	}

	samples := p.window()
	if len(samples) == 0 {
		return out
	}

	ticks := make([]float64, len(samples))
	phaseSum := make(map[string]float64)
	for i, s := range samples {
		ticks[i] = float64(s.TickDuration)
		for phase, d := range s.Phases {
			phaseSum[phase] += float64(d)
		}
	}

	avg := stat.Mean(ticks, nil)
	out.AvgTickDuration = time.Duration(avg)
	out.MinTickDuration = time.Duration(floats.Min(ticks))
	out.MaxTickDuration = time.Duration(floats.Max(ticks))
	if avg > 0 {
		out.TicksPerSecond = float64(time.Second) / avg
	}

	n := float64(len(samples))
	for phase, sum := range phaseSum {
		out.PhaseAvg[phase] = time.Duration(sum / n)
		if avg > 0 {
			out.PhasePct[phase] = sum / n / avg * 100
		}
	}

	return out
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"min_tick_us", s.MinTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}

	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}

	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", int(pct*10)/10.0)
		}
	}

	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}

	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}

	for phase, pct := range s.PhasePct {
		attrs = append(attrs, slog.Float64(phase+"_pct", pct))
	}

	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd      int32   `csv:"window_end"`
	AvgTickUS      int64   `csv:"avg_tick_us"`
	MinTickUS      int64   `csv:"min_tick_us"`
	MaxTickUS      int64   `csv:"max_tick_us"`
	TicksPerSec    float64 `csv:"ticks_per_sec"`
	FPS            float64 `csv:"fps"`
	SupplyPct      float64 `csv:"supply_pct"`
	PowerPct       float64 `csv:"power_pct"`
	ConsumptionPct float64 `csv:"consumption_pct"`
	GeneratorsPct  float64 `csv:"generators_pct"`
	CraftersPct    float64 `csv:"crafters_pct"`
	OverdrivePct   float64 `csv:"overdrive_pct"`
	TimeScalePct   float64 `csv:"time_scale_pct"`
	TelemetryPct   float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:      windowEnd,
		AvgTickUS:      s.AvgTickDuration.Microseconds(),
		MinTickUS:      s.MinTickDuration.Microseconds(),
		MaxTickUS:      s.MaxTickDuration.Microseconds(),
		TicksPerSec:    s.TicksPerSecond,
		FPS:            s.FPS,
		SupplyPct:      s.PhasePct[PhaseSupply],
		PowerPct:       s.PhasePct[PhasePower],
		ConsumptionPct: s.PhasePct[PhaseConsumption],
		GeneratorsPct:  s.PhasePct[PhaseGenerators],
		CraftersPct:    s.PhasePct[PhaseCrafters],
		OverdrivePct:   s.PhasePct[PhaseOverdrive],
		TimeScalePct:   s.PhasePct[PhaseTimeScale],
		TelemetryPct:   s.PhasePct[PhaseTelemetry],
	}
}
