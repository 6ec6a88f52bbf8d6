package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Building counts at window end
	Buildings int `csv:"buildings"`
	Disabled  int `csv:"disabled"`
	Free      int `csv:"free"`
	Cheating  int `csv:"cheating"`
	Running   int `csv:"running"`

	// Summed over the window's ticks
	StarvedTicks int   `csv:"starved_ticks"`
	BoostedTicks int   `csv:"boosted_ticks"`
	Pulses       int   `csv:"pulses"`
	FuelBurned   int   `csv:"fuel_burned"`
	Crafts       int   `csv:"crafts"`
	ItemsIn      int32 `csv:"items_in"`
	Drained      int32 `csv:"drained"`

	// Power
	PowerProduced    float64 `csv:"power_produced"`
	PowerNeeded      float64 `csv:"power_needed"`
	SatisfactionMean float64 `csv:"satisfaction_mean"`
	SatisfactionMin  float64 `csv:"satisfaction_min"`
	BatteryStored    float64 `csv:"battery_stored"`
	BatteryCapacity  float64 `csv:"battery_capacity"`

	// Projector efficiency distribution (sampled at window end)
	ProjectorEffMean float64 `csv:"projector_eff_mean"`
	ProjectorEffStd  float64 `csv:"projector_eff_std"`
	ProjectorEffP10  float64 `csv:"projector_eff_p10"`
	ProjectorEffP50  float64 `csv:"projector_eff_p50"`
	ProjectorEffP90  float64 `csv:"projector_eff_p90"`

	OverdriveIgnoresCheat bool `csv:"overdrive_ignores_cheat"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeDistribution calculates mean, population std and percentiles.
func ComputeDistribution(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	mean = stat.Mean(values, nil)
	if n > 1 {
		std = stat.PopStdDev(values, nil)
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("buildings", s.Buildings),
		slog.Int("running", s.Running),
		slog.Int("cheating", s.Cheating),
		slog.Int("starved_ticks", s.StarvedTicks),
		slog.Int("pulses", s.Pulses),
		slog.Float64("satisfaction_mean", s.SatisfactionMean),
		slog.Float64("projector_eff_mean", s.ProjectorEffMean),
		slog.Bool("overdrive_ignores_cheat", s.OverdriveIgnoresCheat),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"buildings", s.Buildings,
		"disabled", s.Disabled,
		"free", s.Free,
		"cheating", s.Cheating,
		"running", s.Running,
		"starved_ticks", s.StarvedTicks,
		"boosted_ticks", s.BoostedTicks,
		"pulses", s.Pulses,
		"fuel_burned", s.FuelBurned,
		"crafts", s.Crafts,
		"power_produced", s.PowerProduced,
		"power_needed", s.PowerNeeded,
		"satisfaction_mean", s.SatisfactionMean,
		"satisfaction_min", s.SatisfactionMin,
		"battery_stored", s.BatteryStored,
		"projector_eff_mean", s.ProjectorEffMean,
		"projector_eff_p50", s.ProjectorEffP50,
		"overdrive_ignores_cheat", s.OverdriveIgnoresCheat,
	)
}
