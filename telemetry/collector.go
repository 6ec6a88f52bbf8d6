package telemetry

import (
	"math"

	"github.com/mindurka/overdrive/systems"
)

// TickSample is what one tick contributes to the current window.
type TickSample struct {
	Consumption systems.ConsumptionCounts
	Supply      systems.SupplyStats
	Graphs      []systems.GraphStats
	Boosted     int
	Pulses      int
	FuelBurned  int
	Crafts      int
}

// WindowEnd is the world state sampled when a window is flushed.
type WindowEnd struct {
	Counts                systems.ConsumptionCounts
	Graphs                []systems.GraphStats
	ProjectorEfficiency   []float64
	OverdriveIgnoresCheat bool
}

// Collector accumulates tick samples within time windows and produces
// WindowStats.
type Collector struct {
	windowDurationTicks int32
	dt                  float64

	// Current window tracking
	windowStartTick int32

	starvedTicks int
	boostedTicks int
	pulses       int
	fuelBurned   int
	crafts       int
	itemsIn      int32
	drained      int32
	produced     float64
	needed       float64
	satSum       float64
	satMin       float64
	satCount     int
}

// NewCollector creates a new stats collector.
// windowTicks: ticks per stats window
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowTicks int32, dt float64) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	c := &Collector{
		windowDurationTicks: windowTicks,
		dt:                  dt,
	}
	c.reset(0)
	return c
}

// Record adds one tick to the current window.
func (c *Collector) Record(s TickSample) {
	c.starvedTicks += s.Consumption.Starved
	c.boostedTicks += s.Boosted
	c.pulses += s.Pulses
	c.fuelBurned += s.FuelBurned
	c.crafts += s.Crafts
	c.itemsIn += s.Supply.ItemsIn
	c.drained += s.Supply.Drained

	for _, g := range s.Graphs {
		c.produced += float64(g.Produced)
		c.needed += float64(g.Needed)
		if g.Consumers == 0 {
			continue
		}
		sat := float64(g.Satisfaction)
		c.satSum += sat
		c.satMin = math.Min(c.satMin, sat)
		c.satCount++
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, end WindowEnd) WindowStats {
	satMean, satMin := 1.0, 1.0
	if c.satCount > 0 {
		satMean = c.satSum / float64(c.satCount)
		satMin = c.satMin
	}

	var stored, capacity float64
	for _, g := range end.Graphs {
		stored += float64(g.Stored)
		capacity += float64(g.Capacity)
	}

	effMean, effStd, effP10, effP50, effP90 := ComputeDistribution(end.ProjectorEfficiency)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Buildings: end.Counts.Buildings,
		Disabled:  end.Counts.Disabled,
		Free:      end.Counts.Free,
		Cheating:  end.Counts.Cheating,
		Running:   end.Counts.Running,

		StarvedTicks: c.starvedTicks,
		BoostedTicks: c.boostedTicks,
		Pulses:       c.pulses,
		FuelBurned:   c.fuelBurned,
		Crafts:       c.crafts,
		ItemsIn:      c.itemsIn,
		Drained:      c.drained,

		PowerProduced:    c.produced,
		PowerNeeded:      c.needed,
		SatisfactionMean: satMean,
		SatisfactionMin:  satMin,
		BatteryStored:    stored,
		BatteryCapacity:  capacity,

		ProjectorEffMean: effMean,
		ProjectorEffStd:  effStd,
		ProjectorEffP10:  effP10,
		ProjectorEffP50:  effP50,
		ProjectorEffP90:  effP90,

		OverdriveIgnoresCheat: end.OverdriveIgnoresCheat,
	}

	c.reset(currentTick)
	return stats
}

func (c *Collector) reset(tick int32) {
	*c = Collector{
		windowDurationTicks: c.windowDurationTicks,
		dt:                  c.dt,
		windowStartTick:     tick,
		satMin:              math.Inf(1),
	}
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
