package telemetry

import (
	"math"
	"testing"

	"github.com/mindurka/overdrive/systems"
)

func TestCollector_FlushAggregatesWindow(t *testing.T) {
	c := NewCollector(3, 1.0/60)

	for tick := int32(1); tick <= 3; tick++ {
		if c.ShouldFlush(tick - 1) {
			t.Fatalf("flush due early at tick %d", tick-1)
		}
		c.Record(TickSample{
			Consumption: systems.ConsumptionCounts{Starved: 1},
			Supply:      systems.SupplyStats{ItemsIn: 2, Drained: 1},
			Graphs: []systems.GraphStats{
				{ID: 1, Produced: 2, Needed: 4, Satisfaction: 0.5, Consumers: 1},
				{ID: 2, Produced: 1, Satisfaction: 1}, // no consumers, ignored for satisfaction
			},
			Boosted:    2,
			Pulses:     1,
			FuelBurned: 1,
			Crafts:     1,
		})
	}
	if !c.ShouldFlush(3) {
		t.Fatal("flush not due after window")
	}

	stats := c.Flush(3, WindowEnd{
		Counts:                systems.ConsumptionCounts{Buildings: 5, Running: 4, Cheating: 1},
		Graphs:                []systems.GraphStats{{Stored: 100, Capacity: 1000}},
		ProjectorEfficiency:   []float64{0.5, 1},
		OverdriveIgnoresCheat: true,
	})

	if stats.WindowStartTick != 0 || stats.WindowEndTick != 3 {
		t.Errorf("window = [%d, %d], want [0, 3]", stats.WindowStartTick, stats.WindowEndTick)
	}
	if math.Abs(stats.SimTimeSec-0.05) > 1e-9 {
		t.Errorf("sim time = %v, want 0.05", stats.SimTimeSec)
	}
	if stats.StarvedTicks != 3 || stats.BoostedTicks != 6 || stats.Pulses != 3 || stats.Crafts != 3 {
		t.Errorf("event sums wrong: %+v", stats)
	}
	if stats.ItemsIn != 6 || stats.Drained != 3 {
		t.Errorf("supply sums: in %d drained %d", stats.ItemsIn, stats.Drained)
	}
	if stats.PowerProduced != 9 || stats.PowerNeeded != 12 {
		t.Errorf("power produced %v needed %v, want 9 and 12", stats.PowerProduced, stats.PowerNeeded)
	}
	if stats.SatisfactionMean != 0.5 || stats.SatisfactionMin != 0.5 {
		t.Errorf("satisfaction mean %v min %v, want 0.5", stats.SatisfactionMean, stats.SatisfactionMin)
	}
	if stats.ProjectorEffMean != 0.75 {
		t.Errorf("projector mean = %v, want 0.75", stats.ProjectorEffMean)
	}
	if stats.Buildings != 5 || stats.Cheating != 1 || !stats.OverdriveIgnoresCheat {
		t.Errorf("end state not copied: %+v", stats)
	}

	if c.ShouldFlush(4) {
		t.Error("window did not reset after flush")
	}
	next := c.Flush(6, WindowEnd{})
	if next.WindowStartTick != 3 || next.Pulses != 0 {
		t.Errorf("counters not reset: %+v", next)
	}
	if next.SatisfactionMean != 1 || next.SatisfactionMin != 1 {
		t.Errorf("empty window satisfaction = %v/%v, want 1", next.SatisfactionMean, next.SatisfactionMin)
	}
}
