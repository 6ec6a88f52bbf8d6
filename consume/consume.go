// Package consume provides the consumer variants a block type can declare.
//
// A consumer is shared by every building of its block type. It answers how
// well the building's current inputs satisfy it (Efficiency), applies
// continuous drains while the building runs (Update) and applies one-off
// costs when the building finishes a work cycle (Trigger).
package consume

import (
	"github.com/mindurka/overdrive/components"
	"github.com/mindurka/overdrive/efficiency"
)

// Building is what consumers need to read and drain from a building.
type Building interface {
	efficiency.Building
	Inventory() *components.Inventory
	Tank() *components.Tank
	Power() *components.PowerNode
	// Delta is the tick length scaled by the building's time scale.
	Delta() float32
	// EDelta is Delta scaled by the current efficiency.
	EDelta() float32
	EfficiencyScale() float32
	// TriggerValid reports that the last trigger still covers this tick,
	// so item consumers report full efficiency without holding items.
	TriggerValid() bool
}

// Consumer is a block input.
type Consumer interface {
	efficiency.Consumer[Building]
	Trigger(b Building)
	// Optional consumers throttle the bonus efficiency only.
	Optional() bool
	// Booster consumers are optional inputs that improve output.
	Booster() bool
	// Updates reports whether Update must run each active tick.
	Updates() bool
}

// flags is embedded by every consumer variant.
type flags struct {
	optional bool
	booster  bool
	noUpdate bool
}

func (f *flags) Optional() bool { return f.optional }

func (f *flags) Booster() bool { return f.booster }

func (f *flags) Updates() bool { return !f.noUpdate }

func (f *flags) Update(Building) {}

func (f *flags) Trigger(Building) {}

// Groups splits consumers into the layout the resolver expects. power is
// the block's power consumer, or nil.
func Groups(consumers []Consumer, power *Power) efficiency.Groups[Building] {
	g := efficiency.Groups[Building]{HasConsumers: len(consumers) > 0}
	for _, c := range consumers {
		if c.Optional() {
			g.Optional = append(g.Optional, c)
		} else {
			g.NonOptional = append(g.NonOptional, c)
		}
		if c.Updates() {
			g.Update = append(g.Update, c)
		}
	}
	if power != nil {
		g.Power = power
	}
	return g
}
