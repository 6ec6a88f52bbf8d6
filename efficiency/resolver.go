// Package efficiency resolves per-tick consumption efficiency for buildings.
//
// The resolver reads a building's consumer groups and writes four derived
// values back onto it: required efficiency, optional efficiency, potential
// efficiency and whether the building should draw power. It runs once per
// tick per building, synchronously, and keeps no state between ticks.
package efficiency

// StarvedThreshold is the efficiency at or below which a required input is
// treated as missing.
const StarvedThreshold float32 = 1e-7

// State holds the values recomputed every tick.
type State struct {
	Efficiency          float32
	OptionalEfficiency  float32
	PotentialEfficiency float32
	ShouldConsumePower  bool
}

// Building is the capability a building exposes to the resolver.
// The predicates are owned by the building's block type; the resolver only
// consumes their boolean result.
type Building interface {
	Enabled() bool
	Cheating() bool
	ShouldConsume() bool
	ProductionValid() bool
	// UpdateEfficiencyMultiplier applies post-processing (buffs, heat)
	// after the efficiency fields are set.
	UpdateEfficiencyMultiplier()
	EfficiencyState() *State
}

// Consumer is one input of a block type. Consumers are shared by every
// building of the type and must not be mutated by the resolver.
type Consumer[B Building] interface {
	Efficiency(b B) float32
	Update(b B)
}

// Groups is the consumer layout of a block type, fixed at definition time.
type Groups[B Building] struct {
	NonOptional []Consumer[B]
	Optional    []Consumer[B]
	Update      []Consumer[B]
	// Power is the block's power consumer, nil if it draws none. It is
	// exempt from the starvation rule for ShouldConsumePower.
	Power        Consumer[B]
	HasConsumers bool
}

// Session carries the per-session settings the strategies read each tick.
type Session struct {
	OverdriveIgnoresCheat bool
}

// Strategy recomputes a building's consumption for one tick.
type Strategy[B Building] func(b B, g *Groups[B], s Session)

// Vanilla bypasses accounting for cheating teams.
func Vanilla[B Building](b B, g *Groups[B], _ Session) {
	Resolve(b, g, false)
}

// IgnoreCheat keeps normal accounting under cheat when the session asks
// for it.
func IgnoreCheat[B Building](b B, g *Groups[B], s Session) {
	Resolve(b, g, s.OverdriveIgnoresCheat)
}

// Bypassed reports whether Resolve would skip consumer accounting.
func Bypassed[B Building](b B, g *Groups[B], forceAccounting bool) bool {
	return !g.HasConsumers || (b.Cheating() && !forceAccounting)
}

// Resolve recomputes the building's efficiency state for one tick and, if
// the building runs, applies every update consumer in order.
// forceAccounting disables the cheat bypass.
func Resolve[B Building](b B, g *Groups[B], forceAccounting bool) {
	st := b.EfficiencyState()

	if Bypassed(b, g, forceAccounting) {
		st.PotentialEfficiency = 0
		if b.Enabled() && b.ProductionValid() {
			st.PotentialEfficiency = 1
		}
		st.Efficiency = 0
		if b.ShouldConsume() {
			st.Efficiency = st.PotentialEfficiency
		}
		st.OptionalEfficiency = st.Efficiency
		st.ShouldConsumePower = true
		b.UpdateEfficiencyMultiplier()
		return
	}

	if !b.Enabled() {
		st.PotentialEfficiency, st.Efficiency, st.OptionalEfficiency = 0, 0, 0
		st.ShouldConsumePower = false
		return
	}

	update := b.ShouldConsume() && b.ProductionValid()
	minRequired := float32(1)
	st.Efficiency, st.OptionalEfficiency = 1, 1
	st.ShouldConsumePower = true

	for _, cons := range g.NonOptional {
		result := cons.Efficiency(b)
		if !isPower(cons, g.Power) && result <= StarvedThreshold {
			st.ShouldConsumePower = false
		}
		minRequired = min(minRequired, result)
	}

	for _, cons := range g.Optional {
		st.OptionalEfficiency = min(st.OptionalEfficiency, cons.Efficiency(b))
	}

	st.Efficiency = minRequired
	st.OptionalEfficiency = min(st.OptionalEfficiency, minRequired)
	st.PotentialEfficiency = st.Efficiency

	if !update {
		st.Efficiency, st.OptionalEfficiency = 0, 0
	}

	b.UpdateEfficiencyMultiplier()

	if update && st.Efficiency > 0 {
		for _, cons := range g.Update {
			cons.Update(b)
		}
	}
}

func isPower[B Building](cons, power Consumer[B]) bool {
	return power != nil && cons == power
}
