package systems

import (
	"github.com/mindurka/overdrive/components"
	"github.com/mindurka/overdrive/content"
	"github.com/mindurka/overdrive/efficiency"
)

// TeamRules holds per-team rule overrides.
type TeamRules struct {
	Cheat bool `yaml:"cheat"`
}

// Rules holds the rules of the loaded map.
type Rules struct {
	Teams map[components.TeamID]TeamRules
}

// Cheat reports whether the team plays with free resources.
func (r *Rules) Cheat(team components.TeamID) bool {
	if r == nil {
		return false
	}
	return r.Teams[team].Cheat
}

// SetCheat changes a team's cheat rule.
func (r *Rules) SetCheat(team components.TeamID, cheat bool) {
	if r.Teams == nil {
		r.Teams = make(map[components.TeamID]TeamRules)
	}
	tr := r.Teams[team]
	tr.Cheat = cheat
	r.Teams[team] = tr
}

// Build is a view over one building's components. It implements
// consume.Building for the duration of a single system call and must not
// be retained.
type Build struct {
	Block     *content.Block
	State     *components.Building
	Inv       *components.Inventory
	Liquids   *components.Tank
	Node      *components.PowerNode
	Gen       *components.Generator
	Craft     *components.Crafter
	cheating  bool
	tickDelta float32
}

func (b *Build) bind(
	block *content.Block,
	st *components.Building,
	inv *components.Inventory,
	tank *components.Tank,
	node *components.PowerNode,
	rules *Rules,
	delta float32,
) {
	*b = Build{
		Block:     block,
		State:     st,
		Inv:       inv,
		Liquids:   tank,
		Node:      node,
		cheating:  rules.Cheat(st.Team),
		tickDelta: delta,
	}
}

func (b *Build) Enabled() bool { return b.State.Enabled }

func (b *Build) Cheating() bool { return b.cheating }

// ShouldConsume is false for crafters whose output is full.
func (b *Build) ShouldConsume() bool {
	if !b.State.Enabled {
		return false
	}
	if b.Block.Kind == content.KindCrafter && b.Inv != nil {
		out := b.Block.Crafter.Output
		return b.Inv.Get(out.Item)+out.Amount <= b.Block.ItemCapacity
	}
	return true
}

// ProductionValid is true for every block in the standard set.
func (b *Build) ProductionValid() bool { return true }

func (b *Build) UpdateEfficiencyMultiplier() {
	scale := b.State.EfficiencyScale
	b.State.Efficiency *= scale
	b.State.OptionalEfficiency *= scale
}

func (b *Build) EfficiencyState() *efficiency.State { return &b.State.State }

func (b *Build) Inventory() *components.Inventory { return b.Inv }

func (b *Build) Tank() *components.Tank { return b.Liquids }

func (b *Build) Power() *components.PowerNode { return b.Node }

func (b *Build) Delta() float32 { return b.tickDelta * b.State.TimeScale }

func (b *Build) EDelta() float32 { return b.State.Efficiency * b.Delta() }

func (b *Build) EfficiencyScale() float32 { return b.State.EfficiencyScale }

// TriggerValid is true while a generator is still burning its last item.
func (b *Build) TriggerValid() bool {
	return b.Gen != nil && b.Gen.GenerateTime > 0
}

// Consume triggers every consumer of the block, paying for one work cycle.
func (b *Build) Consume() {
	for _, c := range b.Block.Consumers {
		c.Trigger(b)
	}
}

// lerpDelta moves from toward to by alpha per tick, scaled by delta.
func lerpDelta(from, to, alpha, delta float32) float32 {
	t := min(max(alpha*delta, 0), 1)
	return from + (to-from)*t
}
