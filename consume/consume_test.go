package consume

import (
	"math"
	"testing"

	"github.com/mindurka/overdrive/components"
	"github.com/mindurka/overdrive/efficiency"
)

type testBuilding struct {
	state        efficiency.State
	inv          components.Inventory
	tank         components.Tank
	power        *components.PowerNode
	delta        float32
	consume      bool
	triggerValid bool
}

func newTestBuilding() *testBuilding {
	return &testBuilding{
		power:   &components.PowerNode{},
		delta:   1,
		consume: true,
		state:   efficiency.State{Efficiency: 1},
	}
}

func (b *testBuilding) Enabled() bool                      { return true }
func (b *testBuilding) Cheating() bool                     { return false }
func (b *testBuilding) ShouldConsume() bool                { return b.consume }
func (b *testBuilding) ProductionValid() bool              { return true }
func (b *testBuilding) UpdateEfficiencyMultiplier()        {}
func (b *testBuilding) EfficiencyState() *efficiency.State { return &b.state }
func (b *testBuilding) Inventory() *components.Inventory   { return &b.inv }
func (b *testBuilding) Tank() *components.Tank             { return &b.tank }
func (b *testBuilding) Power() *components.PowerNode       { return b.power }
func (b *testBuilding) Delta() float32                     { return b.delta }
func (b *testBuilding) EDelta() float32                    { return b.delta * b.state.Efficiency }
func (b *testBuilding) EfficiencyScale() float32           { return 1 }
func (b *testBuilding) TriggerValid() bool                 { return b.triggerValid }

func TestPower_EfficiencyFollowsStatus(t *testing.T) {
	b := newTestBuilding()
	p := NewPower(2)
	b.power.Status = 0.4
	if got := p.Efficiency(b); got != 0.4 {
		t.Errorf("efficiency = %v, want 0.4", got)
	}
	if got := p.Requested(b, 1.5); got != 3 {
		t.Errorf("requested = %v, want 3", got)
	}

	b.consume = false
	if got := p.Requested(b, 1); got != 0 {
		t.Errorf("idle building requested %v, want 0", got)
	}

	b.power = nil
	if got := p.Efficiency(b); got != 0 {
		t.Errorf("unlinked efficiency = %v, want 0", got)
	}
}

func TestPower_Battery(t *testing.T) {
	b := newTestBuilding()
	bat := NewBattery(1000)
	b.power.Status = 0.25
	if bat.Efficiency(b) != 1 {
		t.Error("batteries never limit efficiency")
	}
	if got := bat.Requested(b, 1); got != 750 {
		t.Errorf("requested = %v, want 750", got)
	}
}

func TestItems_EfficiencyAndTrigger(t *testing.T) {
	b := newTestBuilding()
	c := NewItems(ItemStack{Item: 1, Amount: 2}, ItemStack{Item: 3, Amount: 1})

	b.inv.Add(1, 2, 10)
	if c.Efficiency(b) != 0 {
		t.Error("missing stack should report 0")
	}
	b.inv.Add(3, 1, 10)
	if c.Efficiency(b) != 1 {
		t.Error("all stacks held should report 1")
	}

	c.Trigger(b)
	if b.inv.Total() != 0 {
		t.Errorf("trigger left %d items", b.inv.Total())
	}

	b.triggerValid = true
	if c.Efficiency(b) != 1 {
		t.Error("valid trigger should cover missing items")
	}
}

func TestItems_Boost(t *testing.T) {
	c := NewItems(ItemStack{Item: 0, Amount: 1}).Boost()
	if !c.Optional() || !c.Booster() || c.Updates() {
		t.Errorf("boost flags = optional %v booster %v updates %v", c.Optional(), c.Booster(), c.Updates())
	}
}

func TestLiquid_EfficiencyAndDrain(t *testing.T) {
	b := newTestBuilding()
	c := NewLiquid(0, 0.2)

	b.tank.Add(0, 0.1, 10)
	if got := c.Efficiency(b); math.Abs(float64(got-0.5)) > 1e-6 {
		t.Errorf("efficiency = %v, want 0.5", got)
	}

	b.tank.Add(0, 1, 10)
	if got := c.Efficiency(b); got != 1 {
		t.Errorf("efficiency = %v, want 1", got)
	}

	c.Update(b)
	if got := b.tank.Get(0); math.Abs(float64(got-0.9)) > 1e-6 {
		t.Errorf("tank = %v, want 0.9", got)
	}

	b.state.Efficiency = 0
	if c.Efficiency(b) != 0 {
		t.Error("zero edelta should report 0")
	}
}

func TestGroups_Layout(t *testing.T) {
	power := NewPower(1)
	items := NewItems(ItemStack{Item: 0, Amount: 1})
	boost := NewItems(ItemStack{Item: 1, Amount: 1}).Boost()
	liquid := NewLiquid(0, 0.1)

	g := Groups([]Consumer{power, items, boost, liquid}, power)

	if !g.HasConsumers {
		t.Error("expected HasConsumers")
	}
	if len(g.NonOptional) != 3 || len(g.Optional) != 1 {
		t.Errorf("non-optional %d optional %d, want 3 and 1", len(g.NonOptional), len(g.Optional))
	}
	if len(g.Update) != 3 {
		t.Errorf("update consumers = %d, want 3", len(g.Update))
	}
	if g.Power != efficiency.Consumer[Building](power) {
		t.Error("power consumer not recorded")
	}

	empty := Groups(nil, nil)
	if empty.HasConsumers || empty.Power != nil {
		t.Error("empty block should have no consumers and no power consumer")
	}
}
