// Package components defines ECS components for the simulation.
package components

import "github.com/mindurka/overdrive/efficiency"

// Capacity limits for per-building storage.
const (
	MaxItems   = 8
	MaxLiquids = 4
)

// TeamID identifies the team owning a building.
type TeamID uint8

// Building holds the per-instance state every block shares.
type Building struct {
	Block   uint16
	Team    TeamID
	Enabled bool

	// Recomputed every tick by the consumption system.
	efficiency.State

	// EfficiencyScale multiplies efficiency after it is resolved (buffs,
	// debuffs). 1 means no change.
	EfficiencyScale float32

	// Overdrive boost currently applied and ticks left before it expires.
	TimeScale         float32
	TimeScaleDuration float32
}

// NewBuilding returns an enabled building of the given block with neutral
// scales.
func NewBuilding(block uint16, team TeamID) Building {
	return Building{
		Block:           block,
		Team:            team,
		Enabled:         true,
		EfficiencyScale: 1,
		TimeScale:       1,
	}
}

// Inventory holds item counts by item id.
type Inventory struct {
	Counts [MaxItems]int32
}

// Get returns the amount of an item held.
func (inv *Inventory) Get(item uint16) int32 {
	return inv.Counts[item]
}

// Has reports whether at least amount of the item is held.
func (inv *Inventory) Has(item uint16, amount int32) bool {
	return inv.Counts[item] >= amount
}

// Add stores amount of the item, up to capacity. Returns the amount accepted.
func (inv *Inventory) Add(item uint16, amount, capacity int32) int32 {
	space := capacity - inv.Counts[item]
	if space <= 0 {
		return 0
	}
	if amount > space {
		amount = space
	}
	inv.Counts[item] += amount
	return amount
}

// Remove takes up to amount of the item. Returns the amount removed.
func (inv *Inventory) Remove(item uint16, amount int32) int32 {
	if amount > inv.Counts[item] {
		amount = inv.Counts[item]
	}
	inv.Counts[item] -= amount
	return amount
}

// Total returns the number of items held across all types.
func (inv *Inventory) Total() int32 {
	var total int32
	for _, c := range inv.Counts {
		total += c
	}
	return total
}

// Tank holds liquid amounts by liquid id.
type Tank struct {
	Amounts [MaxLiquids]float32
}

// Get returns the amount of a liquid held.
func (t *Tank) Get(liquid uint16) float32 {
	return t.Amounts[liquid]
}

// Add stores liquid up to capacity and returns the amount accepted.
func (t *Tank) Add(liquid uint16, amount, capacity float32) float32 {
	space := capacity - t.Amounts[liquid]
	if space <= 0 {
		return 0
	}
	amount = min(amount, space)
	t.Amounts[liquid] += amount
	return amount
}

// Remove drains up to amount of the liquid.
func (t *Tank) Remove(liquid uint16, amount float32) {
	t.Amounts[liquid] = max(t.Amounts[liquid]-amount, 0)
}

// PowerNode links a building to a power graph.
type PowerNode struct {
	Graph int32
	// Status is the fraction of requested power satisfied last tick.
	// For buffered consumers it is the stored charge fraction.
	Status float32
}

// Overdrive holds projector state between ticks.
type Overdrive struct {
	Heat             float32
	Charge           float32
	PhaseHeat        float32
	UseProgress      float32
	SmoothEfficiency float32
}

// Generator holds fuel burn state for item-fuelled generators.
type Generator struct {
	GenerateTime         float32 // remaining fraction of the current fuel item
	ProductionEfficiency float32
}

// Crafter holds crafting progress.
type Crafter struct {
	Progress float32
	Crafted  int32
}

// NoSupply marks an unused supply slot.
const NoSupply = -1

// Supply feeds a building from outside the simulated grid and optionally
// drains one item out of it.
type Supply struct {
	Item       int16
	ItemRate   float32 // items per tick
	Liquid     int16
	LiquidRate float32 // liquid units per tick
	Drain      int16
	DrainRate  float32 // items per tick

	itemAccum  float32
	drainAccum float32
}

// TakeItems advances the item feed by delta ticks and returns whole items
// ready to insert.
func (s *Supply) TakeItems(delta float32) int32 {
	if s.Item == NoSupply || s.ItemRate <= 0 {
		return 0
	}
	return accumulate(&s.itemAccum, s.ItemRate*delta)
}

// TakeDrain advances the drain by delta ticks and returns whole items to
// remove.
func (s *Supply) TakeDrain(delta float32) int32 {
	if s.Drain == NoSupply || s.DrainRate <= 0 {
		return 0
	}
	return accumulate(&s.drainAccum, s.DrainRate*delta)
}

func accumulate(acc *float32, amount float32) int32 {
	*acc += amount
	whole := int32(*acc)
	*acc -= float32(whole)
	return whole
}
