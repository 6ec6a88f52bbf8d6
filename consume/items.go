package consume

// ItemStack is an amount of one item.
type ItemStack struct {
	Item   uint16
	Amount int32
}

// Items requires a set of item stacks to be present. They are removed when
// the building triggers its consumers.
type Items struct {
	flags
	Stacks []ItemStack
}

// NewItems returns an item consumer for the given stacks.
func NewItems(stacks ...ItemStack) *Items {
	return &Items{Stacks: stacks}
}

// Boost marks the consumer as an optional booster. Boosters are neither
// required nor updated each tick.
func (c *Items) Boost() *Items {
	c.optional = true
	c.booster = true
	c.noUpdate = true
	return c
}

func (c *Items) Efficiency(b Building) float32 {
	if b.TriggerValid() || c.held(b) {
		return 1
	}
	return 0
}

func (c *Items) held(b Building) bool {
	inv := b.Inventory()
	if inv == nil {
		return false
	}
	for _, s := range c.Stacks {
		if !inv.Has(s.Item, s.Amount) {
			return false
		}
	}
	return true
}

// Trigger removes the stacks from the building.
func (c *Items) Trigger(b Building) {
	inv := b.Inventory()
	if inv == nil {
		return
	}
	for _, s := range c.Stacks {
		inv.Remove(s.Item, s.Amount)
	}
}
