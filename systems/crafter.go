package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/mindurka/overdrive/components"
	"github.com/mindurka/overdrive/content"
)

// CrafterSystem advances crafting progress and pays for finished crafts.
type CrafterSystem struct {
	filter *ecs.Filter4[components.Building, components.Inventory, components.Tank, components.Crafter]
	reg    *content.Registry
	rules  *Rules
	view   Build
}

// NewCrafterSystem creates a new crafter system.
func NewCrafterSystem(w *ecs.World, reg *content.Registry, rules *Rules) *CrafterSystem {
	return &CrafterSystem{
		filter: ecs.NewFilter4[components.Building, components.Inventory, components.Tank, components.Crafter](w),
		reg:    reg,
		rules:  rules,
	}
}

// Update advances every crafter by one tick. It returns the number of
// crafts completed.
func (s *CrafterSystem) Update(delta float32) int {
	crafted := 0
	query := s.filter.Query()
	for query.Next() {
		st, inv, tank, craft := query.Get()
		block := s.reg.Block(st.Block)
		if block.Kind != content.KindCrafter || block.Crafter.CraftTime <= 0 {
			continue
		}

		s.view.bind(block, st, inv, tank, nil, s.rules, delta)
		s.view.Craft = craft

		if st.Efficiency > 0 {
			craft.Progress += s.view.EDelta() / block.Crafter.CraftTime
		}
		if craft.Progress >= 1 {
			s.view.Consume()
			out := block.Crafter.Output
			inv.Add(out.Item, out.Amount, block.ItemCapacity)
			craft.Crafted++
			crafted++
			craft.Progress = mod(craft.Progress, 1)
		}
	}
	return crafted
}
