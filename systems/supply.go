package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/mindurka/overdrive/components"
	"github.com/mindurka/overdrive/content"
)

// SupplyStats counts what entered and left the grid through supplies in one
// tick.
type SupplyStats struct {
	ItemsIn  int32
	LiquidIn float32
	Drained  int32
}

// SupplySystem stands in for conveyors and pipes: it feeds buildings at
// fixed rates and drains their output.
type SupplySystem struct {
	filter *ecs.Filter4[components.Building, components.Inventory, components.Tank, components.Supply]
	reg    *content.Registry
}

// NewSupplySystem creates a new supply system.
func NewSupplySystem(w *ecs.World, reg *content.Registry) *SupplySystem {
	return &SupplySystem{
		filter: ecs.NewFilter4[components.Building, components.Inventory, components.Tank, components.Supply](w),
		reg:    reg,
	}
}

// Update feeds and drains every supplied building. Feeds stop at the
// block's capacity.
func (s *SupplySystem) Update(delta float32) SupplyStats {
	var stats SupplyStats
	query := s.filter.Query()
	for query.Next() {
		st, inv, tank, sup := query.Get()
		block := s.reg.Block(st.Block)

		if n := sup.TakeItems(delta); n > 0 {
			stats.ItemsIn += inv.Add(uint16(sup.Item), n, block.ItemCapacity)
		}
		if sup.Liquid != components.NoSupply && sup.LiquidRate > 0 {
			stats.LiquidIn += tank.Add(uint16(sup.Liquid), sup.LiquidRate*delta, block.LiquidCapacity)
		}
		if n := sup.TakeDrain(delta); n > 0 {
			stats.Drained += inv.Remove(uint16(sup.Drain), n)
		}
	}
	return stats
}
