package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/mindurka/overdrive/components"
	"github.com/mindurka/overdrive/content"
	"github.com/mindurka/overdrive/efficiency"
)

// ConsumptionCounts summarises one consumption pass.
type ConsumptionCounts struct {
	Buildings int
	Disabled  int
	Free      int // no consumers, power and inputs are never accounted
	Cheating  int // enabled buildings of cheating teams
	Starved   int // enabled, not drawing power
	Running   int // efficiency > 0 after the pass
}

// ConsumptionSystem recomputes every building's efficiency once per tick
// using the build type bound to its block.
type ConsumptionSystem struct {
	filter *ecs.Filter5[components.Building, components.Position, components.Inventory, components.Tank, components.PowerNode]
	genMap *ecs.Map[components.Generator]
	reg    *content.Registry
	rules  *Rules
	view   Build
}

// NewConsumptionSystem creates a new consumption system.
func NewConsumptionSystem(w *ecs.World, reg *content.Registry, rules *Rules) *ConsumptionSystem {
	return &ConsumptionSystem{
		filter: ecs.NewFilter5[components.Building, components.Position, components.Inventory, components.Tank, components.PowerNode](w),
		genMap: ecs.NewMap[components.Generator](w),
		reg:    reg,
		rules:  rules,
	}
}

// Update runs the consumption update of every building.
func (s *ConsumptionSystem) Update(session efficiency.Session, delta float32) ConsumptionCounts {
	var counts ConsumptionCounts

	query := s.filter.Query()
	for query.Next() {
		entity := query.Entity()
		st, _, inv, tank, node := query.Get()
		block := s.reg.Block(st.Block)

		s.view.bind(block, st, inv, tank, node, s.rules, delta)
		if s.genMap.Has(entity) {
			s.view.Gen = s.genMap.Get(entity)
		}

		s.reg.BuildType(st.Block)(&s.view, &block.Groups, session)

		counts.Buildings++
		switch {
		case !st.Enabled:
			counts.Disabled++
		case !block.Groups.HasConsumers:
			counts.Free++
		case s.view.Cheating():
			counts.Cheating++
		}
		if st.Enabled && !st.ShouldConsumePower {
			counts.Starved++
		}
		if st.Efficiency > 0 {
			counts.Running++
		}
	}

	return counts
}
