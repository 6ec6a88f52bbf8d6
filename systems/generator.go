package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/mindurka/overdrive/components"
	"github.com/mindurka/overdrive/content"
)

// GeneratorSystem burns fuel in item-fuelled generators and publishes the
// production efficiency read by the power system next tick.
type GeneratorSystem struct {
	filter *ecs.Filter3[components.Building, components.Inventory, components.Generator]
	reg    *content.Registry
	rules  *Rules
	view   Build
}

// NewGeneratorSystem creates a new generator system.
func NewGeneratorSystem(w *ecs.World, reg *content.Registry, rules *Rules) *GeneratorSystem {
	return &GeneratorSystem{
		filter: ecs.NewFilter3[components.Building, components.Inventory, components.Generator](w),
		reg:    reg,
		rules:  rules,
	}
}

// Update advances every generator by one tick. It returns the number of
// fuel items burned.
func (s *GeneratorSystem) Update(delta float32) int {
	burned := 0
	query := s.filter.Query()
	for query.Next() {
		st, inv, gen := query.Get()
		block := s.reg.Block(st.Block)
		if block.Kind != content.KindGenerator {
			continue
		}

		gen.ProductionEfficiency = st.Efficiency
		d := delta * st.TimeScale

		if st.Efficiency > 0 && gen.GenerateTime <= 0 {
			s.view.bind(block, st, inv, nil, nil, s.rules, delta)
			s.view.Gen = gen
			s.view.Consume()
			gen.GenerateTime = 1
			burned++
		}

		gen.GenerateTime = max(gen.GenerateTime-d/block.Generator.ItemDuration, 0)
	}
	return burned
}
