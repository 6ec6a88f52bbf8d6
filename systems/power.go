package systems

import (
	"slices"

	"github.com/mlange-42/ark/ecs"

	"github.com/mindurka/overdrive/components"
	"github.com/mindurka/overdrive/content"
)

// GraphStats summarises one power graph for the last tick.
type GraphStats struct {
	ID           int32   `json:"id"`
	Produced     float32 `json:"produced"`
	Needed       float32 `json:"needed"`
	Satisfaction float32 `json:"satisfaction"`
	Stored       float32 `json:"stored"`
	Capacity     float32 `json:"capacity"`
	Producers    int     `json:"producers"`
	Consumers    int     `json:"consumers"`
	Batteries    int     `json:"batteries"`
}

// PowerSystem balances every power graph once per tick.
//
// Only buildings that resolved ShouldConsumePower last tick request power.
// Buildings that do not request get the satisfaction they would see if
// they joined, so their power consumer does not report zero and starve
// them into never asking.
type PowerSystem struct {
	filter *ecs.Filter5[components.Building, components.Position, components.Inventory, components.Tank, components.PowerNode]
	genMap *ecs.Map[components.Generator]
	reg    *content.Registry
	rules  *Rules
	view   Build

	graphs map[int32]*GraphStats
	order  []int32
}

// NewPowerSystem creates a new power system.
func NewPowerSystem(w *ecs.World, reg *content.Registry, rules *Rules) *PowerSystem {
	return &PowerSystem{
		filter: ecs.NewFilter5[components.Building, components.Position, components.Inventory, components.Tank, components.PowerNode](w),
		genMap: ecs.NewMap[components.Generator](w),
		reg:    reg,
		rules:  rules,
		graphs: make(map[int32]*GraphStats),
	}
}

// Update sums production and demand per graph, moves the difference in or
// out of batteries and writes each building's power status.
func (s *PowerSystem) Update(delta float32) {
	for _, g := range s.graphs {
		*g = GraphStats{ID: g.ID}
	}

	query := s.filter.Query()
	for query.Next() {
		entity := query.Entity()
		st, _, inv, tank, node := query.Get()
		block := s.reg.Block(st.Block)
		if !block.HasPower {
			continue
		}
		g := s.graph(node.Graph)

		if block.OutputsPower() {
			g.Producers++
			g.Produced += block.PowerProduction * s.productionEfficiency(entity, st) * delta
		}

		switch {
		case block.Buffered():
			g.Batteries++
			g.Stored += node.Status * block.ConsPower.Capacity
			g.Capacity += block.ConsPower.Capacity
		case block.ConsPower != nil:
			g.Consumers++
			if st.ShouldConsumePower {
				s.view.bind(block, st, inv, tank, node, s.rules, delta)
				g.Needed += block.ConsPower.Requested(&s.view, s.view.Delta())
			}
		}
	}

	supply := make(map[int32]float32, len(s.graphs))
	for id, g := range s.graphs {
		available := g.Produced
		if g.Needed > g.Produced {
			used := min(g.Stored, g.Needed-g.Produced)
			g.Stored -= used
			available += used
		} else {
			g.Stored += min(g.Capacity-g.Stored, g.Produced-g.Needed)
		}
		supply[id] = available

		if g.Needed <= 0 {
			g.Satisfaction = 1
		} else {
			g.Satisfaction = min(1, available/g.Needed)
		}
	}

	query = s.filter.Query()
	for query.Next() {
		st, _, _, _, node := query.Get()
		block := s.reg.Block(st.Block)
		if !block.HasPower || block.ConsPower == nil {
			continue
		}
		g := s.graphs[node.Graph]

		switch {
		case block.Buffered():
			if g.Capacity > 0 {
				node.Status = g.Stored / g.Capacity
			} else {
				node.Status = 0
			}
		case st.ShouldConsumePower:
			node.Status = g.Satisfaction
		default:
			node.Status = estimateStatus(supply[node.Graph], g.Needed, block.ConsPower.Usage*delta*st.TimeScale)
		}
	}
}

// estimateStatus is the satisfaction a building would get if it added its
// own usage to the graph's demand.
func estimateStatus(available, needed, usage float32) float32 {
	total := needed + usage
	if total <= 0 {
		if available > 0 {
			return 1
		}
		return 0
	}
	return min(1, available/total)
}

func (s *PowerSystem) productionEfficiency(entity ecs.Entity, st *components.Building) float32 {
	if s.genMap.Has(entity) {
		return s.genMap.Get(entity).ProductionEfficiency
	}
	return st.Efficiency
}

func (s *PowerSystem) graph(id int32) *GraphStats {
	g, ok := s.graphs[id]
	if !ok {
		g = &GraphStats{ID: id}
		s.graphs[id] = g
		s.order = append(s.order, id)
		slices.Sort(s.order)
	}
	return g
}

// Graphs returns the stats of every graph seen so far, ordered by id.
func (s *PowerSystem) Graphs() []GraphStats {
	out := make([]GraphStats, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.graphs[id])
	}
	return out
}

// Graph returns the stats of one graph.
func (s *PowerSystem) Graph(id int32) (GraphStats, bool) {
	g, ok := s.graphs[id]
	if !ok {
		return GraphStats{}, false
	}
	return *g, true
}
