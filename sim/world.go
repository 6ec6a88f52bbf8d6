package sim

import (
	"fmt"
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/mindurka/overdrive/components"
	"github.com/mindurka/overdrive/content"
	"github.com/mindurka/overdrive/storage"
	"github.com/mindurka/overdrive/systems"
	"github.com/mindurka/overdrive/telemetry"
)

// spawnMap creates one entity per building definition. Building ids are
// assigned in map order starting at 1.
func (s *Sim) spawnMap() error {
	for i, def := range s.mapFile.Buildings {
		if _, err := s.spawn(def); err != nil {
			return fmt.Errorf("building %d (%s): %w", i, def.Block, err)
		}
	}
	return nil
}

func (s *Sim) spawn(def BuildingDef) (ecs.Entity, error) {
	block, ok := s.reg.BlockByName(def.Block)
	if !ok {
		return ecs.Entity{}, fmt.Errorf("unknown block %q", def.Block)
	}

	st := components.NewBuilding(block.ID, def.Team)
	if def.Enabled != nil {
		st.Enabled = *def.Enabled
	}
	pos := components.TilePosition(def.X, def.Y, block.Size)

	var inv components.Inventory
	for name, n := range def.Items {
		id, _ := content.ItemByName(name)
		inv.Add(id, n, block.ItemCapacity)
	}
	var tank components.Tank
	for name, amount := range def.Liquids {
		id, _ := content.LiquidByName(name)
		tank.Add(id, amount, block.LiquidCapacity)
	}
	node := components.PowerNode{Graph: def.Graph}

	e := s.base.NewEntity(&st, &pos, &inv, &tank, &node)

	switch block.Kind {
	case content.KindOverdrive:
		// Stagger pulses so projectors placed together do not fire in lockstep.
		od := components.Overdrive{Charge: s.rng.Float32() * block.Overdrive.Reload}
		s.ods.Add(e, &od)
	case content.KindGenerator:
		s.gens.Add(e, &components.Generator{})
	case content.KindCrafter:
		s.crafts.Add(e, &components.Crafter{})
	}

	if def.Supply != nil {
		sup, err := def.Supply.component()
		if err != nil {
			return ecs.Entity{}, err
		}
		s.supplies.Add(e, &sup)
	}

	s.entities = append(s.entities, e)
	s.ids[e] = uint32(len(s.entities))
	return e, nil
}

func (s *Sim) entity(id uint32) (ecs.Entity, error) {
	if id == 0 || int(id) > len(s.entities) {
		return ecs.Entity{}, fmt.Errorf("%w: %d", ErrUnknownBuilding, id)
	}
	e := s.entities[id-1]
	if !s.world.Alive(e) {
		return ecs.Entity{}, fmt.Errorf("%w: %d", ErrUnknownBuilding, id)
	}
	return e, nil
}

// SetOverdriveIgnoresCheat changes the session flag. The change applies
// from the next tick.
func (s *Sim) SetOverdriveIgnoresCheat(ignore bool) {
	if s.special.OverdriveIgnoresCheat == ignore {
		return
	}
	s.special.OverdriveIgnoresCheat = ignore
	slog.Info("overdrive ignores cheat changed", "value", ignore, "tick", s.tick)
}

// SetTeamCheat changes a team's cheat rule.
func (s *Sim) SetTeamCheat(team components.TeamID, cheat bool) {
	s.rules.SetCheat(team, cheat)
	slog.Info("team cheat changed", "team", team, "cheat", cheat, "tick", s.tick)
}

// TeamCheat reports a team's cheat rule.
func (s *Sim) TeamCheat(team components.TeamID) bool {
	return s.rules.Cheat(team)
}

// Teams returns the rules of every team named by the map.
func (s *Sim) Teams() map[components.TeamID]systems.TeamRules {
	out := make(map[components.TeamID]systems.TeamRules, len(s.rules.Teams))
	for team, tr := range s.rules.Teams {
		out[team] = tr
	}
	return out
}

// SetEnabled enables or disables a building by id.
func (s *Sim) SetEnabled(id uint32, enabled bool) error {
	e, err := s.entity(id)
	if err != nil {
		return err
	}
	s.states.Get(e).Enabled = enabled
	return nil
}

// Building returns the current state of one building.
func (s *Sim) Building(id uint32) (telemetry.BuildingState, error) {
	e, err := s.entity(id)
	if err != nil {
		return telemetry.BuildingState{}, err
	}
	return s.buildingState(e), nil
}

// Graphs returns the stats of every power graph as of the last tick.
func (s *Sim) Graphs() []systems.GraphStats {
	return s.power.Graphs()
}

// Counts returns the building counts of the last tick.
func (s *Sim) Counts() systems.ConsumptionCounts {
	return s.lastCounts
}

// Snapshot builds a view of the current state. It must be called from the
// simulation goroutine; other goroutines use Latest.
func (s *Sim) Snapshot(bookmark *telemetry.Bookmark) *telemetry.Snapshot {
	snap := &telemetry.Snapshot{
		Version:               telemetry.SnapshotVersion,
		Map:                   s.mapFile.Name,
		Tick:                  s.tick,
		Gamemode:              s.special.Gamemode,
		OverdriveIgnoresCheat: s.special.OverdriveIgnoresCheat,
		Buildings:             make([]telemetry.BuildingState, 0, len(s.entities)),
		Graphs:                s.power.Graphs(),
		Bookmark:              bookmark,
	}
	for _, e := range s.entities {
		if !s.world.Alive(e) {
			continue
		}
		snap.Buildings = append(snap.Buildings, s.buildingState(e))
	}
	return snap
}

func (s *Sim) buildingState(e ecs.Entity) telemetry.BuildingState {
	st := s.states.Get(e)
	pos := s.poses.Get(e)
	node := s.nodes.Get(e)
	block := s.reg.Block(st.Block)

	bs := telemetry.BuildingState{
		ID:    s.ids[e],
		Block: block.Name,
		Kind:  block.Kind.String(),
		Team:  uint8(st.Team),
		Size:  block.Size,
		Graph: node.Graph,
		X:     pos.X,
		Y:     pos.Y,

		Enabled:             st.Enabled,
		Cheating:            s.rules.Cheat(st.Team),
		Efficiency:          st.Efficiency,
		OptionalEfficiency:  st.OptionalEfficiency,
		PotentialEfficiency: st.PotentialEfficiency,
		ShouldConsumePower:  st.ShouldConsumePower,
		PowerStatus:         node.Status,
		TimeScale:           st.TimeScale,
	}

	if s.ods.Has(e) {
		od := s.ods.Get(e)
		bs.Heat = od.Heat
		bs.PhaseHeat = od.PhaseHeat
	}

	inv := s.invs.Get(e)
	for id, n := range inv.Counts {
		if n == 0 {
			continue
		}
		if bs.Items == nil {
			bs.Items = make(map[string]int32)
		}
		bs.Items[content.ItemName(uint16(id))] = n
	}
	tank := s.tanks.Get(e)
	for id, amount := range tank.Amounts {
		if amount <= 0 {
			continue
		}
		if bs.Liquids == nil {
			bs.Liquids = make(map[string]float32)
		}
		bs.Liquids[content.LiquidName(uint16(id))] = amount
	}
	return bs
}

// projectorEfficiency samples the efficiency of every overdrive building.
func (s *Sim) projectorEfficiency() []float64 {
	var out []float64
	for _, e := range s.entities {
		if !s.world.Alive(e) || !s.ods.Has(e) {
			continue
		}
		out = append(out, float64(s.states.Get(e).Efficiency))
	}
	return out
}

// publish stores a snapshot for readers on other goroutines.
func (s *Sim) publish() {
	snap := s.Snapshot(nil)
	s.mu.Lock()
	s.latest = snap
	s.mu.Unlock()
}

// Latest returns the most recently published snapshot. Safe for concurrent
// use; the snapshot must not be modified.
func (s *Sim) Latest() *telemetry.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// Store returns the run store, nil when runs are not stored.
func (s *Sim) Store() *storage.Store {
	return s.store
}
