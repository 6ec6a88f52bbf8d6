package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/mindurka/overdrive/components"
	"github.com/mindurka/overdrive/content"
)

// Pulse is one boost emitted by a projector this tick.
type Pulse struct {
	Source    ecs.Entity
	Team      components.TeamID
	Pos       components.Position
	Range     float32
	Intensity float32
	Duration  float32
}

// OverdriveSystem runs the tile update of overdrive projectors and applies
// their boosts to nearby buildings of the same team.
type OverdriveSystem struct {
	projectors *ecs.Filter4[components.Building, components.Position, components.Overdrive, components.Inventory]
	targets    *ecs.Filter2[components.Building, components.Position]
	reg        *content.Registry
	rules      *Rules

	heatLerp, phaseLerp, smoothLerp float32

	view   Build
	pulses []Pulse
}

// NewOverdriveSystem creates a new overdrive system.
func NewOverdriveSystem(w *ecs.World, reg *content.Registry, rules *Rules, heatLerp, phaseLerp, smoothLerp float32) *OverdriveSystem {
	return &OverdriveSystem{
		projectors: ecs.NewFilter4[components.Building, components.Position, components.Overdrive, components.Inventory](w),
		targets:    ecs.NewFilter2[components.Building, components.Position](w),
		reg:        reg,
		rules:      rules,
		heatLerp:   heatLerp,
		phaseLerp:  phaseLerp,
		smoothLerp: smoothLerp,
	}
}

// Update advances every projector and boosts the buildings in range of
// those that fired. It returns the pulses fired this tick.
func (s *OverdriveSystem) Update(delta float32) []Pulse {
	s.pulses = s.pulses[:0]

	query := s.projectors.Query()
	for query.Next() {
		entity := query.Entity()
		st, pos, od, inv := query.Get()
		block := s.reg.Block(st.Block)
		stats := block.Overdrive
		d := delta * st.TimeScale

		od.SmoothEfficiency = lerpDelta(od.SmoothEfficiency, st.Efficiency, s.smoothLerp, d)
		active := float32(0)
		if st.Efficiency > 0 {
			active = 1
		}
		od.Heat = lerpDelta(od.Heat, active, s.heatLerp, d)
		od.Charge += od.Heat * d

		if stats.HasBoost {
			od.PhaseHeat = lerpDelta(od.PhaseHeat, st.OptionalEfficiency, s.phaseLerp, d)
		}

		if od.Charge >= stats.Reload {
			od.Charge = 0
			s.pulses = append(s.pulses, Pulse{
				Source:    entity,
				Team:      st.Team,
				Pos:       *pos,
				Range:     stats.Range + od.PhaseHeat*stats.PhaseRangeBoost,
				Intensity: (stats.SpeedBoost + od.PhaseHeat*stats.SpeedBoostPhase) * st.Efficiency,
				Duration:  stats.Reload + 1,
			})
		}

		if st.Efficiency > 0 {
			od.UseProgress += d
		}
		if od.UseProgress >= stats.UseTime {
			s.view.bind(block, st, inv, nil, nil, s.rules, delta)
			s.view.Consume()
			od.UseProgress = mod(od.UseProgress, stats.UseTime)
		}
	}

	if len(s.pulses) == 0 {
		return nil
	}

	targets := s.targets.Query()
	for targets.Next() {
		st, pos := targets.Get()
		if !s.reg.Block(st.Block).CanOverdrive {
			continue
		}
		for _, p := range s.pulses {
			if p.Team == st.Team && pos.DistSq(p.Pos) <= p.Range*p.Range {
				ApplyBoost(st, p.Intensity, p.Duration)
			}
		}
	}

	return s.pulses
}

// ApplyBoost raises a building's time scale. A boost at least as strong as
// the current one also extends its duration.
func ApplyBoost(st *components.Building, intensity, duration float32) {
	if intensity >= st.TimeScale-0.001 {
		st.TimeScaleDuration = max(st.TimeScaleDuration, duration)
	}
	st.TimeScale = max(st.TimeScale, intensity)
}

func mod(a, b float32) float32 {
	for a >= b {
		a -= b
	}
	return a
}
