package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/mindurka/overdrive/components"
	"github.com/mindurka/overdrive/content"
)

// TimeScaleSystem expires overdrive boosts.
type TimeScaleSystem struct {
	filter *ecs.Filter1[components.Building]
	reg    *content.Registry
}

// NewTimeScaleSystem creates a new time scale system.
func NewTimeScaleSystem(w *ecs.World, reg *content.Registry) *TimeScaleSystem {
	return &TimeScaleSystem{
		filter: ecs.NewFilter1[components.Building](w),
		reg:    reg,
	}
}

// Update counts down boost durations. It returns the number of buildings
// still boosted.
func (s *TimeScaleSystem) Update(delta float32) int {
	boosted := 0
	query := s.filter.Query()
	for query.Next() {
		st := query.Get()
		st.TimeScaleDuration -= delta
		if st.TimeScaleDuration <= 0 || !s.reg.Block(st.Block).CanOverdrive {
			st.TimeScale = 1
			st.TimeScaleDuration = max(st.TimeScaleDuration, 0)
			continue
		}
		if st.TimeScale > 1 {
			boosted++
		}
	}
	return boosted
}
