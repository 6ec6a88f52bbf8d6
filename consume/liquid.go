package consume

// minEDelta is the effective tick length below which a liquid consumer
// reports no efficiency.
const minEDelta = 1e-8

// Liquid drains a liquid continuously while the building runs.
type Liquid struct {
	flags
	Liquid uint16
	Amount float32 // per tick at full efficiency
}

// NewLiquid returns a consumer draining amount of liquid per tick.
func NewLiquid(liquid uint16, amount float32) *Liquid {
	return &Liquid{Liquid: liquid, Amount: amount}
}

// Boost marks the consumer as an optional booster that still drains.
func (c *Liquid) Boost() *Liquid {
	c.optional = true
	c.booster = true
	return c
}

func (c *Liquid) Efficiency(b Building) float32 {
	ed := b.EDelta() * b.EfficiencyScale()
	if ed <= minEDelta {
		return 0
	}
	tank := b.Tank()
	if tank == nil {
		return 0
	}
	return min(tank.Get(c.Liquid)/(c.Amount*ed), 1)
}

func (c *Liquid) Update(b Building) {
	if tank := b.Tank(); tank != nil {
		tank.Remove(c.Liquid, c.Amount*b.EDelta())
	}
}
