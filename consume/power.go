package consume

// Power draws from the building's power graph.
//
// A buffered consumer is a battery: it never limits efficiency and asks for
// whatever it needs to fill its capacity.
type Power struct {
	flags
	Usage    float32 // power per tick while running
	Capacity float32 // stored power, buffered only
	Buffered bool
}

// NewPower returns a consumer drawing usage per tick.
func NewPower(usage float32) *Power {
	return &Power{Usage: usage}
}

// NewBattery returns a buffered consumer holding capacity units.
func NewBattery(capacity float32) *Power {
	return &Power{Capacity: capacity, Buffered: true}
}

// Efficiency returns the satisfied fraction of the request.
func (p *Power) Efficiency(b Building) float32 {
	if p.Buffered {
		return 1
	}
	node := b.Power()
	if node == nil {
		return 0
	}
	return node.Status
}

// Requested returns the power the building asks its graph for this tick.
func (p *Power) Requested(b Building, delta float32) float32 {
	if p.Buffered {
		return (1 - b.Power().Status) * p.Capacity
	}
	if !b.ShouldConsume() {
		return 0
	}
	return p.Usage * delta
}
