package efficiency

import (
	"math"
	"testing"
)

type fakeBuilding struct {
	state           State
	enabled         bool
	cheating        bool
	shouldConsume   bool
	productionValid bool
	multiplier      float32
	multiplierCalls int
}

func newFake() *fakeBuilding {
	return &fakeBuilding{
		enabled:         true,
		shouldConsume:   true,
		productionValid: true,
		multiplier:      1,
	}
}

func (f *fakeBuilding) Enabled() bool           { return f.enabled }
func (f *fakeBuilding) Cheating() bool          { return f.cheating }
func (f *fakeBuilding) ShouldConsume() bool     { return f.shouldConsume }
func (f *fakeBuilding) ProductionValid() bool   { return f.productionValid }
func (f *fakeBuilding) EfficiencyState() *State { return &f.state }

func (f *fakeBuilding) UpdateEfficiencyMultiplier() {
	f.multiplierCalls++
	f.state.Efficiency *= f.multiplier
	f.state.OptionalEfficiency *= f.multiplier
}

// fakeConsumer reports a fixed efficiency and logs its updates.
type fakeConsumer struct {
	name    string
	value   float32
	updates *[]string
}

func (c *fakeConsumer) Efficiency(*fakeBuilding) float32 { return c.value }

func (c *fakeConsumer) Update(*fakeBuilding) {
	if c.updates != nil {
		*c.updates = append(*c.updates, c.name)
	}
}

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-6
}

func TestResolve_NoConsumersAlwaysDrawsPower(t *testing.T) {
	tests := []struct {
		name      string
		enabled   bool
		consume   bool
		valid     bool
		wantValue float32
		wantPot   float32
	}{
		{"enabled running", true, true, true, 1, 1},
		{"disabled", false, true, true, 0, 0},
		{"production invalid", true, true, false, 0, 0},
		{"not consuming", true, false, true, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newFake()
			b.enabled, b.shouldConsume, b.productionValid = tt.enabled, tt.consume, tt.valid
			g := &Groups[*fakeBuilding]{}

			Resolve(b, g, false)

			if !b.state.ShouldConsumePower {
				t.Error("buildings without consumers should always draw power")
			}
			if b.state.Efficiency != tt.wantValue || b.state.OptionalEfficiency != tt.wantValue {
				t.Errorf("efficiency = %v/%v, want %v", b.state.Efficiency, b.state.OptionalEfficiency, tt.wantValue)
			}
			if b.state.PotentialEfficiency != tt.wantPot {
				t.Errorf("potential = %v, want %v", b.state.PotentialEfficiency, tt.wantPot)
			}
			if b.multiplierCalls != 1 {
				t.Errorf("multiplier hook called %d times, want 1", b.multiplierCalls)
			}
		})
	}
}

func TestResolve_DisabledZeroesEverything(t *testing.T) {
	var updates []string
	b := newFake()
	b.enabled = false
	b.state = State{Efficiency: 0.7, OptionalEfficiency: 0.4, PotentialEfficiency: 0.9, ShouldConsumePower: true}
	g := &Groups[*fakeBuilding]{
		NonOptional:  []Consumer[*fakeBuilding]{&fakeConsumer{name: "items", value: 1, updates: &updates}},
		Update:       []Consumer[*fakeBuilding]{&fakeConsumer{name: "items", value: 1, updates: &updates}},
		HasConsumers: true,
	}

	Resolve(b, g, false)

	if b.state != (State{}) {
		t.Errorf("disabled building state = %+v, want zero", b.state)
	}
	if len(updates) != 0 {
		t.Errorf("disabled building ran updates: %v", updates)
	}
	if b.multiplierCalls != 0 {
		t.Error("multiplier hook should not run for disabled buildings")
	}
}

func TestResolve_CheatBypass(t *testing.T) {
	for _, valid := range []bool{true, false} {
		b := newFake()
		b.cheating = true
		b.productionValid = valid
		g := &Groups[*fakeBuilding]{
			NonOptional:  []Consumer[*fakeBuilding]{&fakeConsumer{value: 0}},
			HasConsumers: true,
		}

		Vanilla(b, g, Session{})

		if !b.state.ShouldConsumePower {
			t.Errorf("valid=%v: cheat bypass should draw power", valid)
		}
		want := float32(0)
		if valid {
			want = 1
		}
		if b.state.PotentialEfficiency != want {
			t.Errorf("valid=%v: potential = %v, want %v", valid, b.state.PotentialEfficiency, want)
		}
	}
}

func TestIgnoreCheat_ForcesAccounting(t *testing.T) {
	starved := &fakeConsumer{value: 0}
	g := &Groups[*fakeBuilding]{
		NonOptional:  []Consumer[*fakeBuilding]{starved},
		HasConsumers: true,
	}

	b := newFake()
	b.cheating = true
	IgnoreCheat(b, g, Session{OverdriveIgnoresCheat: true})
	if b.state.Efficiency != 0 || b.state.ShouldConsumePower {
		t.Errorf("forced accounting state = %+v, want starved", b.state)
	}

	b = newFake()
	b.cheating = true
	IgnoreCheat(b, g, Session{OverdriveIgnoresCheat: false})
	if b.state.Efficiency != 1 || !b.state.ShouldConsumePower {
		t.Errorf("session without flag should bypass, got %+v", b.state)
	}
}

func TestResolve_OptionalNeverExceedsRequired(t *testing.T) {
	values := []float32{0, 1e-8, 0.1, 0.25, 0.5, 0.75, 0.99, 1}
	for _, req := range values {
		for _, opt := range values {
			b := newFake()
			g := &Groups[*fakeBuilding]{
				NonOptional:  []Consumer[*fakeBuilding]{&fakeConsumer{value: req}},
				Optional:     []Consumer[*fakeBuilding]{&fakeConsumer{value: opt}},
				HasConsumers: true,
			}
			Resolve(b, g, false)
			if b.state.OptionalEfficiency > b.state.PotentialEfficiency {
				t.Errorf("req=%v opt=%v: optional %v > required %v", req, opt, b.state.OptionalEfficiency, b.state.PotentialEfficiency)
			}
			if !approx(b.state.OptionalEfficiency, min(req, opt)) {
				t.Errorf("req=%v opt=%v: optional = %v, want %v", req, opt, b.state.OptionalEfficiency, min(req, opt))
			}
		}
	}
}

func TestResolve_PowerConsumerExemptFromStarvation(t *testing.T) {
	power := &fakeConsumer{name: "power", value: 1}
	items := &fakeConsumer{name: "items", value: 0}
	g := &Groups[*fakeBuilding]{
		NonOptional:  []Consumer[*fakeBuilding]{power, items},
		Power:        power,
		HasConsumers: true,
	}

	b := newFake()
	Resolve(b, g, false)
	if b.state.ShouldConsumePower {
		t.Error("starved item input should stop power draw")
	}
	if b.state.PotentialEfficiency != 0 {
		t.Errorf("potential = %v, want 0", b.state.PotentialEfficiency)
	}

	// An unpowered building must keep asking for power.
	power.value = 0
	items.value = 1
	b = newFake()
	Resolve(b, g, false)
	if !b.state.ShouldConsumePower {
		t.Error("empty power consumer must not stop power draw")
	}
	if b.state.Efficiency != 0 {
		t.Errorf("efficiency = %v, want 0 without power", b.state.Efficiency)
	}

	// Power status folds into the minimum like any other input.
	power.value = 0.3
	b = newFake()
	Resolve(b, g, false)
	if !approx(b.state.Efficiency, 0.3) {
		t.Errorf("efficiency = %v, want 0.3", b.state.Efficiency)
	}
}

func TestResolve_NoiseBelowThresholdIsStarved(t *testing.T) {
	g := &Groups[*fakeBuilding]{
		NonOptional:  []Consumer[*fakeBuilding]{&fakeConsumer{value: 5e-8}},
		HasConsumers: true,
	}
	b := newFake()
	Resolve(b, g, false)
	if b.state.ShouldConsumePower {
		t.Error("efficiency below threshold should count as starved")
	}

	g.NonOptional[0].(*fakeConsumer).value = 1e-6
	b = newFake()
	Resolve(b, g, false)
	if !b.state.ShouldConsumePower {
		t.Error("efficiency above threshold should not count as starved")
	}
}

func TestResolve_RunningBuildingUpdatesInOrder(t *testing.T) {
	var updates []string
	required := &fakeConsumer{name: "required", value: 0.5, updates: &updates}
	optional := &fakeConsumer{name: "optional", value: 0.8, updates: &updates}
	liquid := &fakeConsumer{name: "liquid", value: 1, updates: &updates}
	g := &Groups[*fakeBuilding]{
		NonOptional:  []Consumer[*fakeBuilding]{required, liquid},
		Optional:     []Consumer[*fakeBuilding]{optional},
		Update:       []Consumer[*fakeBuilding]{required, liquid, optional},
		HasConsumers: true,
	}

	b := newFake()
	Resolve(b, g, false)

	if !approx(b.state.Efficiency, 0.5) || !approx(b.state.PotentialEfficiency, 0.5) {
		t.Errorf("efficiency/potential = %v/%v, want 0.5", b.state.Efficiency, b.state.PotentialEfficiency)
	}
	if !approx(b.state.OptionalEfficiency, 0.5) {
		t.Errorf("optional = %v, want 0.5", b.state.OptionalEfficiency)
	}
	if !b.state.ShouldConsumePower {
		t.Error("expected power draw")
	}
	want := []string{"required", "liquid", "optional"}
	if len(updates) != len(want) {
		t.Fatalf("updates = %v, want %v", updates, want)
	}
	for i := range want {
		if updates[i] != want[i] {
			t.Errorf("update %d = %s, want %s", i, updates[i], want[i])
		}
	}
}

func TestResolve_NotWantingUpdateKeepsPotential(t *testing.T) {
	var updates []string
	required := &fakeConsumer{name: "required", value: 0.5, updates: &updates}
	g := &Groups[*fakeBuilding]{
		NonOptional:  []Consumer[*fakeBuilding]{required},
		Optional:     []Consumer[*fakeBuilding]{&fakeConsumer{value: 0.8}},
		Update:       []Consumer[*fakeBuilding]{required},
		HasConsumers: true,
	}

	for _, tweak := range []func(*fakeBuilding){
		func(b *fakeBuilding) { b.shouldConsume = false },
		func(b *fakeBuilding) { b.productionValid = false },
	} {
		updates = updates[:0]
		b := newFake()
		tweak(b)
		Resolve(b, g, false)

		if !approx(b.state.PotentialEfficiency, 0.5) {
			t.Errorf("potential = %v, want 0.5", b.state.PotentialEfficiency)
		}
		if b.state.Efficiency != 0 || b.state.OptionalEfficiency != 0 {
			t.Errorf("efficiency/optional = %v/%v, want 0", b.state.Efficiency, b.state.OptionalEfficiency)
		}
		if len(updates) != 0 {
			t.Errorf("idle building ran updates: %v", updates)
		}
	}
}

func TestResolve_MultiplierRunsBeforeUpdateGate(t *testing.T) {
	var updates []string
	required := &fakeConsumer{name: "required", value: 1, updates: &updates}
	g := &Groups[*fakeBuilding]{
		NonOptional:  []Consumer[*fakeBuilding]{required},
		Update:       []Consumer[*fakeBuilding]{required},
		HasConsumers: true,
	}

	b := newFake()
	b.multiplier = 0
	Resolve(b, g, false)

	if b.state.Efficiency != 0 {
		t.Errorf("efficiency = %v, want 0 after multiplier", b.state.Efficiency)
	}
	if b.state.PotentialEfficiency != 1 {
		t.Errorf("potential = %v, want 1", b.state.PotentialEfficiency)
	}
	if len(updates) != 0 {
		t.Error("zero efficiency after multiplier should skip updates")
	}
}
