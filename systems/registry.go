package systems

// SystemInfo names a tick phase for UI display.
type SystemInfo struct {
	ID   string // Internal identifier (used for perf tracking)
	Name string // Display name
}

// SystemRegistry holds metadata about all tick phases.
// This centralizes naming so the UI and perf tracker stay in sync.
type SystemRegistry struct {
	systems []SystemInfo
}

// NewSystemRegistry creates a registry with all known phases.
func NewSystemRegistry() *SystemRegistry {
	reg := &SystemRegistry{}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds all phases in tick order. IDs match the perf
// collector's phase names.
func (r *SystemRegistry) registerDefaults() {
	r.Register(SystemInfo{ID: "supply", Name: "Supply"})
	r.Register(SystemInfo{ID: "power", Name: "Power"})
	r.Register(SystemInfo{ID: "consumption", Name: "Consumption"})
	r.Register(SystemInfo{ID: "generators", Name: "Generators"})
	r.Register(SystemInfo{ID: "crafters", Name: "Crafters"})
	r.Register(SystemInfo{ID: "overdrive", Name: "Overdrive"})
	r.Register(SystemInfo{ID: "time_scale", Name: "Time Scale"})
	r.Register(SystemInfo{ID: "telemetry", Name: "Telemetry"})
}

// Register adds a system to the registry.
func (r *SystemRegistry) Register(info SystemInfo) {
	r.systems = append(r.systems, info)
}

// All returns all registered systems in tick order.
func (r *SystemRegistry) All() []SystemInfo {
	return r.systems
}
