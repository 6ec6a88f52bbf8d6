// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Sim       SimConfig       `yaml:"sim"`
	Session   SessionConfig   `yaml:"session"`
	Overdrive OverdriveConfig `yaml:"overdrive"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Storage   StorageConfig   `yaml:"storage"`
	Server    ServerConfig    `yaml:"server"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	TargetFPS int     `yaml:"target_fps"`
	Zoom      float64 `yaml:"zoom"` // pixels per world unit
}

// SimConfig holds tick parameters.
type SimConfig struct {
	TicksPerSecond int     `yaml:"ticks_per_second"`
	Delta          float64 `yaml:"delta"` // ticks advanced per step
	Map            string  `yaml:"map"`   // map file (empty = embedded default)
}

// SessionConfig holds server-wide defaults for map special settings.
type SessionConfig struct {
	Gamemode              string `yaml:"gamemode"`
	OverdriveIgnoresCheat bool   `yaml:"overdrive_ignores_cheat"` // used when the map has no tag
}

// OverdriveConfig holds projector smoothing rates.
type OverdriveConfig struct {
	HeatLerp   float64 `yaml:"heat_lerp"`   // per-tick approach of heat to 0/1
	PhaseLerp  float64 `yaml:"phase_lerp"`  // per-tick approach of phase heat to optional efficiency
	SmoothLerp float64 `yaml:"smooth_lerp"` // per-tick approach of smoothed efficiency
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"` // seconds
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// StorageConfig holds run persistence settings.
type StorageConfig struct {
	Path string `yaml:"path"` // sqlite file (empty = disabled)
}

// ServerConfig holds status server settings.
type ServerConfig struct {
	Addr              string  `yaml:"addr"`
	BroadcastInterval float64 `yaml:"broadcast_interval"` // seconds between websocket snapshots
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Delta32      float32 // Sim.Delta as float32
	WindowTicks  int32   // Telemetry.StatsWindow in ticks
	HeatLerp32   float32
	PhaseLerp32  float32
	SmoothLerp32 float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.ComputeDerived()

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Sim.TicksPerSecond <= 0 {
		return fmt.Errorf("sim.ticks_per_second must be positive, got %d", c.Sim.TicksPerSecond)
	}
	if c.Sim.Delta <= 0 {
		return fmt.Errorf("sim.delta must be positive, got %v", c.Sim.Delta)
	}
	if c.Session.Gamemode == "" {
		return fmt.Errorf("session.gamemode must be set")
	}
	return nil
}

// ComputeDerived calculates values derived from loaded config. Call it again
// after changing fields in place.
func (c *Config) ComputeDerived() {
	c.Derived.Delta32 = float32(c.Sim.Delta)
	c.Derived.HeatLerp32 = float32(c.Overdrive.HeatLerp)
	c.Derived.PhaseLerp32 = float32(c.Overdrive.PhaseLerp)
	c.Derived.SmoothLerp32 = float32(c.Overdrive.SmoothLerp)

	ticks := int32(c.Telemetry.StatsWindow * float64(c.Sim.TicksPerSecond))
	if ticks < 1 {
		ticks = 1
	}
	c.Derived.WindowTicks = ticks
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
