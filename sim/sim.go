// Package sim wires the ECS world, the block registry and the systems into
// a tick-driven simulation of one map.
package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/mindurka/overdrive/components"
	"github.com/mindurka/overdrive/config"
	"github.com/mindurka/overdrive/content"
	"github.com/mindurka/overdrive/overrides"
	"github.com/mindurka/overdrive/settings"
	"github.com/mindurka/overdrive/storage"
	"github.com/mindurka/overdrive/systems"
	"github.com/mindurka/overdrive/telemetry"
)

// ErrUnknownBuilding is returned by toggles given an id not on the map.
var ErrUnknownBuilding = errors.New("unknown building")

// Options configures a simulation.
type Options struct {
	MapPath        string // empty = config sim.map, then the embedded default
	Seed           int64
	LogStats       bool
	OutputDir      string // CSV/YAML output (empty = disabled)
	DBPath         string // sqlite run store (empty = config storage.path)
	StepsPerUpdate int
	StatsCallback  func(telemetry.WindowStats)
	Config         *config.Config // nil = global config
}

// Sim is one running map.
type Sim struct {
	cfg   *config.Config
	rng   *rand.Rand
	world *ecs.World
	reg   *content.Registry
	rules *systems.Rules

	mapFile *MapFile
	special *settings.SpecialSettings

	// Entity access
	base     *ecs.Map5[components.Building, components.Position, components.Inventory, components.Tank, components.PowerNode]
	states   *ecs.Map[components.Building]
	poses    *ecs.Map[components.Position]
	invs     *ecs.Map[components.Inventory]
	tanks    *ecs.Map[components.Tank]
	nodes    *ecs.Map[components.PowerNode]
	ods      *ecs.Map[components.Overdrive]
	gens     *ecs.Map[components.Generator]
	crafts   *ecs.Map[components.Crafter]
	supplies *ecs.Map[components.Supply]
	entities []ecs.Entity // index is building id - 1
	ids      map[ecs.Entity]uint32

	// Systems, in tick order
	supply      *systems.SupplySystem
	power       *systems.PowerSystem
	consumption *systems.ConsumptionSystem
	generator   *systems.GeneratorSystem
	crafter     *systems.CrafterSystem
	overdrive   *systems.OverdriveSystem
	timeScale   *systems.TimeScaleSystem

	// State
	tick           int32
	paused         bool
	stepsPerUpdate int
	lastCounts     systems.ConsumptionCounts
	pulses         []systems.Pulse // fired during the last update

	// Telemetry
	collector     *telemetry.Collector
	perf          *telemetry.PerfCollector
	bookmarks     *telemetry.BookmarkDetector
	output        *telemetry.OutputManager
	store         *storage.Store
	run           storage.Run
	logStats      bool
	statsCallback func(telemetry.WindowStats)

	// Cross-goroutine access
	cmds   chan func(*Sim)
	mu     sync.RWMutex
	latest *telemetry.Snapshot
}

// New loads the map, builds the world and opens telemetry outputs. The
// global config must be initialised unless opts.Config is set.
func New(opts Options) (*Sim, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	mapPath := opts.MapPath
	if mapPath == "" {
		mapPath = cfg.Sim.Map
	}
	m, err := LoadMap(mapPath)
	if err != nil {
		return nil, err
	}

	special, err := settings.Parse(m.Tags, m.Width, m.Height, settings.Defaults{
		Gamemode:              cfg.Session.Gamemode,
		OverdriveIgnoresCheat: cfg.Session.OverdriveIgnoresCheat,
	})
	if err != nil {
		return nil, fmt.Errorf("map %q: %w", m.Name, err)
	}
	for _, w := range special.Warnings {
		slog.Warn("map settings", "map", m.Name, "warning", w)
	}

	reg := content.Load()
	overrides.Load(reg)

	world := ecs.NewWorld()
	rules := m.Rules()
	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	s := &Sim{
		cfg:     cfg,
		rng:     rand.New(rand.NewSource(opts.Seed)),
		world:   world,
		reg:     reg,
		rules:   rules,
		mapFile: m,
		special: special,

		base:     ecs.NewMap5[components.Building, components.Position, components.Inventory, components.Tank, components.PowerNode](world),
		states:   ecs.NewMap[components.Building](world),
		poses:    ecs.NewMap[components.Position](world),
		invs:     ecs.NewMap[components.Inventory](world),
		tanks:    ecs.NewMap[components.Tank](world),
		nodes:    ecs.NewMap[components.PowerNode](world),
		ods:      ecs.NewMap[components.Overdrive](world),
		gens:     ecs.NewMap[components.Generator](world),
		crafts:   ecs.NewMap[components.Crafter](world),
		supplies: ecs.NewMap[components.Supply](world),
		ids:      make(map[ecs.Entity]uint32),

		supply:      systems.NewSupplySystem(world, reg),
		power:       systems.NewPowerSystem(world, reg, rules),
		consumption: systems.NewConsumptionSystem(world, reg, rules),
		generator:   systems.NewGeneratorSystem(world, reg, rules),
		crafter:     systems.NewCrafterSystem(world, reg, rules),
		overdrive: systems.NewOverdriveSystem(world, reg, rules,
			cfg.Derived.HeatLerp32, cfg.Derived.PhaseLerp32, cfg.Derived.SmoothLerp32),
		timeScale: systems.NewTimeScaleSystem(world, reg),

		stepsPerUpdate: steps,
		collector:      telemetry.NewCollector(cfg.Derived.WindowTicks, 1/float64(cfg.Sim.TicksPerSecond)),
		perf:           telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarks:      telemetry.NewBookmarkDetector(10),
		logStats:       opts.LogStats,
		statsCallback:  opts.StatsCallback,
		cmds:           make(chan func(*Sim), 64),
	}

	if err := s.spawnMap(); err != nil {
		return nil, err
	}

	if err := s.openOutputs(opts); err != nil {
		s.Close()
		return nil, err
	}

	slog.Info("map loaded",
		"map", m.Name,
		"gamemode", special.Gamemode,
		"patch", special.Patch,
		"overdrive_ignores_cheat", special.OverdriveIgnoresCheat,
		"buildings", len(s.entities),
	)

	s.publish()
	return s, nil
}

func (s *Sim) openOutputs(opts Options) error {
	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return err
	}
	s.output = om
	if err := om.WriteConfig(s.cfg); err != nil {
		return fmt.Errorf("writing config snapshot: %w", err)
	}
	if dir := om.Dir(); dir != "" {
		slog.Info("writing telemetry", "dir", dir)
	}

	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = s.cfg.Storage.Path
	}
	if dbPath == "" {
		return nil
	}
	store, err := storage.Open(dbPath)
	if err != nil {
		return err
	}
	s.store = store
	run, err := store.BeginRun(context.Background(), storage.Run{
		Map:                   s.mapFile.Name,
		Gamemode:              s.special.Gamemode,
		OverdriveIgnoresCheat: s.special.OverdriveIgnoresCheat,
		Seed:                  opts.Seed,
	})
	if err != nil {
		return err
	}
	s.run = run
	slog.Info("run started", "run_id", run.ID, "db", dbPath)
	return nil
}

// Update runs StepsPerUpdate ticks unless paused, then publishes a
// snapshot.
func (s *Sim) Update() {
	s.drainCommands()
	s.pulses = s.pulses[:0]
	if !s.paused {
		for i := 0; i < s.stepsPerUpdate; i++ {
			s.Step()
		}
	}
	s.publish()
}

// Step runs a single tick.
func (s *Sim) Step() {
	delta := s.cfg.Derived.Delta32
	session := s.special.Session()

	s.perf.StartTick()

	s.perf.StartPhase(telemetry.PhaseSupply)
	supplied := s.supply.Update(delta)

	s.perf.StartPhase(telemetry.PhasePower)
	s.power.Update(delta)

	s.perf.StartPhase(telemetry.PhaseConsumption)
	s.lastCounts = s.consumption.Update(session, delta)

	s.perf.StartPhase(telemetry.PhaseGenerators)
	burned := s.generator.Update(delta)

	s.perf.StartPhase(telemetry.PhaseCrafters)
	crafted := s.crafter.Update(delta)

	s.perf.StartPhase(telemetry.PhaseOverdrive)
	pulses := s.overdrive.Update(delta)
	s.pulses = append(s.pulses, pulses...)

	s.perf.StartPhase(telemetry.PhaseTimeScale)
	boosted := s.timeScale.Update(delta)

	s.tick++

	s.perf.StartPhase(telemetry.PhaseTelemetry)
	s.collector.Record(telemetry.TickSample{
		Consumption: s.lastCounts,
		Supply:      supplied,
		Graphs:      s.power.Graphs(),
		Boosted:     boosted,
		Pulses:      len(pulses),
		FuelBurned:  burned,
		Crafts:      crafted,
	})
	s.flushTelemetry()

	s.perf.EndTick()
}

// Run steps the simulation until ctx is cancelled or maxTicks is reached
// (0 = unlimited). Ticks are paced to the configured rate unless
// unthrottled.
func (s *Sim) Run(ctx context.Context, maxTicks int32, unthrottled bool) error {
	var ticker *time.Ticker
	if !unthrottled {
		ticker = time.NewTicker(time.Second / time.Duration(s.cfg.Sim.TicksPerSecond))
		defer ticker.Stop()
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if ticker != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		}

		s.Update()

		if maxTicks > 0 && s.tick >= maxTicks {
			slog.Info("max ticks reached", "tick", s.tick)
			return nil
		}
	}
}

// Enqueue schedules fn to run on the simulation goroutine before the next
// update.
func (s *Sim) Enqueue(fn func(*Sim)) {
	s.cmds <- fn
}

func (s *Sim) drainCommands() {
	for {
		select {
		case fn := <-s.cmds:
			fn(s)
		default:
			return
		}
	}
}

// Tick returns the number of ticks run.
func (s *Sim) Tick() int32 {
	return s.tick
}

// Pulses returns the overdrive pulses fired during the last update.
func (s *Sim) Pulses() []systems.Pulse {
	return s.pulses
}

// StepsPerUpdate returns the ticks run per update.
func (s *Sim) StepsPerUpdate() int {
	return s.stepsPerUpdate
}

// SetStepsPerUpdate changes the ticks run per update, minimum 1.
func (s *Sim) SetStepsPerUpdate(n int) {
	s.stepsPerUpdate = max(n, 1)
}

// MapSize returns the map size in tiles.
func (s *Sim) MapSize() (width, height int) {
	return s.mapFile.Width, s.mapFile.Height
}

// Paused reports whether updates are skipped.
func (s *Sim) Paused() bool {
	return s.paused
}

// SetPaused pauses or resumes updates.
func (s *Sim) SetPaused(paused bool) {
	s.paused = paused
}

// Registry returns the block registry.
func (s *Sim) Registry() *content.Registry {
	return s.reg
}

// Settings returns the special settings of the loaded map.
func (s *Sim) Settings() settings.SpecialSettings {
	return *s.special
}

// RunID returns the id of the stored run, empty without a store.
func (s *Sim) RunID() string {
	return s.run.ID
}

// PerfStats returns step timing over the recent window.
func (s *Sim) PerfStats() telemetry.PerfStats {
	return s.perf.Stats()
}

// RecordFrame records frame timing in graphical mode.
func (s *Sim) RecordFrame() {
	s.perf.RecordFrame()
}

// Close finishes the stored run and closes outputs.
func (s *Sim) Close() error {
	var errs []error
	if s.store != nil {
		if s.run.ID != "" {
			errs = append(errs, s.store.FinishRun(context.Background(), s.run.ID, s.tick, time.Now()))
		}
		errs = append(errs, s.store.Close())
	}
	errs = append(errs, s.output.Close())
	return errors.Join(errs...)
}
