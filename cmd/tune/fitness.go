package main

import (
	"context"
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/mindurka/overdrive/config"
	"github.com/mindurka/overdrive/sim"
	"github.com/mindurka/overdrive/telemetry"
)

// Quality component weights.
const (
	weightProjector    = 0.5
	weightSatisfaction = 0.3
	weightStability    = 0.2

	warmupWindows = 1 // skip first N windows while heat settles
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int32
	seeds      []int64
	mapPath    string
	baseConfig *config.Config

	mu          sync.Mutex
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, mapPath string, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxTicks:   maxTicks,
		seeds:      seeds,
		mapPath:    mapPath,
		baseConfig: baseCfg,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Seeds run one after another: map settings are process-wide.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	var total float64
	for _, seed := range fe.seeds {
		windows, err := fe.runSimulation(x, seed)
		if err != nil {
			slog.Error("evaluation failed", "seed", seed, "error", err)
			return math.Inf(1)
		}
		total += computeQuality(windows)
	}
	quality := total / float64(len(fe.seeds))

	fe.mu.Lock()
	fe.lastQuality = quality
	fe.mu.Unlock()

	return -quality
}

// runSimulation executes a single headless run and returns its windows.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) ([]telemetry.WindowStats, error) {
	cfg := *fe.baseConfig
	fe.params.ApplyToConfig(&cfg, x)

	var windows []telemetry.WindowStats
	s, err := sim.New(sim.Options{
		MapPath:        fe.mapPath,
		Seed:           seed,
		StepsPerUpdate: 1,
		Config:         &cfg,
		StatsCallback: func(ws telemetry.WindowStats) {
			windows = append(windows, ws)
		},
	})
	if err != nil {
		return nil, err
	}
	defer s.Close()

	if err := s.Run(context.Background(), fe.maxTicks, true); err != nil {
		return nil, err
	}
	return windows, nil
}

// computeQuality scores a run in [0, 1]: projectors that stay running, power
// graphs that stay satisfied, and little swing in projector efficiency
// between windows.
func computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= warmupWindows {
		return 0
	}
	valid := windows[warmupWindows:]

	effs := make([]float64, len(valid))
	sats := make([]float64, len(valid))
	for i, w := range valid {
		effs[i] = w.ProjectorEffMean
		sats[i] = w.SatisfactionMin
	}

	effMean := stat.Mean(effs, nil)
	stability := 1.0
	if len(effs) >= 2 {
		stability = math.Exp(-stat.PopStdDev(effs, nil) * 4)
	}

	quality := weightProjector*effMean +
		weightSatisfaction*stat.Mean(sats, nil) +
		weightStability*stability
	return max(0, min(quality, 1))
}
