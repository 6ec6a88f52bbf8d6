package main

import (
	"math"
	"testing"

	"github.com/mindurka/overdrive/config"
	"github.com/mindurka/overdrive/telemetry"
)

func TestParamVector_RoundTrip(t *testing.T) {
	pv := NewParamVector()
	def := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(def))
	for i := range def {
		if math.Abs(back[i]-def[i]) > 1e-9 {
			t.Errorf("%s: got %v, want %v", pv.Specs[i].Name, back[i], def[i])
		}
	}
}

func TestParamVector_ApplyClampsAndDerives(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	pv := NewParamVector()
	pv.ApplyToConfig(cfg, []float64{-1, 0.2, 9})

	got := pv.ExtractFromConfig(cfg)
	want := []float64{0.01, 0.2, 0.5}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s: got %v, want %v", pv.Specs[i].Name, got[i], want[i])
		}
	}
	if cfg.Derived.SmoothLerp32 != 0.5 {
		t.Errorf("derived smooth lerp not refreshed: %v", cfg.Derived.SmoothLerp32)
	}
}

func TestComputeQuality(t *testing.T) {
	steady := []telemetry.WindowStats{
		{ProjectorEffMean: 0}, // warmup
		{ProjectorEffMean: 1, SatisfactionMin: 1},
		{ProjectorEffMean: 1, SatisfactionMin: 1},
	}
	if q := computeQuality(steady); math.Abs(q-1) > 1e-9 {
		t.Errorf("steady run: got %v, want 1", q)
	}

	swinging := []telemetry.WindowStats{
		{},
		{ProjectorEffMean: 1, SatisfactionMin: 1},
		{ProjectorEffMean: 0, SatisfactionMin: 1},
	}
	if q := computeQuality(swinging); q >= computeQuality(steady) {
		t.Errorf("swinging run scored %v, not below steady", q)
	}

	if q := computeQuality(steady[:1]); q != 0 {
		t.Errorf("warmup only: got %v, want 0", q)
	}
}
