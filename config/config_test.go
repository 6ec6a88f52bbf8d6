package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Session.Gamemode != "pvp" {
		t.Errorf("gamemode = %q, want pvp", cfg.Session.Gamemode)
	}
	if cfg.Derived.Delta32 != 1 {
		t.Errorf("Delta32 = %v, want 1", cfg.Derived.Delta32)
	}
	if cfg.Derived.WindowTicks != 600 {
		t.Errorf("WindowTicks = %d, want 600", cfg.Derived.WindowTicks)
	}
}

func TestLoad_OverridesMergeWithDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("session:\n  overdrive_ignores_cheat: true\ntelemetry:\n  stats_window: 1.5\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Session.OverdriveIgnoresCheat {
		t.Error("override not applied")
	}
	if cfg.Session.Gamemode != "pvp" {
		t.Error("unset fields should keep defaults")
	}
	if cfg.Derived.WindowTicks != 90 {
		t.Errorf("WindowTicks = %d, want 90", cfg.Derived.WindowTicks)
	}
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("sim:\n  delta: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected validation error for zero delta")
	}
	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Server.Addr = ":9999"
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if back.Server.Addr != ":9999" {
		t.Errorf("addr = %q", back.Server.Addr)
	}
}
