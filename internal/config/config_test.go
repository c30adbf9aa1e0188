package config

import (
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Name != "heat-loss" {
		t.Errorf("expected name heat-loss, got %s", cfg.Name)
	}
	if cfg.Duration <= 0 {
		t.Error("duration should be positive")
	}
	if len(cfg.Series) != 3 || len(cfg.Equations) != 1 {
		t.Errorf("expected 3 series and 1 equation, got %d and %d",
			len(cfg.Series), len(cfg.Equations))
	}
}

func TestLoadSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := Save(path, DefaultConfig()); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "heat-loss" || cfg.Duration != DefaultDuration {
		t.Errorf("round trip changed config: %+v", cfg)
	}
	if cfg.Series[0].Value == nil || *cfg.Series[0].Value != 293.15 {
		t.Errorf("round trip lost initial value: %+v", cfg.Series[0])
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error loading missing file")
	}
}

func TestGetPreset(t *testing.T) {
	if GetPreset("two-box") == nil {
		t.Fatal("expected preset, got nil")
	}
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets_Sorted(t *testing.T) {
	names := ListPresets()
	if len(names) == 0 {
		t.Fatal("expected presets")
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("presets not sorted: %v", names)
			break
		}
	}
}

func TestBuild_Default(t *testing.T) {
	m, err := DefaultConfig().Build()
	if err != nil {
		t.Fatal(err)
	}

	T, err := m.Variables().Get("T")
	if err != nil {
		t.Fatal(err)
	}
	got, err := T.Read()
	if err != nil {
		t.Fatal(err)
	}
	if !scalar.EqualWithinAbs(got, 293.15, 1e-12) {
		t.Errorf("initial T = %g, want 293.15", got)
	}

	if err := m.Integrate(DefaultConfig().Duration); err != nil {
		t.Fatal(err)
	}
	got, err = T.Read()
	if err != nil {
		t.Fatal(err)
	}
	if !scalar.EqualWithinAbs(got, 280, 1e-2) {
		t.Errorf("T(100) = %g, want 280", got)
	}
}

func TestBuild_AllPresets(t *testing.T) {
	for _, name := range ListPresets() {
		m, err := GetPreset(name).Build()
		if err != nil {
			t.Errorf("preset %s: %v", name, err)
			continue
		}
		if len(m.AllSeries()) == 0 {
			t.Errorf("preset %s: no series", name)
		}
	}
}

func TestBuild_Errors(t *testing.T) {
	base := func() *Config { return DefaultConfig() }

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown role", func(c *Config) { c.Series[0].Role = "input" }},
		{"unknown interpolation", func(c *Config) { c.Series[0].Interpolation = "cubic" }},
		{"unknown equation kind", func(c *Config) { c.Equations[0].Kind = "quadratic" }},
		{"unknown scheme kind", func(c *Config) { c.Schemes[0].Kind = "ab2" }},
		{"missing rate series", func(c *Config) { c.Equations[0].Rate = "b" }},
		{"mismatched samples", func(c *Config) { c.Series[0].Times = []float64{0, 1} }},
		{"plan for unknown variable", func(c *Config) {
			c.Plan = []PlanConfig{{Variable: "Q", Fractions: []float64{1}}}
		}},
	}
	for _, tt := range tests {
		cfg := base()
		tt.mutate(cfg)
		if _, err := cfg.Build(); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}
