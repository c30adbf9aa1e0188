package config

import "sort"

func value(v float64) *float64 { return &v }

// Presets are ready-made run configurations.
var Presets = map[string]*Config{
	"heat-loss": DefaultConfig(),
	"cooling": {
		Name:        "cooling",
		Version:     "1.0.0",
		Description: "pure exponential cooling dT/dt = -a*T",
		Duration:    60,
		Series: []SeriesConfig{
			{ID: "T", Name: "temperature", Unit: "K", Role: "state", Value: value(350), Lower: value(0)},
			{ID: "a", Name: "decay rate", Unit: "1/s", Role: "parameter", Value: value(0.05)},
			{ID: "F", Name: "forcing", Unit: "K/s", Role: "forcing", Value: value(0)},
		},
		Equations: []EquationConfig{
			{Variable: "T", Kind: "linear_decay", Rate: "a", Force: "F"},
		},
		Schemes: []SchemeConfig{
			{Variable: "T", Kind: "euler_explicit"},
		},
	},
	"seasonal": {
		Name:        "seasonal",
		Version:     "1.0.0",
		Description: "relaxation against a piecewise-linear seasonal forcing",
		Duration:    120,
		Series: []SeriesConfig{
			{ID: "T", Name: "temperature", Unit: "K", Role: "state", Value: value(280), Lower: value(0)},
			{ID: "a", Name: "decay rate", Unit: "1/s", Role: "parameter", Value: value(0.2)},
			{
				ID: "F", Name: "forcing", Unit: "K/s", Role: "forcing",
				Interpolation: "linear",
				Times:         []float64{0, 30, 60, 90, 120},
				Values:        []float64{50, 62, 50, 38, 50},
			},
		},
		Equations: []EquationConfig{
			{Variable: "T", Kind: "linear_decay", Rate: "a", Force: "F"},
		},
		Schemes: []SchemeConfig{
			{Variable: "T", Kind: "rk4"},
		},
	},
	"two-box": {
		Name:        "two-box",
		Version:     "1.0.0",
		Description: "two independent relaxations advanced on a shared axis",
		Duration:    80,
		Series: []SeriesConfig{
			{ID: "T1", Name: "box one", Unit: "K", Role: "state", Value: value(300)},
			{ID: "T2", Name: "box two", Unit: "K", Role: "state", Value: value(250)},
			{ID: "a1", Role: "parameter", Value: value(0.1)},
			{ID: "a2", Role: "parameter", Value: value(0.3)},
			{ID: "F1", Role: "forcing", Value: value(28)},
			{ID: "F2", Role: "forcing", Value: value(75)},
		},
		Equations: []EquationConfig{
			{Variable: "T1", Kind: "linear_decay", Rate: "a1", Force: "F1"},
			{Variable: "T2", Kind: "linear_decay", Rate: "a2", Force: "F2"},
		},
		Schemes: []SchemeConfig{
			{Variable: "T1", Kind: "euler_implicit"},
			{Variable: "T2", Kind: "euler_implicit"},
		},
		Plan: []PlanConfig{
			{Variable: "T2", Fractions: []float64{0.5, 1}},
			{Variable: "T1", Fractions: []float64{1}},
		},
	},
	"stiff": {
		Name:        "stiff",
		Version:     "1.0.0",
		Description: "fast relaxation where the stability estimate forces small steps",
		Duration:    2,
		Series: []SeriesConfig{
			{ID: "x", Role: "state", Value: value(1)},
			{ID: "a", Role: "parameter", Value: value(50)},
			{ID: "F", Role: "forcing", Value: value(0)},
		},
		Equations: []EquationConfig{
			{Variable: "x", Kind: "linear_decay", Rate: "a", Force: "F"},
		},
		Schemes: []SchemeConfig{
			{Variable: "x", Kind: "euler_explicit"},
		},
	},
}

func GetPreset(name string) *Config {
	return Presets[name]
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
