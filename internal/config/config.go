// Package config loads, saves and materializes YAML run configurations.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mkrell/odesim/internal/equation"
	"github.com/mkrell/odesim/internal/model"
	"github.com/mkrell/odesim/internal/scheduler"
	"github.com/mkrell/odesim/internal/scheme"
	"github.com/mkrell/odesim/internal/signal"
)

const (
	DefaultDuration = 100.0
	DefaultScheme   = "euler_implicit"
)

type Config struct {
	Name        string   `yaml:"name"`
	Version     string   `yaml:"version"`
	Description string   `yaml:"description"`
	Authors     []string `yaml:"authors,omitempty"`

	InitialTime float64 `yaml:"initial_time"`
	Duration    float64 `yaml:"duration"`

	Series    []SeriesConfig   `yaml:"series"`
	Equations []EquationConfig `yaml:"equations"`
	Schemes   []SchemeConfig   `yaml:"schemes"`
	Plan      []PlanConfig     `yaml:"plan,omitempty"`
}

type SeriesConfig struct {
	ID            string `yaml:"id"`
	Name          string `yaml:"name,omitempty"`
	Unit          string `yaml:"unit,omitempty"`
	Role          string `yaml:"role"`                    // parameter | forcing | state
	Interpolation string `yaml:"interpolation,omitempty"` // nearest-left | nearest | linear

	Lower       *float64 `yaml:"lower,omitempty"`
	Upper       *float64 `yaml:"upper,omitempty"`
	Remembrance float64  `yaml:"remembrance,omitempty"`

	// Value is a shorthand for a single sample at the initial time;
	// Times/Values record a full initial history.
	Value  *float64  `yaml:"value,omitempty"`
	Times  []float64 `yaml:"times,omitempty"`
	Values []float64 `yaml:"values,omitempty"`
}

type EquationConfig struct {
	Variable string `yaml:"variable"`
	Kind     string `yaml:"kind"` // linear_decay
	Rate     string `yaml:"rate"`
	Force    string `yaml:"force"`
}

type SchemeConfig struct {
	Variable            string  `yaml:"variable"`
	Kind                string  `yaml:"kind"` // euler_explicit | euler_implicit | leapfrog | rk4
	FallbackMaxTimestep float64 `yaml:"fallback_max_timestep,omitempty"`
	IgnoreLinear        bool    `yaml:"ignore_linear,omitempty"`
	IgnoreIndependent   bool    `yaml:"ignore_independent,omitempty"`
	IgnoreNonlinear     bool    `yaml:"ignore_nonlinear,omitempty"`
}

type PlanConfig struct {
	Variable  string    `yaml:"variable"`
	Fractions []float64 `yaml:"fractions"`
}

// DefaultConfig is the linear heat-loss relaxation run.
func DefaultConfig() *Config {
	return &Config{
		Name:        "heat-loss",
		Version:     "1.0.0",
		Description: "linear relaxation dT/dt = -a*T + F",
		Duration:    DefaultDuration,
		Series: []SeriesConfig{
			{ID: "T", Name: "temperature", Unit: "K", Role: "state", Value: value(293.15), Lower: value(0)},
			{ID: "a", Name: "decay rate", Unit: "1/s", Role: "parameter", Value: value(0.1)},
			{ID: "F", Name: "forcing", Unit: "K/s", Role: "forcing", Value: value(28)},
		},
		Equations: []EquationConfig{
			{Variable: "T", Kind: "linear_decay", Rate: "a", Force: "F"},
		},
		Schemes: []SchemeConfig{
			{Variable: "T", Kind: DefaultScheme},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{Duration: DefaultDuration}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Build materializes the configuration into a runnable model.
func (c *Config) Build() (*model.Model, error) {
	m := model.New(model.Info{
		Name:        c.Name,
		Version:     c.Version,
		Description: c.Description,
		Authors:     c.Authors,
	}, c.InitialTime)

	for _, sc := range c.Series {
		s, err := c.buildSeries(sc)
		if err != nil {
			return nil, err
		}
		switch sc.Role {
		case "parameter", "":
			err = m.AddParameter(s)
		case "forcing":
			err = m.AddForcing(s)
		case "state":
			err = m.AddVariable(s)
		default:
			return nil, fmt.Errorf("config: unknown role %q for series %q", sc.Role, sc.ID)
		}
		if err != nil {
			return nil, err
		}
	}

	for _, ec := range c.Equations {
		eq, err := buildEquation(m, ec)
		if err != nil {
			return nil, err
		}
		s, err := buildScheme(eq, schemeFor(c.Schemes, ec.Variable))
		if err != nil {
			return nil, err
		}
		if err := m.AddScheme(s); err != nil {
			return nil, err
		}
	}

	if len(c.Plan) > 0 {
		plan := make(scheduler.Plan, 0, len(c.Plan))
		for _, pc := range c.Plan {
			plan = append(plan, scheduler.Entry{
				VariableID: pc.Variable,
				Fractions:  pc.Fractions,
			})
		}
		if err := m.SetPlan(plan); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (c *Config) buildSeries(sc SeriesConfig) (*signal.Series, error) {
	if sc.ID == "" {
		return nil, fmt.Errorf("config: series without id")
	}

	var s *signal.Series
	switch sc.Role {
	case "forcing":
		s = signal.NewForcing(sc.ID, sc.Name, sc.Unit)
	case "state":
		s = signal.NewStateVariable(sc.ID, sc.Name, sc.Unit)
	default:
		s = signal.NewParameter(sc.ID, sc.Name, sc.Unit)
	}

	if sc.Interpolation != "" {
		kind, err := signal.ParseInterpolation(sc.Interpolation)
		if err != nil {
			return nil, fmt.Errorf("config: series %q: %w", sc.ID, err)
		}
		s.SetInterpolation(kind)
	}
	if sc.Lower != nil || sc.Upper != nil {
		lower, upper := s.Bounds()
		if sc.Lower != nil {
			lower = *sc.Lower
		}
		if sc.Upper != nil {
			upper = *sc.Upper
		}
		if err := s.SetBounds(lower, upper); err != nil {
			return nil, fmt.Errorf("config: series %q: %w", sc.ID, err)
		}
	}
	if sc.Remembrance > 0 {
		if err := s.SetRemembrance(sc.Remembrance); err != nil {
			return nil, fmt.Errorf("config: series %q: %w", sc.ID, err)
		}
	}

	if len(sc.Times) != len(sc.Values) {
		return nil, fmt.Errorf("config: series %q: %d times vs %d values",
			sc.ID, len(sc.Times), len(sc.Values))
	}
	for i := range sc.Times {
		if err := s.RecordAt(sc.Values[i], sc.Times[i]); err != nil {
			return nil, fmt.Errorf("config: series %q: %w", sc.ID, err)
		}
	}
	if sc.Value != nil {
		if err := s.RecordAt(*sc.Value, c.InitialTime); err != nil {
			return nil, fmt.Errorf("config: series %q: %w", sc.ID, err)
		}
	}

	return s, nil
}

// findSeries looks a series up across all three role sets.
func findSeries(m *model.Model, id string) (*signal.Series, error) {
	for _, set := range []*signal.Set[*signal.Series]{
		m.Variables(), m.Parameters(), m.Forcings(),
	} {
		if set.Has(id) {
			return set.Get(id)
		}
	}
	return nil, fmt.Errorf("config: unknown series %q", id)
}

func buildEquation(m *model.Model, ec EquationConfig) (equation.Equation, error) {
	switch ec.Kind {
	case "linear_decay", "":
		v, err := findSeries(m, ec.Variable)
		if err != nil {
			return nil, err
		}
		rate, err := findSeries(m, ec.Rate)
		if err != nil {
			return nil, err
		}
		force, err := findSeries(m, ec.Force)
		if err != nil {
			return nil, err
		}
		return equation.NewLinearDecay(v, rate, force)
	default:
		return nil, fmt.Errorf("config: unknown equation kind %q", ec.Kind)
	}
}

func schemeFor(schemes []SchemeConfig, variable string) SchemeConfig {
	for _, sc := range schemes {
		if sc.Variable == variable {
			return sc
		}
	}
	return SchemeConfig{Variable: variable, Kind: DefaultScheme}
}

func buildScheme(eq equation.Equation, sc SchemeConfig) (scheme.Scheme, error) {
	cfg := scheme.Config{
		FallbackMaxTimestep: sc.FallbackMaxTimestep,
		IgnoreLinear:        sc.IgnoreLinear,
		IgnoreIndependent:   sc.IgnoreIndependent,
		IgnoreNonlinear:     sc.IgnoreNonlinear,
	}
	switch sc.Kind {
	case "euler_explicit":
		return scheme.NewEulerExplicit(eq, cfg), nil
	case "euler_implicit", "":
		return scheme.NewEulerImplicit(eq, cfg), nil
	case "leapfrog", "leap_frog":
		return scheme.NewLeapFrog(eq, cfg), nil
	case "rk4", "runge_kutta_4":
		return scheme.NewRungeKutta4(eq, cfg), nil
	default:
		return nil, fmt.Errorf("config: unknown scheme kind %q", sc.Kind)
	}
}
