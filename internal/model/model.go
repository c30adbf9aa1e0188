// Package model ties signals, equations and schemes into a runnable
// numerical model that owns the authoritative model time.
package model

import (
	"fmt"
	"strings"

	"github.com/mkrell/odesim/internal/scheduler"
	"github.com/mkrell/odesim/internal/scheme"
	"github.com/mkrell/odesim/internal/signal"
)

// Info is descriptive model metadata.
type Info struct {
	Name        string
	Version     string
	Description string
	Authors     []string
}

// Model owns the parameter/forcing/state-variable sets, the scheme
// scheduler and the current model time. Every series added to the model
// reads its clock from the model, so records without an explicit time land
// at the model's current time.
type Model struct {
	info        Info
	currentTime float64

	parameters *signal.Set[*signal.Series]
	forcings   *signal.Set[*signal.Series]
	variables  *signal.Set[*signal.Series]
	schemes    *scheduler.Scheduler
}

func New(info Info, initialTime float64) *Model {
	if info.Name == "" {
		info.Name = "unnamed model"
	}
	if info.Version == "" {
		info.Version = "0.0.1"
	}
	return &Model{
		info:        info,
		currentTime: initialTime,
		parameters:  signal.NewSeriesSet(),
		forcings:    signal.NewSeriesSet(),
		variables:   signal.NewSeriesSet(),
		schemes:     scheduler.New(),
	}
}

func (m *Model) Info() Info           { return m.info }
func (m *Model) CurrentTime() float64 { return m.currentTime }

// Clock is the time source injected into every series of this model.
func (m *Model) Clock() signal.TimeFunc {
	return func() float64 { return m.currentTime }
}

func (m *Model) Parameters() *signal.Set[*signal.Series] { return m.parameters }
func (m *Model) Forcings() *signal.Set[*signal.Series]   { return m.forcings }
func (m *Model) Variables() *signal.Set[*signal.Series]  { return m.variables }
func (m *Model) Scheduler() *scheduler.Scheduler         { return m.schemes }

// AddParameter registers a parameter series and injects the model clock.
func (m *Model) AddParameter(s *signal.Series) error {
	s.SetTimeFunc(m.Clock())
	return m.parameters.Add(s)
}

// AddForcing registers a forcing series and injects the model clock.
func (m *Model) AddForcing(s *signal.Series) error {
	s.SetTimeFunc(m.Clock())
	return m.forcings.Add(s)
}

// AddVariable registers a state variable and injects the model clock.
func (m *Model) AddVariable(s *signal.Series) error {
	s.SetTimeFunc(m.Clock())
	return m.variables.Add(s)
}

// AddScheme registers the scheme solving one of the model's variables.
func (m *Model) AddScheme(s scheme.Scheme) error {
	id := s.Equation().Variable().ID()
	if !m.variables.Has(id) {
		return fmt.Errorf("model: scheme solves %q which is not a registered state variable", id)
	}
	return m.schemes.Add(s)
}

// SetPlan installs an explicit execution plan on the scheduler.
func (m *Model) SetPlan(p scheduler.Plan) error {
	return m.schemes.SetPlan(p)
}

// Integrate advances the model from its current time to until and moves
// the model time forward. A mid-pass failure leaves the signals partially
// advanced; the model time is only moved on success.
func (m *Model) Integrate(until float64) error {
	if until < m.currentTime {
		return fmt.Errorf("model: cannot integrate backwards from %g to %g",
			m.currentTime, until)
	}
	if until == m.currentTime {
		return nil
	}
	if err := m.schemes.Integrate(m.currentTime, until); err != nil {
		return err
	}
	m.currentTime = until
	return nil
}

// AllSeries lists every registered series: parameters, then forcings,
// then state variables, each in id order.
func (m *Model) AllSeries() []*signal.Series {
	var out []*signal.Series
	out = append(out, m.parameters.Elements()...)
	out = append(out, m.forcings.Elements()...)
	out = append(out, m.variables.Elements()...)
	return out
}

// String renders a short human-readable model summary.
func (m *Model) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (v%s)\n", m.info.Name, m.info.Version)
	if m.info.Description != "" {
		fmt.Fprintf(&b, "%s\n", m.info.Description)
	}
	if len(m.info.Authors) > 0 {
		fmt.Fprintf(&b, "by %s\n", strings.Join(m.info.Authors, ", "))
	}
	fmt.Fprintf(&b, "time: %g\n", m.currentTime)
	fmt.Fprintf(&b, "parameters: %s\n", strings.Join(m.parameters.Keys(), ", "))
	fmt.Fprintf(&b, "forcings: %s\n", strings.Join(m.forcings.Keys(), ", "))
	fmt.Fprintf(&b, "state variables: %s\n", strings.Join(m.variables.Keys(), ", "))
	return b.String()
}
