package scheme

import "github.com/mkrell/odesim/internal/equation"

// RungeKutta4 is the classical four-stage scheme. Every stage re-evaluates
// the equation parts at its own time; the middle and final stages hold the
// variable at the hypothetical value advanced by the previous stage.
type RungeKutta4 struct {
	base
}

func NewRungeKutta4(eq equation.Equation, cfg Config) *RungeKutta4 {
	return &RungeKutta4{base: newBase(eq, cfg)}
}

func (s *RungeKutta4) Description() string { return "Runge-Kutta-4 scheme" }

func (s *RungeKutta4) Step(t, dt float64, asTendency bool) (float64, error) {
	v, err := s.eq.Variable().ReadAt(t)
	if err != nil {
		return 0, err
	}

	d1, err := s.derivative(t, v)
	if err != nil {
		return 0, err
	}
	k1 := dt * d1

	d2, err := s.derivative(t+dt/2, v+k1/2)
	if err != nil {
		return 0, err
	}
	k2 := dt * d2

	d3, err := s.derivative(t+dt/2, v+k2/2)
	if err != nil {
		return 0, err
	}
	k3 := dt * d3

	d4, err := s.derivative(t+dt, v+k3)
	if err != nil {
		return 0, err
	}
	k4 := dt * d4

	tendency := (k1 + 2*k2 + 2*k3 + k4) / 6
	if asTendency {
		return tendency, nil
	}
	return v + tendency, nil
}

func (s *RungeKutta4) MaxTimestep() float64 { return s.maxTimestep() }

func (s *RungeKutta4) NeededTimesteps(dt float64) []float64 {
	return []float64{0, 0.5 * dt, dt}
}
