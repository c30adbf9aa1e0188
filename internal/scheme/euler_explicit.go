package scheme

import "github.com/mkrell/odesim/internal/equation"

// EulerExplicit evaluates the full right-hand side at the step start.
type EulerExplicit struct {
	base
}

func NewEulerExplicit(eq equation.Equation, cfg Config) *EulerExplicit {
	return &EulerExplicit{base: newBase(eq, cfg)}
}

func (s *EulerExplicit) Description() string { return "Euler-explicit scheme" }

func (s *EulerExplicit) Step(t, dt float64, asTendency bool) (float64, error) {
	v, err := s.eq.Variable().ReadAt(t)
	if err != nil {
		return 0, err
	}
	d, err := s.derivative(t, v)
	if err != nil {
		return 0, err
	}
	tendency := dt * d
	if asTendency {
		return tendency, nil
	}
	return v + tendency, nil
}

func (s *EulerExplicit) MaxTimestep() float64 { return s.maxTimestep() }

func (s *EulerExplicit) NeededTimesteps(dt float64) []float64 {
	return []float64{0}
}
