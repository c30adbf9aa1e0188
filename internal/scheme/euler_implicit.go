package scheme

import (
	"fmt"

	"github.com/mkrell/odesim/internal/equation"
)

// EulerImplicit solves the linear and independent parts exactly:
//
//	v(t+dt) = (ind(t)*dt + v(t)) / (1 - lin(t)*dt)
//
// It cannot handle a nonzero nonlinear part unless that part is ignored.
type EulerImplicit struct {
	base
}

func NewEulerImplicit(eq equation.Equation, cfg Config) *EulerImplicit {
	return &EulerImplicit{base: newBase(eq, cfg)}
}

func (s *EulerImplicit) Description() string { return "Euler-implicit scheme" }

func (s *EulerImplicit) Step(t, dt float64, asTendency bool) (float64, error) {
	v, err := s.eq.Variable().ReadAt(t)
	if err != nil {
		return 0, err
	}
	lin, ind, nl, err := s.parts(t, v)
	if err != nil {
		return 0, err
	}
	if nl != 0 {
		return 0, fmt.Errorf("%w: %s on %q",
			ErrNonlinear, s.Description(), s.eq.Variable().ID())
	}

	next := (ind*dt + v) / (1 - lin*dt)
	if asTendency {
		return next - v, nil
	}
	return next, nil
}

func (s *EulerImplicit) MaxTimestep() float64 { return s.maxTimestep() }

func (s *EulerImplicit) NeededTimesteps(dt float64) []float64 {
	return []float64{0, dt}
}
