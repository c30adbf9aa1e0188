package scheme

import "github.com/mkrell/odesim/internal/equation"

// LeapFrog steps over the current value from the previous one:
//
//	v(t+dt) = v(t-dt) + 2*dt*derivative(t)
//
// Before the second sample exists, v(t-dt) clamps to the earliest recorded
// value, which degrades the first step to explicit Euler over 2*dt.
type LeapFrog struct {
	base
}

func NewLeapFrog(eq equation.Equation, cfg Config) *LeapFrog {
	return &LeapFrog{base: newBase(eq, cfg)}
}

func (s *LeapFrog) Description() string { return "Leap-Frog scheme" }

func (s *LeapFrog) Step(t, dt float64, asTendency bool) (float64, error) {
	variable := s.eq.Variable()
	v, err := variable.ReadAt(t)
	if err != nil {
		return 0, err
	}
	vPrev, err := variable.ReadAt(t - dt)
	if err != nil {
		return 0, err
	}
	d, err := s.derivative(t, v)
	if err != nil {
		return 0, err
	}

	next := vPrev + 2*dt*d
	if asTendency {
		return next - v, nil
	}
	return next, nil
}

func (s *LeapFrog) MaxTimestep() float64 { return s.maxTimestep() }

func (s *LeapFrog) NeededTimesteps(dt float64) []float64 {
	return []float64{-dt, 0}
}
