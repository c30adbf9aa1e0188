// Package scheme implements discrete-time integration rules for single
// derivative equations.
//
//   - [EulerExplicit]: first order, evaluates at the step start
//   - [EulerImplicit]: first order, solves the linear part exactly
//   - [LeapFrog]: second order, needs the previous step
//   - [RungeKutta4]: classical four-stage fourth order
//
// Step is a pure computation; the side-effecting commit lives in the
// package functions [IntegrateStep] and [Integrate], which stage the target
// time on the equation's variable, record the advanced value and clear the
// stage again.
package scheme

import (
	"fmt"
	"math"

	"github.com/mkrell/odesim/internal/equation"
)

// DefaultFallbackMaxTimestep is used when a scheme is configured without
// an explicit fallback.
const DefaultFallbackMaxTimestep = 1.0

// Scheme computes discrete steps for one derivative equation.
type Scheme interface {
	Equation() equation.Equation
	Description() string

	// Step computes one step of size dt from time t without mutating any
	// state. With asTendency it returns the change of the variable over
	// the step, otherwise the resulting value.
	Step(t, dt float64, asTendency bool) (float64, error)

	// MaxTimestep is the heuristic stability-based timestep bound. Schemes
	// fall back to their configured fallback when no estimate is possible.
	MaxTimestep() float64

	// NeededTimesteps lists, relative to t and scaled by dt, the times of
	// its dependencies a scheme reads to perform one step.
	NeededTimesteps(dt float64) []float64
}

// Config carries the scheme settings shared by all kinds.
type Config struct {
	// FallbackMaxTimestep bounds the step size when the stability estimate
	// is unavailable. Zero means DefaultFallbackMaxTimestep.
	FallbackMaxTimestep float64

	// Ignore switches zero out the respective equation part.
	IgnoreLinear      bool
	IgnoreIndependent bool
	IgnoreNonlinear   bool
}

// base holds the equation binding and part evaluation shared by all
// scheme kinds.
type base struct {
	eq  equation.Equation
	cfg Config
}

func newBase(eq equation.Equation, cfg Config) base {
	if cfg.FallbackMaxTimestep <= 0 {
		cfg.FallbackMaxTimestep = DefaultFallbackMaxTimestep
	}
	return base{eq: eq, cfg: cfg}
}

func (b *base) Equation() equation.Equation { return b.eq }

// parts evaluates the equation decomposition at t with the variable held
// at value, applying the ignore switches.
func (b *base) parts(t, value float64) (lin, ind, nl float64, err error) {
	if !b.cfg.IgnoreLinear {
		lin, err = b.eq.LinearFactor(t)
		if err != nil {
			return 0, 0, 0, err
		}
	}
	if !b.cfg.IgnoreIndependent {
		ind, err = b.eq.IndependentAddend(t)
		if err != nil {
			return 0, 0, 0, err
		}
	}
	if !b.cfg.IgnoreNonlinear {
		nl, err = b.eq.NonlinearAddend(t, value)
		if err != nil {
			return 0, 0, 0, err
		}
	}
	return lin, ind, nl, nil
}

// derivative is the full right-hand side with ignores applied.
func (b *base) derivative(t, value float64) (float64, error) {
	lin, ind, nl, err := b.parts(t, value)
	if err != nil {
		return 0, err
	}
	return lin*value + ind + nl, nil
}

// maxTimestep resolves the stability estimate with silent fallback.
func (b *base) maxTimestep() float64 {
	est, err := b.stableTimestep()
	if err != nil {
		return b.cfg.FallbackMaxTimestep
	}
	return est
}

// stableTimestep is the smaller-than-time-constant heuristic: for a purely
// linear, decaying equation a hundredth of the time constant |1/lin| is a
// safe step. Nonlinear or non-decaying configurations have no estimate.
func (b *base) stableTimestep() (float64, error) {
	v := b.eq.Variable()
	t, err := v.LastTime()
	if err != nil {
		return 0, err
	}
	value, err := v.ReadAt(t)
	if err != nil {
		return 0, err
	}
	lin, _, nl, err := b.parts(t, value)
	if err != nil {
		return 0, err
	}
	if nl != 0 {
		return 0, fmt.Errorf("%w: nonlinear part %g", ErrNoEstimate, nl)
	}
	if lin >= 0 {
		return 0, fmt.Errorf("%w: non-decaying linear factor %g", ErrNoEstimate, lin)
	}
	return 0.01 * math.Abs(1/lin), nil
}

// IntegrateStep advances the scheme's variable by one step of size dt from
// time t: it stages t+dt as the variable's next write time, computes the
// tendency, records the advanced value and clears the stage.
func IntegrateStep(s Scheme, t, dt float64) error {
	v := s.Equation().Variable()
	if err := v.SetNextTime(t + dt); err != nil {
		return err
	}
	defer v.ClearNextTime()

	tendency, err := s.Step(t, dt, true)
	if err != nil {
		return err
	}
	current, err := v.ReadAt(t)
	if err != nil {
		return err
	}
	return v.Record(current + tendency)
}

// Integrate advances the scheme's variable from t to until, stepping with
// the smaller of the scheme's max timestep and the remaining interval.
// It returns the time actually reached.
func Integrate(s Scheme, t, until float64) (float64, error) {
	current := t
	for current < until {
		dt := s.MaxTimestep()
		if remaining := until - current; remaining < dt {
			dt = remaining
		}
		if dt <= 0 {
			return current, fmt.Errorf("%w: %g at t=%g", ErrBadTimestep, dt, current)
		}
		if err := IntegrateStep(s, current, dt); err != nil {
			return current, err
		}
		current += dt
	}
	return current, nil
}
