// Package scheduler drives the joint integration of coupled derivative
// equations across a shared time axis.
//
// Each equation is advanced by its own scheme; the scheduler owns the set
// of schemes (keyed by the variable they solve for), an execution plan and
// the outer loop that picks a shared sub-interval and walks the plan.
//
// Schemes commit values sequentially within one plan pass, so a later
// scheme sees the already-advanced values of earlier schemes while the
// first sees only pre-pass values. With mutually coupled equations the
// result is therefore order-sensitive; the alphabetical fallback plan does
// not account for that, and callers with coupled systems should supply an
// explicit plan.
package scheduler

import (
	"errors"
	"fmt"

	"github.com/mkrell/odesim/internal/scheme"
	"github.com/mkrell/odesim/internal/signal"
)

var (
	// ErrPlanUnavailable is returned by AutomaticPlan. Deriving an ordering
	// from the equation dependency graph and the schemes' needed timesteps
	// is a declared extension point, not implemented; Plan falls back to
	// the alphabetical plan when it sees this error.
	ErrPlanUnavailable = errors.New("scheduler: automatic plan derivation not implemented")

	// ErrUnknownVariable indicates a plan entry for a variable no scheme solves.
	ErrUnknownVariable = errors.New("scheduler: plan references unknown variable")

	// ErrBadFraction indicates a plan fraction outside [0, 1].
	ErrBadFraction = errors.New("scheduler: plan fraction outside [0, 1]")

	// ErrNoSchemes indicates an integration request on an empty scheduler.
	ErrNoSchemes = errors.New("scheduler: no schemes to integrate")
)

// Entry names one equation to advance and the fractional sub-times of the
// shared interval at which to advance it, in increasing order.
type Entry struct {
	VariableID string
	Fractions  []float64
}

// Plan is the ordered list of entries executed within one shared interval.
type Plan []Entry

// Scheduler holds schemes keyed by their equation's variable id. Two
// schemes must never solve the same variable; Add enforces that.
type Scheduler struct {
	schemes *signal.Set[scheme.Scheme]
	plan    Plan
}

func New() *Scheduler {
	return &Scheduler{
		schemes: signal.NewSet(func(s scheme.Scheme) string {
			return s.Equation().Variable().ID()
		}),
	}
}

// Add registers a scheme under its equation's variable id.
func (sc *Scheduler) Add(s scheme.Scheme) error {
	return sc.schemes.Add(s)
}

// Get returns the scheme solving the given variable.
func (sc *Scheduler) Get(variableID string) (scheme.Scheme, error) {
	return sc.schemes.Get(variableID)
}

// Len returns the number of registered schemes.
func (sc *Scheduler) Len() int { return sc.schemes.Len() }

// VariableIDs lists the solved variables in sorted order.
func (sc *Scheduler) VariableIDs() []string { return sc.schemes.Keys() }

// SetPlan installs an explicit execution plan. An empty plan clears the
// explicit plan and restores automatic resolution.
func (sc *Scheduler) SetPlan(p Plan) error {
	if err := sc.validate(p); err != nil {
		return err
	}
	sc.plan = p
	return nil
}

func (sc *Scheduler) validate(p Plan) error {
	for _, entry := range p {
		if !sc.schemes.Has(entry.VariableID) {
			return fmt.Errorf("%w: %q", ErrUnknownVariable, entry.VariableID)
		}
		for _, f := range entry.Fractions {
			if f < 0 || f > 1 {
				return fmt.Errorf("%w: %g for %q", ErrBadFraction, f, entry.VariableID)
			}
		}
	}
	return nil
}

// Plan resolves the execution plan: the explicit plan when set, else the
// automatic plan, else the alphabetical fallback.
func (sc *Scheduler) Plan() Plan {
	if len(sc.plan) > 0 {
		return sc.plan
	}
	if p, err := sc.AutomaticPlan(); err == nil {
		return p
	}
	return sc.FallbackPlan()
}

// AutomaticPlan would derive an ordering from the equation dependency
// graph and the schemes' needed timesteps.
func (sc *Scheduler) AutomaticPlan() (Plan, error) {
	return nil, ErrPlanUnavailable
}

// FallbackPlan is alphabetical by variable id, one full step each.
func (sc *Scheduler) FallbackPlan() Plan {
	plan := make(Plan, 0, sc.schemes.Len())
	for _, id := range sc.schemes.Keys() {
		plan = append(plan, Entry{VariableID: id, Fractions: []float64{1}})
	}
	return plan
}

// Integrate advances every equation from start to end. The shared interval
// of each pass is bounded by the max timestep of the scheme listed last in
// the plan and by the remaining distance to end; within a pass, each plan
// entry's scheme is advanced to the scaled fractional times in order.
func (sc *Scheduler) Integrate(start, end float64) error {
	if sc.schemes.Len() == 0 {
		return ErrNoSchemes
	}
	plan := sc.Plan()
	if err := sc.validate(plan); err != nil {
		return err
	}

	current := start
	for current < end {
		last, err := sc.schemes.Get(plan[len(plan)-1].VariableID)
		if err != nil {
			return err
		}
		big := last.MaxTimestep()
		if remaining := end - current; remaining < big {
			big = remaining
		}
		if big <= 0 {
			return fmt.Errorf("%w: %g at t=%g", scheme.ErrBadTimestep, big, current)
		}

		for _, entry := range plan {
			s, err := sc.schemes.Get(entry.VariableID)
			if err != nil {
				return err
			}
			schemeTime := current
			for _, f := range entry.Fractions {
				reached, err := scheme.Integrate(s, schemeTime, current+f*big)
				if err != nil {
					return fmt.Errorf("advancing %q: %w", entry.VariableID, err)
				}
				schemeTime = reached
			}
		}

		current += big
	}
	return nil
}
