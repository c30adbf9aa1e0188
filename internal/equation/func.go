package equation

import "github.com/mkrell/odesim/internal/signal"

// Func is a closure-backed equation for right-hand sides that do not
// warrant a dedicated type. Nil part functions evaluate to zero.
type Func struct {
	Var  *signal.Series
	In   *signal.Set[*signal.Series]
	Desc string

	Linear      func(t float64) (float64, error)
	Independent func(t float64) (float64, error)
	Nonlinear   func(t, value float64) (float64, error)
}

func (e *Func) Variable() *signal.Series           { return e.Var }
func (e *Func) Input() *signal.Set[*signal.Series] { return e.In }
func (e *Func) Description() string                { return e.Desc }

func (e *Func) LinearFactor(t float64) (float64, error) {
	if e.Linear == nil {
		return 0, nil
	}
	return e.Linear(t)
}

func (e *Func) IndependentAddend(t float64) (float64, error) {
	if e.Independent == nil {
		return 0, nil
	}
	return e.Independent(t)
}

func (e *Func) NonlinearAddend(t, value float64) (float64, error) {
	if e.Nonlinear == nil {
		return 0, nil
	}
	return e.Nonlinear(t, value)
}
