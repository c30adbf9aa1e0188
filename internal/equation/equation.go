// Package equation decomposes derivative equations into a linear factor,
// a variable-independent addend and a nonlinear addend, each a function of
// time. Numerical schemes consume this decomposition instead of a single
// opaque right-hand side so that implicit schemes can solve the linear
// part exactly.
package equation

import (
	"github.com/mkrell/odesim/internal/signal"
)

// Equation is a derivative equation d(variable)/dt decomposed as
//
//	derivative(t, v) = LinearFactor(t)*v + IndependentAddend(t) + NonlinearAddend(t, v)
//
// The input set must contain every series the part evaluations read,
// including the variable itself when the equation is self-referential.
type Equation interface {
	// Variable is the state variable this equation solves for.
	Variable() *signal.Series
	// Input holds the series the part evaluations read.
	Input() *signal.Set[*signal.Series]
	Description() string

	LinearFactor(t float64) (float64, error)
	IndependentAddend(t float64) (float64, error)
	// NonlinearAddend evaluates the nonlinear part with the variable held
	// at the given hypothetical value.
	NonlinearAddend(t, value float64) (float64, error)
}

// Derivative evaluates the full right-hand side at t with the variable at
// its own interpolated value.
func Derivative(eq Equation, t float64) (float64, error) {
	v, err := eq.Variable().ReadAt(t)
	if err != nil {
		return 0, err
	}
	return DerivativeWith(eq, t, v)
}

// DerivativeWith evaluates the full right-hand side at t with the variable
// held at the given value.
func DerivativeWith(eq Equation, t, value float64) (float64, error) {
	lin, err := eq.LinearFactor(t)
	if err != nil {
		return 0, err
	}
	ind, err := eq.IndependentAddend(t)
	if err != nil {
		return 0, err
	}
	nl, err := eq.NonlinearAddend(t, value)
	if err != nil {
		return 0, err
	}
	return lin*value + ind + nl, nil
}

// DependsOn reports whether the equation reads the series with the given id.
func DependsOn(eq Equation, id string) bool {
	return eq.Input().Has(id)
}
