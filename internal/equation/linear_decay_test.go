package equation

import (
	"testing"

	"github.com/mkrell/odesim/internal/signal"
	"gonum.org/v1/gonum/floats/scalar"
)

func newDecayFixture(t *testing.T) *LinearDecay {
	t.Helper()

	T := signal.NewStateVariable("T", "temperature", "K")
	a := signal.NewParameter("a", "decay rate", "1/s")
	F := signal.NewForcing("F", "forcing", "K/s")

	for _, rec := range []struct {
		s     *signal.Series
		value float64
	}{
		{T, 293.15}, {a, 0.1}, {F, 28},
	} {
		if err := rec.s.RecordAt(rec.value, 0); err != nil {
			t.Fatal(err)
		}
	}

	eq, err := NewLinearDecay(T, a, F)
	if err != nil {
		t.Fatal(err)
	}
	return eq
}

func TestLinearDecay_Parts(t *testing.T) {
	eq := newDecayFixture(t)

	lin, err := eq.LinearFactor(0)
	if err != nil {
		t.Fatal(err)
	}
	if lin != -0.1 {
		t.Errorf("linear factor = %g, want -0.1", lin)
	}

	ind, err := eq.IndependentAddend(0)
	if err != nil {
		t.Fatal(err)
	}
	if ind != 28 {
		t.Errorf("independent addend = %g, want 28", ind)
	}

	nl, err := eq.NonlinearAddend(0, 123)
	if err != nil {
		t.Fatal(err)
	}
	if nl != 0 {
		t.Errorf("nonlinear addend = %g, want 0", nl)
	}
}

func TestLinearDecay_Derivative(t *testing.T) {
	eq := newDecayFixture(t)

	// dT/dt = -0.1*293.15 + 28
	want := -0.1*293.15 + 28
	got, err := Derivative(eq, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !scalar.EqualWithinAbs(got, want, 1e-12) {
		t.Errorf("derivative = %g, want %g", got, want)
	}

	// Hypothetical variable value overrides the interpolated one.
	got, err = DerivativeWith(eq, 0, 280)
	if err != nil {
		t.Fatal(err)
	}
	if !scalar.EqualWithinAbs(got, 0, 1e-12) {
		t.Errorf("derivative at equilibrium = %g, want 0", got)
	}
}

func TestLinearDecay_DependsOn(t *testing.T) {
	eq := newDecayFixture(t)

	for _, id := range []string{"T", "a", "F"} {
		if !DependsOn(eq, id) {
			t.Errorf("expected dependency on %q", id)
		}
	}
	if DependsOn(eq, "unrelated") {
		t.Error("unexpected dependency on unrelated id")
	}
}

func TestLinearDecay_DuplicateInput(t *testing.T) {
	T := signal.NewStateVariable("x", "", "")
	a := signal.NewParameter("x", "", "")
	F := signal.NewForcing("F", "", "")

	if _, err := NewLinearDecay(T, a, F); err == nil {
		t.Error("expected duplicate-id error")
	}
}

func TestFunc_NilPartsAreZero(t *testing.T) {
	v := signal.NewStateVariable("v", "", "")
	if err := v.RecordAt(2, 0); err != nil {
		t.Fatal(err)
	}
	in := signal.NewSeriesSet()
	if err := in.Add(v); err != nil {
		t.Fatal(err)
	}

	eq := &Func{
		Var: v, In: in,
		Linear: func(t float64) (float64, error) { return -1, nil },
	}

	got, err := Derivative(eq, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got != -2 {
		t.Errorf("derivative = %g, want -2", got)
	}
}
