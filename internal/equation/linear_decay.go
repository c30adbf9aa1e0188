package equation

import (
	"fmt"

	"github.com/mkrell/odesim/internal/signal"
)

// LinearDecay is the canonical linear relaxation equation
//
//	dT/dt = -a*T + F
//
// with decay rate a and forcing F both read from time series, so either
// coefficient may vary over the integration.
type LinearDecay struct {
	variable *signal.Series
	input    *signal.Set[*signal.Series]
	rateID   string
	forceID  string
}

// NewLinearDecay builds the equation for variable with decay rate a and
// forcing f. All three series end up in the input set.
func NewLinearDecay(variable, a, f *signal.Series) (*LinearDecay, error) {
	input := signal.NewSeriesSet()
	for _, s := range []*signal.Series{variable, a, f} {
		if err := input.Add(s); err != nil {
			return nil, fmt.Errorf("linear decay input: %w", err)
		}
	}
	return &LinearDecay{
		variable: variable,
		input:    input,
		rateID:   a.ID(),
		forceID:  f.ID(),
	}, nil
}

func (e *LinearDecay) Variable() *signal.Series            { return e.variable }
func (e *LinearDecay) Input() *signal.Set[*signal.Series]  { return e.input }

func (e *LinearDecay) Description() string {
	return fmt.Sprintf("d%s/dt = -%s*%s + %s",
		e.variable.ID(), e.rateID, e.variable.ID(), e.forceID)
}

func (e *LinearDecay) LinearFactor(t float64) (float64, error) {
	a, err := e.input.Get(e.rateID)
	if err != nil {
		return 0, err
	}
	rate, err := a.ReadAt(t)
	if err != nil {
		return 0, err
	}
	return -rate, nil
}

func (e *LinearDecay) IndependentAddend(t float64) (float64, error) {
	f, err := e.input.Get(e.forceID)
	if err != nil {
		return 0, err
	}
	return f.ReadAt(t)
}

func (e *LinearDecay) NonlinearAddend(t, value float64) (float64, error) {
	return 0, nil
}
