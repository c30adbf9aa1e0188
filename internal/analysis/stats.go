package analysis

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/mkrell/odesim/internal/signal"
)

// Summary holds descriptive statistics of a series over a window.
type Summary struct {
	SeriesID string
	Samples  int
	Min      float64
	Max      float64
	Mean     float64
	StdDev   float64
	Final    float64
}

// Summarize resamples the series over [start, end] and computes summary
// statistics.
func Summarize(s *signal.Series, start, end float64, n int) (Summary, error) {
	_, values, err := Resample(s, start, end, n)
	if err != nil {
		return Summary{}, err
	}

	mean, std := stat.MeanStdDev(values, nil)
	return Summary{
		SeriesID: s.ID(),
		Samples:  len(values),
		Min:      floats.Min(values),
		Max:      floats.Max(values),
		Mean:     mean,
		StdDev:   std,
		Final:    values[len(values)-1],
	}, nil
}
