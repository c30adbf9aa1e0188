// Package viz renders series traces in the terminal: static asciigraph
// plots and a bubbletea live view that advances a model in real time.
package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/mkrell/odesim/internal/analysis"
	"github.com/mkrell/odesim/internal/signal"
)

// PlotTrace renders raw samples as an ascii chart.
func PlotTrace(values []float64, caption string, width, height int) string {
	if len(values) < 2 {
		return "not enough samples to plot"
	}
	return asciigraph.Plot(values,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Caption(caption),
	)
}

// PlotSeries resamples the series over [start, end] and plots it.
func PlotSeries(s *signal.Series, start, end float64, width, height int) (string, error) {
	_, values, err := analysis.Resample(s, start, end, width)
	if err != nil {
		return "", err
	}
	caption := s.ID()
	if s.Unit() != "" {
		caption = fmt.Sprintf("%s [%s]", s.ID(), s.Unit())
	}
	return PlotTrace(values, caption, width, height), nil
}
