package analysis

import (
	"fmt"

	"github.com/mkrell/odesim/internal/model"
)

// SweepPoint is the settled value of a variable for one parameter value.
type SweepPoint struct {
	Param float64
	Value float64
}

// ParameterSweep builds a fresh model per parameter value, integrates it
// to settle and records the final value of the given variable. The build
// callback receives the swept parameter value.
func ParameterSweep(
	build func(param float64) (*model.Model, error),
	paramMin, paramMax float64,
	paramSteps int,
	variableID string,
	settle float64,
) ([]SweepPoint, error) {
	if paramSteps <= 1 {
		paramSteps = 2 // Prevent division by zero
	}
	paramStep := (paramMax - paramMin) / float64(paramSteps-1)

	results := make([]SweepPoint, 0, paramSteps)
	for i := 0; i < paramSteps; i++ {
		param := paramMin + float64(i)*paramStep

		m, err := build(param)
		if err != nil {
			return nil, fmt.Errorf("analysis: sweep at %g: %w", param, err)
		}
		if err := m.Integrate(m.CurrentTime() + settle); err != nil {
			return nil, fmt.Errorf("analysis: sweep at %g: %w", param, err)
		}

		v, err := m.Variables().Get(variableID)
		if err != nil {
			return nil, err
		}
		value, err := v.Read()
		if err != nil {
			return nil, err
		}
		results = append(results, SweepPoint{Param: param, Value: value})
	}
	return results, nil
}

// SweepToASCII plots settled values against the swept parameter.
func SweepToASCII(data []SweepPoint, width, height int) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	minVal, maxVal := data[0].Value, data[0].Value
	for _, p := range data {
		if p.Value < minVal {
			minVal = p.Value
		}
		if p.Value > maxVal {
			maxVal = p.Value
		}
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	for i, p := range data {
		col := i * width / len(data)
		if col >= width {
			col = width - 1
		}
		row := height - 1 - int((p.Value-minVal)/(maxVal-minVal)*float64(height-1))
		if row >= 0 && row < height {
			canvas[row][col] = '•'
		}
	}

	result := ""
	for _, row := range canvas {
		result += string(row) + "\n"
	}
	return result
}
