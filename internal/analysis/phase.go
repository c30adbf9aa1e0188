package analysis

import (
	"strings"

	"github.com/mkrell/odesim/internal/signal"
)

// PhaseTrace pairs two series sampled on a common uniform grid.
type PhaseTrace struct {
	XID, YID string
	Points   []struct{ X, Y float64 }
}

// Phase resamples both series over [start, end] and combines them into a
// phase trace.
func Phase(x, y *signal.Series, start, end float64, n int) (*PhaseTrace, error) {
	_, xs, err := Resample(x, start, end, n)
	if err != nil {
		return nil, err
	}
	_, ys, err := Resample(y, start, end, n)
	if err != nil {
		return nil, err
	}

	trace := &PhaseTrace{
		XID:    x.ID(),
		YID:    y.ID(),
		Points: make([]struct{ X, Y float64 }, len(xs)),
	}
	for i := range xs {
		trace.Points[i] = struct{ X, Y float64 }{X: xs[i], Y: ys[i]}
	}
	return trace, nil
}

// ToASCII renders the phase trace as a dot plot with axes.
func (pt *PhaseTrace) ToASCII(width, height int) string {
	if pt == nil || len(pt.Points) == 0 {
		return ""
	}

	minX, maxX := pt.Points[0].X, pt.Points[0].X
	minY, maxY := pt.Points[0].Y, pt.Points[0].Y
	for _, p := range pt.Points {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	for _, p := range pt.Points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))

		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	// Draw axes if they cross the visible area
	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if col >= 0 && col < width && canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
