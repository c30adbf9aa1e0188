package export

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mkrell/odesim/internal/storage"
)

// TraceToSVG renders one series trace as an SVG path on a dark
// background.
func TraceToSVG(trace storage.Trace, label string, width, height int) string {
	if len(trace.Times) < 2 {
		return ""
	}

	minT, maxT := trace.Times[0], trace.Times[len(trace.Times)-1]
	minV, maxV := trace.Values[0], trace.Values[0]
	for _, v := range trace.Values {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}

	// Add padding
	rangeT := maxT - minT
	rangeV := maxV - minV
	if rangeT == 0 {
		rangeT = 1
	}
	if rangeV == 0 {
		rangeV = 1
	}
	minV -= rangeV * 0.1
	maxV += rangeV * 0.1
	rangeV = maxV - minV

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="#00ff00" stroke-width="1.5" d="M`,
		width, height, width, height))

	for i := range trace.Times {
		x := (trace.Times[i] - minT) / rangeT * float64(width)
		y := float64(height) - (trace.Values[i]-minV)/rangeV*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}
	sb.WriteString("\"/>\n")

	if label != "" {
		sb.WriteString(fmt.Sprintf(`<text x="8" y="16" fill="#00ff00" font-family="monospace" font-size="12">%s</text>`,
			label))
		sb.WriteByte('\n')
	}
	sb.WriteString(fmt.Sprintf(`<text x="8" y="%d" fill="#666666" font-family="monospace" font-size="10">t: %g .. %g</text>`,
		height-6, minT, maxT))
	sb.WriteString("\n</svg>\n")

	return sb.String()
}

func WriteSVG(w io.Writer, trace storage.Trace, label string) error {
	_, err := io.WriteString(w, TraceToSVG(trace, label, 640, 360))
	return err
}

func SVGFile(path string, trace storage.Trace, label string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteSVG(file, trace, label)
}
