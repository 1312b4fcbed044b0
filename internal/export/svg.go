// Package export renders computed scenes to SVG for use outside the
// terminal.
package export

import (
	"fmt"
	"strings"

	"github.com/lmarques/efield/internal/charge"
	"github.com/lmarques/efield/internal/trace"
)

// LinesToSVG draws the z=0 projection of traced field lines together with
// the source charges. Positive charges render red, negative blue. The view
// box spans [-half, half] on both axes.
func LinesToSVG(lines []trace.Line, charges []charge.Charge, half float64, width, height int) string {
	if half <= 0 || width <= 0 || height <= 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	toX := func(x float64) float64 { return (x + half) / (2 * half) * float64(width) }
	toY := func(y float64) float64 { return float64(height) - (y+half)/(2*half)*float64(height) }

	for _, line := range lines {
		if len(line) < 2 {
			continue
		}
		sb.WriteString(`<path fill="none" stroke="#00ff88" stroke-width="1" opacity="0.7" d="M`)
		for i, p := range line {
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", toX(p.X), toY(p.Y)))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", toX(p.X), toY(p.Y)))
			}
		}
		sb.WriteString("\"/>\n")
	}

	r := float64(width) / (2 * half) * 0.04
	if r < 2 {
		r = 2
	}
	for _, c := range charges {
		color := "#4da6ff"
		if c.Q > 0 {
			color = "#ff4d4d"
		}
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, toX(c.Pos.X), toY(c.Pos.Y), r, color))
	}

	sb.WriteString("</svg>")
	return sb.String()
}
