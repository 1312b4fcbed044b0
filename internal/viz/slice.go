package viz

import (
	"math"
	"strings"

	"github.com/lmarques/efield/internal/charge"
	"github.com/lmarques/efield/internal/field"
	"github.com/lmarques/efield/internal/vec"
)

// shade ramps from weak to strong field.
const shade = " .:-=+*#%@"

// SliceCell is one rendered cell of the z=0 plane.
type SliceCell struct {
	Rune     rune
	Positive bool // potential sign, drives coloring
	Charge   int  // index of the charge at this cell, -1 otherwise
}

// Slice rasterizes the z=0 plane over [-half,half]² into rows×cols cells.
// Each cell shows local field strength on a log ramp; cells containing a
// charge show the charge itself.
func Slice(ev *field.Evaluator, reg *charge.Registry, half float64, rows, cols int) [][]SliceCell {
	if rows < 2 || cols < 2 {
		return nil
	}

	cells := make([][]SliceCell, rows)
	for r := range cells {
		cells[r] = make([]SliceCell, cols)
		// y runs top to bottom.
		y := half - 2*half*float64(r)/float64(rows-1)
		for c := range cells[r] {
			x := -half + 2*half*float64(c)/float64(cols-1)
			p := vec.Vec3{X: x, Y: y}

			s := ev.SampleAt(p)
			cells[r][c] = SliceCell{
				Rune:     shadeRune(s.Mag),
				Positive: ev.PotentialAt(p) >= 0,
				Charge:   -1,
			}
		}
	}

	for i, ch := range reg.Charges() {
		r := int(math.Round((half - ch.Pos.Y) / (2 * half) * float64(rows-1)))
		c := int(math.Round((ch.Pos.X + half) / (2 * half) * float64(cols-1)))
		if r < 0 || r >= rows || c < 0 || c >= cols {
			continue
		}
		glyph := '+'
		if ch.Q < 0 {
			glyph = '-'
		}
		cells[r][c] = SliceCell{Rune: glyph, Positive: ch.Q >= 0, Charge: i}
	}

	return cells
}

// shadeRune maps a field magnitude onto the ramp. The log window covers
// the magnitudes a µC-scale scene actually produces.
func shadeRune(mag float64) rune {
	if mag <= 0 {
		return ' '
	}
	// 1e2 N/C and below -> blank, 1e7 and above -> densest.
	t := (math.Log10(mag) - 2) / 5
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	idx := int(t * float64(len(shade)-1))
	return rune(shade[idx])
}

// Render flattens a cell grid to plain text, one row per line.
func Render(cells [][]SliceCell) string {
	var b strings.Builder
	for _, row := range cells {
		for _, cell := range row {
			b.WriteRune(cell.Rune)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
