// Package viz renders terminal views of computed fields: line profiles as
// ASCII charts and planar slices as character grids.
package viz

import (
	"github.com/guptarohit/asciigraph"

	"github.com/lmarques/efield/internal/field"
	"github.com/lmarques/efield/internal/vec"
)

// FieldProfile samples |E| at n evenly spaced points on the segment from a
// to b.
func FieldProfile(ev *field.Evaluator, a, b vec.Vec3, n int) []float64 {
	return profile(n, a, b, func(p vec.Vec3) float64 {
		return ev.At(p).Norm()
	})
}

// PotentialProfile samples V along the segment from a to b.
func PotentialProfile(ev *field.Evaluator, a, b vec.Vec3, n int) []float64 {
	return profile(n, a, b, ev.PotentialAt)
}

func profile(n int, a, b vec.Vec3, f func(vec.Vec3) float64) []float64 {
	if n < 2 {
		return nil
	}
	step := b.Sub(a).Scale(1 / float64(n-1))
	out := make([]float64, n)
	p := a
	for i := range out {
		out[i] = f(p)
		p = p.Add(step)
	}
	return out
}

// Plot renders a profile as an ASCII chart.
func Plot(data []float64, caption string) string {
	return asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
}
