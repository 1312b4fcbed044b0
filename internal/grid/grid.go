// Package grid builds regular cubic lattices of query points for field
// sampling and energy quadrature.
package grid

import "github.com/lmarques/efield/internal/vec"

// Cube describes a cubic sampling region centered on the origin with the
// given half-extent per axis and point count per axis.
type Cube struct {
	Half float64
	Res  int
}

// Side returns the full edge length of the cube.
func (c Cube) Side() float64 {
	return 2 * c.Half
}

// Spacing returns the lattice spacing L/(n-1), or 0 for degenerate grids.
func (c Cube) Spacing() float64 {
	if c.Res < 2 {
		return 0
	}
	return c.Side() / float64(c.Res-1)
}

// Points returns the flat lattice in deterministic order: x varies slowest,
// z fastest. A non-positive resolution yields an empty slice.
func (c Cube) Points() []vec.Vec3 {
	if c.Res <= 0 {
		return nil
	}
	if c.Res == 1 {
		return []vec.Vec3{{}}
	}

	axis := make([]float64, c.Res)
	step := c.Spacing()
	for i := range axis {
		axis[i] = -c.Half + float64(i)*step
	}

	points := make([]vec.Vec3, 0, c.Res*c.Res*c.Res)
	for _, x := range axis {
		for _, y := range axis {
			for _, z := range axis {
				points = append(points, vec.Vec3{X: x, Y: y, Z: z})
			}
		}
	}
	return points
}

// Strided returns every stride-th lattice point, the subsampling used for
// vector rendering so cones stay legible at higher grid resolutions.
func (c Cube) Strided(stride int) []vec.Vec3 {
	pts := c.Points()
	if stride <= 1 {
		return pts
	}
	out := make([]vec.Vec3, 0, len(pts)/stride+1)
	for i := 0; i < len(pts); i += stride {
		out = append(out, pts[i])
	}
	return out
}
