// Package optim locates field null points, the positions where the net
// field vanishes and a test charge sits in equilibrium.
package optim

import (
	"context"

	"github.com/lmarques/efield/internal/field"
	"github.com/lmarques/efield/internal/grid"
	"github.com/lmarques/efield/internal/vec"
)

// Search parameters. The zero value is not useful; start from DefaultSearch.
type Search struct {
	// MaxMag is the field magnitude below which a refined point counts
	// as a null.
	MaxMag float64
	// Depth is the number of refinement passes around each candidate.
	Depth int
	// MergeDist collapses nulls closer than this into one.
	MergeDist float64
}

func DefaultSearch() Search {
	return Search{MaxMag: 1e-2, Depth: 12, MergeDist: 1e-3}
}

// Null is one located equilibrium point.
type Null struct {
	Pos vec.Vec3
	Mag float64
}

// FindNulls scans the cube lattice for local minima of |E| and refines
// each candidate with a shrinking sub-grid descent. Results come back
// sorted by residual magnitude, best first.
func FindNulls(ctx context.Context, ev *field.Evaluator, c grid.Cube, s Search) []Null {
	points := c.Points()
	if len(points) == 0 {
		return nil
	}

	mags := make([]float64, len(points))
	for i, p := range points {
		mags[i] = ev.At(p).Norm()
	}

	n := c.Res
	idx := func(i, j, k int) int { return (i*n+j)*n + k }

	var nulls []Null
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				if ctx.Err() != nil {
					return sorted(nulls)
				}
				m := mags[idx(i, j, k)]
				if !localMin(mags, idx, n, i, j, k, m) {
					continue
				}
				pos, mag := refine(ev, points[idx(i, j, k)], c.Spacing(), s.Depth)
				if mag >= s.MaxMag {
					continue
				}
				nulls = merge(nulls, Null{Pos: pos, Mag: mag}, s.MergeDist)
			}
		}
	}
	return sorted(nulls)
}

func localMin(mags []float64, idx func(i, j, k int) int, n, i, j, k int, m float64) bool {
	for di := -1; di <= 1; di++ {
		for dj := -1; dj <= 1; dj++ {
			for dk := -1; dk <= 1; dk++ {
				ni, nj, nk := i+di, j+dj, k+dk
				if ni < 0 || nj < 0 || nk < 0 || ni >= n || nj >= n || nk >= n {
					continue
				}
				if mags[idx(ni, nj, nk)] < m {
					return false
				}
			}
		}
	}
	return true
}

// refine descends on a 3×3×3 sub-grid around the candidate, halving the
// step each pass.
func refine(ev *field.Evaluator, start vec.Vec3, step float64, depth int) (vec.Vec3, float64) {
	best := start
	bestMag := ev.At(start).Norm()

	for d := 0; d < depth; d++ {
		improved := false
		for di := -1; di <= 1; di++ {
			for dj := -1; dj <= 1; dj++ {
				for dk := -1; dk <= 1; dk++ {
					p := best.Add(vec.Vec3{
						X: float64(di) * step,
						Y: float64(dj) * step,
						Z: float64(dk) * step,
					})
					if m := ev.At(p).Norm(); m < bestMag {
						best, bestMag = p, m
						improved = true
					}
				}
			}
		}
		if !improved {
			step /= 2
		}
	}
	return best, bestMag
}

func merge(nulls []Null, cand Null, dist float64) []Null {
	for i, existing := range nulls {
		if existing.Pos.Sub(cand.Pos).Norm() < dist {
			if cand.Mag < existing.Mag {
				nulls[i] = cand
			}
			return nulls
		}
	}
	return append(nulls, cand)
}

func sorted(nulls []Null) []Null {
	for i := 1; i < len(nulls); i++ {
		for j := i; j > 0 && nulls[j].Mag < nulls[j-1].Mag; j-- {
			nulls[j], nulls[j-1] = nulls[j-1], nulls[j]
		}
	}
	return nulls
}
