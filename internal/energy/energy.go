// Package energy estimates total field energy by Riemann-sum quadrature
// over a sampling grid.
package energy

import (
	"runtime"
	"sync"

	"github.com/lmarques/efield/internal/field"
	"github.com/lmarques/efield/internal/grid"
)

// legacyVolumeFactor is the (4/7)³ cell volume hard-coded by an earlier
// implementation. It equals the correct (L/(n-1))³ element only for a cube
// of side 4 sampled at 8 points per axis; Estimate computes the general
// form instead. Kept for reference, not used.
const legacyVolumeFactor = (4.0 / 7.0) * (4.0 / 7.0) * (4.0 / 7.0)

// Estimate approximates U = (ε₀/2) ∫ |E|² dV over the cube by evaluating
// |E|² at every lattice point and weighting by the cell volume (L/(n-1))³.
//
// The result is always non-negative and converges toward a stable value as
// resolution grows; below roughly 10 points per axis treat it as an
// order-of-magnitude figure, since cells adjacent to a charge dominate the
// sum. Degenerate grids (fewer than 2 points per axis) yield 0.
func Estimate(ev *field.Evaluator, c grid.Cube) float64 {
	points := c.Points()
	spacing := c.Spacing()
	if len(points) == 0 || spacing == 0 {
		return 0
	}

	partials := parallelSum(len(points), func(start, end int) float64 {
		sum := 0.0
		for _, p := range points[start:end] {
			sum += ev.At(p).Norm2()
		}
		return sum
	})

	dV := spacing * spacing * spacing
	return 0.5 * field.VacuumPermittivity * partials * dV
}

// parallelSum splits [0, n) across workers and adds up the chunk sums.
// Addition is commutative, so the result is independent of scheduling.
func parallelSum(n int, fn func(start, end int) float64) float64 {
	workers := runtime.NumCPU()
	const minChunk = 512
	if n < minChunk || workers <= 1 {
		return fn(0, n)
	}
	if n/minChunk < workers {
		workers = n / minChunk
	}

	chunkSize := (n + workers - 1) / workers
	partials := make([]float64, workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		go func(idx, s, e int) {
			defer wg.Done()
			partials[idx] = fn(s, e)
		}(w, start, end)
	}
	wg.Wait()

	total := 0.0
	for _, p := range partials {
		total += p
	}
	return total
}
