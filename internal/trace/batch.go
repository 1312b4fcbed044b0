package trace

import (
	"context"
	"sync"

	"github.com/lmarques/efield/internal/vec"
)

// TraceAll traces every seed concurrently and returns one Result per seed,
// in seed order. Seeds are independent, so ordering never affects content;
// a failed seed carries its error and a nil line.
func (t *Tracer) TraceAll(ctx context.Context, seeds []vec.Vec3) []Result {
	results := make([]Result, len(seeds))

	var wg sync.WaitGroup
	for i, seed := range seeds {
		wg.Add(1)
		go func(idx int, s vec.Vec3) {
			defer wg.Done()

			if err := ctx.Err(); err != nil {
				results[idx] = Result{Seed: s, Err: err}
				return
			}

			line, err := t.Trace(s)
			results[idx] = Result{Seed: s, Line: line, Err: err}
		}(i, seed)
	}
	wg.Wait()

	return results
}

// Lines filters a result batch down to the successful polylines, dropping
// failed seeds. Order follows the seed order.
func Lines(results []Result) []Line {
	lines := make([]Line, 0, len(results))
	for _, r := range results {
		if r.Err == nil && len(r.Line) > 0 {
			lines = append(lines, r.Line)
		}
	}
	return lines
}
