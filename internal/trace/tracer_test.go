package trace

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/lmarques/efield/internal/charge"
	"github.com/lmarques/efield/internal/field"
	"github.com/lmarques/efield/internal/vec"
)

func dipole() *charge.Registry {
	return charge.NewRegistry([]charge.Charge{
		{Pos: vec.Vec3{X: -0.5}, Q: 1e-6},
		{Pos: vec.Vec3{X: 0.5}, Q: -1e-6},
	}, 0)
}

func TestTrace_RadialLine(t *testing.T) {
	// A single positive charge at the origin: the line from (0.2,0,0) runs
	// straight out along +x at unit parametric speed.
	reg := charge.NewRegistry([]charge.Charge{{Q: 1e-6}}, 0)
	tr := New(field.NewEvaluator(reg), Params{Interval: 2, Points: 50})

	line, err := tr.Trace(vec.Vec3{X: 0.2})
	if err != nil {
		t.Fatalf("trace failed: %v", err)
	}
	if len(line) != 50 {
		t.Fatalf("expected 50 vertices, got %d", len(line))
	}

	end := line[len(line)-1]
	if math.Abs(end.X-2.2) > 1e-3 {
		t.Errorf("end.X = %v, want ≈2.2 (seed 0.2 + interval 2)", end.X)
	}
	for _, p := range line {
		if math.Abs(p.Y) > 1e-9 || math.Abs(p.Z) > 1e-9 {
			t.Fatalf("radial line left the x axis: %v", p)
		}
	}
	for i := 1; i < len(line); i++ {
		if line[i].X <= line[i-1].X {
			t.Fatalf("radial line not monotone at vertex %d: %v -> %v", i, line[i-1], line[i])
		}
	}
}

func TestTrace_Deterministic(t *testing.T) {
	tr := New(field.NewEvaluator(dipole()), DefaultParams())
	seed := vec.Vec3{X: -0.4, Y: 0.3, Z: 0.1}

	a, errA := tr.Trace(seed)
	b, errB := tr.Trace(seed)
	if errA != nil || errB != nil {
		t.Fatalf("trace failed: %v %v", errA, errB)
	}

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("vertex %d differs between identical traces: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestTrace_StallsAtVanishingField(t *testing.T) {
	// The midpoint between two equal positive charges has |E| = 0: the
	// tangent is zero, so the line stalls in place and still comes back
	// with the full vertex count.
	reg := charge.NewRegistry([]charge.Charge{
		{Pos: vec.Vec3{X: -0.5}, Q: 1e-6},
		{Pos: vec.Vec3{X: 0.5}, Q: 1e-6},
	}, 0)
	tr := New(field.NewEvaluator(reg), Params{Interval: 5, Points: 40})

	line, err := tr.Trace(vec.Vec3{})
	if err != nil {
		t.Fatalf("stalled trace should not error: %v", err)
	}
	if len(line) != 40 {
		t.Fatalf("expected 40 vertices, got %d", len(line))
	}
	for _, p := range line {
		if p.Norm() > 1e-6 {
			t.Fatalf("line should stay at the null point, drifted to %v", p)
		}
	}
}

func TestTrace_FollowsFieldDirection(t *testing.T) {
	// Near the positive pole of a dipole, lines head toward the negative
	// charge side (increasing x).
	tr := New(field.NewEvaluator(dipole()), DefaultParams())

	line, err := tr.Trace(vec.Vec3{X: -0.3})
	if err != nil {
		t.Fatalf("trace failed: %v", err)
	}
	if line[len(line)-1].X <= line[0].X {
		t.Errorf("dipole line should run from + toward -: start %v end %v",
			line[0], line[len(line)-1])
	}
}

func TestTraceAll_OrderAndSkips(t *testing.T) {
	tr := New(field.NewEvaluator(dipole()), Params{Interval: 2, Points: 30})
	rng := rand.New(rand.NewSource(7))
	seeds := UniformSeeds(rng, 16, 1.2)

	results := tr.TraceAll(context.Background(), seeds)
	if len(results) != len(seeds) {
		t.Fatalf("expected %d results, got %d", len(seeds), len(results))
	}
	for i, r := range results {
		if r.Seed != seeds[i] {
			t.Fatalf("result %d out of order: seed %v vs %v", i, r.Seed, seeds[i])
		}
		if r.Err == nil && len(r.Line) != 30 {
			t.Errorf("result %d: %d vertices, want 30", i, len(r.Line))
		}
	}

	lines := Lines(results)
	if len(lines) == 0 {
		t.Error("expected at least one successful line")
	}

	// Concurrent tracing must match a serial rerun point for point.
	for i, r := range results {
		if r.Err != nil {
			continue
		}
		serial, err := tr.Trace(seeds[i])
		if err != nil {
			t.Fatalf("serial retrace of seed %d failed: %v", i, err)
		}
		for j := range serial {
			if serial[j] != r.Line[j] {
				t.Fatalf("seed %d vertex %d differs between batch and serial trace", i, j)
			}
		}
	}
}

func TestTraceAll_CanceledContext(t *testing.T) {
	tr := New(field.NewEvaluator(dipole()), DefaultParams())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := tr.TraceAll(ctx, UniformSeeds(rand.New(rand.NewSource(1)), 4, 1.2))
	for _, r := range results {
		if r.Err == nil {
			t.Error("expected canceled results")
		}
	}
}

func TestSeeds_Reproducible(t *testing.T) {
	a := UniformSeeds(rand.New(rand.NewSource(42)), 10, 1.2)
	b := UniformSeeds(rand.New(rand.NewSource(42)), 10, 1.2)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("uniform seeds differ at %d with equal sources", i)
		}
	}

	for _, s := range a {
		if math.Abs(s.X) > 1.2 || math.Abs(s.Y) > 1.2 || math.Abs(s.Z) > 1.2 {
			t.Fatalf("seed outside box: %v", s)
		}
	}
}

func TestSphereSeeds(t *testing.T) {
	reg := dipole() // one positive charge at (-0.5,0,0)
	rng := rand.New(rand.NewSource(3))

	seeds := SphereSeeds(rng, reg, 12, 0.2)
	if len(seeds) != 12 {
		t.Fatalf("expected 12 seeds for one positive charge, got %d", len(seeds))
	}

	center := vec.Vec3{X: -0.5}
	for _, s := range seeds {
		d := s.Sub(center).Norm()
		if math.Abs(d-0.2) > 1e-9 {
			t.Fatalf("seed %v at distance %v from charge, want 0.2", s, d)
		}
	}

	// No positive charges, no seeds.
	neg := charge.NewRegistry([]charge.Charge{{Q: -1e-6}}, 0)
	if got := SphereSeeds(rng, neg, 12, 0.2); got != nil {
		t.Errorf("negative-only registry should yield no seeds, got %d", len(got))
	}
}
