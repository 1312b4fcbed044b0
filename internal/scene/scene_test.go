package scene

import (
	"context"
	"testing"

	"github.com/lmarques/efield/internal/charge"
	"github.com/lmarques/efield/internal/field"
	"github.com/lmarques/efield/internal/probe"
	"github.com/lmarques/efield/internal/vec"
)

func dipoleScene() Scene {
	p := Defaults()
	p.GridRes = 6
	p.GridStride = 1
	p.EnergyRes = 8
	p.Trace.Points = 30
	p.Trace.Interval = 2
	p.Seed = 42
	return Scene{
		Charges: []charge.Charge{
			{Pos: vec.Vec3{X: -0.5}, Q: 1e-6},
			{Pos: vec.Vec3{X: 0.5}, Q: -1e-6},
		},
		Params: p,
	}
}

func TestCompute_FullPipeline(t *testing.T) {
	s := dipoleScene()
	s.Probe = &probe.Probe{Q: 1e-6, Pos: vec.Vec3{Y: 1}}

	res := Compute(context.Background(), s)

	if len(res.Samples) == 0 {
		t.Error("expected grid samples")
	}
	if len(res.Lines) == 0 {
		t.Error("expected field lines")
	}
	if res.Energy <= 0 {
		t.Errorf("energy = %v, want positive", res.Energy)
	}
	if res.TotalCharge != 0 {
		t.Errorf("dipole total charge = %v, want 0", res.TotalCharge)
	}
	if res.Probe == nil {
		t.Fatal("expected probe report")
	}
	if res.Probe.Mag <= 0 {
		t.Error("probe should feel a force off the dipole axis midpoint")
	}

	for _, s := range res.Samples {
		if s.Mag <= MinRenderMag || s.Mag >= MaxRenderMag {
			t.Fatalf("sample outside render window: %v", s.Mag)
		}
		if s.E.Norm() != s.Mag {
			t.Fatalf("sample magnitude inconsistent: %v vs %v", s.E.Norm(), s.Mag)
		}
	}
}

func TestCompute_Reproducible(t *testing.T) {
	s := dipoleScene()

	a := Compute(context.Background(), s)
	b := Compute(context.Background(), s)

	if len(a.Lines) != len(b.Lines) {
		t.Fatalf("line counts differ: %d vs %d", len(a.Lines), len(b.Lines))
	}
	for i := range a.Lines {
		for j := range a.Lines[i] {
			if a.Lines[i][j] != b.Lines[i][j] {
				t.Fatalf("line %d vertex %d differs between identical scenes", i, j)
			}
		}
	}
	if a.Energy != b.Energy {
		t.Errorf("energy differs: %v vs %v", a.Energy, b.Energy)
	}
}

func TestCompute_EmptyCharges(t *testing.T) {
	s := Scene{Params: Defaults()}
	res := Compute(context.Background(), s)

	if len(res.Samples) != 0 {
		t.Errorf("no charges: expected no renderable samples, got %d", len(res.Samples))
	}
	if len(res.Lines) != 0 {
		t.Errorf("no charges: expected no lines, got %d", len(res.Lines))
	}
	if res.Energy != 0 {
		t.Errorf("no charges: energy = %v, want 0", res.Energy)
	}
}

func TestCompute_UniformSeedPolicy(t *testing.T) {
	s := dipoleScene()
	s.Params.SeedPolicy = SeedUniform
	s.Params.LineCount = 9

	res := Compute(context.Background(), s)
	if len(res.Lines)+res.Skipped != 9 {
		t.Errorf("lines+skipped = %d, want 9", len(res.Lines)+res.Skipped)
	}
}

func TestCompute_ClampsChargePositions(t *testing.T) {
	s := dipoleScene()
	s.Params.PositionBound = 1
	s.Charges = []charge.Charge{{Pos: vec.Vec3{X: 5}, Q: 1e-6}}
	s.Probe = &probe.Probe{Q: 1e-6, Pos: vec.Vec3{X: 5}}

	res := Compute(context.Background(), s)
	// The charge clamps to x=1; the probe at x=5 feels a repulsive +x force
	// from distance 4.
	want := field.CoulombConstant * 1e-6 * 1e-6 / 16
	if res.Probe == nil || res.Probe.Resultant.X <= 0 {
		t.Fatalf("expected repulsive force from clamped charge")
	}
	rel := (res.Probe.Mag - want) / want
	if rel > 1e-9 || rel < -1e-9 {
		t.Errorf("|F| = %v, want %v", res.Probe.Mag, want)
	}
}

func TestConeScale(t *testing.T) {
	samples := []field.Sample{{Mag: 2}, {Mag: 8}, {Mag: 4}}
	got := ConeScale(samples)
	want := 0.8 / (8 + 1e-8)
	if got != want {
		t.Errorf("ConeScale = %v, want %v", got, want)
	}
}
