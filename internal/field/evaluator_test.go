package field

import (
	"math"
	"testing"

	"github.com/lmarques/efield/internal/charge"
	"github.com/lmarques/efield/internal/vec"
)

func newEval(charges ...charge.Charge) *Evaluator {
	return NewEvaluator(charge.NewRegistry(charges, 0))
}

func TestAt_SingleCharge(t *testing.T) {
	q := 1e-6
	e := newEval(charge.Charge{Q: q})

	for _, r := range []float64{0.1, 0.5, 1.0, 2.0} {
		f := e.At(vec.Vec3{X: r})
		want := CoulombConstant * q / (r * r)

		if math.Abs(f.Norm()-want)/want > 1e-12 {
			t.Errorf("r=%v: |E| = %v, want %v", r, f.Norm(), want)
		}
		if f.X <= 0 || f.Y != 0 || f.Z != 0 {
			t.Errorf("r=%v: direction = %v, want +x", r, f)
		}
	}
}

func TestAt_Superposition(t *testing.T) {
	a := charge.Charge{Pos: vec.Vec3{X: -0.3, Y: 0.2}, Q: 2e-6}
	b := charge.Charge{Pos: vec.Vec3{X: 0.7, Z: -0.4}, Q: -1e-6}
	p := vec.Vec3{X: 0.1, Y: -0.5, Z: 0.3}

	both := newEval(a, b).At(p)
	sum := newEval(a).At(p).Add(newEval(b).At(p))

	if both.Sub(sum).Norm() > 1e-6*both.Norm() {
		t.Errorf("superposition violated: combined %v, sum of parts %v", both, sum)
	}
}

func TestAt_DipoleMidpoint(t *testing.T) {
	// +q at (-d,0,0), -q at (d,0,0). At the origin the +q contribution
	// points away from +q (+x) and the -q contribution points toward -q
	// (also +x), so the midpoint field is (2 k q/d², 0, 0).
	q, d := 1e-6, 0.5
	e := newEval(
		charge.Charge{Pos: vec.Vec3{X: -d}, Q: q},
		charge.Charge{Pos: vec.Vec3{X: d}, Q: -q},
	)

	f := e.At(vec.Vec3{})
	want := 2 * CoulombConstant * q / (d * d)

	if math.Abs(f.X-want)/want > 1e-12 {
		t.Errorf("dipole midpoint E_x = %v, want %v", f.X, want)
	}
	if f.Y != 0 || f.Z != 0 {
		t.Errorf("dipole midpoint off-axis components: %v", f)
	}
}

func TestAt_DipoleScenario(t *testing.T) {
	// +1µC at (-0.5,0,0), -1µC at (0.5,0,0): |E| at origin ≈ 7.19e4 N/C.
	e := newEval(
		charge.Charge{Pos: vec.Vec3{X: -0.5}, Q: 1e-6},
		charge.Charge{Pos: vec.Vec3{X: 0.5}, Q: -1e-6},
	)

	f := e.At(vec.Vec3{})
	if math.Abs(f.Norm()-7.19e4)/7.19e4 > 1e-3 {
		t.Errorf("|E| = %v, want ≈7.19e4", f.Norm())
	}
}

func TestAt_EmptyAndCoincident(t *testing.T) {
	if f := newEval().At(vec.Vec3{X: 1}); f != (vec.Vec3{}) {
		t.Errorf("empty charge set: E = %v, want zero", f)
	}

	// A point on top of one charge excludes only that contribution.
	e := newEval(
		charge.Charge{Pos: vec.Vec3{}, Q: 1e-6},
		charge.Charge{Pos: vec.Vec3{X: 1}, Q: 2e-6},
	)
	f := e.At(vec.Vec3{})
	want := CoulombConstant * 2e-6 // from the far charge at distance 1, toward -x
	if math.Abs(f.Norm()-want)/want > 1e-12 {
		t.Errorf("coincident query |E| = %v, want %v", f.Norm(), want)
	}
	if f.X >= 0 {
		t.Errorf("field from +q at x=1 should point in -x, got %v", f)
	}
}

func TestPotentialAt(t *testing.T) {
	q := 1e-6
	pos := vec.Vec3{X: 0.2, Y: -0.1, Z: 0.4}
	e := newEval(charge.Charge{Pos: pos, Q: q})

	// Same |p - pos| from different directions gives the same potential.
	r := 0.75
	points := []vec.Vec3{
		pos.Add(vec.Vec3{X: r}),
		pos.Add(vec.Vec3{Y: -r}),
		pos.Add(vec.Vec3{X: r / math.Sqrt2, Z: r / math.Sqrt2}),
	}

	want := CoulombConstant * q / r
	for _, p := range points {
		if got := e.PotentialAt(p); math.Abs(got-want)/want > 1e-12 {
			t.Errorf("V(%v) = %v, want %v", p, got, want)
		}
	}
}

func TestPotentialAt_Guard(t *testing.T) {
	e := newEval(
		charge.Charge{Pos: vec.Vec3{}, Q: 1e-6},
		charge.Charge{Pos: vec.Vec3{X: 2}, Q: 1e-6},
	)
	got := e.PotentialAt(vec.Vec3{})
	want := CoulombConstant * 1e-6 / 2
	if math.Abs(got-want)/want > 1e-12 {
		t.Errorf("V at coincident point = %v, want %v (far charge only)", got, want)
	}
}

func TestForceOn_Signs(t *testing.T) {
	src := charge.Charge{Pos: vec.Vec3{}, Q: 1e-6}
	e := newEval(src)
	p := vec.Vec3{X: 1}

	// Like charges repel: force on a positive probe points away from the source.
	if f := e.ForceOn(1e-6, p); f.X <= 0 {
		t.Errorf("like charges should repel, got %v", f)
	}

	// Opposite charges attract.
	if f := e.ForceOn(-1e-6, p); f.X >= 0 {
		t.Errorf("opposite charges should attract, got %v", f)
	}
}

func TestForceOn_MatchesField(t *testing.T) {
	e := newEval(
		charge.Charge{Pos: vec.Vec3{X: -0.5, Y: 0.3}, Q: 2e-6},
		charge.Charge{Pos: vec.Vec3{X: 0.8}, Q: -1e-6},
	)
	q := 3e-6
	p := vec.Vec3{X: 0.1, Y: -0.2, Z: 0.4}

	f := e.ForceOn(q, p)
	qe := e.At(p).Scale(q)

	if f.Sub(qe).Norm() > 1e-9*f.Norm() {
		t.Errorf("ForceOn = %v, q·E = %v", f, qe)
	}
}

func TestForceOn_ClampNearSource(t *testing.T) {
	e := newEval(charge.Charge{Q: 1e-6})
	e.GuardRadius = 0.01

	// Inside the guard the distance clamps: finite force, still repulsive.
	f := e.ForceOn(1e-6, vec.Vec3{X: 1e-4})
	if !f.IsValid() {
		t.Fatalf("force inside guard not finite: %v", f)
	}
	if f.X <= 0 {
		t.Errorf("clamped force should stay repulsive, got %v", f)
	}

	// Exactly on the source the direction is undefined and the force is zero.
	if f := e.ForceOn(1e-6, vec.Vec3{}); f != (vec.Vec3{}) {
		t.Errorf("force at exact coincidence = %v, want zero", f)
	}
}

func TestContributions(t *testing.T) {
	a := charge.Charge{Pos: vec.Vec3{X: -1}, Q: 1e-6}
	b := charge.Charge{Pos: vec.Vec3{X: 1}, Q: -2e-6}
	e := newEval(a, b)
	p := vec.Vec3{Y: 0.5}

	parts := e.Contributions(p)
	if len(parts) != 2 {
		t.Fatalf("expected 2 contributions, got %d", len(parts))
	}

	total := parts[0].Add(parts[1])
	if total.Sub(e.At(p)).Norm() > 1e-9 {
		t.Errorf("contributions do not sum to total: %v vs %v", total, e.At(p))
	}
}

func TestDirection(t *testing.T) {
	theta, phi := Direction(vec.Vec3{X: 1})
	if math.Abs(theta) > 1e-9 || math.Abs(phi) > 1e-9 {
		t.Errorf("+x direction: theta=%v phi=%v, want 0,0", theta, phi)
	}

	theta, phi = Direction(vec.Vec3{Y: 1})
	if math.Abs(theta-90) > 1e-9 || math.Abs(phi) > 1e-9 {
		t.Errorf("+y direction: theta=%v phi=%v, want 90,0", theta, phi)
	}

	_, phi = Direction(vec.Vec3{Z: 2})
	if math.Abs(phi-90) > 1e-9 {
		t.Errorf("+z direction: phi=%v, want 90", phi)
	}
}
