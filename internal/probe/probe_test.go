package probe

import (
	"math"
	"testing"

	"github.com/lmarques/efield/internal/charge"
	"github.com/lmarques/efield/internal/field"
	"github.com/lmarques/efield/internal/vec"
)

func setup(charges ...charge.Charge) (*field.Evaluator, *charge.Registry) {
	reg := charge.NewRegistry(charges, 0)
	return field.NewEvaluator(reg), reg
}

func TestAnalyze_ForcesSumToResultant(t *testing.T) {
	ev, reg := setup(
		charge.Charge{Pos: vec.Vec3{X: -1}, Q: 5e-6},
		charge.Charge{Pos: vec.Vec3{X: 1}, Q: -5e-6},
	)

	rep := Analyze(ev, reg, Probe{Q: 1e-6, Pos: vec.Vec3{Y: 2}})

	if len(rep.Forces) != 2 {
		t.Fatalf("expected 2 source forces, got %d", len(rep.Forces))
	}
	if rep.Forces[0].Source != "Q1" || rep.Forces[1].Source != "Q2" {
		t.Errorf("source labels wrong: %s, %s", rep.Forces[0].Source, rep.Forces[1].Source)
	}

	sum := rep.Forces[0].F.Add(rep.Forces[1].F)
	if sum.Sub(rep.Resultant).Norm() > 1e-12*rep.Mag {
		t.Errorf("forces do not sum to resultant: %v vs %v", sum, rep.Resultant)
	}

	// The resultant equals q·E away from the guard.
	qe := rep.Field.Scale(1e-6)
	if qe.Sub(rep.Resultant).Norm() > 1e-9*rep.Mag {
		t.Errorf("resultant %v != q·E %v", rep.Resultant, qe)
	}
}

func TestAnalyze_Equilibrium(t *testing.T) {
	// Midpoint between equal like charges: forces cancel.
	ev, reg := setup(
		charge.Charge{Pos: vec.Vec3{X: -1}, Q: 2e-6},
		charge.Charge{Pos: vec.Vec3{X: 1}, Q: 2e-6},
	)

	rep := Analyze(ev, reg, Probe{Q: 1e-6, Pos: vec.Vec3{}})
	if !rep.Equilibrium {
		t.Errorf("midpoint should be an equilibrium, |F| = %v", rep.Mag)
	}

	rep = Analyze(ev, reg, Probe{Q: 1e-6, Pos: vec.Vec3{X: 0.5}})
	if rep.Equilibrium {
		t.Errorf("off-center probe should not be at equilibrium")
	}
}

func TestAnalyze_DirectionAngles(t *testing.T) {
	ev, reg := setup(charge.Charge{Q: 1e-6})

	// Positive probe on +y axis: repelled along +y, theta 90, phi 0.
	rep := Analyze(ev, reg, Probe{Q: 1e-6, Pos: vec.Vec3{Y: 1}})
	if math.Abs(rep.Theta-90) > 1e-6 || math.Abs(rep.Phi) > 1e-6 {
		t.Errorf("theta=%v phi=%v, want 90,0", rep.Theta, rep.Phi)
	}
}

func TestAnalyze_EmptyRegistry(t *testing.T) {
	ev, reg := setup()
	rep := Analyze(ev, reg, Probe{Q: 1e-6, Pos: vec.Vec3{X: 1}})

	if len(rep.Forces) != 0 || rep.Mag != 0 || !rep.Equilibrium {
		t.Errorf("empty registry should report zero equilibrium, got %+v", rep)
	}
	if rep.Potential != 0 || rep.FieldMag != 0 {
		t.Errorf("empty registry scalars should be zero")
	}
}
