// Package probe analyzes the forces on a movable test charge: per-source
// decomposition, resultant, direction angles and equilibrium detection.
package probe

import (
	"github.com/lmarques/efield/internal/charge"
	"github.com/lmarques/efield/internal/field"
	"github.com/lmarques/efield/internal/vec"
)

// EquilibriumThreshold is the resultant magnitude in newtons under which
// the probe is reported as being at an equilibrium point.
const EquilibriumThreshold = 1e-6

// Probe is a test charge at a position, supplied by the caller each
// recomputation.
type Probe struct {
	Q   float64
	Pos vec.Vec3
}

// SourceForce is the force contribution of one registry charge on the probe.
type SourceForce struct {
	Source string
	F      vec.Vec3
	Mag    float64
}

// Report is the full probe analysis at one position.
type Report struct {
	Probe     Probe
	Field     vec.Vec3
	FieldMag  float64
	Potential float64
	Forces    []SourceForce
	Resultant vec.Vec3
	Mag       float64

	// Theta and Phi give the resultant direction in degrees; meaningless
	// when Equilibrium is set.
	Theta, Phi  float64
	Equilibrium bool
}

// Analyze evaluates the probe against the charge set behind ev. The per
// source forces sum to the resultant; with no charges everything is zero
// and the probe reports equilibrium.
func Analyze(ev *field.Evaluator, reg *charge.Registry, p Probe) Report {
	rep := Report{Probe: p}

	rep.Field = ev.At(p.Pos)
	rep.FieldMag = rep.Field.Norm()
	rep.Potential = ev.PotentialAt(p.Pos)

	charges := reg.Charges()
	rep.Forces = make([]SourceForce, 0, len(charges))
	for i := range charges {
		one := field.NewEvaluator(charge.NewRegistry(charges[i:i+1], 0))
		one.K = ev.K
		one.GuardRadius = ev.GuardRadius

		f := one.ForceOn(p.Q, p.Pos)
		rep.Forces = append(rep.Forces, SourceForce{
			Source: charge.Label(i),
			F:      f,
			Mag:    f.Norm(),
		})
		rep.Resultant = rep.Resultant.Add(f)
	}

	rep.Mag = rep.Resultant.Norm()
	if rep.Mag < EquilibriumThreshold {
		rep.Equilibrium = true
	} else {
		rep.Theta, rep.Phi = field.Direction(rep.Resultant)
	}
	return rep
}
