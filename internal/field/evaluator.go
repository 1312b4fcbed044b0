package field

import (
	"math"

	"github.com/lmarques/efield/internal/charge"
	"github.com/lmarques/efield/internal/vec"
)

// Physical constants, SI units.
const (
	// CoulombConstant is k_e = 1/(4π ε₀) in N·m²/C².
	CoulombConstant = 8.9875517923e9

	// VacuumPermittivity is ε₀ in F/m.
	VacuumPermittivity = 8.8541878128e-12
)

// Guard radii for the singularity clamp.
const (
	// DefaultGuardRadius keeps evaluation exact everywhere except in the
	// immediate numerical neighborhood of a charge.
	DefaultGuardRadius = 1e-8

	// CoarseGuardRadius trades exactness near charges for smoother visuals
	// on low-resolution grids.
	CoarseGuardRadius = 0.05
)

// Evaluator computes field, potential and force for a fixed charge set.
// The zero guard and constants are explicit so that every consumer of the
// same scene shares identical singularity behavior.
type Evaluator struct {
	reg *charge.Registry

	// K is the Coulomb constant. Defaults to CoulombConstant.
	K float64

	// GuardRadius is the minimum distance to a source charge. Below it the
	// charge's contribution is skipped (field, potential) or the distance is
	// clamped (force).
	GuardRadius float64
}

func NewEvaluator(reg *charge.Registry) *Evaluator {
	return &Evaluator{
		reg:         reg,
		K:           CoulombConstant,
		GuardRadius: DefaultGuardRadius,
	}
}

// contribution is the field at p due to a single charge, zero within the
// guard radius.
func (e *Evaluator) contribution(p vec.Vec3, c charge.Charge) vec.Vec3 {
	r := p.Sub(c.Pos)
	d := r.Norm()
	if d < e.GuardRadius {
		return vec.Vec3{}
	}
	return r.Scale(e.K * c.Q / (d * d * d))
}

// At returns the superposed field vector at p in N/C. An empty charge set
// yields the zero vector.
func (e *Evaluator) At(p vec.Vec3) vec.Vec3 {
	var total vec.Vec3
	for _, c := range e.reg.Charges() {
		total = total.Add(e.contribution(p, c))
	}
	return total
}

// Contributions returns the per-charge field vectors at p, in registry
// order, so the superposition E = Σ E_i can be displayed term by term.
func (e *Evaluator) Contributions(p vec.Vec3) []vec.Vec3 {
	charges := e.reg.Charges()
	out := make([]vec.Vec3, len(charges))
	for i, c := range charges {
		out[i] = e.contribution(p, c)
	}
	return out
}

// PotentialAt returns the scalar potential at p in volts. Charges within
// the guard radius are skipped, as for At.
func (e *Evaluator) PotentialAt(p vec.Vec3) float64 {
	v := 0.0
	for _, c := range e.reg.Charges() {
		d := p.Sub(c.Pos).Norm()
		if d < e.GuardRadius {
			continue
		}
		v += e.K * c.Q / d
	}
	return v
}

// ForceOn returns the Coulomb force in newtons on a test charge q at p,
// by pairwise summation. Distances are clamped to the guard radius rather
// than skipped, so the force stays finite and correctly signed when the
// probe sits on top of a source. Away from the guard this equals q·At(p).
func (e *Evaluator) ForceOn(q float64, p vec.Vec3) vec.Vec3 {
	var total vec.Vec3
	for _, c := range e.reg.Charges() {
		total = total.Add(e.pairForce(q, p, c))
	}
	return total
}

func (e *Evaluator) pairForce(q float64, p vec.Vec3, c charge.Charge) vec.Vec3 {
	r := p.Sub(c.Pos)
	d := r.Norm()
	if d < e.GuardRadius {
		d = e.GuardRadius
	}
	// Like charges (q·q_i > 0) push the probe away from the source; the
	// sign of the product carries that through r = p - r_i. At exact
	// coincidence r is zero and so is the force.
	return r.Scale(e.K * q * c.Q / (d * d * d))
}

// Sample pairs a query point with the evaluated field.
type Sample struct {
	Pos vec.Vec3
	E   vec.Vec3
	Mag float64
}

func (e *Evaluator) SampleAt(p vec.Vec3) Sample {
	f := e.At(p)
	return Sample{Pos: p, E: f, Mag: f.Norm()}
}

// EnergyDensity returns the field energy density (ε₀/2)|E|² at p in J/m³.
func (e *Evaluator) EnergyDensity(p vec.Vec3) float64 {
	f := e.At(p)
	return 0.5 * VacuumPermittivity * f.Norm2()
}

// Direction returns the polar decomposition of a vector for display:
// theta = atan2(y, x) and phi = atan2(z, sqrt(x²+y²)), both in degrees.
func Direction(v vec.Vec3) (theta, phi float64) {
	theta = math.Atan2(v.Y, v.X) * 180 / math.Pi
	phi = math.Atan2(v.Z, math.Sqrt(v.X*v.X+v.Y*v.Y)) * 180 / math.Pi
	return theta, phi
}
