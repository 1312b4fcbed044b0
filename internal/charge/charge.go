package charge

import (
	"fmt"

	"github.com/lmarques/efield/internal/vec"
)

// Charge is an idealized point charge: a position in meters and a signed
// magnitude in coulombs. Values are immutable; the registry is replaced
// wholesale on every configuration change.
type Charge struct {
	Pos vec.Vec3
	Q   float64
}

// Label returns the display name for the charge at ordinal i (1-based),
// matching the on-screen numbering.
func Label(i int) string {
	return fmt.Sprintf("Q%d", i+1)
}

// Registry holds the current charge set. It is the sole source of truth:
// fields, lines and energy are all derived views recomputed from it.
type Registry struct {
	charges []Charge
}

// NewRegistry builds a registry from the given charges, clamping positions
// to [-bound, bound] per axis when bound > 0.
func NewRegistry(charges []Charge, bound float64) *Registry {
	cs := make([]Charge, len(charges))
	copy(cs, charges)
	if bound > 0 {
		for i := range cs {
			cs[i].Pos = cs[i].Pos.Clamp(bound)
		}
	}
	return &Registry{charges: cs}
}

// Charges returns the charge set in ordinal order. Callers must not mutate
// the returned slice.
func (r *Registry) Charges() []Charge {
	return r.charges
}

func (r *Registry) Len() int {
	return len(r.charges)
}

// Positives returns the indices of positive charges, the conventional
// origins of field lines.
func (r *Registry) Positives() []int {
	var idx []int
	for i, c := range r.charges {
		if c.Q > 0 {
			idx = append(idx, i)
		}
	}
	return idx
}

// Total returns the net charge in coulombs.
func (r *Registry) Total() float64 {
	sum := 0.0
	for _, c := range r.charges {
		sum += c.Q
	}
	return sum
}
