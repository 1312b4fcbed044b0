package ode

// Euler is the first-order explicit integrator, kept mostly as a baseline
// for accuracy comparisons.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(sys System, x State, t, dt float64) State {
	return shifted(x, sys.Derive(x, t), dt)
}
