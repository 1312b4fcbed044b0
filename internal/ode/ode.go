// Package ode provides the numerical integration primitives used for
// field-line tracing: a state vector type, the [System] interface for
// autonomous ODEs dX/dt = f(X, t), and fixed-step plus adaptive
// Runge-Kutta integrators.
package ode

import (
	"errors"
	"math"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// System is an autonomous ODE right-hand side.
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

type Integrator interface {
	Step(sys System, x State, t, dt float64) State
}

// AdaptiveIntegrator additionally estimates local error and proposes the
// next step size.
type AdaptiveIntegrator interface {
	Integrator
	StepAdaptive(sys System, x State, t, dt, tol float64) (State, float64, error)
}

// ErrInvalidState indicates a state vector with NaN or Inf components.
var ErrInvalidState = errors.New("ode: invalid state (NaN or Inf detected)")
