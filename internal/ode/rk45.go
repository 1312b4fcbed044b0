package ode

import "math"

// Dormand-Prince 5(4) tableau. The last stage row equals the fifth-order
// weights, so stage 7 is the derivative at the accepted point (FSAL).
var dp = struct {
	c [7]float64
	a [7][6]float64
	e [7]float64 // fifth minus fourth order weights
}{
	c: [7]float64{0, 1.0 / 5, 3.0 / 10, 4.0 / 5, 8.0 / 9, 1, 1},
	a: [7][6]float64{
		{},
		{1.0 / 5},
		{3.0 / 40, 9.0 / 40},
		{44.0 / 45, -56.0 / 15, 32.0 / 9},
		{19372.0 / 6561, -25360.0 / 2187, 64448.0 / 6561, -212.0 / 729},
		{9017.0 / 3168, -355.0 / 33, 46732.0 / 5247, 49.0 / 176, -5103.0 / 18656},
		{35.0 / 384, 0, 500.0 / 1113, 125.0 / 192, -2187.0 / 6784, 11.0 / 84},
	},
	e: [7]float64{
		35.0/384 - 5179.0/57600,
		0,
		500.0/1113 - 7571.0/16695,
		125.0/192 - 393.0/640,
		-2187.0/6784 + 92097.0/339200,
		11.0/84 - 187.0/2100,
		-1.0 / 40,
	},
}

// RK45 is the adaptive Dormand-Prince integrator. The step controller
// shrinks aggressively on rejection and grows conservatively on accept.
type RK45 struct {
	safety   float64
	minScale float64
	maxScale float64
}

func NewRK45() *RK45 {
	return &RK45{safety: 0.9, minScale: 0.2, maxScale: 10.0}
}

// Step takes a fixed step, discarding the error estimate.
func (r *RK45) Step(sys System, x State, t, dt float64) State {
	next, _, _ := r.StepAdaptive(sys, x, t, dt, 1e-6)
	return next
}

// StepAdaptive advances one step of size dt and returns the new state plus
// the step size suggested for the next call.
func (r *RK45) StepAdaptive(sys System, x State, t, dt, tol float64) (State, float64, error) {
	n := len(x)

	var k [7]State
	k[0] = sys.Derive(x, t)

	var next State
	for s := 1; s < 7; s++ {
		row := dp.a[s]
		y := make(State, n)
		for i := 0; i < n; i++ {
			sum := 0.0
			for j := 0; j < s; j++ {
				sum += row[j] * k[j][i]
			}
			y[i] = x[i] + dt*sum
		}
		k[s] = sys.Derive(y, t+dp.c[s]*dt)
		// The y of the final stage is the fifth-order solution itself.
		next = y
	}

	errMax := 0.0
	for i := 0; i < n; i++ {
		est := 0.0
		for j := 0; j < 7; j++ {
			est += dp.e[j] * k[j][i]
		}
		scale := math.Abs(x[i]) + math.Abs(dt*k[0][i]) + 1e-10
		errMax = math.Max(errMax, math.Abs(dt*est)/scale)
	}

	ratio := errMax / tol
	var dtNext float64
	switch {
	case ratio > 1:
		dtNext = dt * math.Max(r.minScale, r.safety*math.Pow(ratio, -0.25))
	case ratio > 0:
		dtNext = dt * math.Min(r.maxScale, r.safety*math.Pow(ratio, -0.2))
	default:
		dtNext = dt * r.maxScale
	}

	return next, dtNext, nil
}
