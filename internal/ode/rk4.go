package ode

// RK4 is the classic fixed-step fourth-order integrator.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Step(sys System, x State, t, dt float64) State {
	k1 := sys.Derive(x, t)
	k2 := sys.Derive(shifted(x, k1, dt/2), t+dt/2)
	k3 := sys.Derive(shifted(x, k2, dt/2), t+dt/2)
	k4 := sys.Derive(shifted(x, k3, dt), t+dt)

	next := make(State, len(x))
	for i := range x {
		next[i] = x[i] + dt/6*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}
	return next
}

// shifted returns x advanced by h along the slope k.
func shifted(x, k State, h float64) State {
	y := make(State, len(x))
	for i := range x {
		y[i] = x[i] + h*k[i]
	}
	return y
}
