package trace

import (
	"errors"

	"github.com/lmarques/efield/internal/field"
	"github.com/lmarques/efield/internal/ode"
	"github.com/lmarques/efield/internal/vec"
)

// Defaults matching the interactive use case: a parametric interval of 5
// sampled at 100 points with a 1e-5 relative tolerance.
const (
	DefaultInterval = 5.0
	DefaultPoints   = 100
	DefaultTol      = 1e-5

	// DefaultVanish is the |E| threshold below which the tangent is zero.
	DefaultVanish = 1e-8
)

// ErrDiverged marks a trace whose state went NaN or Inf.
var ErrDiverged = errors.New("trace: integration diverged")

// Params bound a single trace. The interval and point count are fixed, so
// every trace terminates after at most Points sampling windows.
type Params struct {
	Interval float64
	Points   int
	Tol      float64
	Vanish   float64
}

func DefaultParams() Params {
	return Params{
		Interval: DefaultInterval,
		Points:   DefaultPoints,
		Tol:      DefaultTol,
		Vanish:   DefaultVanish,
	}
}

// Line is an ordered polyline tangent to the field at every vertex.
type Line []vec.Vec3

// Result is the outcome for one seed: a polyline or a skip reason.
type Result struct {
	Seed vec.Vec3
	Line Line
	Err  error
}

// tangentSystem adapts the field evaluator to the ode.System interface.
// The right-hand side is the unit field direction, zero where |E| is below
// the vanish threshold so the integrator stalls instead of blowing up.
type tangentSystem struct {
	ev     *field.Evaluator
	vanish float64
}

func (s *tangentSystem) StateDim() int { return 3 }

func (s *tangentSystem) Derive(x ode.State, t float64) ode.State {
	e := s.ev.At(vec.Vec3{X: x[0], Y: x[1], Z: x[2]})
	u := e.Unit(s.vanish)
	return ode.State{u.X, u.Y, u.Z}
}

// Tracer traces field lines for a fixed evaluator. It holds no per-trace
// state, so one Tracer serves concurrent seeds.
type Tracer struct {
	ev     *field.Evaluator
	params Params
	integ  *ode.RK45
}

func New(ev *field.Evaluator, params Params) *Tracer {
	if params.Points < 2 {
		params.Points = 2
	}
	if params.Interval <= 0 {
		params.Interval = DefaultInterval
	}
	if params.Tol <= 0 {
		params.Tol = DefaultTol
	}
	if params.Vanish <= 0 {
		params.Vanish = DefaultVanish
	}
	return &Tracer{ev: ev, params: params, integ: ode.NewRK45()}
}

// Trace integrates one line from seed. The returned polyline has exactly
// params.Points vertices sampled at evenly spaced parameter values, the
// first being the seed itself. Deterministic for a given seed and charge
// set: randomness lives only in seed generation.
func (t *Tracer) Trace(seed vec.Vec3) (Line, error) {
	sys := &tangentSystem{ev: t.ev, vanish: t.params.Vanish}

	n := t.params.Points
	sampleDt := t.params.Interval / float64(n-1)
	minDt := sampleDt * 1e-6

	line := make(Line, 0, n)
	line = append(line, seed)

	x := ode.State{seed.X, seed.Y, seed.Z}
	tm := 0.0
	dt := sampleDt

	for k := 1; k < n; k++ {
		target := float64(k) * sampleDt

		// Advance to the sample time with adaptive sub-steps. The step
		// floor plus the clamp to the remaining window bounds the loop.
		for tm < target-minDt {
			step := dt
			if step > target-tm {
				step = target - tm
			}
			if step < minDt {
				step = minDt
			}

			next, dtNew, err := t.integ.StepAdaptive(sys, x, tm, step, t.params.Tol)
			if err != nil {
				return nil, err
			}
			if !next.IsValid() {
				return nil, ErrDiverged
			}

			x = next
			tm += step
			if dtNew < minDt {
				dtNew = minDt
			}
			dt = dtNew
		}

		line = append(line, vec.Vec3{X: x[0], Y: x[1], Z: x[2]})
	}

	return line, nil
}
