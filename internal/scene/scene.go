// Package scene runs one full recomputation cycle: from a charge
// configuration and visualization parameters to grid samples, field lines,
// probe scalars and the energy estimate. Every call is independent; the
// interactive layer simply discards stale results when parameters change
// mid-flight.
package scene

import (
	"context"
	"math/rand"

	"github.com/lmarques/efield/internal/charge"
	"github.com/lmarques/efield/internal/energy"
	"github.com/lmarques/efield/internal/field"
	"github.com/lmarques/efield/internal/grid"
	"github.com/lmarques/efield/internal/probe"
	"github.com/lmarques/efield/internal/trace"
	"github.com/lmarques/efield/internal/vec"
)

// SeedPolicy selects where field-line seeds come from.
type SeedPolicy string

const (
	// SeedSphere launches lines from small spheres around positive charges.
	SeedSphere SeedPolicy = "sphere"
	// SeedUniform draws seeds uniformly from the bounding box.
	SeedUniform SeedPolicy = "uniform"
)

// Render filter bounds: samples outside this magnitude window are dropped
// so singular neighborhoods and dead zones don't pollute the cone plot.
const (
	MinRenderMag = 1e-3
	MaxRenderMag = 1e8
)

// Params collects every knob of a recomputation. The zero value is not
// useful; start from Defaults.
type Params struct {
	GuardRadius float64
	K           float64

	SeedPolicy     SeedPolicy
	SeedsPerCharge int
	SeedRadius     float64
	LineCount      int // uniform policy only
	Seed           int64

	GridHalf   float64
	GridRes    int
	GridStride int

	EnergyHalf float64
	EnergyRes  int

	PositionBound float64
	Trace         trace.Params
}

func Defaults() Params {
	return Params{
		GuardRadius:    field.DefaultGuardRadius,
		K:              field.CoulombConstant,
		SeedPolicy:     SeedSphere,
		SeedsPerCharge: trace.DefaultSeedsPerCharge,
		SeedRadius:     trace.DefaultSeedRadius,
		LineCount:      25,
		GridHalf:       1.5,
		GridRes:        15,
		GridStride:     4,
		EnergyHalf:     2,
		EnergyRes:      20,
		PositionBound:  2,
		Trace:          trace.DefaultParams(),
	}
}

// Scene is the explicit input value for one recomputation. No ambient
// state: everything the core reads is here.
type Scene struct {
	Charges []charge.Charge
	Params  Params
	Probe   *probe.Probe
}

// Result is everything the collaborator layer renders.
type Result struct {
	Samples     []field.Sample
	Lines       []trace.Line
	Skipped     int
	Energy      float64
	TotalCharge float64
	Probe       *probe.Report
}

// Compute runs the full pipeline. It never fails: degenerate inputs come
// back as empty collections and zero scalars.
func Compute(ctx context.Context, s Scene) Result {
	p := s.Params
	reg := charge.NewRegistry(s.Charges, p.PositionBound)

	ev := field.NewEvaluator(reg)
	if p.GuardRadius > 0 {
		ev.GuardRadius = p.GuardRadius
	}
	if p.K > 0 {
		ev.K = p.K
	}

	var res Result
	res.TotalCharge = reg.Total()

	res.Samples = sampleGrid(ev, grid.Cube{Half: p.GridHalf, Res: p.GridRes}, p.GridStride)
	res.Energy = energy.Estimate(ev, grid.Cube{Half: p.EnergyHalf, Res: p.EnergyRes})

	rng := rand.New(rand.NewSource(p.Seed))
	var seeds []vec.Vec3
	switch p.SeedPolicy {
	case SeedUniform:
		seeds = trace.UniformSeeds(rng, p.LineCount, trace.DefaultSeedHalf)
	default:
		seeds = trace.SphereSeeds(rng, reg, p.SeedsPerCharge, p.SeedRadius)
	}

	tracer := trace.New(ev, p.Trace)
	results := tracer.TraceAll(ctx, seeds)
	res.Lines = trace.Lines(results)
	res.Skipped = len(results) - len(res.Lines)

	if s.Probe != nil {
		rep := probe.Analyze(ev, reg, *s.Probe)
		res.Probe = &rep
	}

	return res
}

// sampleGrid evaluates the strided lattice and keeps samples inside the
// render magnitude window.
func sampleGrid(ev *field.Evaluator, c grid.Cube, stride int) []field.Sample {
	points := c.Strided(stride)
	samples := make([]field.Sample, 0, len(points))
	for _, pt := range points {
		s := ev.SampleAt(pt)
		if s.Mag <= MinRenderMag || s.Mag >= MaxRenderMag {
			continue
		}
		samples = append(samples, s)
	}
	return samples
}

// ConeScale returns the draw scale 0.8/max|E| used to normalize cone sizes
// across a sample set.
func ConeScale(samples []field.Sample) float64 {
	max := 0.0
	for _, s := range samples {
		if s.Mag > max {
			max = s.Mag
		}
	}
	return 0.8 / (max + 1e-8)
}
