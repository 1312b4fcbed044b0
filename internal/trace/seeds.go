package trace

import (
	"math/rand"

	"github.com/lmarques/efield/internal/charge"
	"github.com/lmarques/efield/internal/vec"
)

// Seed generation defaults from the interactive defaults: 12 lines per
// positive charge, launched from a small sphere around it.
const (
	DefaultSeedsPerCharge = 12
	DefaultSeedRadius     = 0.2
	DefaultSeedHalf       = 1.2
)

// UniformSeeds draws n seeds uniformly from the cube [-half, half]³. The
// generator is injected so batches are reproducible.
func UniformSeeds(rng *rand.Rand, n int, half float64) []vec.Vec3 {
	if n <= 0 {
		return nil
	}
	seeds := make([]vec.Vec3, n)
	for i := range seeds {
		seeds[i] = vec.Vec3{
			X: (2*rng.Float64() - 1) * half,
			Y: (2*rng.Float64() - 1) * half,
			Z: (2*rng.Float64() - 1) * half,
		}
	}
	return seeds
}

// SphereSeeds places perCharge seeds on a sphere of the given radius around
// every positive charge, the conventional origin of field lines. Directions
// are isotropic (normalized Gaussian triples). Registries without positive
// charges yield no seeds.
func SphereSeeds(rng *rand.Rand, reg *charge.Registry, perCharge int, radius float64) []vec.Vec3 {
	if perCharge <= 0 {
		return nil
	}
	var seeds []vec.Vec3
	charges := reg.Charges()
	for _, i := range reg.Positives() {
		for j := 0; j < perCharge; j++ {
			dir := vec.Vec3{
				X: rng.NormFloat64(),
				Y: rng.NormFloat64(),
				Z: rng.NormFloat64(),
			}.Unit(1e-12)
			if dir == (vec.Vec3{}) {
				// Degenerate draw; aim along +z rather than seeding on
				// top of the charge.
				dir = vec.Vec3{Z: 1}
			}
			seeds = append(seeds, charges[i].Pos.Add(dir.Scale(radius)))
		}
	}
	return seeds
}
