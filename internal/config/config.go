package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lmarques/efield/internal/charge"
	"github.com/lmarques/efield/internal/field"
	"github.com/lmarques/efield/internal/probe"
	"github.com/lmarques/efield/internal/scene"
	"github.com/lmarques/efield/internal/vec"
)

const (
	DefaultGridHalf      = 1.5
	DefaultGridRes       = 15
	DefaultGridStride    = 4
	DefaultEnergyHalf    = 2.0
	DefaultEnergyRes     = 20
	DefaultLineCount     = 25
	DefaultLinesPer      = 12
	DefaultSeedRadius    = 0.2
	DefaultInterval      = 5.0
	DefaultLinePoints    = 100
	DefaultTolerance     = 1e-5
	DefaultPositionBound = 2.0
)

type ChargeConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
	// Q is the signed magnitude in microcoulombs, the unit users think in.
	Q float64 `yaml:"q_uc"`
}

type ProbeConfig struct {
	Enabled bool    `yaml:"enabled"`
	Q       float64 `yaml:"q_uc"`
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
	Z       float64 `yaml:"z"`
}

type TraceConfig struct {
	Interval float64 `yaml:"interval"`
	Points   int     `yaml:"points"`
	Tol      float64 `yaml:"tolerance"`
	Vanish   float64 `yaml:"vanish"`
}

type Config struct {
	Charges []ChargeConfig `yaml:"charges"`
	Probe   ProbeConfig    `yaml:"probe"`

	SeedPolicy string  `yaml:"seed_policy"`
	LineCount  int     `yaml:"line_count"`
	LinesPer   int     `yaml:"lines_per_charge"`
	SeedRadius float64 `yaml:"seed_radius"`
	Seed       int64   `yaml:"seed"`

	GridHalf   float64 `yaml:"grid_half"`
	GridRes    int     `yaml:"grid_res"`
	GridStride int     `yaml:"grid_stride"`

	EnergyHalf float64 `yaml:"energy_half"`
	EnergyRes  int     `yaml:"energy_res"`

	GuardRadius   float64 `yaml:"guard_radius"`
	PositionBound float64 `yaml:"position_bound"`
	VectorScale   float64 `yaml:"vector_scale"`

	Trace TraceConfig `yaml:"trace"`
}

func DefaultConfig() *Config {
	return &Config{
		Charges: []ChargeConfig{
			{X: -0.5, Q: 1.0},
			{X: 0.5, Q: -1.0},
		},
		SeedPolicy:    string(scene.SeedSphere),
		LineCount:     DefaultLineCount,
		LinesPer:      DefaultLinesPer,
		SeedRadius:    DefaultSeedRadius,
		GridHalf:      DefaultGridHalf,
		GridRes:       DefaultGridRes,
		GridStride:    DefaultGridStride,
		EnergyHalf:    DefaultEnergyHalf,
		EnergyRes:     DefaultEnergyRes,
		GuardRadius:   field.DefaultGuardRadius,
		PositionBound: DefaultPositionBound,
		VectorScale:   0.3,
		Trace: TraceConfig{
			Interval: DefaultInterval,
			Points:   DefaultLinePoints,
			Tol:      DefaultTolerance,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Scene converts the config into the explicit scene value passed to the
// core. Out-of-range parameters fall back to defaults rather than failing.
func (c *Config) Scene() scene.Scene {
	p := scene.Defaults()

	if c.GuardRadius > 0 {
		p.GuardRadius = c.GuardRadius
	}
	if c.SeedPolicy == string(scene.SeedUniform) {
		p.SeedPolicy = scene.SeedUniform
	}
	if c.LineCount > 0 {
		p.LineCount = c.LineCount
	}
	if c.LinesPer > 0 {
		p.SeedsPerCharge = c.LinesPer
	}
	if c.SeedRadius > 0 {
		p.SeedRadius = c.SeedRadius
	}
	p.Seed = c.Seed
	if c.GridHalf > 0 {
		p.GridHalf = c.GridHalf
	}
	if c.GridRes > 0 {
		p.GridRes = c.GridRes
	}
	if c.GridStride > 0 {
		p.GridStride = c.GridStride
	}
	if c.EnergyHalf > 0 {
		p.EnergyHalf = c.EnergyHalf
	}
	if c.EnergyRes > 0 {
		p.EnergyRes = c.EnergyRes
	}
	if c.PositionBound > 0 {
		p.PositionBound = c.PositionBound
	}
	if c.Trace.Interval > 0 {
		p.Trace.Interval = c.Trace.Interval
	}
	if c.Trace.Points > 0 {
		p.Trace.Points = c.Trace.Points
	}
	if c.Trace.Tol > 0 {
		p.Trace.Tol = c.Trace.Tol
	}
	if c.Trace.Vanish > 0 {
		p.Trace.Vanish = c.Trace.Vanish
	}

	s := scene.Scene{Params: p}
	for _, cc := range c.Charges {
		s.Charges = append(s.Charges, charge.Charge{
			Pos: vec.Vec3{X: cc.X, Y: cc.Y, Z: cc.Z},
			Q:   cc.Q * 1e-6,
		})
	}
	if c.Probe.Enabled {
		s.Probe = &probe.Probe{
			Q:   c.Probe.Q * 1e-6,
			Pos: vec.Vec3{X: c.Probe.X, Y: c.Probe.Y, Z: c.Probe.Z},
		}
	}
	return s
}
