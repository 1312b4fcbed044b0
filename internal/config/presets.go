package config

import "github.com/lmarques/efield/internal/field"

// Presets are canonical charge arrangements. The "smooth" variants carry
// the coarse 0.05 m guard used when visual smoothing near charges matters
// more than exactness; everything else uses the exact default.
var Presets = map[string]*Config{
	"single": {
		Charges: []ChargeConfig{{Q: 2.0}},
	},
	"dipole": {
		Charges: []ChargeConfig{
			{X: -0.5, Q: 1.0},
			{X: 0.5, Q: -1.0},
		},
	},
	"like-pair": {
		Charges: []ChargeConfig{
			{X: -1.0, Q: 2.0},
			{X: 1.0, Q: 2.0},
		},
	},
	"quadrupole": {
		Charges: []ChargeConfig{
			{X: -1.0, Y: -1.0, Q: 1.0},
			{X: 1.0, Y: -1.0, Q: -1.0},
			{X: 1.0, Y: 1.0, Q: 1.0},
			{X: -1.0, Y: 1.0, Q: -1.0},
		},
	},
	"dipole-smooth": {
		Charges: []ChargeConfig{
			{X: -1.5, Q: 2.0},
			{X: 1.5, Q: -2.0},
		},
		GuardRadius: field.CoarseGuardRadius,
		GridHalf:    3,
		GridRes:     6,
		EnergyRes:   8,
		Trace: TraceConfig{
			Interval: 8,
			Points:   50,
			Vanish:   1e-6,
		},
	},
}

func GetPreset(name string) *Config {
	base, ok := Presets[name]
	if !ok {
		return nil
	}

	// Merge over defaults so presets only spell out what they change.
	cfg := DefaultConfig()
	cfg.Charges = base.Charges
	if base.GuardRadius > 0 {
		cfg.GuardRadius = base.GuardRadius
	}
	if base.GridHalf > 0 {
		cfg.GridHalf = base.GridHalf
	}
	if base.GridRes > 0 {
		cfg.GridRes = base.GridRes
	}
	if base.EnergyRes > 0 {
		cfg.EnergyRes = base.EnergyRes
	}
	if base.Trace.Interval > 0 {
		cfg.Trace.Interval = base.Trace.Interval
	}
	if base.Trace.Points > 0 {
		cfg.Trace.Points = base.Trace.Points
	}
	if base.Trace.Vanish > 0 {
		cfg.Trace.Vanish = base.Trace.Vanish
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
