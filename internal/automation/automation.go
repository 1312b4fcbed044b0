// Package automation runs scripted sequences of charge configurations,
// saving each step's result to the store.
package automation

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lmarques/efield/internal/config"
	"github.com/lmarques/efield/internal/scene"
	"github.com/lmarques/efield/internal/store"
)

// Scenario is a named sequence of scene configurations.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one configuration in the sequence. Preset and Config
// are alternatives; inline charges override both.
type ScenarioStep struct {
	Label   string                `yaml:"label"`
	Preset  string                `yaml:"preset"`
	Charges []config.ChargeConfig `yaml:"charges"`
	Seed    int64                 `yaml:"seed"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &scenario, nil
}

// StepResult pairs a computed step with its saved run ID.
type StepResult struct {
	Label  string
	RunID  string
	Result scene.Result
}

// RunScenario executes every step in order. A failing save aborts the
// scenario; results computed so far come back with the error.
func RunScenario(ctx context.Context, scenario *Scenario, st *store.Store) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		cfg := config.DefaultConfig()
		if step.Preset != "" {
			p := config.GetPreset(step.Preset)
			if p == nil {
				return results, fmt.Errorf("step %d: unknown preset %q", i+1, step.Preset)
			}
			cfg = p
		}
		if len(step.Charges) > 0 {
			cfg.Charges = step.Charges
		}
		cfg.Seed = step.Seed

		s := cfg.Scene()
		res := scene.Compute(ctx, s)

		runID, err := st.Save(cfg.Seed, s.Params.GuardRadius, len(s.Charges), res)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		label := step.Label
		if label == "" {
			label = fmt.Sprintf("step %d", i+1)
		}
		results = append(results, StepResult{Label: label, RunID: runID, Result: res})
	}

	return results, nil
}
