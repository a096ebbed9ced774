// Package scenario loads the YAML playback scenarios fed to the runner.
package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/simwheel/ffbtrace/internal/effect"
)

// Step is one scenario entry. Timing lives inside the effect itself
// (duration, start delay); steps have no extra delay of their own.
type Step struct {
	Effect effect.Effect `yaml:"effect"`
}

// Scenario is a named, ordered sequence of effects with repeat controls.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	LoopForever bool   `yaml:"loop_forever"`
	RepeatCount uint32 `yaml:"repeat_count"`
	Steps       []Step `yaml:"steps"`
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}

	s := &Scenario{RepeatCount: 1}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing scenario %s: %w", path, err)
	}
	if s.Name == "" {
		return nil, fmt.Errorf("scenario %s has no name", path)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", s.Name)
	}
	return s, nil
}
