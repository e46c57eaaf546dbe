package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ScenarioConfig overrides the numeric parameters of a canonical example
// scenario (S1-S6). Any zero field is left at the scenario's built-in
// default.
type ScenarioConfig struct {
	ClockMHz       float64 `yaml:"clock_mhz"`
	StoreCapacity  int     `yaml:"store_capacity"`
	DelayTicks     int64   `yaml:"delay_ticks"`
	BitsPerTick    float64 `yaml:"bits_per_tick"`
	FcBufferSize   int     `yaml:"fc_buffer_size"`
	FcForwardTicks int64   `yaml:"fc_forward_ticks"`
	FcCreditTicks  int64   `yaml:"fc_credit_ticks"`
	NumItems       int     `yaml:"num_items"`
	Seed           int64   `yaml:"seed"`
}

// LoadScenarioConfig reads and parses a ScenarioConfig from path.
func LoadScenarioConfig(path string) (*ScenarioConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario config: %w", err)
	}
	var cfg ScenarioConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("scenario config: %w", err)
	}
	return &cfg, nil
}
