// Package config loads optional run configuration from a YAML file. Every
// field has a safe default so the tools run without any config at all.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// LeapSeconds is the GPS-minus-UTC offset added to instrument clocks
	// so their instants live on the same timescale as the receiver track.
	// 18 s since 2017; recheck when the next leap second is scheduled.
	LeapSeconds int `yaml:"leap_seconds"`

	// OutputSuffix is appended to the metadata workbook's name for the
	// corrected copy (records.xlsx -> records_improved.xlsx).
	OutputSuffix string `yaml:"output_suffix"`

	// Sheet names the workbook sheet holding the SMP measurement records.
	// Empty means the first sheet.
	Sheet string `yaml:"sheet"`
}

func Default() Config {
	return Config{
		LeapSeconds:  18,
		OutputSuffix: "_improved",
	}
}

// Load reads path and overlays it on the defaults. An empty path means "no
// config file": the defaults are returned as-is.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}

	if cfg.LeapSeconds < 0 {
		return Config{}, fmt.Errorf("config %s: leap_seconds must be >= 0", path)
	}
	if cfg.OutputSuffix == "" {
		cfg.OutputSuffix = Default().OutputSuffix
	}
	return cfg, nil
}
