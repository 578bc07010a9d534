// Package config loads and validates the control-surface parameters:
// device selection, latency, listener geometry and engine tuning.
package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-ctc/dsp/ctc"
)

// Point is a 2-D position in meters, serialized as [x, y].
type Point [2]float64

// Geometry holds the listener/speaker layout.
type Geometry struct {
	LeftSpeaker  Point `yaml:"left_speaker"`
	RightSpeaker Point `yaml:"right_speaker"`
	LeftEar      Point `yaml:"left_ear"`
	RightEar     Point `yaml:"right_ear"`
}

// Tuning holds the engine tuning parameters.
type Tuning struct {
	MasterGain       float64 `yaml:"master_gain"`
	Attenuation      float64 `yaml:"attenuation"`
	LowpassCutoffMin float64 `yaml:"lowpass_cutoff_min"`
	HighpassCutoff   float64 `yaml:"highpass_cutoff"`
	LowshelfCutoff   float64 `yaml:"lowshelf_cutoff"`
	LowshelfGainDB   float64 `yaml:"lowshelf_gain_db"`
	WetDry           float64 `yaml:"wet_dry"`
	TemperatureC     float64 `yaml:"temperature_c"`
}

// Config is the full control surface delivered to the host.
type Config struct {
	Input     string   `yaml:"input"`
	Output    string   `yaml:"output"`
	LatencyMS int      `yaml:"latency_ms"`
	Geometry  Geometry `yaml:"geometry"`
	Tuning    Tuning   `yaml:"tuning"`
}

// Default returns a configuration with the default devices, 50 ms of
// latency and a symmetric near-field layout.
func Default() *Config {
	return &Config{
		LatencyMS: 50,
		Geometry: Geometry{
			LeftSpeaker:  Point{-0.3, 1.0},
			RightSpeaker: Point{0.3, 1.0},
			LeftEar:      Point{-0.1, 0.0},
			RightEar:     Point{0.1, 0.0},
		},
		Tuning: Tuning{
			MasterGain:       1.0,
			Attenuation:      0.85,
			LowpassCutoffMin: 800,
			HighpassCutoff:   20,
			LowshelfCutoff:   250,
			LowshelfGainDB:   3,
			WetDry:           1.0,
			TemperatureC:     20,
		},
	}
}

// Load reads and validates a YAML configuration file. Missing keys keep
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return Parse(data)
}

// Parse decodes and validates YAML configuration bytes over the
// defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks ranges the host and engine rely on.
func (c *Config) Validate() error {
	if c.LatencyMS < 1 {
		return fmt.Errorf("config: latency_ms must be >= 1: %d", c.LatencyMS)
	}

	for name, v := range map[string]float64{
		"master_gain":        c.Tuning.MasterGain,
		"attenuation":        c.Tuning.Attenuation,
		"lowpass_cutoff_min": c.Tuning.LowpassCutoffMin,
		"highpass_cutoff":    c.Tuning.HighpassCutoff,
		"lowshelf_cutoff":    c.Tuning.LowshelfCutoff,
		"lowshelf_gain_db":   c.Tuning.LowshelfGainDB,
		"wet_dry":            c.Tuning.WetDry,
		"temperature_c":      c.Tuning.TemperatureC,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("config: %s must be finite: %v", name, v)
		}
	}

	if c.Tuning.WetDry < 0 || c.Tuning.WetDry > 1 {
		return fmt.Errorf("config: wet_dry must be in [0, 1]: %v", c.Tuning.WetDry)
	}

	if c.Tuning.Attenuation < 0 {
		return fmt.Errorf("config: attenuation must be >= 0: %v", c.Tuning.Attenuation)
	}

	for name, fc := range map[string]float64{
		"lowpass_cutoff_min": c.Tuning.LowpassCutoffMin,
		"highpass_cutoff":    c.Tuning.HighpassCutoff,
		"lowshelf_cutoff":    c.Tuning.LowshelfCutoff,
	} {
		if fc <= 0 {
			return fmt.Errorf("config: %s must be > 0: %v", name, fc)
		}
	}

	return nil
}

// CTCGeometry converts the serialized layout into the mapper's type.
func (c *Config) CTCGeometry() ctc.Geometry {
	point := func(p Point) ctc.Point {
		return ctc.Point{X: p[0], Y: p[1]}
	}

	return ctc.Geometry{
		LeftSpeaker:  point(c.Geometry.LeftSpeaker),
		RightSpeaker: point(c.Geometry.RightSpeaker),
		LeftEar:      point(c.Geometry.LeftEar),
		RightEar:     point(c.Geometry.RightEar),
	}
}
