package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
input: "USB Audio"
output: "Speakers"
latency_ms: 20
geometry:
  left_speaker: [-0.5, 1.2]
  right_speaker: [0.5, 1.2]
  left_ear: [-0.09, 0.0]
  right_ear: [0.09, 0.0]
tuning:
  attenuation: 0.7
  wet_dry: 0.9
  temperature_c: 24
`))
	require.NoError(t, err)

	assert.Equal(t, "USB Audio", cfg.Input)
	assert.Equal(t, 20, cfg.LatencyMS)
	assert.Equal(t, 0.7, cfg.Tuning.Attenuation)
	assert.Equal(t, 0.9, cfg.Tuning.WetDry)
	assert.Equal(t, 24.0, cfg.Tuning.TemperatureC)

	// Untouched keys keep their defaults.
	assert.Equal(t, 1.0, cfg.Tuning.MasterGain)
	assert.Equal(t, 250.0, cfg.Tuning.LowshelfCutoff)

	g := cfg.CTCGeometry()
	assert.Equal(t, -0.5, g.LeftSpeaker.X)
	assert.Equal(t, 1.2, g.LeftSpeaker.Y)
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "latency", yaml: "latency_ms: 0"},
		{name: "wet_dry high", yaml: "tuning: {wet_dry: 1.5}"},
		{name: "wet_dry negative", yaml: "tuning: {wet_dry: -0.1}"},
		{name: "attenuation", yaml: "tuning: {attenuation: -1}"},
		{name: "lowpass", yaml: "tuning: {lowpass_cutoff_min: 0}"},
		{name: "nan", yaml: "tuning: {temperature_c: .nan}"},
		{name: "syntax", yaml: "latency_ms: [not a number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}
