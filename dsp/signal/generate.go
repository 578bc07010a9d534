package signal

import (
	"fmt"
	"math"
	"math/rand"
)

const defaultSeed int64 = 1

// Generator creates deterministic test signals at a fixed sample rate.
type Generator struct {
	sampleRate float64
	seed       int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a signal generator for the given sample rate.
func NewGenerator(sampleRate float64, opts ...Option) (*Generator, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("signal: sample rate must be > 0 and finite: %v", sampleRate)
	}

	g := &Generator{
		sampleRate: sampleRate,
		seed:       defaultSeed,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}

	return g, nil
}

// SampleRate returns the generator sample rate in Hz.
func (g *Generator) SampleRate() float64 {
	return g.sampleRate
}

// Sine generates a sine wave.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	if freqHz <= 0 || freqHz >= g.sampleRate/2 {
		return nil, fmt.Errorf("signal: frequency must be in (0, sampleRate/2): %v", freqHz)
	}

	if samples <= 0 {
		return nil, fmt.Errorf("signal: sample count must be > 0: %d", samples)
	}

	out := make([]float64, samples)
	w := 2 * math.Pi * freqHz / g.sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(w*float64(i))
	}

	return out, nil
}

// Impulse generates a Kronecker delta of the given amplitude followed
// by silence.
func (g *Generator) Impulse(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("signal: sample count must be > 0: %d", samples)
	}

	out := make([]float64, samples)
	out[0] = amplitude

	return out, nil
}

// Silence generates all-zero samples.
func (g *Generator) Silence(samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("signal: sample count must be > 0: %d", samples)
	}

	return make([]float64, samples), nil
}

// WhiteNoise generates uniform white noise in [-amplitude, amplitude]
// from the configured seed.
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("signal: sample count must be > 0: %d", samples)
	}

	rng := rand.New(rand.NewSource(g.seed))

	out := make([]float64, samples)
	for i := range out {
		out[i] = amplitude * (2*rng.Float64() - 1)
	}

	return out, nil
}
