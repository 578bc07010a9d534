package ctc

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-ctc/dsp/delay"
)

// Delay bounds in frames. The cancellation read happens before the
// write, so its minimum is one frame; the main-output read happens after
// the write, which costs one slot of headroom at the top.
const (
	minCrossTalkDelay = 1.0
	maxCrossTalkDelay = float64(delay.DefaultSize - 2)
	maxMainDelay      = float64(delay.DefaultSize - 3)
)

const (
	defaultLPCutoff = 5000.0
	defaultHPCutoff = 20.0
	defaultLSCutoff = 250.0
)

// Option mutates construction-time parameters.
type Option func(*config) error

type config struct {
	ctDelays   [2]float64
	mainDelays [2]float64
	lpCutoffs  [2]float64
	hpCutoff   float64
	lsCutoff   float64
	lsGainDB   float64
	softClip   bool
}

func defaultConfig() config {
	return config{
		ctDelays:  [2]float64{minCrossTalkDelay, minCrossTalkDelay},
		lpCutoffs: [2]float64{defaultLPCutoff, defaultLPCutoff},
		hpCutoff:  defaultHPCutoff,
		lsCutoff:  defaultLSCutoff,
	}
}

// WithCrossTalkDelays sets the cancellation-path delays in frames for
// the left and right rings. Each must be in [1, 510].
func WithCrossTalkDelays(left, right float64) Option {
	return func(cfg *config) error {
		for _, d := range []float64{left, right} {
			if math.IsNaN(d) || d < minCrossTalkDelay || d > maxCrossTalkDelay {
				return fmt.Errorf("ctc: cross-talk delay must be in [%g, %g] frames: %v",
					minCrossTalkDelay, maxCrossTalkDelay, d)
			}
		}

		cfg.ctDelays = [2]float64{left, right}

		return nil
	}
}

// WithMainDelays sets the main-output alignment delays in frames.
// Each must be in [0, 509].
func WithMainDelays(left, right float64) Option {
	return func(cfg *config) error {
		for _, d := range []float64{left, right} {
			if math.IsNaN(d) || d < 0 || d > maxMainDelay {
				return fmt.Errorf("ctc: main delay must be in [0, %g] frames: %v", maxMainDelay, d)
			}
		}

		cfg.mainDelays = [2]float64{left, right}

		return nil
	}
}

// WithShadowCutoffs sets the per-channel head-shadow lowpass cutoffs
// in Hz.
func WithShadowCutoffs(left, right float64) Option {
	return func(cfg *config) error {
		for _, fc := range []float64{left, right} {
			if math.IsNaN(fc) || math.IsInf(fc, 0) || fc <= 0 {
				return fmt.Errorf("ctc: shadow cutoff must be > 0 and finite: %v", fc)
			}
		}

		cfg.lpCutoffs = [2]float64{left, right}

		return nil
	}
}

// WithDCBlockCutoff sets the highpass cutoff in Hz applied to the
// cancellation feedback before it enters the rings.
func WithDCBlockCutoff(cutoff float64) Option {
	return func(cfg *config) error {
		if math.IsNaN(cutoff) || math.IsInf(cutoff, 0) || cutoff <= 0 {
			return fmt.Errorf("ctc: DC-block cutoff must be > 0 and finite: %v", cutoff)
		}

		cfg.hpCutoff = cutoff

		return nil
	}
}

// WithShelf sets the low-shelf trim on the main output path.
func WithShelf(cutoff, gainDB float64) Option {
	return func(cfg *config) error {
		if math.IsNaN(cutoff) || math.IsInf(cutoff, 0) || cutoff <= 0 {
			return fmt.Errorf("ctc: shelf cutoff must be > 0 and finite: %v", cutoff)
		}

		if math.IsNaN(gainDB) || math.IsInf(gainDB, 0) {
			return fmt.Errorf("ctc: shelf gain must be finite: %v", gainDB)
		}

		cfg.lsCutoff = cutoff
		cfg.lsGainDB = gainDB

		return nil
	}
}

// WithSoftClip replaces the hard output clamp with the cubic saturator,
// applied before the main-delay write.
func WithSoftClip() Option {
	return func(cfg *config) error {
		cfg.softClip = true

		return nil
	}
}

// validate runs the cross-parameter checks that need the sample rate.
func (cfg *config) validate(sampleRate float64) error {
	nyquist := sampleRate / 2

	for name, fc := range map[string]float64{
		"shadow cutoff (left)":  cfg.lpCutoffs[0],
		"shadow cutoff (right)": cfg.lpCutoffs[1],
		"DC-block cutoff":       cfg.hpCutoff,
		"shelf cutoff":          cfg.lsCutoff,
	} {
		if fc >= nyquist {
			return fmt.Errorf("ctc: %s must be below Nyquist (%g): %g", name, nyquist, fc)
		}
	}

	return nil
}
