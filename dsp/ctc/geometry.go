package ctc

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-ctc/dsp/core"
)

// Physical constants for the speed-of-sound model: heat capacity ratio
// of dry air, molar gas constant, molar mass of dry air and the Kelvin
// offset of 0 degrees Celsius.
const (
	adiabaticIndex = 1.403
	gasConstant    = 8.314462 // J/(mol*K)
	molarMassAir   = 0.028966 // kg/mol
	zeroCelsiusK   = 273.15
)

// shadowCutoffMax is the head-shadow lowpass cutoff for a frontally
// aligned speaker; lateral speakers fall toward the configured minimum.
const shadowCutoffMax = 5000.0

// ampExponent shapes the distance-ratio amplitude normalization.
const ampExponent = 1.2

// Point is a 2-D position in meters.
type Point struct {
	X float64
	Y float64
}

// Distance returns the Euclidean distance to other.
func (p Point) Distance(other Point) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

func (p Point) finite() bool {
	return core.IsFinite(p.X) && core.IsFinite(p.Y)
}

// Geometry holds the listener/speaker layout. The Y axis points from
// the listener toward the speakers.
type Geometry struct {
	LeftSpeaker  Point
	RightSpeaker Point
	LeftEar      Point
	RightEar     Point
}

// Distances returns the four speaker-to-ear path lengths in meters, in
// path order LL, LR, RL, RR (speaker, ear).
func (g Geometry) Distances() [4]float64 {
	return [4]float64{
		g.LeftSpeaker.Distance(g.LeftEar),
		g.LeftSpeaker.Distance(g.RightEar),
		g.RightSpeaker.Distance(g.LeftEar),
		g.RightSpeaker.Distance(g.RightEar),
	}
}

func (g Geometry) validate() error {
	for name, p := range map[string]Point{
		"left speaker":  g.LeftSpeaker,
		"right speaker": g.RightSpeaker,
		"left ear":      g.LeftEar,
		"right ear":     g.RightEar,
	} {
		if !p.finite() {
			return fmt.Errorf("ctc: %s position must be finite: (%v, %v)", name, p.X, p.Y)
		}
	}

	for _, d := range g.Distances() {
		if d == 0 {
			return fmt.Errorf("ctc: speaker and ear positions must not coincide")
		}
	}

	return nil
}

// Params holds the geometry-derived engine parameters.
type Params struct {
	// CrossTalkDelays are the cancellation-path delays in frames, left
	// and right.
	CrossTalkDelays [2]float64
	// MainDelays align the two direct paths in frames; at least one is
	// always zero.
	MainDelays [2]float64
	// ShadowCutoffs are the per-speaker head-shadow lowpass cutoffs
	// in Hz.
	ShadowCutoffs [2]float64
	// AmpFactors are the per-path amplitude factors in path order LL,
	// LR, RL, RR; the shortest path sits at exactly 1.
	AmpFactors [4]float64
}

// Options returns the engine options carrying these parameters.
func (p Params) Options() []Option {
	return []Option{
		WithCrossTalkDelays(p.CrossTalkDelays[0], p.CrossTalkDelays[1]),
		WithMainDelays(p.MainDelays[0], p.MainDelays[1]),
		WithShadowCutoffs(p.ShadowCutoffs[0], p.ShadowCutoffs[1]),
	}
}

// SpeedOfSound returns the propagation speed in m/s for dry air at the
// given temperature in degrees Celsius.
func SpeedOfSound(temperatureC float64) float64 {
	tK := zeroCelsiusK + temperatureC

	return math.Sqrt(adiabaticIndex * gasConstant * tK / molarMassAir)
}

// MapGeometry converts the listener/speaker layout, air temperature and
// minimum shadow cutoff into the delays, amplitude factors and cutoffs
// the engine consumes. It is stateless; run it once per
// reconfiguration.
func MapGeometry(g Geometry, sampleRate, temperatureC, shadowCutoffMin float64) (Params, error) {
	if err := g.validate(); err != nil {
		return Params{}, err
	}

	if math.IsNaN(sampleRate) || sampleRate < MinSampleRate || sampleRate > MaxSampleRate {
		return Params{}, fmt.Errorf("ctc: sample rate must be in [%g, %g]: %v", MinSampleRate, MaxSampleRate, sampleRate)
	}

	if !core.IsFinite(temperatureC) || temperatureC <= -zeroCelsiusK {
		return Params{}, fmt.Errorf("ctc: temperature must be finite and above absolute zero: %v", temperatureC)
	}

	if !core.IsFinite(shadowCutoffMin) || shadowCutoffMin <= 0 || shadowCutoffMin > shadowCutoffMax {
		return Params{}, fmt.Errorf("ctc: shadow cutoff minimum must be in (0, %g]: %v", shadowCutoffMax, shadowCutoffMin)
	}

	distances := g.Distances()

	// Frames per meter at this temperature.
	k := sampleRate / SpeedOfSound(temperatureC)

	var frames [4]float64
	for i, d := range distances {
		frames[i] = d * k
	}

	var p Params

	// Align the direct paths so the later-arriving ear is not delayed
	// further.
	if frames[0] > frames[3] {
		p.MainDelays = [2]float64{0, frames[0] - frames[3]}
	} else {
		p.MainDelays = [2]float64{frames[3] - frames[0], 0}
	}

	// A floor of one frame keeps the cancellation tap behind the write.
	p.CrossTalkDelays = [2]float64{
		math.Max(1, math.Abs(frames[2]-frames[0])),
		math.Max(1, math.Abs(frames[1]-frames[3])),
	}

	for _, d := range p.CrossTalkDelays {
		if d > maxCrossTalkDelay {
			return Params{}, fmt.Errorf("ctc: cross-talk delay %g frames exceeds ring length", d)
		}
	}

	for _, d := range p.MainDelays {
		if d > maxMainDelay {
			return Params{}, fmt.Errorf("ctc: main delay %g frames exceeds ring length", d)
		}
	}

	minDistance := distances[0]
	for _, d := range distances[1:] {
		minDistance = math.Min(minDistance, d)
	}

	for i, d := range distances {
		p.AmpFactors[i] = math.Pow(minDistance/d, ampExponent)
	}

	// The azimuth reference is the ear-coordinate sum, not the midpoint;
	// the doubled vector shifts the reference forward and is part of the
	// tuning contract.
	mid := Point{X: g.LeftEar.X + g.RightEar.X, Y: g.LeftEar.Y + g.RightEar.Y}
	p.ShadowCutoffs = [2]float64{
		shadowCutoff(mid, g.LeftSpeaker, shadowCutoffMin),
		shadowCutoff(mid, g.RightSpeaker, shadowCutoffMin),
	}

	return p, nil
}

func shadowCutoff(reference, speaker Point, cutoffMin float64) float64 {
	// cos^2 of the azimuth |atan2(dy, dx)|, computed as dx^2/(dx^2+dy^2)
	// so that mirrored speakers give bit-identical cutoffs.
	dx := reference.X - speaker.X
	dy := reference.Y - speaker.Y

	c2 := 1.0
	if r2 := dx*dx + dy*dy; r2 > 0 {
		c2 = dx * dx / r2
	}

	return cutoffMin + (shadowCutoffMax-cutoffMin)*c2
}
