package ctc

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-ctc/dsp/core"
	"github.com/cwbudde/algo-ctc/dsp/delay"
	"github.com/cwbudde/algo-ctc/dsp/filter/biquad"
	"github.com/cwbudde/algo-ctc/dsp/filter/design"
	"github.com/cwbudde/algo-ctc/dsp/phase"
)

// Sample-rate bounds accepted by the engine.
const (
	MinSampleRate = 8000.0
	MaxSampleRate = 192000.0
)

// Engine is the stereo crosstalk cancellation core.
//
// Per channel it holds a quadrature phase network, a delay line for the
// cancellation tap, a head-shadow lowpass, a DC-blocking highpass on the
// feedback write, a low-shelf trim and a delay line for main-output
// alignment. The cancellation is recursive: each output subtracts a
// delayed, shadow-filtered image of the opposite channel's quadrature
// feed. Reading the cancellation tap before writing the current feedback
// sample gives the one-sample break that keeps the loop well posed.
//
// All internal math is float64; the stream interface is float32.
type Engine struct {
	sampleRate float64

	phaseL *phase.Network
	phaseR *phase.Network

	ring90L   *delay.Line
	ring90R   *delay.Line
	ringMainL *delay.Line
	ringMainR *delay.Line

	shadowL  *biquad.Section
	shadowR  *biquad.Section
	dcBlockL *biquad.Section
	dcBlockR *biquad.Section
	shelfL   *biquad.Section
	shelfR   *biquad.Section

	ctDelayL   float64
	ctDelayR   float64
	mainDelayL float64
	mainDelayR float64

	softClip bool
}

// New creates an engine for the given sample rate. Options carry the
// geometry-derived delays and cutoffs; see [Params.Options] for feeding
// a mapped geometry directly. Invalid configuration is reported here and
// the engine is not created; once constructed, ProcessStereo is total
// for all finite inputs.
func New(sampleRate float64, opts ...Option) (*Engine, error) {
	if math.IsNaN(sampleRate) || sampleRate < MinSampleRate || sampleRate > MaxSampleRate {
		return nil, fmt.Errorf("ctc: sample rate must be in [%g, %g]: %v", MinSampleRate, MaxSampleRate, sampleRate)
	}

	cfg := defaultConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.validate(sampleRate); err != nil {
		return nil, err
	}

	e := &Engine{
		sampleRate: sampleRate,
		ctDelayL:   cfg.ctDelays[0],
		ctDelayR:   cfg.ctDelays[1],
		mainDelayL: cfg.mainDelays[0],
		mainDelayR: cfg.mainDelays[1],
		softClip:   cfg.softClip,
	}

	var err error

	if e.phaseL, err = phase.New(sampleRate); err != nil {
		return nil, err
	}
	if e.phaseR, err = phase.New(sampleRate); err != nil {
		return nil, err
	}

	for _, ring := range []**delay.Line{&e.ring90L, &e.ring90R, &e.ringMainL, &e.ringMainR} {
		if *ring, err = delay.New(delay.DefaultSize); err != nil {
			return nil, err
		}
	}

	e.shadowL = biquad.NewSection(design.Lowpass(cfg.lpCutoffs[0], sampleRate))
	e.shadowR = biquad.NewSection(design.Lowpass(cfg.lpCutoffs[1], sampleRate))
	e.dcBlockL = biquad.NewSection(design.Highpass(cfg.hpCutoff, sampleRate))
	e.dcBlockR = biquad.NewSection(design.Highpass(cfg.hpCutoff, sampleRate))
	e.shelfL = biquad.NewSection(design.LowShelf(cfg.lsCutoff, cfg.lsGainDB, sampleRate))
	e.shelfR = biquad.NewSection(design.LowShelf(cfg.lsCutoff, cfg.lsGainDB, sampleRate))

	return e, nil
}

// ProcessStereo processes one stereo sample pair.
//
// attenuation scales the cancellation feed; amp holds the four
// geometric amplitude factors in path order LL, LR, RL, RR. The pointer
// keeps the hot path free of per-sample copies; callers must not mutate
// it concurrently. Outputs are clamped to [-1, 1].
func (e *Engine) ProcessStereo(left, right float32, attenuation float64, amp *[4]float64) (float32, float32) {
	l := float64(left)
	r := float64(right)

	// Direct-path phase reference.
	l0 := e.phaseL.ProcessA(l)
	r0 := e.phaseR.ProcessA(r)

	// Cancellation taps from the previous iterations' feedback, through
	// the head-shadow lowpass. Read strictly before the write below.
	cl := e.shadowL.ProcessSample(e.ring90L.ReadFractional(e.ctDelayL))
	cr := e.shadowR.ProcessSample(e.ring90R.ReadFractional(e.ctDelayR))

	resL := l0*amp[0] - cr*attenuation*amp[2]
	resR := r0*amp[3] - cl*attenuation*amp[1]

	outL := e.shelfL.ProcessSample(resL)
	outR := e.shelfR.ProcessSample(resR)

	if e.softClip {
		outL = core.SoftClip(outL)
		outR = core.SoftClip(outR)
	}

	// Main-output alignment. The rings are written first, so the read
	// delay is offset by the one slot the write pointer just advanced.
	e.ringMainL.Write(outL)
	e.ringMainR.Write(outR)
	yl := e.ringMainL.ReadFractional(e.mainDelayL + 1)
	yr := e.ringMainR.ReadFractional(e.mainDelayR + 1)

	// Next iteration's cancellation feedback from the raw inputs via the
	// quadrature chain, DC-blocked to keep the loop from accumulating
	// offset.
	e.ring90L.Write(e.dcBlockL.ProcessSample(e.phaseL.ProcessB(l)))
	e.ring90R.Write(e.dcBlockR.ProcessSample(e.phaseR.ProcessB(r)))

	return float32(core.Clamp(yl, -1, 1)), float32(core.Clamp(yr, -1, 1))
}

// Reset clears all filter and delay-line state.
func (e *Engine) Reset() {
	e.phaseL.Reset()
	e.phaseR.Reset()

	for _, ring := range []*delay.Line{e.ring90L, e.ring90R, e.ringMainL, e.ringMainR} {
		ring.Reset()
	}

	for _, s := range []*biquad.Section{e.shadowL, e.shadowR, e.dcBlockL, e.dcBlockR, e.shelfL, e.shelfR} {
		s.Reset()
	}
}

// SampleRate returns the configured sample rate in Hz.
func (e *Engine) SampleRate() float64 { return e.sampleRate }

// CrossTalkDelays returns the configured cancellation-path delays in
// frames.
func (e *Engine) CrossTalkDelays() [2]float64 {
	return [2]float64{e.ctDelayL, e.ctDelayR}
}

// MainDelays returns the configured main-output alignment delays in
// frames.
func (e *Engine) MainDelays() [2]float64 {
	return [2]float64{e.mainDelayL, e.mainDelayR}
}
