package audio

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/cwbudde/algo-vecmath"
	"github.com/gordonklaus/portaudio"

	"github.com/cwbudde/algo-ctc/dsp/ctc"
	"github.com/cwbudde/algo-ctc/internal/config"
	"github.com/cwbudde/algo-ctc/internal/ring"
)

const (
	channels        = 2
	framesPerBuffer = 256
)

// Duplex runs the capture -> ring -> engine -> playback path. The
// capture callback produces into the ring; the playback callback pulls
// frames, applies master gain, runs the engine and mixes wet against
// dry. All per-sample state lives on the playback thread.
type Duplex struct {
	in  *portaudio.Stream
	out *portaudio.Stream

	rb     *ring.Buffer
	engine *ctc.Engine

	amp         [4]float64
	attenuation float64
	masterGain  float64
	wet         float64

	// Scratch for the block wet/dry mix; sized once at start.
	dry    []float64
	wetBuf []float64

	latency time.Duration
	abort   atomic.Bool
	logger  *log.Logger
}

// Start builds the engine from the configuration, opens both streams
// and begins processing. The returned Duplex keeps running until Run
// observes an abort or its context ends.
func Start(cfg *config.Config, logger *log.Logger) (*Duplex, error) {
	input, err := FindInput(cfg.Input)
	if err != nil {
		return nil, err
	}

	output, err := FindOutput(cfg.Output)
	if err != nil {
		return nil, err
	}

	sampleRate := input.DefaultSampleRate

	params, err := ctc.MapGeometry(cfg.CTCGeometry(), sampleRate, cfg.Tuning.TemperatureC, cfg.Tuning.LowpassCutoffMin)
	if err != nil {
		return nil, err
	}

	opts := append(params.Options(),
		ctc.WithDCBlockCutoff(cfg.Tuning.HighpassCutoff),
		ctc.WithShelf(cfg.Tuning.LowshelfCutoff, cfg.Tuning.LowshelfGainDB),
	)

	engine, err := ctc.New(sampleRate, opts...)
	if err != nil {
		return nil, err
	}

	rb, err := ring.New(cfg.LatencyMS * int(sampleRate) * channels / 1000)
	if err != nil {
		return nil, fmt.Errorf("audio: latency %d ms: %w", cfg.LatencyMS, err)
	}

	d := &Duplex{
		rb:          rb,
		engine:      engine,
		amp:         params.AmpFactors,
		attenuation: cfg.Tuning.Attenuation,
		masterGain:  cfg.Tuning.MasterGain,
		wet:         cfg.Tuning.WetDry,
		dry:         make([]float64, framesPerBuffer*channels),
		wetBuf:      make([]float64, framesPerBuffer*channels),
		latency:     time.Duration(cfg.LatencyMS) * time.Millisecond,
		logger:      logger,
	}

	inParams := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   input,
			Channels: channels,
			Latency:  input.DefaultLowInputLatency,
		},
		SampleRate:      sampleRate,
		FramesPerBuffer: framesPerBuffer,
	}

	d.in, err = portaudio.OpenStream(inParams, d.captureCallback)
	if err != nil {
		return nil, fmt.Errorf("audio: opening input stream: %w", err)
	}

	outParams := portaudio.StreamParameters{
		Output: portaudio.StreamDeviceParameters{
			Device:   output,
			Channels: channels,
			Latency:  output.DefaultLowOutputLatency,
		},
		SampleRate:      sampleRate,
		FramesPerBuffer: framesPerBuffer,
	}

	d.out, err = portaudio.OpenStream(outParams, d.playbackCallback)
	if err != nil {
		d.in.Close()

		return nil, fmt.Errorf("audio: opening output stream: %w", err)
	}

	if err := d.in.Start(); err != nil {
		d.Close()

		return nil, fmt.Errorf("audio: starting input stream: %w", err)
	}

	if err := d.out.Start(); err != nil {
		d.Close()

		return nil, fmt.Errorf("audio: starting output stream: %w", err)
	}

	logger.Info("started streams",
		"input", input.Name,
		"output", output.Name,
		"sample_rate", sampleRate,
		"latency_ms", cfg.LatencyMS,
		"ct_delay_l", params.CrossTalkDelays[0],
		"ct_delay_r", params.CrossTalkDelays[1],
	)

	return d, nil
}

// captureCallback runs on the input-stream thread.
func (d *Duplex) captureCallback(in []float32) {
	for _, sample := range in {
		if !d.rb.Push(sample) {
			d.logger.Error("output stream fell behind; increase latency")
			d.abort.Store(true)

			return
		}
	}
}

// playbackCallback runs on the output-stream thread.
func (d *Duplex) playbackCallback(out []float32) {
	frames := len(out) / channels
	if frames > len(d.dry)/channels {
		frames = len(d.dry) / channels
	}

	n := frames * channels
	dry := d.dry[:n]
	wet := d.wetBuf[:n]

	for i := 0; i < frames; i++ {
		// Only take whole frames so an underflow cannot swap channels.
		if d.rb.Len() < channels {
			for j := i * channels; j < n; j++ {
				dry[j] = 0
				wet[j] = 0
			}

			break
		}

		l, _ := d.rb.Pop()
		r, _ := d.rb.Pop()

		inL := float32(float64(l) * d.masterGain)
		inR := float32(float64(r) * d.masterGain)
		outL, outR := d.engine.ProcessStereo(inL, inR, d.attenuation, &d.amp)

		dry[i*channels] = float64(inL)
		dry[i*channels+1] = float64(inR)
		wet[i*channels] = float64(outL)
		wet[i*channels+1] = float64(outR)
	}

	vecmath.ScaleBlockInPlace(wet, d.wet)
	vecmath.ScaleBlockInPlace(dry, 1-d.wet)
	vecmath.AddBlockInPlace(wet, dry)

	for i := range out {
		if i < n {
			out[i] = float32(wet[i])
		} else {
			out[i] = 0
		}
	}
}

// Run blocks until the context ends or a stream raises the abort flag,
// polling between buffer fills like the stream callbacks themselves.
func (d *Duplex) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.latency)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if d.abort.Load() {
				return fmt.Errorf("audio: stream aborted")
			}
		}
	}
}

// Abort asks the host loop to stop.
func (d *Duplex) Abort() {
	d.abort.Store(true)
}

// Close stops and releases both streams.
func (d *Duplex) Close() {
	if d.out != nil {
		d.out.Stop()
		d.out.Close()
	}

	if d.in != nil {
		d.in.Stop()
		d.in.Close()
	}
}
