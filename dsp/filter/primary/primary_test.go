package primary

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-ctc/internal/testutil"
)

func TestConstructorValidation(t *testing.T) {
	if _, err := NewAllPass(math.NaN()); err == nil {
		t.Fatal("expected error for NaN coefficient")
	}

	if _, err := NewLowPass(0, 100); err == nil {
		t.Fatal("expected error for invalid sample rate")
	}

	if _, err := NewLowPass(48000, 0); err == nil {
		t.Fatal("expected error for zero cutoff")
	}

	if _, err := NewHighPass(48000, 24000); err == nil {
		t.Fatal("expected error for cutoff at Nyquist")
	}
}

func TestRCCoefficientMapping(t *testing.T) {
	const (
		fs = 48000.0
		fc = 1000.0
	)

	rc := 1 / (2 * math.Pi * fc)
	dt := 1 / fs

	lp, err := NewLowPass(fs, fc)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := lp.Alpha(), dt/(rc+dt); math.Abs(got-want) > 1e-15 {
		t.Fatalf("lowpass alpha = %v, want %v", got, want)
	}

	hp, err := NewHighPass(fs, fc)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := hp.Alpha(), rc/(rc+dt); math.Abs(got-want) > 1e-15 {
		t.Fatalf("highpass alpha = %v, want %v", got, want)
	}

	if lp.Kind() != LowPass || hp.Kind() != HighPass {
		t.Fatal("kind mismatch")
	}
}

func TestAllPassUnitMagnitude(t *testing.T) {
	const fs = 48000.0

	for _, alpha := range []float64{-0.9, -0.5, 0, 0.3, 0.7, 0.984} {
		f, err := NewAllPass(alpha)
		if err != nil {
			t.Fatal(err)
		}

		const (
			freq      = 1000.0
			transient = 4096
			cycles    = 200
		)
		period := int(fs / freq)
		n := cycles * period

		out := make([]float64, n)
		w := 2 * math.Pi * freq / fs
		for i := 0; i < transient+n; i++ {
			y := f.ProcessSample(math.Sin(w * float64(i)))
			if i >= transient {
				out[i-transient] = y
			}
		}

		// The correlation window starts at sample `transient`, so measure
		// against the phase-continued reference implicitly: an all-pass
		// output is a pure sinusoid of the same frequency, and quadrature
		// correlation is phase-invariant.
		got := testutil.ToneAmplitude(out, freq, fs)
		if math.Abs(got-1) > 1e-6 {
			t.Fatalf("alpha=%v: magnitude = %v, want 1 within 1e-6", alpha, got)
		}
	}
}

func TestBoundedOverLongRun(t *testing.T) {
	lp, err := NewLowPass(48000, 200)
	if err != nil {
		t.Fatal(err)
	}
	hp, err := NewHighPass(48000, 20)
	if err != nil {
		t.Fatal(err)
	}
	ap, err := NewAllPass(0.99)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 1_000_000; i++ {
		x := math.Sin(0.01*float64(i)) * math.Cos(0.003*float64(i))
		for _, f := range []*Filter{lp, hp, ap} {
			y := f.ProcessSample(x)
			if math.IsNaN(y) || math.Abs(y) > 4 {
				t.Fatalf("unbounded output %v at sample %d", y, i)
			}
		}
	}
}

func TestLowPassTracksDC(t *testing.T) {
	lp, err := NewLowPass(48000, 500)
	if err != nil {
		t.Fatal(err)
	}

	var y float64
	for i := 0; i < 100_000; i++ {
		y = lp.ProcessSample(0.75)
	}
	if math.Abs(y-0.75) > 1e-4 {
		t.Fatalf("lowpass DC settle = %v, want 0.75", y)
	}
}

func TestHighPassRejectsDC(t *testing.T) {
	hp, err := NewHighPass(48000, 20)
	if err != nil {
		t.Fatal(err)
	}

	var y float64
	for i := 0; i < 200_000; i++ {
		y = hp.ProcessSample(0.5)
	}
	if math.Abs(y) > 1e-4 {
		t.Fatalf("highpass DC leak = %v, want ~0", y)
	}
}

func TestReset(t *testing.T) {
	ap, err := NewAllPass(0.5)
	if err != nil {
		t.Fatal(err)
	}

	ap.ProcessSample(1)
	ap.Reset()

	if got := ap.ProcessSample(0); got != 0 {
		t.Fatalf("after Reset: got %v, want 0", got)
	}
}
