package design

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-ctc/dsp/filter/biquad"
)

// responseAt evaluates |H(e^jw)| for a normalized biquad.
func responseAt(c biquad.Coefficients, freq, sampleRate float64) float64 {
	w := 2 * math.Pi * freq / sampleRate
	z1 := cmplx.Exp(complex(0, -w))
	z2 := z1 * z1

	num := complex(c.B0, 0) + complex(c.B1, 0)*z1 + complex(c.B2, 0)*z2
	den := complex(1, 0) + complex(c.A1, 0)*z1 + complex(c.A2, 0)*z2

	return cmplx.Abs(num / den)
}

func TestLowpassDCGain(t *testing.T) {
	for _, fc := range []float64{20, 200, 1000, 5000, 20000} {
		c := Lowpass(fc, 48000)
		dc := (c.B0 + c.B1 + c.B2) / (1 + c.A1 + c.A2)
		if math.Abs(dc-1) > 1e-6 {
			t.Fatalf("fc=%v: DC gain = %v, want 1", fc, dc)
		}
	}
}

func TestHighpassDCGain(t *testing.T) {
	for _, fc := range []float64{20, 200, 1000, 5000, 20000} {
		c := Highpass(fc, 48000)
		dc := (c.B0 + c.B1 + c.B2) / (1 + c.A1 + c.A2)
		if math.Abs(dc) > 1e-6 {
			t.Fatalf("fc=%v: DC gain = %v, want 0", fc, dc)
		}
	}
}

func TestLowpassCutoffIsMinus3DB(t *testing.T) {
	c := Lowpass(1000, 48000)
	if got := responseAt(c, 1000, 48000); math.Abs(got-1/math.Sqrt2) > 1e-3 {
		t.Fatalf("cutoff magnitude = %v, want ~0.7071", got)
	}
}

func TestLowShelfGains(t *testing.T) {
	const gainDB = 6.0
	c := LowShelf(400, gainDB, 48000)

	dc := (c.B0 + c.B1 + c.B2) / (1 + c.A1 + c.A2)
	if math.Abs(dc-math.Pow(10, gainDB/20)) > 1e-6 {
		t.Fatalf("DC gain = %v, want %v", dc, math.Pow(10, gainDB/20))
	}

	// Far above the shelf the response returns to unity.
	if got := responseAt(c, 20000, 48000); math.Abs(got-1) > 1e-2 {
		t.Fatalf("high-frequency gain = %v, want ~1", got)
	}
}

func TestInvalidParamsReturnZeroCoefficients(t *testing.T) {
	zero := biquad.Coefficients{}
	if Lowpass(0, 48000) != zero {
		t.Fatal("expected zero coefficients for fc=0")
	}
	if Highpass(24000, 48000) != zero {
		t.Fatal("expected zero coefficients for fc at Nyquist")
	}
	if LowShelf(-5, 3, 48000) != zero {
		t.Fatal("expected zero coefficients for negative fc")
	}
}

func TestStabilityAcrossRange(t *testing.T) {
	// Poles inside the unit circle: |a2| < 1 and |a1| < 1 + a2.
	for _, fc := range []float64{10, 100, 1000, 10000, 23000} {
		for _, c := range []biquad.Coefficients{
			Lowpass(fc, 48000),
			Highpass(fc, 48000),
			LowShelf(fc, 9, 48000),
		} {
			if math.Abs(c.A2) >= 1 || math.Abs(c.A1) >= 1+c.A2 {
				t.Fatalf("fc=%v: unstable poles a1=%v a2=%v", fc, c.A1, c.A2)
			}
		}
	}
}
