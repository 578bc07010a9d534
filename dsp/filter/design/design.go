package design

import (
	"math"

	"github.com/cwbudde/algo-ctc/dsp/filter/biquad"
)

const defaultQ = 1 / math.Sqrt2

// normalizedW0 converts freq to the normalized angular frequency
// 2*pi*freq/sampleRate. Returns (0, false) if parameters are invalid.
func normalizedW0(freq, sampleRate float64) (float64, bool) {
	if sampleRate <= 0 || freq <= 0 || freq >= sampleRate/2 {
		return 0, false
	}

	return 2 * math.Pi * freq / sampleRate, true
}

func normalizedQ(q float64) float64 {
	if q <= 0 || math.IsNaN(q) || math.IsInf(q, 0) {
		return defaultQ
	}

	return q
}

func normalizeBiquad(b0, b1, b2, a0, a1, a2 float64) biquad.Coefficients {
	if a0 == 0 || math.IsNaN(a0) || math.IsInf(a0, 0) {
		return biquad.Coefficients{}
	}

	inv := 1 / a0

	return biquad.Coefficients{
		B0: b0 * inv,
		B1: b1 * inv,
		B2: b2 * inv,
		A1: a1 * inv,
		A2: a2 * inv,
	}
}

// Lowpass designs an RBJ lowpass biquad at freq (Hz) with Q = 1/sqrt(2).
func Lowpass(freq, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * defaultQ)

	return normalizeBiquad(
		(1-cw)/2,
		1-cw,
		(1-cw)/2,
		1+alpha,
		-2*cw,
		1-alpha,
	)
}

// Highpass designs an RBJ highpass biquad at freq (Hz) with Q = 1/sqrt(2).
func Highpass(freq, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * defaultQ)

	return normalizeBiquad(
		(1+cw)/2,
		-(1 + cw),
		(1+cw)/2,
		1+alpha,
		-2*cw,
		1-alpha,
	)
}

// LowShelf designs an RBJ low-shelf biquad at freq (Hz) with the given
// shelf gain in dB and Q ~ 0.707.
func LowShelf(freq, gainDB, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	const q = 0.707

	a := math.Pow(10, gainDB/40)
	cw := math.Cos(w0)
	beta := (a+1/a)*(1/q-1) + 2
	alpha := math.Sin(w0) / 2 * math.Sqrt(math.Max(beta, 0))
	sqrtA := math.Sqrt(a)

	return normalizeBiquad(
		a*((a+1)-(a-1)*cw+2*sqrtA*alpha),
		2*a*((a-1)-(a+1)*cw),
		a*((a+1)-(a-1)*cw-2*sqrtA*alpha),
		(a+1)+(a-1)*cw+2*sqrtA*alpha,
		-2*((a-1)+(a+1)*cw),
		(a+1)+(a-1)*cw-2*sqrtA*alpha,
	)
}
