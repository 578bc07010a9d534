package spectrum

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// Magnitude returns |X[k]| for each complex spectrum bin.
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	re := make([]float64, len(in))
	im := make([]float64, len(in))
	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}

	out := make([]float64, len(in))
	vecmath.Magnitude(out, re, im)

	return out
}

// ResponseMagnitude computes the magnitude response of an impulse
// response by zero-padded FFT. The returned slice holds fftSize/2+1
// bins from DC to Nyquist; bin k maps to frequency k*sampleRate/fftSize.
func ResponseMagnitude(ir []float64, fftSize int) ([]float64, error) {
	if len(ir) == 0 {
		return nil, fmt.Errorf("spectrum: impulse response is empty")
	}

	if fftSize < len(ir) {
		fftSize = nextPowerOf2(len(ir))
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("spectrum: failed to create FFT plan: %w", err)
	}

	padded := make([]complex128, fftSize)
	for i, v := range ir {
		padded[i] = complex(v, 0)
	}

	freq := make([]complex128, fftSize)
	if err := plan.Forward(freq, padded); err != nil {
		return nil, fmt.Errorf("spectrum: forward FFT failed: %w", err)
	}

	return Magnitude(freq[:fftSize/2+1]), nil
}

func nextPowerOf2(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}

	return size
}
