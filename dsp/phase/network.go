package phase

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-ctc/dsp/filter/primary"
)

// Pole sets for the two all-pass cascades. Chains built from these
// maintain an approximately 90 degree phase offset between their outputs
// across the audio band. The values are part of the processing contract
// and must not be rounded.
var (
	polesA = [4]float64{1.252477174013740, 5.567151121010343, 22.33405370220630, 121.1823101311035}
	polesB = [4]float64{0.470942544153024, 2.511195608677685, 9.736028549641775, 52.32115162453549}
)

// Network is a pair of cascaded first-order all-pass chains fed with the
// same input. Output A carries the direct-path phase reference; output B
// trails it by roughly a quarter cycle.
type Network struct {
	chainA [4]*primary.Filter
	chainB [4]*primary.Filter
}

// Coefficients returns the all-pass coefficients for both chains at the
// given sample rate: alpha_k = (1 - w_k) / (1 + w_k) with
// w_k = 2*pi*p_k*150/sampleRate.
func Coefficients(sampleRate float64) (a, b [4]float64, err error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return a, b, fmt.Errorf("phase: sample rate must be > 0 and finite: %v", sampleRate)
	}

	calc := func(p float64) float64 {
		omega := 2 * math.Pi * p * 150 / sampleRate
		return (1 - omega) / (1 + omega)
	}

	for i := range polesA {
		a[i] = calc(polesA[i])
		b[i] = calc(polesB[i])
	}

	return a, b, nil
}

// New creates a quadrature network for the given sample rate.
func New(sampleRate float64) (*Network, error) {
	ca, cb, err := Coefficients(sampleRate)
	if err != nil {
		return nil, err
	}

	n := &Network{}
	for i := range ca {
		n.chainA[i], err = primary.NewAllPass(ca[i])
		if err != nil {
			return nil, err
		}

		n.chainB[i], err = primary.NewAllPass(cb[i])
		if err != nil {
			return nil, err
		}
	}

	return n, nil
}

// ProcessA runs one sample through chain A and returns its output.
func (n *Network) ProcessA(x float64) float64 {
	for _, f := range n.chainA {
		x = f.ProcessSample(x)
	}

	return x
}

// ProcessB runs one sample through chain B and returns its output.
func (n *Network) ProcessB(x float64) float64 {
	for _, f := range n.chainB {
		x = f.ProcessSample(x)
	}

	return x
}

// ProcessSample feeds one sample through both chains and returns the
// paired outputs.
func (n *Network) ProcessSample(x float64) (outA, outB float64) {
	return n.ProcessA(x), n.ProcessB(x)
}

// Reset clears the state of both chains.
func (n *Network) Reset() {
	for i := range n.chainA {
		n.chainA[i].Reset()
		n.chainB[i].Reset()
	}
}
