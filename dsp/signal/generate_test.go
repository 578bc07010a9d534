package signal

import (
	"math"
	"testing"
)

func TestNewGeneratorValidation(t *testing.T) {
	if _, err := NewGenerator(0); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
	if _, err := NewGenerator(math.NaN()); err == nil {
		t.Fatal("expected error for NaN sample rate")
	}
}

func TestSine(t *testing.T) {
	g, err := NewGenerator(48000)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := g.Sine(24000, 1, 16); err == nil {
		t.Fatal("expected error for frequency at Nyquist")
	}

	out, err := g.Sine(1000, 0.5, 48)
	if err != nil {
		t.Fatal(err)
	}
	if out[0] != 0 {
		t.Fatalf("sine must start at 0, got %v", out[0])
	}
	if got := out[12]; math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("quarter cycle = %v, want 0.5", got)
	}
}

func TestImpulse(t *testing.T) {
	g, err := NewGenerator(48000)
	if err != nil {
		t.Fatal(err)
	}

	out, err := g.Impulse(1, 8)
	if err != nil {
		t.Fatal(err)
	}
	if out[0] != 1 {
		t.Fatalf("impulse head = %v, want 1", out[0])
	}
	for i, v := range out[1:] {
		if v != 0 {
			t.Fatalf("tail sample %d = %v, want 0", i+1, v)
		}
	}
}

func TestWhiteNoiseDeterministic(t *testing.T) {
	g1, err := NewGenerator(48000, WithSeed(7))
	if err != nil {
		t.Fatal(err)
	}
	g2, err := NewGenerator(48000, WithSeed(7))
	if err != nil {
		t.Fatal(err)
	}

	a, err := g1.WhiteNoise(0.8, 256)
	if err != nil {
		t.Fatal(err)
	}
	b, err := g2.WhiteNoise(0.8, 256)
	if err != nil {
		t.Fatal(err)
	}

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs across identical seeds", i)
		}
		if math.Abs(a[i]) > 0.8 {
			t.Fatalf("sample %d = %v exceeds amplitude", i, a[i])
		}
	}
}
