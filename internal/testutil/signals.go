package testutil

import (
	"math"
	"math/rand/v2"
)

// Sine generates n samples of a sine wave at freq Hz.
func Sine(n int, freq, sampleRate, amplitude float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amplitude * math.Sin(2*math.Pi*freq*float64(i)/sampleRate)
	}
	return out
}

// ToneBurst generates a Gaussian-windowed sine centred in an n-sample buffer.
// Unlike a steady tone its cross-correlation has a single dominant peak.
func ToneBurst(n int, freq, sampleRate, amplitude float64) []float64 {
	out := Sine(n, freq, sampleRate, amplitude)
	center := float64(n) / 2
	width := float64(n) / 8
	for i := range out {
		d := (float64(i) - center) / width
		out[i] *= math.Exp(-0.5 * d * d)
	}
	return out
}

// Noise generates deterministic uniform noise in [-amplitude, amplitude].
func Noise(n int, seed uint64, amplitude float64) []float64 {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]float64, n)
	for i := range out {
		out[i] = amplitude * (2*rng.Float64() - 1)
	}
	return out
}

// Constant returns n copies of v.
func Constant(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// Delay returns s delayed by k samples: k zeros followed by s, truncated to len(s).
func Delay(s []float64, k int) []float64 {
	out := make([]float64, len(s))
	if k < len(s) {
		copy(out[k:], s)
	}
	return out
}

// CircularShift returns s rotated right by k samples: out[(i+k) mod n] = s[i].
func CircularShift(s []float64, k int) []float64 {
	n := len(s)
	out := make([]float64, n)
	for i, v := range s {
		out[((i+k)%n+n)%n] = v
	}
	return out
}

// Add returns the element-wise sum of a and b over the shorter length.
func Add(a, b []float64) []float64 {
	out := make([]float64, min(len(a), len(b)))
	for i := range out {
		out[i] = a[i] + b[i]
	}
	return out
}
