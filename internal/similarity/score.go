// Package similarity scores two aligned signals by correlating their
// magnitude spectra.
package similarity

import (
	"errors"
	"fmt"
	"math"

	"github.com/tphakala/go-audio-compare/internal/simdops"
	"github.com/tphakala/go-audio-compare/internal/transform"
)

// ErrDegenerateSignal indicates a spectrum that carries no usable variation,
// so the correlation coefficient is undefined.
var ErrDegenerateSignal = errors.New("degenerate signal")

// dcOnlyRatio bounds the largest non-DC bin, relative to the DC bin, below
// which a spectrum counts as DC-only.
const dcOnlyRatio = 1e-9

// Spectra returns the magnitude spectra of a and b, each computed at its own
// length and then truncated to the shorter of the two.
func Spectra(a, b []float64) ([]float64, []float64, error) {
	s1, err := transform.Magnitude(a)
	if err != nil {
		return nil, nil, fmt.Errorf("spectrum of first signal: %w", err)
	}
	s2, err := transform.Magnitude(b)
	if err != nil {
		return nil, nil, fmt.Errorf("spectrum of second signal: %w", err)
	}
	n := min(len(s1), len(s2))
	return s1[:n], s2[:n], nil
}

// Pearson returns the Pearson correlation coefficient of x and y over their
// common prefix. A zero-variance input has no defined coefficient and
// yields ErrDegenerateSignal.
func Pearson(x, y []float64) (float64, error) {
	n := min(len(x), len(y))
	if n == 0 {
		return 0, fmt.Errorf("%w: empty sequence", ErrDegenerateSignal)
	}

	ops := simdops.For[float64]()
	dx := simdops.Centered(x[:n])
	dy := simdops.Centered(y[:n])

	num := ops.DotProductUnsafe(dx, dy)
	den := math.Sqrt(ops.DotProductUnsafe(dx, dx)) * math.Sqrt(ops.DotProductUnsafe(dy, dy))
	if den == 0 || math.IsNaN(den) || math.IsInf(den, 0) {
		return 0, fmt.Errorf("%w: zero variance", ErrDegenerateSignal)
	}

	r := num / den
	if math.IsNaN(r) {
		return 0, fmt.Errorf("%w: undefined correlation", ErrDegenerateSignal)
	}
	return r, nil
}

// DCOnly reports whether every non-DC bin of spectrum is negligible next to
// the DC bin. An all-zero spectrum is DC-only.
func DCOnly(spectrum []float64) bool {
	if len(spectrum) == 0 {
		return true
	}
	var peak float64
	for _, v := range spectrum[1:] {
		peak = max(peak, v)
	}
	return peak <= dcOnlyRatio*spectrum[0]
}

// Score correlates the magnitude spectra of two aligned signals.
//
// Two spectra whose energy sits entirely in the DC bin would correlate
// perfectly whatever their levels, so constant signals are rejected with
// ErrDegenerateSignal along with zero-variance spectra.
func Score(a, b []float64) (float64, error) {
	s1, s2, err := Spectra(a, b)
	if err != nil {
		return 0, err
	}
	if DCOnly(s1) {
		return 0, fmt.Errorf("%w: first signal has no content above DC", ErrDegenerateSignal)
	}
	if DCOnly(s2) {
		return 0, fmt.Errorf("%w: second signal has no content above DC", ErrDegenerateSignal)
	}
	return Pearson(s1, s2)
}
