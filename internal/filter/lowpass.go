package filter

import (
	"errors"
	"fmt"
	"math"

	"github.com/tphakala/go-audio-compare/internal/simdops"
)

// ErrInvalidParameter indicates a non-physical filter parameter.
var ErrInvalidParameter = errors.New("invalid filter parameter")

// Alpha returns the smoothing factor of a single-pole RC lowpass with the
// given corner frequency, discretised at sampleRate:
//
//	rc    = 1 / (2π·cutoff)
//	dt    = 1 / sampleRate
//	alpha = dt / (rc + dt)
func Alpha(cutoffHz, sampleRateHz float64) (float64, error) {
	if !(cutoffHz > 0) || math.IsInf(cutoffHz, 0) {
		return 0, fmt.Errorf("%w: cutoff must be positive and finite, got %v Hz", ErrInvalidParameter, cutoffHz)
	}
	if !(sampleRateHz > 0) || math.IsInf(sampleRateHz, 0) {
		return 0, fmt.Errorf("%w: sample rate must be positive and finite, got %v Hz", ErrInvalidParameter, sampleRateHz)
	}

	rc := 1 / (2 * math.Pi * cutoffHz)
	dt := 1 / sampleRateHz
	return dt / (rc + dt), nil
}

// Lowpass applies first-order exponential smoothing:
//
//	y[0] = x[0]
//	y[i] = y[i-1] + alpha·(x[i] - y[i-1])
//
// The filter is causal, so it lags the input by a frequency-dependent phase.
// Both signals of a comparison go through the same filter, which keeps their
// relative alignment intact. An empty input yields an empty output.
func Lowpass[F simdops.Float](x []F, cutoffHz, sampleRateHz float64) ([]F, error) {
	alpha, err := Alpha(cutoffHz, sampleRateHz)
	if err != nil {
		return nil, err
	}

	y := make([]F, len(x))
	if len(x) == 0 {
		return y, nil
	}

	a := F(alpha)
	y[0] = x[0]
	for i := 1; i < len(x); i++ {
		y[i] = y[i-1] + a*(x[i]-y[i-1])
	}
	return y, nil
}

// Response returns the magnitude response of the discrete recurrence at freqHz:
//
//	|H(f)| = alpha / |1 - (1-alpha)·e^(-j2πf/fs)|
func Response(cutoffHz, sampleRateHz, freqHz float64) (float64, error) {
	alpha, err := Alpha(cutoffHz, sampleRateHz)
	if err != nil {
		return 0, err
	}
	w := 2 * math.Pi * freqHz / sampleRateHz
	pole := 1 - alpha
	re := 1 - pole*math.Cos(w)
	im := pole * math.Sin(w)
	return alpha / math.Hypot(re, im), nil
}
