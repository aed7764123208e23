// Package correlate estimates the lag between two signals from their
// circular cross-correlation.
package correlate

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/tphakala/go-audio-compare/internal/transform"
	"github.com/tphakala/simd/c128"
	"gonum.org/v1/gonum/floats"
)

// ErrNaNComparison indicates a NaN or infinite value where an ordered
// comparison is required, such as the correlation peak search.
var ErrNaNComparison = errors.New("NaN or Inf in comparison")

// lagCenterDivisor converts a circular correlation index into a signed lag.
const lagCenterDivisor = 2

// CrossCorrelate returns the circular cross-correlation of a and b:
//
//	r[m] = Σ a[n]·b[(n+m) mod L],  L = max(len(a), len(b))
//
// Both inputs are zero-padded to L. The result is unnormalized and real;
// the imaginary residue of the inverse transform is discarded.
func CrossCorrelate(a, b []float64) ([]float64, error) {
	n := max(len(a), len(b))
	plan, err := transform.NewPlan(n)
	if err != nil {
		return nil, err
	}

	fa, err := plan.Forward(transform.Complex(a, n))
	if err != nil {
		return nil, err
	}
	fb, err := plan.Forward(transform.Complex(b, n))
	if err != nil {
		return nil, err
	}

	for i, v := range fa {
		fa[i] = cmplx.Conj(v)
	}
	product := make([]complex128, n)
	c128.Mul(product, fa, fb)

	seq, err := plan.Inverse(product)
	if err != nil {
		return nil, err
	}
	corr := make([]float64, n)
	for i, v := range seq {
		corr[i] = real(v)
	}
	return corr, nil
}

// PeakIndex returns the index of the largest value among the first window
// entries of corr. The window is clamped to [1, len(corr)]. Ties resolve to
// the lowest index.
func PeakIndex(corr []float64, window int) (int, error) {
	if len(corr) == 0 {
		return 0, fmt.Errorf("%w: empty correlation", transform.ErrInvalidInput)
	}
	window = min(max(window, 1), len(corr))
	search := corr[:window]

	if floats.HasNaN(search) {
		return 0, fmt.Errorf("%w: window of %d entries", ErrNaNComparison, window)
	}
	return floats.MaxIdx(search), nil
}

// SearchWindow converts a tolerance in seconds into a sample count.
func SearchWindow(toleranceSeconds, sampleRateHz float64) int {
	w := toleranceSeconds * sampleRateHz
	if !(w > 0) {
		return 0
	}
	if w >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int(w)
}

// EstimateShift finds the lag that best aligns b with a.
//
// Only the first toleranceSeconds·sampleRate entries of the circular
// correlation are searched, so the window always starts at lag zero. The peak
// index is reported relative to the middle of the correlation buffer:
//
//	shift = peak - L/2
func EstimateShift(a, b []float64, toleranceSeconds, sampleRateHz float64) (int, error) {
	corr, err := CrossCorrelate(a, b)
	if err != nil {
		return 0, err
	}

	peak, err := PeakIndex(corr, SearchWindow(toleranceSeconds, sampleRateHz))
	if err != nil {
		return 0, err
	}
	return peak - len(corr)/lagCenterDivisor, nil
}
