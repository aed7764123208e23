// Package transform computes forward and inverse discrete Fourier transforms
// over real and complex sample buffers.
//
// Transforms are N-point and keep the natural bin order (bin 0 is DC).
// Inverse transforms are not normalized: a Forward followed by an Inverse
// yields the original sequence scaled by N. Callers that compare magnitudes
// across different transform sizes must apply the 1/N factor themselves,
// or use [InverseRealNormalized].
package transform

import (
	"errors"
	"fmt"
	"math/cmplx"

	"github.com/tphakala/simd/f64"
	"gonum.org/v1/gonum/dsp/fourier"
)

// ErrInvalidInput indicates an empty sequence was supplied to a transform.
var ErrInvalidInput = errors.New("invalid transform input")

// Plan is a reusable N-point complex transform.
// A Plan holds scratch space and must not be shared between goroutines.
type Plan struct {
	fft *fourier.CmplxFFT
	n   int
}

// NewPlan creates a transform plan for sequences of length n.
func NewPlan(n int) (*Plan, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: transform length %d", ErrInvalidInput, n)
	}
	return &Plan{fft: fourier.NewCmplxFFT(n), n: n}, nil
}

// Len returns the transform length.
func (p *Plan) Len() int {
	return p.n
}

// Forward computes the DFT of x, which must have exactly Len() elements.
func (p *Plan) Forward(x []complex128) ([]complex128, error) {
	if err := p.checkLen(len(x)); err != nil {
		return nil, err
	}
	return p.fft.Coefficients(nil, x), nil
}

// Inverse computes the unnormalized inverse DFT of coeffs.
func (p *Plan) Inverse(coeffs []complex128) ([]complex128, error) {
	if err := p.checkLen(len(coeffs)); err != nil {
		return nil, err
	}
	return p.fft.Sequence(nil, coeffs), nil
}

func (p *Plan) checkLen(n int) error {
	if n == 0 {
		return fmt.Errorf("%w: empty sequence", ErrInvalidInput)
	}
	if n != p.n {
		return fmt.Errorf("%w: sequence length %d does not match plan length %d", ErrInvalidInput, n, p.n)
	}
	return nil
}

// Forward computes the N-point DFT of x.
func Forward(x []complex128) ([]complex128, error) {
	p, err := NewPlan(len(x))
	if err != nil {
		return nil, err
	}
	return p.Forward(x)
}

// Inverse computes the unnormalized N-point inverse DFT of coeffs.
func Inverse(coeffs []complex128) ([]complex128, error) {
	p, err := NewPlan(len(coeffs))
	if err != nil {
		return nil, err
	}
	return p.Inverse(coeffs)
}

// InverseReal computes the unnormalized inverse DFT and keeps only the real
// component of each sample. Imaginary residue is discarded.
func InverseReal(coeffs []complex128) ([]float64, error) {
	seq, err := Inverse(coeffs)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(seq))
	for i, c := range seq {
		out[i] = real(c)
	}
	return out, nil
}

// InverseRealNormalized is InverseReal scaled by 1/N, so that
// InverseRealNormalized(Forward(x)) reproduces real x.
func InverseRealNormalized(coeffs []complex128) ([]float64, error) {
	out, err := InverseReal(coeffs)
	if err != nil {
		return nil, err
	}
	f64.Scale(out, out, 1/float64(len(out)))
	return out, nil
}

// Magnitude returns |X[k]| for every bin of the N-point DFT of real input x.
// The result has len(x) non-negative entries.
func Magnitude(x []float64) ([]float64, error) {
	if len(x) == 0 {
		return nil, fmt.Errorf("%w: empty sequence", ErrInvalidInput)
	}
	coeffs, err := Forward(Complex(x, len(x)))
	if err != nil {
		return nil, err
	}
	spectrum := make([]float64, len(coeffs))
	for i, c := range coeffs {
		spectrum[i] = cmplx.Abs(c)
	}
	return spectrum, nil
}

// Complex lifts real samples into a complex buffer of length n.
// Samples beyond n are dropped; missing samples are zero-padded.
func Complex(x []float64, n int) []complex128 {
	out := make([]complex128, n)
	for i := range min(len(x), n) {
		out[i] = complex(x[i], 0)
	}
	return out
}
