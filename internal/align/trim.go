// Package align trims two signals so that they overlap in absolute time
// once an estimated shift has been applied.
package align

import (
	"errors"
	"fmt"

	"github.com/tphakala/go-audio-compare/internal/simdops"
)

// ErrAlignmentOutOfRange indicates that a shift leaves no valid overlap
// between the two signals.
var ErrAlignmentOutOfRange = errors.New("alignment shift out of range")

// Bounds describes the half-open sample ranges kept from each signal.
type Bounds struct {
	Start1, End1 int
	Start2, End2 int
}

// Len returns the overlap length.
func (b Bounds) Len() int {
	return b.End1 - b.Start1
}

// Plan computes the trim bounds for a shift without touching any samples.
//
// For shift > 0 the first shift samples of signal 1 are dropped and signal 2
// is cut to len1-shift. For shift <= 0 the first |shift| samples of signal 2
// are dropped and signal 1 is cut to len2-|shift|.
func Plan(len1, len2, shift int) (Bounds, error) {
	var b Bounds
	if shift > 0 {
		b = Bounds{Start1: shift, End1: len1, Start2: 0, End2: len1 - shift}
	} else {
		b = Bounds{Start1: 0, End1: len2 + shift, Start2: -shift, End2: len2}
	}

	if b.Start1 < 0 || b.Start1 >= b.End1 || b.End1 > len1 ||
		b.Start2 < 0 || b.Start2 >= b.End2 || b.End2 > len2 {
		return Bounds{}, fmt.Errorf("%w: shift %d with lengths %d and %d", ErrAlignmentOutOfRange, shift, len1, len2)
	}
	return b, nil
}

// Trim applies shift to a and b and returns freshly allocated overlapping
// segments of equal length. The inputs are not modified.
func Trim[F simdops.Float](a, b []F, shift int) ([]F, []F, error) {
	bounds, err := Plan(len(a), len(b), shift)
	if err != nil {
		return nil, nil, err
	}

	out1 := make([]F, bounds.Len())
	out2 := make([]F, bounds.Len())
	copy(out1, a[bounds.Start1:bounds.End1])
	copy(out2, b[bounds.Start2:bounds.End2])
	return out1, out2, nil
}
