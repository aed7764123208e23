package align

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seq(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}

func TestTrim_PositiveShift(t *testing.T) {
	a, b := seq(10), seq(10)

	out1, out2, err := Trim(a, b, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 4, 5, 6, 7, 8, 9}, out1)
	assert.Equal(t, []float64{0, 1, 2, 3, 4, 5, 6}, out2)
}

func TestTrim_NegativeShift(t *testing.T) {
	a, b := seq(10), seq(10)

	out1, out2, err := Trim(a, b, -4)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2, 3, 4, 5}, out1)
	assert.Equal(t, []float64{4, 5, 6, 7, 8, 9}, out2)
}

func TestTrim_ZeroShift(t *testing.T) {
	a, b := seq(6), seq(6)

	out1, out2, err := Trim(a, b, 0)
	require.NoError(t, err)
	assert.Equal(t, a, out1)
	assert.Equal(t, b, out2)

	// Results are copies.
	out1[0] = 42
	assert.Zero(t, a[0])
}

func TestTrim_UnequalLengths(t *testing.T) {
	tests := []struct {
		name    string
		len1    int
		len2    int
		shift   int
		wantLen int
	}{
		{"longer_first_positive", 12, 8, 5, 7},
		{"longer_second_negative", 8, 12, -5, 7},
		{"longer_first_negative", 12, 8, -2, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out1, out2, err := Trim(seq(tt.len1), seq(tt.len2), tt.shift)
			require.NoError(t, err)
			assert.Len(t, out1, tt.wantLen)
			assert.Len(t, out2, tt.wantLen)
		})
	}
}

func TestTrim_OutOfRange(t *testing.T) {
	tests := []struct {
		name  string
		len1  int
		len2  int
		shift int
	}{
		{"positive_exceeds_first", 10, 10, 11},
		{"positive_equals_first", 10, 10, 10},
		{"negative_exceeds_second", 10, 10, -11},
		{"negative_equals_second", 10, 10, -10},
		{"positive_overlap_exceeds_second", 20, 5, 2},
		{"negative_overlap_exceeds_first", 5, 20, -2},
		{"empty_inputs", 0, 0, 0},
		{"empty_second", 5, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				_, _, err := Trim(seq(tt.len1), seq(tt.len2), tt.shift)
				require.ErrorIs(t, err, ErrAlignmentOutOfRange)
			})
		})
	}
}

func TestPlan_Bounds(t *testing.T) {
	b, err := Plan(100, 80, 30)
	require.NoError(t, err)
	assert.Equal(t, Bounds{Start1: 30, End1: 100, Start2: 0, End2: 70}, b)
	assert.Equal(t, 70, b.Len())
}

func TestTrim_Float32(t *testing.T) {
	out1, out2, err := Trim([]float32{1, 2, 3}, []float32{4, 5, 6}, 1)
	require.NoError(t, err)
	assert.Equal(t, []float32{2, 3}, out1)
	assert.Equal(t, []float32{4, 5}, out2)
}
