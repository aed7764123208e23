package pipeline

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-audio-compare/internal/align"
	"github.com/tphakala/go-audio-compare/internal/correlate"
	"github.com/tphakala/go-audio-compare/internal/filter"
	"github.com/tphakala/go-audio-compare/internal/similarity"
	"github.com/tphakala/go-audio-compare/internal/testutil"
	"github.com/tphakala/go-audio-compare/internal/transform"
)

const (
	testSampleRate = 16000.0
	testToneFreq   = 440.0
)

func defaultConfig() Config {
	return Config{
		SampleRate:          testSampleRate,
		MaxLengthDifference: 2.0,
		MinCorrelation:      0.7,
		LowpassCutoff:       3000,
		ShiftTolerance:      2,
	}
}

func toneWithNoise(n int, seed uint64) []float64 {
	return testutil.Add(
		testutil.Sine(n, testToneFreq, testSampleRate, 0.5),
		testutil.Noise(n, seed, 0.05),
	)
}

func TestStage_String(t *testing.T) {
	assert.Equal(t, "duration check", StageDurationCheck.String())
	assert.Equal(t, "filtering", StageFiltering.String())
	assert.Equal(t, "shift estimation", StageShiftEstimation.String())
	assert.Equal(t, "alignment", StageAlignment.String())
	assert.Equal(t, "scoring", StageScoring.String())
	assert.Equal(t, "decision", StageDecision.String())
	assert.Equal(t, "stage(42)", Stage(42).String())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero_rate", func(c *Config) { c.SampleRate = 0 }},
		{"negative_cutoff", func(c *Config) { c.LowpassCutoff = -1 }},
		{"negative_length_difference", func(c *Config) { c.MaxLengthDifference = -0.1 }},
		{"nan_length_difference", func(c *Config) { c.MaxLengthDifference = math.NaN() }},
		{"negative_tolerance", func(c *Config) { c.ShiftTolerance = -1 }},
		{"correlation_above_one", func(c *Config) { c.MinCorrelation = 1.5 }},
		{"correlation_below_minus_one", func(c *Config) { c.MinCorrelation = -1.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.modify(&cfg)
			require.ErrorIs(t, cfg.Validate(), filter.ErrInvalidParameter)

			_, err := Run([]float64{1}, []float64{1}, cfg)
			require.ErrorIs(t, err, filter.ErrInvalidParameter)
		})
	}

	cfg := defaultConfig()
	require.NoError(t, cfg.Validate())
}

func TestRun_DurationGate(t *testing.T) {
	// 1 s against 4 s of silence: the gate rejects before looking at content.
	a := make([]float64, int(testSampleRate))
	b := make([]float64, 4*int(testSampleRate))

	res, err := Run(a, b, defaultConfig())
	require.NoError(t, err)
	assert.False(t, res.Match)
	assert.Equal(t, StageDurationCheck, res.Stage)
	assert.InDelta(t, 3.0, res.LengthDifference, testutil.DefaultTolerance)

	// NaN content is never inspected once the gate has fired.
	a[0] = math.NaN()
	res, err = Run(a, b, defaultConfig())
	require.NoError(t, err)
	assert.False(t, res.Match)
}

func TestRun_DurationGateBoundary(t *testing.T) {
	// Exactly max_length_difference apart still proceeds past the gate. Silent
	// inputs correlate to all zeros, so the peak search picks lag 0 and the
	// pipeline stops at alignment instead.
	a := make([]float64, int(testSampleRate))
	b := make([]float64, 3*int(testSampleRate))

	_, err := Run(a, b, defaultConfig())
	require.ErrorIs(t, err, align.ErrAlignmentOutOfRange)
}

func TestRun_SelfSimilarity(t *testing.T) {
	x := toneWithNoise(int(testSampleRate), 3)

	res, err := Run(x, x, defaultConfig())
	require.NoError(t, err)
	assert.True(t, res.Match)
	assert.Equal(t, StageDecision, res.Stage)
	assert.Greater(t, res.Score, 0.9)
	assert.Equal(t, -len(x)/2, res.Shift, "autocorrelation peaks at lag zero")
	assert.Equal(t, len(x)/2, res.AlignedLength)
}

func TestRun_DifferentTonesDoNotMatch(t *testing.T) {
	a := testutil.Sine(int(testSampleRate), testToneFreq, testSampleRate, 0.5)
	b := testutil.Sine(int(testSampleRate), 1900, testSampleRate, 0.5)

	res, err := Run(a, b, defaultConfig())
	require.NoError(t, err)
	assert.False(t, res.Match)
	assert.Equal(t, StageDecision, res.Stage)
}

func TestRun_RecoversShift(t *testing.T) {
	const n = 16384
	base := testutil.ToneBurst(n, testToneFreq, testSampleRate, 0.8)

	for _, k := range []int{10, 160, 1600} {
		res, err := Run(base, testutil.Delay(base, k), defaultConfig())
		require.NoError(t, err)
		testutil.AssertShiftNear(t, k-n/2, res.Shift)
	}
}

func TestRun_ConstantSignalsDegenerate(t *testing.T) {
	a := testutil.Constant(int(testSampleRate), 0.3)
	b := testutil.Constant(int(testSampleRate), 0.5)

	res, err := Run(a, b, defaultConfig())
	require.ErrorIs(t, err, similarity.ErrDegenerateSignal)
	assert.Nil(t, res)

	var stageErr *StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, StageScoring, stageErr.Stage)
}

func TestRun_AlignmentOutOfRange(t *testing.T) {
	// At 100 Hz a 0.1 s impulse and a 2 s impulse pass the duration gate.
	// Their correlation peaks at lag 50, which maps to shift -50; trimming the
	// 10-sample first signal to 150 samples is impossible.
	cfg := defaultConfig()
	cfg.SampleRate = 100

	a := make([]float64, 10)
	a[0] = 1
	b := make([]float64, 200)
	b[50] = 1

	assert.NotPanics(t, func() {
		res, err := Run(a, b, cfg)
		require.ErrorIs(t, err, align.ErrAlignmentOutOfRange)
		assert.Nil(t, res)

		var stageErr *StageError
		require.True(t, errors.As(err, &stageErr))
		assert.Equal(t, StageAlignment, stageErr.Stage)
	})
}

func TestRun_RejectsNonFiniteSamples(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		first bool
	}{
		{"nan_first", math.NaN(), true},
		{"nan_second", math.NaN(), false},
		{"inf_first", math.Inf(1), true},
		{"neg_inf_second", math.Inf(-1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := toneWithNoise(1000, 1)
			b := toneWithNoise(1000, 2)
			if tt.first {
				a[500] = tt.value
			} else {
				b[500] = tt.value
			}

			_, err := Run(a, b, defaultConfig())
			require.ErrorIs(t, err, correlate.ErrNaNComparison)
		})
	}
}

func TestRun_EmptySignals(t *testing.T) {
	_, err := Run(nil, nil, defaultConfig())
	require.ErrorIs(t, err, transform.ErrInvalidInput)

	var stageErr *StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, StageShiftEstimation, stageErr.Stage)
}

func TestRun_ParallelMatchesSequential(t *testing.T) {
	a := toneWithNoise(8000, 4)
	b := testutil.Delay(toneWithNoise(8000, 4), 40)

	seqCfg := defaultConfig()
	parCfg := defaultConfig()
	parCfg.Parallel = true

	seqRes, err := Run(a, b, seqCfg)
	require.NoError(t, err)
	parRes, err := Run(a, b, parCfg)
	require.NoError(t, err)

	assert.Equal(t, seqRes, parRes)
}

func TestDecide_Boundary(t *testing.T) {
	for _, threshold := range []float64{0.7, -0.25, 1, 0} {
		assert.True(t, Decide(threshold, threshold), "equal score passes at %v", threshold)
		below := math.Nextafter(threshold, math.Inf(-1))
		assert.False(t, Decide(below, threshold), "one ULP below fails at %v", threshold)
		above := math.Nextafter(threshold, math.Inf(1))
		assert.True(t, Decide(above, threshold))
	}
}

func BenchmarkRun(b *testing.B) {
	x := toneWithNoise(int(testSampleRate), 9)
	y := testutil.Delay(x, 200)
	cfg := defaultConfig()

	b.ReportAllocs()
	for b.Loop() {
		_, _ = Run(x, y, cfg)
	}
}
