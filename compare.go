package audiocompare

import (
	"errors"
	"fmt"

	"github.com/tphakala/go-audio-compare/internal/align"
	"github.com/tphakala/go-audio-compare/internal/correlate"
	"github.com/tphakala/go-audio-compare/internal/filter"
	"github.com/tphakala/go-audio-compare/internal/pipeline"
	"github.com/tphakala/go-audio-compare/internal/similarity"
	"github.com/tphakala/go-audio-compare/internal/transform"
)

// Params holds comparison parameters.
type Params struct {
	// MaxLengthDifference is the largest duration difference, in seconds,
	// for which two clips are analysed at all. Larger differences are an
	// immediate mismatch.
	MaxLengthDifference float64

	// MinCorrelation is the spectral correlation threshold in [-1, 1].
	// Scores at or above it match.
	MinCorrelation float64

	// LowpassCutoff is the corner frequency of the smoothing filter in Hz.
	LowpassCutoff float64

	// ShiftToleranceSeconds bounds the lag search window.
	ShiftToleranceSeconds float64

	// Frequency is the sample rate in Hz at which both inputs are analysed.
	// The per-signal rates passed to Compare and Analyze are recorded but
	// neither checked nor used; inputs at other rates must be resampled first.
	Frequency float64

	// Parallel filters the two inputs concurrently. The result is identical
	// either way.
	Parallel bool
}

// DefaultParams returns the documented defaults.
func DefaultParams() Params {
	return Params{
		MaxLengthDifference:   DefaultMaxLengthDifference,
		MinCorrelation:        DefaultMinCorrelation,
		LowpassCutoff:         DefaultLowpassCutoff,
		ShiftToleranceSeconds: DefaultShiftToleranceSeconds,
		Frequency:             DefaultFrequency,
	}
}

// Errors returned by comparisons. Use errors.Is to test for them; returned
// errors carry additional context.
var (
	// ErrInvalidInput indicates an empty sequence where samples are required.
	ErrInvalidInput = transform.ErrInvalidInput

	// ErrInvalidParameter indicates a non-physical filter setting or an
	// out-of-range threshold.
	ErrInvalidParameter = filter.ErrInvalidParameter

	// ErrAlignmentOutOfRange indicates the estimated shift leaves no overlap
	// between the two inputs.
	ErrAlignmentOutOfRange = align.ErrAlignmentOutOfRange

	// ErrDegenerateSignal indicates a spectrum without variation, such as
	// that of silence or a constant offset.
	ErrDegenerateSignal = similarity.ErrDegenerateSignal

	// ErrNaNComparison indicates NaN or infinite samples.
	ErrNaNComparison = correlate.ErrNaNComparison
)

// Stage identifies the step at which a comparison concluded or failed.
type Stage = pipeline.Stage

// Pipeline stages, in execution order.
const (
	StageDurationCheck   = pipeline.StageDurationCheck
	StageFiltering       = pipeline.StageFiltering
	StageShiftEstimation = pipeline.StageShiftEstimation
	StageAlignment       = pipeline.StageAlignment
	StageScoring         = pipeline.StageScoring
	StageDecision        = pipeline.StageDecision
)

// Validate checks if the parameters are usable.
func (p *Params) Validate() error {
	cfg := p.config()
	return cfg.Validate()
}

func (p *Params) config() pipeline.Config {
	return pipeline.Config{
		SampleRate:          p.Frequency,
		MaxLengthDifference: p.MaxLengthDifference,
		MinCorrelation:      p.MinCorrelation,
		LowpassCutoff:       p.LowpassCutoff,
		ShiftTolerance:      p.ShiftToleranceSeconds,
		Parallel:            p.Parallel,
	}
}

// Report describes how a verdict was reached.
type Report struct {
	// Match is the verdict.
	Match bool

	// Stage is StageDurationCheck when the clips were rejected on length
	// alone and StageDecision otherwise.
	Stage Stage

	// SampleRate1 and SampleRate2 are the rates the caller declared for the
	// inputs. Durations are computed at Params.Frequency regardless.
	SampleRate1, SampleRate2 float64

	// Duration1 and Duration2 are the input durations in seconds.
	Duration1, Duration2 float64

	// LengthDifference is |Duration1 - Duration2|.
	LengthDifference float64

	// Shift is the estimated lag in samples.
	Shift int

	// AlignedSamples is the number of samples per clip that were scored.
	AlignedSamples int

	// Score is the spectral correlation coefficient. It is zero when the
	// duration check rejected the pair.
	Score float64
}

// String returns a one-line summary.
func (r *Report) String() string {
	if r.Stage == StageDurationCheck {
		return fmt.Sprintf("match=%t: length difference %.3fs exceeds limit", r.Match, r.LengthDifference)
	}
	return fmt.Sprintf("match=%t score=%.4f shift=%d aligned=%d", r.Match, r.Score, r.Shift, r.AlignedSamples)
}

// Analyze compares two mono signals and returns the full report.
//
// rate1 and rate2 describe the inputs but are not validated: both signals are
// analysed at p.Frequency.
func Analyze(samples1 []float64, rate1 float64, samples2 []float64, rate2 float64, p Params) (*Report, error) {
	res, err := pipeline.Run(samples1, samples2, p.config())
	if err != nil {
		return nil, err
	}
	return &Report{
		Match:            res.Match,
		SampleRate1:      rate1,
		SampleRate2:      rate2,
		Stage:            res.Stage,
		Duration1:        res.Duration1,
		Duration2:        res.Duration2,
		LengthDifference: res.LengthDifference,
		Shift:            res.Shift,
		AlignedSamples:   res.AlignedLength,
		Score:            res.Score,
	}, nil
}

// Compare reports whether two mono signals are judged the same under p.
// See Analyze for how rate1 and rate2 are treated.
func Compare(samples1 []float64, rate1 float64, samples2 []float64, rate2 float64, p Params) (bool, error) {
	report, err := Analyze(samples1, rate1, samples2, rate2, p)
	if err != nil {
		return false, err
	}
	return report.Match, nil
}

// Decide applies the correlation threshold: a score equal to the threshold
// passes.
func Decide(score, minCorrelation float64) bool {
	return pipeline.Decide(score, minCorrelation)
}

// FailedStage returns the stage at which err aborted a comparison, if known.
func FailedStage(err error) (Stage, bool) {
	var stageErr *pipeline.StageError
	if errors.As(err, &stageErr) {
		return stageErr.Stage, true
	}
	return 0, false
}
