// Package pipeline sequences the comparison stages: duration gate, smoothing,
// shift estimation, alignment, spectral scoring and the threshold decision.
//
// Stages run strictly in order and never loop back. The only early exit is
// the duration gate; any stage error aborts the run.
package pipeline

import (
	"fmt"
	"math"
	"sync"

	"github.com/tphakala/go-audio-compare/internal/align"
	"github.com/tphakala/go-audio-compare/internal/correlate"
	"github.com/tphakala/go-audio-compare/internal/filter"
	"github.com/tphakala/go-audio-compare/internal/similarity"
)

// Stage identifies a step of the comparison pipeline.
type Stage int

const (
	// StageDurationCheck rejects pairs whose durations differ too much.
	StageDurationCheck Stage = iota

	// StageFiltering smooths both signals with the single-pole lowpass.
	StageFiltering

	// StageShiftEstimation locates the best lag by cross-correlation.
	StageShiftEstimation

	// StageAlignment trims both signals to their common overlap.
	StageAlignment

	// StageScoring correlates the magnitude spectra of the aligned signals.
	StageScoring

	// StageDecision applies the correlation threshold.
	StageDecision
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageDurationCheck:
		return "duration check"
	case StageFiltering:
		return "filtering"
	case StageShiftEstimation:
		return "shift estimation"
	case StageAlignment:
		return "alignment"
	case StageScoring:
		return "scoring"
	case StageDecision:
		return "decision"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// StageError records the stage at which a run aborted.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Config holds the comparison parameters.
type Config struct {
	SampleRate          float64 // Hz, assumed for both signals
	MaxLengthDifference float64 // seconds
	MinCorrelation      float64
	LowpassCutoff       float64 // Hz
	ShiftTolerance      float64 // seconds
	Parallel            bool    // filter both signals concurrently
}

// Validate checks that the configuration describes a physical filter and
// meaningful thresholds.
func (c *Config) Validate() error {
	if _, err := filter.Alpha(c.LowpassCutoff, c.SampleRate); err != nil {
		return err
	}
	if math.IsNaN(c.MaxLengthDifference) || c.MaxLengthDifference < 0 {
		return fmt.Errorf("%w: max length difference must be non-negative, got %v", filter.ErrInvalidParameter, c.MaxLengthDifference)
	}
	if math.IsNaN(c.ShiftTolerance) || c.ShiftTolerance < 0 {
		return fmt.Errorf("%w: shift tolerance must be non-negative, got %v", filter.ErrInvalidParameter, c.ShiftTolerance)
	}
	if math.IsNaN(c.MinCorrelation) || c.MinCorrelation < -1 || c.MinCorrelation > 1 {
		return fmt.Errorf("%w: min correlation must be in [-1, 1], got %v", filter.ErrInvalidParameter, c.MinCorrelation)
	}
	return nil
}

// Result describes a completed run.
type Result struct {
	// Match is the verdict.
	Match bool

	// Stage is the last stage executed: StageDurationCheck for an early
	// rejection, StageDecision otherwise.
	Stage Stage

	Duration1        float64 // seconds
	Duration2        float64 // seconds
	LengthDifference float64 // seconds

	// Shift is the estimated lag in samples; positive means the second
	// signal lags the first.
	Shift int

	// AlignedLength is the number of samples compared after trimming.
	AlignedLength int

	// Score is the spectral correlation coefficient.
	Score float64
}

// Decide reports whether score passes the threshold. Equality passes.
func Decide(score, minCorrelation float64) bool {
	return score >= minCorrelation
}

// Run executes the pipeline on two sample sequences.
func Run(a, b []float64, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	res := &Result{
		Stage:     StageDurationCheck,
		Duration1: float64(len(a)) / cfg.SampleRate,
		Duration2: float64(len(b)) / cfg.SampleRate,
	}
	res.LengthDifference = math.Abs(res.Duration1 - res.Duration2)
	if res.LengthDifference > cfg.MaxLengthDifference {
		return res, nil
	}

	res.Stage = StageFiltering
	if err := checkFinite(a); err != nil {
		return nil, &StageError{Stage: StageFiltering, Err: fmt.Errorf("first signal: %w", err)}
	}
	if err := checkFinite(b); err != nil {
		return nil, &StageError{Stage: StageFiltering, Err: fmt.Errorf("second signal: %w", err)}
	}
	fa, fb, err := filterPair(a, b, cfg)
	if err != nil {
		return nil, &StageError{Stage: StageFiltering, Err: err}
	}

	res.Stage = StageShiftEstimation
	res.Shift, err = correlate.EstimateShift(fa, fb, cfg.ShiftTolerance, cfg.SampleRate)
	if err != nil {
		return nil, &StageError{Stage: StageShiftEstimation, Err: err}
	}

	res.Stage = StageAlignment
	aa, ab, err := align.Trim(fa, fb, res.Shift)
	if err != nil {
		return nil, &StageError{Stage: StageAlignment, Err: err}
	}
	res.AlignedLength = len(aa)

	res.Stage = StageScoring
	res.Score, err = similarity.Score(aa, ab)
	if err != nil {
		return nil, &StageError{Stage: StageScoring, Err: err}
	}

	res.Stage = StageDecision
	res.Match = Decide(res.Score, cfg.MinCorrelation)
	return res, nil
}

// checkFinite rejects NaN and Inf samples, either of which would poison the
// correlation peak search.
func checkFinite(s []float64) error {
	for i, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: sample %d is %v", correlate.ErrNaNComparison, i, v)
		}
	}
	return nil
}

// filterPair smooths both signals, concurrently when cfg.Parallel is set.
func filterPair(a, b []float64, cfg Config) ([]float64, []float64, error) {
	if !cfg.Parallel {
		fa, err := filter.Lowpass(a, cfg.LowpassCutoff, cfg.SampleRate)
		if err != nil {
			return nil, nil, err
		}
		fb, err := filter.Lowpass(b, cfg.LowpassCutoff, cfg.SampleRate)
		if err != nil {
			return nil, nil, err
		}
		return fa, fb, nil
	}

	inputs := [2][]float64{a, b}
	var outputs [2][]float64
	var errs [2]error
	var wg sync.WaitGroup
	for i := range inputs {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			outputs[idx], errs[idx] = filter.Lowpass(inputs[idx], cfg.LowpassCutoff, cfg.SampleRate)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, nil, err
		}
	}
	return outputs[0], outputs[1], nil
}
