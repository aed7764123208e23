// Package audiocompare decides whether two recorded audio clips carry
// perceptually the same signal.
//
// It is meant as a comparison oracle, for example to check that a recording
// still matches its reference after a lossy re-encode. Small time offsets,
// minor duration differences and moderate noise are tolerated.
//
// # Quick Start
//
// For two in-memory mono signals sampled at the same rate:
//
//	match, err := audiocompare.Compare(ref, 16000, rec, 16000, audiocompare.DefaultParams())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// For WAV files on disk:
//
//	match, err := audiocompare.CompareFiles("reference.wav", "recording.wav", audiocompare.DefaultParams())
//
// Use [Analyze] to obtain the full [Report] (estimated shift, spectral score,
// the stage at which the verdict was reached).
//
// # Pipeline
//
// Each comparison runs the same fixed sequence of stages:
//
//	duration check -> lowpass -> shift estimation -> alignment -> spectral score -> threshold
//
//   - The duration check rejects clips whose lengths differ by more than
//     [Params.MaxLengthDifference] seconds without looking at their content.
//   - Both clips are smoothed with a single-pole lowpass at [Params.LowpassCutoff].
//   - The lag between the clips is taken from the peak of their FFT-based
//     circular cross-correlation, searched over the first
//     [Params.ShiftToleranceSeconds] worth of lags.
//   - The clips are trimmed to their common overlap.
//   - The Pearson correlation of their magnitude spectra is the score; the
//     clips match when it is at least [Params.MinCorrelation].
//
// # Errors
//
// Every failure is reported, never replaced by a default verdict. Use
// errors.Is with [ErrInvalidInput], [ErrInvalidParameter],
// [ErrAlignmentOutOfRange], [ErrDegenerateSignal] and [ErrNaNComparison] to
// classify core failures, and [ErrDecode] for unreadable files.
//
// # Thread Safety
//
// No state is shared between calls. Independent comparisons may run
// concurrently from multiple goroutines.
package audiocompare
