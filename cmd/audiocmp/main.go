// Command audiocmp reports whether two WAV recordings carry the same signal.
//
// Usage:
//
//	audiocmp reference.wav recording.wav
//	audiocmp -min-correlation 0.8 -cutoff 4000 reference.wav recording.wav
//	audiocmp -v reference.wav recording.wav            # print stage details
//
// The exit status is 0 when the recordings match, 1 when they do not and 2
// when they could not be compared.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	audiocompare "github.com/tphakala/go-audio-compare"
	"github.com/tphakala/go-audio-compare/internal/wavio"
)

const (
	minRequiredArgs = 2

	exitMatch    = 0
	exitNoMatch  = 1
	exitFailure  = 2
	msPerSecond  = 1000
	percentScale = 100
)

var errNoMatch = errors.New("recordings do not match")

func main() {
	err := run(os.Args[1:])
	switch {
	case err == nil:
		os.Exit(exitMatch)
	case errors.Is(err, errNoMatch):
		os.Exit(exitNoMatch)
	default:
		log.Print(err)
		os.Exit(exitFailure)
	}
}

func run(args []string) error {
	defaults := audiocompare.DefaultParams()

	fs := flag.NewFlagSet("audiocmp", flag.ContinueOnError)
	maxDiff := fs.Float64("max-length-diff", defaults.MaxLengthDifference, "Maximum duration difference in seconds")
	minCorr := fs.Float64("min-correlation", defaults.MinCorrelation, "Spectral correlation threshold in [-1, 1]")
	cutoff := fs.Float64("cutoff", defaults.LowpassCutoff, "Smoothing lowpass cutoff in Hz")
	tolerance := fs.Float64("shift-tolerance", defaults.ShiftToleranceSeconds, "Alignment search window in seconds")
	rate := fs.Float64("rate", defaults.Frequency, fmt.Sprintf("Sample rate assumed for both files in Hz (common: %d, %d, %d, %d)",
		audiocompare.RateTelephony, audiocompare.RateVoIP, audiocompare.RateCD, audiocompare.RateDAT))
	parallel := fs.Bool("parallel", false, "Filter both recordings concurrently")
	verbose := fs.Bool("v", false, "Verbose output")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: audiocmp [options] reference.wav recording.wav\n\nOptions:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	paths := fs.Args()
	if len(paths) < minRequiredArgs {
		fs.Usage()
		return fmt.Errorf("insufficient arguments")
	}

	params := audiocompare.Params{
		MaxLengthDifference:   *maxDiff,
		MinCorrelation:        *minCorr,
		LowpassCutoff:         *cutoff,
		ShiftToleranceSeconds: *tolerance,
		Frequency:             *rate,
		Parallel:              *parallel,
	}
	if err := params.Validate(); err != nil {
		return err
	}

	ref, err := loadInput(paths[0], params.Frequency, *verbose)
	if err != nil {
		return err
	}
	rec, err := loadInput(paths[1], params.Frequency, *verbose)
	if err != nil {
		return err
	}

	start := time.Now()
	report, err := audiocompare.Analyze(ref.Samples, float64(ref.SampleRate), rec.Samples, float64(rec.SampleRate), params)
	if err != nil {
		if stage, ok := audiocompare.FailedStage(err); ok {
			return fmt.Errorf("comparison failed during %s: %w", stage, err)
		}
		return err
	}
	elapsed := time.Since(start)

	printReport(paths[0], paths[1], report, params, elapsed, *verbose)
	if !report.Match {
		return errNoMatch
	}
	return nil
}

// loadInput decodes a WAV file, logging its format when verbose and any
// sample rate mismatch always.
func loadInput(path string, rate float64, verbose bool) (*wavio.Signal, error) {
	sig, err := wavio.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if verbose {
		log.Printf("Input %s: %d Hz, %d channels, %d-bit, %.2fs",
			filepath.Base(path), sig.SampleRate, sig.Channels, sig.BitDepth, sig.Duration())
	}
	if float64(sig.SampleRate) != rate {
		log.Printf("Warning: %s is %d Hz but comparison assumes %.0f Hz", filepath.Base(path), sig.SampleRate, rate)
	}
	return sig, nil
}

func printReport(path1, path2 string, report *audiocompare.Report, params audiocompare.Params, elapsed time.Duration, verbose bool) {
	verdict := "MATCH"
	if !report.Match {
		verdict = "NO MATCH"
	}
	fmt.Printf("%s: %s vs %s\n", verdict, filepath.Base(path1), filepath.Base(path2))

	if report.Stage == audiocompare.StageDurationCheck {
		fmt.Printf("  Durations %.2fs / %.2fs differ by %.2fs (limit %.2fs)\n",
			report.Duration1, report.Duration2, report.LengthDifference, params.MaxLengthDifference)
		return
	}

	fmt.Printf("  Score: %.4f (threshold %.4f)\n", report.Score, params.MinCorrelation)
	if verbose {
		fmt.Printf("  Shift: %d samples (%.1f ms)\n",
			report.Shift, float64(report.Shift)/params.Frequency*msPerSecond)
		fmt.Printf("  Aligned: %d samples (%.0f%% of reference)\n",
			report.AlignedSamples, float64(report.AlignedSamples)/(report.Duration1*params.Frequency)*percentScale)
		fmt.Printf("  Elapsed: %s\n", elapsed.Round(time.Millisecond))
	}
}
