// Command analyze-filter prints the response of the smoothing lowpass used
// before alignment, both from its closed form and as measured on test tones.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"

	"github.com/tphakala/go-audio-compare/internal/filter"
	"github.com/tphakala/go-audio-compare/internal/transform"
)

const (
	defaultCutoff     = 3000.0  // Hz
	defaultSampleRate = 16000.0 // Hz

	// Measurement length; tones are placed on exact bins of this size.
	measureLength = 4096

	// Settling samples skipped before measuring steady-state gain.
	settleSamples = 256

	dbScale = 20.0
)

func main() {
	cutoff := flag.Float64("cutoff", defaultCutoff, "Lowpass cutoff in Hz")
	rate := flag.Float64("rate", defaultSampleRate, "Sample rate in Hz")
	flag.Parse()

	if err := run(*cutoff, *rate); err != nil {
		log.Fatal(err)
	}
}

func run(cutoff, rate float64) error {
	alpha, err := filter.Alpha(cutoff, rate)
	if err != nil {
		return err
	}

	fmt.Println("=== Smoothing Filter Response ===")
	fmt.Printf("  Cutoff: %.0f Hz\n", cutoff)
	fmt.Printf("  Sample rate: %.0f Hz\n", rate)
	fmt.Printf("  Alpha: %.6f\n\n", alpha)

	fmt.Printf("%10s %12s %12s %10s\n", "Freq (Hz)", "Analytic", "Measured", "dB")
	for _, freq := range probeFrequencies(rate) {
		analytic, err := filter.Response(cutoff, rate, freq)
		if err != nil {
			return err
		}
		measured, err := measureGain(freq, cutoff, rate)
		if err != nil {
			return err
		}
		fmt.Printf("%10.1f %12.6f %12.6f %10.2f\n", freq, analytic, measured, dbScale*math.Log10(analytic))
	}
	return nil
}

// probeFrequencies returns frequencies that land on exact transform bins
// between DC and just below Nyquist.
func probeFrequencies(rate float64) []float64 {
	binWidth := rate / measureLength
	bins := []int{1, 16, 64, 128, 256, 512, 768, 1024, 1536, 2000}
	freqs := make([]float64, 0, len(bins))
	for _, b := range bins {
		if b < measureLength/2 {
			freqs = append(freqs, float64(b)*binWidth)
		}
	}
	return freqs
}

// measureGain filters a cosine at freq and compares spectral peaks of the
// settled output and input.
func measureGain(freq, cutoff, rate float64) (float64, error) {
	total := measureLength + settleSamples
	tone := make([]float64, total)
	for i := range tone {
		tone[i] = math.Cos(2 * math.Pi * freq * float64(i) / rate)
	}

	out, err := filter.Lowpass(tone, cutoff, rate)
	if err != nil {
		return 0, err
	}

	bin := int(math.Round(freq * measureLength / rate))
	inSpec, err := transform.Magnitude(tone[settleSamples:])
	if err != nil {
		return 0, err
	}
	outSpec, err := transform.Magnitude(out[settleSamples:])
	if err != nil {
		return 0, err
	}
	return outSpec[bin] / inSpec[bin], nil
}
