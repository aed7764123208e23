package audiocompare

import (
	"io"

	"github.com/tphakala/go-audio-compare/internal/simdops"
	"github.com/tphakala/go-audio-compare/internal/wavio"
)

// ErrDecode indicates that an input file could not be decoded. It is never
// returned by the comparison itself.
var ErrDecode = wavio.ErrDecode

// CompareFloat32 is like Compare but for float32 samples.
func CompareFloat32(samples1 []float32, rate1 float64, samples2 []float32, rate2 float64, p Params) (bool, error) {
	return Compare(simdops.ToFloat64(samples1), rate1, simdops.ToFloat64(samples2), rate2, p)
}

// AnalyzeFloat32 is like Analyze but for float32 samples.
func AnalyzeFloat32(samples1 []float32, rate1 float64, samples2 []float32, rate2 float64, p Params) (*Report, error) {
	return Analyze(simdops.ToFloat64(samples1), rate1, simdops.ToFloat64(samples2), rate2, p)
}

// CompareFiles decodes two PCM WAV files and compares them.
//
// Multi-channel files are downmixed to mono and samples are normalized by
// the full scale of their bit depth. The sample rates stored in the files are
// reported but not used: both signals are analysed at p.Frequency.
func CompareFiles(path1, path2 string, p Params) (bool, error) {
	report, err := AnalyzeFiles(path1, path2, p)
	if err != nil {
		return false, err
	}
	return report.Match, nil
}

// AnalyzeFiles is like CompareFiles but returns the full report.
func AnalyzeFiles(path1, path2 string, p Params) (*Report, error) {
	sig1, err := wavio.ReadFile(path1)
	if err != nil {
		return nil, err
	}
	sig2, err := wavio.ReadFile(path2)
	if err != nil {
		return nil, err
	}
	return Analyze(sig1.Samples, float64(sig1.SampleRate), sig2.Samples, float64(sig2.SampleRate), p)
}

// CompareWAV compares two PCM WAV streams. See CompareFiles.
func CompareWAV(r1, r2 io.ReadSeeker, p Params) (bool, error) {
	sig1, err := wavio.Decode(r1)
	if err != nil {
		return false, err
	}
	sig2, err := wavio.Decode(r2)
	if err != nil {
		return false, err
	}
	return Compare(sig1.Samples, float64(sig1.SampleRate), sig2.Samples, float64(sig2.SampleRate), p)
}
