// Package wavio decodes PCM WAV files into normalized mono sample sequences
// and writes them back for fixtures and examples.
package wavio

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/tphakala/go-audio-compare/internal/simdops"
)

var (
	// ErrDecode indicates the input could not be read as PCM WAV audio.
	ErrDecode = errors.New("wav decode failed")

	// ErrUnsupportedBitDepth indicates a PCM sample width other than 16, 24 or 32 bits.
	ErrUnsupportedBitDepth = errors.New("unsupported PCM bit depth")
)

const (
	bitsPerSample16 = 16
	bitsPerSample24 = 24
	bitsPerSample32 = 32

	maxInt16 = 32767.0
	maxInt24 = 8388607.0
	maxInt32 = 2147483647.0

	pcmFormat = 1
)

// Signal is a decoded mono signal.
type Signal struct {
	Samples    []float64 // normalized to [-1, 1]
	SampleRate int
	Channels   int // channel count of the source before downmixing
	BitDepth   int
}

// Duration returns the signal length in seconds.
func (s *Signal) Duration() float64 {
	if s.SampleRate <= 0 {
		return 0
	}
	return float64(len(s.Samples)) / float64(s.SampleRate)
}

// FullScale returns the largest positive sample value for a PCM bit depth.
func FullScale(bitDepth int) (float64, error) {
	switch bitDepth {
	case bitsPerSample16:
		return maxInt16, nil
	case bitsPerSample24:
		return maxInt24, nil
	case bitsPerSample32:
		return maxInt32, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}
}

// Decode reads a complete PCM WAV stream. Multi-channel audio is downmixed
// to mono by averaging the channels of each frame.
func Decode(r io.ReadSeeker) (*Signal, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("%w: not a valid WAV file", ErrDecode)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if buf.Format == nil || buf.Format.NumChannels < 1 || buf.Format.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: missing format information", ErrDecode)
	}

	bitDepth := int(decoder.BitDepth)
	fullScale, err := FullScale(bitDepth)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	channels := buf.Format.NumChannels
	samples := downmix(buf.Data, channels)
	simdops.For[float64]().Scale(samples, samples, 1/fullScale)

	return &Signal{
		Samples:    samples,
		SampleRate: buf.Format.SampleRate,
		Channels:   channels,
		BitDepth:   bitDepth,
	}, nil
}

// ReadFile decodes the WAV file at path.
func ReadFile(path string) (*Signal, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	defer func() { _ = f.Close() }()

	sig, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sig, nil
}

// downmix averages interleaved frames into a mono float slice. A trailing
// partial frame is dropped.
func downmix(data []int, channels int) []float64 {
	frames := len(data) / channels
	out := make([]float64, frames)
	if channels == 1 {
		for i := range out {
			out[i] = float64(data[i])
		}
		return out
	}

	inv := 1 / float64(channels)
	for i := range out {
		var sum int
		for ch := range channels {
			sum += data[i*channels+ch]
		}
		out[i] = float64(sum) * inv
	}
	return out
}

// Encode writes mono samples in [-1, 1] as PCM WAV. Samples outside the
// range are clipped.
func Encode(w io.WriteSeeker, samples []float64, sampleRate, bitDepth int) error {
	fullScale, err := FullScale(bitDepth)
	if err != nil {
		return err
	}

	data := make([]int, len(samples))
	for i, v := range samples {
		v = max(-1, min(1, v))
		data[i] = int(v * fullScale)
	}

	encoder := wav.NewEncoder(w, sampleRate, bitDepth, 1, pcmFormat)
	buf := &audio.IntBuffer{
		Data:           data,
		Format:         &audio.Format{SampleRate: sampleRate, NumChannels: 1},
		SourceBitDepth: bitDepth,
	}
	if err := encoder.Write(buf); err != nil {
		return fmt.Errorf("failed to write audio data: %w", err)
	}
	return encoder.Close()
}

// WriteFile encodes samples into a new WAV file at path.
func WriteFile(path string, samples []float64, sampleRate, bitDepth int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := Encode(f, samples, sampleRate, bitDepth); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
