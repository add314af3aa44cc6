// Package audio provides tone synthesis and blocking PCM playback with
// abstraction for testing.
package audio

import (
	"errors"
	"math"
	"time"
)

// PCM format written to every Sink: mono, signed 16-bit.
const (
	SampleRate = 44100

	// Amplitude is 50% of full scale.
	Amplitude = 16383

	// SilenceSamples are written after each tone so the output stops cleanly.
	SilenceSamples = 100

	// MaxToneSamples bounds a single tone buffer (10 seconds at SampleRate).
	MaxToneSamples = 10 * SampleRate
)

var (
	// ErrInvalidTone is returned for non-positive frequency, duration or sample rate.
	ErrInvalidTone = errors.New("audio: invalid tone parameters")

	// ErrToneTooLong is returned when a tone would exceed MaxToneSamples.
	ErrToneTooLong = errors.New("audio: tone buffer too large")
)

// Sink plays PCM samples.
type Sink interface {
	// Write plays the samples and blocks until the output has accepted all of them.
	Write(samples []int16) error

	// Close releases the output device.
	Close() error
}

// Tone synthesizes a sine wave of the given frequency and duration.
func Tone(freq int, d time.Duration, sampleRate int) ([]int16, error) {
	if freq <= 0 || d <= 0 || sampleRate <= 0 {
		return nil, ErrInvalidTone
	}

	n := int(int64(sampleRate) * d.Milliseconds() / 1000)
	if n <= 0 {
		return nil, ErrInvalidTone
	}
	if n > MaxToneSamples {
		return nil, ErrToneTooLong
	}

	buf := make([]int16, n)
	for i := range buf {
		s := math.Sin(2 * math.Pi * float64(freq) * float64(i) / float64(sampleRate))
		buf[i] = int16(s * Amplitude)
	}
	return buf, nil
}

// Silence returns n zero samples.
func Silence(n int) []int16 {
	return make([]int16, n)
}

// PlaybackTime is how long n samples take to play at SampleRate.
func PlaybackTime(n int) time.Duration {
	return time.Duration(n) * time.Second / SampleRate
}

// PlayTone synthesizes a tone and writes it to the sink followed by the silence flush.
func PlayTone(sink Sink, freq int, d time.Duration) error {
	buf, err := Tone(freq, d, SampleRate)
	if err != nil {
		return err
	}
	if err := sink.Write(buf); err != nil {
		return err
	}
	return sink.Write(Silence(SilenceSamples))
}
