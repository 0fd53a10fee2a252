// SPDX-License-Identifier: EPL-2.0

// Package audiotest holds deterministic audio sources for tests.
package audiotest

import (
	"io"
	"math"
	"sync/atomic"
)

// Waveform returns the value of one sample for one channel.
type Waveform func(sample int, channel int) float32

// MockSource generates totalSamples frames from a Waveform.
// It implements audio.Source (without importing it to avoid cycles) and
// counts how many frames have been handed out, so tests can check how far
// a consumer has pulled.
type MockSource struct {
	sampleRate   int
	channels     int
	totalSamples int
	generated    atomic.Int64
	waveform     Waveform

	// ChunkLimit caps the frames returned by one ReadSamples call (0 = no cap),
	// to simulate decoders that return short reads.
	ChunkLimit int
	// FailAfter makes ReadSamples return Err once this many frames were produced (0 = never).
	FailAfter int
	Err       error

	closed atomic.Bool
}

func NewMockSource(sampleRate, channels, totalSamples int, waveform Waveform) *MockSource {
	return &MockSource{
		sampleRate:   sampleRate,
		channels:     channels,
		totalSamples: totalSamples,
		waveform:     waveform,
	}
}

// NewSilentSource creates a mock source that generates silence (all zeros).
func NewSilentSource(sampleRate, channels, totalSamples int) *MockSource {
	return NewConstantSource(sampleRate, channels, totalSamples, 0)
}

// NewSineSource creates a mock source that generates a sine wave.
func NewSineSource(sampleRate, channels, totalSamples int, frequency float64) *MockSource {
	return NewMockSource(sampleRate, channels, totalSamples, func(sample int, _ int) float32 {
		t := float64(sample) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	})
}

// NewConstantSource creates a mock source with constant value.
func NewConstantSource(sampleRate, channels, totalSamples int, value float32) *MockSource {
	return NewMockSource(sampleRate, channels, totalSamples, func(int, int) float32 {
		return value
	})
}

// NewImpulseSource emits 1.0 at frame index at and zeros elsewhere.
func NewImpulseSource(sampleRate, channels, totalSamples, at int) *MockSource {
	return NewMockSource(sampleRate, channels, totalSamples, func(sample int, _ int) float32 {
		if sample == at {
			return 1
		}
		return 0
	})
}

// NewRampSource emits sample*step, handy for spotting reordered or dropped frames.
func NewRampSource(sampleRate, channels, totalSamples int, step float32) *MockSource {
	return NewMockSource(sampleRate, channels, totalSamples, func(sample int, _ int) float32 {
		return float32(sample) * step
	})
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BufSize() int    { return 4096 }

func (m *MockSource) Close() error {
	m.closed.Store(true)
	return nil
}

// Closed reports whether Close was called.
func (m *MockSource) Closed() bool { return m.closed.Load() }

// Generated returns the number of frames handed out so far.
func (m *MockSource) Generated() int { return int(m.generated.Load()) }

// Reset rewinds the generator.
func (m *MockSource) Reset() { m.generated.Store(0) }

func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	generated := int(m.generated.Load())
	if m.FailAfter > 0 && generated >= m.FailAfter {
		return 0, m.Err
	}
	if generated >= m.totalSamples {
		return 0, io.EOF
	}

	frames := min(len(dst)/m.channels, m.totalSamples-generated)
	if m.ChunkLimit > 0 {
		frames = min(frames, m.ChunkLimit)
	}
	if m.FailAfter > 0 {
		frames = min(frames, m.FailAfter-generated)
	}

	for frame := range frames {
		for ch := range m.channels {
			dst[frame*m.channels+ch] = m.waveform(generated+frame, ch)
		}
	}

	generated += frames
	m.generated.Store(int64(generated))

	if generated >= m.totalSamples {
		return frames * m.channels, io.EOF
	}

	return frames * m.channels, nil
}
