// SPDX-License-Identifier: EPL-2.0

package decode

import (
	"errors"
	"io"
	"math"
	"testing"

	goaudio "github.com/go-audio/audio"
)

// mockPCMReader simulates the go-audio wav and aiff decoders.
type mockPCMReader struct {
	sampleRate int
	channels   int
	samples    []int
	offset     int
	err        error
}

func (m *mockPCMReader) Format() *goaudio.Format {
	return &goaudio.Format{
		SampleRate:  m.sampleRate,
		NumChannels: m.channels,
	}
}

func (m *mockPCMReader) PCMBuffer(buf *goaudio.IntBuffer) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	n := copy(buf.Data, m.samples[m.offset:])
	m.offset += n
	return n, nil
}

type closeCounter struct{ n int }

func (c *closeCounter) Close() error {
	c.n++
	return nil
}

func TestPCMScale(t *testing.T) {
	t.Parallel()

	tests := []struct {
		bits int
		want float32
	}{
		{8, 1.0 / 128},
		{16, 1.0 / 32768},
		{24, 1.0 / 8388608},
		{32, 1.0 / 2147483648},
	}

	for _, tt := range tests {
		got, err := pcmScale(tt.bits)
		if err != nil {
			t.Fatalf("pcmScale(%d) error = %v", tt.bits, err)
		}
		if got != tt.want {
			t.Errorf("pcmScale(%d) = %g, want %g", tt.bits, got, tt.want)
		}
	}

	if _, err := pcmScale(12); !errors.Is(err, ErrUnsupportedBitDepth) {
		t.Errorf("pcmScale(12) error = %v, want ErrUnsupportedBitDepth", err)
	}
}

func TestPCMSource_ReadSamples(t *testing.T) {
	t.Parallel()

	dec := &mockPCMReader{
		sampleRate: 22050,
		channels:   2,
		samples:    []int{0, 16384, -16384, 32767, -32768, 0},
	}
	src, err := newPCMSource(dec, 16, nil)
	if err != nil {
		t.Fatalf("newPCMSource() error = %v", err)
	}

	if src.SampleRate() != 22050 || src.Channels() != 2 {
		t.Fatalf("format = %d Hz/%d ch, want 22050 Hz/2 ch", src.SampleRate(), src.Channels())
	}

	dst := make([]float32, 4)
	n, err := src.ReadSamples(dst)
	if err != nil {
		t.Fatalf("ReadSamples() error = %v", err)
	}
	if n != 4 {
		t.Fatalf("ReadSamples() n = %d, want 4", n)
	}

	want := []float32{0, 0.5, -0.5, 32767.0 / 32768}
	for i := range want {
		if math.Abs(float64(dst[i]-want[i])) > 1e-6 {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}

	n, err = src.ReadSamples(dst)
	if n != 2 || err != io.EOF {
		t.Errorf("short read = (%d, %v), want (2, io.EOF)", n, err)
	}

	n, err = src.ReadSamples(dst)
	if n != 0 || err != io.EOF {
		t.Errorf("read after end = (%d, %v), want (0, io.EOF)", n, err)
	}
}

func TestPCMSource_EmptyBuffer(t *testing.T) {
	t.Parallel()

	src, err := newPCMSource(&mockPCMReader{sampleRate: 8000, channels: 1, samples: []int{1}}, 16, nil)
	if err != nil {
		t.Fatalf("newPCMSource() error = %v", err)
	}

	n, err := src.ReadSamples(nil)
	if n != 0 || err != nil {
		t.Errorf("ReadSamples(nil) = (%d, %v), want (0, nil)", n, err)
	}
}

func TestPCMSource_DecoderError(t *testing.T) {
	t.Parallel()

	src, err := newPCMSource(&mockPCMReader{sampleRate: 8000, channels: 1, err: io.ErrUnexpectedEOF}, 16, nil)
	if err != nil {
		t.Fatalf("newPCMSource() error = %v", err)
	}

	if _, err := src.ReadSamples(make([]float32, 8)); err != io.ErrUnexpectedEOF {
		t.Errorf("ReadSamples() error = %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestPCMSource_Offset(t *testing.T) {
	t.Parallel()

	src, err := newPCMSource(&mockPCMReader{sampleRate: 8000, channels: 1, samples: []int{128, 0, 255}}, 8, nil)
	if err != nil {
		t.Fatalf("newPCMSource() error = %v", err)
	}
	src.offset = -128

	dst := make([]float32, 3)
	if _, err := src.ReadSamples(dst); err != nil {
		t.Fatalf("ReadSamples() error = %v", err)
	}

	want := []float32{0, -1, 127.0 / 128}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}
}

func TestPCMSource_InvalidChannels(t *testing.T) {
	t.Parallel()

	_, err := newPCMSource(&mockPCMReader{sampleRate: 8000}, 16, nil)
	if !errors.Is(err, ErrInvalidChannels) {
		t.Errorf("newPCMSource() error = %v, want ErrInvalidChannels", err)
	}
}

func TestPCMSource_Close(t *testing.T) {
	t.Parallel()

	closer := &closeCounter{}
	src, err := newPCMSource(&mockPCMReader{sampleRate: 8000, channels: 1}, 16, closer)
	if err != nil {
		t.Fatalf("newPCMSource() error = %v", err)
	}

	if err := src.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if closer.n != 1 {
		t.Errorf("closer called %d times, want 1", closer.n)
	}
}
