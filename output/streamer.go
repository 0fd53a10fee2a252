// SPDX-License-Identifier: EPL-2.0

package output

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/gopxl/beep/v2"

	"github.com/ik5/audspatial/audio"
)

var (
	ErrNotStereo   = errors.New("output: source is not stereo")
	ErrShortBuffer = errors.New("output: read buffer smaller than one stereo frame")
)

// Streamer adapts an interleaved stereo audio.Source, such as a
// render.Renderer, to beep.Streamer.
type Streamer struct {
	src audio.Source
	buf []float32
	err error
}

func NewStreamer(src audio.Source) (*Streamer, error) {
	if src.Channels() != 2 {
		return nil, fmt.Errorf("%w: %d channels", ErrNotStereo, src.Channels())
	}
	return &Streamer{src: src}, nil
}

// Format describes the stream for beep consumers.
func (s *Streamer) Format() beep.Format {
	return beep.Format{
		SampleRate:  beep.SampleRate(s.src.SampleRate()),
		NumChannels: 2,
		Precision:   4,
	}
}

func (s *Streamer) Stream(samples [][2]float64) (int, bool) {
	if s.err != nil {
		return 0, false
	}

	need := len(samples) * 2
	if cap(s.buf) < need {
		s.buf = make([]float32, need)
	}
	buf := s.buf[:need]

	n, err := s.src.ReadSamples(buf)
	frames := n / 2
	for i := range frames {
		samples[i][0] = float64(buf[2*i])
		samples[i][1] = float64(buf[2*i+1])
	}

	if err != nil && !errors.Is(err, io.EOF) {
		s.err = err
	}
	if err != nil && frames == 0 {
		return 0, false
	}
	return frames, true
}

// Err returns the upstream error that ended the stream, if any.
func (s *Streamer) Err() error { return s.err }

// Mix plays every source at once. The mix ends when all sources have.
func Mix(srcs ...audio.Source) (beep.Streamer, error) {
	streamers := make([]beep.Streamer, 0, len(srcs))
	for _, src := range srcs {
		s, err := NewStreamer(src)
		if err != nil {
			return nil, err
		}
		streamers = append(streamers, s)
	}
	return beep.Mix(streamers...), nil
}

// Reader turns a beep.Streamer back into interleaved float32 little-endian
// PCM, the format oto players read.
type Reader struct {
	s   beep.Streamer
	buf [][2]float64
}

func NewReader(s beep.Streamer) *Reader {
	return &Reader{s: s}
}

func (r *Reader) Read(p []byte) (int, error) {
	frames := len(p) / 8
	if frames == 0 {
		return 0, ErrShortBuffer
	}

	if cap(r.buf) < frames {
		r.buf = make([][2]float64, frames)
	}
	buf := r.buf[:frames]

	n, ok := r.s.Stream(buf)
	if !ok || n == 0 {
		if err := r.s.Err(); err != nil {
			return 0, err
		}
		return 0, io.EOF
	}

	for i, f := range buf[:n] {
		binary.LittleEndian.PutUint32(p[8*i:], math.Float32bits(float32(f[0])))
		binary.LittleEndian.PutUint32(p[8*i+4:], math.Float32bits(float32(f[1])))
	}
	return 8 * n, nil
}
