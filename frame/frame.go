// SPDX-License-Identifier: EPL-2.0

package frame

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audspatial/audio"
)

var (
	ErrInvalidShape    = errors.New("frame size and channel count must be positive")
	ErrChannelMismatch = errors.New("source channel count does not match frame")
)

// maxEmptyReads bounds how many (0, nil) reads FillFrom tolerates before
// giving up with io.ErrNoProgress.
const maxEmptyReads = 100

// Frame is a deinterleaved block of frameSize samples per channel, the unit
// every effect works on.
type Frame struct {
	data       [][]float32
	sampleRate int
	// interleaved scratch for FillFrom
	scratch []float32
}

// New allocates a zero-filled frame.
func New(frameSize, channels, sampleRate int) (*Frame, error) {
	if frameSize <= 0 || channels <= 0 {
		return nil, fmt.Errorf("%w: size=%d channels=%d", ErrInvalidShape, frameSize, channels)
	}

	backing := make([]float32, frameSize*channels)
	data := make([][]float32, channels)
	for ch := range data {
		data[ch] = backing[ch*frameSize : (ch+1)*frameSize : (ch+1)*frameSize]
	}

	return &Frame{data: data, sampleRate: sampleRate}, nil
}

// Len is the number of samples per channel.
func (f *Frame) Len() int        { return len(f.data[0]) }
func (f *Frame) Channels() int   { return len(f.data) }
func (f *Frame) SampleRate() int { return f.sampleRate }

// Channel returns the samples of channel ch. The slice aliases the frame.
func (f *Frame) Channel(ch int) []float32 { return f.data[ch] }

// SameShape reports whether o has the same length and channel count.
func (f *Frame) SameShape(o *Frame) bool {
	return o != nil && f.Len() == o.Len() && f.Channels() == o.Channels()
}

// Zero clears every channel.
func (f *Frame) Zero() {
	for _, ch := range f.data {
		clear(ch)
	}
}

// CopyFrom copies the samples of o, which must have the same shape.
func (f *Frame) CopyFrom(o *Frame) error {
	if !f.SameShape(o) {
		return fmt.Errorf("%w: %dx%d vs %dx%d", ErrInvalidShape, f.Channels(), f.Len(), o.Channels(), o.Len())
	}
	for ch := range f.data {
		copy(f.data[ch], o.data[ch])
	}
	return nil
}

// FillFrom pulls exactly Len() frames from src and deinterleaves them.
//
// It returns true only when the whole frame was filled. Running out of input
// part way through is end of stream, reported as (false, nil); the frame
// contents are then undefined and must not be used. There is no zero padding.
// Read failures other than io.EOF are returned as errors.
func (f *Frame) FillFrom(src audio.Source) (bool, error) {
	channels := f.Channels()
	if src.Channels() != channels {
		return false, fmt.Errorf("%w: source has %d, frame has %d", ErrChannelMismatch, src.Channels(), channels)
	}

	need := f.Len() * channels
	if cap(f.scratch) < need {
		f.scratch = make([]float32, need)
	}
	buf := f.scratch[:need]

	filled, empty := 0, 0
	for filled < need {
		n, err := src.ReadSamples(buf[filled:])
		filled += n

		switch {
		case errors.Is(err, io.EOF):
			if filled < need {
				return false, nil
			}
		case err != nil:
			return false, fmt.Errorf("frame fill: %w", err)
		}

		if n == 0 {
			empty++
			if empty >= maxEmptyReads {
				return false, fmt.Errorf("frame fill: %w", io.ErrNoProgress)
			}
		} else {
			empty = 0
		}
	}

	if channels == 1 {
		copy(f.data[0], buf)
		return true, nil
	}

	for i := range f.Len() {
		for ch := range channels {
			f.data[ch][i] = buf[i*channels+ch]
		}
	}

	return true, nil
}
