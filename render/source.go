// SPDX-License-Identifier: EPL-2.0

package render

import (
	"encoding/binary"
	"io"
	"math"
)

// Channels, BufSize and ReadSamples make a Renderer an audio.Source of
// interleaved stereo samples.

func (r *Renderer) Channels() int { return ChannelCount }
func (r *Renderer) BufSize() int  { return r.frameSize * ChannelCount }

// ReadSamples fills dst with interleaved samples. It returns io.EOF once the
// stream has ended, or the error that stopped it.
func (r *Renderer) ReadSamples(dst []float32) (int, error) {
	for i := range dst {
		v, ok := r.Next()
		if !ok {
			return i, r.endErr()
		}
		dst[i] = v
	}
	return len(dst), nil
}

// Read implements io.Reader, producing interleaved float32 little-endian
// PCM. Only whole samples are written.
func (r *Renderer) Read(p []byte) (int, error) {
	if len(p) < 4 {
		return 0, ErrShortBuffer
	}

	n := 0
	for n+4 <= len(p) {
		v, ok := r.Next()
		if !ok {
			if n > 0 {
				return n, nil
			}
			return 0, r.endErr()
		}
		binary.LittleEndian.PutUint32(p[n:], math.Float32bits(v))
		n += 4
	}
	return n, nil
}

func (r *Renderer) endErr() error {
	if err := r.Err(); err != nil {
		return err
	}
	return io.EOF
}
