// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// MonoMixer folds an interleaved multi-channel Source down to one channel by
// averaging each frame. Mono sources pass straight through.
type MonoMixer struct {
	src Source
	tmp []float32
	// carry holds the start of a frame the last upstream read split.
	carry []float32
}

func NewMonoMixer(src Source) *MonoMixer {
	return &MonoMixer{
		src: src,
		tmp: make([]float32, 0, 8192),
	}
}

func (m *MonoMixer) SampleRate() int { return m.src.SampleRate() }
func (m *MonoMixer) Channels() int   { return 1 }
func (m *MonoMixer) BufSize() int    { return m.src.BufSize() }

func (m *MonoMixer) Close() error {
	if err := m.src.Close(); err != nil {
		return fmt.Errorf("mono mixer: %w", err)
	}

	return nil
}

// ReadSamples writes at most len(dst) mono samples. The upstream read is
// sized in whole frames; if upstream still returns part of a frame, the
// remainder is kept and completed by the next call.
func (m *MonoMixer) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	channels := m.src.Channels()
	switch {
	case channels <= 0:
		return 0, ErrNoChannels
	case channels == 1:
		return m.src.ReadSamples(dst)
	}

	need := len(dst) * channels
	if cap(m.tmp) < need {
		m.tmp = make([]float32, need)
	}
	m.tmp = m.tmp[:need]

	// a channel count change drops the stale partial frame
	if len(m.carry) >= channels {
		m.carry = m.carry[:0]
	}
	held := copy(m.tmp, m.carry)

	n, err := m.src.ReadSamples(m.tmp[held:])
	total := held + n
	frames := total / channels
	m.carry = append(m.carry[:0], m.tmp[frames*channels:total]...)
	if frames == 0 {
		return 0, err
	}

	switch channels {
	case 2:
		for f := range frames {
			dst[f] = (m.tmp[2*f] + m.tmp[2*f+1]) * 0.5
		}
	default:
		inv := 1 / float32(channels)
		for f := range frames {
			var sum float32
			for _, v := range m.tmp[f*channels : (f+1)*channels] {
				sum += v
			}
			dst[f] = sum * inv
		}
	}

	return frames, err
}
