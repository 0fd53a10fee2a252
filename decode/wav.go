// SPDX-License-Identifier: EPL-2.0

package decode

import (
	"fmt"
	"io"

	"github.com/go-audio/wav"

	"github.com/ik5/audspatial/audio"
)

// wavFormatPCM is the WAVE_FORMAT_PCM format tag.
const wavFormatPCM = 1

// WAVDecoder decodes integer PCM WAV files of 8, 16, 24 or 32 bits.
type WAVDecoder struct{}

func (WAVDecoder) Decode(r io.Reader) (audio.Source, error) {
	rs, err := readSeeker(r)
	if err != nil {
		return nil, fmt.Errorf("wav: %w", err)
	}

	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWAVFile
	}

	dec.ReadInfo()
	if err := dec.Err(); err != nil {
		return nil, fmt.Errorf("wav: %w", err)
	}
	if dec.WavAudioFormat != wavFormatPCM {
		return nil, fmt.Errorf("%w: wav format tag %d", ErrUnsupportedBitDepth, dec.WavAudioFormat)
	}

	src, err := newPCMSource(dec, int(dec.BitDepth), nil)
	if err != nil {
		return nil, fmt.Errorf("wav: %w", err)
	}
	if dec.BitDepth == 8 {
		src.offset = -128
	}
	return src, nil
}
