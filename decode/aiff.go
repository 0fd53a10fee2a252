// SPDX-License-Identifier: EPL-2.0

package decode

import (
	"fmt"
	"io"

	"github.com/go-audio/aiff"

	"github.com/ik5/audspatial/audio"
)

// AIFFDecoder decodes integer PCM AIFF files.
type AIFFDecoder struct{}

func (AIFFDecoder) Decode(r io.Reader) (audio.Source, error) {
	rs, err := readSeeker(r)
	if err != nil {
		return nil, fmt.Errorf("aiff: %w", err)
	}

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAIFFFile
	}

	dec.ReadInfo()
	if err := dec.Err(); err != nil {
		return nil, fmt.Errorf("aiff: %w", err)
	}

	src, err := newPCMSource(dec, int(dec.BitDepth), nil)
	if err != nil {
		return nil, fmt.Errorf("aiff: %w", err)
	}
	return src, nil
}
