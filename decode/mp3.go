// SPDX-License-Identifier: EPL-2.0

package decode

import (
	"encoding/binary"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ik5/audspatial/audio"
)

// mp3Reader is the part of gomp3.Decoder the source needs.
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

type mp3Source struct {
	dec        mp3Reader
	sampleRate int
	buf        []byte
	// pending holds the low byte of a sample split across two reads
	pending []byte
}

func (s *mp3Source) SampleRate() int { return s.sampleRate }

// Channels is always 2: go-mp3 decodes every stream to stereo.
func (s *mp3Source) Channels() int { return 2 }
func (s *mp3Source) Close() error  { return nil }
func (s *mp3Source) BufSize() int  { return cap(s.buf) / 2 }

func (s *mp3Source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	need := len(dst) * 2
	if cap(s.buf) < need {
		s.buf = make([]byte, need)
	}
	buf := s.buf[:need]

	carried := copy(buf, s.pending)
	s.pending = s.pending[:0]

	n, err := s.dec.Read(buf[carried:])
	n += carried

	samples := n / 2
	if n%2 == 1 {
		s.pending = append(s.pending, buf[n-1])
	}

	for i := range samples {
		dst[i] = float32(int16(binary.LittleEndian.Uint16(buf[2*i:]))) / 32768
	}

	if samples == 0 && err == nil {
		return 0, nil
	}
	return samples, err
}

// MP3Decoder decodes MPEG-1/2 Layer III to 16-bit stereo.
type MP3Decoder struct{}

func (MP3Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("mp3: %w", err)
	}

	return &mp3Source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		buf:        make([]byte, 8192),
		pending:    make([]byte, 0, 1),
	}, nil
}
