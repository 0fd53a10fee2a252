// SPDX-License-Identifier: EPL-2.0

package decode

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ik5/audspatial/audio"
)

// NewRegistry returns a registry with every decoder in this package.
func NewRegistry() *audio.Registry {
	r := audio.NewRegistry()
	r.Register("wav", WAVDecoder{})
	r.Register("wave", WAVDecoder{})
	r.Register("aif", AIFFDecoder{})
	r.Register("aiff", AIFFDecoder{})
	r.Register("mp3", MP3Decoder{})
	r.Register("ogg", VorbisDecoder{})
	r.Register("oga", VorbisDecoder{})
	return r
}

var defaultRegistry = NewRegistry()

// Open decodes the file at path, picking the decoder by extension. The
// returned Source owns the file and closes it on Close.
func Open(path string) (audio.Source, error) {
	return OpenWith(defaultRegistry, path)
}

// OpenWith is Open with a caller supplied registry.
func OpenWith(reg *audio.Registry, path string) (audio.Source, error) {
	ext := filepath.Ext(path)
	dec, ok := reg.Get(ext)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	src, err := dec.Decode(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	return &fileSource{Source: src, f: f}, nil
}

// OpenMono is Open followed by a mono downmix.
func OpenMono(path string) (audio.Source, error) {
	src, err := Open(path)
	if err != nil {
		return nil, err
	}
	if src.Channels() == 1 {
		return src, nil
	}
	return audio.NewMonoMixer(src), nil
}

type fileSource struct {
	audio.Source
	f *os.File
}

func (s *fileSource) Close() error {
	srcErr := s.Source.Close()
	if err := s.f.Close(); err != nil {
		return err
	}
	return srcErr
}
