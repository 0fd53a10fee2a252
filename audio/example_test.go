// SPDX-License-Identifier: EPL-2.0

package audio_test

import (
	"fmt"
	"io"

	"github.com/ik5/audspatial/audio"
	"github.com/ik5/audspatial/internal/audiotest"
)

// Example_monoMixer folds a stereo stream to the mono input a spatial
// source needs.
func Example_monoMixer() {
	stereo := audiotest.NewMockSource(44100, 2, 4, func(_ int, ch int) float32 {
		if ch == 0 {
			return 1
		}
		return 0
	})

	mono := audio.NewMonoMixer(stereo)
	defer mono.Close()

	buf := make([]float32, 4)
	n, err := mono.ReadSamples(buf)
	if err != nil && err != io.EOF {
		fmt.Println("error:", err)
		return
	}

	fmt.Printf("%d channel, %d samples: %v\n", mono.Channels(), n, buf[:n])
	// Output:
	// 1 channel, 4 samples: [0.5 0.5 0.5 0.5]
}

type nopDecoder struct{}

func (nopDecoder) Decode(io.Reader) (audio.Source, error) {
	return audiotest.NewSilentSource(8000, 1, 0), nil
}

// Example_registry looks decoders up by file extension.
func Example_registry() {
	registry := audio.NewRegistry()
	registry.Register("wav", nopDecoder{})
	registry.Register("ogg", nopDecoder{})

	_, ok := registry.Get(".WAV")
	fmt.Println("wav:", ok)

	_, ok = registry.Get("flac")
	fmt.Println("flac:", ok)

	fmt.Println("formats:", registry.Formats())
	// Output:
	// wav: true
	// flac: false
	// formats: [ogg wav]
}
