// SPDX-License-Identifier: EPL-2.0

// Package audio provides the pull-based sample stream contract shared by
// decoders, the spatial renderer and playback sinks.
//
// # Source Interface
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Decoders produce a Source, the renderer consumes a mono Source and itself
// implements Source as an interleaved stereo stream, so sinks only ever need
// to know this one interface.
//
// # Channel Mixing
//
// The renderer works on mono input. MonoMixer averages the channels of any
// Source down to one:
//
//	mono := audio.NewMonoMixer(source)
//	buf := make([]float32, 4096)
//	n, err := mono.ReadSamples(buf)
//
// # Format Registry
//
// Registry maps file extensions to decoders:
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", decode.WAVDecoder{})
//	decoder, _ := registry.Get(".WAV")
//
// # Sample Format
//
// Samples are float32 in [-1.0, 1.0]. ReadSamples returns io.EOF when the
// stream is finished; a short read with a nil error is not the end.
//
//	for {
//	    n, err := source.ReadSamples(buf)
//	    // use buf[:n]
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	}
package audio
