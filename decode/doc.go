// SPDX-License-Identifier: EPL-2.0

// Package decode turns audio files into audio.Source streams for the
// renderer.
//
// # Formats
//
//   - WAV: integer PCM, 8/16/24/32 bit (github.com/go-audio/wav)
//   - AIFF: integer PCM (github.com/go-audio/aiff)
//   - MP3: always decoded to 16-bit stereo (github.com/hajimehoshi/go-mp3)
//   - Ogg Vorbis (github.com/jfreymuth/oggvorbis)
//
// # Opening files
//
// Open picks a decoder by file extension and returns a Source that closes the
// underlying file on Close. OpenMono additionally folds the stream to one
// channel, which is what a spatial source expects:
//
//	src, err := decode.OpenMono("footsteps.ogg")
//	if err != nil {
//	    return err
//	}
//	defer src.Close()
//
// NewRegistry returns the same mapping as an audio.Registry for callers that
// want to add decoders of their own and use OpenWith.
//
// # Writing
//
// WriteWAV16 writes interleaved int16 PCM with a canonical 44-byte header,
// which is how a rendered stereo stream is saved to disk.
package decode
