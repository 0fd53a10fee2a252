// SPDX-License-Identifier: EPL-2.0

// Package render is the streaming core: a pull-based Renderer that turns a
// mono audio.Source into binaural stereo, one interleaved sample at a time.
//
// # State Machine
//
//	Priming --first frame--> Streaming --upstream ended / effect failed--> Exhausted
//
// While Streaming, Next serves the buffered output frame as L, R, L, R and
// only renders the next frame once the current one is used up. Running out
// of upstream samples mid-frame ends the stream; the partial frame is
// dropped, never padded with silence.
//
// # Effect Chain
//
// For every frame the Chain evaluates distance attenuation, air absorption
// and directivity from the current spatial.State, applies them to the mono
// signal with the direct effect and finally convolves with the HRTF.
//
// # Failures
//
// An effect error or panic stops only the renderer it happened in: the
// renderer becomes Exhausted, Err reports the cause and the shared bundle
// stays valid for every other renderer.
//
// # Consumers
//
// Besides Next, a Renderer is an audio.Source (ReadSamples) and an
// io.Reader of float32 little-endian PCM, the format playback devices take.
package render
