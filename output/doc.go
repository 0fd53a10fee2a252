// SPDX-License-Identifier: EPL-2.0

// Package output connects renderers to playback: each renderer becomes a
// beep.Streamer, several are summed with beep.Mix, and Reader turns the mix
// into the float32 PCM byte stream an audio device consumes.
package output
