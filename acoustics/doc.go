// SPDX-License-Identifier: EPL-2.0

// Package acoustics is the acoustic math behind the renderer: a shared
// Context, a synthetic spherical-head HRTF, the listener Simulator, the
// pluggable distance/air/directivity models and the two per-stream effects.
//
// Objects built from a Context (HRTF, Simulator) are read-only once
// constructed and may be shared by any number of renderers. Effects carry
// filter and convolution state and belong to exactly one stream:
//
//	ctx, _ := acoustics.NewContext(acoustics.ContextSettings{})
//	hrtf, _ := acoustics.NewHRTF(ctx, audioSettings, acoustics.DefaultHRTFSettings())
//
//	direct, _ := acoustics.NewDirectEffect(ctx, audioSettings)
//	binaural, _ := acoustics.NewBinauralEffect(ctx, audioSettings, hrtf)
//
//	_ = direct.Apply(directParams, monoIn, monoDirect)
//	_ = binaural.Apply(binauralParams, monoDirect, stereoOut)
//
// # HRTF
//
// The HRTF models the head as a rigid sphere. For every point of an
// azimuth/elevation grid each ear gets a fractionally delayed impulse
// (Brown-Duda interaural delay) followed by a one-pole/one-zero head-shadow
// filter. Lookups pick the nearest grid point or blend the four surrounding
// ones.
//
// # Bands
//
// Air absorption and the direct effect use three bands split at
// BandSplitLow and BandSplitHigh.
package acoustics
