// SPDX-License-Identifier: EPL-2.0

package acoustics

// Material holds per-band (low, mid, high) acoustic surface properties.
type Material struct {
	Absorption   [3]float32
	Scattering   float32
	Transmission [3]float32
}

// Generic is a neutral, mostly reflective surface.
var Generic = Material{
	Absorption:   [3]float32{0.10, 0.20, 0.30},
	Scattering:   0.05,
	Transmission: [3]float32{0.100, 0.050, 0.030},
}
