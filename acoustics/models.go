// SPDX-License-Identifier: EPL-2.0

package acoustics

import (
	"math"

	"github.com/ik5/audspatial/spatial"
)

// Band split frequencies, in Hz, shared by air absorption and the direct
// effect's equalizer: low < 800 <= mid < 8000 <= high.
const (
	BandSplitLow  = 800.0
	BandSplitHigh = 8000.0
)

// DistanceAttenuationModel maps source/listener distance to a linear gain.
type DistanceAttenuationModel interface {
	Gain(distance float64) float64
}

// InverseDistance is 1/d falloff, flat inside MinDistance.
type InverseDistance struct {
	MinDistance float64
}

func DefaultDistanceAttenuation() InverseDistance {
	return InverseDistance{MinDistance: 1}
}

func (m InverseDistance) Gain(distance float64) float64 {
	minDist := m.MinDistance
	if !(minDist > 0) {
		minDist = 1
	}
	if math.IsNaN(distance) {
		return 1 / minDist
	}
	return 1 / math.Max(distance, minDist)
}

// DistanceAttenuationFunc adapts a function to DistanceAttenuationModel.
type DistanceAttenuationFunc func(distance float64) float64

func (f DistanceAttenuationFunc) Gain(distance float64) float64 { return f(distance) }

// AirAbsorptionModel maps distance to per-band linear gains.
type AirAbsorptionModel interface {
	Gains(distance float64) [3]float64
}

// ExponentialAirAbsorption attenuates band b by exp(-Coefficients[b] * d).
type ExponentialAirAbsorption struct {
	Coefficients [3]float64
}

func DefaultAirAbsorption() ExponentialAirAbsorption {
	return ExponentialAirAbsorption{Coefficients: [3]float64{0.0002, 0.0017, 0.0182}}
}

func (m ExponentialAirAbsorption) Gains(distance float64) [3]float64 {
	if !(distance > 0) {
		return [3]float64{1, 1, 1}
	}

	var g [3]float64
	for b, c := range m.Coefficients {
		g[b] = math.Exp(-c * distance)
	}
	return g
}

// AirAbsorptionFunc adapts a function to AirAbsorptionModel.
type AirAbsorptionFunc func(distance float64) [3]float64

func (f AirAbsorptionFunc) Gains(distance float64) [3]float64 { return f(distance) }

// Directivity is a weighted dipole radiation pattern. DipoleWeight 0 is
// omnidirectional, 1 a pure dipole; DipolePower sharpens the lobes.
type Directivity struct {
	DipoleWeight float64
	DipolePower  float64
}

// Gain evaluates the pattern for the cosine of the angle between the
// source's facing and the direction towards the listener.
func (d Directivity) Gain(cosAngle float64) float64 {
	w := math.Min(math.Max(d.DipoleWeight, 0), 1)
	c := math.Min(math.Max(cosAngle, -1), 1)

	return math.Pow(math.Abs((1-w)+w*c), d.DipolePower)
}

// GainFor evaluates the pattern for a source at sourcePos facing
// sourceAhead heard from listenerPos. Without a facing, or with coincident
// positions, the source radiates equally in every direction.
func (d Directivity) GainFor(sourcePos, sourceAhead, listenerPos spatial.Vec3) float64 {
	ahead := sourceAhead.NormalizeOrZero()
	toListener := listenerPos.Sub(sourcePos).NormalizeOrZero()
	if ahead == spatial.Zero || toListener == spatial.Zero {
		return d.Gain(1)
	}
	return d.Gain(ahead.Dot(toListener))
}
