// SPDX-License-Identifier: EPL-2.0

package acoustics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ik5/audspatial/spatial"
)

func TestInverseDistance(t *testing.T) {
	t.Parallel()

	m := DefaultDistanceAttenuation()

	tests := []struct {
		distance float64
		want     float64
	}{
		{0, 1},
		{0.5, 1},
		{1, 1},
		{2, 0.5},
		{5, 0.2},
		{math.NaN(), 1},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, m.Gain(tt.distance), 1e-12, "Gain(%v)", tt.distance)
	}

	// an unset minimum falls back to one metre
	assert.InDelta(t, 1.0, InverseDistance{}.Gain(0.1), 1e-12)
	assert.InDelta(t, 0.1, InverseDistance{}.Gain(10), 1e-12)
}

func TestDistanceAttenuationFunc(t *testing.T) {
	t.Parallel()

	var m DistanceAttenuationModel = DistanceAttenuationFunc(func(d float64) float64 { return 1 / (1 + d*d) })
	assert.InDelta(t, 0.2, m.Gain(2), 1e-12)
}

func TestExponentialAirAbsorption(t *testing.T) {
	t.Parallel()

	m := DefaultAirAbsorption()

	assert.Equal(t, [3]float64{1, 1, 1}, m.Gains(0))
	assert.Equal(t, [3]float64{1, 1, 1}, m.Gains(-3))

	g := m.Gains(100)
	assert.InDelta(t, math.Exp(-0.02), g[0], 1e-12)
	assert.InDelta(t, math.Exp(-0.17), g[1], 1e-12)
	assert.InDelta(t, math.Exp(-1.82), g[2], 1e-12)
	assert.Greater(t, g[0], g[1])
	assert.Greater(t, g[1], g[2])
}

func TestAirAbsorptionFunc(t *testing.T) {
	t.Parallel()

	var m AirAbsorptionModel = AirAbsorptionFunc(func(float64) [3]float64 { return [3]float64{1, 0.5, 0.25} })
	assert.Equal(t, [3]float64{1, 0.5, 0.25}, m.Gains(7))
}

func TestDirectivity_OmnidirectionalIsAngleInvariant(t *testing.T) {
	t.Parallel()

	d := Directivity{DipoleWeight: 0, DipolePower: 1}

	for deg := 0.0; deg <= 180; deg += 15 {
		c := math.Cos(deg * math.Pi / 180)
		assert.InDelta(t, 1.0, d.Gain(c), 1e-12, "angle %v", deg)
	}
}

func TestDirectivity_DipoleVariesWithAngle(t *testing.T) {
	t.Parallel()

	d := Directivity{DipoleWeight: 1, DipolePower: 1}

	assert.InDelta(t, 1.0, d.Gain(1), 1e-12)
	assert.InDelta(t, 0.0, d.Gain(0), 1e-12)
	assert.InDelta(t, 1.0, d.Gain(-1), 1e-12)

	lo, hi := math.Inf(1), math.Inf(-1)
	for deg := 0.0; deg <= 180; deg += 5 {
		g := d.Gain(math.Cos(deg * math.Pi / 180))
		lo = math.Min(lo, g)
		hi = math.Max(hi, g)
	}
	assert.InDelta(t, 1.0, hi-lo, 1e-9)

	half := Directivity{DipoleWeight: 0.5, DipolePower: 1}
	assert.Less(t, 1-half.Gain(0), hi-lo)
}

func TestDirectivity_PowerSharpens(t *testing.T) {
	t.Parallel()

	c := math.Cos(math.Pi / 4)
	soft := Directivity{DipoleWeight: 1, DipolePower: 1}.Gain(c)
	sharp := Directivity{DipoleWeight: 1, DipolePower: 4}.Gain(c)
	assert.Less(t, sharp, soft)
}

func TestDirectivity_GainFor(t *testing.T) {
	t.Parallel()

	d := Directivity{DipoleWeight: 1, DipolePower: 1}
	src := spatial.Zero

	// listener in front of the source
	assert.InDelta(t, 1.0, d.GainFor(src, spatial.V(0, 0, -1), spatial.V(0, 0, -3)), 1e-12)
	// listener to the side
	assert.InDelta(t, 0.0, d.GainFor(src, spatial.V(0, 0, -1), spatial.V(2, 0, 0)), 1e-12)
	// no facing
	assert.InDelta(t, 1.0, d.GainFor(src, spatial.Zero, spatial.V(2, 0, 0)), 1e-12)
	// coincident
	assert.InDelta(t, 1.0, d.GainFor(src, spatial.V(0, 0, -1), src), 1e-12)
}
