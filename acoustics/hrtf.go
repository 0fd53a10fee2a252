// SPDX-License-Identifier: EPL-2.0

package acoustics

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"
	vecmath "github.com/cwbudde/algo-vecmath"
	"github.com/sirupsen/logrus"

	"github.com/ik5/audspatial/spatial"
	"github.com/ik5/audspatial/utils"
)

const (
	earLeft  = 0
	earRight = 1

	// minimum head-shadow alpha, reached at shadowAngle
	shadowAlphaMin = 0.1
	shadowAngle    = 150 * math.Pi / 180
)

// HRTF is a grid of left/right impulse responses from a rigid spherical
// head model: interaural delay after Brown and Duda plus a one-pole,
// one-zero head shadow filter per ear.
//
// An HRTF is built once and then only read, so one instance is shared by
// every BinauralEffect.
type HRTF struct {
	settings   HRTFSettings
	audio      AudioSettings
	azimuths   int
	elevations int
	azStep     float64
	elStep     float64
	// ir[(el*azimuths+az)*2+ear] has settings.FilterLength taps
	ir [][]float64
}

// NewHRTF synthesizes the impulse response grid for the given audio
// settings.
func NewHRTF(ctx *Context, audio AudioSettings, settings HRTFSettings) (*HRTF, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if err := audio.Validate(); err != nil {
		return nil, err
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	fs := float64(audio.SamplingRate)
	headDelay := settings.HeadRadius / settings.SpeedOfSound
	// largest delay in taps plus the cubic kernel's reach
	maxTap := int(math.Ceil(headDelay*(1+math.Pi/2)*fs)) + 3
	if maxTap >= settings.FilterLength {
		return nil, fmt.Errorf("%w: filter length %d too short for %d Hz, need more than %d taps",
			ErrInvalidSettings, settings.FilterLength, audio.SamplingRate, maxTap)
	}

	azimuths := max(1, int(math.Round(360/settings.AzimuthStep)))
	elevations := int(math.Round(180/settings.ElevationStep)) + 1

	h := &HRTF{
		settings:   settings,
		audio:      audio,
		azimuths:   azimuths,
		elevations: elevations,
		azStep:     360 / float64(azimuths),
		elStep:     180 / float64(elevations-1),
		ir:         make([][]float64, azimuths*elevations*2),
	}

	for el := range elevations {
		for az := range azimuths {
			dir := gridDirection(float64(az)*h.azStep, -90+float64(el)*h.elStep)
			base := (el*azimuths + az) * 2
			h.ir[base+earLeft] = h.synthesize(dir, spatial.V(-1, 0, 0))
			h.ir[base+earRight] = h.synthesize(dir, spatial.V(1, 0, 0))
		}
	}

	ctx.Logger().WithFields(logrus.Fields{
		"function":      "NewHRTF",
		"sampling_rate": audio.SamplingRate,
		"filter_length": settings.FilterLength,
		"grid":          fmt.Sprintf("%dx%d", azimuths, elevations),
	}).Info("hrtf synthesized")

	return h, nil
}

// FilterLength is the number of taps of every impulse response.
func (h *HRTF) FilterLength() int { return h.settings.FilterLength }

// AudioSettings the HRTF was built for.
func (h *HRTF) AudioSettings() AudioSettings { return h.audio }

// Grid returns the number of azimuth and elevation points.
func (h *HRTF) Grid() (azimuths, elevations int) { return h.azimuths, h.elevations }

// gridDirection converts azimuth (degrees clockwise from ahead towards the
// right) and elevation (degrees up) into a listener-local unit vector.
func gridDirection(azDeg, elDeg float64) spatial.Vec3 {
	az := azDeg * math.Pi / 180
	el := elDeg * math.Pi / 180
	return spatial.V(math.Cos(el)*math.Sin(az), math.Sin(el), -math.Cos(el)*math.Cos(az))
}

// angles is the inverse of gridDirection. The zero vector maps to straight ahead.
func angles(dir spatial.Vec3) (azDeg, elDeg float64) {
	dir = dir.NormalizeOrZero()
	if dir == spatial.Zero {
		return 0, 0
	}

	elDeg = math.Asin(math.Min(math.Max(dir.Y, -1), 1)) * 180 / math.Pi
	azDeg = math.Atan2(dir.X, -dir.Z) * 180 / math.Pi
	if azDeg < 0 {
		azDeg += 360
	}
	return azDeg, elDeg
}

// synthesize builds one ear's impulse response for a source in direction dir.
func (h *HRTF) synthesize(dir, ear spatial.Vec3) []float64 {
	fs := float64(h.audio.SamplingRate)
	a := h.settings.HeadRadius
	c := h.settings.SpeedOfSound

	theta := math.Acos(math.Min(math.Max(dir.Dot(ear), -1), 1))

	// path length difference around the sphere, offset so the nearest ear has zero delay
	var delay float64
	if theta < math.Pi/2 {
		delay = a / c * (1 - math.Cos(theta))
	} else {
		delay = a / c * (1 + theta - math.Pi/2)
	}

	ir := make([]float64, h.settings.FilterLength)

	// fractionally delayed impulse; one tap of headroom for the cubic kernel
	pos := delay*fs + 1
	n := int(math.Floor(pos))
	w := utils.CubicWeights(pos - float64(n))
	for k, wk := range w {
		ir[n-1+k] = wk
	}

	// head shadow: H(s) = (alpha*s + beta) / (s + beta), bilinear transformed
	alpha := (1 + shadowAlphaMin/2) + (1-shadowAlphaMin/2)*math.Cos(theta*math.Pi/shadowAngle)
	beta := 2 * c / a
	k := 2 * fs
	shadow := biquad.NewSection(biquad.Coefficients{
		B0: (alpha*k + beta) / (k + beta),
		B1: (beta - alpha*k) / (k + beta),
		A1: (beta - k) / (k + beta),
	})
	shadow.ProcessBlock(ir)
	vecmath.ScaleBlockInPlace(ir, h.settings.Volume)

	return ir
}

type gridWeight struct {
	index  int
	weight float64
}

// weights returns the grid points and blend weights for a direction.
func (h *HRTF) weights(dir spatial.Vec3, interp HRTFInterpolation, out *[4]gridWeight) int {
	azDeg, elDeg := angles(dir)

	fa := azDeg / h.azStep
	fe := (elDeg + 90) / h.elStep

	if interp == InterpolationNearest {
		az := int(math.Round(fa)) % h.azimuths
		el := min(int(math.Round(fe)), h.elevations-1)
		out[0] = gridWeight{index: el*h.azimuths + az, weight: 1}
		return 1
	}

	az0 := int(math.Floor(fa))
	ta := fa - float64(az0)
	az0 %= h.azimuths
	az1 := (az0 + 1) % h.azimuths

	el0 := min(int(math.Floor(fe)), h.elevations-1)
	te := fe - float64(el0)
	el1 := min(el0+1, h.elevations-1)

	out[0] = gridWeight{el0*h.azimuths + az0, (1 - te) * (1 - ta)}
	out[1] = gridWeight{el0*h.azimuths + az1, (1 - te) * ta}
	out[2] = gridWeight{el1*h.azimuths + az0, te * (1 - ta)}
	out[3] = gridWeight{el1*h.azimuths + az1, te * ta}
	return 4
}

// ImpulseResponse writes the interpolated left and right impulse responses
// for a listener-local direction into left and right, which must hold
// FilterLength taps.
func (h *HRTF) ImpulseResponse(dir spatial.Vec3, interp HRTFInterpolation, left, right []float64) error {
	if len(left) != h.settings.FilterLength || len(right) != h.settings.FilterLength {
		return fmt.Errorf("%w: impulse response buffers must hold %d taps", ErrFrameShape, h.settings.FilterLength)
	}

	var ws [4]gridWeight
	n := h.weights(dir, interp, &ws)

	clear(left)
	clear(right)
	for _, gw := range ws[:n] {
		if gw.weight == 0 {
			continue
		}
		l := h.ir[gw.index*2+earLeft]
		r := h.ir[gw.index*2+earRight]
		for i := range left {
			left[i] += gw.weight * l[i]
			right[i] += gw.weight * r[i]
		}
	}

	return nil
}
