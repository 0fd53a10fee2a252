// SPDX-License-Identifier: EPL-2.0

package acoustics

import (
	"fmt"
	"math"
)

const (
	DefaultSamplingRate = 44100
	DefaultFrameSize    = 1024
)

// AudioSettings fixes the sample rate and the frame size every effect is
// built for.
type AudioSettings struct {
	SamplingRate int
	FrameSize    int
}

func DefaultAudioSettings() AudioSettings {
	return AudioSettings{SamplingRate: DefaultSamplingRate, FrameSize: DefaultFrameSize}
}

func (s AudioSettings) Validate() error {
	if s.SamplingRate <= 0 {
		return fmt.Errorf("%w: sampling rate must be > 0, got %d", ErrInvalidSettings, s.SamplingRate)
	}
	if s.FrameSize <= 0 {
		return fmt.Errorf("%w: frame size must be > 0, got %d", ErrInvalidSettings, s.FrameSize)
	}
	return nil
}

// HRTFInterpolation selects how impulse responses between measured grid
// points are obtained.
type HRTFInterpolation int

const (
	// InterpolationNearest uses the closest grid point.
	InterpolationNearest HRTFInterpolation = iota
	// InterpolationBilinear blends the four surrounding grid points.
	InterpolationBilinear
)

func (i HRTFInterpolation) String() string {
	switch i {
	case InterpolationNearest:
		return "nearest"
	case InterpolationBilinear:
		return "bilinear"
	default:
		return fmt.Sprintf("HRTFInterpolation(%d)", int(i))
	}
}

// ParseInterpolation maps "nearest" / "bilinear" to a HRTFInterpolation.
func ParseInterpolation(s string) (HRTFInterpolation, error) {
	switch s {
	case "nearest":
		return InterpolationNearest, nil
	case "bilinear", "":
		return InterpolationBilinear, nil
	default:
		return 0, fmt.Errorf("%w: unknown hrtf interpolation %q", ErrInvalidSettings, s)
	}
}

// HRTFSettings describes the synthetic spherical-head HRTF set.
type HRTFSettings struct {
	// Volume scales every impulse response.
	Volume float64
	// FilterLength is the impulse response length in taps.
	FilterLength int
	// HeadRadius in metres.
	HeadRadius float64
	// SpeedOfSound in metres per second.
	SpeedOfSound float64
	// Grid spacing in degrees.
	AzimuthStep   float64
	ElevationStep float64
}

func DefaultHRTFSettings() HRTFSettings {
	return HRTFSettings{
		Volume:        1,
		FilterLength:  128,
		HeadRadius:    0.0875,
		SpeedOfSound:  343,
		AzimuthStep:   15,
		ElevationStep: 15,
	}
}

func (s HRTFSettings) Validate() error {
	switch {
	case s.Volume < 0 || math.IsNaN(s.Volume) || math.IsInf(s.Volume, 0):
		return fmt.Errorf("%w: hrtf volume must be >= 0 and finite, got %v", ErrInvalidSettings, s.Volume)
	case s.FilterLength < 8:
		return fmt.Errorf("%w: hrtf filter length must be >= 8, got %d", ErrInvalidSettings, s.FilterLength)
	case !(s.HeadRadius > 0):
		return fmt.Errorf("%w: head radius must be > 0, got %v", ErrInvalidSettings, s.HeadRadius)
	case !(s.SpeedOfSound > 0):
		return fmt.Errorf("%w: speed of sound must be > 0, got %v", ErrInvalidSettings, s.SpeedOfSound)
	case !(s.AzimuthStep > 0 && s.AzimuthStep <= 180):
		return fmt.Errorf("%w: azimuth step must be in (0, 180], got %v", ErrInvalidSettings, s.AzimuthStep)
	case !(s.ElevationStep > 0 && s.ElevationStep <= 90):
		return fmt.Errorf("%w: elevation step must be in (0, 90], got %v", ErrInvalidSettings, s.ElevationStep)
	}
	return nil
}

// SimulationFlags select which simulation stages are active.
type SimulationFlags uint32

const (
	SimulationDirect SimulationFlags = 1 << iota
	SimulationReflections
	SimulationPathing

	SimulationAll = SimulationDirect | SimulationReflections | SimulationPathing
)

// Has reports whether every flag in f2 is set.
func (f SimulationFlags) Has(f2 SimulationFlags) bool { return f&f2 == f2 }

// SimulationSettings configures a Simulator.
type SimulationSettings struct {
	Flags        SimulationFlags
	SamplingRate int
	FrameSize    int
}

// SimulationSettingsFromAudio derives simulation settings matching audio.
func SimulationSettingsFromAudio(a AudioSettings) SimulationSettings {
	return SimulationSettings{
		Flags:        SimulationDirect,
		SamplingRate: a.SamplingRate,
		FrameSize:    a.FrameSize,
	}
}

func (s SimulationSettings) Validate() error {
	if s.Flags == 0 {
		return fmt.Errorf("%w: no simulation flags set", ErrInvalidSettings)
	}
	return AudioSettings{SamplingRate: s.SamplingRate, FrameSize: s.FrameSize}.Validate()
}
