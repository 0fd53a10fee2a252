// SPDX-License-Identifier: EPL-2.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ik5/audspatial/acoustics"
	"github.com/ik5/audspatial/render"
)

var ErrInvalid = errors.New("config: invalid")

// Config is the complete engine configuration. The zero value of a section
// is not meaningful; start from Default and override.
type Config struct {
	Audio       Audio       `yaml:"audio" json:"audio"`
	HRTF        HRTF        `yaml:"hrtf" json:"hrtf"`
	Direct      Direct      `yaml:"direct" json:"direct"`
	Directivity Directivity `yaml:"directivity" json:"directivity"`
	Simulation  Simulation  `yaml:"simulation" json:"simulation"`
	Log         Log         `yaml:"log" json:"log"`
}

// Audio fixes the processing rate and block size.
type Audio struct {
	// SampleRate in Hz. Sources must match it; nothing is resampled.
	SampleRate int `yaml:"sample_rate" json:"sample_rate"`
	// FrameSize is the DSP block length in samples per channel.
	// Default: 1024 (about 23ms at 44.1kHz)
	FrameSize int `yaml:"frame_size" json:"frame_size"`
	// Validation makes every effect reject NaN and Inf output.
	Validation bool `yaml:"validation" json:"validation"`
}

type HRTF struct {
	// Interpolation is "nearest" or "bilinear".
	Interpolation string  `yaml:"interpolation" json:"interpolation"`
	Volume        float64 `yaml:"volume" json:"volume"`
	FilterLength  int     `yaml:"filter_length" json:"filter_length"`
	// HeadRadius in metres.
	HeadRadius float64 `yaml:"head_radius" json:"head_radius"`
	// SpatialBlend is 1 for full binaural, 0 for dry mono on both ears.
	SpatialBlend float64 `yaml:"spatial_blend" json:"spatial_blend"`
}

// Direct selects and tunes the direct-path terms.
type Direct struct {
	DistanceAttenuation bool `yaml:"distance_attenuation" json:"distance_attenuation"`
	AirAbsorption       bool `yaml:"air_absorption" json:"air_absorption"`
	Directivity         bool `yaml:"directivity" json:"directivity"`
	// MinDistance is where inverse-distance falloff starts, in metres.
	MinDistance float64 `yaml:"min_distance" json:"min_distance"`
	// AirCoefficients are the low/mid/high exponential absorption
	// coefficients per metre.
	AirCoefficients [3]float64 `yaml:"air_coefficients" json:"air_coefficients"`
}

type Directivity struct {
	DipoleWeight float64 `yaml:"dipole_weight" json:"dipole_weight"`
	DipolePower  float64 `yaml:"dipole_power" json:"dipole_power"`
}

type Simulation struct {
	// UpdateRate is how often the scene is synced, in Hz.
	UpdateRate float64 `yaml:"update_rate" json:"update_rate"`
}

type Log struct {
	// Level is any logrus level name.
	Level string `yaml:"level" json:"level"`
	// Format is "text" or "json".
	Format string `yaml:"format" json:"format"`
}

// Default returns a Config with every stage enabled.
func Default() Config {
	h := acoustics.DefaultHRTFSettings()
	return Config{
		Audio: Audio{
			SampleRate: acoustics.DefaultSamplingRate,
			FrameSize:  acoustics.DefaultFrameSize,
		},
		HRTF: HRTF{
			Interpolation: acoustics.InterpolationBilinear.String(),
			Volume:        h.Volume,
			FilterLength:  h.FilterLength,
			HeadRadius:    h.HeadRadius,
			SpatialBlend:  1,
		},
		Direct: Direct{
			DistanceAttenuation: true,
			AirAbsorption:       true,
			Directivity:         true,
			MinDistance:         acoustics.DefaultDistanceAttenuation().MinDistance,
			AirCoefficients:     acoustics.DefaultAirAbsorption().Coefficients,
		},
		Directivity: Directivity{DipoleWeight: 0, DipolePower: 1},
		Simulation:  Simulation{UpdateRate: 60},
		Log:         Log{Level: "info", Format: "text"},
	}
}

// Load reads a YAML file on top of Default.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML on top of Default and validates the result. Unknown
// keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: parse: %w", ErrInvalid, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Marshal renders cfg as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate checks the configuration and that every section converts.
func (c *Config) Validate() error {
	if err := c.AudioSettings().Validate(); err != nil {
		return fmt.Errorf("%w: audio: %w", ErrInvalid, err)
	}
	if err := c.HRTFSettings().Validate(); err != nil {
		return fmt.Errorf("%w: hrtf: %w", ErrInvalid, err)
	}
	if _, err := acoustics.ParseInterpolation(c.HRTF.Interpolation); err != nil {
		return fmt.Errorf("%w: hrtf: %w", ErrInvalid, err)
	}
	if c.HRTF.SpatialBlend < 0 || c.HRTF.SpatialBlend > 1 {
		return fmt.Errorf("%w: spatial_blend must be in [0, 1], got %v", ErrInvalid, c.HRTF.SpatialBlend)
	}
	if c.Direct.MinDistance <= 0 {
		return fmt.Errorf("%w: min_distance must be positive, got %v", ErrInvalid, c.Direct.MinDistance)
	}
	for b, v := range c.Direct.AirCoefficients {
		if v < 0 {
			return fmt.Errorf("%w: air_coefficients[%d] must be >= 0, got %v", ErrInvalid, b, v)
		}
	}
	if c.Directivity.DipoleWeight < 0 || c.Directivity.DipoleWeight > 1 {
		return fmt.Errorf("%w: dipole_weight must be in [0, 1], got %v", ErrInvalid, c.Directivity.DipoleWeight)
	}
	if c.Directivity.DipolePower < 0 {
		return fmt.Errorf("%w: dipole_power must be >= 0, got %v", ErrInvalid, c.Directivity.DipolePower)
	}
	if c.Simulation.UpdateRate <= 0 {
		return fmt.Errorf("%w: update_rate must be positive, got %v", ErrInvalid, c.Simulation.UpdateRate)
	}
	if _, err := c.Log.logger(); err != nil {
		return fmt.Errorf("%w: log: %w", ErrInvalid, err)
	}
	return nil
}

func (c *Config) ContextSettings() acoustics.ContextSettings {
	return acoustics.ContextSettings{Validation: c.Audio.Validation}
}

func (c *Config) AudioSettings() acoustics.AudioSettings {
	return acoustics.AudioSettings{SamplingRate: c.Audio.SampleRate, FrameSize: c.Audio.FrameSize}
}

func (c *Config) HRTFSettings() acoustics.HRTFSettings {
	h := acoustics.DefaultHRTFSettings()
	h.Volume = c.HRTF.Volume
	h.FilterLength = c.HRTF.FilterLength
	h.HeadRadius = c.HRTF.HeadRadius
	return h
}

func (c *Config) SimulationSettings() acoustics.SimulationSettings {
	return acoustics.SimulationSettingsFromAudio(c.AudioSettings())
}

// ChainConfig converts the direct, directivity and hrtf sections. The
// configuration must be valid.
func (c *Config) ChainConfig() render.ChainConfig {
	var flags acoustics.DirectEffectFlags
	if c.Direct.DistanceAttenuation {
		flags |= acoustics.ApplyDistanceAttenuation
	}
	if c.Direct.AirAbsorption {
		flags |= acoustics.ApplyAirAbsorption
	}
	if c.Direct.Directivity {
		flags |= acoustics.ApplyDirectivity
	}

	interp, _ := acoustics.ParseInterpolation(c.HRTF.Interpolation)

	return render.ChainConfig{
		DirectFlags:         flags,
		DistanceAttenuation: acoustics.InverseDistance{MinDistance: c.Direct.MinDistance},
		AirAbsorption:       acoustics.ExponentialAirAbsorption{Coefficients: c.Direct.AirCoefficients},
		Directivity: acoustics.Directivity{
			DipoleWeight: c.Directivity.DipoleWeight,
			DipolePower:  c.Directivity.DipolePower,
		},
		Interpolation: interp,
		SpatialBlend:  c.HRTF.SpatialBlend,
	}
}

// UpdateInterval is the scene sync period.
func (c *Config) UpdateInterval() time.Duration {
	return time.Duration(float64(time.Second) / c.Simulation.UpdateRate)
}
