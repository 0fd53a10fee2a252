// SPDX-License-Identifier: EPL-2.0

package render

import (
	"fmt"

	"github.com/ik5/audspatial/acoustics"
	"github.com/ik5/audspatial/frame"
	"github.com/ik5/audspatial/spatial"
)

// ChainConfig is the fixed per-engine configuration of the effect chain.
// Nil models fall back to the acoustics defaults.
type ChainConfig struct {
	DirectFlags         acoustics.DirectEffectFlags
	DistanceAttenuation acoustics.DistanceAttenuationModel
	AirAbsorption       acoustics.AirAbsorptionModel
	Directivity         acoustics.Directivity
	Interpolation       acoustics.HRTFInterpolation
	// SpatialBlend is passed to the binaural effect; 1 is fully binaural.
	SpatialBlend float64
}

func DefaultChainConfig() ChainConfig {
	return ChainConfig{
		DirectFlags:         acoustics.ApplyAllDirect,
		DistanceAttenuation: acoustics.DefaultDistanceAttenuation(),
		AirAbsorption:       acoustics.DefaultAirAbsorption(),
		Directivity:         acoustics.Directivity{DipoleWeight: 0, DipolePower: 1},
		Interpolation:       acoustics.InterpolationBilinear,
		SpatialBlend:        1,
	}
}

func (c ChainConfig) withDefaults() ChainConfig {
	if c.DistanceAttenuation == nil {
		c.DistanceAttenuation = acoustics.DefaultDistanceAttenuation()
	}
	if c.AirAbsorption == nil {
		c.AirAbsorption = acoustics.DefaultAirAbsorption()
	}
	return c
}

// Params are the per-frame propagation parameters derived from one
// spatial.State. They are recomputed for every frame.
type Params struct {
	Distance float64
	Direct   acoustics.DirectParams
	Binaural acoustics.BinauralParams
}

// Chain runs the direct-path effect and then the binaural effect over one
// frame. It owns both effects and so belongs to a single renderer.
type Chain struct {
	cfg      ChainConfig
	direct   *acoustics.DirectEffect
	binaural *acoustics.BinauralEffect
}

func NewChain(shared *Shared, cfg ChainConfig) (*Chain, error) {
	if err := shared.validate(); err != nil {
		return nil, err
	}

	direct, err := acoustics.NewDirectEffect(shared.Context, shared.Audio)
	if err != nil {
		return nil, fmt.Errorf("direct effect: %w", err)
	}

	binaural, err := acoustics.NewBinauralEffect(shared.Context, shared.Audio, shared.HRTF)
	if err != nil {
		return nil, fmt.Errorf("binaural effect: %w", err)
	}

	return &Chain{
		cfg:      cfg.withDefaults(),
		direct:   direct,
		binaural: binaural,
	}, nil
}

// Params evaluates attenuation, air absorption and directivity for state.
func (c *Chain) Params(state spatial.State) Params {
	d := state.Distance()

	return Params{
		Distance: d,
		Direct: acoustics.DirectParams{
			Flags:               c.cfg.DirectFlags,
			DistanceAttenuation: c.cfg.DistanceAttenuation.Gain(d),
			AirAbsorption:       c.cfg.AirAbsorption.Gains(d),
			Directivity:         c.cfg.Directivity.GainFor(state.SourcePosition, state.SourceAhead, state.ListenerPosition),
		},
		Binaural: acoustics.BinauralParams{
			Direction:     state.Direction,
			Interpolation: c.cfg.Interpolation,
			SpatialBlend:  c.cfg.SpatialBlend,
		},
	}
}

// Process renders the mono frame in into the stereo frame out, using direct
// as the intermediate mono buffer. Binaural rendering is always last so
// the direct-path gains apply once to the mono signal, not per ear.
func (c *Chain) Process(state spatial.State, in, direct, out *frame.Frame) (Params, error) {
	p := c.Params(state)

	if err := c.direct.Apply(p.Direct, in, direct); err != nil {
		return p, fmt.Errorf("direct effect: %w", err)
	}
	if err := c.binaural.Apply(p.Binaural, direct, out); err != nil {
		return p, fmt.Errorf("binaural effect: %w", err)
	}

	return p, nil
}

// Reset clears filter and convolution history.
func (c *Chain) Reset() {
	c.direct.Reset()
	c.binaural.Reset()
}
