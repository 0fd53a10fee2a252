// SPDX-License-Identifier: EPL-2.0

package acoustics

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"
	"github.com/cwbudde/algo-dsp/dsp/filter/design"
	vecmath "github.com/cwbudde/algo-vecmath"
	"github.com/sirupsen/logrus"

	"github.com/ik5/audspatial/frame"
)

// DirectEffectFlags select which direct-path terms Apply uses.
type DirectEffectFlags uint32

const (
	ApplyDistanceAttenuation DirectEffectFlags = 1 << iota
	ApplyAirAbsorption
	ApplyDirectivity

	ApplyAllDirect = ApplyDistanceAttenuation | ApplyAirAbsorption | ApplyDirectivity
)

func (f DirectEffectFlags) Has(f2 DirectEffectFlags) bool { return f&f2 == f2 }

// DirectParams are the per-frame direct-path parameters. Terms whose flag
// is not set are treated as unity.
type DirectParams struct {
	Flags               DirectEffectFlags
	DistanceAttenuation float64
	AirAbsorption       [3]float64
	Directivity         float64
}

// BandGains folds the enabled terms into one linear gain per band.
func (p DirectParams) BandGains() [3]float64 {
	g := 1.0
	if p.Flags.Has(ApplyDistanceAttenuation) {
		g *= p.DistanceAttenuation
	}
	if p.Flags.Has(ApplyDirectivity) {
		g *= p.Directivity
	}

	gains := [3]float64{g, g, g}
	if p.Flags.Has(ApplyAirAbsorption) {
		for b := range gains {
			gains[b] *= p.AirAbsorption[b]
		}
	}
	return gains
}

// DirectEffect applies distance attenuation, air absorption and directivity
// to a mono frame. The signal is split into three bands by two Butterworth
// low-pass filters at BandSplitLow and BandSplitHigh: low = LP(low), mid =
// LP(high) - low, high = x - LP(high), so the bands always sum back to
// the input. Each band gain ramps linearly across the frame from the
// previous frame's value so gain changes do not click.
//
// An effect keeps per-stream state and must not be shared between streams.
type DirectEffect struct {
	ctx       *Context
	frameSize int

	lowCross  *biquad.Chain
	highCross *biquad.Chain

	x    []float64
	band [3][]float64
	ramp []float64
	sum  []float64

	prev     [3]float64
	havePrev bool
}

func NewDirectEffect(ctx *Context, audio AudioSettings) (*DirectEffect, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if err := audio.Validate(); err != nil {
		return nil, err
	}

	sr := float64(audio.SamplingRate)
	e := &DirectEffect{
		ctx:       ctx,
		frameSize: audio.FrameSize,
		lowCross:  splitFilter(BandSplitLow, sr),
		highCross: splitFilter(BandSplitHigh, sr),
		x:         make([]float64, audio.FrameSize),
		ramp:      make([]float64, audio.FrameSize),
		sum:       make([]float64, audio.FrameSize),
	}
	for b := range e.band {
		e.band[b] = make([]float64, audio.FrameSize)
	}

	ctx.Logger().WithFields(logrus.Fields{
		"function":   "NewDirectEffect",
		"frame_size": audio.FrameSize,
	}).Debug("direct effect created")

	return e, nil
}

// Apply writes the direct-path processed in into out. Both frames must be
// mono and frame-sized.
func (e *DirectEffect) Apply(p DirectParams, in, out *frame.Frame) error {
	if in == nil || out == nil ||
		in.Channels() != 1 || in.Len() != e.frameSize ||
		out.Channels() != 1 || out.Len() != e.frameSize {
		return fmt.Errorf("%w: direct effect wants 1x%d in and out", ErrFrameShape, e.frameSize)
	}

	gains := p.BandGains()
	for b, g := range gains {
		if math.IsNaN(g) || math.IsInf(g, 0) {
			return fmt.Errorf("%w: direct band %d gain %v", ErrNonFinite, b, g)
		}
	}
	prev := gains
	if e.havePrev {
		prev = e.prev
	}

	for i, v := range in.Channel(0) {
		e.x[i] = float64(v)
	}

	// the split filters always run so their state stays continuous when
	// the band gains start to differ
	low, mid, high := e.band[0], e.band[1], e.band[2]
	copy(low, e.x)
	copy(mid, e.x)
	e.lowCross.ProcessBlock(low)
	e.highCross.ProcessBlock(mid)
	for i, v := range e.x {
		high[i] = v - mid[i]
		mid[i] -= low[i]
	}

	if flat(prev) && flat(gains) {
		e.fillRamp(prev[0], gains[0])
		vecmath.MulBlock(e.sum, e.x, e.ramp)
	} else {
		clear(e.sum)
		for b := range e.band {
			e.fillRamp(prev[b], gains[b])
			vecmath.MulBlockInPlace(e.band[b], e.ramp)
			for i, v := range e.band[b] {
				e.sum[i] += v
			}
		}
	}

	dst := out.Channel(0)
	for i, v := range e.sum {
		if e.ctx.validation && (math.IsNaN(v) || math.IsInf(v, 0)) {
			return fmt.Errorf("%w: direct sample %d", ErrNonFinite, i)
		}
		dst[i] = float32(v)
	}

	e.prev = gains
	e.havePrev = true
	return nil
}

// fillRamp writes a linear ramp ending exactly at to on the last sample.
func (e *DirectEffect) fillRamp(from, to float64) {
	if from == to {
		for i := range e.ramp {
			e.ramp[i] = to
		}
		return
	}

	step := (to - from) / float64(len(e.ramp))
	for i := range e.ramp {
		e.ramp[i] = from + step*float64(i+1)
	}
	e.ramp[len(e.ramp)-1] = to
}

// Reset drops filter state and the gain history.
func (e *DirectEffect) Reset() {
	e.lowCross.Reset()
	e.highCross.Reset()
	e.havePrev = false
	e.prev = [3]float64{}
}

// splitFilter is a second-order Butterworth low-pass with its corner kept
// below Nyquist for low sample rates.
func splitFilter(freq, sampleRate float64) *biquad.Chain {
	freq = math.Min(freq, 0.45*sampleRate)
	return biquad.NewChain(design.ButterworthLP(freq, 2, sampleRate))
}

func flat(g [3]float64) bool { return g[0] == g[1] && g[1] == g[2] }
