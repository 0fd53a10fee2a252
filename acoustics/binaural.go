// SPDX-License-Identifier: EPL-2.0

package acoustics

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-dsp/dsp/conv"
	vecmath "github.com/cwbudde/algo-vecmath"
	"github.com/sirupsen/logrus"

	"github.com/ik5/audspatial/frame"
	"github.com/ik5/audspatial/spatial"
)

// BinauralParams drive one BinauralEffect.Apply call.
type BinauralParams struct {
	// Direction of the source in listener-local space.
	Direction     spatial.Vec3
	Interpolation HRTFInterpolation
	// SpatialBlend mixes the binaural signal (1) with the dry input sent
	// to both ears (0).
	SpatialBlend float64
}

// BinauralEffect renders a mono frame to a stereo frame by convolving it
// with the HRTF for the current direction. Each ear runs a streaming
// overlap-add convolver, so the tail of each frame carries into the next.
//
// When the direction changes a second pair of convolvers is built for the
// new impulse responses and primed with the recent input, and the frame is
// crossfaded from the old pair to the new one.
//
// An effect keeps per-stream state and must not be shared between streams.
type BinauralEffect struct {
	ctx       *Context
	hrtf      *HRTF
	frameSize int

	cur [2]*conv.StreamingOverlapAdd

	x       []float64
	history []float64 // most recent input, oldest first, a whole number of frames
	ir      [2][]float64
	wet     [2][]float64
	next    []float64
	scratch []float64
	fadeIn  []float64
	fadeOut []float64

	haveKernel bool
	lastDir    spatial.Vec3
	lastInterp HRTFInterpolation
}

func NewBinauralEffect(ctx *Context, audio AudioSettings, hrtf *HRTF) (*BinauralEffect, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if hrtf == nil {
		return nil, ErrNilHRTF
	}
	if err := audio.Validate(); err != nil {
		return nil, err
	}
	if audio != hrtf.AudioSettings() {
		return nil, fmt.Errorf("%w: effect %+v does not match hrtf %+v", ErrInvalidSettings, audio, hrtf.AudioSettings())
	}

	n := audio.FrameSize
	filterLen := hrtf.FilterLength()
	histFrames := (filterLen - 1 + n - 1) / n

	e := &BinauralEffect{
		ctx:       ctx,
		hrtf:      hrtf,
		frameSize: n,
		x:         make([]float64, n),
		history:   make([]float64, histFrames*n),
		next:      make([]float64, n),
		scratch:   make([]float64, n),
		fadeIn:    make([]float64, n),
		fadeOut:   make([]float64, n),
	}
	for ear := range 2 {
		e.ir[ear] = make([]float64, filterLen)
		e.wet[ear] = make([]float64, n)
	}
	for i := range n {
		w := float64(i+1) / float64(n)
		e.fadeIn[i] = w
		e.fadeOut[i] = 1 - w
	}

	ctx.Logger().WithFields(logrus.Fields{
		"function":      "NewBinauralEffect",
		"frame_size":    n,
		"filter_length": filterLen,
	}).Debug("binaural effect created")

	return e, nil
}

// Apply convolves the mono frame in into the stereo frame out.
func (e *BinauralEffect) Apply(p BinauralParams, in, out *frame.Frame) error {
	if in == nil || out == nil ||
		in.Channels() != 1 || in.Len() != e.frameSize ||
		out.Channels() != 2 || out.Len() != e.frameSize {
		return fmt.Errorf("%w: binaural effect wants 1x%d in and 2x%d out", ErrFrameShape, e.frameSize, e.frameSize)
	}

	src := in.Channel(0)
	for i, v := range src {
		e.x[i] = float64(v)
	}

	if err := e.render(p.Direction, p.Interpolation); err != nil {
		return err
	}
	e.remember()

	blend := math.Min(math.Max(p.SpatialBlend, 0), 1)

	for ear := range 2 {
		dst := out.Channel(ear)
		for i, w := range e.wet[ear] {
			v := blend*w + (1-blend)*e.x[i]
			if e.ctx.validation && (math.IsNaN(v) || math.IsInf(v, 0)) {
				return fmt.Errorf("%w: binaural ear %d sample %d", ErrNonFinite, ear, i)
			}
			dst[i] = float32(v)
		}
	}

	return nil
}

// render convolves e.x into e.wet, swapping in new convolvers when the
// direction changed since the last frame.
func (e *BinauralEffect) render(dir spatial.Vec3, interp HRTFInterpolation) error {
	if e.haveKernel && dir == e.lastDir && interp == e.lastInterp {
		for ear := range 2 {
			if err := e.cur[ear].ProcessBlockTo(e.wet[ear], e.x); err != nil {
				return fmt.Errorf("binaural effect: %w", err)
			}
		}
		return nil
	}

	if err := e.hrtf.ImpulseResponse(dir, interp, e.ir[earLeft], e.ir[earRight]); err != nil {
		return err
	}

	for ear := range 2 {
		c, err := conv.NewStreamingOverlapAdd(e.ir[ear], e.frameSize)
		if err != nil {
			return fmt.Errorf("binaural effect: %w", err)
		}

		if !e.haveKernel {
			if err := c.ProcessBlockTo(e.wet[ear], e.x); err != nil {
				return fmt.Errorf("binaural effect: %w", err)
			}
			e.cur[ear] = c
			continue
		}

		// prime the new convolver so its tail matches a stream that always
		// used the new response
		for off := 0; off < len(e.history); off += e.frameSize {
			if err := c.ProcessBlockTo(e.scratch, e.history[off:off+e.frameSize]); err != nil {
				return fmt.Errorf("binaural effect: %w", err)
			}
		}

		if err := e.cur[ear].ProcessBlockTo(e.wet[ear], e.x); err != nil {
			return fmt.Errorf("binaural effect: %w", err)
		}
		if err := c.ProcessBlockTo(e.next, e.x); err != nil {
			return fmt.Errorf("binaural effect: %w", err)
		}

		vecmath.MulBlockInPlace(e.wet[ear], e.fadeOut)
		vecmath.MulBlockInPlace(e.next, e.fadeIn)
		vecmath.AddBlockInPlace(e.wet[ear], e.next)

		e.cur[ear] = c
	}

	e.haveKernel = true
	e.lastDir = dir
	e.lastInterp = interp
	return nil
}

// remember shifts the current frame into the input history.
func (e *BinauralEffect) remember() {
	if len(e.history) == 0 {
		return
	}
	copy(e.history, e.history[e.frameSize:])
	copy(e.history[len(e.history)-e.frameSize:], e.x)
}

// Reset drops the convolution tail and the input history. The next frame
// starts on its own response without a crossfade.
func (e *BinauralEffect) Reset() {
	for ear := range 2 {
		if e.cur[ear] != nil {
			e.cur[ear].Reset()
		}
	}
	clear(e.history)
	e.haveKernel = false
}
