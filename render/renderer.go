// SPDX-License-Identifier: EPL-2.0

package render

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ik5/audspatial/audio"
	"github.com/ik5/audspatial/frame"
	"github.com/ik5/audspatial/spatial"
)

// ChannelCount is the number of output channels of every renderer.
const ChannelCount = 2

// State is the renderer's position in its pull state machine.
type State int32

const (
	// Priming: nothing has been rendered yet.
	Priming State = iota
	// Streaming: a processed frame is buffered and being served.
	Streaming
	// Exhausted: upstream ended or an effect failed. Terminal.
	Exhausted
)

func (s State) String() string {
	switch s {
	case Priming:
		return "priming"
	case Streaming:
		return "streaming"
	case Exhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Options tune a Renderer.
type Options struct {
	// Logger overrides the shared context's logger.
	Logger *logrus.Entry
	// OnFinish is called once, from the pulling goroutine, when the
	// renderer becomes Exhausted. err is nil for a normal end of stream.
	OnFinish func(r *Renderer, err error)
}

// Renderer turns a mono Source into an interleaved binaural stream pulled
// one sample at a time. Every frame_size input samples are run through the
// effect chain as one block; the resulting stereo frame is then served
// L, R, L, R until it runs out and the next block is rendered.
//
// The spatial state is read from the cell once per block. A Renderer must be
// pulled from one goroutine at a time; State, FramesRendered and Err may be
// called from anywhere.
type Renderer struct {
	id         uuid.UUID
	src        audio.Source
	cell       *spatial.Cell
	chain      *Chain
	frameSize  int
	sampleRate int
	log        *logrus.Entry
	onFinish   func(*Renderer, error)

	in     *frame.Frame
	direct *frame.Frame
	// out is double buffered; cur is the block being served
	out    [2]*frame.Frame
	cur    int
	offset int
	right  bool

	last   Params
	state  atomic.Int32
	frames atomic.Uint64
	err    atomic.Pointer[error]
}

// New builds a renderer for src. Sources with more than one channel are
// downmixed with audio.MonoMixer. src must run at shared.Audio.SamplingRate;
// no resampling is done. A nil cell renders with the zero State.
func New(shared *Shared, src audio.Source, cell *spatial.Cell, opts Options) (*Renderer, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	if err := shared.validate(); err != nil {
		return nil, err
	}
	if src.SampleRate() != shared.Audio.SamplingRate {
		return nil, fmt.Errorf("%w: source %d Hz, engine %d Hz",
			ErrSampleRateMismatch, src.SampleRate(), shared.Audio.SamplingRate)
	}
	if src.Channels() != 1 {
		src = audio.NewMonoMixer(src)
	}

	chain, err := NewChain(shared, shared.Chain)
	if err != nil {
		return nil, err
	}

	size, sr := shared.Audio.FrameSize, shared.Audio.SamplingRate
	r := &Renderer{
		id:         uuid.New(),
		src:        src,
		cell:       cell,
		chain:      chain,
		frameSize:  size,
		sampleRate: sr,
		onFinish:   opts.OnFinish,
	}

	if r.in, err = frame.New(size, 1, sr); err != nil {
		return nil, err
	}
	if r.direct, err = frame.New(size, 1, sr); err != nil {
		return nil, err
	}
	for i := range r.out {
		if r.out[i], err = frame.New(size, ChannelCount, sr); err != nil {
			return nil, err
		}
	}

	log := opts.Logger
	if log == nil {
		log = shared.Context.Logger()
	}
	r.log = log.WithField("renderer", r.id.String())

	r.log.WithFields(logrus.Fields{
		"function":    "New",
		"sample_rate": sr,
		"frame_size":  size,
	}).Info("renderer created")

	return r, nil
}

func (r *Renderer) ID() uuid.UUID { return r.id }

// ChannelCount is always 2.
func (r *Renderer) ChannelCount() int { return ChannelCount }

// SampleRate is the source's native rate.
func (r *Renderer) SampleRate() int { return r.sampleRate }

// CurrentFrameLen reports that the stream has no fixed block length for
// the consumer.
func (r *Renderer) CurrentFrameLen() (int, bool) { return 0, false }

// TotalDuration reports that the stream is open ended.
func (r *Renderer) TotalDuration() (time.Duration, bool) { return 0, false }

func (r *Renderer) State() State { return State(r.state.Load()) }

// FramesRendered counts successfully produced output frames.
func (r *Renderer) FramesRendered() uint64 { return r.frames.Load() }

// Err returns the error that stopped the renderer, or nil if it is still
// running or reached the end of its source normally.
func (r *Renderer) Err() error {
	if p := r.err.Load(); p != nil {
		return *p
	}
	return nil
}

// LastParams returns the propagation parameters of the most recent block.
// Only valid on the pulling goroutine.
func (r *Renderer) LastParams() Params { return r.last }

// Next returns the next interleaved output sample, or false once the
// renderer is exhausted.
func (r *Renderer) Next() (float32, bool) {
	for {
		switch r.State() {
		case Exhausted:
			return 0, false
		case Streaming:
			if r.offset < r.frameSize {
				ch := 0
				if r.right {
					ch = 1
				}
				v := r.out[r.cur].Channel(ch)[r.offset]
				if r.right {
					r.offset++
				}
				r.right = !r.right
				return v, true
			}
		}

		if !r.render() {
			return 0, false
		}
	}
}

// render pulls one upstream frame and runs it through the chain into the
// idle output buffer.
func (r *Renderer) render() (ok bool) {
	defer func() {
		if p := recover(); p != nil {
			r.fail(fmt.Errorf("%w: %v", ErrEffectPanic, p))
			ok = false
		}
	}()

	filled, err := r.in.FillFrom(r.src)
	if err != nil {
		r.fail(fmt.Errorf("render: upstream: %w", err))
		return false
	}
	if !filled {
		r.finish(nil)
		return false
	}

	var st spatial.State
	if r.cell != nil {
		st = r.cell.Load()
	}

	next := 1 - r.cur
	params, err := r.chain.Process(st, r.in, r.direct, r.out[next])
	if err != nil {
		r.fail(fmt.Errorf("render: %w", err))
		return false
	}

	r.last = params
	r.cur = next
	r.offset = 0
	r.right = false
	r.frames.Add(1)
	r.state.Store(int32(Streaming))

	return true
}

func (r *Renderer) fail(err error) {
	r.err.Store(&err)
	r.log.WithFields(logrus.Fields{
		"function":        "render",
		"frames_rendered": r.frames.Load(),
		"error":           err,
	}).Error("renderer stopped")
	r.finish(err)
}

func (r *Renderer) finish(err error) {
	r.state.Store(int32(Exhausted))

	if err == nil {
		r.log.WithFields(logrus.Fields{
			"function":        "render",
			"frames_rendered": r.frames.Load(),
		}).Info("renderer finished")
	}

	if fn := r.onFinish; fn != nil {
		r.onFinish = nil
		fn(r, err)
	}
}

// Close releases the upstream source and ends the stream. It must not run
// concurrently with a pull.
func (r *Renderer) Close() error {
	if r.State() != Exhausted {
		r.finish(nil)
	}
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("renderer close: %w", err)
	}
	return nil
}
