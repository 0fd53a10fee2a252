// SPDX-License-Identifier: EPL-2.0

package render

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/audspatial/acoustics"
	"github.com/ik5/audspatial/internal/audiotest"
	"github.com/ik5/audspatial/spatial"
)

const (
	testRate      = 44100
	testFrameSize = 64
)

func newTestShared(t testing.TB, chain ChainConfig) *Shared {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	ctx, err := acoustics.NewContext(acoustics.ContextSettings{Logger: logrus.NewEntry(log)})
	require.NoError(t, err)

	shared, err := NewShared(ctx,
		acoustics.AudioSettings{SamplingRate: testRate, FrameSize: testFrameSize},
		acoustics.DefaultHRTFSettings(), chain)
	require.NoError(t, err)
	return shared
}

// passthrough renders mono input unchanged onto both ears.
func passthrough() ChainConfig { return ChainConfig{} }

func drain(r *Renderer) []float32 {
	var out []float32
	for {
		v, ok := r.Next()
		if !ok {
			return out
		}
		out = append(out, v)
	}
}

func TestRenderer_StartsPriming(t *testing.T) {
	t.Parallel()

	r, err := New(newTestShared(t, passthrough()), audiotest.NewSilentSource(testRate, 1, 10), nil, Options{})
	require.NoError(t, err)

	assert.Equal(t, Priming, r.State())
	assert.Equal(t, 2, r.ChannelCount())
	assert.Equal(t, testRate, r.SampleRate())

	_, known := r.CurrentFrameLen()
	assert.False(t, known)
	_, known = r.TotalDuration()
	assert.False(t, known)
}

func TestRenderer_RoundTripConsumesTwoFrames(t *testing.T) {
	t.Parallel()

	src := audiotest.NewRampSource(testRate, 1, 10*testFrameSize, 1)
	r, err := New(newTestShared(t, passthrough()), src, nil, Options{})
	require.NoError(t, err)

	// two frames of interleaved stereo
	for i := range 2 * testFrameSize * ChannelCount {
		v, ok := r.Next()
		require.True(t, ok)
		assert.Equal(t, float32(i/2), v, "sample %d", i)
	}

	assert.Equal(t, 2*testFrameSize, src.Generated())
	assert.Equal(t, uint64(2), r.FramesRendered())
	assert.Equal(t, Streaming, r.State())

	// the next pull crosses into the third frame
	v, ok := r.Next()
	require.True(t, ok)
	assert.Equal(t, float32(2*testFrameSize), v)
	assert.Equal(t, 3*testFrameSize, src.Generated())
	assert.Equal(t, uint64(3), r.FramesRendered())
}

func TestRenderer_ExactlyOneFrame(t *testing.T) {
	t.Parallel()

	src := audiotest.NewConstantSource(testRate, 1, testFrameSize, 0.5)
	var (
		calls     int
		finishErr error
	)
	r, err := New(newTestShared(t, passthrough()), src, nil, Options{
		OnFinish: func(_ *Renderer, err error) {
			calls++
			finishErr = err
		},
	})
	require.NoError(t, err)

	out := drain(r)
	assert.Len(t, out, testFrameSize*ChannelCount)
	assert.Equal(t, uint64(1), r.FramesRendered())
	assert.Equal(t, Exhausted, r.State())
	assert.NoError(t, r.Err())

	// terminal
	_, ok := r.Next()
	assert.False(t, ok)
	assert.Equal(t, 1, calls)
	assert.NoError(t, finishErr)
}

func TestRenderer_ShortUpstreamIsNotPadded(t *testing.T) {
	t.Parallel()

	src := audiotest.NewConstantSource(testRate, 1, testFrameSize+testFrameSize/2, 1)
	src.ChunkLimit = 7

	r, err := New(newTestShared(t, passthrough()), src, nil, Options{})
	require.NoError(t, err)

	out := drain(r)
	assert.Len(t, out, testFrameSize*ChannelCount)
	assert.Equal(t, Exhausted, r.State())
	assert.NoError(t, r.Err())
}

func TestRenderer_StereoSourceIsDownmixed(t *testing.T) {
	t.Parallel()

	src := audiotest.NewMockSource(testRate, 2, testFrameSize, func(_ int, ch int) float32 {
		return float32(ch) // 0 left, 1 right
	})

	r, err := New(newTestShared(t, passthrough()), src, nil, Options{})
	require.NoError(t, err)

	for _, v := range drain(r) {
		assert.Equal(t, float32(0.5), v)
	}
}

func TestRenderer_AppliesSpatialState(t *testing.T) {
	t.Parallel()

	cell := spatial.NewCell()
	listener := spatial.Identity(spatial.V(0, 0, 5))
	cell.Store(acoustics.ListenerRelative(listener, spatial.Identity(spatial.Zero)))

	r, err := New(newTestShared(t, DefaultChainConfig()), audiotest.NewImpulseSource(testRate, 1, 4*testFrameSize, 0), cell, Options{})
	require.NoError(t, err)

	_, ok := r.Next()
	require.True(t, ok)

	p := r.LastParams()
	assert.InDelta(t, 5.0, p.Distance, 1e-12)
	assert.InDelta(t, 0.2, p.Direct.DistanceAttenuation, 1e-12)
	assert.True(t, p.Binaural.Direction.ApproxEqual(spatial.V(0, 0, -1), 1e-5))

	// a source to the right is louder on the right
	cell.Store(acoustics.ListenerRelative(listener, spatial.Identity(spatial.V(3, 0, 5))))
	rr, err := New(newTestShared(t, DefaultChainConfig()), audiotest.NewImpulseSource(testRate, 1, 4*testFrameSize, 0), cell, Options{})
	require.NoError(t, err)

	out := drain(rr)
	var left, right float64
	for i := 0; i < len(out); i += 2 {
		left += float64(out[i]) * float64(out[i])
		right += float64(out[i+1]) * float64(out[i+1])
	}
	assert.Greater(t, right, left)
}

func TestRenderer_EffectFailureStopsOnlyThatRenderer(t *testing.T) {
	t.Parallel()

	bad := DefaultChainConfig()
	bad.DistanceAttenuation = acoustics.DistanceAttenuationFunc(func(float64) float64 { return math.NaN() })

	good := newTestShared(t, DefaultChainConfig())
	broken := *good
	broken.Chain = bad

	var finishErr error
	r, err := New(&broken, audiotest.NewSineSource(testRate, 1, 4*testFrameSize, 440), nil, Options{
		OnFinish: func(_ *Renderer, err error) { finishErr = err },
	})
	require.NoError(t, err)

	_, ok := r.Next()
	assert.False(t, ok)
	assert.Equal(t, Exhausted, r.State())
	assert.ErrorIs(t, r.Err(), acoustics.ErrNonFinite)
	assert.ErrorIs(t, finishErr, acoustics.ErrNonFinite)

	// the shared bundle is still usable
	other, err := New(good, audiotest.NewSineSource(testRate, 1, 2*testFrameSize, 440), nil, Options{})
	require.NoError(t, err)
	assert.Len(t, drain(other), 2*testFrameSize*ChannelCount)
	assert.NoError(t, other.Err())
}

func TestRenderer_PanicIsRecovered(t *testing.T) {
	t.Parallel()

	cfg := DefaultChainConfig()
	cfg.AirAbsorption = acoustics.AirAbsorptionFunc(func(float64) [3]float64 { panic("boom") })

	r, err := New(newTestShared(t, cfg), audiotest.NewSilentSource(testRate, 1, 4*testFrameSize), nil, Options{})
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		_, ok := r.Next()
		assert.False(t, ok)
	})
	assert.ErrorIs(t, r.Err(), ErrEffectPanic)
	assert.Equal(t, Exhausted, r.State())
}

func TestRenderer_UpstreamError(t *testing.T) {
	t.Parallel()

	errDecode := errors.New("corrupt page")
	src := audiotest.NewSilentSource(testRate, 1, 10*testFrameSize)
	src.FailAfter = testFrameSize + 3
	src.Err = errDecode

	r, err := New(newTestShared(t, passthrough()), src, nil, Options{})
	require.NoError(t, err)

	out := drain(r)
	assert.Len(t, out, testFrameSize*ChannelCount)
	assert.ErrorIs(t, r.Err(), errDecode)

	n, err := r.ReadSamples(make([]float32, 4))
	assert.Zero(t, n)
	assert.ErrorIs(t, err, errDecode)
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	shared := newTestShared(t, passthrough())

	_, err := New(shared, nil, nil, Options{})
	assert.ErrorIs(t, err, ErrNilSource)

	_, err = New(shared, audiotest.NewSilentSource(48000, 1, 10), nil, Options{})
	assert.ErrorIs(t, err, ErrSampleRateMismatch)

	_, err = New(nil, audiotest.NewSilentSource(testRate, 1, 10), nil, Options{})
	assert.ErrorIs(t, err, ErrIncompleteShared)

	_, err = New(&Shared{Context: shared.Context, Audio: shared.Audio}, audiotest.NewSilentSource(testRate, 1, 10), nil, Options{})
	assert.ErrorIs(t, err, ErrIncompleteShared)
}

func TestRenderer_ConcurrentRenderersDoNotInterfere(t *testing.T) {
	t.Parallel()

	shared := newTestShared(t, DefaultChainConfig())
	listener := spatial.Identity(spatial.Zero)

	type voice struct {
		at  int
		pos spatial.Vec3
	}
	voices := []voice{
		{at: 0, pos: spatial.V(-2, 0, 0)},
		{at: 3*testFrameSize + 5, pos: spatial.V(1, 1, -4)},
	}

	newRenderer := func(v voice) *Renderer {
		cell := spatial.NewCell()
		cell.Store(acoustics.ListenerRelative(listener, spatial.Identity(v.pos)))
		r, err := New(shared, audiotest.NewImpulseSource(testRate, 1, 8*testFrameSize, v.at), cell, Options{})
		require.NoError(t, err)
		return r
	}

	want := make([][]float32, len(voices))
	for i, v := range voices {
		want[i] = drain(newRenderer(v))
	}

	got := make([][]float32, len(voices))
	renderers := make([]*Renderer, len(voices))
	for i, v := range voices {
		renderers[i] = newRenderer(v)
	}

	var wg sync.WaitGroup
	for i, r := range renderers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i] = drain(r)
		}()
	}
	wg.Wait()

	for i := range voices {
		assert.Equal(t, want[i], got[i], "voice %d", i)
	}
	assert.NotEqual(t, want[0], want[1])
}

func TestRenderer_ReadAdapters(t *testing.T) {
	t.Parallel()

	shared := newTestShared(t, passthrough())

	r, err := New(shared, audiotest.NewRampSource(testRate, 1, testFrameSize, 0.25), nil, Options{})
	require.NoError(t, err)

	buf := make([]byte, 4*testFrameSize*ChannelCount+3)
	n, err := r.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 4*testFrameSize*ChannelCount, n)

	for i := range n / 4 {
		v := math.Float32frombits(binary.LittleEndian.Uint32(buf[4*i:]))
		assert.Equal(t, float32(i/2)*0.25, v)
	}

	n, err = r.Read(buf)
	assert.Zero(t, n)
	assert.ErrorIs(t, err, io.EOF)

	_, err = r.Read(make([]byte, 3))
	assert.ErrorIs(t, err, ErrShortBuffer)

	src := audiotest.NewSilentSource(testRate, 1, testFrameSize)
	rs, err := New(shared, src, nil, Options{})
	require.NoError(t, err)

	dst := make([]float32, 3*testFrameSize)
	n, err = rs.ReadSamples(dst)
	assert.Equal(t, 2*testFrameSize, n)
	assert.ErrorIs(t, err, io.EOF)

	require.NoError(t, rs.Close())
	assert.True(t, src.Closed())
}
