// SPDX-License-Identifier: EPL-2.0

package audspatial

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ik5/audspatial/acoustics"
	"github.com/ik5/audspatial/audio"
	"github.com/ik5/audspatial/config"
	"github.com/ik5/audspatial/render"
	"github.com/ik5/audspatial/scene"
	"github.com/ik5/audspatial/spatial"
)

// ErrClosed is returned by Play once the engine is closed.
var ErrClosed = errors.New("audspatial: engine is closed")

// Option customizes New.
type Option func(*Engine)

// WithLogger replaces the logger built from the log section of the
// configuration.
func WithLogger(log *logrus.Entry) Option {
	return func(e *Engine) { e.log = log }
}

// Engine holds everything the renderers of one process share. All methods
// are safe for concurrent use.
type Engine struct {
	log *logrus.Entry
	sim *acoustics.Simulator

	shared   atomic.Pointer[render.Shared]
	interval atomic.Int64

	mu     sync.Mutex
	cfg    config.Config
	active map[uuid.UUID]*render.Renderer
	closed bool
}

// New validates cfg and builds the acoustics context, HRTF and simulator.
func New(cfg config.Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{active: make(map[uuid.UUID]*render.Renderer)}
	for _, opt := range opts {
		opt(e)
	}

	if e.log == nil {
		logger, err := cfg.Log.NewLogger(os.Stderr)
		if err != nil {
			return nil, err
		}
		e.log = logrus.NewEntry(logger)
	}

	shared, err := e.build(cfg)
	if err != nil {
		return nil, err
	}

	sim, err := acoustics.NewSimulator(shared.Context, cfg.SimulationSettings())
	if err != nil {
		return nil, fmt.Errorf("simulator: %w", err)
	}

	e.sim = sim
	e.cfg = cfg
	e.shared.Store(shared)
	e.interval.Store(int64(cfg.UpdateInterval()))

	e.log.WithFields(logrus.Fields{
		"function":      "New",
		"sample_rate":   shared.Audio.SamplingRate,
		"frame_size":    shared.Audio.FrameSize,
		"interpolation": shared.Chain.Interpolation,
	}).Info("engine initialized")

	return e, nil
}

func (e *Engine) build(cfg config.Config) (*render.Shared, error) {
	cs := cfg.ContextSettings()
	cs.Logger = e.log

	ctx, err := acoustics.NewContext(cs)
	if err != nil {
		return nil, fmt.Errorf("context: %w", err)
	}

	return render.NewShared(ctx, cfg.AudioSettings(), cfg.HRTFSettings(), cfg.ChainConfig())
}

// Play starts a renderer for src reading its spatial state from cell. The
// engine tracks it until it is exhausted or closed, so a consumer that stops
// pulling early must Close the renderer. Close on the engine releases the
// ones still tracked.
func (e *Engine) Play(src audio.Source, cell *spatial.Cell) (*render.Renderer, error) {
	r, err := render.New(e.shared.Load(), src, cell, render.Options{
		Logger:   e.log,
		OnFinish: e.finished,
	})
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		// the renderer owns src now
		_ = r.Close()
		return nil, ErrClosed
	}
	e.active[r.ID()] = r
	n := len(e.active)
	e.mu.Unlock()

	e.log.WithFields(logrus.Fields{
		"function": "Play",
		"renderer": r.ID().String(),
		"active":   n,
	}).Debug("renderer started")

	return r, nil
}

func (e *Engine) finished(r *render.Renderer, err error) {
	e.mu.Lock()
	delete(e.active, r.ID())
	e.mu.Unlock()
}

// Active returns the number of renderers that have not finished yet.
func (e *Engine) Active() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.active)
}

// Close closes every renderer that has not finished and makes later Play
// calls fail. No consumer may still be pulling from those renderers.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	open := make([]*render.Renderer, 0, len(e.active))
	for _, r := range e.active {
		open = append(open, r)
	}
	e.mu.Unlock()

	var errs []error
	for _, r := range open {
		if err := r.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	e.log.WithFields(logrus.Fields{
		"function": "Close",
		"closed":   len(open),
	}).Info("engine closed")

	return errors.Join(errs...)
}

// Simulator is the simulator scene updates are pushed into.
func (e *Engine) Simulator() *acoustics.Simulator { return e.sim }

// Shared returns the bundle new renderers are currently built from.
func (e *Engine) Shared() *render.Shared { return e.shared.Load() }

// Config returns the configuration in effect.
func (e *Engine) Config() config.Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// Reconfigure rebuilds the shared bundle from cfg and swaps it in. Renderers
// already playing keep the bundle they were created with; only later Play
// calls see the change. The simulator keeps its shared inputs and takes the
// new simulation settings.
func (e *Engine) Reconfigure(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	shared, err := e.build(cfg)
	if err != nil {
		return err
	}
	if err := e.sim.SetSettings(cfg.SimulationSettings()); err != nil {
		return fmt.Errorf("simulator: %w", err)
	}

	e.mu.Lock()
	e.cfg = cfg
	e.mu.Unlock()

	e.shared.Store(shared)
	e.interval.Store(int64(cfg.UpdateInterval()))

	e.log.WithFields(logrus.Fields{
		"function":    "Reconfigure",
		"sample_rate": shared.Audio.SamplingRate,
		"frame_size":  shared.Audio.FrameSize,
	}).Info("engine reconfigured")

	return nil
}

// UpdateInterval is the scene tick period from the simulation section.
func (e *Engine) UpdateInterval() time.Duration {
	return time.Duration(e.interval.Load())
}

// Run syncs w into the engine's simulator every UpdateInterval until ctx is
// done. The interval is read once, when Run starts.
func (e *Engine) Run(ctx context.Context, w *scene.World, updates ...scene.UpdateFunc) error {
	return w.Run(ctx, e.UpdateInterval(), e.sim, updates...)
}
