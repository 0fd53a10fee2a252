// SPDX-License-Identifier: EPL-2.0

package acoustics

import (
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/ik5/audspatial/spatial"
)

// SharedInputs are the simulation inputs common to every source.
type SharedInputs struct {
	Listener spatial.Orientation
}

type sharedSnapshot struct {
	flags  SimulationFlags
	inputs SharedInputs
}

// Simulator holds the listener state shared by every source. Shared inputs
// and settings are published by atomic swap so the update side can push
// while renderers and other sources read.
type Simulator struct {
	ctx      *Context
	settings atomic.Pointer[SimulationSettings]
	shared   atomic.Pointer[sharedSnapshot]
	updates  atomic.Uint64
}

func NewSimulator(ctx *Context, settings SimulationSettings) (*Simulator, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	ctx.Logger().WithFields(logrus.Fields{
		"function":      "NewSimulator",
		"flags":         settings.Flags,
		"sampling_rate": settings.SamplingRate,
		"frame_size":    settings.FrameSize,
	}).Info("simulator created")

	sim := &Simulator{ctx: ctx}
	sim.settings.Store(&settings)
	return sim, nil
}

func (s *Simulator) Settings() SimulationSettings { return *s.settings.Load() }

// SetSettings replaces the simulation settings. Published shared inputs
// are kept and their flags are masked by the new settings from now on.
func (s *Simulator) SetSettings(settings SimulationSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	s.settings.Store(&settings)

	s.ctx.Logger().WithFields(logrus.Fields{
		"function":      "SetSettings",
		"flags":         settings.Flags,
		"sampling_rate": settings.SamplingRate,
		"frame_size":    settings.FrameSize,
	}).Info("simulator settings changed")

	return nil
}

// SetSharedInputs publishes the listener for the stages in flags. Flags
// outside the simulator's settings are ignored.
func (s *Simulator) SetSharedInputs(flags SimulationFlags, inputs SharedInputs) {
	s.shared.Store(&sharedSnapshot{flags: flags, inputs: inputs})
	s.updates.Add(1)
}

// SharedInputs returns the last published inputs and their flags.
func (s *Simulator) SharedInputs() (SharedInputs, SimulationFlags, bool) {
	snap := s.shared.Load()
	if snap == nil {
		return SharedInputs{}, 0, false
	}
	return snap.inputs, snap.flags & s.Settings().Flags, true
}

// Updates counts SetSharedInputs calls.
func (s *Simulator) Updates() uint64 { return s.updates.Load() }

// SourceState computes the spatial state of a source relative to the
// current listener.
func (s *Simulator) SourceState(source spatial.Orientation) (spatial.State, error) {
	snap := s.shared.Load()
	if snap == nil {
		return spatial.State{}, ErrNoSharedInputs
	}
	return ListenerRelative(snap.inputs.Listener, source), nil
}

// ListenerRelative builds the state of source as heard by listener.
// Direction is zero when both share a position.
func ListenerRelative(listener, source spatial.Orientation) spatial.State {
	return spatial.State{
		Direction:        listener.DirectionTo(source.Origin),
		SourcePosition:   source.Origin,
		ListenerPosition: listener.Origin,
		SourceAhead:      source.Ahead,
	}
}
