// SPDX-License-Identifier: EPL-2.0

package spatial

import "sync/atomic"

// State is what the update side tells one renderer about its source.
type State struct {
	// Direction from listener to source in listener-local space; zero or unit length.
	Direction Vec3
	// World-space positions used for distance based effects.
	SourcePosition   Vec3
	ListenerPosition Vec3
	// SourceAhead is the world-space facing of the source, zero when unknown.
	SourceAhead Vec3
}

// Distance between source and listener.
func (s State) Distance() float64 {
	return s.SourcePosition.Distance(s.ListenerPosition)
}

// normalized returns s with every vector made safe for the audio side.
func (s State) normalized() State {
	s.Direction = s.Direction.NormalizeOrZero()
	s.SourceAhead = s.SourceAhead.NormalizeOrZero()
	if !s.SourcePosition.IsFinite() {
		s.SourcePosition = Zero
	}
	if !s.ListenerPosition.IsFinite() {
		s.ListenerPosition = Zero
	}
	return s
}

// Cell is a single-slot value shared by one writer (the update tick) and
// the renderer reading it once per frame. Store publishes a fresh copy with
// an atomic pointer swap so Load never blocks and never sees a torn State.
type Cell struct {
	v atomic.Pointer[State]
}

// NewCell returns a cell holding the zero State.
func NewCell() *Cell {
	c := &Cell{}
	c.v.Store(&State{})
	return c
}

// Store replaces the held state. Direction is renormalized on every write.
func (c *Cell) Store(s State) {
	n := s.normalized()
	c.v.Store(&n)
}

// Load returns a copy of the current state.
func (c *Cell) Load() State {
	if p := c.v.Load(); p != nil {
		return *p
	}
	return State{}
}

// SetDirection updates only the direction, keeping the positions. It is a
// read-modify-write and must only be called from the single writer.
func (c *Cell) SetDirection(dir Vec3) {
	s := c.Load()
	s.Direction = dir
	c.Store(s)
}
