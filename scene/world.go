// SPDX-License-Identifier: EPL-2.0

package scene

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ik5/audspatial/acoustics"
	"github.com/ik5/audspatial/spatial"
)

var (
	ErrNoListener    = errors.New("scene: no listener")
	ErrUnknownEntity = errors.New("scene: unknown entity")
	ErrNilSimulator  = errors.New("scene: simulator is nil")
)

// EntityID identifies a scene entity. Lower ids win listener ties.
type EntityID uint64

type source struct {
	transform spatial.Orientation
	cell      *spatial.Cell
}

// World tracks the transforms of the listener and source entities and
// pushes them to the audio side on Sync. It stands in for the host scene
// graph: the application moves entities with SetTransform and calls Sync
// once per update tick (or lets Run do it).
type World struct {
	mu        sync.Mutex
	listeners map[EntityID]spatial.Orientation
	sources   map[EntityID]*source
	log       *logrus.Entry

	warnedListeners int
}

func NewWorld(log *logrus.Entry) *World {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &World{
		listeners: make(map[EntityID]spatial.Orientation),
		sources:   make(map[EntityID]*source),
		log:       log.WithField("component", "scene"),
	}
}

// SetListener marks id as a listener with transform o.
func (w *World) SetListener(id EntityID, o spatial.Orientation) {
	w.mu.Lock()
	defer w.mu.Unlock()

	delete(w.sources, id)
	w.listeners[id] = o
}

// AddSource marks id as a source and returns the cell its renderer should
// read. Adding an existing source updates its transform and returns the
// same cell.
func (w *World) AddSource(id EntityID, o spatial.Orientation) *spatial.Cell {
	w.mu.Lock()
	defer w.mu.Unlock()

	delete(w.listeners, id)
	if s, ok := w.sources[id]; ok {
		s.transform = o
		return s.cell
	}

	s := &source{transform: o, cell: spatial.NewCell()}
	w.sources[id] = s
	return s.cell
}

// SetTransform moves a listener or source.
func (w *World) SetTransform(id EntityID, o spatial.Orientation) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.listeners[id]; ok {
		w.listeners[id] = o
		return nil
	}
	if s, ok := w.sources[id]; ok {
		s.transform = o
		return nil
	}
	return fmt.Errorf("%w: %d", ErrUnknownEntity, id)
}

// Transform returns the current transform of id.
func (w *World) Transform(id EntityID) (spatial.Orientation, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if o, ok := w.listeners[id]; ok {
		return o, true
	}
	if s, ok := w.sources[id]; ok {
		return s.transform, true
	}
	return spatial.Orientation{}, false
}

// Remove forgets id. Cells handed out for it keep their last state.
func (w *World) Remove(id EntityID) {
	w.mu.Lock()
	defer w.mu.Unlock()

	delete(w.listeners, id)
	delete(w.sources, id)
}

// Listener returns the active listener: the one with the lowest id.
func (w *World) Listener() (EntityID, spatial.Orientation, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	id, ok := w.activeListener()
	return id, w.listeners[id], ok
}

func (w *World) activeListener() (EntityID, bool) {
	if len(w.listeners) == 0 {
		return 0, false
	}
	ids := make([]EntityID, 0, len(w.listeners))
	for id := range w.listeners {
		ids = append(ids, id)
	}
	return slices.Min(ids), true
}

// Sync pushes the listener to the simulator's shared inputs and writes the
// listener-relative state of every source into its cell. Calling it again
// without moving anything produces identical inputs and states.
func (w *World) Sync(sim *acoustics.Simulator) error {
	if sim == nil {
		return ErrNilSimulator
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	id, ok := w.activeListener()
	if !ok {
		return ErrNoListener
	}

	if n := len(w.listeners); n > 1 && n != w.warnedListeners {
		w.log.WithFields(logrus.Fields{
			"function":  "Sync",
			"listeners": n,
			"active":    id,
		}).Warn("more than one listener, using the lowest entity id")
	}
	w.warnedListeners = len(w.listeners)

	listener := w.listeners[id]
	sim.SetSharedInputs(acoustics.SimulationDirect, acoustics.SharedInputs{Listener: listener})

	for _, s := range w.sources {
		s.cell.Store(acoustics.ListenerRelative(listener, s.transform))
	}

	return nil
}

// UpdateFunc moves entities before a Run tick syncs them. elapsed is the
// time since Run started.
type UpdateFunc func(w *World, elapsed time.Duration) error

// Run calls the updates and then Sync every interval until ctx is done.
// Ticks without a listener are skipped; an update error stops the loop.
func (w *World) Run(ctx context.Context, interval time.Duration, sim *acoustics.Simulator, updates ...UpdateFunc) error {
	if interval <= 0 {
		return fmt.Errorf("scene: invalid update interval %v", interval)
	}

	log := w.log.WithField("function", "Run")
	log.WithField("interval", interval).Info("scene update loop started")

	start := time.Now()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("scene update loop stopped")
			return ctx.Err()
		case now := <-ticker.C:
			elapsed := now.Sub(start)
			for _, update := range updates {
				if err := update(w, elapsed); err != nil {
					return fmt.Errorf("scene update: %w", err)
				}
			}

			switch err := w.Sync(sim); {
			case errors.Is(err, ErrNoListener):
				log.Debug("tick without listener")
			case err != nil:
				return err
			}
		}
	}
}
