// SPDX-License-Identifier: EPL-2.0

// Package spatial holds the vector math and the shared spatial state
// exchanged between the scene update tick and the audio renderer.
//
// Listener-local space is right-handed with +X to the right, +Y up and the
// listener looking down -Z. A source straight ahead therefore has the
// direction (0, 0, -1).
//
// Cell is the only synchronization point between the two sides: the update
// tick calls Store, the renderer calls Load once per frame. Both are plain
// value copies through an atomic pointer, so the audio side never waits.
package spatial
