// SPDX-License-Identifier: EPL-2.0

// Package scene is the listener/source synchronization step: a small
// entity registry whose Sync pushes the listener orientation into the
// acoustics simulator and each source's listener-relative state into the
// spatial.Cell its renderer reads.
//
// Sync runs on the update tick, never on the audio path. When several
// entities are listeners, the one with the lowest EntityID is used.
package scene
