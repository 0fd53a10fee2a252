// SPDX-License-Identifier: EPL-2.0

// Package geometry converts render meshes into the triangle soup used for
// acoustic geometry. It is a one-shot batch conversion and never touches
// the audio path.
package geometry
