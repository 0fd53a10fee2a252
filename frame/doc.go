// SPDX-License-Identifier: EPL-2.0

// Package frame provides the fixed-size, fixed-channel-count sample block
// that the effect chain processes. A Frame is filled from an audio.Source in
// one call and read back per channel; its shape never changes after New.
package frame
