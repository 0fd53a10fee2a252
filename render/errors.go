// SPDX-License-Identifier: EPL-2.0

package render

import "errors"

var (
	ErrNilSource          = errors.New("render: source is nil")
	ErrIncompleteShared   = errors.New("render: shared context, hrtf or audio settings missing")
	ErrSampleRateMismatch = errors.New("render: source sample rate does not match the engine")
	ErrEffectPanic        = errors.New("render: effect panicked")
	ErrShortBuffer        = errors.New("render: read buffer smaller than one sample")
)
