// SPDX-License-Identifier: EPL-2.0

package acoustics

import "errors"

var (
	ErrInvalidSettings = errors.New("acoustics: invalid settings")
	ErrNilContext      = errors.New("acoustics: context is nil")
	ErrNilHRTF         = errors.New("acoustics: hrtf is nil")
	ErrFrameShape      = errors.New("acoustics: frame shape does not match effect")
	ErrNonFinite       = errors.New("acoustics: effect produced a non-finite sample")
	ErrNoSharedInputs  = errors.New("acoustics: simulator has no shared inputs")
)
