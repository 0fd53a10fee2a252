// SPDX-License-Identifier: EPL-2.0

package decode

import "errors"

var (
	// ErrUnsupportedFormat is returned by Open for an unregistered extension.
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrNotWAVFile        = errors.New("not a WAV file")
	ErrNotAIFFFile       = errors.New("not an AIFF file")
	// ErrUnsupportedBitDepth covers bit depths other than 8, 16, 24 and 32
	// and non-PCM encodings.
	ErrUnsupportedBitDepth = errors.New("unsupported PCM bit depth")
	ErrInvalidChannels     = errors.New("channel count must be positive")
	ErrInvalidSampleCount  = errors.New("sample count is not a multiple of the channel count")
)
