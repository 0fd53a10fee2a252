// SPDX-License-Identifier: EPL-2.0

package render

import (
	"fmt"

	"github.com/ik5/audspatial/acoustics"
)

// Shared is the read-only bundle every renderer of one engine generation
// is built from. Nothing in it is mutated after construction, so any number
// of renderers may hold the same *Shared.
type Shared struct {
	Context *acoustics.Context
	HRTF    *acoustics.HRTF
	Audio   acoustics.AudioSettings
	Chain   ChainConfig
}

// NewShared builds the context-dependent parts of a bundle.
func NewShared(ctx *acoustics.Context, audio acoustics.AudioSettings, hrtf acoustics.HRTFSettings, chain ChainConfig) (*Shared, error) {
	h, err := acoustics.NewHRTF(ctx, audio, hrtf)
	if err != nil {
		return nil, fmt.Errorf("hrtf: %w", err)
	}

	return &Shared{
		Context: ctx,
		HRTF:    h,
		Audio:   audio,
		Chain:   chain,
	}, nil
}

func (s *Shared) validate() error {
	if s == nil || s.Context == nil || s.HRTF == nil {
		return ErrIncompleteShared
	}
	if err := s.Audio.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrIncompleteShared, err)
	}
	return nil
}
