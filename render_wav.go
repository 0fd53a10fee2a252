// SPDX-License-Identifier: EPL-2.0

package audspatial

import (
	"fmt"
	"io"

	"github.com/ik5/audspatial/decode"
	"github.com/ik5/audspatial/render"
	"github.com/ik5/audspatial/utils"
)

// RenderToInt16 pulls r until it ends and returns the interleaved stereo
// stream as 16-bit PCM. bufferSize is the number of samples read per call;
// values below 2 use the renderer's own block size.
//
// The stream has no known length, so the whole rendering is held in memory.
// A renderer that stops with an error returns what was rendered so far
// together with that error.
func RenderToInt16(r *render.Renderer, bufferSize int) ([]int16, error) {
	if bufferSize < render.ChannelCount {
		bufferSize = r.BufSize()
	}

	pcm16 := make([]int16, 0, r.SampleRate()*render.ChannelCount)
	buf := make([]float32, bufferSize)

	for {
		n, err := r.ReadSamples(buf)
		if n > 0 {
			start := len(pcm16)
			pcm16 = append(pcm16, make([]int16, n)...)
			utils.FloatsToInt16(pcm16[start:], buf[:n])
		}

		if err == io.EOF {
			return pcm16, nil
		}
		if err != nil {
			return pcm16, fmt.Errorf("render: %w", err)
		}
	}
}

// RenderToWAV16 renders r to completion and writes it to w as a 16-bit
// stereo WAV at the renderer's sample rate. It returns the number of stereo
// frames written.
func RenderToWAV16(w io.Writer, r *render.Renderer) (int, error) {
	pcm16, err := RenderToInt16(r, 0)
	if err != nil {
		return 0, err
	}

	if err := decode.WriteWAV16(w, r.SampleRate(), render.ChannelCount, pcm16); err != nil {
		return 0, err
	}

	return len(pcm16) / render.ChannelCount, nil
}
