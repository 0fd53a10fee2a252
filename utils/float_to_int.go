// SPDX-License-Identifier: EPL-2.0

package utils

// FloatToInt16 clamps x to [-1, 1] and scales it to the int16 range.
func FloatToInt16[T Float](x T) int16 {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}
	// 32767 for positive max to avoid overflow
	return int16(x * 32767.0)
}

// FloatsToInt16 converts src into dst and returns the number converted,
// min(len(dst), len(src)).
func FloatsToInt16[T Float](dst []int16, src []T) int {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = FloatToInt16(src[i])
	}

	return n
}
