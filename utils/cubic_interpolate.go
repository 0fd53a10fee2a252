// SPDX-License-Identifier: EPL-2.0

package utils

// Float is the sample precision accepted by the helpers in this package.
type Float interface {
	~float32 | ~float64
}

// CubicInterpolate performs Catmull-Rom interpolation.
// x is the fractional position between y1 and y2 (0 <= x <= 1)
// y0, y1, y2, y3 are four consecutive samples
func CubicInterpolate[T Float](y0, y1, y2, y3, x T) T {
	a0 := -0.5*y0 + 1.5*y1 - 1.5*y2 + 0.5*y3
	a1 := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	a2 := -0.5*y0 + 0.5*y2
	a3 := y1

	return ((a0*x+a1)*x+a2)*x + a3
}

// CubicWeights returns the four Catmull-Rom tap weights for fractional
// position x, so that CubicInterpolate(y0..y3, x) == sum(w[i]*y[i]).
// It is used to place a fractionally delayed impulse into an FIR kernel.
func CubicWeights[T Float](x T) [4]T {
	return [4]T{
		CubicInterpolate[T](1, 0, 0, 0, x),
		CubicInterpolate[T](0, 1, 0, 0, x),
		CubicInterpolate[T](0, 0, 1, 0, x),
		CubicInterpolate[T](0, 0, 0, 1, x),
	}
}
