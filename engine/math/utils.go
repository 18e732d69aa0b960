package math

import "golang.org/x/exp/constraints"

// Clamp returns the value `f` clamped to the range [low, high].
// It works for any numeric type (integers and floats).
func Clamp[T constraints.Ordered](f, low, high T) T {
	if f < low {
		return low
	}
	if f > high {
		return high
	}
	return f
}

// InRange reports whether low <= f <= high.
func InRange[T constraints.Ordered](f, low, high T) bool {
	return f >= low && f <= high
}

// ClampColour clamps every channel of an RGBA colour to [0, 1].
func ClampColour(c Vec4) Vec4 {
	return Vec4{
		X: Clamp(c.X, 0, 1),
		Y: Clamp(c.Y, 0, 1),
		Z: Clamp(c.Z, 0, 1),
		W: Clamp(c.W, 0, 1),
	}
}
