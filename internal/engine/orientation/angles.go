// Package orientation provides the rotation applied to the surface each frame,
// driven either by a mouse trackball or by a remote orientation sensor.
package orientation

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/kiss-anaglyph/pkg/math"
)

// Angles is a device orientation triple in radians.
// Alpha is the compass heading, Beta the front/back tilt, Gamma the left/right tilt.
type Angles struct {
	Alpha float32
	Beta  float32
	Gamma float32
}

const halfPi = math32.Pi / 2

// FromDegrees converts a degree triple to clamped radians.
func FromDegrees(alpha, beta, gamma float64) Angles {
	const rad = math32.Pi / 180
	return Angles{
		Alpha: float32(alpha) * rad,
		Beta:  float32(beta) * rad,
		Gamma: float32(gamma) * rad,
	}.Clamped()
}

// Clamped limits Beta and Gamma to [-π/2, π/2]. Alpha is left as is.
func (a Angles) Clamped() Angles {
	a.Beta = clamp(a.Beta, -halfPi, halfPi)
	a.Gamma = clamp(a.Gamma, -halfPi, halfPi)
	return a
}

// EulerMatrix returns RotZ(alpha) · RotX(beta) · RotY(gamma).
// The Y rotation is applied to vertices first.
func EulerMatrix(a Angles) math.Mat4 {
	return math.Chain(
		math.RotateZ(a.Alpha),
		math.RotateX(a.Beta),
		math.RotateY(a.Gamma),
	)
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
