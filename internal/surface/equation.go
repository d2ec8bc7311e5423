// Package surface builds triangle meshes for the kiss surface
//
//	x = z²·√(1−z)·cos u,  y = z²·√(1−z)·sin u,  z = z
//
// over a regular (u, z) parameter grid.
package surface

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// tangentEpsilon is the magnitude below which the u-derivative is treated
// as degenerate. The surface pinches to a point at z = 0 and z = 1.
const tangentEpsilon = 1e-5

// fallbackTangent is returned wherever the u-derivative vanishes.
var fallbackTangent = r3.Vec{X: 1}

// radius returns z²·√(1−z), the distance of the surface from the z axis.
// It is NaN for z > 1.
func radius(z float64) float64 {
	return z * z * math.Sqrt(1-z)
}

// Position evaluates the kiss surface at parameter (u, z).
func Position(u, z float64) r3.Vec {
	r := radius(z)
	return r3.Vec{
		X: r * math.Cos(u),
		Y: r * math.Sin(u),
		Z: z,
	}
}

// DerivativeU returns ∂Position/∂u at (u, z), unnormalized.
func DerivativeU(u, z float64) r3.Vec {
	r := radius(z)
	return r3.Vec{
		X: -r * math.Sin(u),
		Y: r * math.Cos(u),
	}
}

// Tangent returns the unit u-tangent at (u, z), or (1, 0, 0) where the
// derivative is shorter than tangentEpsilon.
func Tangent(u, z float64) r3.Vec {
	return unitOr(DerivativeU(u, z), fallbackTangent, tangentEpsilon)
}

// unitOr returns v scaled to unit length, or fallback unchanged when
// |v| < eps. With eps = 0 only the exact zero vector falls back.
func unitOr(v, fallback r3.Vec, eps float64) r3.Vec {
	n := r3.Norm(v)
	if n == 0 || n < eps {
		return fallback
	}
	return r3.Scale(1/n, v)
}
