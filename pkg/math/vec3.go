// Package math provides float32 vector and matrix types for GPU-facing code.
package math

import "github.com/chewxy/math32"

// Epsilon is the magnitude below which a vector is treated as degenerate.
const Epsilon float32 = 1e-5

// Vec3 is a 3D vector.
type Vec3 struct {
	X, Y, Z float32
}

// Add returns v + other.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Scale returns v * scalar.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product.
func (v Vec3) Dot(other Vec3) float32 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product.
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		v.Y*other.Z - v.Z*other.Y,
		v.Z*other.X - v.X*other.Z,
		v.X*other.Y - v.Y*other.X,
	}
}

// Length returns the magnitude.
func (v Vec3) Length() float32 {
	return math32.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalize returns a unit vector, or the zero vector if v is degenerate.
func (v Vec3) Normalize() Vec3 {
	return v.NormalizeOr(Vec3{})
}

// NormalizeOr returns a unit vector, or fallback unchanged when the
// magnitude of v is below Epsilon.
func (v Vec3) NormalizeOr(fallback Vec3) Vec3 {
	l := v.Length()
	if l < Epsilon {
		return fallback
	}
	return Vec3{v.X / l, v.Y / l, v.Z / l}
}

// Array returns the components as an array.
func (v Vec3) Array() [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}
