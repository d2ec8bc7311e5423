package math

import "github.com/chewxy/math32"

// Mat4 is a 4x4 matrix in column-major order (OpenGL compatible).
// Layout: [m0 m4 m8  m12]
//
//	[m1 m5 m9  m13]
//	[m2 m6 m10 m14]
//	[m3 m7 m11 m15]
type Mat4 [16]float32

// Identity returns an identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Frustum describes an (possibly asymmetric) perspective view volume.
// Left, Right, Bottom and Top are measured on the near plane.
type Frustum struct {
	Left, Right float32
	Bottom, Top float32
	Near, Far   float32
}

// Matrix returns the perspective projection matrix for f,
// equivalent to glFrustum.
func (f Frustum) Matrix() Mat4 {
	rl := 1.0 / (f.Right - f.Left)
	tb := 1.0 / (f.Top - f.Bottom)
	nf := 1.0 / (f.Near - f.Far)

	return Mat4{
		2 * f.Near * rl, 0, 0, 0,
		0, 2 * f.Near * tb, 0, 0,
		(f.Right + f.Left) * rl, (f.Top + f.Bottom) * tb, (f.Far + f.Near) * nf, -1,
		0, 0, 2 * f.Far * f.Near * nf, 0,
	}
}

// Perspective returns a symmetric perspective projection matrix.
// fovY is in radians, aspect is width/height.
func Perspective(fovY, aspect, near, far float32) Mat4 {
	top := near * math32.Tan(fovY/2)
	right := top * aspect
	return Frustum{Left: -right, Right: right, Bottom: -top, Top: top, Near: near, Far: far}.Matrix()
}

// Translate returns a translation matrix.
func Translate(x, y, z float32) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		x, y, z, 1,
	}
}

// RotateX returns a rotation matrix around the X axis.
// angle is in radians.
func RotateX(angle float32) Mat4 {
	c := math32.Cos(angle)
	s := math32.Sin(angle)

	return Mat4{
		1, 0, 0, 0,
		0, c, s, 0,
		0, -s, c, 0,
		0, 0, 0, 1,
	}
}

// RotateY returns a rotation matrix around the Y axis.
// angle is in radians.
func RotateY(angle float32) Mat4 {
	c := math32.Cos(angle)
	s := math32.Sin(angle)

	return Mat4{
		c, 0, -s, 0,
		0, 1, 0, 0,
		s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// RotateZ returns a rotation matrix around the Z axis.
// angle is in radians.
func RotateZ(angle float32) Mat4 {
	c := math32.Cos(angle)
	s := math32.Sin(angle)

	return Mat4{
		c, s, 0, 0,
		-s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// RotateAxis creates a rotation matrix around an arbitrary axis.
// The axis is normalized first; angle is in radians.
func RotateAxis(axis Vec3, angle float32) Mat4 {
	a := axis.Normalize()
	c := math32.Cos(angle)
	s := math32.Sin(angle)
	t := 1 - c

	x, y, z := a.X, a.Y, a.Z

	return Mat4{
		t*x*x + c, t*x*y + s*z, t*x*z - s*y, 0,
		t*x*y - s*z, t*y*y + c, t*y*z + s*x, 0,
		t*x*z + s*y, t*y*z - s*x, t*z*z + c, 0,
		0, 0, 0, 1,
	}
}

// Mul multiplies this matrix by another (m * other).
// The result applies other first, then m.
func (m Mat4) Mul(other Mat4) Mat4 {
	var result Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			result[col*4+row] =
				m[0*4+row]*other[col*4+0] +
					m[1*4+row]*other[col*4+1] +
					m[2*4+row]*other[col*4+2] +
					m[3*4+row]*other[col*4+3]
		}
	}
	return result
}

// Chain multiplies the matrices left to right: Chain(a, b, c) = a * b * c.
func Chain(ms ...Mat4) Mat4 {
	result := Identity()
	for _, m := range ms {
		result = result.Mul(m)
	}
	return result
}

// TransformPoint transforms a 3D point by this matrix (assumes w=1).
func (m Mat4) TransformPoint(p Vec3) Vec3 {
	x := m[0]*p.X + m[4]*p.Y + m[8]*p.Z + m[12]
	y := m[1]*p.X + m[5]*p.Y + m[9]*p.Z + m[13]
	z := m[2]*p.X + m[6]*p.Y + m[10]*p.Z + m[14]
	w := m[3]*p.X + m[7]*p.Y + m[11]*p.Z + m[15]
	if w != 0 && w != 1 {
		return Vec3{x / w, y / w, z / w}
	}
	return Vec3{x, y, z}
}

// ApproxEqual reports whether every element of m and other differ by at most tol.
func (m Mat4) ApproxEqual(other Mat4, tol float32) bool {
	for i := range m {
		if math32.Abs(m[i]-other[i]) > tol {
			return false
		}
	}
	return true
}

// Ptr returns a pointer to the first element (for OpenGL uniform calls).
func (m *Mat4) Ptr() *float32 {
	return &m[0]
}
