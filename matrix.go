package ggl

import (
	"math"

	"golang.org/x/image/math/f64"
)

// Matrix is a 3x3 projective transformation in row-major order:
//
//	| m[0] m[1] m[2] |
//	| m[3] m[4] m[5] |
//	| m[6] m[7] m[8] |
//
// A point (x, y) maps to (x'/w', y'/w') where
//
//	x' = m[0]*x + m[1]*y + m[2]
//	y' = m[3]*x + m[4]*y + m[5]
//	w' = m[6]*x + m[7]*y + m[8]
//
// A surface transform maps destination coordinates into the surface's
// pixel space.
type Matrix f64.Mat3

// Identity returns the identity transformation matrix.
func Identity() Matrix {
	return Matrix{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// Affine returns the affine matrix x' = a*x + b*y + c, y' = d*x + e*y + f.
func Affine(a, b, c, d, e, f float64) Matrix {
	return Matrix{
		a, b, c,
		d, e, f,
		0, 0, 1,
	}
}

// Translate creates a translation matrix.
func Translate(x, y float64) Matrix {
	return Affine(1, 0, x, 0, 1, y)
}

// Scale creates a scaling matrix.
func Scale(x, y float64) Matrix {
	return Affine(x, 0, 0, 0, y, 0)
}

// Rotate creates a rotation matrix (angle in radians).
func Rotate(angle float64) Matrix {
	sin, cos := math.Sincos(angle)
	return Affine(cos, -sin, 0, sin, cos, 0)
}

// MatrixFromFixed converts a 16.16 fixed-point matrix.
func MatrixFromFixed(m [3][3]Fixed) Matrix {
	var r Matrix
	for i := range 3 {
		for j := range 3 {
			r[i*3+j] = m[i][j].Float()
		}
	}
	return r
}

// Multiply returns m * other: other is applied first.
func (m Matrix) Multiply(other Matrix) Matrix {
	var r Matrix
	for i := range 3 {
		for j := range 3 {
			r[i*3+j] = m[i*3]*other[j] + m[i*3+1]*other[3+j] + m[i*3+2]*other[6+j]
		}
	}
	return r
}

// Determinant returns the determinant of m.
func (m Matrix) Determinant() float64 {
	return m[0]*(m[4]*m[8]-m[5]*m[7]) -
		m[1]*(m[3]*m[8]-m[5]*m[6]) +
		m[2]*(m[3]*m[7]-m[4]*m[6])
}

// Invert returns the inverse of m. It returns false when m is singular.
func (m Matrix) Invert() (Matrix, bool) {
	det := m.Determinant()
	if math.Abs(det) < 1e-12 {
		return Matrix{}, false
	}
	inv := 1 / det
	return Matrix{
		(m[4]*m[8] - m[5]*m[7]) * inv,
		(m[2]*m[7] - m[1]*m[8]) * inv,
		(m[1]*m[5] - m[2]*m[4]) * inv,
		(m[5]*m[6] - m[3]*m[8]) * inv,
		(m[0]*m[8] - m[2]*m[6]) * inv,
		(m[2]*m[3] - m[0]*m[5]) * inv,
		(m[3]*m[7] - m[4]*m[6]) * inv,
		(m[1]*m[6] - m[0]*m[7]) * inv,
		(m[0]*m[4] - m[1]*m[3]) * inv,
	}, true
}

// Homogeneous applies m to (x, y, 1) without the projective divide.
func (m Matrix) Homogeneous(x, y float64) f64.Vec3 {
	return f64.Vec3{
		m[0]*x + m[1]*y + m[2],
		m[3]*x + m[4]*y + m[5],
		m[6]*x + m[7]*y + m[8],
	}
}

// TransformPoint applies m to a point. Points mapped to infinity are
// returned unchanged with ok == false.
func (m Matrix) TransformPoint(x, y float64) (float64, float64, bool) {
	v := m.Homogeneous(x, y)
	if v[2] == 0 {
		return x, y, false
	}
	return v[0] / v[2], v[1] / v[2], true
}

// TransformBox returns the bounding box of the transformed corners of b.
func (m Matrix) TransformBox(b BoxF) (BoxF, bool) {
	corners := [4][2]float64{{b.X1, b.Y1}, {b.X2, b.Y1}, {b.X2, b.Y2}, {b.X1, b.Y2}}
	out := BoxF{X1: math.Inf(1), Y1: math.Inf(1), X2: math.Inf(-1), Y2: math.Inf(-1)}
	for _, c := range corners {
		x, y, ok := m.TransformPoint(c[0], c[1])
		if !ok {
			return BoxF{}, false
		}
		out.X1, out.Y1 = min(out.X1, x), min(out.Y1, y)
		out.X2, out.Y2 = max(out.X2, x), max(out.Y2, y)
	}
	return out, true
}

// IsIdentity returns true if the matrix is the identity matrix.
func (m Matrix) IsIdentity() bool {
	return m == Identity()
}

// IsAffine reports whether the bottom row is (0, 0, 1).
func (m Matrix) IsAffine() bool {
	return m[6] == 0 && m[7] == 0 && m[8] == 1
}

// IsTranslation returns true if the matrix is only a translation.
func (m Matrix) IsTranslation() bool {
	return m[0] == 1 && m[1] == 0 && m[3] == 0 && m[4] == 1 && m.IsAffine()
}

// HasRotation reports whether m rotates or shears, that is whether
// axis-aligned edges stop being axis-aligned.
func (m Matrix) HasRotation() bool {
	return m[1] != 0 || m[3] != 0 || !m.IsAffine()
}
