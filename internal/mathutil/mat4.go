package mathutil

import "github.com/go-gl/mathgl/mgl64"

// Mat4 is a 4×4 matrix stored row-major (m[r*4+c]) acting on column
// vectors, so a product A·B applies B first. Element [r][c] here is the
// same element GLSL addresses as m[c][r].
type Mat4 [16]float64

func Mat4Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mat4Mul returns a × b.
func Mat4Mul(a, b Mat4) Mat4 {
	var m Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			m[r*4+c] = a[r*4+0]*b[0*4+c] + a[r*4+1]*b[1*4+c] +
				a[r*4+2]*b[2*4+c] + a[r*4+3]*b[3*4+c]
		}
	}
	return m
}

// At returns the element at row r, column c.
func (m Mat4) At(r, c int) float64 {
	return m[r*4+c]
}

// MulVec4 returns M × v.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2] + m[3]*v[3],
		m[4]*v[0] + m[5]*v[1] + m[6]*v[2] + m[7]*v[3],
		m[8]*v[0] + m[9]*v[1] + m[10]*v[2] + m[11]*v[3],
		m[12]*v[0] + m[13]*v[1] + m[14]*v[2] + m[15]*v[3],
	}
}

// MulPoint transforms a 3D point (w=1) by the affine part of the matrix.
func (m Mat4) MulPoint(v Vec3) Vec3 {
	return Vec3{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2] + m[3],
		m[4]*v[0] + m[5]*v[1] + m[6]*v[2] + m[7],
		m[8]*v[0] + m[9]*v[1] + m[10]*v[2] + m[11],
	}
}

// MulDir transforms a direction (w=0); translation is ignored.
func (m Mat4) MulDir(v Vec3) Vec3 {
	return m.Upper3().MulVec3(v)
}

func (m Mat4) Transpose() Mat4 {
	var t Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			t[c*4+r] = m[r*4+c]
		}
	}
	return t
}

// Upper3 returns the upper-left 3×3 block.
func (m Mat4) Upper3() Mat3 {
	return Mat3{
		m[0], m[1], m[2],
		m[4], m[5], m[6],
		m[8], m[9], m[10],
	}
}

// NormalMatrix returns the inverse transpose of the upper-left 3×3 block,
// which keeps normals perpendicular to surfaces under non-uniform scale.
func (m Mat4) NormalMatrix() Mat3 {
	return m.Upper3().InverseTranspose()
}

func (m Mat4) Det() float64 {
	return m.MGL().Det()
}

// Inverse returns M⁻¹. A singular matrix yields identity, matching Mat3.
func (m Mat4) Inverse() Mat4 {
	g := m.MGL()
	if g.Det() == 0 {
		return Mat4Identity()
	}
	return Mat4FromMGL(g.Inv())
}

// MGL converts to mathgl's column-major layout.
func (m Mat4) MGL() mgl64.Mat4 {
	var g mgl64.Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			g[c*4+r] = m[r*4+c]
		}
	}
	return g
}

// Mat4FromMGL converts from mathgl's column-major layout.
func Mat4FromMGL(g mgl64.Mat4) Mat4 {
	var m Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			m[r*4+c] = g[c*4+r]
		}
	}
	return m
}

// ColumnMajor32 returns the matrix in the float32 column-major layout a GL
// host uploads with uniformMatrix4fv.
func (m Mat4) ColumnMajor32() [16]float32 {
	var out [16]float32
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out[c*4+r] = float32(m[r*4+c])
		}
	}
	return out
}

// Translate returns a pure translation matrix.
func Translate(t Vec3) Mat4 {
	return Mat4{
		1, 0, 0, t[0],
		0, 1, 0, t[1],
		0, 0, 1, t[2],
		0, 0, 0, 1,
	}
}

// FromMat3Translation builds a 4×4 affine matrix from a 3×3 rotation and translation.
func FromMat3Translation(r Mat3, t Vec3) Mat4 {
	return Mat4{
		r[0], r[1], r[2], t[0],
		r[3], r[4], r[5], t[1],
		r[6], r[7], r[8], t[2],
		0, 0, 0, 1,
	}
}

// ApproxEqual compares element-wise within tol.
func (m Mat4) ApproxEqual(o Mat4, tol float64) bool {
	for i := 0; i < 16; i++ {
		d := m[i] - o[i]
		if d > tol || d < -tol {
			return false
		}
	}
	return true
}

// IsIdentity checks if the matrix is approximately identity.
func (m Mat4) IsIdentity() bool {
	return m.ApproxEqual(Mat4Identity(), 1e-8)
}
