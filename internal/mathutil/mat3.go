package mathutil

// Mat3 is a 3×3 matrix stored row-major: [r0c0, r0c1, r0c2, r1c0, ...].
// It carries rotations and normal matrices.
type Mat3 [9]float64

func Mat3Identity() Mat3 {
	return Mat3{1, 0, 0, 0, 1, 0, 0, 0, 1}
}

// Mat3FromRows builds a matrix from its three rows.
func Mat3FromRows(r0, r1, r2 Vec3) Mat3 {
	return Mat3{r0[0], r0[1], r0[2], r1[0], r1[1], r1[2], r2[0], r2[1], r2[2]}
}

// Row returns row r.
func (m Mat3) Row(r int) Vec3 {
	return Vec3{m[r*3], m[r*3+1], m[r*3+2]}
}

// At returns the element at row r, column c.
func (m Mat3) At(r, c int) float64 {
	return m[r*3+c]
}

// Mat3Mul returns a × b.
func Mat3Mul(a, b Mat3) Mat3 {
	bt := b.Transpose()
	var m Mat3
	for r := 0; r < 3; r++ {
		row := a.Row(r)
		for c := 0; c < 3; c++ {
			m[r*3+c] = row.Dot(bt.Row(c))
		}
	}
	return m
}

// MulVec3 returns M × v.
func (m Mat3) MulVec3(v Vec3) Vec3 {
	return Vec3{m.Row(0).Dot(v), m.Row(1).Dot(v), m.Row(2).Dot(v)}
}

func (m Mat3) Transpose() Mat3 {
	return Mat3{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}
}

// Cofactor returns the cofactor matrix. Its rows are the pairwise cross
// products of the rows of m.
func (m Mat3) Cofactor() Mat3 {
	r0, r1, r2 := m.Row(0), m.Row(1), m.Row(2)
	return Mat3FromRows(r1.Cross(r2), r2.Cross(r0), r0.Cross(r1))
}

// Det is the triple product of the rows.
func (m Mat3) Det() float64 {
	return m.Row(0).Dot(m.Row(1).Cross(m.Row(2)))
}

// InverseTranspose returns (M⁻¹)ᵀ = cof(M)/det(M). A singular matrix yields
// identity.
func (m Mat3) InverseTranspose() Mat3 {
	d := m.Det()
	if d == 0 {
		return Mat3Identity()
	}
	c := m.Cofactor()
	for i := range c {
		c[i] /= d
	}
	return c
}

// Inverse returns M⁻¹. A singular matrix yields identity.
func (m Mat3) Inverse() Mat3 {
	return m.InverseTranspose().Transpose()
}
