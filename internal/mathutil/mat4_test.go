package mathutil

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-9

func TestMat4MulOrder(t *testing.T) {
	// Translate after rotate: a point on +X rotated 90° about Y lands on -Z, then shifts.
	m := Mat4Mul(Translate(Vec3{1, 2, 3}), RotY4(math.Pi/2))
	got := m.MulPoint(Vec3{1, 0, 0})
	assert.InDelta(t, 1.0, got[0], tol)
	assert.InDelta(t, 2.0, got[1], tol)
	assert.InDelta(t, 2.0, got[2], tol)
}

func TestMat4InverseMatchesMGL(t *testing.T) {
	m := Mat4Mul(Translate(Vec3{10, -4, 7}), Mat4Mul(RotX4(0.3), RotY4(-1.1)))
	m[0] *= 2 // non-uniform scale

	inv := m.Inverse()
	want := Mat4FromMGL(m.MGL().Inv())
	assert.True(t, inv.ApproxEqual(want, 1e-9))
	assert.True(t, Mat4Mul(m, inv).IsIdentity())
}

func TestMat4InverseSingular(t *testing.T) {
	var zero Mat4
	assert.True(t, zero.Inverse().IsIdentity())
}

func TestMGLRoundTrip(t *testing.T) {
	g := mgl64.Translate3D(1, 2, 3)
	m := Mat4FromMGL(g)
	assert.Equal(t, 1.0, m.At(0, 3))
	assert.Equal(t, 2.0, m.At(1, 3))
	assert.Equal(t, 3.0, m.At(2, 3))
	assert.Equal(t, g, m.MGL())
}

func TestColumnMajor32(t *testing.T) {
	m := Translate(Vec3{5, 6, 7})
	cm := m.ColumnMajor32()
	assert.Equal(t, float32(5), cm[12])
	assert.Equal(t, float32(6), cm[13])
	assert.Equal(t, float32(7), cm[14])
}

func TestNormalMatrixKeepsPerpendicular(t *testing.T) {
	m := Mat4Identity()
	m[0] = 4 // stretch X
	n := m.NormalMatrix().MulVec3(Vec3{1, 1, 0}).Normalize()
	tangent := m.MulDir(Vec3{1, -1, 0})
	assert.InDelta(t, 0.0, n.Dot(tangent), tol)
}

func TestVec3(t *testing.T) {
	require.Equal(t, Vec3{}, Vec3{}.Normalize())

	r := Vec3{1, -1, 0}.Reflect(Vec3{0, 1, 0})
	assert.Equal(t, Vec3{1, 1, 0}, r)

	assert.Equal(t, Vec3{2, 6, 12}, Vec3{1, 2, 3}.Mul(Vec3{2, 3, 4}))

	p := Vec4{2, 4, 6, 2}.PerspectiveDivide()
	assert.Equal(t, Vec3{1, 2, 3}, p)
}

func TestMat3InverseTranspose(t *testing.T) {
	r := Mat3Mul(RotX(0.4), RotY(1.2))
	// Rotations are orthonormal: inverse equals transpose.
	inv := r.Inverse()
	tr := r.Transpose()
	for i := range inv {
		assert.InDelta(t, tr[i], inv[i], tol)
	}
	assert.Equal(t, Mat3Identity(), Mat3{}.Inverse())
}

func TestMat3InverseMatchesMGL(t *testing.T) {
	m := Mat3{2, -1, 0.5, 0.3, 4, 1, -2, 0.7, 3}
	var g mgl64.Mat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			g[c*3+r] = m.At(r, c)
		}
	}
	assert.InDelta(t, g.Det(), m.Det(), tol)

	want := g.Inv()
	inv := m.Inverse()
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			assert.InDelta(t, want[c*3+r], inv.At(r, c), tol)
		}
	}
	assert.Equal(t, m.Inverse().Transpose(), m.InverseTranspose())

	id := Mat3Mul(m, inv)
	for i, v := range Mat3Identity() {
		assert.InDelta(t, v, id[i], tol)
	}
}
