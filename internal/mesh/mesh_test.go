package mesh

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foveal-renderer/internal/mathutil"
)

// faceNormal returns the unnormalized geometric normal of a CCW triangle.
func faceNormal(m Mesh, t [3]int) mathutil.Vec3 {
	a, b, c := m.Positions[t[0]], m.Positions[t[1]], m.Positions[t[2]]
	return b.Sub(a).Cross(c.Sub(a))
}

func assertOutwardWinding(t *testing.T, m Mesh) {
	t.Helper()
	for _, tri := range m.Tris {
		n := faceNormal(m, tri)
		if n.Len() < 1e-12 {
			continue
		}
		avg := m.Normals[tri[0]].Add(m.Normals[tri[1]]).Add(m.Normals[tri[2]])
		require.Positive(t, n.Dot(avg), "triangle %v winds against its normals", tri)
	}
}

func TestUVSphere(t *testing.T) {
	m := UVSphere(2, 8, 12)
	require.Len(t, m.Normals, len(m.Positions))
	assert.Len(t, m.Positions, 9*13)
	// Pole rows contribute one triangle per segment, the rest two.
	assert.Len(t, m.Tris, 12*(2*8-2))
	for i, p := range m.Positions {
		assert.InDelta(t, 2.0, p.Len(), 1e-12)
		assert.InDelta(t, 1.0, m.Normals[i].Len(), 1e-12)
	}
	assertOutwardWinding(t, m)

	small := UVSphere(1, 0, 0)
	assert.Len(t, small.Positions, 3*4)
}

func TestPlane(t *testing.T) {
	m := Plane(10, 3)
	assert.Len(t, m.Positions, 16)
	assert.Len(t, m.Tris, 18)
	for _, p := range m.Positions {
		assert.Equal(t, 0.0, p[1])
		assert.LessOrEqual(t, math.Abs(p[0]), 5.0)
		assert.LessOrEqual(t, math.Abs(p[2]), 5.0)
	}
	assertOutwardWinding(t, m)
}

func TestCube(t *testing.T) {
	m := Cube(4)
	assert.Len(t, m.Positions, 24)
	assert.Len(t, m.Tris, 12)
	for _, p := range m.Positions {
		for _, c := range p {
			assert.Equal(t, 2.0, math.Abs(c))
		}
	}
	assertOutwardWinding(t, m)
}

func TestTransformedAndAppend(t *testing.T) {
	m := Plane(2, 1)
	moved := m.Transformed(mathutil.FromMat3Translation(mathutil.RotX(math.Pi/2), mathutil.Vec3{0, 0, -5}))
	for i, n := range moved.Normals {
		assert.InDelta(t, 1.0, n[2], 1e-12)
		assert.InDelta(t, -5.0, moved.Positions[i][2], 1e-12)
	}
	assert.Equal(t, mathutil.Vec3{-1, 0, -1}, m.Positions[0], "source untouched")

	var scene Mesh
	scene.Append(m)
	scene.Append(moved)
	assert.Len(t, scene.Positions, 8)
	assert.Equal(t, [3]int{4, 6, 5}, scene.Tris[2])
	assertOutwardWinding(t, scene)
}
