// Package mesh generates the procedural geometry used by the demo scene.
package mesh

import (
	"math"

	"foveal-renderer/internal/mathutil"
)

// Mesh holds per-vertex positions and normals and counter-clockwise index
// triples into them.
type Mesh struct {
	Positions []mathutil.Vec3
	Normals   []mathutil.Vec3
	Tris      [][3]int
}

// Transformed returns a copy with positions moved by m and normals by its
// normal matrix.
func (m Mesh) Transformed(t mathutil.Mat4) Mesh {
	nm := t.NormalMatrix()
	out := Mesh{
		Positions: make([]mathutil.Vec3, len(m.Positions)),
		Normals:   make([]mathutil.Vec3, len(m.Normals)),
		Tris:      m.Tris,
	}
	for i, p := range m.Positions {
		out.Positions[i] = t.MulPoint(p)
	}
	for i, n := range m.Normals {
		out.Normals[i] = nm.MulVec3(n).Normalize()
	}
	return out
}

// Append merges o into m, re-basing its indices.
func (m *Mesh) Append(o Mesh) {
	base := len(m.Positions)
	m.Positions = append(m.Positions, o.Positions...)
	m.Normals = append(m.Normals, o.Normals...)
	for _, t := range o.Tris {
		m.Tris = append(m.Tris, [3]int{t[0] + base, t[1] + base, t[2] + base})
	}
}

// UVSphere returns a latitude/longitude sphere centered on the origin.
func UVSphere(radius float64, rings, segments int) Mesh {
	if rings < 2 {
		rings = 2
	}
	if segments < 3 {
		segments = 3
	}
	var m Mesh
	for r := 0; r <= rings; r++ {
		theta := math.Pi * float64(r) / float64(rings)
		st, ct := math.Sin(theta), math.Cos(theta)
		for s := 0; s <= segments; s++ {
			phi := 2 * math.Pi * float64(s) / float64(segments)
			n := mathutil.Vec3{st * math.Cos(phi), ct, -st * math.Sin(phi)}
			m.Positions = append(m.Positions, n.Scale(radius))
			m.Normals = append(m.Normals, n)
		}
	}
	stride := segments + 1
	for r := 0; r < rings; r++ {
		for s := 0; s < segments; s++ {
			a := r*stride + s
			b := a + stride
			if r != 0 {
				m.Tris = append(m.Tris, [3]int{a, b, a + 1})
			}
			if r != rings-1 {
				m.Tris = append(m.Tris, [3]int{a + 1, b, b + 1})
			}
		}
	}
	return m
}

// Plane returns a square in the XZ plane facing +Y, split into n×n quads.
func Plane(size float64, n int) Mesh {
	if n < 1 {
		n = 1
	}
	var m Mesh
	half := size / 2
	for j := 0; j <= n; j++ {
		for i := 0; i <= n; i++ {
			x := -half + size*float64(i)/float64(n)
			z := -half + size*float64(j)/float64(n)
			m.Positions = append(m.Positions, mathutil.Vec3{x, 0, z})
			m.Normals = append(m.Normals, mathutil.Vec3{0, 1, 0})
		}
	}
	stride := n + 1
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			a := j*stride + i
			b := a + stride
			m.Tris = append(m.Tris, [3]int{a, b, a + 1}, [3]int{a + 1, b, b + 1})
		}
	}
	return m
}

// Cube returns an axis-aligned cube with flat per-face normals.
func Cube(size float64) Mesh {
	h := size / 2
	faces := []struct{ n, u, v mathutil.Vec3 }{
		{mathutil.Vec3{1, 0, 0}, mathutil.Vec3{0, 0, -1}, mathutil.Vec3{0, 1, 0}},
		{mathutil.Vec3{-1, 0, 0}, mathutil.Vec3{0, 0, 1}, mathutil.Vec3{0, 1, 0}},
		{mathutil.Vec3{0, 1, 0}, mathutil.Vec3{1, 0, 0}, mathutil.Vec3{0, 0, -1}},
		{mathutil.Vec3{0, -1, 0}, mathutil.Vec3{1, 0, 0}, mathutil.Vec3{0, 0, 1}},
		{mathutil.Vec3{0, 0, 1}, mathutil.Vec3{1, 0, 0}, mathutil.Vec3{0, 1, 0}},
		{mathutil.Vec3{0, 0, -1}, mathutil.Vec3{-1, 0, 0}, mathutil.Vec3{0, 1, 0}},
	}
	var m Mesh
	for _, f := range faces {
		base := len(m.Positions)
		c := f.n.Scale(h)
		for _, k := range [4][2]float64{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}} {
			p := c.Add(f.u.Scale(k[0] * h)).Add(f.v.Scale(k[1] * h))
			m.Positions = append(m.Positions, p)
			m.Normals = append(m.Normals, f.n)
		}
		m.Tris = append(m.Tris, [3]int{base, base + 1, base + 2}, [3]int{base, base + 2, base + 3})
	}
	return m
}
