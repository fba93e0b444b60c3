package raster

import (
	"foveal-renderer/internal/mathutil"
	"foveal-renderer/internal/mesh"
	"foveal-renderer/internal/parallel"
	"foveal-renderer/internal/shading"
	"foveal-renderer/internal/transform"
)

// Object is a mesh with its surface material.
type Object struct {
	Mesh     mesh.Mesh
	Material shading.Material
}

// Render draws objects into fb. Lighting is given in world space and moved
// into view space once per call. The vertex stage runs in parallel; the
// triangle stage is serial because triangles share pixels.
func Render(fb *FrameBuffer, objects []Object, mats transform.Matrices, lighting shading.Lighting, mode shading.Mode) {
	viewLighting := lighting.ToViewSpace(mats.View)
	mvp := mats.MVP()
	w, h := float64(fb.Width), float64(fb.Height)

	for _, obj := range objects {
		m := obj.Mesh
		mat := obj.Material
		verts := make([]Vertex, len(m.Positions))
		clipW := make([]float64, len(m.Positions))

		parallel.For(len(m.Positions), func(i int) {
			p := m.Positions[i]
			clip := mvp.MulVec4(p.Point())
			clipW[i] = clip[3]
			if clip[3] <= 0 {
				return
			}
			ndc := clip.PerspectiveDivide()

			var n mathutil.Vec3
			if i < len(m.Normals) {
				n = m.Normals[i]
			}
			vx := Vertex{
				Window: mathutil.Vec3{
					(ndc[0] + 1) / 2 * w,
					(1 - ndc[1]) / 2 * h,
					(ndc[2] + 1) / 2,
				},
				InvW: 1 / clip[3],
			}
			if mode == shading.Gouraud {
				vx.Color, vx.ViewPos = shading.ShadeVertex(p, n, mats.ModelView, mats.NormalMatrix, mat, viewLighting)
			} else {
				vx.ViewPos = mats.ModelView.MulPoint(p)
				vx.Normal = mats.NormalMatrix.MulVec3(n)
			}
			verts[i] = vx
		})

		frag := func(n, pos mathutil.Vec3) mathutil.Vec3 {
			return shading.ShadeFragment(n, pos, mat, viewLighting)
		}

		for _, t := range m.Tris {
			if !validIndex(t, len(verts)) {
				continue
			}
			// No near-plane clipping: drop triangles reaching behind the eye.
			if clipW[t[0]] <= 0 || clipW[t[1]] <= 0 || clipW[t[2]] <= 0 {
				continue
			}
			RasterizeTriangle(fb, [3]Vertex{verts[t[0]], verts[t[1]], verts[t[2]]}, mode, frag)
		}
	}
}

func validIndex(t [3]int, n int) bool {
	for _, i := range t {
		if i < 0 || i >= n {
			return false
		}
	}
	return true
}
