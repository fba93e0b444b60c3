package raster

import (
	"math"

	"foveal-renderer/internal/mathutil"
	"foveal-renderer/internal/shading"
)

// Vertex is a post-projection vertex with the varyings the fragment stage
// interpolates.
type Vertex struct {
	Window mathutil.Vec3 // x, y in pixels (y down), z = window depth in [0,1]
	InvW   float64       // 1/w_clip, for perspective-correct interpolation

	Color   mathutil.Vec3 // Gouraud: shaded vertex color
	Normal  mathutil.Vec3 // Phong: view-space normal
	ViewPos mathutil.Vec3 // Phong: view-space position
}

// FragmentShader shades an interpolated view-space normal and position.
type FragmentShader func(normal, position mathutil.Vec3) mathutil.Vec3

// RasterizeTriangle fills the pixels whose centers lie inside the triangle,
// with a less-than depth test against fb.Depth. Gouraud mode interpolates
// vertex colors; Phong mode interpolates normal and position and calls frag
// per pixel. Depth is interpolated linearly in window space, other varyings
// perspective-correctly.
//
// Zero allocations in the pixel loop.
func RasterizeTriangle(fb *FrameBuffer, v [3]Vertex, mode shading.Mode, frag FragmentShader) {
	x0, y0, z0 := v[0].Window[0], v[0].Window[1], v[0].Window[2]
	x1, y1, z1 := v[1].Window[0], v[1].Window[1], v[1].Window[2]
	x2, y2, z2 := v[2].Window[0], v[2].Window[1], v[2].Window[2]

	// Bounding box over pixel centers, clamped to the canvas before int
	// conversion.
	fw, fh := float64(fb.Width-1), float64(fb.Height-1)
	bx0 := math.Floor(math.Min(math.Min(x0, x1), x2))
	bx1 := math.Ceil(math.Max(math.Max(x0, x1), x2))
	by0 := math.Floor(math.Min(math.Min(y0, y1), y2))
	by1 := math.Ceil(math.Max(math.Max(y0, y1), y2))
	if !(bx0 <= fw && bx1 >= 0 && by0 <= fh && by1 >= 0) {
		return
	}
	minX := int(math.Max(bx0, 0))
	maxX := int(math.Min(bx1, fw))
	minY := int(math.Max(by0, 0))
	maxY := int(math.Min(by1, fh))

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-12 && det < 1e-12 {
		return
	}
	invDet := 1.0 / det

	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	const edgeTol = -1e-9

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) + 0.5 - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) + 0.5 - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1

			if w0 < edgeTol || w1 < edgeTol || w2 < edgeTol {
				continue
			}

			z := w0*z0 + w1*z1 + w2*z2
			idx := rowOff + sx
			if z < 0 || z > 1 || z >= fb.Depth[idx] {
				continue
			}

			// Perspective-correct weights
			p0 := w0 * v[0].InvW
			p1 := w1 * v[1].InvW
			p2 := w2 * v[2].InvW
			ps := p0 + p1 + p2
			if ps == 0 {
				continue
			}
			p0, p1, p2 = p0/ps, p1/ps, p2/ps

			var c mathutil.Vec3
			switch mode {
			case shading.Gouraud:
				c = mathutil.Lerp3(v[0].Color, v[1].Color, v[2].Color, p0, p1, p2)
			default:
				n := mathutil.Lerp3(v[0].Normal, v[1].Normal, v[2].Normal, p0, p1, p2)
				pos := mathutil.Lerp3(v[0].ViewPos, v[1].ViewPos, v[2].ViewPos, p0, p1, p2)
				c = frag(n, pos)
			}

			fb.Depth[idx] = z
			ci := idx * 4
			fb.Color[ci] = c[0]
			fb.Color[ci+1] = c[1]
			fb.Color[ci+2] = c[2]
			fb.Color[ci+3] = 1
		}
	}
}
