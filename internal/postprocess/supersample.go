package postprocess

import (
	"foveal-renderer/internal/raster"
)

// Resolve reduces a frame rendered at factor s to its display size. Color
// is box-filtered over each s×s block with premultiplied alpha, so
// transparent background samples do not darken object edges, and stays
// unclamped. Depth takes the sample nearest each output pixel center,
// since an averaged depth belongs to no surface.
func Resolve(fb *raster.FrameBuffer, s int) *raster.FrameBuffer {
	if s <= 1 {
		return fb
	}
	w, h := fb.Width/s, fb.Height/s
	out := raster.NewColorBuffer(w, h)
	n := float64(s * s)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var r, g, b, a float64
			for sy := y * s; sy < (y+1)*s; sy++ {
				row := fb.Color[(sy*fb.Width+x*s)*4 : (sy*fb.Width+(x+1)*s)*4]
				for i := 0; i < len(row); i += 4 {
					al := row[i+3]
					r += row[i] * al
					g += row[i+1] * al
					b += row[i+2] * al
					a += al
				}
			}
			if a == 0 {
				continue
			}
			out.Set(x, y, [4]float64{r / a, g / a, b / a, a / n})
		}
	}
	if fb.Depth == nil {
		return out
	}
	out.Depth = make([]float64, w*h)
	for y := 0; y < h; y++ {
		sy := y*s + s/2
		for x := 0; x < w; x++ {
			out.Depth[y*w+x] = fb.Depth[sy*fb.Width+x*s+s/2]
		}
	}
	return out
}
