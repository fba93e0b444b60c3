package postprocess

import (
	"foveal-renderer/internal/mathutil"
	"foveal-renderer/internal/parallel"
	"foveal-renderer/internal/raster"
)

// SeparableBlur convolves src with k horizontally and then vertically,
// clamping samples at the image edges. The result is the same as summing the
// (2r+1)² neighborhood with weights k[i]·k[j], at O(2r) cost per pixel.
func SeparableBlur(src *raster.FrameBuffer, k Kernel) *raster.FrameBuffer {
	w, h := src.Width, src.Height
	r := k.Radius()
	tmp := raster.NewColorBuffer(w, h)
	dst := raster.NewColorBuffer(w, h)

	// Pass 1: rows (src -> tmp)
	parallel.Rows(h, func(y int) {
		row := src.Color[y*w*4 : (y+1)*w*4]
		out := tmp.Color[y*w*4 : (y+1)*w*4]
		for x := 0; x < w; x++ {
			var acc [4]float64
			for i := -r; i <= r; i++ {
				sx := mathutil.ClampInt(x+i, 0, w-1) * 4
				wt := k[i+r]
				acc[0] += row[sx] * wt
				acc[1] += row[sx+1] * wt
				acc[2] += row[sx+2] * wt
				acc[3] += row[sx+3] * wt
			}
			copy(out[x*4:x*4+4], acc[:])
		}
	})

	// Pass 2: columns (tmp -> dst)
	parallel.Rows(h, func(y int) {
		out := dst.Color[y*w*4 : (y+1)*w*4]
		for x := 0; x < w; x++ {
			var acc [4]float64
			for j := -r; j <= r; j++ {
				sy := mathutil.ClampInt(y+j, 0, h-1)
				si := (sy*w + x) * 4
				wt := k[j+r]
				acc[0] += tmp.Color[si] * wt
				acc[1] += tmp.Color[si+1] * wt
				acc[2] += tmp.Color[si+2] * wt
				acc[3] += tmp.Color[si+3] * wt
			}
			copy(out[x*4:x*4+4], acc[:])
		}
	})

	return dst
}
