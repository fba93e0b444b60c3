package raster

import "foveal-renderer/internal/mathutil"

// Clamped returns pixel (x, y) with coordinates clamped to the image bounds,
// so neighborhoods extending past an edge repeat the edge pixel.
func (fb *FrameBuffer) Clamped(x, y int) [4]float64 {
	x = mathutil.ClampInt(x, 0, fb.Width-1)
	y = mathutil.ClampInt(y, 0, fb.Height-1)
	return fb.At(x, y)
}

// ClampedDepth is the depth-plane counterpart of Clamped.
func (fb *FrameBuffer) ClampedDepth(x, y int) float64 {
	x = mathutil.ClampInt(x, 0, fb.Width-1)
	y = mathutil.ClampInt(y, 0, fb.Height-1)
	return fb.Depth[y*fb.Width+x]
}
